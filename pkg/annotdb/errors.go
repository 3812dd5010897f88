package annotdb

import "errors"

var (
	// ErrInvalidID is returned when an operation is given a nonpositive frame or object ID.
	ErrInvalidID = errors.New("IDs must be positive integers")

	// ErrUnknownObject is returned when a merge references an object with no records.
	ErrUnknownObject = errors.New("object has no records")

	// ErrOverlappingOccupancy is returned when a merge would place both identities in the same frame.
	ErrOverlappingOccupancy = errors.New("objects appear in the same frame")

	// ErrDuplicateOccupancy is returned when an insert would give an object two records in one frame.
	ErrDuplicateOccupancy = errors.New("object already occupies frame")

	// ErrDuplicateClass is returned when adding a class name that is already in the vocabulary.
	ErrDuplicateClass = errors.New("class already exists")

	// ErrNotFound is returned when opening an annotation file that does not exist.
	ErrNotFound = errors.New("annotation file not found")

	// ErrAnnotationFile is returned when an annotation file exists but cannot be read.
	ErrAnnotationFile = errors.New("annotation file unreadable")
)

package annotdb

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cyclopcam/dbh"
	"gorm.io/gorm"
)

// AddClass inserts a new name into the class vocabulary.
func (a *AnnotationDB) AddClass(name string) error {
	if err := a.db.Create(&Class{Name: name}).Error; err != nil {
		if isKeyViolation(err) {
			return fmt.Errorf("%w: %v", ErrDuplicateClass, name)
		}
		return err
	}
	return nil
}

// Classes returns the class vocabulary.
func (a *AnnotationDB) Classes() ([]string, error) {
	names := []string{}
	if err := a.db.Raw("SELECT name FROM class ORDER BY name").Scan(&names).Error; err != nil {
		return nil, err
	}
	return names, nil
}

// Add inserts a frame record for object objectID in the given frame.
func (a *AnnotationDB) Add(frame, objectID int64, class string, contour []Point, final bool) error {
	if frame <= 0 || objectID <= 0 {
		return fmt.Errorf("%w: frame %v, object %v", ErrInvalidID, frame, objectID)
	}
	rec := &FrameRecord{
		Frame:    frame,
		ObjectID: objectID,
		Class:    class,
		Contour:  dbh.MakeJSONField(contour),
		Final:    final,
	}
	if err := a.db.Create(rec).Error; err != nil {
		if isKeyViolation(err) {
			return fmt.Errorf("%w: object %v in frame %v", ErrDuplicateOccupancy, objectID, frame)
		}
		return err
	}
	return nil
}

// Remove deletes all records of objectID, across all frames.
// Removing an object that has no records is a no-op, not an error.
func (a *AnnotationDB) Remove(objectID int64) error {
	return a.db.Exec("DELETE FROM frame_record WHERE object_id = ?", objectID).Error
}

// RemoveFromFrame deletes objectID's record in one frame only.
func (a *AnnotationDB) RemoveFromFrame(objectID, frame int64) error {
	return a.db.Exec("DELETE FROM frame_record WHERE object_id = ? AND frame = ?", objectID, frame).Error
}

// Get returns all records in the given frame, ordered by object ID.
// A frame with no records yields an empty slice.
func (a *AnnotationDB) Get(frame int64) ([]FrameRecord, error) {
	recs := []FrameRecord{}
	if err := a.db.Where("frame = ?", frame).Order("object_id").Find(&recs).Error; err != nil {
		return nil, err
	}
	return recs, nil
}

// GetObject returns objectID's record in the given frame, or (nil, nil) if the
// object is not present there. Absence is a normal outcome, not an error.
func (a *AnnotationDB) GetObject(frame, objectID int64) (*FrameRecord, error) {
	rec := FrameRecord{}
	err := a.db.Where("frame = ? AND object_id = ?", frame, objectID).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	return &rec, nil
}

// ChangeClass sets the class of every record of objectID, across all frames.
// Vocabulary membership is not validated here; interactive callers pick from Classes().
func (a *AnnotationDB) ChangeClass(objectID int64, class string) error {
	return a.db.Exec("UPDATE frame_record SET class = ? WHERE object_id = ?", class, objectID).Error
}

// FinalizeObject marks objectID's record in the given frame as confirmed.
func (a *AnnotationDB) FinalizeObject(objectID, frame int64) error {
	return a.db.Exec("UPDATE frame_record SET final = 1 WHERE object_id = ? AND frame = ?", objectID, frame).Error
}

// FinalizeFrame marks every record in the given frame as confirmed.
func (a *AnnotationDB) FinalizeFrame(frame int64) error {
	return a.db.Exec("UPDATE frame_record SET final = 1 WHERE frame = ?", frame).Error
}

// MaxObjectID returns the largest object ID in the store, or 0 if there are no
// records. This seeds "next fresh ID" for interactive object creation.
func (a *AnnotationDB) MaxObjectID() (int64, error) {
	maxID := int64(0)
	if err := a.db.Raw("SELECT COALESCE(MAX(object_id), 0) FROM frame_record").Row().Scan(&maxID); err != nil {
		return 0, err
	}
	return maxID, nil
}

// ObjectIDs returns every distinct object ID in the store, ascending.
func (a *AnnotationDB) ObjectIDs() ([]int64, error) {
	ids := []int64{}
	if err := a.db.Raw("SELECT DISTINCT object_id FROM frame_record ORDER BY object_id").Scan(&ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// FramesOfObject returns the frame numbers in which objectID appears, ascending.
// An absent object yields an empty slice.
func (a *AnnotationDB) FramesOfObject(objectID int64) ([]int64, error) {
	frames := []int64{}
	if err := a.db.Raw("SELECT frame FROM frame_record WHERE object_id = ? ORDER BY frame", objectID).Scan(&frames).Error; err != nil {
		return nil, err
	}
	return frames, nil
}

// dbh.IsKeyViolation only knows the Postgres phrasing, and sqlite phrases unique
// key violations differently.
func isKeyViolation(err error) bool {
	return dbh.IsKeyViolation(err) || strings.Contains(err.Error(), "UNIQUE constraint failed")
}

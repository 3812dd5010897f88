package annotdb

import (
	"github.com/cyclopcam/dbh"
)

// Point is one contour vertex, in pixel coordinates of the source video.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// FrameRecord is one observation of one object in one frame.
// The (frame, object_id) pair is unique: an object occupies a frame at most once.
type FrameRecord struct {
	Frame    int64                   `gorm:"primaryKey;autoIncrement:false" json:"frame"`    // 1-based index into the video timeline
	ObjectID int64                   `gorm:"primaryKey;autoIncrement:false" json:"objectID"` // Stable identity of a tracked object across frames
	Class    string                  `json:"class"`                                          // Name in the class vocabulary
	Contour  *dbh.JSONField[[]Point] `json:"contour"`                                        // Polygon vertices, in drawing order
	Final    bool                    `json:"final"`                                          // Confirmed annotation, as opposed to predicted/provisional
}

// ContourPoints returns the polygon vertices of the record.
func (r *FrameRecord) ContourPoints() []Point {
	if r.Contour == nil {
		return nil
	}
	return r.Contour.Data
}

// Class is one entry in the class vocabulary.
// A class may exist with zero frame records referencing it.
type Class struct {
	Name string `gorm:"primaryKey" json:"name"`
}

package annotdb

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cyclopcam/logs"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) *AnnotationDB {
	t.Helper()
	db, err := Create(logs.NewTestingLog(t), filepath.Join(t.TempDir(), "test"+Suffix), "video.mp4")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func square(x, y, size int) []Point {
	return []Point{{x, y}, {x + size, y}, {x + size, y + size}, {x, y + size}}
}

func TestAddAndGet(t *testing.T) {
	db := setup(t)

	contour := square(10, 20, 5)
	require.NoError(t, db.Add(3, 7, "person", contour, false))

	recs, err := db.Get(3)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	require.Equal(t, int64(3), recs[0].Frame)
	require.Equal(t, int64(7), recs[0].ObjectID)
	require.Equal(t, "person", recs[0].Class)
	require.Equal(t, contour, recs[0].ContourPoints())
	require.False(t, recs[0].Final)

	rec, err := db.GetObject(3, 7)
	require.NoError(t, err)
	require.NotNil(t, rec)
	require.Equal(t, contour, rec.ContourPoints())

	// Absence is a normal outcome
	rec, err = db.GetObject(3, 99)
	require.NoError(t, err)
	require.Nil(t, rec)

	recs, err = db.Get(4)
	require.NoError(t, err)
	require.Empty(t, recs)
}

func TestOccupancyInvariant(t *testing.T) {
	db := setup(t)

	require.NoError(t, db.Add(1, 1, "car", square(0, 0, 4), false))
	err := db.Add(1, 1, "car", square(5, 5, 4), false)
	require.ErrorIs(t, err, ErrDuplicateOccupancy)

	// Same object in another frame, and another object in the same frame, are both fine
	require.NoError(t, db.Add(2, 1, "car", square(0, 0, 4), false))
	require.NoError(t, db.Add(1, 2, "car", square(5, 5, 4), false))

	require.ErrorIs(t, db.Add(0, 1, "car", square(0, 0, 4), false), ErrInvalidID)
	require.ErrorIs(t, db.Add(1, -3, "car", square(0, 0, 4), false), ErrInvalidID)
}

func TestMaxObjectID(t *testing.T) {
	db := setup(t)

	maxID, err := db.MaxObjectID()
	require.NoError(t, err)
	require.Equal(t, int64(0), maxID)

	for i, id := range []int64{3, 7, 2} {
		require.NoError(t, db.Add(int64(i+1), id, "person", square(0, 0, 4), false))
	}
	maxID, err = db.MaxObjectID()
	require.NoError(t, err)
	require.Equal(t, int64(7), maxID)

	ids, err := db.ObjectIDs()
	require.NoError(t, err)
	require.Equal(t, []int64{2, 3, 7}, ids)
}

func TestRemove(t *testing.T) {
	db := setup(t)

	require.NoError(t, db.Add(1, 5, "person", square(0, 0, 4), false))
	require.NoError(t, db.Add(2, 5, "person", square(0, 0, 4), false))
	require.NoError(t, db.Add(3, 5, "person", square(0, 0, 4), false))

	require.NoError(t, db.RemoveFromFrame(5, 2))
	frames, err := db.FramesOfObject(5)
	require.NoError(t, err)
	require.Equal(t, []int64{1, 3}, frames)

	require.NoError(t, db.Remove(5))
	frames, err = db.FramesOfObject(5)
	require.NoError(t, err)
	require.Empty(t, frames)

	// Removing an absent object is a no-op
	require.NoError(t, db.Remove(999))
}

func TestChangeClassAndFinalize(t *testing.T) {
	db := setup(t)

	require.NoError(t, db.Add(1, 5, "person", square(0, 0, 4), false))
	require.NoError(t, db.Add(2, 5, "person", square(0, 0, 4), false))
	require.NoError(t, db.Add(2, 6, "car", square(5, 5, 4), false))

	require.NoError(t, db.ChangeClass(5, "bicycle"))
	for _, frame := range []int64{1, 2} {
		rec, err := db.GetObject(frame, 5)
		require.NoError(t, err)
		require.Equal(t, "bicycle", rec.Class)
	}
	rec, err := db.GetObject(2, 6)
	require.NoError(t, err)
	require.Equal(t, "car", rec.Class)

	require.NoError(t, db.FinalizeObject(5, 1))
	rec, err = db.GetObject(1, 5)
	require.NoError(t, err)
	require.True(t, rec.Final)
	rec, err = db.GetObject(2, 5)
	require.NoError(t, err)
	require.False(t, rec.Final)

	require.NoError(t, db.FinalizeFrame(2))
	for _, id := range []int64{5, 6} {
		rec, err = db.GetObject(2, id)
		require.NoError(t, err)
		require.True(t, rec.Final)
	}
}

func TestClasses(t *testing.T) {
	db := setup(t)

	classes, err := db.Classes()
	require.NoError(t, err)
	require.Empty(t, classes)

	require.NoError(t, db.AddClass("person"))
	require.NoError(t, db.AddClass("car"))
	require.ErrorIs(t, db.AddClass("person"), ErrDuplicateClass)

	classes, err = db.Classes()
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"person", "car"}, classes)
}

func TestCursorPersistence(t *testing.T) {
	logger := logs.NewTestingLog(t)
	path := filepath.Join(t.TempDir(), "cursor"+Suffix)

	db, err := Create(logger, path, "video.mp4")
	require.NoError(t, err)
	require.Equal(t, int64(1), db.CurrentFrame())
	require.Equal(t, "video.mp4", db.VideoPath())

	require.NoError(t, db.SetCurrentFrame(42))
	require.NoError(t, db.Close())

	db, err = Open(logger, path)
	require.NoError(t, err)
	defer db.Close()
	require.Equal(t, int64(42), db.CurrentFrame())
	require.Equal(t, "video.mp4", db.VideoPath())
}

func TestOpenErrors(t *testing.T) {
	logger := logs.NewTestingLog(t)

	_, err := Open(logger, filepath.Join(t.TempDir(), "absent"+Suffix))
	require.ErrorIs(t, err, ErrNotFound)

	// A present but corrupt file is reported distinctly from a missing one
	corrupt := filepath.Join(t.TempDir(), "corrupt"+Suffix)
	require.NoError(t, os.WriteFile(corrupt, []byte("this is not a database"), 0666))
	_, err = Open(logger, corrupt)
	require.ErrorIs(t, err, ErrAnnotationFile)
}

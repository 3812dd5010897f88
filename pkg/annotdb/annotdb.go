// Package annotdb owns the durable annotation file: frame records, the class
// vocabulary, and the session cursor. One AnnotationDB owns one sqlite file.
//
// Every mutating call commits before it returns. There is no write buffer, so a
// crash can never lose an acknowledged mutation.
package annotdb

import (
	"fmt"
	"os"

	"github.com/cyclopcam/dbh"
	"github.com/cyclopcam/logs"
	"gorm.io/gorm"
)

// Suffix identifies annotation files on disk.
const Suffix = ".atc"

// AnnotationDB is the annotation store for one video.
// A single AnnotationDB instance owns its file exclusively; callers serialize access.
type AnnotationDB struct {
	log      logs.Log
	db       *gorm.DB
	filename string

	videoPath    string
	currentFrame int64
}

// Create makes a new annotation file at annotPath, for the video at videoPath.
// The cursor starts at frame 1. Fails if annotPath already exists.
func Create(logger logs.Log, annotPath, videoPath string) (*AnnotationDB, error) {
	if _, err := os.Stat(annotPath); err == nil {
		return nil, fmt.Errorf("annotation file '%v' already exists", annotPath)
	}
	db, err := dbh.OpenDB(logger, dbh.MakeSqliteConfig(annotPath), Migrations(logger), 0)
	if err != nil {
		return nil, fmt.Errorf("failed to create annotation file %v: %w", annotPath, err)
	}
	if err := db.Exec("INSERT INTO session (video_path, current_frame) VALUES (?, ?)", videoPath, 1).Error; err != nil {
		closeGorm(db)
		return nil, err
	}
	logger.Infof("Annotation %v created", annotPath)
	return &AnnotationDB{
		log:          logger,
		db:           db,
		filename:     annotPath,
		videoPath:    videoPath,
		currentFrame: 1,
	}, nil
}

// Open loads an existing annotation file.
// A missing file yields ErrNotFound; an unreadable or corrupt file yields ErrAnnotationFile.
func Open(logger logs.Log, annotPath string) (*AnnotationDB, error) {
	if _, err := os.Stat(annotPath); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotFound, annotPath)
	}
	db, err := dbh.OpenDB(logger, dbh.MakeSqliteConfig(annotPath), Migrations(logger), 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %v (file might be corrupted: %v)", ErrAnnotationFile, annotPath, err)
	}
	videoPath := ""
	currentFrame := int64(0)
	if err := db.Raw("SELECT video_path, current_frame FROM session").Row().Scan(&videoPath, &currentFrame); err != nil {
		closeGorm(db)
		return nil, fmt.Errorf("%w: %v has no session record: %v", ErrAnnotationFile, annotPath, err)
	}
	logger.Infof("Annotation %v loaded (video %v, frame %v)", annotPath, videoPath, currentFrame)
	return &AnnotationDB{
		log:          logger,
		db:           db,
		filename:     annotPath,
		videoPath:    videoPath,
		currentFrame: currentFrame,
	}, nil
}

// Filename returns the path of the durable annotation file.
func (a *AnnotationDB) Filename() string {
	return a.filename
}

// VideoPath returns the path of the annotated video, as recorded at create time.
func (a *AnnotationDB) VideoPath() string {
	return a.videoPath
}

// CurrentFrame returns the 1-based frame cursor.
func (a *AnnotationDB) CurrentFrame() int64 {
	return a.currentFrame
}

// SetCurrentFrame persists the frame cursor.
// Range validation against the video length belongs to the session layer,
// which is the one that knows the frame count.
func (a *AnnotationDB) SetCurrentFrame(frame int64) error {
	if err := a.db.Exec("UPDATE session SET current_frame = ?", frame).Error; err != nil {
		return err
	}
	a.currentFrame = frame
	return nil
}

// Close releases the underlying sqlite handle.
// All mutations have already been committed, so close is purely a resource release.
func (a *AnnotationDB) Close() error {
	return closeGorm(a.db)
}

func closeGorm(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

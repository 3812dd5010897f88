// Package session binds an annotation store to its source video, and manages
// the file identity of the store: a fresh session works out of a reserved
// temporary file until it is saved under a real name.
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Peratham/atc/pkg/annotdb"
	"github.com/Peratham/atc/pkg/gen"
	"github.com/Peratham/atc/pkg/iox"
	"github.com/Peratham/atc/pkg/videosource"
	"github.com/bmharper/cimg/v2"
	"github.com/cyclopcam/logs"
)

// TempWorkingFilename is the reserved filename of an unsaved session's store.
const TempWorkingFilename = ".working" + annotdb.Suffix

var (
	// ErrIllegalName is returned when saving under the reserved temporary filename.
	ErrIllegalName = errors.New("reserved annotation filename")

	// ErrWorkspaceConflict is returned when the temporary working file exists and
	// cannot be cleared out of the way.
	ErrWorkspaceConflict = errors.New("working file is in the way")
)

// Session owns one annotation store and the video it annotates.
// Not safe for concurrent use; the design assumes a single interactive user.
type Session struct {
	log   logs.Log
	db    *annotdb.AnnotationDB
	video videosource.Source
}

// Create starts a new session for the video at videoPath, bound to the
// temporary working file inside workDir. A leftover working file from a prior
// abnormal exit is not a real conflict, so it is removed, not preserved.
func Create(logger logs.Log, open videosource.Opener, videoPath, workDir string) (*Session, error) {
	video, err := open(videoPath)
	if err != nil {
		return nil, err
	}
	tempPath := filepath.Join(workDir, TempWorkingFilename)
	if _, err := os.Stat(tempPath); err == nil {
		logger.Warnf("Removing stale working file %v", tempPath)
		if err := os.Remove(tempPath); err != nil {
			video.Close()
			return nil, fmt.Errorf("%w: %v: %v", ErrWorkspaceConflict, tempPath, err)
		}
	}
	db, err := annotdb.Create(logger, tempPath, videoPath)
	if err != nil {
		video.Close()
		return nil, err
	}
	return &Session{log: logger, db: db, video: video}, nil
}

// Load opens a session from an existing annotation file. The video recorded in
// the file must still be openable, otherwise loading fails.
func Load(logger logs.Log, open videosource.Opener, annotPath string) (*Session, error) {
	db, err := annotdb.Open(logger, annotPath)
	if err != nil {
		return nil, err
	}
	video, err := open(db.VideoPath())
	if err != nil {
		db.Close()
		return nil, err
	}
	s := &Session{log: logger, db: db, video: video}

	// The stored cursor can land out of range if the video file was replaced
	// with a shorter one since the last save.
	cursor := gen.Clamp(db.CurrentFrame(), 1, video.FrameCount())
	if cursor != db.CurrentFrame() {
		logger.Warnf("Stored frame cursor %v is out of range, clamping to %v", db.CurrentFrame(), cursor)
		if err := db.SetCurrentFrame(cursor); err != nil {
			s.Close()
			return nil, err
		}
	}
	return s, nil
}

// OpenAny dispatches on the filename: an annotation file is loaded, anything
// else is treated as a video to create a fresh session from.
func OpenAny(logger logs.Log, open videosource.Opener, path, workDir string) (*Session, error) {
	if filepath.Ext(path) == annotdb.Suffix {
		return Load(logger, open, path)
	}
	return Create(logger, open, path, workDir)
}

// DB returns the underlying annotation store.
func (s *Session) DB() *annotdb.AnnotationDB {
	return s.db
}

// Video returns the session's frame source. The export pipeline shares it
// read-only for the duration of an export.
func (s *Session) Video() videosource.Source {
	return s.video
}

// Filename returns the current binding of the annotation store.
func (s *Session) Filename() string {
	return s.db.Filename()
}

// IsSaved reports whether the store is bound to a real name, rather than the
// reserved temporary working file.
func (s *Session) IsSaved() bool {
	return filepath.Base(s.db.Filename()) != TempWorkingFilename
}

// SaveAs durably copies the store to path and re-binds the session to it.
// Saving onto the current binding is a no-op. If the session was working from
// the temporary file, that file is deleted after a successful save.
func (s *Session) SaveAs(path string) error {
	oldPath := s.db.Filename()
	if filepath.Clean(path) == filepath.Clean(oldPath) {
		return nil
	}
	if filepath.Base(path) == TempWorkingFilename {
		return fmt.Errorf("%w: %v", ErrIllegalName, path)
	}
	if err := s.db.Close(); err != nil {
		return err
	}
	if err := iox.CopyFile(oldPath, path); err != nil {
		s.reopenOld(oldPath)
		return err
	}
	db, err := annotdb.Open(s.log, path)
	if err != nil {
		s.reopenOld(oldPath)
		return err
	}
	s.db = db
	if filepath.Base(oldPath) == TempWorkingFilename {
		os.Remove(oldPath)
	}
	s.log.Infof("Annotation saved to %v", path)
	return nil
}

// reopenOld keeps the session usable on its old binding after a failed save.
func (s *Session) reopenOld(oldPath string) {
	db, err := annotdb.Open(s.log, oldPath)
	if err != nil {
		s.log.Errorf("Failed to reopen %v after aborted save: %v", oldPath, err)
		return
	}
	s.db = db
}

// CurrentFrame returns the 1-based frame cursor.
func (s *Session) CurrentFrame() int64 {
	return s.db.CurrentFrame()
}

// SetFrame moves the cursor. An out-of-range frame number is a benign
// navigation request: it is logged and ignored, and the cursor stays put.
func (s *Session) SetFrame(frame int64) {
	if frame < 1 || frame > s.video.FrameCount() {
		s.log.Warnf("Illegal frame number %v requested", frame)
		return
	}
	if err := s.db.SetCurrentFrame(frame); err != nil {
		s.log.Errorf("Failed to persist frame cursor: %v", err)
	}
}

// CurrentFrameImage reads the video frame under the cursor. The cursor is
// 1-based and the source is 0-based. A failed read surfaces as an error,
// never as a silently stale frame.
func (s *Session) CurrentFrameImage() (*cimg.Image, error) {
	return s.video.ReadFrame(s.db.CurrentFrame() - 1)
}

// Close releases the store and the video.
func (s *Session) Close() error {
	err := s.db.Close()
	s.video.Close()
	return err
}

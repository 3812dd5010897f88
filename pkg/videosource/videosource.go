// Package videosource reads individual frames out of a video file.
//
// The shipping implementation shells out to ffmpeg/ffprobe, which keeps the
// toolchain cgo-free and reads anything ffmpeg can decode.
package videosource

import (
	"errors"

	"github.com/bmharper/cimg/v2"
)

var (
	// ErrVideoOpen means the video file is missing, unreadable, or not a video.
	ErrVideoOpen = errors.New("failed to open video")

	// ErrFrameRead means a frame inside an open video could not be decoded.
	ErrFrameRead = errors.New("failed to read video frame")
)

// Source hands out decoded RGB frames of one open video, addressed by 0-based index.
// Callers fence the index to [0, FrameCount) before issuing a read.
// Reads are blocking, and a Source is not safe for concurrent use.
type Source interface {
	FrameCount() int64
	Width() int
	Height() int
	ReadFrame(index int64) (*cimg.Image, error)
	Close() error
}

// Opener opens a video file. Tests substitute an in-memory implementation.
type Opener func(path string) (Source, error)

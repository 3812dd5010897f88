package videosource

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/Peratham/atc/pkg/shell"
	"github.com/bmharper/cimg/v2"
)

type ffmpegSource struct {
	path       string
	width      int
	height     int
	frameCount int64
}

// OpenFFmpeg opens a video using ffprobe/ffmpeg.
func OpenFFmpeg(path string) (Source, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: no such file %v", ErrVideoOpen, path)
	}
	out, err := shell.Run("ffprobe",
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height,nb_frames",
		"-of", "csv=p=0",
		path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v: %v", ErrVideoOpen, path, err)
	}
	width, height, frameCount, err := parseProbe(out)
	if err != nil {
		return nil, fmt.Errorf("%w: %v: %v", ErrVideoOpen, path, err)
	}
	if frameCount == 0 {
		// Some containers don't carry nb_frames, so count the hard way.
		out, err := shell.Run("ffprobe",
			"-v", "error",
			"-select_streams", "v:0",
			"-count_frames",
			"-show_entries", "stream=nb_read_frames",
			"-of", "csv=p=0",
			path)
		if err != nil {
			return nil, fmt.Errorf("%w: %v: %v", ErrVideoOpen, path, err)
		}
		frameCount, err = strconv.ParseInt(strings.TrimSpace(out), 10, 64)
		if err != nil || frameCount == 0 {
			return nil, fmt.Errorf("%w: %v: could not determine frame count", ErrVideoOpen, path)
		}
	}
	return &ffmpegSource{
		path:       path,
		width:      width,
		height:     height,
		frameCount: frameCount,
	}, nil
}

// parseProbe parses ffprobe csv output "width,height,nb_frames".
// nb_frames is "N/A" for containers that don't record it; we report that as 0.
func parseProbe(out string) (width, height int, frameCount int64, err error) {
	parts := strings.Split(strings.TrimSpace(out), ",")
	if len(parts) < 2 {
		return 0, 0, 0, fmt.Errorf("unexpected ffprobe output %q", out)
	}
	width, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("unexpected ffprobe width %q", parts[0])
	}
	height, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("unexpected ffprobe height %q", parts[1])
	}
	if len(parts) >= 3 {
		// Ignore parse failure ("N/A"), leaving frameCount 0
		frameCount, _ = strconv.ParseInt(parts[2], 10, 64)
	}
	return width, height, frameCount, nil
}

func (v *ffmpegSource) FrameCount() int64 {
	return v.frameCount
}

func (v *ffmpegSource) Width() int {
	return v.width
}

func (v *ffmpegSource) Height() int {
	return v.height
}

func (v *ffmpegSource) ReadFrame(index int64) (*cimg.Image, error) {
	raw, err := shell.RunBytes("ffmpeg",
		"-v", "error",
		"-i", v.path,
		"-vf", fmt.Sprintf("select=eq(n\\,%v)", index),
		"-vframes", "1",
		"-f", "rawvideo",
		"-pix_fmt", "rgb24",
		"-")
	if err != nil {
		return nil, fmt.Errorf("%w %v: %v", ErrFrameRead, index, err)
	}
	expected := v.width * v.height * 3
	if len(raw) != expected {
		return nil, fmt.Errorf("%w %v: ffmpeg produced %v bytes, want %v", ErrFrameRead, index, len(raw), expected)
	}
	return cimg.WrapImage(v.width, v.height, cimg.PixelFormatRGB, raw), nil
}

func (v *ffmpegSource) Close() error {
	return nil
}

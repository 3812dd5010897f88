package videosource

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseProbe(t *testing.T) {
	w, h, n, err := parseProbe("1920,1080,300\n")
	require.NoError(t, err)
	require.Equal(t, 1920, w)
	require.Equal(t, 1080, h)
	require.Equal(t, int64(300), n)

	// Containers without nb_frames report N/A; that forces the counting fallback
	w, h, n, err = parseProbe("640,480,N/A\n")
	require.NoError(t, err)
	require.Equal(t, 640, w)
	require.Equal(t, 480, h)
	require.Equal(t, int64(0), n)

	_, _, _, err = parseProbe("")
	require.Error(t, err)
	_, _, _, err = parseProbe("x,480,10")
	require.Error(t, err)
}

func TestOpenFFmpegMissingFile(t *testing.T) {
	_, err := OpenFFmpeg("no-such-video.mp4")
	require.ErrorIs(t, err, ErrVideoOpen)
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/Peratham/atc/pkg/labelexport"
	"github.com/Peratham/atc/pkg/session"
	"github.com/Peratham/atc/pkg/videosource"
	"github.com/akamensky/argparse"
	"github.com/cyclopcam/logs"
)

func check(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func main() {
	parser := argparse.NewParser("atcexport", "Export annotation label images from an .atc file")
	annotFile := parser.String("a", "annotation", &argparse.Options{Help: "Annotation file (.atc)", Required: true})
	outDir := parser.String("o", "outdir", &argparse.Options{Help: "Output directory", Required: true})
	prefix := parser.String("p", "prefix", &argparse.Options{Help: "Output filename prefix", Required: false, Default: "frame"})
	format := parser.Selector("f", "format", []string{"tiff", "png"}, &argparse.Options{Help: "Output format: tiff is a 16-bit object-ID label map, png is the colored raster", Required: false, Default: "tiff"})
	startFrame := parser.Int("", "startframe", &argparse.Options{Help: "First frame to export (1-based)", Required: false, Default: 1})
	endFrame := parser.Int("", "endframe", &argparse.Options{Help: "Last frame to export (0 = last frame of video)", Required: false, Default: 0})
	err := parser.Parse(os.Args)
	if err != nil {
		fmt.Print(parser.Usage(err))
		os.Exit(1)
	}

	logger, _ := logs.NewLog()

	sess, err := session.Load(logger, videosource.OpenFFmpeg, *annotFile)
	check(err)
	defer sess.Close()

	// Ctrl-C aborts between frames, leaving already-written artifacts intact
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	video := sess.Video()
	start := int64(*startFrame)
	end := int64(*endFrame)
	if start < 1 {
		start = 1
	}
	if end == 0 || end > video.FrameCount() {
		end = video.FrameCount()
	}
	frames := []int64{}
	for f := start; f <= end; f++ {
		frames = append(frames, f)
	}

	ids, err := sess.DB().ObjectIDs()
	check(err)
	cmap := labelexport.BuildColormap(ids)

	check(os.MkdirAll(*outDir, 0777))

	outFormat := labelexport.FormatLabelMap
	if *format == "png" {
		outFormat = labelexport.FormatColor
	}

	opts := labelexport.Options{
		Dir:    *outDir,
		Prefix: *prefix,
		Width:  video.Width(),
		Height: video.Height(),
		Frames: frames,
		Format: outFormat,
		Progress: func(done, total int) {
			fmt.Printf("\rExporting frame %v/%v", done, total)
		},
	}
	err = labelexport.Export(ctx, sess.DB(), labelexport.GG{}, cmap, opts)
	fmt.Printf("\n")
	check(err)
}

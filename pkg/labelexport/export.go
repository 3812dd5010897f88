// Package labelexport turns annotated frames into per-frame label images.
//
// Contours are rasterized in each object's colormap color, and for label-map
// output the canvas is decoded back into object IDs by exact color match. The
// indirection exists because the rasterization surface draws pixel-accurate
// polygon fills but cannot emit an arbitrary-precision identity channel itself.
package labelexport

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"

	"github.com/Peratham/atc/pkg/annotdb"
	"golang.org/x/image/tiff"
)

// Format selects the artifact type written per frame.
type Format int

const (
	// FormatLabelMap writes a 16-bit single-channel TIFF whose pixel values are object IDs.
	FormatLabelMap Format = iota
	// FormatColor writes the color canvas as a PNG.
	FormatColor
)

func (f Format) Suffix() string {
	if f == FormatColor {
		return ".png"
	}
	return ".tiff"
}

// RecordSource is the slice of the annotation store that the exporter reads.
type RecordSource interface {
	Get(frame int64) ([]annotdb.FrameRecord, error)
}

type Options struct {
	Dir    string  // Output directory
	Prefix string  // Artifact filename prefix; full name is <Prefix><frame><suffix>
	Width  int     // Canvas width in pixels
	Height int     // Canvas height in pixels
	Frames []int64 // 1-based frame numbers to export
	Format Format

	// Progress, if set, is called after each requested frame, including skipped ones.
	Progress func(done, total int)
}

// Export writes one label image per requested frame that has at least one
// record. Frames without records are skipped, not errors.
//
// Frames are processed strictly sequentially. Cancellation via ctx is honored
// between frames, and each artifact is written whole, so a cancelled export
// never leaves a partial file behind.
func Export(ctx context.Context, records RecordSource, surface Surface, cmap *Colormap, opts Options) error {
	for i, frame := range opts.Frames {
		if err := ctx.Err(); err != nil {
			return err
		}
		recs, err := records.Get(frame)
		if err != nil {
			return err
		}
		if len(recs) > 0 {
			if err := exportFrame(recs, surface, cmap, frame, &opts); err != nil {
				return err
			}
		}
		if opts.Progress != nil {
			opts.Progress(i+1, len(opts.Frames))
		}
	}
	return nil
}

func exportFrame(recs []annotdb.FrameRecord, surface Surface, cmap *Colormap, frame int64, opts *Options) error {
	canvas := surface.NewCanvas(opts.Width, opts.Height)
	used := []color.RGBA{}
	for _, r := range recs {
		col, ok := cmap.ColorForID(r.ObjectID)
		if !ok {
			return fmt.Errorf("no color assigned to object %v", r.ObjectID)
		}
		canvas.FillPolygon(r.ContourPoints(), col)
		used = append(used, col)
	}

	outPath := filepath.Join(opts.Dir, fmt.Sprintf("%v%v%v", opts.Prefix, frame, opts.Format.Suffix()))
	if opts.Format == FormatColor {
		return canvas.SavePNG(outPath)
	}
	return writeLabelMap(canvas.Image(), used, cmap, outPath)
}

// writeLabelMap decodes the color canvas into a 16-bit identity image.
// For each color drawn in this frame, every canvas pixel carrying that exact
// color gets the owning object's ID. Masks of distinct IDs are disjoint because
// each object is filled in its own solid color, so accumulation never
// overwrites an ID already decoded.
func writeLabelMap(canvas *image.RGBA, used []color.RGBA, cmap *Colormap, path string) error {
	bounds := canvas.Bounds()
	labels := image.NewGray16(bounds)
	for _, col := range used {
		id, ok := cmap.IDForColor(col)
		if !ok {
			return fmt.Errorf("color %v is not in the colormap", col)
		}
		value := color.Gray16{Y: uint16(id)}
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				p := canvas.RGBAAt(x, y)
				if p.R == col.R && p.G == col.G && p.B == col.B {
					labels.SetGray16(x, y, value)
				}
			}
		}
	}

	// Encode fully in memory, then write in one shot.
	buf := bytes.Buffer{}
	if err := tiff.Encode(&buf, labels, nil); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0666)
}

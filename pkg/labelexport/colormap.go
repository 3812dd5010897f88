package labelexport

import (
	"image/color"
	"slices"
)

// Colormap is a bijection between object IDs and RGB colors. Objects are drawn
// onto the export canvas in their colormap color, and the inverse mapping
// recovers the object ID from the rasterized pixels. The round trip is lossless
// as long as every ID has a unique color and polygons are drawn without blending.
type Colormap struct {
	idToColor map[int64]color.RGBA
	colorToID map[uint32]int64
}

// BuildColormap assigns a distinct non-black color to every given ID.
// The assignment depends only on the set of IDs, so colors are stable across
// frames and across export runs.
func BuildColormap(ids []int64) *Colormap {
	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	cm := &Colormap{
		idToColor: map[int64]color.RGBA{},
		colorToID: map[uint32]int64{},
	}
	for _, id := range sorted {
		// An odd multiplier is invertible mod 2^24, which spreads consecutive IDs
		// across the color cube instead of clustering them in near-black.
		c := uint32(uint64(id)*2654435761) & 0xFFFFFF
		for {
			_, taken := cm.colorToID[c]
			if c != 0 && !taken {
				break
			}
			c = (c + 0x9E3779B1) & 0xFFFFFF
		}
		rgb := unpackColor(c)
		cm.idToColor[id] = rgb
		cm.colorToID[c] = id
	}
	return cm
}

// ColorForID returns the color assigned to an object ID.
func (m *Colormap) ColorForID(id int64) (color.RGBA, bool) {
	c, ok := m.idToColor[id]
	return c, ok
}

// IDForColor is the inverse mapping, used to decode rasterized pixels.
func (m *Colormap) IDForColor(c color.RGBA) (int64, bool) {
	id, ok := m.colorToID[packColor(c)]
	return id, ok
}

// Len returns the number of mapped IDs.
func (m *Colormap) Len() int {
	return len(m.idToColor)
}

func packColor(c color.RGBA) uint32 {
	return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

func unpackColor(c uint32) color.RGBA {
	return color.RGBA{
		R: uint8(c >> 16),
		G: uint8(c >> 8),
		B: uint8(c),
		A: 255,
	}
}

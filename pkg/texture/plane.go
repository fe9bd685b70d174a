package texture

import (
	"texpack/pkg/errors"
	"texpack/pkg/types"
)

// Plane is a single channel of image data at one bit depth. Exactly one
// of the pixel slices is non-nil, matching Depth. Planes are treated as
// immutable once built; operations return new planes.
type Plane struct {
	Res   types.Resolution
	Depth types.BitDepth
	Pix8  []uint8
	Pix16 []uint16
	PixF  []float32
}

// NewPlane8 wraps an 8-bit pixel slice. len(pix) must be W*H.
func NewPlane8(res types.Resolution, pix []uint8) *Plane {
	return &Plane{Res: res, Depth: types.Depth8, Pix8: pix}
}

// NewPlane16 wraps a 16-bit pixel slice.
func NewPlane16(res types.Resolution, pix []uint16) *Plane {
	return &Plane{Res: res, Depth: types.Depth16, Pix16: pix}
}

// NewPlaneFloat wraps a float32 pixel slice holding linear samples.
func NewPlaneFloat(res types.Resolution, pix []float32) *Plane {
	return &Plane{Res: res, Depth: types.DepthFloat, PixF: pix}
}

// NewUniform builds a constant plane. The fill value is given in 8-bit
// terms and promoted to the requested depth, so a configured default of
// 128 means mid-gray at any depth.
func NewUniform(res types.Resolution, depth types.BitDepth, fill uint8) *Plane {
	n := res.Area()
	switch depth {
	case types.Depth16:
		pix := make([]uint16, n)
		v := Promote8To16(fill)
		for i := range pix {
			pix[i] = v
		}
		return NewPlane16(res, pix)
	case types.DepthFloat:
		pix := make([]float32, n)
		v := float32(fill) / 255
		for i := range pix {
			pix[i] = v
		}
		return NewPlaneFloat(res, pix)
	default:
		pix := make([]uint8, n)
		for i := range pix {
			pix[i] = fill
		}
		return NewPlane8(res, pix)
	}
}

// Image is a decoded source or composited output: one plane per
// channel, all at the same resolution and depth. Channel order is
// R,G,B,A for color images; a single plane for grayscale.
type Image struct {
	Res    types.Resolution
	Depth  types.BitDepth
	Planes []*Plane
}

// Grayscale reports whether the image carries a single channel.
func (im *Image) Grayscale() bool {
	return len(im.Planes) == 1
}

// plane index per selector letter.
var selectorIndex = map[string]int{"r": 0, "g": 1, "b": 2, "a": 3}

// ChannelPlane returns the single-channel plane a channel reference
// selects from this image:
//
//   - grayscale images return their only plane, whatever the selector
//   - an explicit selector ("r".."a") returns that plane when present
//   - grayscale content saved as RGB (all three channels identical)
//     returns the red plane
//   - anything else falls back to a luminance conversion
func (im *Image) ChannelPlane(selector string, wantGrayscale bool) (*Plane, error) {
	if im.Grayscale() {
		return im.Planes[0], nil
	}
	if idx, ok := selectorIndex[selector]; ok && idx < len(im.Planes) {
		return im.Planes[idx], nil
	}
	if wantGrayscale && im.isRGBGray() {
		return im.Planes[0], nil
	}
	if len(im.Planes) >= 3 {
		return im.luminance(), nil
	}
	return nil, errors.Newf(errors.ErrUnsupportedImage,
		"cannot select channel %q from a %d-channel image", selector, len(im.Planes))
}

// isRGBGray reports whether R, G and B are identical, i.e. grayscale
// data stored in an RGB container.
func (im *Image) isRGBGray() bool {
	if len(im.Planes) < 3 {
		return false
	}
	r, g, b := im.Planes[0], im.Planes[1], im.Planes[2]
	for i := 0; i < im.Res.Area(); i++ {
		switch im.Depth {
		case types.Depth8:
			if r.Pix8[i] != g.Pix8[i] || r.Pix8[i] != b.Pix8[i] {
				return false
			}
		case types.Depth16:
			if r.Pix16[i] != g.Pix16[i] || r.Pix16[i] != b.Pix16[i] {
				return false
			}
		case types.DepthFloat:
			if r.PixF[i] != g.PixF[i] || r.PixF[i] != b.PixF[i] {
				return false
			}
		}
	}
	return true
}

// luminance collapses RGB to a single plane using the ITU-R BT.601
// weights (the same formula PIL-style converters use).
func (im *Image) luminance() *Plane {
	n := im.Res.Area()
	r, g, b := im.Planes[0], im.Planes[1], im.Planes[2]
	switch im.Depth {
	case types.Depth16:
		pix := make([]uint16, n)
		for i := 0; i < n; i++ {
			l := (299*uint64(r.Pix16[i]) + 587*uint64(g.Pix16[i]) + 114*uint64(b.Pix16[i])) / 1000
			pix[i] = uint16(l)
		}
		return NewPlane16(im.Res, pix)
	case types.DepthFloat:
		pix := make([]float32, n)
		for i := 0; i < n; i++ {
			pix[i] = 0.299*r.PixF[i] + 0.587*g.PixF[i] + 0.114*b.PixF[i]
		}
		return NewPlaneFloat(im.Res, pix)
	default:
		pix := make([]uint8, n)
		for i := 0; i < n; i++ {
			l := (299*uint32(r.Pix8[i]) + 587*uint32(g.Pix8[i]) + 114*uint32(b.Pix8[i])) / 1000
			pix[i] = uint8(l)
		}
		return NewPlane8(im.Res, pix)
	}
}

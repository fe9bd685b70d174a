package texture

import (
	"math"

	"texpack/pkg/types"
)

// The numeric conversions in this file are the only place sample values
// change representation. They must stay bit-for-bit stable: packed
// outputs are diffed against previous runs.

// SRGBEncode applies the IEC 61966-2-1 transfer function to one linear
// sample, mapping linear [0,1] into perceptual [0,1]. Inputs are
// clamped first; EXR data can exceed the displayable range.
func SRGBEncode(c float64) float64 {
	if c <= 0 {
		return 0
	}
	if c >= 1 {
		return 1
	}
	if c <= 0.0031308 {
		return 12.92 * c
	}
	return 1.055*math.Pow(c, 1/2.4) - 0.055
}

// Promote8To16 widens an 8-bit sample by bit replication (v*257, i.e.
// v<<8|v). Zero padding would map 255 to 65280 and darken midtones.
func Promote8To16(v uint8) uint16 {
	return uint16(v) * 257
}

// Demote16To8 narrows a 16-bit sample by linear rescale with rounding.
// Together with Promote8To16 this round-trips 8-bit values exactly
// (257*255 == 65535).
func Demote16To8(v uint16) uint8 {
	return uint8((uint32(v)*255 + 32767) / 65535)
}

// QuantizeFloat8 maps a clamped float sample to 8 bits, optionally
// through the sRGB curve.
func QuantizeFloat8(v float32, srgbCurve bool) uint8 {
	c := clamp01(float64(v))
	if srgbCurve {
		c = SRGBEncode(c)
	}
	return uint8(math.Round(c * 255))
}

// QuantizeFloat16 maps a clamped float sample to 16 bits, optionally
// through the sRGB curve.
func QuantizeFloat16(v float32, srgbCurve bool) uint16 {
	c := clamp01(float64(v))
	if srgbCurve {
		c = SRGBEncode(c)
	}
	return uint16(math.Round(c * 65535))
}

func clamp01(c float64) float64 {
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}

// Convert returns a copy of the plane at the requested depth. srgbCurve
// only has an effect when the source is float; integer depths are
// already encoded. Converting to the same depth returns the plane
// unchanged (planes are immutable).
func (p *Plane) Convert(depth types.BitDepth, srgbCurve bool) *Plane {
	if p.Depth == depth {
		return p
	}
	n := p.Res.Area()
	switch depth {
	case types.Depth8:
		pix := make([]uint8, n)
		switch p.Depth {
		case types.Depth16:
			for i, v := range p.Pix16 {
				pix[i] = Demote16To8(v)
			}
		case types.DepthFloat:
			for i, v := range p.PixF {
				pix[i] = QuantizeFloat8(v, srgbCurve)
			}
		}
		return NewPlane8(p.Res, pix)
	case types.Depth16:
		pix := make([]uint16, n)
		switch p.Depth {
		case types.Depth8:
			for i, v := range p.Pix8 {
				pix[i] = Promote8To16(v)
			}
		case types.DepthFloat:
			for i, v := range p.PixF {
				pix[i] = QuantizeFloat16(v, srgbCurve)
			}
		}
		return NewPlane16(p.Res, pix)
	default:
		pix := make([]float32, n)
		switch p.Depth {
		case types.Depth8:
			for i, v := range p.Pix8 {
				pix[i] = float32(v) / 255
			}
		case types.Depth16:
			for i, v := range p.Pix16 {
				pix[i] = float32(v) / 65535
			}
		}
		return NewPlaneFloat(p.Res, pix)
	}
}

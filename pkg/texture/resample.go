package texture

import (
	"image"
	"math"

	"golang.org/x/image/draw"

	"texpack/pkg/types"
)

// Resample returns the plane rescaled to the target resolution using
// bilinear filtering. Bit depth never changes here; depth conversion is
// the compositor's job. Integer planes go through x/image/draw; float
// planes use a direct bilinear loop because the draw scalers quantize
// through color values.
func (p *Plane) Resample(target types.Resolution) *Plane {
	if p.Res == target {
		return p
	}
	switch p.Depth {
	case types.Depth8:
		src := &image.Gray{Pix: p.Pix8, Stride: p.Res.W, Rect: image.Rect(0, 0, p.Res.W, p.Res.H)}
		dst := image.NewGray(image.Rect(0, 0, target.W, target.H))
		draw.BiLinear.Scale(dst, dst.Rect, src, src.Rect, draw.Src, nil)
		return NewPlane8(target, dst.Pix)
	case types.Depth16:
		src := image.NewGray16(image.Rect(0, 0, p.Res.W, p.Res.H))
		for i, v := range p.Pix16 {
			src.Pix[2*i] = uint8(v >> 8)
			src.Pix[2*i+1] = uint8(v)
		}
		dst := image.NewGray16(image.Rect(0, 0, target.W, target.H))
		draw.BiLinear.Scale(dst, dst.Rect, src, src.Rect, draw.Src, nil)
		pix := make([]uint16, target.Area())
		for i := range pix {
			pix[i] = uint16(dst.Pix[2*i])<<8 | uint16(dst.Pix[2*i+1])
		}
		return NewPlane16(target, pix)
	default:
		return p.resampleFloat(target)
	}
}

// resampleFloat is a plain bilinear resampler over float32 samples with
// pixel-center alignment, the same convention the draw scalers use.
func (p *Plane) resampleFloat(target types.Resolution) *Plane {
	pix := make([]float32, target.Area())
	sx := float64(p.Res.W) / float64(target.W)
	sy := float64(p.Res.H) / float64(target.H)

	for y := 0; y < target.H; y++ {
		fy := (float64(y)+0.5)*sy - 0.5
		y0 := int(math.Floor(fy))
		wy := fy - float64(y0)
		y1 := y0 + 1
		y0 = clampIdx(y0, p.Res.H)
		y1 = clampIdx(y1, p.Res.H)

		for x := 0; x < target.W; x++ {
			fx := (float64(x)+0.5)*sx - 0.5
			x0 := int(math.Floor(fx))
			wx := fx - float64(x0)
			x1 := x0 + 1
			x0 = clampIdx(x0, p.Res.W)
			x1 = clampIdx(x1, p.Res.W)

			top := float64(p.PixF[y0*p.Res.W+x0])*(1-wx) + float64(p.PixF[y0*p.Res.W+x1])*wx
			bot := float64(p.PixF[y1*p.Res.W+x0])*(1-wx) + float64(p.PixF[y1*p.Res.W+x1])*wx
			pix[y*target.W+x] = float32(top*(1-wy) + bot*wy)
		}
	}
	return NewPlaneFloat(target, pix)
}

func clampIdx(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

package texture

import (
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/tiff"

	"texpack/pkg/errors"
	"texpack/pkg/types"
)

// Decode reads a full image from f. The format is chosen by file
// extension for EXR and by content sniffing for everything else.
func Decode(f types.File, path string) (*Image, error) {
	if isEXR(path) {
		return decodeEXR(f, path)
	}

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrImageDecode, "decode %s", path)
	}
	return fromStdImage(img), nil
}

// Probe reads just enough of f to report resolution, bit depth and
// channel count without decoding pixel data (EXR headers are parsed the
// same way).
func Probe(f types.File, path string) (types.Resolution, types.BitDepth, int, error) {
	if isEXR(path) {
		return probeEXR(f, path)
	}

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return types.Resolution{}, 0, 0, errors.Wrapf(err, errors.ErrImageDecode, "probe %s", path)
	}
	res := types.Resolution{W: cfg.Width, H: cfg.Height}
	depth, channels := classifyModel(cfg.ColorModel)
	return res, depth, channels, nil
}

func isEXR(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".exr")
}

func classifyModel(m color.Model) (types.BitDepth, int) {
	switch m {
	case color.GrayModel:
		return types.Depth8, 1
	case color.Gray16Model:
		return types.Depth16, 1
	case color.RGBA64Model, color.NRGBA64Model:
		return types.Depth16, 4
	case color.YCbCrModel, color.CMYKModel:
		return types.Depth8, 3
	default:
		return types.Depth8, 4
	}
}

// fromStdImage converts a stdlib image into per-channel planes,
// preserving 16-bit depth where the source has it.
func fromStdImage(img image.Image) *Image {
	b := img.Bounds()
	res := types.Resolution{W: b.Dx(), H: b.Dy()}
	n := res.Area()

	switch src := img.(type) {
	case *image.Gray:
		pix := make([]uint8, n)
		for y := 0; y < res.H; y++ {
			copy(pix[y*res.W:(y+1)*res.W], src.Pix[y*src.Stride:y*src.Stride+res.W])
		}
		return &Image{Res: res, Depth: types.Depth8, Planes: []*Plane{NewPlane8(res, pix)}}

	case *image.Gray16:
		pix := make([]uint16, n)
		for y := 0; y < res.H; y++ {
			row := src.Pix[y*src.Stride:]
			for x := 0; x < res.W; x++ {
				pix[y*res.W+x] = uint16(row[2*x])<<8 | uint16(row[2*x+1])
			}
		}
		return &Image{Res: res, Depth: types.Depth16, Planes: []*Plane{NewPlane16(res, pix)}}

	case *image.NRGBA64:
		planes := makePlanes16(res, 4)
		for y := 0; y < res.H; y++ {
			row := src.Pix[y*src.Stride:]
			for x := 0; x < res.W; x++ {
				i := y*res.W + x
				for c := 0; c < 4; c++ {
					planes[c].Pix16[i] = uint16(row[8*x+2*c])<<8 | uint16(row[8*x+2*c+1])
				}
			}
		}
		return &Image{Res: res, Depth: types.Depth16, Planes: planes}

	case *image.NRGBA:
		planes := makePlanes8(res, 4)
		for y := 0; y < res.H; y++ {
			row := src.Pix[y*src.Stride:]
			for x := 0; x < res.W; x++ {
				i := y*res.W + x
				for c := 0; c < 4; c++ {
					planes[c].Pix8[i] = row[4*x+c]
				}
			}
		}
		return &Image{Res: res, Depth: types.Depth8, Planes: planes}

	case *image.RGBA64:
		planes := makePlanes16(res, 4)
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				c := color.NRGBA64Model.Convert(src.At(x, y)).(color.NRGBA64)
				i := (y-b.Min.Y)*res.W + (x - b.Min.X)
				planes[0].Pix16[i] = c.R
				planes[1].Pix16[i] = c.G
				planes[2].Pix16[i] = c.B
				planes[3].Pix16[i] = c.A
			}
		}
		return &Image{Res: res, Depth: types.Depth16, Planes: planes}

	default:
		// JPEG YCbCr, paletted PNG, premultiplied RGBA: go through the
		// color model, 8 bits is all these carry.
		planes := makePlanes8(res, 4)
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
				i := (y-b.Min.Y)*res.W + (x - b.Min.X)
				planes[0].Pix8[i] = c.R
				planes[1].Pix8[i] = c.G
				planes[2].Pix8[i] = c.B
				planes[3].Pix8[i] = c.A
			}
		}
		return &Image{Res: res, Depth: types.Depth8, Planes: planes}
	}
}

func makePlanes8(res types.Resolution, count int) []*Plane {
	planes := make([]*Plane, count)
	for c := range planes {
		planes[c] = NewPlane8(res, make([]uint8, res.Area()))
	}
	return planes
}

func makePlanes16(res types.Resolution, count int) []*Plane {
	planes := make([]*Plane, count)
	for c := range planes {
		planes[c] = NewPlane16(res, make([]uint16, res.Area()))
	}
	return planes
}

package texture

import (
	"io"

	"github.com/mrjoshuak/go-openexr/exr"

	"texpack/pkg/errors"
	"texpack/pkg/types"
)

// EXR sources are read as linear float32 planes. Only the first part of
// a multi-part file is used; deep images are not supported.

func openEXR(f types.File, path string) (*exr.File, error) {
	size, err := f.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrImageDecode, "seek %s", path)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, errors.Wrapf(err, errors.ErrImageDecode, "seek %s", path)
	}
	exrFile, err := exr.OpenReader(f, size)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrImageDecode, "open exr %s", path)
	}
	return exrFile, nil
}

func probeEXR(f types.File, path string) (types.Resolution, types.BitDepth, int, error) {
	exrFile, err := openEXR(f, path)
	if err != nil {
		return types.Resolution{}, 0, 0, err
	}
	h := exrFile.Header(0)
	if h == nil {
		return types.Resolution{}, 0, 0, errors.Newf(errors.ErrImageDecode, "exr %s has no header", path)
	}
	dw := h.DataWindow()
	res := types.Resolution{
		W: int(dw.Max.X-dw.Min.X) + 1,
		H: int(dw.Max.Y-dw.Min.Y) + 1,
	}
	channels := 1
	if cl := h.Channels(); cl != nil {
		channels = cl.Len()
		if channels > 4 {
			channels = 4
		}
	}
	return res, types.DepthFloat, channels, nil
}

func decodeEXR(f types.File, path string) (*Image, error) {
	exrFile, err := openEXR(f, path)
	if err != nil {
		return nil, err
	}
	h := exrFile.Header(0)
	if h == nil {
		return nil, errors.Newf(errors.ErrImageDecode, "exr %s has no header", path)
	}
	dw := h.DataWindow()
	cl := h.Channels()
	if cl == nil || cl.Len() == 0 {
		return nil, errors.Newf(errors.ErrImageDecode, "exr %s has no channels", path)
	}
	res := types.Resolution{
		W: int(dw.Max.X-dw.Min.X) + 1,
		H: int(dw.Max.Y-dw.Min.Y) + 1,
	}

	fb, _ := exr.AllocateChannels(cl, dw)
	reader, err := exr.NewScanlineReaderPart(exrFile, 0)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrUnsupportedImage, "exr %s (tiled and deep files are not supported)", path)
	}
	reader.SetFrameBuffer(fb)
	if err := reader.ReadPixels(int(dw.Min.Y), int(dw.Max.Y)); err != nil {
		return nil, errors.Wrapf(err, errors.ErrImageDecode, "read exr pixels from %s", path)
	}

	names := exrChannelNames(fb)
	planes := make([]*Plane, 0, len(names))
	for _, name := range names {
		slice := fb.Get(name)
		if slice == nil {
			continue
		}
		pix := make([]float32, res.Area())
		for y := 0; y < res.H; y++ {
			for x := 0; x < res.W; x++ {
				pix[y*res.W+x] = slice.GetFloat32(x+int(dw.Min.X), y+int(dw.Min.Y))
			}
		}
		planes = append(planes, NewPlaneFloat(res, pix))
	}
	if len(planes) == 0 {
		return nil, errors.Newf(errors.ErrImageDecode, "exr %s has no readable channels", path)
	}
	return &Image{Res: res, Depth: types.DepthFloat, Planes: planes}, nil
}

// exrChannelNames picks the planes to keep, in output order: RGB(A)
// when present, the luminance channel of a Y-only file, otherwise
// whatever single channel the file carries.
func exrChannelNames(fb *exr.FrameBuffer) []string {
	if fb.Get("R") != nil && fb.Get("G") != nil && fb.Get("B") != nil {
		names := []string{"R", "G", "B"}
		if fb.Get("A") != nil {
			names = append(names, "A")
		}
		return names
	}
	if fb.Get("Y") != nil {
		return []string{"Y"}
	}
	all := fb.Names()
	if len(all) > 0 {
		return all[:1]
	}
	return nil
}

package engine

import (
	"texpack/pkg/config"
	"texpack/pkg/texture"
	"texpack/pkg/types"
)

// Composite merges repaired planes into the final output image. The
// output has one plane per declared slot in R,G,B,A order; an alpha
// plane exists only when the mode maps one, a 3-channel mode stays a
// 3-channel image.
//
// Output depth is the highest integer depth among the sources, capped
// by the output format: jpeg is always 8-bit, png and tiff keep 16 bits
// when any source has them. Float sources are quantized to the chosen
// depth, through the sRGB curve when exr_srgb_curve is set; integer
// sources are already display-encoded and are only widened or narrowed.
func Composite(planes map[types.ChannelSlot]*texture.Plane, mode types.ModeSpec, cfg *config.Config) *texture.Image {
	slots := mode.Slots()
	depth := outputDepth(planes, slots, cfg.FileType)

	out := make([]*texture.Plane, 0, len(slots))
	var res types.Resolution
	for _, slot := range slots {
		p := planes[slot].Convert(depth, cfg.EXRSRGBCurve)
		res = p.Res
		out = append(out, p)
	}
	return &texture.Image{Res: res, Depth: depth, Planes: out}
}

func outputDepth(planes map[types.ChannelSlot]*texture.Plane, slots []types.ChannelSlot, fileType string) types.BitDepth {
	if fileType == "jpeg" {
		return types.Depth8
	}
	for _, slot := range slots {
		if planes[slot].Depth == types.Depth16 {
			return types.Depth16
		}
	}
	return types.Depth8
}

package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"texpack/pkg/config"
	"texpack/pkg/texture"
	"texpack/pkg/types"
)

func planesFor(res types.Resolution, r, g, b *texture.Plane) map[types.ChannelSlot]*texture.Plane {
	return map[types.ChannelSlot]*texture.Plane{
		types.SlotR: r,
		types.SlotG: g,
		types.SlotB: b,
	}
}

func TestComposite_JpegCapsDepthAt8(t *testing.T) {
	cfg := config.Default()
	cfg.FileType = "jpeg"
	res := types.Resolution{W: 2, H: 2}

	planes := planesFor(res,
		texture.NewUniform(res, types.Depth16, 100),
		texture.NewUniform(res, types.Depth8, 100),
		texture.NewUniform(res, types.Depth8, 100),
	)
	img := Composite(planes, ormMode(), cfg)

	assert.Equal(t, types.Depth8, img.Depth)
	require.Len(t, img.Planes, 3)
	assert.Equal(t, uint8(100), img.Planes[0].Pix8[0], "16-bit demotes exactly for replicated values")
}

func TestComposite_SixteenBitWinsForPng(t *testing.T) {
	cfg := config.Default()
	res := types.Resolution{W: 1, H: 1}

	planes := planesFor(res,
		texture.NewUniform(res, types.Depth8, 10),
		texture.NewUniform(res, types.Depth16, 20),
		texture.NewUniform(res, types.Depth8, 30),
	)
	img := Composite(planes, ormMode(), cfg)

	assert.Equal(t, types.Depth16, img.Depth)
	assert.Equal(t, texture.Promote8To16(10), img.Planes[0].Pix16[0])
	assert.Equal(t, texture.Promote8To16(20), img.Planes[1].Pix16[0])
}

func TestComposite_FloatQuantizesThroughSRGBCurve(t *testing.T) {
	cfg := config.Default()
	require.True(t, cfg.EXRSRGBCurve)
	res := types.Resolution{W: 1, H: 1}

	linear := texture.NewPlaneFloat(res, []float32{0.5})
	planes := planesFor(res,
		linear,
		texture.NewUniform(res, types.Depth8, 0),
		texture.NewUniform(res, types.Depth8, 0),
	)

	img := Composite(planes, ormMode(), cfg)
	assert.Equal(t, types.Depth8, img.Depth, "float alone does not force 16-bit output")
	assert.Equal(t, texture.QuantizeFloat8(0.5, true), img.Planes[0].Pix8[0])
	assert.Greater(t, img.Planes[0].Pix8[0], uint8(128), "curve brightens linear midtones")

	cfg.EXRSRGBCurve = false
	img = Composite(planes, ormMode(), cfg)
	assert.Equal(t, uint8(128), img.Planes[0].Pix8[0])
}

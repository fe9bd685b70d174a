package texture

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"texpack/pkg/types"
)

func TestResample_NoopAtSameSize(t *testing.T) {
	res := types.Resolution{W: 2, H: 2}
	p := NewPlane8(res, []uint8{1, 2, 3, 4})
	assert.Same(t, p, p.Resample(res))
}

func TestResample_UniformStaysUniform(t *testing.T) {
	src := types.Resolution{W: 4, H: 4}
	dst := types.Resolution{W: 2, H: 2}

	p8 := NewUniform(src, types.Depth8, 100).Resample(dst)
	assert.Equal(t, dst, p8.Res)
	for _, v := range p8.Pix8 {
		assert.Equal(t, uint8(100), v)
	}

	p16 := NewUniform(src, types.Depth16, 200).Resample(dst)
	assert.Equal(t, types.Depth16, p16.Depth)
	for _, v := range p16.Pix16 {
		assert.Equal(t, Promote8To16(200), v)
	}

	pf := NewUniform(src, types.DepthFloat, 51).Resample(types.Resolution{W: 8, H: 8})
	assert.Equal(t, types.DepthFloat, pf.Depth)
	for _, v := range pf.PixF {
		assert.InDelta(t, 0.2, float64(v), 1e-6)
	}
}

func TestResample_FloatDownscaleAverages(t *testing.T) {
	src := types.Resolution{W: 2, H: 2}
	p := NewPlaneFloat(src, []float32{0, 1, 0, 1})

	// Downscaling 2x2 to 1x1 samples the pixel center, the average of
	// all four samples.
	out := p.resampleFloat(types.Resolution{W: 1, H: 1})
	assert.InDelta(t, 0.5, float64(out.PixF[0]), 1e-6)
}

func TestResample_FloatUpscaleInterpolates(t *testing.T) {
	src := types.Resolution{W: 2, H: 1}
	p := NewPlaneFloat(src, []float32{0, 1})

	out := p.resampleFloat(types.Resolution{W: 4, H: 1})
	// Edge pixels clamp to the source extremes, inner pixels blend.
	assert.InDelta(t, 0.0, float64(out.PixF[0]), 1e-6)
	assert.InDelta(t, 0.25, float64(out.PixF[1]), 1e-6)
	assert.InDelta(t, 0.75, float64(out.PixF[2]), 1e-6)
	assert.InDelta(t, 1.0, float64(out.PixF[3]), 1e-6)
}

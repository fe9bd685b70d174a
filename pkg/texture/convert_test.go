package texture

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"texpack/pkg/types"
)

func TestPromoteDemoteRoundTrip(t *testing.T) {
	for v := 0; v <= 255; v++ {
		wide := Promote8To16(uint8(v))
		assert.Equal(t, uint8(v), Demote16To8(wide), "value %d", v)
	}
	// Bit replication keeps the extremes exact.
	assert.Equal(t, uint16(0), Promote8To16(0))
	assert.Equal(t, uint16(65535), Promote8To16(255))
	assert.Equal(t, uint16(128*257), Promote8To16(128))
}

func TestSRGBEncode(t *testing.T) {
	assert.Equal(t, 0.0, SRGBEncode(0))
	assert.Equal(t, 1.0, SRGBEncode(1))
	assert.Equal(t, 0.0, SRGBEncode(-0.5), "negative input clamps")
	assert.Equal(t, 1.0, SRGBEncode(4.2), "hdr input clamps")

	// Linear segment below the knee.
	assert.InDelta(t, 12.92*0.001, SRGBEncode(0.001), 1e-12)
	// Known reference point: linear 0.5 encodes near 0.7354.
	assert.InDelta(t, 0.7354, SRGBEncode(0.5), 0.0005)
	// Monotonic across the knee.
	assert.Less(t, SRGBEncode(0.0031307), SRGBEncode(0.0031309))
}

func TestQuantizeFloat(t *testing.T) {
	assert.Equal(t, uint8(0), QuantizeFloat8(0, false))
	assert.Equal(t, uint8(255), QuantizeFloat8(1, false))
	assert.Equal(t, uint8(255), QuantizeFloat8(2.5, false))
	assert.Equal(t, uint8(128), QuantizeFloat8(0.5019608, false))

	assert.Equal(t, uint16(65535), QuantizeFloat16(1, true))
	assert.Equal(t, uint16(0), QuantizeFloat16(-1, true))

	// The curve brightens midtones.
	assert.Greater(t, QuantizeFloat8(0.5, true), QuantizeFloat8(0.5, false))
}

func TestPlaneConvert(t *testing.T) {
	res := types.Resolution{W: 2, H: 1}

	p8 := NewPlane8(res, []uint8{0, 200})
	p16 := p8.Convert(types.Depth16, false)
	assert.Equal(t, types.Depth16, p16.Depth)
	assert.Equal(t, []uint16{0, 200 * 257}, p16.Pix16)

	back := p16.Convert(types.Depth8, false)
	assert.Equal(t, []uint8{0, 200}, back.Pix8)

	// Same depth returns the identical plane.
	assert.Same(t, p8, p8.Convert(types.Depth8, false))

	pf := NewPlaneFloat(res, []float32{0.5, 1})
	q := pf.Convert(types.Depth8, false)
	assert.Equal(t, []uint8{128, 255}, q.Pix8)

	// The curve is for float sources only; integer input ignores it.
	assert.Equal(t, p16.Pix16, p8.Convert(types.Depth16, true).Pix16)
}

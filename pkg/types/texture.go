package types

import "fmt"

// Resolution is a texture size in pixels.
type Resolution struct {
	W int `json:"w"`
	H int `json:"h"`
}

func (r Resolution) String() string {
	return fmt.Sprintf("%dx%d", r.W, r.H)
}

// Area returns W*H, used to order resolutions when picking a rescale target.
func (r Resolution) Area() int {
	return r.W * r.H
}

func (r Resolution) IsZero() bool {
	return r.W == 0 || r.H == 0
}

// IsPowerOfTwo reports whether both dimensions are powers of two.
// Non-power-of-two sources are rejected because the packed output is
// expected to be mip-map friendly.
func (r Resolution) IsPowerOfTwo() bool {
	return isPow2(r.W) && isPow2(r.H)
}

func isPow2(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// SizeSuffix maps a resolution to the conventional filename size label
// ("512", "1K", "2K", ...). Sizes beyond the known labels fall back to
// the raw pixel width.
func (r Resolution) SizeSuffix() string {
	width := r.W
	if r.H > width {
		width = r.H
	}
	for _, t := range []struct {
		max   int
		label string
	}{
		{512, "512"}, {1024, "1K"}, {2048, "2K"}, {4096, "4K"}, {8192, "8K"},
	} {
		if width <= t.max {
			return t.label
		}
	}
	return fmt.Sprintf("%dpx", width)
}

// BitDepth is the per-channel sample format of a source or output image.
type BitDepth int

const (
	Depth8 BitDepth = iota
	Depth16
	DepthFloat
)

func (d BitDepth) String() string {
	switch d {
	case Depth8:
		return "8-bit"
	case Depth16:
		return "16-bit"
	case DepthFloat:
		return "float32"
	default:
		return "unknown"
	}
}

// ChannelSlot identifies one channel of the packed output.
type ChannelSlot string

const (
	SlotR ChannelSlot = "R"
	SlotG ChannelSlot = "G"
	SlotB ChannelSlot = "B"
	SlotA ChannelSlot = "A"
)

// SlotOrder is the stable iteration order for channel slots. Every loop
// over slots goes through this list so tie-breaks and log output are
// deterministic.
var SlotOrder = []ChannelSlot{SlotR, SlotG, SlotB, SlotA}

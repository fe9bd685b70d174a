package engine

import (
	"bytes"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"texpack/pkg/config"
	"texpack/pkg/filesystem"
	"texpack/pkg/logging"
	"texpack/pkg/types"
)

func writePNG(t *testing.T, fsys types.FS, path string, size int, value uint8) {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, size, size))
	for i := range img.Pix {
		img.Pix[i] = value
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	require.NoError(t, fsys.WriteFile(path, buf.Bytes(), 0o644))
}

func TestRepair_FillsAndRescales(t *testing.T) {
	fsys := filesystem.NewMem()
	writePNG(t, fsys, "in/r.png", 4, 100)
	writePNG(t, fsys, "in/m.png", 8, 200)

	a := resolve(t, ormMode(),
		handle("r.png", "roughness", 4, 4),
		handle("m.png", "metalness", 8, 8),
	)
	report := Validate(a, repairAll())
	require.False(t, report.Fatal())
	require.Equal(t, types.Resolution{W: 4, H: 4}, report.Target)

	cfg := config.Default()
	planes, err := NewRepairer(fsys, cfg, logging.GetLogger("test")).Repair(a, report)
	require.NoError(t, err)
	require.Len(t, planes, 3)

	for slot, p := range planes {
		assert.Equal(t, report.Target, p.Res, "slot %s", slot)
	}
	assert.Equal(t, uint8(255), planes[types.SlotR].Pix8[0], "missing ao fills with the type default")
	assert.Equal(t, uint8(100), planes[types.SlotG].Pix8[0])
	assert.Equal(t, uint8(200), planes[types.SlotB].Pix8[0], "rescaled uniform keeps its value")
}

func TestRepair_UndecodableSourceDegradesWithFill(t *testing.T) {
	fsys := filesystem.NewMem()
	// Probed fine earlier, but the pixel data is gone bad.
	require.NoError(t, fsys.WriteFile("in/r.png", []byte("corrupt"), 0o644))
	writePNG(t, fsys, "in/m.png", 4, 200)

	a := resolve(t, ormMode(),
		handle("r.png", "roughness", 4, 4),
		handle("m.png", "metalness", 4, 4),
	)
	report := Validate(a, repairAll())
	require.False(t, report.Fatal())

	cfg := config.Default()
	planes, err := NewRepairer(fsys, cfg, logging.GetLogger("test")).Repair(a, report)
	require.NoError(t, err)
	assert.Equal(t, uint8(128), planes[types.SlotG].Pix8[0], "roughness default substitutes")

	cfg.DefaultFill = false
	_, err = NewRepairer(fsys, cfg, logging.GetLogger("test")).Repair(a, report)
	assert.Error(t, err, "without default fill the combination fails")
}

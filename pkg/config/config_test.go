package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"texpack/pkg/errors"
	"texpack/pkg/types"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "png", cfg.FileType)
	assert.Equal(t, "down", cfg.ResizeStrategy)
	assert.True(t, cfg.DefaultFill)
	assert.True(t, cfg.EXRSRGBCurve)
	assert.False(t, cfg.DeleteUsed)
	assert.Equal(t, "created_maps", cfg.DestFolderName)
	assert.Empty(t, cfg.BackupFolderName)
	assert.Empty(t, cfg.ActiveModes(), "defaults ship no modes")

	// Spot-check the built-in type table.
	key, ao, ok := cfg.TypeFor("AO")
	require.True(t, ok)
	assert.Equal(t, "ao", key)
	assert.True(t, ao.Grayscale())
	assert.Equal(t, uint8(255), ao.Default)

	_, normal, ok := cfg.TypeFor("normal")
	require.True(t, ok)
	assert.False(t, normal.Grayscale())
}

func TestParseBytes_OverridesAndModes(t *testing.T) {
	cfg, err := ParseBytes([]byte(`
file_type = "JPG"
resize_strategy = "UP"
backup_folder_name = "used"

[[modes]]
mode_name = "ORM"

[modes.channels]
r = "ao"
g = "roughness"
b = "metalness"
`))
	require.NoError(t, err)

	assert.Equal(t, "jpeg", cfg.FileType, "jpg normalizes to jpeg")
	assert.Equal(t, "up", cfg.ResizeStrategy)
	assert.Equal(t, "used", cfg.BackupFolderName)

	modes := cfg.ActiveModes()
	require.Len(t, modes, 1)
	assert.Equal(t, "ORM", modes[0].Name)
	assert.Equal(t, "ao", modes[0].Channels[types.SlotR])
	assert.Equal(t, "roughness", modes[0].Channels[types.SlotG])
	assert.False(t, modes[0].HasAlpha())
	assert.Equal(t, "ARM", modes[0].Suffix())
}

func TestParseBytes_ChannelNormalization(t *testing.T) {
	tests := []struct {
		name    string
		toml    string
		want    map[types.ChannelSlot]string
		errCode errors.ErrorCode
		errPart string
	}{
		{
			name: "rgb map on color slot gets destination selector",
			toml: `
[[modes]]
mode_name = "N"
[modes.channels]
r = "normal"
g = "normal"
b = "height"
`,
			want: map[types.ChannelSlot]string{
				types.SlotR: "normal.r",
				types.SlotG: "normal.g",
				types.SlotB: "height",
			},
		},
		{
			name: "explicit selector is kept",
			toml: `
[[modes]]
mode_name = "N"
[modes.channels]
r = "normal.g"
g = "roughness"
b = "metalness"
`,
			want: map[types.ChannelSlot]string{
				types.SlotR: "normal.g",
				types.SlotG: "roughness",
				types.SlotB: "metalness",
			},
		},
		{
			name: "stray selector on grayscale map is dropped",
			toml: `
[[modes]]
mode_name = "G"
[modes.channels]
r = "roughness.g"
g = "roughness"
b = "metalness"
`,
			want: map[types.ChannelSlot]string{
				types.SlotR: "roughness",
				types.SlotG: "roughness",
				types.SlotB: "metalness",
			},
		},
		{
			name: "suffix alias is not a type name",
			toml: `
[[modes]]
mode_name = "X"
[modes.channels]
r = "rough"
g = "roughness"
b = "metalness"
`,
			errCode: errors.ErrConfigValid,
			errPart: "unknown map type",
		},
		{
			name: "missing color channel",
			toml: `
[[modes]]
mode_name = "X"
[modes.channels]
r = "ao"
b = "metalness"
`,
			errCode: errors.ErrConfigValid,
			errPart: "missing required channel G",
		},
		{
			name: "rgb map on alpha needs a selector",
			toml: `
[[modes]]
mode_name = "X"
[modes.channels]
r = "ao"
g = "roughness"
b = "metalness"
a = "normal"
`,
			errCode: errors.ErrConfigValid,
			errPart: "alpha",
		},
		{
			name: "alpha with jpeg output",
			toml: `
file_type = "jpeg"
[[modes]]
mode_name = "X"
[modes.channels]
r = "ao"
g = "roughness"
b = "metalness"
a = "mask"
`,
			errCode: errors.ErrConfigValid,
			errPart: "does not support alpha",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := ParseBytes([]byte(tt.toml))
			if tt.errCode != "" {
				require.Error(t, err)
				assert.True(t, errors.IsCode(err, tt.errCode), "got %v", err)
				assert.Contains(t, err.Error(), tt.errPart)
				return
			}
			require.NoError(t, err)
			modes := cfg.ActiveModes()
			require.Len(t, modes, 1)
			assert.Equal(t, tt.want, modes[0].Channels)
		})
	}
}

func TestParseBytes_InvalidGlobals(t *testing.T) {
	_, err := ParseBytes([]byte(`file_type = "bmp"`))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfigValid))

	_, err = ParseBytes([]byte(`resize_strategy = "sideways"`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "resize_strategy")

	_, err = ParseBytes([]byte(`dest_folder_name = "out:put"`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "folder name")
}

func TestParseBytes_InertModesAreKept(t *testing.T) {
	cfg, err := ParseBytes([]byte(`
[[modes]]
mode_name = "later"
`))
	require.NoError(t, err)
	assert.Len(t, cfg.Modes, 1)
	assert.Empty(t, cfg.ActiveModes())
}

func TestGenerateConfigContent(t *testing.T) {
	content, err := GenerateConfigContent()
	require.NoError(t, err)

	// Everything is commented out: parsing the file as-is must yield the
	// plain defaults.
	cfg, err := ParseBytes([]byte(content))
	require.NoError(t, err)
	assert.Equal(t, "png", cfg.FileType)
	assert.Empty(t, cfg.ActiveModes())

	assert.Contains(t, content, "# Example packing mode")
	assert.Contains(t, content, "ORM")
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, "[") {
			continue
		}
		t.Fatalf("uncommented value line: %q", line)
	}
}

package config

import (
	"fmt"
	"strings"

	"texpack/pkg/errors"
	"texpack/pkg/types"
)

// TextureType describes one semantic map type: the filename suffix
// aliases that identify it, whether the source is grayscale or RGB, and
// the constant used to synthesize the map when it is missing.
type TextureType struct {
	Suffixes []string `koanf:"suffixes"`
	Kind     string   `koanf:"kind"` // "G" or "RGB"
	Default  uint8    `koanf:"default"`
}

// Grayscale reports whether sources of this type carry a single channel
// of meaningful data.
func (t TextureType) Grayscale() bool {
	return strings.EqualFold(t.Kind, "G")
}

// Config is the full runtime configuration. The engine consumes these
// as plain values; parsing and layering live in the loader.
type Config struct {
	InputFolder      string                 `koanf:"input_folder"`
	FileType         string                 `koanf:"file_type"`
	ResizeStrategy   string                 `koanf:"resize_strategy"`
	EXRSRGBCurve     bool                   `koanf:"exr_srgb_curve"`
	DefaultFill      bool                   `koanf:"default_fill"`
	DeleteUsed       bool                   `koanf:"delete_used"`
	DestFolderName   string                 `koanf:"dest_folder_name"`
	BackupFolderName string                 `koanf:"backup_folder_name"`
	ShowDetails      bool                   `koanf:"show_details"`
	Modes            []types.ModeSpec       `koanf:"modes"`
	Types            map[string]TextureType `koanf:"types"`
}

// allowedFileTypes are the encodable output formats. EXR is a source
// format only.
var allowedFileTypes = map[string]bool{
	"png":  true,
	"jpeg": true,
	"tiff": true,
}

// unsafeFolderChars may not appear in configured folder names.
const unsafeFolderChars = `\/:*?"<>|`

// TypeFor looks up a texture type case-insensitively and returns the
// canonical (lowercase) name alongside it.
func (c *Config) TypeFor(name string) (string, TextureType, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	t, ok := c.Types[key]
	return key, t, ok
}

// ActiveModes returns the non-inert modes in configuration order.
func (c *Config) ActiveModes() []types.ModeSpec {
	var out []types.ModeSpec
	for _, m := range c.Modes {
		if !m.Inert() {
			out = append(out, m)
		}
	}
	return out
}

// Normalize validates the configuration and rewrites mode channel
// values into their canonical form:
//
//   - an RGB map assigned to R/G/B without a component selector gets the
//     destination channel as selector ("normal" on G becomes "normal.g")
//   - an RGB map assigned to A without a selector is rejected, there is
//     no way to guess which component was meant
//   - a stray selector on a grayscale map is dropped
//
// Inert modes are left untouched; they are reported as skipped at run
// time rather than rejected here.
func (c *Config) Normalize() error {
	if err := c.normalizeGlobals(); err != nil {
		return err
	}

	anyAlpha := false
	for i := range c.Modes {
		mode := &c.Modes[i]
		canonicalizeSlotKeys(mode)
		if mode.Inert() {
			continue
		}
		if err := c.normalizeMode(mode); err != nil {
			return err
		}
		if mode.HasAlpha() {
			anyAlpha = true
		}
	}

	if anyAlpha && c.FileType == "jpeg" {
		return errors.New(errors.ErrConfigValid,
			"a texture is mapped to the alpha channel but file_type 'jpeg' does not support alpha; use 'png' or 'tiff'")
	}
	return nil
}

func (c *Config) normalizeGlobals() error {
	c.FileType = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(c.FileType)), ".")
	if c.FileType == "jpg" {
		c.FileType = "jpeg"
	}
	if !allowedFileTypes[c.FileType] {
		return errors.Newf(errors.ErrConfigValid,
			"invalid file_type %q, supported: jpeg, png, tiff", c.FileType)
	}

	c.ResizeStrategy = strings.ToLower(strings.TrimSpace(c.ResizeStrategy))
	switch c.ResizeStrategy {
	case "up", "down":
	case "":
		c.ResizeStrategy = "down"
	default:
		return errors.Newf(errors.ErrConfigValid,
			"invalid resize_strategy %q, must be 'up' or 'down'", c.ResizeStrategy)
	}

	for _, name := range []string{c.DestFolderName, c.BackupFolderName} {
		if strings.ContainsAny(name, unsafeFolderChars) {
			return errors.Newf(errors.ErrConfigValid,
				"invalid folder name %q: may not contain %s", name, unsafeFolderChars)
		}
	}
	c.DestFolderName = strings.TrimSpace(c.DestFolderName)
	c.BackupFolderName = strings.TrimSpace(c.BackupFolderName)

	// Canonicalize the type table keys so lookups are case-insensitive.
	canon := make(map[string]TextureType, len(c.Types))
	for name, t := range c.Types {
		canon[strings.ToLower(strings.TrimSpace(name))] = t
	}
	c.Types = canon
	return nil
}

// canonicalizeSlotKeys uppercases channel keys so "r" and "R" in the
// TOML address the same slot.
func canonicalizeSlotKeys(mode *types.ModeSpec) {
	if len(mode.Channels) == 0 {
		return
	}
	canon := make(map[types.ChannelSlot]string, len(mode.Channels))
	for k, v := range mode.Channels {
		canon[types.ChannelSlot(strings.ToUpper(strings.TrimSpace(string(k))))] = v
	}
	mode.Channels = canon
}

func (c *Config) normalizeMode(mode *types.ModeSpec) error {
	normalized := make(map[types.ChannelSlot]string, len(mode.Channels))
	for _, slot := range types.SlotOrder {
		value := strings.TrimSpace(mode.Channels[slot])
		if value == "" {
			if slot == types.SlotA {
				continue
			}
			return errors.Newf(errors.ErrConfigValid,
				"mode %q is missing required channel %s", mode.Name, slot)
		}

		base, selector := types.SplitChannelRef(value)
		_, t, ok := c.TypeFor(base)
		if !ok {
			// The full value may itself be a type name that happens to end
			// in a selector-looking pair (e.g. a custom "my_r" type).
			if full, tFull, okFull := c.TypeFor(value); okFull {
				base, selector, t = full, "", tFull
			} else {
				return errors.Newf(errors.ErrConfigValid,
					"mode %q channel %s references unknown map type %q", mode.Name, slot, value)
			}
		}

		switch {
		case t.Grayscale():
			normalized[slot] = base
		case selector != "":
			normalized[slot] = base + "." + selector
		case slot == types.SlotA:
			return errors.Newf(errors.ErrConfigValid,
				"mode %q assigns RGB map %q to alpha without a component; use e.g. %q or a grayscale map",
				mode.Name, value, value+".r")
		default:
			normalized[slot] = base + "." + strings.ToLower(string(slot))
		}
	}
	mode.Channels = normalized
	return nil
}

// Describe returns a short human-readable summary, used at -vv.
func (c *Config) Describe() string {
	return fmt.Sprintf("file_type=%s resize=%s srgb_curve=%t default_fill=%t modes=%d types=%d",
		c.FileType, c.ResizeStrategy, c.EXRSRGBCurve, c.DefaultFill, len(c.ActiveModes()), len(c.Types))
}

package types

import "strings"

// ModeSpec is one named packing mode from the configuration: which map
// type fills which output channel. A channel value is a map type name,
// optionally with a component selector ("normal.r") when the source map
// is RGB.
type ModeSpec struct {
	Name         string                 `koanf:"mode_name" toml:"mode_name"`
	Channels     map[ChannelSlot]string `koanf:"channels" toml:"channels"`
	CustomSuffix string                 `koanf:"custom_suffix" toml:"custom_suffix,omitempty"`
}

// Inert reports whether the mode should be skipped entirely: no name,
// or none of R/G/B mapped. Inert modes are not an error.
func (m ModeSpec) Inert() bool {
	if strings.TrimSpace(m.Name) == "" {
		return true
	}
	for _, slot := range []ChannelSlot{SlotR, SlotG, SlotB} {
		if strings.TrimSpace(m.Channels[slot]) != "" {
			return false
		}
	}
	return true
}

// Slots returns the declared channel slots in stable R,G,B,A order.
func (m ModeSpec) Slots() []ChannelSlot {
	var slots []ChannelSlot
	for _, slot := range SlotOrder {
		if strings.TrimSpace(m.Channels[slot]) != "" {
			slots = append(slots, slot)
		}
	}
	return slots
}

// HasAlpha reports whether the mode maps anything to the alpha slot.
// Without alpha the output is a 3-channel image, never a filled-white
// fourth channel.
func (m ModeSpec) HasAlpha() bool {
	return strings.TrimSpace(m.Channels[SlotA]) != ""
}

// RequiredMapTypes returns the unique base map types the mode needs,
// in slot order.
func (m ModeSpec) RequiredMapTypes() []string {
	seen := make(map[string]bool)
	var out []string
	for _, slot := range m.Slots() {
		base, _ := SplitChannelRef(m.Channels[slot])
		if !seen[base] {
			seen[base] = true
			out = append(out, base)
		}
	}
	return out
}

// Suffix returns the output filename suffix for this mode: the custom
// suffix when configured, otherwise the first letters of the unique
// mapped map types ("ao, roughness, metalness" -> "ARM").
func (m ModeSpec) Suffix() string {
	if s := strings.TrimSpace(m.CustomSuffix); s != "" {
		return s
	}
	seen := make(map[string]bool)
	var b strings.Builder
	for _, slot := range m.Slots() {
		base, _ := SplitChannelRef(m.Channels[slot])
		if base == "" || seen[base] {
			continue
		}
		seen[base] = true
		b.WriteString(strings.ToUpper(base[:1]))
	}
	return b.String()
}

// SplitChannelRef splits a channel value into its base map type and
// optional component selector: "normal.r" -> ("normal", "r"),
// "roughness" -> ("roughness", ""). Both "." and "_" separate the
// selector, matching common authoring conventions.
func SplitChannelRef(v string) (base, selector string) {
	v = strings.ToLower(strings.TrimSpace(v))
	if len(v) < 2 {
		return v, ""
	}
	sep := v[len(v)-2]
	if sep != '.' && sep != '_' {
		return v, ""
	}
	c := v[len(v)-1]
	if c != 'r' && c != 'g' && c != 'b' && c != 'a' {
		return v, ""
	}
	return v[:len(v)-2], string(c)
}

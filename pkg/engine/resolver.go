package engine

import (
	"fmt"
	"sort"
	"strings"

	"texpack/pkg/errors"
	"texpack/pkg/scanner"
	"texpack/pkg/texture"
	"texpack/pkg/types"
)

// SlotSource binds one output channel slot to its source. Either Handle
// is set, or Missing is true and the slot will be synthesized from the
// type's default fill value during repair.
type SlotSource struct {
	MapType  string // base map type the mode asked for
	Selector string // component selector for RGB sources, "" for grayscale
	Handle   *texture.Handle
	Missing  bool
}

// ChannelAssignment is the resolved binding of one texture set to one
// mode: every declared slot mapped to a concrete file or marked missing.
// Resolution succeeds or fails atomically; a partially resolved
// assignment is never returned.
type ChannelAssignment struct {
	BaseName    string
	DisplayName string
	Mode        types.ModeSpec
	Slots       map[types.ChannelSlot]*SlotSource
}

// PresentHandles returns the distinct source handles backing the
// assignment, in slot order. The same file may feed several slots via
// component selectors and is reported once.
func (a *ChannelAssignment) PresentHandles() []*texture.Handle {
	seen := make(map[*texture.Handle]bool)
	var out []*texture.Handle
	for _, slot := range a.Mode.Slots() {
		src := a.Slots[slot]
		if src.Missing || seen[src.Handle] {
			continue
		}
		seen[src.Handle] = true
		out = append(out, src.Handle)
	}
	return out
}

// MissingSlots returns the slots with no source file, in slot order.
func (a *ChannelAssignment) MissingSlots() []types.ChannelSlot {
	var out []types.ChannelSlot
	for _, slot := range a.Mode.Slots() {
		if a.Slots[slot].Missing {
			out = append(out, slot)
		}
	}
	return out
}

// Resolve binds a texture set to a mode. Exactly one file per required
// map type: zero candidates marks the slot missing (the validator
// decides whether that is fatal), two or more is ambiguous and fails
// the combination outright rather than silently picking one.
func Resolve(set *scanner.Set, mode types.ModeSpec) (*ChannelAssignment, error) {
	a := &ChannelAssignment{
		BaseName:    set.BaseName,
		DisplayName: set.DisplayName,
		Mode:        mode,
		Slots:       make(map[types.ChannelSlot]*SlotSource),
	}

	for _, slot := range mode.Slots() {
		base, selector := types.SplitChannelRef(mode.Channels[slot])
		candidates := set.ByMapType(base)
		switch len(candidates) {
		case 0:
			a.Slots[slot] = &SlotSource{MapType: base, Selector: selector, Missing: true}
		case 1:
			a.Slots[slot] = &SlotSource{MapType: base, Selector: selector, Handle: candidates[0]}
		default:
			return nil, errors.Newf(errors.ErrAmbiguousSource,
				"set %q has %d candidates for map type %q (%s); rename or remove the extras",
				set.DisplayName, len(candidates), base, candidateNames(candidates))
		}
	}
	return a, nil
}

func candidateNames(handles []*texture.Handle) string {
	names := make([]string, len(handles))
	for i, h := range handles {
		names[i] = h.Filename
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

// HasDeclaredSize reports whether any present source carries a size
// suffix in its file name. The output name gets a size label only for
// sets that were labeled to begin with, and that label reflects the
// packed resolution, not the suffix of any one source.
func (a *ChannelAssignment) HasDeclaredSize() bool {
	for _, h := range a.PresentHandles() {
		if h.SizeSuffix != "" {
			return true
		}
	}
	return false
}

// String is used in debug logs only.
func (a *ChannelAssignment) String() string {
	var parts []string
	for _, slot := range a.Mode.Slots() {
		src := a.Slots[slot]
		if src.Missing {
			parts = append(parts, fmt.Sprintf("%s=<%s missing>", slot, src.MapType))
		} else {
			parts = append(parts, fmt.Sprintf("%s=%s", slot, src.Handle.Filename))
		}
	}
	return a.DisplayName + "/" + a.Mode.Name + "{" + strings.Join(parts, " ") + "}"
}

package engine

import (
	"fmt"
	"strings"

	"texpack/pkg/errors"
	"texpack/pkg/texture"
	"texpack/pkg/types"
)

// Policy is the subset of configuration that decides whether a problem
// is repairable. An empty ResizeStrategy means resizing is not allowed
// and resolution mismatches are fatal.
type Policy struct {
	ResizeStrategy string // "down", "up" or ""
	DefaultFill    bool
}

// Problem is one validation finding for an assignment. Non-fatal
// problems name a repair the repairer will perform.
type Problem struct {
	Slot   types.ChannelSlot
	Code   errors.ErrorCode
	Fatal  bool
	Detail string
}

func (p Problem) String() string {
	return fmt.Sprintf("%s: %s", p.Code, p.Detail)
}

// ValidationReport is the outcome of validating one assignment: the
// problems found and the target resolution every plane must end up at.
// Target is zero when a fatal problem prevented choosing one.
type ValidationReport struct {
	Problems []Problem
	Target   types.Resolution
}

// Fatal reports whether any problem rules out packing this combination.
func (r *ValidationReport) Fatal() bool {
	for _, p := range r.Problems {
		if p.Fatal {
			return true
		}
	}
	return false
}

// FatalDetail joins the fatal problem details into one message for the
// run report.
func (r *ValidationReport) FatalDetail() string {
	var parts []string
	for _, p := range r.Problems {
		if p.Fatal {
			parts = append(parts, p.Detail)
		}
	}
	return strings.Join(parts, "; ")
}

// Validate checks an assignment against the policy. It never mutates
// the assignment and never touches pixel data; everything here works on
// probed metadata.
//
// Fatal regardless of policy: no present source at all, a source that
// could not be probed, and non-power-of-two dimensions. Policy-gated:
// missing slots are repairable only with default fill enabled, and
// mixed resolutions only with a resize strategy configured.
func Validate(a *ChannelAssignment, policy Policy) *ValidationReport {
	report := &ValidationReport{}
	present := a.PresentHandles()

	if len(present) == 0 {
		report.Problems = append(report.Problems, Problem{
			Code:   errors.ErrEmptySet,
			Fatal:  true,
			Detail: fmt.Sprintf("no source maps found for set %q", a.DisplayName),
		})
		return report
	}

	for _, slot := range a.MissingSlots() {
		src := a.Slots[slot]
		report.Problems = append(report.Problems, Problem{
			Slot:  slot,
			Code:  errors.ErrMissingChannel,
			Fatal: !policy.DefaultFill,
			Detail: fmt.Sprintf("no %q map for channel %s (default fill %s)",
				src.MapType, slot, enabledWord(policy.DefaultFill)),
		})
	}

	fatalRes := false
	for _, h := range present {
		switch {
		case h.Resolution.IsZero():
			fatalRes = true
			report.Problems = append(report.Problems, Problem{
				Code:   errors.ErrInvalidResolution,
				Fatal:  true,
				Detail: fmt.Sprintf("%s could not be read", h.Filename),
			})
		case !h.Resolution.IsPowerOfTwo():
			fatalRes = true
			report.Problems = append(report.Problems, Problem{
				Code:   errors.ErrInvalidResolution,
				Fatal:  true,
				Detail: fmt.Sprintf("%s is %s, not a power-of-two resolution", h.Filename, h.Resolution),
			})
		}
	}
	if fatalRes {
		return report
	}

	report.Target = targetResolution(present, policy.ResizeStrategy)
	for _, h := range present {
		if h.Resolution != report.Target {
			report.Problems = append(report.Problems, Problem{
				Code:  errors.ErrResolutionMismatch,
				Fatal: policy.ResizeStrategy == "",
				Detail: fmt.Sprintf("%s is %s, target is %s (resize %s)",
					h.Filename, h.Resolution, report.Target, enabledWord(policy.ResizeStrategy != "")),
			})
		}
	}
	return report
}

// targetResolution picks the common output resolution: the smallest
// source by pixel area for "down", the largest for "up". Ties keep the
// earliest source in slot order, so the choice is deterministic.
func targetResolution(present []*texture.Handle, strategy string) types.Resolution {
	target := present[0].Resolution
	for _, h := range present[1:] {
		switch strategy {
		case "up":
			if h.Resolution.Area() > target.Area() {
				target = h.Resolution
			}
		default:
			if h.Resolution.Area() < target.Area() {
				target = h.Resolution
			}
		}
	}
	return target
}

func enabledWord(on bool) string {
	if on {
		return "enabled"
	}
	return "disabled"
}

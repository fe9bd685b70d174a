package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"texpack/pkg/errors"
	"texpack/pkg/scanner"
	"texpack/pkg/texture"
	"texpack/pkg/types"
)

func resolve(t *testing.T, mode types.ModeSpec, handles ...*texture.Handle) *ChannelAssignment {
	t.Helper()
	a, err := Resolve(&scanner.Set{BaseName: "wall", DisplayName: "wall", Handles: handles}, mode)
	require.NoError(t, err)
	return a
}

func repairAll() Policy {
	return Policy{ResizeStrategy: "down", DefaultFill: true}
}

func TestValidate_CleanSet(t *testing.T) {
	a := resolve(t, ormMode(),
		handle("a.png", "ao", 512, 512),
		handle("r.png", "roughness", 512, 512),
		handle("m.png", "metalness", 512, 512),
	)

	report := Validate(a, repairAll())
	assert.Empty(t, report.Problems)
	assert.False(t, report.Fatal())
	assert.Equal(t, types.Resolution{W: 512, H: 512}, report.Target)
}

func TestValidate_EmptySetIsAlwaysFatal(t *testing.T) {
	a := resolve(t, ormMode())

	report := Validate(a, repairAll())
	require.True(t, report.Fatal())
	require.Len(t, report.Problems, 1)
	assert.Equal(t, errors.ErrEmptySet, report.Problems[0].Code)
	assert.True(t, report.Target.IsZero())
}

func TestValidate_MissingChannelFollowsPolicy(t *testing.T) {
	a := resolve(t, ormMode(),
		handle("r.png", "roughness", 512, 512),
		handle("m.png", "metalness", 512, 512),
	)

	report := Validate(a, repairAll())
	assert.False(t, report.Fatal(), "default fill repairs a missing map")
	require.Len(t, report.Problems, 1)
	assert.Equal(t, errors.ErrMissingChannel, report.Problems[0].Code)
	assert.Equal(t, types.SlotR, report.Problems[0].Slot)

	report = Validate(a, Policy{ResizeStrategy: "down", DefaultFill: false})
	assert.True(t, report.Fatal())
}

func TestValidate_ResolutionMismatchFollowsPolicy(t *testing.T) {
	a := resolve(t, ormMode(),
		handle("a.png", "ao", 512, 512),
		handle("r.png", "roughness", 1024, 1024),
		handle("m.png", "metalness", 512, 512),
	)

	report := Validate(a, repairAll())
	assert.False(t, report.Fatal())
	require.Len(t, report.Problems, 1)
	assert.Equal(t, errors.ErrResolutionMismatch, report.Problems[0].Code)
	assert.Equal(t, types.Resolution{W: 512, H: 512}, report.Target, "down picks the smallest")

	report = Validate(a, Policy{ResizeStrategy: "up", DefaultFill: true})
	assert.False(t, report.Fatal())
	assert.Equal(t, types.Resolution{W: 1024, H: 1024}, report.Target, "up picks the largest")

	report = Validate(a, Policy{ResizeStrategy: "", DefaultFill: true})
	assert.True(t, report.Fatal(), "no resize strategy makes mismatch fatal")
}

func TestValidate_NonPowerOfTwoIsFatal(t *testing.T) {
	a := resolve(t, ormMode(),
		handle("a.png", "ao", 500, 512),
		handle("r.png", "roughness", 512, 512),
		handle("m.png", "metalness", 512, 512),
	)

	report := Validate(a, repairAll())
	require.True(t, report.Fatal())
	assert.Equal(t, errors.ErrInvalidResolution, report.Problems[0].Code)
	assert.Contains(t, report.FatalDetail(), "power-of-two")
	assert.True(t, report.Target.IsZero(), "no target when a source is unusable")
}

func TestValidate_UnreadableSourceIsFatal(t *testing.T) {
	a := resolve(t, ormMode(),
		handle("a.png", "ao", 0, 0),
		handle("r.png", "roughness", 512, 512),
		handle("m.png", "metalness", 512, 512),
	)

	report := Validate(a, repairAll())
	require.True(t, report.Fatal())
	assert.Contains(t, report.FatalDetail(), "could not be read")
}

func TestValidate_TargetTieBreakIsSlotOrder(t *testing.T) {
	// Same area, different aspect: the first source in slot order wins.
	a := resolve(t, ormMode(),
		handle("a.png", "ao", 1024, 256),
		handle("r.png", "roughness", 512, 512),
		handle("m.png", "metalness", 512, 512),
	)

	report := Validate(a, repairAll())
	assert.Equal(t, types.Resolution{W: 1024, H: 256}, report.Target)
}

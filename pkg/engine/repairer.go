package engine

import (
	"github.com/rs/zerolog"

	"texpack/pkg/config"
	"texpack/pkg/errors"
	"texpack/pkg/texture"
	"texpack/pkg/types"
)

// Repairer turns a validated assignment into one plane per slot, all at
// the target resolution with source bit depths preserved. "Repair"
// covers the two allowed fixes: synthesizing a missing map from its
// configured default, and rescaling a mismatched one. Repair is
// all-or-nothing; on error no partial planes are returned.
type Repairer struct {
	fs  types.FS
	cfg *config.Config
	log zerolog.Logger
}

func NewRepairer(fsys types.FS, cfg *config.Config, log zerolog.Logger) *Repairer {
	return &Repairer{fs: fsys, cfg: cfg, log: log}
}

// Repair loads, fills and rescales. The caller must have checked
// report.Fatal() already; a fatal report here is a programming error
// and is rejected.
func (r *Repairer) Repair(a *ChannelAssignment, report *ValidationReport) (map[types.ChannelSlot]*texture.Plane, error) {
	if report.Fatal() {
		return nil, errors.New(errors.ErrInternal, "repair called on a fatally invalid assignment")
	}
	target := report.Target

	// Each distinct file is decoded once even when several slots select
	// components from it.
	loaded := make(map[*texture.Handle]*texture.Image)

	planes := make(map[types.ChannelSlot]*texture.Plane, len(a.Slots))
	for _, slot := range a.Mode.Slots() {
		src := a.Slots[slot]
		_, texType, _ := r.cfg.TypeFor(src.MapType)

		if src.Missing {
			r.log.Debug().
				Str("set", a.DisplayName).Str("mode", a.Mode.Name).
				Str("slot", string(slot)).Str("mapType", src.MapType).
				Uint8("fill", texType.Default).
				Msg("filling missing map with type default")
			planes[slot] = texture.NewUniform(target, types.Depth8, texType.Default)
			continue
		}

		img, ok := loaded[src.Handle]
		if !ok {
			var err error
			img, err = src.Handle.Load(r.fs)
			if err != nil {
				if !r.cfg.DefaultFill {
					return nil, errors.Wrapf(err, errors.ErrImageDecode, "load %s", src.Handle.Path)
				}
				// The header probed fine but the pixel data did not decode.
				// With default fill on, degrade to the synthetic plane instead
				// of failing the whole combination.
				r.log.Warn().Err(err).Str("file", src.Handle.Path).
					Msg("source failed to decode, substituting type default")
				planes[slot] = texture.NewUniform(target, types.Depth8, texType.Default)
				continue
			}
			loaded[src.Handle] = img
		}

		plane, err := img.ChannelPlane(src.Selector, texType.Grayscale())
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrUnsupportedImage,
				"select channel for slot %s from %s", slot, src.Handle.Filename)
		}
		planes[slot] = plane.Resample(target)
	}
	return planes, nil
}

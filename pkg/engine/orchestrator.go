package engine

import (
	"fmt"
	"sort"
	"strings"

	"texpack/pkg/config"
	"texpack/pkg/logging"
	"texpack/pkg/scanner"
	"texpack/pkg/texture"
	"texpack/pkg/types"
)

// Writer persists composited images and organizes consumed source
// files. Implemented by pkg/writer; tests substitute a recorder.
type Writer interface {
	// Save writes the image under the group's output folder and returns
	// the path it wrote, creating folders as needed. An existing file of
	// the same name is overwritten.
	Save(img *texture.Image, group, filename string) (string, error)
	// Backup moves consumed source files into the group's backup folder.
	Backup(group string, paths []string) error
	// Delete removes consumed source files.
	Delete(paths []string) error
}

// Engine drives a full packing run: scan, then resolve, validate,
// repair, composite and save every (texture set, mode) combination.
// One failing combination never stops the others.
type Engine struct {
	fs   types.FS
	cfg  *config.Config
	sink Writer
}

func New(fsys types.FS, cfg *config.Config, sink Writer) *Engine {
	return &Engine{fs: fsys, cfg: cfg, sink: sink}
}

// Run packs everything under root and returns the collected results.
// The returned error covers run-level failures only (unreadable input
// tree); per-combination failures land in the report.
func (e *Engine) Run(root string) (*types.RunReport, error) {
	logger := logging.GetLogger("engine")

	groups, err := scanner.New(e.fs, e.cfg).Scan(root)
	if err != nil {
		return nil, err
	}

	report := &types.RunReport{}
	for _, group := range groups {
		e.runGroup(group, report)
	}

	packed, skipped, failed := report.Tally()
	logger.Info().
		Int("groups", len(groups)).
		Int("packed", packed).Int("skipped", skipped).Int("failed", failed).
		Msg("run complete")
	return report, nil
}

func (e *Engine) runGroup(group scanner.Group, report *types.RunReport) {
	logger := logging.GetLogger("engine")

	for _, name := range group.Unmatched {
		logger.Debug().Str("group", group.RelPath).Str("file", name).
			Msg("no map type matched, ignoring file")
	}

	used := make(map[string]bool)
	for _, set := range group.Sets {
		for _, h := range set.Handles {
			if h.SuffixMismatch() {
				logger.Warn().Str("file", h.Filename).
					Str("declared", h.SizeSuffix).Str("actual", h.Resolution.SizeSuffix()).
					Msg("size suffix does not match actual resolution")
			}
		}

		allSkipped := true
		for _, mode := range e.cfg.Modes {
			result, sources := e.packOne(group, set, mode)
			result.Group = group.RelPath
			report.Results = append(report.Results, result)
			if result.Outcome == types.Packed {
				for _, h := range sources {
					used[h.Path] = true
				}
			}
			if result.Outcome == types.Packed || result.Outcome.Failed() {
				allSkipped = false
			}
		}
		if allSkipped {
			if report.SkippedSets == nil {
				report.SkippedSets = make(map[string]map[string][]string)
			}
			if report.SkippedSets[group.RelPath] == nil {
				report.SkippedSets[group.RelPath] = make(map[string][]string)
			}
			names := make([]string, 0, len(set.Handles))
			for _, h := range set.Handles {
				names = append(names, h.Filename)
			}
			report.SkippedSets[group.RelPath][set.DisplayName] = names
		}
	}

	e.organize(group.RelPath, used)
}

// packOne handles a single (set, mode) combination end to end and never
// lets its failure escape; every exit path is a PackResult.
func (e *Engine) packOne(group scanner.Group, set *scanner.Set, mode types.ModeSpec) (types.PackResult, []*texture.Handle) {
	logger := logging.GetLogger("engine")
	result := types.PackResult{BaseName: set.DisplayName, ModeName: modeLabel(mode)}

	if mode.Inert() {
		result.Outcome = types.SkippedEmptyMode
		result.Detail = "mode maps no color channels"
		return result, nil
	}

	if missing, ok := e.enoughMaps(set, mode); !ok {
		result.Outcome = types.SkippedInsufficient
		result.Detail = fmt.Sprintf("not enough source maps (missing %s)", strings.Join(missing, ", "))
		return result, nil
	}

	assignment, err := Resolve(set, mode)
	if err != nil {
		result.Outcome = types.FailedValidation
		result.Detail = err.Error()
		return result, nil
	}

	vr := Validate(assignment, Policy{
		ResizeStrategy: e.cfg.ResizeStrategy,
		DefaultFill:    e.cfg.DefaultFill,
	})
	if vr.Fatal() {
		result.Outcome = types.FailedValidation
		result.Detail = vr.FatalDetail()
		return result, nil
	}
	for _, p := range vr.Problems {
		logger.Debug().Str("set", set.DisplayName).Str("mode", mode.Name).
			Str("problem", p.String()).Msg("repairable problem")
	}

	planes, err := NewRepairer(e.fs, e.cfg, logger).Repair(assignment, vr)
	if err != nil {
		result.Outcome = types.FailedRepair
		result.Detail = err.Error()
		return result, nil
	}

	img := Composite(planes, mode, e.cfg)
	filename := outputFilename(assignment, img.Res, e.cfg.FileType)
	path, err := e.sink.Save(img, group.RelPath, filename)
	if err != nil {
		result.Outcome = types.FailedWrite
		result.Detail = err.Error()
		return result, nil
	}

	result.Outcome = types.Packed
	result.OutputFile = path
	result.Resolution = img.Res
	logger.Info().Str("output", path).Str("resolution", img.Res.String()).
		Msg("packed")
	return result, assignment.PresentHandles()
}

// enoughMaps applies the worth-packing threshold: at least two of the
// mode's required map types must be present, or all of them when the
// mode only needs one. Anything less is skipped quietly, these are
// usually stray files, not authoring mistakes.
func (e *Engine) enoughMaps(set *scanner.Set, mode types.ModeSpec) (missing []string, ok bool) {
	required := mode.RequiredMapTypes()
	have := set.MapTypes()
	present := 0
	for _, t := range required {
		if have[t] {
			present++
		} else {
			missing = append(missing, t)
		}
	}
	need := 2
	if len(required) < need {
		need = len(required)
	}
	return missing, present >= need
}

// organize moves or deletes source files that ended up inside a packed
// output. Deletion wins over backup when both are configured.
func (e *Engine) organize(group string, used map[string]bool) {
	if len(used) == 0 {
		return
	}
	logger := logging.GetLogger("engine")

	paths := make([]string, 0, len(used))
	for p := range used {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	switch {
	case e.cfg.DeleteUsed:
		if err := e.sink.Delete(paths); err != nil {
			logger.Warn().Err(err).Msg("could not delete used source files")
		}
	case e.cfg.BackupFolderName != "":
		if err := e.sink.Backup(group, paths); err != nil {
			logger.Warn().Err(err).Msg("could not back up used source files")
		}
	}
}

// outputFilename builds "<base>_<suffix>[_<size>].<ext>". The size
// label appears only when a source file declared one, and names the
// resolution actually packed; a 2K source downscaled to 512 yields a
// "_512" output.
func outputFilename(a *ChannelAssignment, res types.Resolution, fileType string) string {
	name := a.DisplayName + "_" + a.Mode.Suffix()
	if a.HasDeclaredSize() {
		name += "_" + res.SizeSuffix()
	}
	return name + extensionFor(fileType)
}

func extensionFor(fileType string) string {
	switch fileType {
	case "jpeg":
		return ".jpg"
	case "tiff":
		return ".tif"
	default:
		return ".png"
	}
}

func modeLabel(mode types.ModeSpec) string {
	if strings.TrimSpace(mode.Name) == "" {
		return "(unnamed)"
	}
	return mode.Name
}

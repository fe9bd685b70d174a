// Package scanner discovers source textures: it walks the input
// folder, infers each file's semantic map type from the configured
// suffix table, probes image metadata, and groups the resulting
// handles into texture sets per folder. The engine consumes its output
// as already-resolved input and never re-parses filenames.
package scanner

import (
	"path"
	"regexp"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"texpack/pkg/config"
	"texpack/pkg/logging"
	"texpack/pkg/texture"
	"texpack/pkg/types"
)

// Set is one texture set: all discovered maps sharing a base name
// within one folder. A map type may appear more than once (e.g. the
// same roughness in 2K and 4K); disambiguation is the resolver's call.
type Set struct {
	BaseName    string // lowercased stem, grouping key
	DisplayName string // original casing of the first file seen
	Handles     []*texture.Handle
}

// ByMapType returns the handles of one map type, preserving discovery
// order.
func (s *Set) ByMapType(mapType string) []*texture.Handle {
	var out []*texture.Handle
	for _, h := range s.Handles {
		if h.MapType == mapType {
			out = append(out, h)
		}
	}
	return out
}

// MapTypes returns the distinct map types present in the set.
func (s *Set) MapTypes() map[string]bool {
	out := make(map[string]bool)
	for _, h := range s.Handles {
		out[h.MapType] = true
	}
	return out
}

// Group is all sets found in one folder, keyed by the folder's path
// relative to the scan root ("." for the root itself).
type Group struct {
	RelPath   string
	Sets      []*Set
	Unmatched []string // file names whose map type could not be inferred
}

// Scanner walks an input tree and produces grouped texture handles.
type Scanner struct {
	fs  types.FS
	cfg *config.Config
}

func New(fsys types.FS, cfg *config.Config) *Scanner {
	return &Scanner{fs: fsys, cfg: cfg}
}

var sourceExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true,
	".tif": true, ".tiff": true, ".exr": true,
}

// sizeSuffixRe matches a trailing size token only; sizeTokenRe finds
// one anywhere in the stem, covering "base_size_type" layouts.
var (
	sizeSuffixRe = regexp.MustCompile(`(?i)[._-](8k|4k|2k|1k|512)$`)
	sizeTokenRe  = regexp.MustCompile(`(?i)[._-](8k|4k|2k|1k|512)(?:[._-]|$)`)
)

// Scan walks root recursively and returns one Group per folder that
// contains source images, sorted by folder path. Output and backup
// folders from previous runs are skipped, as are files whose name
// already carries a configured mode suffix.
func (s *Scanner) Scan(root string) ([]Group, error) {
	logger := logging.GetLogger("scanner")

	blocked := map[string]bool{}
	for _, n := range []string{s.cfg.DestFolderName, s.cfg.BackupFolderName} {
		if n != "" {
			blocked[n] = true
		}
	}

	byFolder := make(map[string][]string)
	var walk func(dir, rel string) error
	walk = func(dir, rel string) error {
		entries, err := s.fs.ReadDir(dir)
		if err != nil {
			return err
		}
		for _, e := range entries {
			if e.IsDir() {
				if blocked[e.Name()] {
					continue
				}
				sub := rel
				if sub == "." {
					sub = e.Name()
				} else {
					sub = path.Join(rel, e.Name())
				}
				if err := walk(path.Join(dir, e.Name()), sub); err != nil {
					return err
				}
				continue
			}
			if sourceExtensions[strings.ToLower(path.Ext(e.Name()))] {
				byFolder[rel] = append(byFolder[rel], e.Name())
			}
		}
		return nil
	}
	if err := walk(root, "."); err != nil {
		return nil, err
	}

	folders := make([]string, 0, len(byFolder))
	for rel := range byFolder {
		folders = append(folders, rel)
	}
	sort.Strings(folders)

	modeSuffixes := s.modeSuffixes()

	var groups []Group
	for _, rel := range folders {
		group := Group{RelPath: rel}
		sets := make(map[string]*Set)

		names := byFolder[rel]
		sort.Strings(names)
		for _, name := range names {
			if s.isGeneratedOutput(name, modeSuffixes) {
				logger.Debug().Str("file", name).Msg("skipping file with mode suffix, likely from a previous run")
				continue
			}
			base, mapType, sizeSuffix, ok := s.classify(name)
			if !ok {
				group.Unmatched = append(group.Unmatched, name)
				continue
			}

			filePath := path.Join(root, name)
			if rel != "." {
				filePath = path.Join(root, rel, name)
			}
			h := &texture.Handle{
				Path:       filePath,
				Filename:   name,
				BaseName:   strings.ToLower(base),
				MapType:    mapType,
				SizeSuffix: sizeSuffix,
			}
			s.probe(h, logger)

			set, exists := sets[h.BaseName]
			if !exists {
				set = &Set{BaseName: h.BaseName, DisplayName: base}
				sets[h.BaseName] = set
			}
			set.Handles = append(set.Handles, h)
		}

		keys := make([]string, 0, len(sets))
		for k := range sets {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			group.Sets = append(group.Sets, sets[k])
		}
		if len(group.Sets) > 0 || len(group.Unmatched) > 0 {
			groups = append(groups, group)
		}
	}
	return groups, nil
}

// probe fills resolution, depth and channel count from the file header.
// A file that cannot be probed keeps a zero resolution; the validator
// treats that as a corrupted source rather than failing the whole scan.
func (s *Scanner) probe(h *texture.Handle, logger zerolog.Logger) {
	f, err := s.fs.Open(h.Path)
	if err == nil {
		res, depth, channels, perr := texture.Probe(f, h.Path)
		f.Close()
		if perr == nil {
			h.Resolution, h.Depth, h.Channels = res, depth, channels
			return
		}
		err = perr
	}
	logger.Warn().Err(err).Str("file", h.Path).Msg("cannot read image header")
}

// modeSuffixes collects the uppercase output suffixes of all active
// modes so generated files from a previous run are not picked up as
// sources again.
func (s *Scanner) modeSuffixes() map[string]bool {
	out := make(map[string]bool)
	for _, m := range s.cfg.ActiveModes() {
		if suffix := m.Suffix(); suffix != "" {
			out[strings.ToUpper(suffix)] = true
		}
	}
	return out
}

func (s *Scanner) isGeneratedOutput(name string, modeSuffixes map[string]bool) bool {
	stem := strings.TrimSuffix(name, path.Ext(name))
	if loc := sizeSuffixRe.FindStringIndex(stem); loc != nil {
		stem = stem[:loc[0]]
	}
	if i := strings.LastIndexAny(stem, "_-."); i >= 0 {
		return modeSuffixes[strings.ToUpper(stem[i+1:])]
	}
	return false
}

// classify infers (base name, map type, declared size suffix) from a
// file name using the configured suffix aliases. Supported layouts are
// "base_type_size", "base_size_type" (optionally with one extra token
// in between) and plain "base_type".
func (s *Scanner) classify(name string) (base, mapType, sizeSuffix string, ok bool) {
	stem := strings.TrimSuffix(name, path.Ext(name))
	lower := strings.ToLower(stem)

	if m := sizeTokenRe.FindStringSubmatch(lower); m != nil {
		sizeSuffix = m[1]
	}

	typeNames := make([]string, 0, len(s.cfg.Types))
	for t := range s.cfg.Types {
		typeNames = append(typeNames, t)
	}
	sort.Strings(typeNames)

	// Aliases overlap across types: "gl" is a glossiness suffix and also
	// the tail of the "normal_gl" normal alias. The longest matching
	// alias wins, so "wall_normal_gl" classifies as a normal map.
	bestLen := 0
	for _, typeName := range typeNames {
		for _, alias := range s.cfg.Types[typeName].Suffixes {
			a := strings.ToLower(alias)
			if len(a) <= bestLen {
				continue
			}
			loc := matchSuffix(lower, a, sizeSuffix)
			if loc < 0 {
				continue
			}
			b := strings.TrimRight(stem[:loc], "_-.")
			if b == "" {
				continue
			}
			base, mapType, ok = b, typeName, true
			bestLen = len(a)
		}
	}
	if !ok {
		return "", "", "", false
	}
	return base, mapType, sizeSuffix, true
}

const (
	sepPattern    = `[._-]`
	middlePattern = `(?:[._-][a-z0-9]+)?`
)

// matchSuffix returns the index where the type/size suffix begins, or
// -1 when the name does not end in the given alias.
func matchSuffix(lower, alias, size string) int {
	quoted := regexp.QuoteMeta(alias)
	var patterns []string
	if size != "" {
		patterns = append(patterns,
			sepPattern+quoted+middlePattern+sepPattern+regexp.QuoteMeta(size)+`$`,
			sepPattern+regexp.QuoteMeta(size)+middlePattern+sepPattern+quoted+`$`,
		)
	}
	patterns = append(patterns, sepPattern+quoted+`$`)

	for _, p := range patterns {
		if loc := regexp.MustCompile(p).FindStringIndex(lower); loc != nil {
			return loc[0]
		}
	}
	return -1
}

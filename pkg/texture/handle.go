package texture

import (
	"strings"

	"texpack/pkg/errors"
	"texpack/pkg/types"
)

// Handle is the typed representation of one discovered source image:
// identity, inferred role, and probed format metadata. One handle maps
// to exactly one on-disk file and is read-only after construction; the
// pixel data is loaded separately, only when a mode actually needs it.
type Handle struct {
	Path       string           // path relative to the scan root
	Filename   string           // original case-sensitive file name
	BaseName   string           // texture set stem, lowercased
	MapType    string           // semantic role ("roughness", ...), lowercased
	SizeSuffix string           // declared size label from the name ("2k"), may be empty
	Resolution types.Resolution // probed from the file header
	Depth      types.BitDepth
	Channels   int
}

// Load decodes the handle's pixel data through the given filesystem.
func (h *Handle) Load(fsys types.FS) (*Image, error) {
	f, err := fsys.Open(h.Path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "open %s", h.Path)
	}
	defer f.Close()
	return Decode(f, h.Path)
}

// SuffixMismatch reports whether the declared size suffix in the file
// name disagrees with the actual resolution. Purely informational; it
// only produces a warning line in the run report.
func (h *Handle) SuffixMismatch() bool {
	if h.SizeSuffix == "" || h.Resolution.IsZero() {
		return false
	}
	return !strings.EqualFold(h.SizeSuffix, h.Resolution.SizeSuffix())
}

package types

// PackOutcome classifies what happened to one (base name, mode)
// combination.
type PackOutcome int

const (
	// Packed means an output file was written.
	Packed PackOutcome = iota
	// SkippedEmptyMode means the mode was inert (no name or no channels).
	SkippedEmptyMode
	// SkippedInsufficient means the set had fewer than two of the mode's
	// required maps, so there was nothing worth packing.
	SkippedInsufficient
	// FailedValidation means a fatal problem was found before repair.
	FailedValidation
	// FailedRepair means repair was attempted but a fatal problem remained.
	FailedRepair
	// FailedWrite means compositing succeeded but the output could not be
	// saved.
	FailedWrite
)

func (o PackOutcome) String() string {
	switch o {
	case Packed:
		return "packed"
	case SkippedEmptyMode:
		return "skipped-empty-mode"
	case SkippedInsufficient:
		return "skipped-insufficient"
	case FailedValidation:
		return "failed-validation"
	case FailedRepair:
		return "failed-repair"
	case FailedWrite:
		return "failed-write"
	default:
		return "unknown"
	}
}

// Failed reports whether the outcome is an error (as opposed to packed
// or deliberately skipped).
func (o PackOutcome) Failed() bool {
	return o == FailedValidation || o == FailedRepair || o == FailedWrite
}

// PackResult is the outcome of one (base name, mode) combination.
// Failures never abort the run; they are collected into results and
// reported at the end.
type PackResult struct {
	BaseName   string      `json:"baseName"`
	ModeName   string      `json:"modeName"`
	Group      string      `json:"group,omitempty"` // folder relative to the input root, "." for the root
	Outcome    PackOutcome `json:"outcome"`
	Detail     string      `json:"detail,omitempty"`
	OutputFile string      `json:"outputFile,omitempty"`
	Resolution Resolution  `json:"resolution,omitempty"`
}

// RunReport aggregates all pack results of a single run.
type RunReport struct {
	Results []PackResult `json:"results"`
	// SkippedSets lists texture sets that had no usable maps for any
	// mode, keyed by group folder, with the file names involved.
	SkippedSets map[string]map[string][]string `json:"skippedSets,omitempty"`
}

// Tally counts results by broad outcome.
func (r *RunReport) Tally() (packed, skipped, failed int) {
	for _, res := range r.Results {
		switch {
		case res.Outcome == Packed:
			packed++
		case res.Outcome.Failed():
			failed++
		default:
			skipped++
		}
	}
	return
}

// Package engine is the packing core: it resolves discovered textures
// to the channel slots a mode requires, validates the set, repairs what
// policy allows (default fill, rescale), and composites the channels
// into one output buffer. Configuration, scanning, writing and log
// formatting are collaborators injected from the outside; the engine
// only decides.
//
// Combinations of (base name, mode) are processed independently and
// share no mutable state, so the orchestration loop could be
// parallelized without coordination; correctness does not depend on it.
package engine

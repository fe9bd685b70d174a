// Package texture holds the in-memory representation of source images:
// discovered handles with their metadata, decoded per-channel planes,
// the numeric conversions between bit depths, and resampling. All
// functions here are pure with respect to the filesystem except
// Handle.Load, which reads through the injected types.FS.
package texture

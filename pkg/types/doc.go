// Package types holds the shared value types of texpack: resolutions,
// bit depths, channel slots, mode specifications, and per-combination
// pack results. It has no dependencies so every other package can
// import it freely.
package types

package types

import (
	"io"
	"io/fs"
)

// File is the read handle the texture decoders need. EXR reading
// requires random access, so plain io.Reader is not enough.
type File interface {
	io.Reader
	io.ReaderAt
	io.Seeker
	io.Closer
}

// FS abstracts the filesystem so the engine can run against the real
// OS filesystem in production and an in-memory one in tests.
type FS interface {
	Stat(name string) (fs.FileInfo, error)
	Open(name string) (File, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error
	MkdirAll(path string, perm fs.FileMode) error
	ReadDir(name string) ([]fs.DirEntry, error)
	Rename(oldpath, newpath string) error
	Remove(name string) error
}

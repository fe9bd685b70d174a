// Package writer is the only place packed results touch the
// filesystem: it encodes composited images to the configured format and
// organizes consumed source files (backup move or deletion) after a
// successful pack.
package writer

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"path"
	"strings"

	"golang.org/x/image/tiff"

	"texpack/pkg/config"
	"texpack/pkg/errors"
	"texpack/pkg/logging"
	"texpack/pkg/texture"
	"texpack/pkg/types"
)

const jpegQuality = 95

// Writer implements engine.Writer on top of a types.FS. All paths are
// derived from the scan root and the per-group relative path.
type Writer struct {
	fs   types.FS
	cfg  *config.Config
	root string
}

func New(fsys types.FS, cfg *config.Config, root string) *Writer {
	return &Writer{fs: fsys, cfg: cfg, root: root}
}

func (w *Writer) groupDir(group string) string {
	if group == "." || group == "" {
		return w.root
	}
	return path.Join(w.root, group)
}

// Save encodes the image and writes it under the group's output folder,
// creating the folder on first use. An existing file of the same name
// is overwritten; re-runs replace stale outputs.
func (w *Writer) Save(img *texture.Image, group, filename string) (string, error) {
	destDir := path.Join(w.groupDir(group), w.cfg.DestFolderName)
	if err := w.fs.MkdirAll(destDir, 0o755); err != nil {
		return "", errors.Wrapf(err, errors.ErrDirCreate, "create output folder %s", destDir)
	}

	var buf bytes.Buffer
	if err := encode(&buf, img, w.cfg.FileType); err != nil {
		return "", err
	}

	outPath := path.Join(destDir, filename)
	if err := w.fs.WriteFile(outPath, buf.Bytes(), 0o644); err != nil {
		return "", errors.Wrapf(err, errors.ErrFileWrite, "write %s", outPath)
	}
	return outPath, nil
}

// Backup moves consumed source files into the group's backup folder.
// Name collisions get a numeric suffix ("wall_n.png" already backed up
// once becomes "wall_n_2.png") so repeated runs never overwrite an
// earlier backup.
func (w *Writer) Backup(group string, paths []string) error {
	logger := logging.GetLogger("writer")
	backupDir := path.Join(w.groupDir(group), w.cfg.BackupFolderName)
	if err := w.fs.MkdirAll(backupDir, 0o755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "create backup folder %s", backupDir)
	}

	var failed int
	for _, src := range paths {
		dest := w.collisionFree(path.Join(backupDir, path.Base(src)))
		if err := w.fs.Rename(src, dest); err != nil {
			failed++
			logger.Warn().Err(err).Str("file", src).Msg("could not move to backup")
			continue
		}
		logger.Debug().Str("from", src).Str("to", dest).Msg("moved used source to backup")
	}
	if failed > 0 {
		return errors.Newf(errors.ErrFileWrite, "%d of %d files could not be backed up", failed, len(paths))
	}
	return nil
}

func (w *Writer) collisionFree(dest string) string {
	if _, err := w.fs.Stat(dest); err != nil {
		return dest
	}
	ext := path.Ext(dest)
	stem := strings.TrimSuffix(dest, ext)
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s_%d%s", stem, n, ext)
		if _, err := w.fs.Stat(candidate); err != nil {
			return candidate
		}
	}
}

// Delete removes consumed source files. Each file is attempted even
// when an earlier one fails.
func (w *Writer) Delete(paths []string) error {
	logger := logging.GetLogger("writer")
	var failed int
	for _, p := range paths {
		if err := w.fs.Remove(p); err != nil {
			failed++
			logger.Warn().Err(err).Str("file", p).Msg("could not delete used source")
			continue
		}
		logger.Debug().Str("file", p).Msg("deleted used source")
	}
	if failed > 0 {
		return errors.Newf(errors.ErrFileWrite, "%d of %d files could not be deleted", failed, len(paths))
	}
	return nil
}

func encode(buf *bytes.Buffer, img *texture.Image, fileType string) error {
	std := toStdImage(img)
	var err error
	switch fileType {
	case "jpeg":
		err = jpeg.Encode(buf, std, &jpeg.Options{Quality: jpegQuality})
	case "tiff":
		err = tiff.Encode(buf, std, &tiff.Options{Compression: tiff.Deflate})
	default:
		err = png.Encode(buf, std)
	}
	if err != nil {
		return errors.Wrapf(err, errors.ErrImageEncode, "encode %s", fileType)
	}
	return nil
}

// toStdImage interleaves the planes into a stdlib image. Images without
// an alpha plane get a constant opaque alpha. The png encoder detects
// opacity and writes true 3-channel color; tiff has no 3-sample path
// and keeps the opaque alpha as a fourth sample.
func toStdImage(img *texture.Image) image.Image {
	rect := image.Rect(0, 0, img.Res.W, img.Res.H)
	n := img.Res.Area()

	if img.Depth == types.Depth16 {
		out := image.NewNRGBA64(rect)
		for i := 0; i < n; i++ {
			for c := 0; c < 4; c++ {
				v := uint16(0xffff)
				if c < len(img.Planes) {
					v = img.Planes[c].Pix16[i]
				}
				out.Pix[8*i+2*c] = uint8(v >> 8)
				out.Pix[8*i+2*c+1] = uint8(v)
			}
		}
		return out
	}

	out := image.NewNRGBA(rect)
	for i := 0; i < n; i++ {
		for c := 0; c < 4; c++ {
			v := uint8(0xff)
			if c < len(img.Planes) {
				v = img.Planes[c].Pix8[i]
			}
			out.Pix[4*i+c] = v
		}
	}
	return out
}

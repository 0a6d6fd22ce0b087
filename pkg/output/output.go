// Package output writes framed canvases next to their source files.
package output

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog"
)

const (
	// Suffix is appended to the source stem
	Suffix = "_framed"
	// Quality is the fixed JPEG quality of every output
	Quality = 95

	maxSegment     = 0xFFFF - 2
	orientationTag = 0x0112
	exifHeader     = "Exif\x00\x00"
)

// Path derives the output path for src: same directory, stem plus "_framed", always .jpg
func Path(src string) string {
	dir, base := filepath.Split(src)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, stem+Suffix+".jpg")
}

// IsFramed reports whether path already looks like an output of this package
func IsFramed(path string) bool {
	return strings.Contains(filepath.Base(path), Suffix)
}

// Writer encodes canvases as JPEG
type Writer struct {
	logger zerolog.Logger
}

// New creates a Writer
func New() *Writer {
	return &Writer{logger: zerolog.Nop()}
}

// SetLogger attaches a logger
func (w *Writer) SetLogger(l zerolog.Logger) {
	w.logger = l
}

// Write encodes canvas to Path(src), carrying exif over with its orientation
// reset. An existing file at the destination is replaced.
func (w *Writer) Write(canvas image.Image, src string, exif []byte) (string, error) {
	dst := Path(src)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, canvas, imaging.JPEG, imaging.JPEGQuality(Quality)); err != nil {
		return "", fmt.Errorf("failed to encode output: %w", err)
	}

	data := buf.Bytes()
	if len(exif) > 0 {
		if len(exif)+len(exifHeader) > maxSegment {
			w.logger.Warn().Int("bytes", len(exif)).Str("path", src).Msg("exif block too large, dropped")
		} else {
			data = spliceExif(data, ResetOrientation(exif))
		}
	}

	if err := writeAtomic(dst, data); err != nil {
		return "", err
	}
	w.logger.Debug().Str("path", dst).Int("bytes", len(data)).Msg("wrote framed image")
	return dst, nil
}

// spliceExif inserts an APP1 Exif segment right after the SOI marker of a baseline JPEG
func spliceExif(jpg, tiff []byte) []byte {
	if len(jpg) < 2 || jpg[0] != 0xFF || jpg[1] != 0xD8 {
		return jpg
	}

	out := make([]byte, 0, len(jpg)+len(tiff)+10)
	out = append(out, jpg[:2]...)
	out = append(out, 0xFF, 0xE1)
	out = binary.BigEndian.AppendUint16(out, uint16(len(exifHeader)+len(tiff)+2))
	out = append(out, exifHeader...)
	out = append(out, tiff...)
	return append(out, jpg[2:]...)
}

// ResetOrientation returns a copy of a TIFF-structured EXIF block with the
// IFD0 Orientation tag set to 1. Malformed blocks are returned unchanged.
func ResetOrientation(tiff []byte) []byte {
	out := append([]byte(nil), tiff...)
	if len(out) < 8 {
		return out
	}

	var order binary.ByteOrder
	switch string(out[:2]) {
	case "II":
		order = binary.LittleEndian
	case "MM":
		order = binary.BigEndian
	default:
		return out
	}

	ifd := int(order.Uint32(out[4:8]))
	if ifd < 8 || ifd+2 > len(out) {
		return out
	}
	count := int(order.Uint16(out[ifd:]))
	for i := 0; i < count; i++ {
		entry := ifd + 2 + i*12
		if entry+12 > len(out) {
			break
		}
		if order.Uint16(out[entry:]) != orientationTag {
			continue
		}
		// SHORT values sit left-justified in the 4-byte value field
		if order.Uint16(out[entry+2:]) == 3 {
			order.PutUint16(out[entry+8:], 1)
		}
		break
	}
	return out
}

// writeAtomic writes data to a temp file in dst's directory and renames it over dst
func writeAtomic(dst string, data []byte) error {
	dir := filepath.Dir(dst)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(dst)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	bw := bufio.NewWriter(tmp)
	if _, err := bw.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := bw.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close output: %w", err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return fmt.Errorf("failed to set output permissions: %w", err)
	}
	if err := os.Rename(tmpName, dst); err != nil {
		return fmt.Errorf("failed to replace %s: %w", dst, err)
	}
	return nil
}

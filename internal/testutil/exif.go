// Package testutil builds small synthetic images with EXIF blocks for tests.
package testutil

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"sort"
)

// TIFF field types
const (
	TypeASCII     uint16 = 2
	TypeShort     uint16 = 3
	TypeLong      uint16 = 4
	TypeRational  uint16 = 5
	TypeSRational uint16 = 10
)

// Common tag ids
const (
	TagMake          uint16 = 0x010F
	TagModel         uint16 = 0x0110
	TagOrientation   uint16 = 0x0112
	TagExifIFD       uint16 = 0x8769
	TagExposureTime  uint16 = 0x829A
	TagFNumber       uint16 = 0x829D
	TagISO           uint16 = 0x8827
	TagShutterSpeed  uint16 = 0x9201
	TagApertureValue uint16 = 0x9202
	TagFocalLength   uint16 = 0x920A
	TagLensMake      uint16 = 0xA433
	TagLensModel     uint16 = 0xA434
)

var order = binary.LittleEndian

// Tag is a single IFD entry
type Tag struct {
	ID    uint16
	Type  uint16
	Count uint32
	Value []byte
}

// ASCII builds a NUL-terminated string tag
func ASCII(id uint16, s string) Tag {
	v := append([]byte(s), 0)
	return Tag{ID: id, Type: TypeASCII, Count: uint32(len(v)), Value: v}
}

// Short builds a single SHORT tag
func Short(id uint16, v uint16) Tag {
	b := make([]byte, 2)
	order.PutUint16(b, v)
	return Tag{ID: id, Type: TypeShort, Count: 1, Value: b}
}

// Rational builds a single RATIONAL tag
func Rational(id uint16, num, den uint32) Tag {
	b := make([]byte, 8)
	order.PutUint32(b, num)
	order.PutUint32(b[4:], den)
	return Tag{ID: id, Type: TypeRational, Count: 1, Value: b}
}

// SRational builds a single SRATIONAL tag
func SRational(id uint16, num, den int32) Tag {
	b := make([]byte, 8)
	order.PutUint32(b, uint32(num))
	order.PutUint32(b[4:], uint32(den))
	return Tag{ID: id, Type: TypeSRational, Count: 1, Value: b}
}

// TIFF is a little-endian TIFF structure with IFD0 and an optional Exif sub-IFD
type TIFF struct {
	IFD0 []Tag
	Exif []Tag
}

func ifdSize(n int) int {
	return 2 + 12*n + 4
}

// Bytes serializes the structure starting with the "II*\x00" header
func (t TIFF) Bytes() []byte {
	ifd0 := append([]Tag{}, t.IFD0...)
	exif := append([]Tag{}, t.Exif...)

	ifd0Off := 8
	exifOff := ifd0Off + ifdSize(len(ifd0))
	if len(exif) > 0 {
		exifOff += 12
		ptr := make([]byte, 4)
		ifd0 = append(ifd0, Tag{ID: TagExifIFD, Type: TypeLong, Count: 1, Value: ptr})
	}
	dataOff := exifOff
	if len(exif) > 0 {
		dataOff += ifdSize(len(exif))
	}

	if len(exif) > 0 {
		order.PutUint32(ifd0[len(ifd0)-1].Value, uint32(exifOff))
	}
	sort.Slice(ifd0, func(i, j int) bool { return ifd0[i].ID < ifd0[j].ID })
	sort.Slice(exif, func(i, j int) bool { return exif[i].ID < exif[j].ID })

	var head, data bytes.Buffer
	head.WriteString("II")
	binary.Write(&head, order, uint16(42))
	binary.Write(&head, order, uint32(ifd0Off))

	writeIFD := func(tags []Tag) {
		binary.Write(&head, order, uint16(len(tags)))
		for _, tag := range tags {
			binary.Write(&head, order, tag.ID)
			binary.Write(&head, order, tag.Type)
			binary.Write(&head, order, tag.Count)
			if len(tag.Value) <= 4 {
				v := make([]byte, 4)
				copy(v, tag.Value)
				head.Write(v)
				continue
			}
			binary.Write(&head, order, uint32(dataOff+data.Len()))
			data.Write(tag.Value)
			if data.Len()%2 == 1 {
				data.WriteByte(0)
			}
		}
		binary.Write(&head, order, uint32(0))
	}

	writeIFD(ifd0)
	if len(exif) > 0 {
		writeIFD(exif)
	}

	return append(head.Bytes(), data.Bytes()...)
}

// SolidImage returns a w×h image filled with c
func SolidImage(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

// JPEG encodes img at quality 90
func JPEG(img image.Image) []byte {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// JPEGWithExif encodes img and inserts an APP1 Exif segment holding tiff right after SOI
func JPEGWithExif(img image.Image, tiff []byte) []byte {
	plain := JPEG(img)
	payload := append([]byte("Exif\x00\x00"), tiff...)

	var out bytes.Buffer
	out.Write(plain[:2])
	out.Write([]byte{0xFF, 0xE1})
	binary.Write(&out, binary.BigEndian, uint16(len(payload)+2))
	out.Write(payload)
	out.Write(plain[2:])
	return out.Bytes()
}

// PNGWithExif encodes img as PNG with an eXIf chunk holding tiff right after IHDR
func PNGWithExif(img image.Image, tiff []byte) []byte {
	var plain bytes.Buffer
	if err := png.Encode(&plain, img); err != nil {
		panic(err)
	}
	data := plain.Bytes()
	// 8-byte signature plus the 25-byte IHDR chunk
	const afterIHDR = 33

	var chunk bytes.Buffer
	binary.Write(&chunk, binary.BigEndian, uint32(len(tiff)))
	chunk.WriteString("eXIf")
	chunk.Write(tiff)
	binary.Write(&chunk, binary.BigEndian, crc32.ChecksumIEEE(chunk.Bytes()[4:]))

	out := append([]byte{}, data[:afterIHDR]...)
	out = append(out, chunk.Bytes()...)
	return append(out, data[afterIHDR:]...)
}

// WebPContainer wraps chunks, each a fourcc and payload, in a RIFF WEBP header
func WebPContainer(chunks ...[2][]byte) []byte {
	var body bytes.Buffer
	body.WriteString("WEBP")
	for _, c := range chunks {
		body.Write(c[0])
		binary.Write(&body, binary.LittleEndian, uint32(len(c[1])))
		body.Write(c[1])
		if len(c[1])%2 == 1 {
			body.WriteByte(0)
		}
	}

	var out bytes.Buffer
	out.WriteString("RIFF")
	binary.Write(&out, binary.LittleEndian, uint32(body.Len()))
	out.Write(body.Bytes())
	return out.Bytes()
}

// RawWithPreviews returns a TIFF-based raw container with the JPEG renditions appended after the IFDs
func RawWithPreviews(t TIFF, previews ...[]byte) []byte {
	out := t.Bytes()
	for _, p := range previews {
		out = append(out, 0, 0, 0, 0)
		out = append(out, p...)
	}
	return out
}

// CameraTIFF returns a TIFF structure with a typical set of capture tags
func CameraTIFF(orientation uint16) TIFF {
	return TIFF{
		IFD0: []Tag{
			ASCII(TagMake, "Canon"),
			ASCII(TagModel, "Canon EOS R5"),
			Short(TagOrientation, orientation),
		},
		Exif: []Tag{
			Rational(TagExposureTime, 1, 250),
			Rational(TagFNumber, 28, 10),
			Short(TagISO, 400),
			Rational(TagFocalLength, 50, 1),
			ASCII(TagLensModel, "RF50mm F1.8 STM"),
		},
	}
}

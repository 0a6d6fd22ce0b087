package extractor

import (
	"bytes"
	"encoding/binary"
)

const exifHeader = "Exif\x00\x00"

var (
	pngSignature = []byte("\x89PNG\r\n\x1a\n")
	tiffLE       = []byte("II*\x00")
	tiffBE       = []byte("MM\x00*")
)

// chunkExif returns the TIFF-structured EXIF block stored in a PNG eXIf
// chunk or a WebP EXIF chunk, or nil for any other container
func chunkExif(data []byte) []byte {
	var block []byte
	switch {
	case bytes.HasPrefix(data, pngSignature):
		block = pngChunk(data[len(pngSignature):], "eXIf")
	case len(data) >= 12 && string(data[:4]) == "RIFF" && string(data[8:12]) == "WEBP":
		block = riffChunk(data[12:], "EXIF")
	}

	// some writers keep the JPEG APP1 header in front of the TIFF structure
	block = bytes.TrimPrefix(block, []byte(exifHeader))
	if !bytes.HasPrefix(block, tiffLE) && !bytes.HasPrefix(block, tiffBE) {
		return nil
	}
	return block
}

// pngChunk walks length-type-data-crc records until name or IEND
func pngChunk(data []byte, name string) []byte {
	for len(data) >= 12 {
		n := int(binary.BigEndian.Uint32(data))
		kind := string(data[4:8])
		if n < 0 || 12+n > len(data) {
			return nil
		}
		if kind == name {
			return data[8 : 8+n]
		}
		if kind == "IEND" {
			return nil
		}
		data = data[12+n:]
	}
	return nil
}

// riffChunk walks fourcc-size-payload records, payloads padded to even length
func riffChunk(data []byte, name string) []byte {
	for len(data) >= 8 {
		n := int(binary.LittleEndian.Uint32(data[4:]))
		if n < 0 || 8+n > len(data) {
			return nil
		}
		if string(data[:4]) == name {
			return data[8 : 8+n]
		}
		step := 8 + n + n%2
		if step > len(data) {
			return nil
		}
		data = data[step:]
	}
	return nil
}

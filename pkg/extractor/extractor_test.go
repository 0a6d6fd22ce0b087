package extractor

import (
	"bytes"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/menta2k/resolvekit/internal/testutil"
	"github.com/menta2k/resolvekit/pkg/types"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func assertVocabulary(t *testing.T, meta types.Metadata) {
	t.Helper()
	allowed := map[types.Field]bool{}
	for _, f := range types.Fields {
		allowed[f] = true
	}
	for k, v := range meta {
		assert.True(t, allowed[k], "unexpected key %s", k)
		assert.NotNil(t, v, "nil value for %s", k)
	}
}

func TestSupported(t *testing.T) {
	assert.True(t, IsStandard("a/b/photo.JPG"))
	assert.True(t, IsStandard("photo.webp"))
	assert.True(t, IsRaw("/a/b/photo.CR2"))
	assert.True(t, IsRaw("x.dng"))
	assert.False(t, Supported("clip.gif"))
	assert.False(t, Supported("noext"))
}

func TestExtractUnsupportedExtension(t *testing.T) {
	path := writeFile(t, "anim.gif", []byte("GIF89a"))

	src, meta := New().Extract(path)
	assert.Nil(t, src)
	assert.NotNil(t, meta)
	assert.Empty(t, meta)
}

func TestExtractMissingFile(t *testing.T) {
	src, meta := New().Extract(filepath.Join(t.TempDir(), "gone.jpg"))
	assert.Nil(t, src)
	assert.Empty(t, meta)
}

func TestExtractCorruptFile(t *testing.T) {
	for _, name := range []string{"broken.jpg", "broken.png", "broken.nef", "broken.cr3"} {
		t.Run(name, func(t *testing.T) {
			path := writeFile(t, name, bytes.Repeat([]byte{0x13, 0x37, 0x00, 0xFF}, 256))

			src, meta := New().Extract(path)
			assert.Nil(t, src)
			assertVocabulary(t, meta)
		})
	}
}

func TestExtractJPEGWithExif(t *testing.T) {
	img := testutil.SolidImage(40, 20, color.NRGBA{120, 60, 30, 255})
	tiff := testutil.CameraTIFF(1).Bytes()
	path := writeFile(t, "photo.jpg", testutil.JPEGWithExif(img, tiff))

	src, meta := New().Extract(path)
	require.NotNil(t, src)
	assert.Equal(t, "jpeg", src.Format)
	assert.Equal(t, 40, src.Image.Bounds().Dx())
	assert.Equal(t, 20, src.Image.Bounds().Dy())
	assert.Equal(t, tiff, src.Exif)

	assertVocabulary(t, meta)
	assert.Equal(t, "Canon", meta.Text(types.Make))
	assert.Equal(t, "Canon EOS R5", meta.Text(types.Model))
	assert.Equal(t, "RF50mm F1.8 STM", meta.Text(types.LensModel))
	assert.Equal(t, 50.0, meta.Number(types.FocalLength))
	assert.InDelta(t, 2.8, meta.Number(types.FNumber), 1e-9)
	assert.Equal(t, 400.0, meta.Number(types.ISOSpeedRatings))
	assert.InDelta(t, 0.004, meta.Number(types.ExposureTime), 1e-12)
	assert.Equal(t, "1/250", meta.Text(types.ExposureTimeString))
}

func TestExtractJPEGAppliesOrientation(t *testing.T) {
	img := testutil.SolidImage(40, 20, color.NRGBA{0, 200, 0, 255})
	path := writeFile(t, "rotated.jpeg", testutil.JPEGWithExif(img, testutil.CameraTIFF(6).Bytes()))

	src, _ := New().Extract(path)
	require.NotNil(t, src)
	assert.Equal(t, 20, src.Image.Bounds().Dx())
	assert.Equal(t, 40, src.Image.Bounds().Dy())
}

func TestExtractPNGWithoutMetadata(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, testutil.SolidImage(30, 30, color.NRGBA{1, 2, 3, 255})))
	path := writeFile(t, "plain.png", buf.Bytes())

	src, meta := New().Extract(path)
	require.NotNil(t, src)
	assert.Equal(t, "png", src.Format)
	assert.Nil(t, src.Exif)
	assertVocabulary(t, meta)
	assert.False(t, meta.Has(types.Model))
}

func TestExtractPNGCarriesExif(t *testing.T) {
	img := testutil.SolidImage(40, 20, color.NRGBA{120, 60, 30, 255})
	tiff := testutil.CameraTIFF(6).Bytes()
	path := writeFile(t, "photo.png", testutil.PNGWithExif(img, tiff))

	src, meta := New().Extract(path)
	require.NotNil(t, src)
	assert.Equal(t, "png", src.Format)
	assert.Equal(t, tiff, src.Exif)
	assert.Equal(t, 20, src.Image.Bounds().Dx())
	assert.Equal(t, 40, src.Image.Bounds().Dy())

	assertVocabulary(t, meta)
	assert.Equal(t, "Canon EOS R5", meta.Text(types.Model))
	assert.InDelta(t, 2.8, meta.Number(types.FNumber), 1e-9)
}

func TestChunkExif(t *testing.T) {
	tiff := testutil.CameraTIFF(1).Bytes()
	vp8x := []byte("VP8X")

	tests := []struct {
		name string
		data []byte
		want []byte
	}{
		{
			name: "webp",
			data: testutil.WebPContainer([2][]byte{vp8x, make([]byte, 10)}, [2][]byte{[]byte("EXIF"), tiff}),
			want: tiff,
		},
		{
			name: "webp with app1 header",
			data: testutil.WebPContainer([2][]byte{vp8x, make([]byte, 10)},
				[2][]byte{[]byte("EXIF"), append([]byte("Exif\x00\x00"), tiff...)}),
			want: tiff,
		},
		{
			name: "webp after odd chunk",
			data: testutil.WebPContainer([2][]byte{[]byte("ICCP"), make([]byte, 7)}, [2][]byte{[]byte("EXIF"), tiff}),
			want: tiff,
		},
		{
			name: "webp without exif",
			data: testutil.WebPContainer([2][]byte{vp8x, make([]byte, 10)}),
		},
		{
			name: "not tiff",
			data: testutil.WebPContainer([2][]byte{[]byte("EXIF"), []byte("garbage!")}),
		},
		{
			name: "truncated",
			data: testutil.WebPContainer([2][]byte{[]byte("EXIF"), tiff})[:30],
		},
		{
			name: "jpeg",
			data: testutil.JPEGWithExif(testutil.SolidImage(4, 4, color.NRGBA{A: 255}), tiff),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, chunkExif(tt.data))
		})
	}
}

func TestExtractRawUsesLargestPreview(t *testing.T) {
	thumb := testutil.JPEG(testutil.SolidImage(16, 8, color.NRGBA{255, 0, 0, 255}))
	full := testutil.JPEG(testutil.SolidImage(64, 32, color.NRGBA{0, 0, 255, 255}))
	path := writeFile(t, "IMG_0001.DNG", testutil.RawWithPreviews(testutil.CameraTIFF(8), thumb, full))

	src, meta := New().Extract(path)
	require.NotNil(t, src)
	assert.Equal(t, "raw", src.Format)
	assert.Nil(t, src.Exif)
	assert.Equal(t, 32, src.Image.Bounds().Dx())
	assert.Equal(t, 64, src.Image.Bounds().Dy())

	assertVocabulary(t, meta)
	assert.Equal(t, "Canon EOS R5", meta.Text(types.Model))
	assert.Equal(t, "Canon", meta.Text(types.Make))
	assert.Equal(t, "RF50mm F1.8 STM", meta.Text(types.LensModel))
	assert.Equal(t, "1/250", meta.Text(types.ExposureTimeString))
	assert.Equal(t, 400.0, meta.Number(types.ISOSpeedRatings))
}

func TestExtractRawWithoutPreview(t *testing.T) {
	path := writeFile(t, "empty.nef", testutil.CameraTIFF(1).Bytes())

	src, meta := New().Extract(path)
	assert.Nil(t, src)
	assert.Equal(t, "Canon EOS R5", meta.Text(types.Model))
}

func TestRawMetadataConvertsApex(t *testing.T) {
	tiff := testutil.TIFF{
		IFD0: []testutil.Tag{
			testutil.ASCII(testutil.TagMake, "PENTAX"),
			testutil.ASCII(testutil.TagModel, "K-3 Mark III"),
		},
		Exif: []testutil.Tag{
			testutil.Rational(testutil.TagApertureValue, 5, 1),
			testutil.SRational(testutil.TagShutterSpeed, 8, 1),
		},
	}
	path := writeFile(t, "IMGP0001.pef", tiff.Bytes())

	meta := New().ReadMetadata(path)
	assert.InDelta(t, 5.7, meta.Number(types.FNumber), 1e-9)
	assert.Equal(t, "1/256", meta.Text(types.ExposureTimeString))
	assert.InDelta(t, 1.0/256, meta.Number(types.ExposureTime), 1e-12)
}

func TestRawMetadataIgnoresLensMake(t *testing.T) {
	tiff := testutil.TIFF{
		IFD0: []testutil.Tag{
			testutil.ASCII(testutil.TagMake, "NIKON CORPORATION"),
			testutil.ASCII(testutil.TagModel, "NIKON D850"),
		},
		Exif: []testutil.Tag{
			testutil.ASCII(testutil.TagLensMake, "Nikon"),
		},
	}
	path := writeFile(t, "DSC_0001.nef", tiff.Bytes())

	meta := New().ReadMetadata(path)
	assert.Equal(t, "NIKON D850", meta.Text(types.Model))
	assert.Equal(t, "NIKON CORPORATION", meta.Text(types.Make))
	assert.False(t, meta.Has(types.LensModel))
}

func TestSetExposureRationalReduces(t *testing.T) {
	meta := types.Metadata{}
	setExposureRational(meta, 10, 2500)
	assert.Equal(t, "1/250", meta.Text(types.ExposureTimeString))

	meta = types.Metadata{}
	setExposureRational(meta, 5, 2)
	assert.False(t, meta.Has(types.ExposureTimeString))
	assert.Equal(t, 2.5, meta.Number(types.ExposureTime))

	meta = types.Metadata{}
	setExposureRational(meta, 1, 1)
	assert.False(t, meta.Has(types.ExposureTimeString))
	assert.Equal(t, 1.0, meta.Number(types.ExposureTime))
}

func TestParseLoose(t *testing.T) {
	assert.Equal(t, 2.8, parseLoose("f/2.8"))
	assert.Equal(t, 50.0, parseLoose("50mm"))
	assert.Equal(t, 0.004, parseLoose("1/250"))
	assert.Equal(t, 400.0, parseLoose("400"))
	assert.Equal(t, 0.0, parseLoose("n/a"))
}

func TestLargestPreview(t *testing.T) {
	small := testutil.JPEG(testutil.SolidImage(8, 8, color.NRGBA{A: 255}))
	big := testutil.JPEG(testutil.SolidImage(24, 12, color.NRGBA{A: 255}))
	data := append(append([]byte("junk\xFF\xD8\xFFjunk"), big...), small...)

	offset, w, h := largestPreview(data)
	assert.Equal(t, len("junk\xFF\xD8\xFFjunk"), offset)
	assert.Equal(t, 24, w)
	assert.Equal(t, 12, h)

	offset, _, _ = largestPreview([]byte("nothing here"))
	assert.Equal(t, -1, offset)
}

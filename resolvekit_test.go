package resolvekit

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/menta2k/resolvekit/internal/testutil"
	"github.com/menta2k/resolvekit/pkg/frame"
	"github.com/menta2k/resolvekit/pkg/label"
	"github.com/menta2k/resolvekit/pkg/types"
)

// createTestImage writes a JPEG with camera EXIF into a temp dir and returns its path
func createTestImage(t *testing.T, width, height int) string {
	t.Helper()
	img := testutil.SolidImage(width, height, color.NRGBA{64, 64, 64, 255})
	path := filepath.Join(t.TempDir(), "DSC_0001.jpg")
	require.NoError(t, os.WriteFile(path, testutil.JPEGWithExif(img, testutil.CameraTIFF(1).Bytes()), 0644))
	return path
}

func decodedSize(t *testing.T, path string) image.Point {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	require.NoError(t, err)
	return image.Pt(cfg.Width, cfg.Height)
}

func TestNew(t *testing.T) {
	kit := New()
	require.NotNil(t, kit)
	assert.NotNil(t, kit.extractor)
	assert.NotNil(t, kit.compositor)
	assert.NotNil(t, kit.writer)
}

func TestAddFrame(t *testing.T) {
	path := createTestImage(t, 200, 100)
	opts := types.RenderOptions{Border: types.Dark, BorderRatio: 0.1, Polaroid: true}

	out, err := New().AddFrame(path, opts)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "DSC_0001_framed.jpg"), out)

	g := frame.Layout(200, 100, opts)
	assert.Equal(t, image.Pt(g.Width, g.Height), decodedSize(t, out))
}

func TestAddFrameUnsupported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "anim.gif")
	require.NoError(t, os.WriteFile(path, []byte("GIF89a"), 0644))

	out, err := New().AddFrame(path, types.DefaultRenderOptions())
	assert.NoError(t, err)
	assert.Empty(t, out)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestAddFrameRerunOverwrites(t *testing.T) {
	path := createTestImage(t, 300, 200)
	kit := New()

	first, err := kit.AddFrame(path, types.RenderOptions{BorderRatio: 0.05, Polaroid: true})
	require.NoError(t, err)
	second, err := kit.AddFrame(path, types.RenderOptions{BorderRatio: 0.1})
	require.NoError(t, err)

	assert.Equal(t, first, second)
	g := frame.Layout(300, 200, types.RenderOptions{BorderRatio: 0.1})
	assert.Equal(t, image.Pt(g.Width, g.Height), decodedSize(t, second))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestAddFrameWithLabelOverride(t *testing.T) {
	path := createTestImage(t, 120, 120)
	opts := types.DefaultRenderOptions()
	opts.Labels = &types.Labels{Camera: "Custom", Settings: ""}

	out, err := New().AddFrame(path, opts)
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestLabels(t *testing.T) {
	path := createTestImage(t, 10, 10)
	camera, settings := New().Labels(path)
	assert.Equal(t, "Canon EOS R5 / RF50mm F1.8 STM", camera)
	assert.Equal(t, "50mm | f/2.8 | 1/250s | ISO 400", settings)

	camera, settings = New().Labels(filepath.Join(t.TempDir(), "missing.png"))
	assert.Equal(t, label.UnknownCamera, camera)
	assert.Equal(t, label.NoExifData, settings)
}

func TestInspect(t *testing.T) {
	path := createTestImage(t, 400, 300)
	r := New().Inspect(path, types.DefaultRenderOptions())

	assert.Equal(t, "jpeg", r.Format)
	require.NotNil(t, r.Image)
	assert.Equal(t, 400, r.Image.Width)
	require.NotNil(t, r.Geometry)
	assert.Equal(t, 15, r.Geometry.Uniform)
	assert.Equal(t, "Canon", r.Metadata.Text(types.Make))

	_, err := os.Stat(r.Output)
	assert.True(t, os.IsNotExist(err))
}

func TestGetImageInfo(t *testing.T) {
	info := GetImageInfo(image.NewRGBA(image.Rect(0, 0, 400, 300)))
	assert.Equal(t, 400, info.Width)
	assert.Equal(t, 300, info.Height)
	assert.InDelta(t, 4.0/3.0, info.AspectRatio, 1e-9)
}

func TestFontsUseConfiguredDirs(t *testing.T) {
	dir := t.TempDir()
	tk := NewWithConfig(Options{FontDirs: []string{dir}})

	found := false
	for _, p := range tk.Fonts().Paths(frame.Regular) {
		if filepath.Dir(p) == dir {
			found = true
		}
	}
	assert.True(t, found, "configured font dir is not searched")
}

func TestGetVersion(t *testing.T) {
	assert.Equal(t, Version, GetVersion())
}

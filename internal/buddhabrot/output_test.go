package buddhabrot

import (
	"context"
	"encoding/binary"
	"errors"
	"image"
	"image/gif"
	"math"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

func testImage(t *testing.T) *image.RGBA {
	t.Helper()
	buf, _ := NewBuffer(32, 32)
	if _, err := SampleAndAccumulate(buf, outerParams(32, 32, 40), 5000, 2); err != nil {
		t.Fatalf("sample: %v", err)
	}
	img, err := ToneMap(buf, 1)
	if err != nil {
		t.Fatalf("ToneMap: %v", err)
	}
	return img
}

func TestSaveImageFormats(t *testing.T) {
	img := testImage(t)
	dir := t.TempDir()
	for _, name := range []string{"out.png", "out.tif", "OUT.TIFF", "out.bmp"} {
		path := filepath.Join(dir, "sub", name)
		if err := SaveImage(img, path); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		f, err := os.Open(path)
		if err != nil {
			t.Fatalf("%s not written: %v", name, err)
		}
		var got image.Image
		switch filepath.Ext(name) {
		case ".tif", ".TIFF":
			got, err = tiff.Decode(f)
		case ".bmp":
			got, err = bmp.Decode(f)
		default:
			got, _, err = image.Decode(f)
		}
		f.Close()
		if err != nil {
			t.Fatalf("%s: decode: %v", name, err)
		}
		if got.Bounds() != img.Bounds() {
			t.Fatalf("%s: bounds %v", name, got.Bounds())
		}
	}

	if err := SaveImage(img, filepath.Join(dir, "out.jpg")); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("got %v, want ErrUnsupportedFormat", err)
	}
}

func TestDownscale(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for i := range src.Pix {
		src.Pix[i] = 200
	}
	if Downscale(src, 8, 8) != src {
		t.Fatalf("same size must return src")
	}
	dst := Downscale(src, 4, 4)
	if dst.Rect.Dx() != 4 || dst.Rect.Dy() != 4 {
		t.Fatalf("size: %v", dst.Rect)
	}
	if p := dst.RGBAAt(2, 2); p.R < 195 || p.R > 205 {
		t.Fatalf("flat field changed: %v", p)
	}
}

func TestRawRoundTrip(t *testing.T) {
	buf := randomBuffer(t, 7, 5, 11)
	path := filepath.Join(t.TempDir(), "dump", "b.raw")
	if err := SaveRaw(path, buf, 98765); err != nil {
		t.Fatalf("SaveRaw: %v", err)
	}
	fi, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if want := int64(4 + 4 + 8 + 7*5*3*8); fi.Size() != want {
		t.Fatalf("size: got %d, want %d", fi.Size(), want)
	}
	got, samples, err := LoadRaw(path)
	if err != nil {
		t.Fatalf("LoadRaw: %v", err)
	}
	if samples != 98765 {
		t.Fatalf("samples: %d", samples)
	}
	sameBuffers(t, got, buf)

	// truncated body
	data, _ := os.ReadFile(path)
	if err := os.WriteFile(path, data[:len(data)-8], 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := LoadRaw(path); !errors.Is(err, ErrBufferSizeMismatch) {
		t.Fatalf("truncated: got %v", err)
	}
	// trailing bytes
	if err := os.WriteFile(path, append(data, 0), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := LoadRaw(path); !errors.Is(err, ErrBufferSizeMismatch) {
		t.Fatalf("trailing: got %v", err)
	}
	// short header
	if err := os.WriteFile(path, data[:5], 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := LoadRaw(path); !errors.Is(err, ErrBufferSizeMismatch) {
		t.Fatalf("short header: got %v", err)
	}

	header := func(w, h int32) []byte {
		b := binary.LittleEndian.AppendUint32(nil, uint32(w))
		b = binary.LittleEndian.AppendUint32(b, uint32(h))
		return binary.LittleEndian.AppendUint64(b, 1)
	}
	corrupt := []struct {
		name string
		data []byte
		want error
	}{
		{"huge header", header(1e9, 1e9), ErrInvalidDimension},
		{"max header", header(math.MaxInt32, math.MaxInt32), ErrInvalidDimension},
		{"negative width", header(-7, 5), ErrInvalidDimension},
		{"header without body", header(7, 5), ErrBufferSizeMismatch},
		{"body of other size", append(header(5, 7), data[16:len(data)-24]...), ErrBufferSizeMismatch},
	}
	for _, c := range corrupt {
		if err := os.WriteFile(path, c.data, 0o644); err != nil {
			t.Fatal(err)
		}
		if _, _, err := LoadRaw(path); !errors.Is(err, c.want) {
			t.Fatalf("%s: got %v, want %v", c.name, err, c.want)
		}
	}
}

func TestSaveAnimatedGIF(t *testing.T) {
	frames := []*image.RGBA{testImage(t), testImage(t)}
	path := filepath.Join(t.TempDir(), "out.gif")
	if err := SaveAnimatedGIF(frames, path, 5); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("gif not written: %v", err)
	}
	defer f.Close()
	g, err := gif.DecodeAll(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(g.Image) != 2 || g.Delay[0] != 5 {
		t.Fatalf("frames %d delay %v", len(g.Image), g.Delay)
	}
}

func TestRenderAnimation(t *testing.T) {
	cfg, err := parseConfig([]byte(`{"width": 24, "height": 24, "iterations": 30, "samples": 3000,
		"workers": 2, "animation": {"frames": 3, "stepDeg": {"bcx": 30}}}`))
	if err != nil {
		t.Fatalf("parseConfig: %v", err)
	}
	frames, err := renderAnimation(context.Background(), cfg, cfg.Samples)
	if err != nil {
		t.Fatalf("renderAnimation: %v", err)
	}
	if len(frames) != 3 {
		t.Fatalf("frames: %d", len(frames))
	}
	same := true
	for i := range frames[0].Pix {
		if frames[0].Pix[i] != frames[1].Pix[i] {
			same = false
			break
		}
	}
	if same {
		t.Fatalf("rotated frames must differ")
	}
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.png")
	raw := filepath.Join(dir, "out.raw")
	cfgPath := filepath.Join(dir, "config.json")
	body := `{"width": 32, "height": 32, "iterations": 40, "samples": 4000, "workers": 2,
		"supersample": 2, "out": "` + filepath.ToSlash(out) + `", "raw": "` + filepath.ToSlash(raw) + `", "resume": true}`
	if err := os.WriteFile(cfgPath, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := Run(context.Background(), cfgPath); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Fatalf("image not written: %v", err)
	}
	buf, samples, err := LoadRaw(raw)
	if err != nil {
		t.Fatalf("LoadRaw: %v", err)
	}
	if buf.Width != 64 || samples != 4000 {
		t.Fatalf("raw: %dx%d, %d samples", buf.Width, buf.Height, samples)
	}

	// resuming a finished render adds nothing
	if err := Run(context.Background(), cfgPath); err != nil {
		t.Fatalf("resumed Run: %v", err)
	}
	again, samples, err := LoadRaw(raw)
	if err != nil {
		t.Fatalf("LoadRaw: %v", err)
	}
	if samples != 4000 {
		t.Fatalf("resumed samples: %d", samples)
	}
	sameBuffers(t, again, buf)
}

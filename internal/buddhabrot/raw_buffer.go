package buddhabrot

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

const rawHeaderBytes = 4 + 4 + 8

// SaveRaw dumps buf and the number of samples behind it so a render can be resumed.
//
// Layout, little-endian: int32 width, int32 height, uint64 samples,
// then width*height*3 uint64 counters.
func SaveRaw(path string, buf *Buffer, samples uint64) error {
	if err := buf.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	hdr := struct {
		W, H    int32
		Samples uint64
	}{int32(buf.Width), int32(buf.Height), samples}
	if err := binary.Write(w, binary.LittleEndian, hdr); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, buf.Pix); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return err
	}
	Logger().Info("raw buffer written", "path", path, "samples", samples)
	return f.Close()
}

// LoadRaw reads a file written by SaveRaw.
func LoadRaw(path string) (*Buffer, uint64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, 0, err
	}
	r := bufio.NewReader(f)
	var hdr struct {
		W, H    int32
		Samples uint64
	}
	if err := binary.Read(r, binary.LittleEndian, &hdr); err != nil {
		return nil, 0, fmt.Errorf("%w: raw header %s: %v", ErrBufferSizeMismatch, path, err)
	}
	// the header is checked against the limit and the file size before allocating
	if hdr.W <= 0 || hdr.H <= 0 {
		return nil, 0, fmt.Errorf("%w: raw header %s: %dx%d", ErrInvalidDimension, path, hdr.W, hdr.H)
	}
	px := int64(hdr.W) * int64(hdr.H)
	if px > MaxMemory/(Channels*counterBytes) {
		return nil, 0, fmt.Errorf("%w: raw header %s: %dx%d exceeds %d bytes", ErrInvalidDimension, path, hdr.W, hdr.H, MaxMemory)
	}
	if want := rawHeaderBytes + px*Channels*counterBytes; fi.Size() != want {
		return nil, 0, fmt.Errorf("%w: %s has %d bytes, header wants %d", ErrBufferSizeMismatch, path, fi.Size(), want)
	}
	buf, err := NewBuffer(int(hdr.W), int(hdr.H))
	if err != nil {
		return nil, 0, fmt.Errorf("raw header %s: %w", path, err)
	}
	if err := binary.Read(r, binary.LittleEndian, buf.Pix); err != nil {
		return nil, 0, fmt.Errorf("%w: raw body %s: %v", ErrBufferSizeMismatch, path, err)
	}
	if _, err := r.ReadByte(); err != io.EOF {
		return nil, 0, fmt.Errorf("%w: trailing data in %s", ErrBufferSizeMismatch, path)
	}
	return buf, hdr.Samples, nil
}

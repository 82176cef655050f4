package buddhabrot

import (
	"fmt"
)

// Buffer is the per-pixel photon accumulator.
// Counters only grow until Clear or Replace.
type Buffer struct {
	Width, Height int
	Pix           []uint64 // flat: (y*Width + x)*3 + c
}

// NewBuffer allocates a zeroed width×height accumulator.
func NewBuffer(width, height int) (*Buffer, error) {
	if err := checkDimensions(width, height); err != nil {
		return nil, err
	}
	return &Buffer{
		Width:  width,
		Height: height,
		Pix:    make([]uint64, width*height*Channels),
	}, nil
}

func checkDimensions(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimension, width, height)
	}
	if int64(width)*int64(height)*Channels > int64(^uint(0)>>1) {
		return fmt.Errorf("%w: %dx%d overflows", ErrInvalidDimension, width, height)
	}
	return nil
}

// Validate checks that Pix holds exactly Width*Height*3 counters.
func (b *Buffer) Validate() error {
	if err := checkDimensions(b.Width, b.Height); err != nil {
		return err
	}
	if want := b.Width * b.Height * Channels; len(b.Pix) != want {
		return fmt.Errorf("%w: got %d counters, expected %d (%dx%dx%d)", ErrBufferSizeMismatch, len(b.Pix), want, b.Width, b.Height, Channels)
	}
	return nil
}

func (b *Buffer) idx(x, y int) int {
	return (y*b.Width + x) * Channels
}

// Add deposits inc at (x, y). Out-of-range pixels are ignored and reported as false.
func (b *Buffer) Add(x, y int, inc RGB) bool {
	if x < 0 || y < 0 || x >= b.Width || y >= b.Height {
		return false
	}
	b.add(b.idx(x, y), inc)
	return true
}

func (b *Buffer) add(base int, inc RGB) {
	b.Pix[base+ChR] += uint64(inc.R)
	b.Pix[base+ChG] += uint64(inc.G)
	b.Pix[base+ChB] += uint64(inc.B)
}

// At returns the counters of pixel (x, y).
func (b *Buffer) At(x, y int) (r, g, bl uint64) {
	i := b.idx(x, y)
	return b.Pix[i+ChR], b.Pix[i+ChG], b.Pix[i+ChB]
}

func (b *Buffer) sameShape(o *Buffer) error {
	if o.Width != b.Width || o.Height != b.Height || len(o.Pix) != len(b.Pix) {
		return fmt.Errorf("%w: %dx%d vs %dx%d", ErrBufferSizeMismatch, o.Width, o.Height, b.Width, b.Height)
	}
	return nil
}

// Merge adds o into b element-wise.
func (b *Buffer) Merge(o *Buffer) error {
	if err := b.sameShape(o); err != nil {
		return err
	}
	for i, v := range o.Pix {
		b.Pix[i] += v
	}
	return nil
}

// Replace overwrites b with o (a clearing merge).
func (b *Buffer) Replace(o *Buffer) error {
	if err := b.sameShape(o); err != nil {
		return err
	}
	copy(b.Pix, o.Pix)
	return nil
}

// Clear zeroes every counter.
func (b *Buffer) Clear() {
	clear(b.Pix)
}

// Clone returns a deep copy.
func (b *Buffer) Clone() *Buffer {
	c := &Buffer{Width: b.Width, Height: b.Height, Pix: make([]uint64, len(b.Pix))}
	copy(c.Pix, b.Pix)
	return c
}

// Total sums every counter of every channel.
func (b *Buffer) Total() uint64 {
	var t uint64
	for _, v := range b.Pix {
		t += v
	}
	return t
}

package bigtypes

import (
	"image"

	"periph.io/x/devices/v3/ssd1306/image1bit"
)

// Bounds is the drawable area of a frame.
var Bounds = image.Rect(0, 0, Width, Height)

// view wraps buf without copying; writes through the image land in buf.
func view(buf *[BufferSize]byte) *image1bit.VerticalLSB {
	return &image1bit.VerticalLSB{Pix: buf[:], Stride: Width, Rect: Bounds}
}

// Render rasterises obj into buf. Pixels outside Bounds are ignored.
func Render(buf *[BufferSize]byte, obj Object) {
	img := view(buf)
	r := obj.Rect.Canon().Intersect(Bounds)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetBit(x, y, obj.Color)
		}
	}
}

// Flush pushes the whole frame. A failure half way leaves the panel with a
// partial frame; nothing is retried.
func Flush(link *Link, buf *[BufferSize]byte) error {
	if err := link.WriteCmd(DrawCommand); err != nil {
		return err
	}
	return link.WriteData(buf[:])
}

// Image returns a copy of buf as an image, for previews and tests.
func Image(buf *[BufferSize]byte) *image1bit.VerticalLSB {
	img := image1bit.NewVerticalLSB(Bounds)
	copy(img.Pix, buf[:])
	return img
}

// ImageFromBytes is Image for a frame received off the wire.
func ImageFromBytes(p []byte) *image1bit.VerticalLSB {
	img := image1bit.NewVerticalLSB(Bounds)
	copy(img.Pix, p)
	return img
}

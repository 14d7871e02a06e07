package main

import (
	"image"
	"image/png"
	"os"

	"golang.org/x/image/draw"
)

// writeSnapshot saves a w x h RGBA framebuffer as PNG, scaled up by scale
// with nearest neighbour sampling.
func writeSnapshot(path string, rgba []byte, w, h, scale int) error {
	src := &image.RGBA{Pix: rgba, Stride: w * 4, Rect: image.Rect(0, 0, w, h)}

	var img image.Image = src
	if scale > 1 {
		dst := image.NewRGBA(image.Rect(0, 0, w*scale, h*scale))
		draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
		img = dst
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

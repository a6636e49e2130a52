package ripple

import (
	"fmt"
	"image"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// minRowsPerBand keeps tiny surfaces on a single goroutine.
const minRowsPerBand = 32

// renderSoftware evaluates Displace for every pixel of dst and copies the
// nearest source texel. Rows are split into bands rendered concurrently; the
// call returns only when every band is done, so the tick stays synchronous.
func renderSoftware(dst, src *image.RGBA, u Uniforms, k DistortionConstants) error {
	b := dst.Bounds()
	w, h := b.Dx(), b.Dy()
	if src.Bounds().Dx() != w || src.Bounds().Dy() != h {
		return fmt.Errorf("software render: size mismatch %v vs %v", b, src.Bounds())
	}
	if w == 0 || h == 0 {
		return nil
	}

	bands := max(1, min(runtime.GOMAXPROCS(0), h/minRowsPerBand))
	rowsPer := (h + bands - 1) / bands

	var g errgroup.Group
	for y0 := 0; y0 < h; y0 += rowsPer {
		y1 := min(y0+rowsPer, h)
		g.Go(func() error {
			renderRows(dst, src, u, k, w, h, y0, y1)
			return nil
		})
	}
	return g.Wait()
}

func renderRows(dst, src *image.RGBA, u Uniforms, k DistortionConstants, w, h, y0, y1 int) {
	for py := y0; py < y1; py++ {
		drow := dst.Pix[py*dst.Stride:]
		for px := 0; px < w; px++ {
			uv := pixelUV(px, py, w, h)
			sx, sy := texelAt(uv.Add(Displace(uv, u, k)), w, h)
			si := sy*src.Stride + sx*4
			di := px * 4
			copy(drow[di:di+4], src.Pix[si:si+4])
		}
	}
}

package probe

import (
	"bytes"
	"context"
	"fmt"
	"image/color"
	"strconv"

	"github.com/fogleman/gg"

	"github.com/hamed0406/capprobe/internal/domain"
)

// ImageProbe draws a blue circle on a white square surface, encodes it as
// PNG and samples the centre pixel.
type ImageProbe struct {
	Size int
}

func (p *ImageProbe) Name() string { return "image" }

func (p *ImageProbe) Execute(ctx context.Context) (domain.Outcome, error) {
	size := p.Size
	if size <= 0 {
		size = 100
	}

	dc := gg.NewContext(size, size)
	dc.SetColor(color.White)
	dc.Clear()
	half := float64(size) / 2
	dc.DrawCircle(half, half, half/2)
	dc.SetRGB(0, 0, 1)
	dc.Fill()

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return fail("Image", err)
	}

	r, g, b, _ := dc.Image().At(size/2, size/2).RGBA()
	if r != 0 || g != 0 || b>>8 != 0xff {
		return domain.Failure("Image", fmt.Sprintf("centre pixel is not blue: rgb(%d,%d,%d)", r>>8, g>>8, b>>8)), nil
	}

	return ok(map[string]string{
		"width":     strconv.Itoa(size),
		"height":    strconv.Itoa(size),
		"png_bytes": strconv.Itoa(buf.Len()),
	})
}

package paint

import (
	"image"
	"image/color"
	"image/draw"
	"strconv"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/boxflow/boxflow/box"
	"github.com/boxflow/boxflow/layout"
)

var palette = []color.RGBA{
	{R: 0x4e, G: 0x79, B: 0xa7, A: 0xff},
	{R: 0xf2, G: 0x8e, B: 0x2b, A: 0xff},
	{R: 0xe1, G: 0x57, B: 0x59, A: 0xff},
	{R: 0x76, G: 0xb7, B: 0xb2, A: 0xff},
	{R: 0x59, G: 0xa1, B: 0x4f, A: 0xff},
	{R: 0xed, G: 0xc9, B: 0x48, A: 0xff},
	{R: 0xb0, G: 0x7a, B: 0xa1, A: 0xff},
	{R: 0xff, G: 0x9d, B: 0xa7, A: 0xff},
	{R: 0x9c, G: 0x75, B: 0x5f, A: 0xff},
	{R: 0xba, G: 0xb0, B: 0xac, A: 0xff},
}

// Render rasterizes a positioned fragment tree in paint order: each
// border box is filled with a palette color, outlined, and labeled with
// its box id. Purely a debugging aid; there is no text shaping and no
// compositing of opacity or transforms.
func Render(t *box.Tree, res *layout.Result, width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	if res == nil || res.Root == nil {
		return img
	}

	rects := make(map[box.NodeID]layout.Rect)
	collectBorderRects(res.Root, layout.Point{}, rects)

	for _, id := range Build(t, res).PaintOrder() {
		r, ok := rects[id]
		if !ok {
			continue
		}
		fill := palette[int(id)%len(palette)]
		fillRect(img, r, fill)
		strokeRect(img, r, darken(fill))
		labelRect(img, r, strconv.Itoa(int(id)))
	}
	return img
}

func collectBorderRects(f *layout.Fragment, parentContentOrigin layout.Point, out map[box.NodeID]layout.Rect) {
	out[f.Node] = f.BorderRect(parentContentOrigin)
	c := f.ContentRect(parentContentOrigin)
	for _, ch := range f.Children {
		collectBorderRects(ch, layout.Point{X: c.X, Y: c.Y}, out)
	}
}

func fillRect(img *image.RGBA, r layout.Rect, c color.RGBA) {
	b := img.Bounds().Intersect(image.Rect(int(r.X), int(r.Y), int(r.Right()), int(r.Bottom())))
	draw.Draw(img, b, image.NewUniform(c), image.Point{}, draw.Src)
}

func strokeRect(img *image.RGBA, r layout.Rect, c color.RGBA) {
	x0, y0 := int(r.X), int(r.Y)
	x1, y1 := int(r.Right())-1, int(r.Bottom())-1
	for x := x0; x <= x1; x++ {
		setIfInside(img, x, y0, c)
		setIfInside(img, x, y1, c)
	}
	for y := y0; y <= y1; y++ {
		setIfInside(img, x0, y, c)
		setIfInside(img, x1, y, c)
	}
}

func setIfInside(img *image.RGBA, x, y int, c color.RGBA) {
	if image.Pt(x, y).In(img.Bounds()) {
		img.SetRGBA(x, y, c)
	}
}

func labelRect(img *image.RGBA, r layout.Rect, label string) {
	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.Black),
		Face: face,
		Dot:  fixed.P(int(r.X)+2, int(r.Y)+face.Ascent+1),
	}
	d.DrawString(label)
}

func darken(c color.RGBA) color.RGBA {
	return color.RGBA{R: c.R / 2, G: c.G / 2, B: c.B / 2, A: 0xff}
}

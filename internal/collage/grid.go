package collage

import (
	"bytes"
	"context"
	"fmt"
	"image/color"

	"github.com/fogleman/gg"

	catalog "claimdocs/internal/catalog/models"
)

// GridComposer draws images into fixed-size cells on a white canvas.
// Landscape images fill the cell width, portrait images fill the cell
// height and everything else fits inside the cell. Images are centered and
// clipped to their cell.
type GridComposer struct {
	CellWidth  int
	CellHeight int
	Padding    int
}

func NewGridComposer(cellWidth, cellHeight int) *GridComposer {
	return &GridComposer{CellWidth: cellWidth, CellHeight: cellHeight, Padding: 8}
}

func (g *GridComposer) Compose(ctx context.Context, images []Image, columns int) ([]byte, error) {
	if len(images) == 0 {
		return nil, fmt.Errorf("no images to compose")
	}
	if g.CellWidth <= 0 || g.CellHeight <= 0 {
		return nil, fmt.Errorf("invalid cell size %dx%d", g.CellWidth, g.CellHeight)
	}
	if columns < 1 {
		columns = 1
	}
	if columns > len(images) {
		columns = len(images)
	}
	rows := (len(images) + columns - 1) / columns

	dc := gg.NewContext(columns*g.CellWidth, rows*g.CellHeight)
	dc.SetColor(color.White)
	dc.Clear()

	innerW := float64(g.CellWidth - 2*g.Padding)
	innerH := float64(g.CellHeight - 2*g.Padding)
	for i, img := range images {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		col, row := i%columns, i/columns
		x := float64(col*g.CellWidth + g.Padding)
		y := float64(row*g.CellHeight + g.Padding)

		b := img.Image.Bounds()
		w, h := float64(b.Dx()), float64(b.Dy())
		if w == 0 || h == 0 {
			continue
		}
		scale := cellScale(img.Orientation, w, h, innerW, innerH)

		dc.Push()
		dc.DrawRectangle(x, y, innerW, innerH)
		dc.Clip()
		dc.Translate(x+innerW/2, y+innerH/2)
		dc.Scale(scale, scale)
		dc.DrawImageAnchored(img.Image, 0, 0, 0.5, 0.5)
		dc.ResetClip()
		dc.Pop()
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func cellScale(o catalog.Orientation, w, h, cellW, cellH float64) float64 {
	switch o {
	case catalog.OrientationLandscape:
		return cellW / w
	case catalog.OrientationPortrait:
		return cellH / h
	default:
		return min(cellW/w, cellH/h)
	}
}

// internal/adapter/render/wordcloud.go

package render

import (
	"errors"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Word is a term and its relative weight
type Word struct {
	Text   string
	Weight float64
}

const (
	minFontSize = vg.Length(11)
	maxFontSize = vg.Length(44)
	wordGap     = vg.Length(10)
	lineGap     = vg.Length(6)
	cloudInset  = vg.Length(12)
)

var palette = []color.RGBA{
	{R: 25, G: 90, B: 200, A: 255},
	{R: 220, G: 70, B: 50, A: 255},
	{R: 30, G: 140, B: 80, A: 255},
	{R: 140, G: 60, B: 170, A: 255},
	{R: 230, G: 140, B: 20, A: 255},
}

// WordCloud lays out words in rows from the top left, each sized by its
// weight relative to the heaviest word. Words that do not fit are left out.
func WordCloud(cfg Config, words []Word) ([]byte, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, errors.New("no words to render")
	}

	top := 0.0
	for _, w := range words {
		if w.Weight > top {
			top = w.Weight
		}
	}

	c := newCanvas(cfg)
	dc := draw.New(c)
	width, height := cfg.size()

	x, y := cloudInset, height-cloudInset
	rowHeight := vg.Length(0)

	for i, w := range words {
		sty := wordStyle(w.Weight, top, palette[i%len(palette)])
		ww, wh := sty.Width(w.Text), sty.Height(w.Text)

		if x+ww > width-cloudInset && x > cloudInset {
			x = cloudInset
			y -= rowHeight + lineGap
			rowHeight = 0
		}
		if y-wh < cloudInset || x+ww > width-cloudInset {
			continue
		}

		dc.FillText(sty, vg.Point{X: x, Y: y}, w.Text)

		x += ww + wordGap
		if wh > rowHeight {
			rowHeight = wh
		}
	}

	return encodePNG(c)
}

func wordStyle(weight, top float64, clr color.Color) text.Style {
	size := minFontSize
	if top > 0 && weight > 0 {
		size += vg.Length(weight/top) * (maxFontSize - minFontSize)
	}
	return text.Style{
		Color:   clr,
		Font:    font.From(plot.DefaultFont, size),
		XAlign:  text.XLeft,
		YAlign:  text.YTop,
		Handler: plot.DefaultTextHandler,
	}
}

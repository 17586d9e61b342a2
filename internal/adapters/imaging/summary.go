// Package imaging renders the summary PNG of the stored countries.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"sort"
	"strings"
	"time"

	"github.com/SscSPs/country_currency_api/internal/core/domain"
	"github.com/SscSPs/country_currency_api/internal/core/ports"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	Width  = 800
	Height = 600

	topCount   = 5
	marginLeft = 50
	lineHeight = 30
)

var (
	background = color.White
	ink        = color.Black
	accent     = color.RGBA{R: 0x1f, G: 0x4e, B: 0x79, A: 0xff}
)

// SummaryRenderer draws the title, the total count, the last refresh time and
// the top countries by estimated GDP onto a white canvas.
type SummaryRenderer struct {
	loc *time.Location
}

var _ ports.SummaryRenderer = (*SummaryRenderer)(nil)

// NewSummaryRenderer creates a renderer printing timestamps in loc.
func NewSummaryRenderer(loc *time.Location) *SummaryRenderer {
	if loc == nil {
		loc = time.UTC
	}
	return &SummaryRenderer{loc: loc}
}

// RenderSummary returns the PNG encoding of the summary.
func (r *SummaryRenderer) RenderSummary(countries []domain.Country, refreshedAt time.Time) ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, Width, Height))
	draw.Draw(img, img.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)

	y := 60
	drawText(img, marginLeft, y, accent, "Country Summary Report")
	y += 2 * lineHeight
	drawText(img, marginLeft, y, ink, fmt.Sprintf("Total Countries: %d", len(countries)))
	y += lineHeight
	drawText(img, marginLeft, y, ink, "Last Refreshed: "+refreshedAt.In(r.loc).Format("2006-01-02 15:04:05 MST"))
	y += 2 * lineHeight
	drawText(img, marginLeft, y, accent, fmt.Sprintf("Top %d Countries by Estimated GDP:", topCount))
	y += lineHeight

	for i, c := range TopByGDP(countries, topCount) {
		line := fmt.Sprintf("%d. %s - %s", i+1, c.Name, formatAmount(c.EstimatedGDP.StringFixed(2)))
		drawText(img, marginLeft+20, y, ink, line)
		y += lineHeight
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode summary image: %w", err)
	}
	return buf.Bytes(), nil
}

// TopByGDP returns up to n countries with a GDP estimate, highest first.
func TopByGDP(countries []domain.Country, n int) []domain.Country {
	ranked := make([]domain.Country, 0, len(countries))
	for _, c := range countries {
		if c.EstimatedGDP != nil {
			ranked = append(ranked, c)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if cmp := ranked[i].EstimatedGDP.Cmp(*ranked[j].EstimatedGDP); cmp != 0 {
			return cmp > 0
		}
		return strings.ToLower(ranked[i].Name) < strings.ToLower(ranked[j].Name)
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

func drawText(dst draw.Image, x, y int, c color.Color, text string) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

// formatAmount inserts thousands separators into a fixed-point decimal string.
func formatAmount(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, hasFrac := strings.Cut(s, ".")

	var b strings.Builder
	for i, ch := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(ch)
	}
	if hasFrac {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return sign + b.String()
}

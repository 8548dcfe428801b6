// Package text measures text content for layout. It produces
// [flexbox.MeasureFunc] values so text leaves in the layout tree size
// themselves from their content, wrapping when the offered width is
// definite. Shaping and rasterization are out of scope; only metrics from a
// font.Face are used.
package text

import (
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/arko-martian/NebulaUI-sub000/pkg/flexbox"
	"github.com/arko-martian/NebulaUI-sub000/pkg/geometry"
)

// Measurer computes text dimensions from a font face's metrics.
type Measurer struct {
	face       font.Face
	lineHeight float64
}

// NewMeasurer creates a measurer for the given face. A nil face falls back
// to the bundled basicfont face, which is sufficient for tests and tooling.
func NewMeasurer(face font.Face) *Measurer {
	if face == nil {
		face = basicfont.Face7x13
	}
	metrics := face.Metrics()
	return &Measurer{
		face:       face,
		lineHeight: fixedToFloat(metrics.Height),
	}
}

// LineHeight returns the face's line height in pixels.
func (m *Measurer) LineHeight() float64 {
	return m.lineHeight
}

// LineWidth returns the advance width of a single line of text.
func (m *Measurer) LineWidth(s string) float64 {
	return fixedToFloat(font.MeasureString(m.face, s))
}

// Measure returns the size of the text laid out in the given space.
// Explicit newlines always break; when the width axis is definite, lines are
// additionally wrapped at word boundaries using a greedy fill. Words wider
// than the available width overflow their line rather than being split.
func (m *Measurer) Measure(content string, space flexbox.AvailableSpace) geometry.Size {
	if content == "" {
		return geometry.Size{Width: 0, Height: m.lineHeight}
	}

	maxWidth := 0.0
	lines := 0
	for _, paragraph := range strings.Split(content, "\n") {
		for _, line := range m.wrap(paragraph, space) {
			lines++
			if w := m.LineWidth(line); w > maxWidth {
				maxWidth = w
			}
		}
	}
	return geometry.Size{Width: maxWidth, Height: float64(lines) * m.lineHeight}
}

// MeasureFunc adapts the measurer into a layout measure function for a
// fixed piece of content.
func (m *Measurer) MeasureFunc(content string) flexbox.MeasureFunc {
	return func(space flexbox.AvailableSpace) geometry.Size {
		return m.Measure(content, space)
	}
}

// wrap splits one paragraph into lines fitting the available width.
func (m *Measurer) wrap(paragraph string, space flexbox.AvailableSpace) []string {
	if !space.HasWidth() {
		return []string{paragraph}
	}
	words := strings.Fields(paragraph)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	current := words[0]
	for _, word := range words[1:] {
		candidate := current + " " + word
		if m.LineWidth(candidate) > space.Width {
			lines = append(lines, current)
			current = word
			continue
		}
		current = candidate
	}
	return append(lines, current)
}

// fixedToFloat converts a 26.6 fixed-point length to pixels.
func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

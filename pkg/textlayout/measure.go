package textlayout

import (
	"fmt"
	"sync"

	"github.com/mattn/go-runewidth"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// FaceMeasurer measures text with an OpenType font, one face per size.
// It is safe for concurrent use.
type FaceMeasurer struct {
	font  *opentype.Font
	mu    sync.Mutex
	faces map[float64]font.Face
}

// NewFaceMeasurer parses ttf. A nil ttf selects Go Regular.
func NewFaceMeasurer(ttf []byte) (*FaceMeasurer, error) {
	if ttf == nil {
		ttf = goregular.TTF
	}
	fnt, err := opentype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	return &FaceMeasurer{font: fnt, faces: make(map[float64]font.Face)}, nil
}

// Face returns the face used for size, creating it on first use.
func (m *FaceMeasurer) Face(size float64) (font.Face, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if face, ok := m.faces[size]; ok {
		return face, nil
	}
	face, err := opentype.NewFace(m.font, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("create %.1fpt face: %w", size, err)
	}
	m.faces[size] = face
	return face, nil
}

// MeasureText returns the advance width of text in pixels.
func (m *FaceMeasurer) MeasureText(text string, style FontStyle) float64 {
	face, err := m.Face(style.Size)
	if err != nil {
		panic(err) // sizes come from validated options
	}
	adv := font.MeasureString(face, text)
	return float64(adv) / 64
}

// CellMeasurer measures text as laid out in a terminal: each column is
// CellWidth world units wide and wide runes take two columns.
type CellMeasurer struct {
	CellWidth float64
}

// MeasureText returns the display width of text in world units.
func (m CellMeasurer) MeasureText(text string, _ FontStyle) float64 {
	return float64(runewidth.StringWidth(text)) * m.CellWidth
}

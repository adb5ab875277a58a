package thought

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ha1tch/thinkmap/pkg/validation"
)

// Theme is the named colour set a thought is drawn with. Gradients whose
// two ends are equal are drawn as solid colours.
type Theme struct {
	ID                    string `json:"id,omitempty" yaml:"id,omitempty"`
	Name                  string `json:"name" yaml:"name" validate:"required"`
	BackgroundTopColor    string `json:"backgroundTopColor" yaml:"backgroundTopColor" validate:"hexcolor"`
	BackgroundBottomColor string `json:"backgroundBottomColor" yaml:"backgroundBottomColor" validate:"hexcolor"`
	NodeOuterColor        string `json:"nodeOuterColor" yaml:"nodeOuterColor" validate:"hexcolor"`
	NodeInnerColor        string `json:"nodeInnerColor" yaml:"nodeInnerColor" validate:"hexcolor"`
	NodeTextColor         string `json:"nodeTextColor" yaml:"nodeTextColor" validate:"hexcolor"`
	ConnectionOuterColor  string `json:"connectionOuterColor" yaml:"connectionOuterColor" validate:"hexcolor"`
	ConnectionInnerColor  string `json:"connectionInnerColor" yaml:"connectionInnerColor" validate:"hexcolor"`
	ConnectionTextColor   string `json:"connectionTextColor" yaml:"connectionTextColor" validate:"hexcolor"`
}

// DefaultTheme returns the colours used by thoughts without a theme.
func DefaultTheme() Theme {
	return Theme{
		Name:                  "default-theme",
		BackgroundTopColor:    "#abccff",
		BackgroundBottomColor: "#000000",
		NodeOuterColor:        "#000000",
		NodeInnerColor:        "#555555",
		NodeTextColor:         "#FFFFFF",
		ConnectionOuterColor:  "#111111",
		ConnectionInnerColor:  "#CCCCCC",
		ConnectionTextColor:   "#FFFFFF",
	}
}

// Validate checks that the theme is named and every colour is a hex colour.
func (t Theme) Validate() error {
	return validation.Struct(t)
}

// Color parses a hex colour such as "#abccff" or "#fff".
func (t Theme) Color(hex string) (colorful.Color, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("theme %q: %w", t.Name, err)
	}
	return c, nil
}

// ColorOrBlack is like Color but returns black for a malformed value.
func (t Theme) ColorOrBlack(hex string) colorful.Color {
	c, err := t.Color(hex)
	if err != nil {
		return colorful.Color{}
	}
	return c
}

// Gradient returns the colour at position f in [0, 1] between from and to.
func Gradient(from, to colorful.Color, f float64) colorful.Color {
	if from == to {
		return from
	}
	return from.BlendRgb(to, f).Clamped()
}

// Lighten moves c towards white by amount in [0, 1]. Hovered shapes are
// drawn lightened.
func Lighten(c colorful.Color, amount float64) colorful.Color {
	return c.BlendLab(colorful.Color{R: 1, G: 1, B: 1}, amount).Clamped()
}

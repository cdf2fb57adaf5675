package render

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Theme controls page geometry, colors, and type sizes for rendered slides.
// All lengths are PostScript points; Scale is raster pixels per point.
type Theme struct {
	PageWidth  float64 `yaml:"page_width"`
	PageHeight float64 `yaml:"page_height"`
	Scale      float64 `yaml:"scale"`

	Background  string `yaml:"background"`
	TitleColor  string `yaml:"title_color"`
	BodyColor   string `yaml:"body_color"`
	AccentColor string `yaml:"accent_color"`

	TitleSize        float64 `yaml:"title_size"`
	SubtitleSize     float64 `yaml:"subtitle_size"`
	HeadingSize      float64 `yaml:"heading_size"`
	BodySize         float64 `yaml:"body_size"`
	KeyPointSize     float64 `yaml:"key_point_size"`
	ParagraphSpacing float64 `yaml:"paragraph_spacing"`

	// Optional paths to TTF files; the embedded Go fonts are used when empty.
	RegularFont string `yaml:"regular_font"`
	BoldFont    string `yaml:"bold_font"`
}

// DefaultTheme returns the built-in 10in x 7.5in deck look.
func DefaultTheme() Theme {
	return Theme{
		PageWidth:        720,
		PageHeight:       540,
		Scale:            2,
		Background:       "#ffffff",
		TitleColor:       "#1f2933",
		BodyColor:        "#3e4c59",
		AccentColor:      "#4f46e5",
		TitleSize:        40,
		SubtitleSize:     20,
		HeadingSize:      28,
		BodySize:         15,
		KeyPointSize:     18,
		ParagraphSpacing: 8,
	}
}

// LoadTheme reads a YAML theme file and overlays it on the defaults. Keys
// absent from the file keep their default values.
func LoadTheme(path string) (Theme, error) {
	if strings.TrimSpace(path) == "" {
		return Theme{}, eris.New("theme path is required")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Theme{}, eris.Wrap(err, "reading theme file")
	}

	theme := DefaultTheme()
	if err := yaml.Unmarshal(raw, &theme); err != nil {
		return Theme{}, eris.Wrap(err, "parsing theme file")
	}

	if err := theme.validate(); err != nil {
		return Theme{}, err
	}

	return theme, nil
}

func (t Theme) validate() error {
	if t.PageWidth <= 0 || t.PageHeight <= 0 {
		return eris.New("theme page dimensions must be positive")
	}
	if t.Scale < 1 {
		return eris.New("theme scale must be at least 1")
	}
	if t.TitleSize <= 0 || t.SubtitleSize <= 0 || t.HeadingSize <= 0 || t.BodySize <= 0 || t.KeyPointSize <= 0 {
		return eris.New("theme type sizes must be positive")
	}
	if t.ParagraphSpacing < 0 {
		return eris.New("theme paragraph spacing must not be negative")
	}

	for name, value := range map[string]string{
		"background":   t.Background,
		"title_color":  t.TitleColor,
		"body_color":   t.BodyColor,
		"accent_color": t.AccentColor,
	} {
		if !validHexColor(value) {
			return eris.Errorf("theme color %s is not a hex color: %q", name, value)
		}
	}

	return nil
}

func validHexColor(value string) bool {
	if len(value) != 4 && len(value) != 7 {
		return false
	}
	if value[0] != '#' {
		return false
	}
	for _, r := range value[1:] {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'f':
		case r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}

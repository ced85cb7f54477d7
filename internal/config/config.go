package config

import (
	_ "embed"
	"fmt"
	"image/color"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/kozaktomas/bookpress/internal/layout"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config is the process configuration: where books live and how they
// are printed. Print defaults come from the embedded defaults.yaml and
// can be overridden per setting through the environment.
type Config struct {
	BooksDir string
	Print    PrintConfig
}

// PrintConfig mirrors layout.PrintSpec with yaml tags and hex colors so
// it can live in a config file.
type PrintConfig struct {
	TrimWidthIn  float64 `yaml:"trim_width_in"`
	TrimHeightIn float64 `yaml:"trim_height_in"`

	Bleed         bool    `yaml:"bleed"`
	BleedWidthIn  float64 `yaml:"bleed_width_in"`
	BleedHeightIn float64 `yaml:"bleed_height_in"`

	DPI             int     `yaml:"dpi"`
	MarginIn        float64 `yaml:"margin_in"`
	MinSafeMarginIn float64 `yaml:"min_safe_margin_in"`

	MaxFontSize     int     `yaml:"max_font_size"`
	MinFontSize     int     `yaml:"min_font_size"`
	FontSizeStep    int     `yaml:"font_size_step"`
	LineSpacingFrac float64 `yaml:"line_spacing_frac"`

	PanelRadiusIn  float64 `yaml:"panel_radius_in"`
	PanelPaddingIn float64 `yaml:"panel_padding_in"`

	PageNumbers        bool `yaml:"page_numbers"`
	PageNumberFontSize int  `yaml:"page_number_font_size"`

	SpineSlopeInPerPage float64 `yaml:"spine_slope_in_per_page"`
	SpinePageThreshold  int     `yaml:"spine_page_threshold"`
	CoverBleedIn        float64 `yaml:"cover_bleed_in"`

	TextColor string   `yaml:"text_color"`
	PanelFill string   `yaml:"panel_fill"`
	Palette   []string `yaml:"palette"`
}

type configFile struct {
	Print PrintConfig `yaml:"print"`
}

// Load builds the configuration from the embedded defaults plus
// environment overrides.
func Load() *Config {
	var file configFile
	if err := yaml.Unmarshal(defaultsYAML, &file); err != nil {
		// Embedded file, cannot fail in a correct build.
		panic("failed to unmarshal embedded defaults.yaml: " + err.Error())
	}

	p := file.Print
	p.DPI = envInt("BOOKPRESS_DPI", p.DPI)
	p.TrimWidthIn = envFloat("BOOKPRESS_TRIM_WIDTH_IN", p.TrimWidthIn)
	p.TrimHeightIn = envFloat("BOOKPRESS_TRIM_HEIGHT_IN", p.TrimHeightIn)
	p.MarginIn = envFloat("BOOKPRESS_MARGIN_IN", p.MarginIn)
	p.Bleed = envBool("BOOKPRESS_BLEED", p.Bleed)
	p.PageNumbers = envBool("BOOKPRESS_PAGE_NUMBERS", p.PageNumbers)

	return &Config{
		BooksDir: envString("BOOKPRESS_BOOKS_DIR", "books"),
		Print:    p,
	}
}

// PrintSpec converts the print configuration into the layout spec,
// failing on unparsable colors. Geometry validation happens later in
// layout.PrintSpec.Validate.
func (c *Config) PrintSpec() (layout.PrintSpec, error) {
	p := c.Print

	textColor, err := parseHexColor(p.TextColor)
	if err != nil {
		return layout.PrintSpec{}, fmt.Errorf("text_color: %w", err)
	}
	panelFill, err := parseHexColor(p.PanelFill)
	if err != nil {
		return layout.PrintSpec{}, fmt.Errorf("panel_fill: %w", err)
	}
	palette := make([]color.RGBA, len(p.Palette))
	for i, hex := range p.Palette {
		palette[i], err = parseHexColor(hex)
		if err != nil {
			return layout.PrintSpec{}, fmt.Errorf("palette[%d]: %w", i, err)
		}
	}

	return layout.PrintSpec{
		TrimWidthIn:  p.TrimWidthIn,
		TrimHeightIn: p.TrimHeightIn,

		Bleed:         p.Bleed,
		BleedWidthIn:  p.BleedWidthIn,
		BleedHeightIn: p.BleedHeightIn,

		DPI:             p.DPI,
		MarginIn:        p.MarginIn,
		MinSafeMarginIn: p.MinSafeMarginIn,

		MaxFontSize:     p.MaxFontSize,
		MinFontSize:     p.MinFontSize,
		FontSizeStep:    p.FontSizeStep,
		LineSpacingFrac: p.LineSpacingFrac,

		Palette:   palette,
		TextColor: textColor,
		PanelFill: panelFill,

		PanelRadiusIn:  p.PanelRadiusIn,
		PanelPaddingIn: p.PanelPaddingIn,

		PageNumbers:        p.PageNumbers,
		PageNumberFontSize: p.PageNumberFontSize,

		SpineSlopeInPerPage: p.SpineSlopeInPerPage,
		SpinePageThreshold:  p.SpinePageThreshold,
		CoverBleedIn:        p.CoverBleedIn,
	}, nil
}

// parseHexColor parses "#RRGGBB" into an opaque color.
func parseHexColor(s string) (color.RGBA, error) {
	if len(s) != 7 || s[0] != '#' {
		return color.RGBA{}, fmt.Errorf("invalid color %q, expected #RRGGBB", s)
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return color.RGBA{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
		A: 0xFF,
	}, nil
}

func envString(key, defaultVal string) string {
	if s := os.Getenv(key); s != "" {
		return s
	}
	return defaultVal
}

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

func envFloat(key string, defaultVal float64) float64 {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f > 0 {
		return f
	}
	return defaultVal
}

func envBool(key string, defaultVal bool) bool {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return defaultVal
}

package render

import (
	"image"
	"math"
	"os"
	"strings"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// Layout identifies the arrangement used for a rendered slide.
type Layout string

const (
	LayoutTitle         Layout = "title"
	LayoutSingleContent Layout = "single_content"
	LayoutTwoColumn     Layout = "two_column"
)

// Slide is one fully rendered page.
type Slide struct {
	Layout Layout
	Title  string
	Canvas image.Image
}

// Layout geometry in points.
const (
	lineSpacing     = 1.45
	slideMargin     = 48.0
	headingBaseline = 84.0
	headingRuleY    = 102.0
	bodyTop         = 136.0
	bottomInset     = 56.0
	columnGap       = 28.0
	textColumnShare = 0.52
	bulletMarker    = "• "
)

// RendererOptions configures the slide renderer.
type RendererOptions struct {
	Theme  Theme
	Logger *logrus.Logger
}

// Renderer draws slide canvases according to a theme.
type Renderer struct {
	theme   Theme
	logger  *logrus.Logger
	regular *truetype.Font
	bold    *truetype.Font
}

// NewRenderer constructs a Renderer. A zero Theme selects the defaults.
func NewRenderer(opts RendererOptions) (*Renderer, error) {
	theme := opts.Theme
	if theme == (Theme{}) {
		theme = DefaultTheme()
	}

	if err := theme.validate(); err != nil {
		return nil, err
	}

	regularTTF, err := fontBytes(theme.RegularFont, goregular.TTF)
	if err != nil {
		return nil, eris.Wrap(err, "loading regular font")
	}

	boldTTF, err := fontBytes(theme.BoldFont, gobold.TTF)
	if err != nil {
		return nil, eris.Wrap(err, "loading bold font")
	}

	regular, err := truetype.Parse(regularTTF)
	if err != nil {
		return nil, eris.Wrap(err, "parsing regular font")
	}

	bold, err := truetype.Parse(boldTTF)
	if err != nil {
		return nil, eris.Wrap(err, "parsing bold font")
	}

	return &Renderer{
		theme:   theme,
		logger:  opts.Logger,
		regular: regular,
		bold:    bold,
	}, nil
}

func fontBytes(path string, embedded []byte) ([]byte, error) {
	if strings.TrimSpace(path) == "" {
		return embedded, nil
	}
	return os.ReadFile(path)
}

// Theme returns the theme the renderer draws with.
func (r *Renderer) Theme() Theme {
	return r.theme
}

// TitleSlide renders the opening slide: centered title, accent rule, subtitle.
func (r *Renderer) TitleSlide(title, subtitle string) (*Slide, error) {
	dc := r.newCanvas()
	width := float64(dc.Width())
	height := float64(dc.Height())
	maxWidth := width - 2*r.px(slideMargin)

	dc.SetFontFace(r.face(r.bold, r.theme.TitleSize))
	dc.SetHexColor(r.theme.TitleColor)

	titleLines := dc.WordWrap(title, maxWidth)
	titleLineHeight := r.px(r.theme.TitleSize) * lineSpacing

	y := height*0.40 - titleLineHeight*float64(len(titleLines)-1)/2
	for _, line := range titleLines {
		dc.DrawStringAnchored(line, width/2, y, 0.5, 0.5)
		y += titleLineHeight
	}

	ruleY := y + r.px(6)
	dc.SetHexColor(r.theme.AccentColor)
	dc.SetLineWidth(r.px(3))
	dc.DrawLine(width/2-r.px(70), ruleY, width/2+r.px(70), ruleY)
	dc.Stroke()

	dc.SetFontFace(r.face(r.regular, r.theme.SubtitleSize))
	dc.SetHexColor(r.theme.BodyColor)
	dc.DrawStringAnchored(subtitle, width/2, ruleY+r.px(36), 0.5, 0.5)

	return &Slide{Layout: LayoutTitle, Title: title, Canvas: dc.Image()}, nil
}

// ContentSlide renders a heading with bullet paragraphs across the full width.
func (r *Renderer) ContentSlide(title string, points []string, size float64) (*Slide, error) {
	dc := r.newCanvas()
	width := float64(dc.Width())

	r.drawHeading(dc, title, width)

	columnWidth := width - 2*r.px(slideMargin)
	r.drawBullets(dc, points, size, r.px(slideMargin), columnWidth, float64(dc.Height()))

	return &Slide{Layout: LayoutSingleContent, Title: title, Canvas: dc.Image()}, nil
}

// TwoColumnSlide renders bullets in a left column and stretches the image to
// exactly fill the right-hand region.
func (r *Renderer) TwoColumnSlide(title string, points []string, size float64, img image.Image) (*Slide, error) {
	if img == nil {
		return nil, eris.New("two column slide requires an image")
	}

	dc := r.newCanvas()
	width := float64(dc.Width())
	height := float64(dc.Height())

	r.drawHeading(dc, title, width)

	columnWidth := (width - 2*r.px(slideMargin)) * textColumnShare
	r.drawBullets(dc, points, size, r.px(slideMargin), columnWidth, height)

	regionX := r.px(slideMargin) + columnWidth + r.px(columnGap)
	regionY := r.px(bodyTop)
	regionWidth := width - r.px(slideMargin) - regionX
	regionHeight := height - r.px(bottomInset) - regionY

	scaled := stretchToRegion(img, int(math.Round(regionWidth)), int(math.Round(regionHeight)))
	dc.DrawImage(scaled, int(math.Round(regionX)), int(math.Round(regionY)))

	return &Slide{Layout: LayoutTwoColumn, Title: title, Canvas: dc.Image()}, nil
}

func (r *Renderer) newCanvas() *gg.Context {
	width := int(math.Round(r.px(r.theme.PageWidth)))
	height := int(math.Round(r.px(r.theme.PageHeight)))

	dc := gg.NewContext(width, height)
	dc.SetHexColor(r.theme.Background)
	dc.Clear()
	return dc
}

func (r *Renderer) px(points float64) float64 {
	return points * r.theme.Scale
}

func (r *Renderer) face(f *truetype.Font, size float64) font.Face {
	return truetype.NewFace(f, &truetype.Options{
		Size:    r.px(size),
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

func (r *Renderer) drawHeading(dc *gg.Context, title string, width float64) {
	dc.SetFontFace(r.face(r.bold, r.theme.HeadingSize))
	dc.SetHexColor(r.theme.TitleColor)
	dc.DrawString(title, r.px(slideMargin), r.px(headingBaseline))

	dc.SetHexColor(r.theme.AccentColor)
	dc.SetLineWidth(r.px(2))
	dc.DrawLine(r.px(slideMargin), r.px(headingRuleY), width-r.px(slideMargin), r.px(headingRuleY))
	dc.Stroke()
}

func (r *Renderer) drawBullets(dc *gg.Context, points []string, size float64, x, columnWidth, height float64) {
	dc.SetFontFace(r.face(r.regular, size))
	dc.SetHexColor(r.theme.BodyColor)

	markerWidth, _ := dc.MeasureString(bulletMarker)
	wrapWidth := columnWidth - markerWidth
	lineHeight := r.px(size) * lineSpacing
	maxBaseline := height - r.px(bottomInset)

	baseline := r.px(bodyTop) + r.px(size)
	for _, point := range points {
		trimmed := strings.TrimSpace(point)
		if trimmed == "" {
			continue
		}

		for idx, line := range dc.WordWrap(trimmed, wrapWidth) {
			if baseline > maxBaseline {
				if r.logger != nil {
					r.logger.WithField("points", len(points)).Warn("slide text truncated to fit page")
				}
				return
			}
			if idx == 0 {
				dc.DrawString(bulletMarker, x, baseline)
			}
			dc.DrawString(line, x+markerWidth, baseline)
			baseline += lineHeight
		}
		baseline += r.px(r.theme.ParagraphSpacing)
	}
}

func stretchToRegion(src image.Image, width, height int) image.Image {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

package render

import (
	"bytes"
	"fmt"
	"image/png"

	"github.com/go-pdf/fpdf"
	"github.com/rotisserie/eris"
)

// EncodePDF serializes rendered slides into a PDF document, one page per
// slide, each canvas filling its page exactly.
func (r *Renderer) EncodePDF(slides []*Slide) ([]byte, error) {
	if len(slides) == 0 {
		return nil, eris.New("no slides to encode")
	}

	doc := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: r.theme.PageWidth, Ht: r.theme.PageHeight},
	})
	doc.SetMargins(0, 0, 0)
	doc.SetAutoPageBreak(false, 0)

	for idx, slide := range slides {
		if slide == nil || slide.Canvas == nil {
			return nil, eris.Errorf("slide %d has no canvas", idx)
		}

		var buffer bytes.Buffer
		if err := png.Encode(&buffer, slide.Canvas); err != nil {
			return nil, eris.Wrapf(err, "encoding slide %d", idx)
		}

		name := fmt.Sprintf("slide-%d", idx)
		doc.RegisterImageOptionsReader(name, fpdf.ImageOptions{ImageType: "PNG"}, &buffer)
		doc.AddPage()
		doc.ImageOptions(name, 0, 0, r.theme.PageWidth, r.theme.PageHeight, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	}

	if doc.Err() {
		return nil, eris.Errorf("assembling pdf: %v", doc.Error())
	}

	var output bytes.Buffer
	if err := doc.Output(&output); err != nil {
		return nil, eris.Wrap(err, "writing pdf")
	}

	return output.Bytes(), nil
}

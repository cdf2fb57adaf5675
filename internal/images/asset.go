package images

import (
	"bytes"
	"image"
	"image/png"

	"github.com/rotisserie/eris"
)

// Asset is a normalized slide image: PNG bytes plus the format the source
// was downloaded in.
type Asset struct {
	PNG          []byte
	SourceFormat string
}

// Decode returns the decoded PNG image for rendering.
func (a *Asset) Decode() (image.Image, error) {
	decoded, err := png.Decode(bytes.NewReader(a.PNG))
	if err != nil {
		return nil, eris.Wrap(err, "decoding png asset")
	}
	return decoded, nil
}

package banner

import (
	"errors"
	"fmt"
	"io"

	"github.com/common-nighthawk/go-figure"
)

var ErrRender = errors.New("banner rendering failed")

// Renderer draws a figlet-style title.
type Renderer struct {
	Text string
	// Font is a go-figure font name; empty means the standard font.
	Font string

	build func(text, font string) string
}

func New(text, font string) *Renderer {
	return &Renderer{Text: text, Font: font, build: figlet}
}

// Render writes the banner to w. Panics from the font renderer (for example
// an unknown font name) are returned as ErrRender.
func (r *Renderer) Render(w io.Writer) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: %v", ErrRender, rec)
		}
	}()

	build := r.build
	if build == nil {
		build = figlet
	}
	if _, err := io.WriteString(w, build(r.Text, r.Font)); err != nil {
		return fmt.Errorf("%w: %w", ErrRender, err)
	}
	return nil
}

func figlet(text, font string) string {
	// Non-strict: characters missing from the font render as '?'.
	return figure.NewFigure(text, font, false).String()
}

// Package css parses, optimizes and serializes CSS stylesheets.
package css

import (
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/tdewolff/cssopt/browser"
)

// DefaultMinifier is the default minifier.
var DefaultMinifier = &Minifier{}

// Minifier is a CSS minifier.
type Minifier struct {
	Browsers browser.Versions // minimum browser versions to keep support for
	O1       bool             // aggressive optimizations that may change the cascade in rare cases
	SaveIE   bool             // keep hacks targeting old versions of Internet Explorer
	Pretty   bool             // pretty print the output instead of minifying
	Indent   int              // spaces per nesting level when pretty printing, zero means two
	Log      *zap.Logger
}

// Minify minifies CSS data, it reads from r and writes to w.
func Minify(w io.Writer, r io.Reader) error {
	return DefaultMinifier.Minify(w, r)
}

// Context returns the optimization context for the minifier options.
func (o *Minifier) Context() Context {
	return Context{
		Browsers: o.Browsers,
		O1:       o.O1,
		SaveIE:   o.SaveIE,
		Log:      o.Log,
	}
}

// Minify minifies CSS data, it reads from r and writes to w.
func (o *Minifier) Minify(w io.Writer, r io.Reader) error {
	s, err := NewParser(o.Log).Parse(r)
	if err != nil {
		return err
	}
	return o.Write(w, s)
}

// Write optimizes a parsed stylesheet and writes it to w.
func (o *Minifier) Write(w io.Writer, s *Stylesheet) error {
	s.Optimize(o.Context())

	out := ""
	if o.Pretty {
		out = s.Pretty(0)
		if 0 < o.Indent {
			out = reindent(out, o.Indent)
		}
	} else {
		out = s.String()
	}
	if _, err := io.WriteString(w, out); err != nil {
		return fmt.Errorf("write stylesheet: %w", err)
	}
	return nil
}

package css

import (
	"bytes"
	"io"
	"testing"
)

func FuzzMinify(f *testing.F) {
	f.Add([]byte("a{color:red}"))
	f.Add([]byte("@media screen and (min-width:100px){a,b{margin:0 0 0 0}}"))
	f.Add([]byte("@supports not ((display:grid) and (gap:1px)){a{b:c}}"))
	f.Add([]byte("@-webkit-keyframes x{from{top:0}to{top:10px}}"))
	f.Add([]byte("a::before{content:\"x\";filter:progid:DXImageTransform.Microsoft.Alpha(Opacity=80)}"))
	f.Add([]byte("a{width:calc(100% - (2*3px))"))
	f.Add([]byte("0{A:A000("))
	f.Add([]byte("a:is(b,c:not(d"))
	f.Fuzz(func(t *testing.T, data []byte) {
		_ = Minify(io.Discard, bytes.NewReader(data))
		_ = (&Minifier{O1: true, Pretty: true}).Minify(io.Discard, bytes.NewReader(data))
	})
}

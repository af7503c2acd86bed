package css

import (
	"runtime"
	"strings"
	"testing"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/buffer"

	"github.com/tdewolff/cssopt/browser"
)

var benchmarkSample = strings.Repeat(`
/* buttons */
.btn { display: inline-block; padding: 6px 12px 6px 12px; margin-bottom: 0px; font-weight: normal; }
.btn:hover, .btn:focus { color: #333333; text-decoration: none; }
.btn-primary { color: #ffffff; background-color: rgb(66, 139, 202); border-color: #357ebd; }
.btn-primary:hover { color: #ffffff; background-color: hsl(208, 56%, 38%); }
@media (min-width: 768px) {
	.container { width: 750px; }
	.row { margin-left: -15px; margin-right: -15px; }
}
@-webkit-keyframes progress { from { background-position: 40px 0; } to { background-position: 0 0; } }
@keyframes progress { 0% { background-position: 40px 0; } 100% { background-position: 0 0; } }
a { color: red; } b { margin: 0; } a { color: blue; }
`, 50)

func benchmark(b *testing.B, name string, m *Minifier) {
	in := []byte(benchmarkSample)
	b.Run(name, func(b *testing.B) {
		out := make([]byte, 0, len(in))
		b.SetBytes(int64(len(in)))
		for i := 0; i < b.N; i++ {
			b.StopTimer()
			runtime.GC()
			r := buffer.NewReader(parse.Copy(in))
			w := buffer.NewWriter(out[:0])
			b.StartTimer()

			if err := m.Minify(w, r); err != nil {
				b.Fatal(err)
			}
		}
	})
}

func BenchmarkMinify(b *testing.B) {
	browsers, _ := browser.ParseVersions("ie:9,firefox:20")
	benchmark(b, "default", &Minifier{})
	benchmark(b, "o1", &Minifier{O1: true})
	benchmark(b, "browsers", &Minifier{Browsers: browsers})
	benchmark(b, "pretty", &Minifier{Pretty: true})
}

func BenchmarkParse(b *testing.B) {
	in := []byte(benchmarkSample)
	b.SetBytes(int64(len(in)))
	for i := 0; i < b.N; i++ {
		if _, err := Parse(buffer.NewReader(in)); err != nil {
			b.Fatal(err)
		}
	}
}

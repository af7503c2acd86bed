package css

import (
	"testing"

	"github.com/tdewolff/test"
)

func expr(nodes ...Node) *Expression {
	e := &Expression{}
	for _, n := range nodes {
		e.Terms = append(e.Terms, Term{0, n})
	}
	return e
}

func TestDimension(t *testing.T) {
	var dimensionTests = []struct {
		d        *Dimension
		function string
		o1       bool
		expected string
	}{
		{&Dimension{0, "px"}, "", false, "0"},
		{&Dimension{0, "%"}, "", false, "0%"},
		{&Dimension{0.00005, "px"}, "", false, "0"},
		{&Dimension{-0.00001, "em"}, "", false, "0"},
		{&Dimension{0, "ms"}, "", false, "0s"},
		{&Dimension{0, "px"}, "calc", false, "0px"},
		{&Dimension{0, "%"}, "hsl", false, "0%"},
		{&Dimension{5, ""}, "", false, "5"},
		{&Dimension{1.5, "PX"}, "", false, "1.5px"},
		{&Dimension{96, "px"}, "", false, "1in"},
		{&Dimension{1, "in"}, "", false, "1in"},
		{&Dimension{1, "cm"}, "", false, "1cm"},
		{&Dimension{10, "mm"}, "", true, "1cm"},
		{&Dimension{500, "ms"}, "", false, ".5s"},
		{&Dimension{2, "s"}, "", false, "2s"},
		{&Dimension{1000, "hz"}, "", false, "1kHz"},
		{&Dimension{180, "deg"}, "", false, "180deg"},
		{&Dimension{0.25, "turn"}, "", false, "90deg"},
		{&Dimension{1, "turn"}, "", false, "1turn"},
		{&Dimension{200, "grad"}, "", false, "180deg"},
		{&Dimension{192, "dpi"}, "", false, "2dppx"},
		{&Dimension{96, "dpi"}, "", false, "96dpi"},
		{&Dimension{3, "em"}, "", false, "3em"},
	}
	for _, tt := range dimensionTests {
		t.Run(tt.d.String()+" "+tt.function, func(t *testing.T) {
			ctx := Context{O1: tt.o1}.WithFunction(tt.function)
			n, ok := tt.d.Optimize(ctx)
			test.That(t, ok, "dimensions are never removed")
			test.String(t, n.String(), tt.expected)
		})
	}
}

func TestExpression(t *testing.T) {
	var expressionTests = []struct {
		property string
		e        *Expression
		expected string
	}{
		{"margin", expr(&Number{1}, &Number{1}, &Number{1}, &Number{1}), "1"},
		{"margin", expr(&Number{1}, &Number{2}), "1 2"},
		{"margin", expr(&Number{1}, &Number{1}), "1"},
		{"padding", expr(&Number{1}, &Number{2}, &Number{1}, &Number{2}), "1 2"},
		{"padding", expr(&Number{1}, &Number{2}, &Number{3}, &Number{2}), "1 2 3"},
		{"padding", expr(&Number{1}, &Number{2}, &Number{1}, &Number{3}), "1 2 1 3"},
		{"border-width", expr(&Number{1}, &Number{2}, &Number{1}), "1 2"},
		{"width", expr(&Number{1}, &Number{1}), "1 1"},
		{"font-weight", expr(&Ident{"Bold"}), "700"},
		{"font-weight", expr(&Ident{"bolder"}), "bolder"},
		{"font", expr(&Ident{"normal"}, &Ident{"bold"}, &Ident{"serif"}), "normal 700 serif"},
		{"font", expr(&Ident{"normal"}, &Ident{"serif"}), "400 serif"},
		{"font", expr(&Ident{"normal"}, &Ident{"normal"}, &Ident{"serif"}), "normal normal serif"},
		{"font", expr(&Number{300}, &Ident{"normal"}, &Ident{"serif"}), "300 normal serif"},
		{"outline", expr(&Ident{"none"}), "0"},
		{"outline", expr(&Ident{"none"}, &Ident{"red"}), "none red"},
		{"color", expr(&Ident{"white"}), "#fff"},
		{"color", expr(&Ident{"Black"}), "#000"},
		{"font-family", expr(&Ident{"white"}), "white"},
		{"animation-name", expr(&Ident{"black"}), "black"},
		{"color", expr(&HexColor{"#F00"}), "red"},
		{"color", expr(&Ident{"blue"}), "blue"},
		{"color", expr(&HexColor{"#0000FF"}), "#00f"},
		{"color", expr(&Ident{"Lime"}), "Lime"},
	}
	for _, tt := range expressionTests {
		t.Run(tt.property+":"+tt.e.String(), func(t *testing.T) {
			d := &Declaration{Property: tt.property, Value: tt.e}
			n, ok := d.Optimize(Context{})
			test.That(t, ok, "declaration must not be removed")
			test.String(t, n.(*Declaration).Value.String(), tt.expected)
		})
	}
}

func TestExpressionSeparators(t *testing.T) {
	e := &Expression{[]Term{
		{0, &Dimension{12, "px"}},
		{'/', &Number{1.5}},
		{0, &Ident{"a"}},
		{',', &String{"b c"}},
	}}
	test.String(t, e.String(), `12px/1.5 a,"b c"`)
	test.String(t, e.Pretty(0), `12px/1.5 a, "b c"`)
}

func TestDeclaration(t *testing.T) {
	d := &Declaration{Property: "COLOR", Value: expr(&Ident{"red"}), Important: true}
	n, ok := d.Optimize(Context{})
	test.That(t, ok)
	test.String(t, n.String(), "color:red!important")
	test.String(t, n.Pretty(0), "color: red !important")

	d = &Declaration{Property: "--Main-Color", Value: expr(&Ident{"WHITE"})}
	n, ok = d.Optimize(Context{})
	test.That(t, ok)
	test.String(t, n.String(), "--Main-Color:WHITE")

	d = &Declaration{Property: "color", Value: &Expression{}}
	_, ok = d.Optimize(Context{})
	test.That(t, !ok, "empty declarations are removed")

	d = &Declaration{Property: "-moz-transform", Value: expr(&Ident{"none"})}
	_, ok = d.Optimize(Context{}.WithVendorPrefix("-webkit-"))
	test.That(t, !ok, "mismatched vendor prefix is removed")

	d = &Declaration{Property: "transform", Value: expr(&Ident{"none"})}
	_, ok = d.Optimize(Context{}.WithVendorPrefix("-webkit-"))
	test.That(t, ok, "unprefixed declaration is kept")
}

func TestFunc(t *testing.T) {
	var funcTests = []struct {
		f        *Func
		expected string
	}{
		{&Func{"RGB", &Expression{[]Term{{0, &Number{255}}, {',', &Number{255}}, {',', &Number{255}}}}}, "white"},
		{&Func{"rgb", &Expression{[]Term{{0, &Number{0}}, {',', &Number{0}}, {',', &Number{0}}}}}, "black"},
		{&Func{"rgb", &Expression{[]Term{{0, &Number{0}}, {0, &Number{0}}, {0, &Number{0}}}}}, "rgb(0 0 0)"},
		{&Func{"rgb", &Expression{[]Term{{0, &Number{-1}}, {',', &Number{0}}, {',', &Number{0}}}}}, "rgb(-1,0,0)"},
		{&Func{"rgb", &Expression{[]Term{{0, &Number{300}}, {',', &Number{0}}, {',', &Number{0}}}}}, "red"},
		{&Func{"rgba", &Expression{[]Term{{0, &Number{0}}, {',', &Number{0}}, {',', &Number{0}}, {',', &Dimension{50, "%"}}}}}, "rgba(0,0,0,.5)"},
		{&Func{"hsl", &Expression{[]Term{{0, &Number{120}}, {',', &Dimension{100, "%"}}, {',', &Dimension{25, "%"}}}}}, "green"},
		{&Func{"hsl", &Expression{[]Term{{0, &Number{120}}, {',', &Number{100}}, {',', &Dimension{25, "%"}}}}}, "hsl(120,100,25%)"},
		{&Func{"translate", &Expression{[]Term{{0, &Dimension{0, "px"}}, {',', &Dimension{10, "px"}}}}}, "translate(0,10px)"},
		{&Func{"calc", &Expression{[]Term{{0, &MathSum{&Dimension{100, "%"}, '-', &Dimension{0, "px"}}}}}}, "calc(100% - 0px)"},
		{&Func{"var", &Expression{[]Term{{0, &Ident{"--a"}}}}}, "var(--a)"},
		{&Func{"attr", nil}, "attr()"},
	}
	for _, tt := range funcTests {
		t.Run(tt.f.String(), func(t *testing.T) {
			n, ok := tt.f.Optimize(Context{})
			test.That(t, ok)
			test.String(t, n.String(), tt.expected)
		})
	}
}

func TestMath(t *testing.T) {
	sum := &MathSum{&Dimension{1, "px"}, '+', &MathSum{&Dimension{2, "em"}, '-', &Number{3}}}
	test.String(t, sum.String(), "1px + (2em - 3)")

	product := &MathProduct{&MathSum{&Number{1}, '+', &Number{2}}, '*', &Number{3}}
	test.String(t, product.String(), "(1 + 2)*3")
	test.String(t, product.Pretty(0), "(1 + 2) * 3")

	product = &MathProduct{&Number{6}, '/', &MathProduct{&Number{2}, '*', &Number{3}}}
	test.String(t, product.String(), "6/(2*3)")
}

func TestHexColor(t *testing.T) {
	var colorTests = []struct {
		color    string
		expected string
	}{
		{"#FFFFFF", "#fff"},
		{"#ff0000", "red"},
		{"#F00", "red"},
		{"#ffaa00", "#fa0"},
		{"#ffaa01", "#ffaa01"},
		{"#000080", "navy"},
		{"#f0ffff", "azure"},
		{"#d2b48c", "tan"},
		{"#00f", "#00f"},
		{"#00ffff", "#0ff"},
	}
	for _, tt := range colorTests {
		t.Run(tt.color, func(t *testing.T) {
			n, _ := (&HexColor{tt.color}).Optimize(Context{})
			test.String(t, n.String(), tt.expected)
		})
	}
}

func TestString(t *testing.T) {
	var stringTests = []struct {
		quoted   string
		expected string
	}{
		{`"abc"`, `"abc"`},
		{`'abc'`, `"abc"`},
		{`'a"b'`, `'a"b'`},
		{`"a\"b"`, `'a"b'`},
		{`"a'b"`, `"a'b"`},
		{`"a'b\"c"`, `"a'b\"c"`},
		{"\"a\\\nb\"", `"ab"`},
		{`"a\\b"`, `"a\\b"`},
	}
	for _, tt := range stringTests {
		t.Run(tt.quoted, func(t *testing.T) {
			test.String(t, (&String{unquote([]byte(tt.quoted))}).String(), tt.expected)
		})
	}
}

func TestURI(t *testing.T) {
	test.String(t, (&URI{"a.png"}).String(), "url(a.png)")
	test.String(t, (&URI{"a b.png"}).String(), `url("a b.png")`)
	test.String(t, (&URI{""}).String(), `url("")`)
}

package css

import (
	"testing"

	"github.com/tdewolff/test"

	"github.com/tdewolff/cssopt/browser"
)

func rule(element string, decls ...Decl) *Ruleset {
	return &Ruleset{compoundSel(&ElementSelector{Ident: element}), decls}
}

func decl(property string, values ...Node) *Declaration {
	return &Declaration{Property: property, Value: expr(values...)}
}

func TestMedia(t *testing.T) {
	m := &Media{
		[]*MediaQuery{
			{Type: "SCREEN", Expressions: []*MediaExpression{{"MIN-WIDTH", expr(&Dimension{0, "px"})}}},
			{Type: "screen", Expressions: []*MediaExpression{{"min-width", expr(&Number{0})}}},
			{Prefix: "ONLY", Type: "print"},
		},
		[]Node{rule("a", decl("color", &Ident{"red"}))},
	}
	n, ok := m.Optimize(Context{})
	test.That(t, ok)
	test.String(t, n.String(), "@media screen and (min-width:0),only print{a{color:red}}")
	test.String(t, n.Pretty(0), "@media screen and (min-width: 0), only print {\n  a {\n    color: red;\n  }\n}\n")

	m = &Media{[]*MediaQuery{{Type: "print"}}, []Node{rule("a", decl("color"))}}
	_, ok = m.Optimize(Context{})
	test.That(t, !ok, "empty media blocks are removed")

	q := &MediaQuery{Expressions: []*MediaExpression{{"color", nil}, {"color", nil}}}
	q.Optimize(Context{})
	test.String(t, q.String(), "(color)")
}

func TestSupports(t *testing.T) {
	grid := decl("DISPLAY", &Ident{"grid"})
	flex := decl("display", &Ident{"flex"})
	var supportsTests = []struct {
		condition Node
		expected  string
	}{
		{&SupportsCondition{grid, false}, "(display:grid)"},
		{&SupportsCondition{&SupportsCondition{grid, true}, true}, "(display:grid)"},
		{&SupportsConditionList{"and", []Node{grid, flex}}, "(display:grid) and (display:flex)"},
		{&SupportsConditionList{"and", []Node{grid, grid}}, "(display:grid)"},
		{&SupportsConditionList{"or", []Node{&SupportsCondition{grid, true}, &SupportsCondition{flex, true}}}, "not ((display:grid) and (display:flex))"},
		{&SupportsConditionList{"and", []Node{grid, &SupportsCondition{flex, true}}}, "(display:grid) and (not (display:flex))"},
		{&SupportsConditionList{"and", []Node{grid, &SupportsConditionList{"or", []Node{flex, grid}}}}, "(display:grid) and ((display:flex) or (display:grid))"},
	}
	for _, tt := range supportsTests {
		t.Run(tt.expected, func(t *testing.T) {
			s := &Supports{tt.condition, []Node{rule("a", decl("color", &Ident{"red"}))}}
			n, ok := s.Optimize(Context{})
			test.That(t, ok)
			test.String(t, n.String(), "@supports "+tt.expected+"{a{color:red}}")
		})
	}
}

func TestKeyframes(t *testing.T) {
	stops := func(stops ...string) []*KeyframeSelector {
		selectors := make([]*KeyframeSelector, len(stops))
		for i, stop := range stops {
			selectors[i] = &KeyframeSelector{stop}
		}
		return selectors
	}
	k := &Keyframes{Name: "spin", Prefix: "-WEBKIT-", Content: []*Keyframe{
		{stops("100%"), []Decl{decl("opacity", &Number{1})}},
		{stops("FROM", "0%"), []Decl{decl("opacity", &Number{1})}},
		{stops("50%"), []Decl{decl("opacity", &Number{0}), decl("-moz-opacity", &Number{0})}},
		{stops("75%"), []Decl{decl("color")}},
	}}
	n, ok := k.Optimize(Context{})
	test.That(t, ok)
	test.String(t, n.String(), "@-webkit-keyframes spin{0,to{opacity:1}50%{opacity:0}}")
	test.String(t, n.Pretty(0), "@-webkit-keyframes spin {\n  0, to {\n    opacity: 1;\n  }\n  50% {\n    opacity: 0;\n  }\n}\n")

	vs, err := browser.ParseVersions("chrome:40")
	test.Error(t, err)
	k = &Keyframes{Name: "spin", Prefix: "-webkit-", Content: []*Keyframe{{stops("to"), []Decl{decl("opacity", &Number{1})}}}}
	_, ok = k.Optimize(Context{Browsers: vs})
	test.That(t, !ok, "unsupported keyframes prefix is removed")
}

func TestPage(t *testing.T) {
	p := &Page{Name: ":first", Content: []Decl{decl("margin", &Dimension{1, "in"}, &Dimension{1, "in"})}, Margins: []*PageMargin{
		{"top-left", []Decl{decl("content", &String{"x"})}},
		{"top-right", []Decl{decl("content")}},
	}}
	n, ok := p.Optimize(Context{})
	test.That(t, ok)
	test.String(t, n.String(), `@page :first{margin:1in;@top-left{content:"x"}}`)

	_, ok = (&Page{}).Optimize(Context{})
	test.That(t, !ok, "empty pages are removed")
}

func TestFontRules(t *testing.T) {
	f := &FontFace{[]Decl{decl("src", &URI{"a.woff"}), decl("font-family", &String{"A"})}}
	n, ok := f.Optimize(Context{})
	test.That(t, ok)
	test.String(t, n.String(), `@font-face{font-family:"A";src:url(a.woff)}`)

	ffv := &FontFeatureValues{"Font One", []*FontFeatureValuesBlock{
		{"SWASH", []Decl{decl("fancy", &Number{1})}},
		{"styleset", nil},
	}}
	n, ok = ffv.Optimize(Context{})
	test.That(t, ok)
	test.String(t, n.String(), "@font-feature-values Font One{@swash{fancy:1}}")
}

func TestViewport(t *testing.T) {
	v := &Viewport{"-MS-", []Decl{decl("width", &Ident{"device-width"}), decl("-webkit-zoom", &Number{1})}}
	n, ok := v.Optimize(Context{})
	test.That(t, ok)
	test.String(t, n.String(), "@-ms-viewport{width:device-width}")

	c := &CounterStyle{"thumbs", []Decl{decl("system", &Ident{"cyclic"})}}
	n, ok = c.Optimize(Context{})
	test.That(t, ok)
	test.String(t, n.String(), "@counter-style thumbs{system:cyclic}")
}

func TestStylesheet(t *testing.T) {
	s := &Stylesheet{
		Charset: &Charset{&String{"utf-8"}},
		Imports: []*Import{
			{&URI{"a.css"}, nil},
			{&String{"a.css"}, nil},
			{&String{"b.css"}, []*MediaQuery{{Type: "SCREEN"}, {Type: "print"}}},
		},
		Namespaces: []*Namespace{{&URI{"http://www.w3.org/2000/svg"}, "svg"}},
		Content:    []Node{rule("a", decl("color", &Ident{"red"}))},
	}
	n, ok := s.Optimize(Context{})
	test.That(t, ok)
	test.String(t, n.String(), `@charset "utf-8";@import "a.css";@import "b.css" screen,print;@namespace svg url(http://www.w3.org/2000/svg);a{color:red}`)
	test.String(t, n.Pretty(0), "@charset \"utf-8\";\n@import \"a.css\";\n@import \"b.css\" screen, print;\n@namespace svg url(http://www.w3.org/2000/svg);\na {\n  color: red;\n}\n")
}

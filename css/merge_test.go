package css

import (
	"testing"

	"github.com/tdewolff/test"
)

func TestPropertyFamily(t *testing.T) {
	var familyTests = []struct {
		ident    string
		expected string
	}{
		{"margin", "margin"},
		{"margin-left", "margin"},
		{"-webkit-border-radius", "border"},
		{"top", "inset"},
		{"inset-block", "inset"},
		{"row-gap", "row"},
		{"gap", "grid"},
		{"place-items", "align"},
		{"--main-color", "--main-color"},
	}
	for _, tt := range familyTests {
		t.Run(tt.ident, func(t *testing.T) {
			test.String(t, propertyFamily(tt.ident), tt.expected)
		})
	}
}

func TestPropertiesInteract(t *testing.T) {
	var interactTests = []struct {
		a, b     string
		expected bool
	}{
		{"color", "color", true},
		{"color", "margin", false},
		{"all", "margin", true},
		{"margin-left", "margin", true},
		{"border-top-color", "border", true},
		{"left", "inset", true},
		{"font-size", "line-height", false},
		{"--a", "--b", false},
	}
	for _, tt := range interactTests {
		t.Run(tt.a+" "+tt.b, func(t *testing.T) {
			test.T(t, propertiesInteract(tt.a, tt.b), tt.expected)
			test.T(t, propertiesInteract(tt.b, tt.a), tt.expected)
		})
	}
}

func TestSelectorsDisjoint(t *testing.T) {
	var disjointTests = []struct {
		a, b     Node
		expected bool
	}{
		{compoundSel(&ElementSelector{Ident: "a"}), compoundSel(&ElementSelector{Ident: "b"}), true},
		{compoundSel(&ElementSelector{Ident: "a"}), compoundSel(&ElementSelector{Ident: "a"}, &ClassSelector{"x"}), false},
		{compoundSel(&IDSelector{"x"}), compoundSel(&IDSelector{"y"}), true},
		{compoundSel(&ClassSelector{"x"}), compoundSel(&ClassSelector{"y"}), false},
		{compoundSel(&ElementSelector{Ident: "*"}), compoundSel(&ElementSelector{Ident: "a"}), false},
		{compoundSel(&ElementSelector{Ident: "a"}), compoundSel(&ElementSelector{Ident: "a"}, &PseudoElementSelector{"before"}), true},
		{compoundSel(&ElementSelector{Ident: "a"}, &PseudoClassSelector{"after"}), compoundSel(&ElementSelector{Ident: "a"}, &PseudoElementSelector{"after"}), false},
		{&Combinator{Descendant, compoundSel(&ElementSelector{Ident: "b"}), compoundSel(&ElementSelector{Ident: "a"})}, compoundSel(&ElementSelector{Ident: "b"}), true},
	}
	for _, tt := range disjointTests {
		t.Run(tt.a.String()+" "+tt.b.String(), func(t *testing.T) {
			test.T(t, selectorsDisjoint([]Node{tt.a}, []Node{tt.b}), tt.expected)
		})
	}
}

func TestHasVendorPseudo(t *testing.T) {
	test.That(t, hasVendorPseudo(compoundSel(&ElementSelector{Ident: "a"}, &PseudoClassSelector{"-moz-focusring"})))
	test.That(t, hasVendorPseudo(&SelectorList{[]Node{compoundSel(&ClassSelector{"a"}), compoundSel(&PseudoElementSelector{"-webkit-scrollbar"})}}))
	test.That(t, hasVendorPseudo(compoundSel(&NotSelector{compoundSel(&PseudoClassSelector{"-ms-input-placeholder"})})))
	test.That(t, !hasVendorPseudo(&Combinator{Descendant, compoundSel(&ClassSelector{"a"}), compoundSel(&PseudoClassSelector{"hover"})}))
}

func TestMergeRulesets(t *testing.T) {
	var mergeTests = []struct {
		nodes    []Node
		expected string
	}{
		{[]Node{rule("a", decl("color", &Ident{"red"})), rule("b", decl("margin", &Number{0})), rule("c", decl("color", &Ident{"red"}))}, "a,c{color:red}b{margin:0}"},
		{[]Node{rule("a", decl("color", &Ident{"red"})), rule("b", decl("color", &Ident{"blue"})), rule("c", decl("color", &Ident{"red"}))}, "a,c{color:red}b{color:blue}"},
		{[]Node{rule("a", decl("color", &Ident{"red"})), rule("c", decl("color", &Ident{"blue"})), rule("c", decl("color", &Ident{"red"}))}, "a{color:red}c{color:blue}c{color:red}"},
		{[]Node{rule("a", decl("color", &Ident{"red"})), rule("b", decl("all", &Ident{"unset"})), rule("b", decl("color", &Ident{"red"}))}, "a{color:red}b{all:unset}b{color:red}"},
		{[]Node{rule("a", decl("color", &Ident{"red"})), &FontFace{[]Decl{decl("src", &URI{"a.woff"})}}, rule("c", decl("color", &Ident{"red"}))}, "a{color:red}@font-face{src:url(a.woff)}c{color:red}"},
		{[]Node{rule("a", decl("color", &Ident{"red"})), rule("b", decl("color", &Ident{"red"})), rule("c", decl("color", &Ident{"red"}))}, "a,b,c{color:red}"},
	}
	for _, tt := range mergeTests {
		t.Run(tt.expected, func(t *testing.T) {
			nodes := mergeRulesets(tt.nodes, Context{O1: true})
			test.String(t, (&Stylesheet{Content: nodes}).String(), tt.expected)
		})
	}
}

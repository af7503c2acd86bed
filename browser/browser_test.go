package browser

import (
	"testing"

	"github.com/tdewolff/test"
)

func TestParseVersions(t *testing.T) {
	var tests = []struct {
		s        string
		expected string
	}{
		{"", ""},
		{"ie:9", "ie:9"},
		{"ie=9", "ie:9"},
		{"ie9 fx20", "firefox:20,ie:9"},
		{"chr:30.1, op:12", "chrome:30.1,opera:12"},
		{"Firefox:20", "firefox:20"},
	}
	for _, tt := range tests {
		t.Run(tt.s, func(t *testing.T) {
			vs, err := ParseVersions(tt.s)
			test.Error(t, err)
			test.String(t, vs.String(), tt.expected)
		})
	}

	_, err := ParseVersions("netscape:4")
	test.That(t, err != nil, "unknown browser must fail")
	_, err = ParseVersions("ie:x")
	test.That(t, err != nil, "bad version must fail")
	_, err = ParseVersions("ie")
	test.That(t, err != nil, "missing version must fail")
}

func TestSupportsDeclaration(t *testing.T) {
	var tests = []struct {
		browsers string
		ident    string
		expected bool
	}{
		{"", "-moz-transform", true},
		{"", "_color", true},
		{"fx:20", "-moz-transform", false},
		{"fx:16", "-moz-transform", false},
		{"fx:15", "-moz-transform", true},
		{"chrome:20", "-moz-transform", true},
		{"fx:15 chrome:20", "-webkit-transition", true},
		{"fx:15 chrome:26", "-webkit-transition", false},
		{"ie:7", "_color", false},
		{"ie:6", "_color", true},
		{"fx:40", "_color", true},
		{"ie:6", "-ms-transform", false},
		{"opera:9", "box-flex", false},
		{"fx:40", "color", true},
		{"ie:10", "filter", false},
		{"ie:9", "filter", true},
	}
	for _, tt := range tests {
		t.Run(tt.browsers+" "+tt.ident, func(t *testing.T) {
			vs, err := ParseVersions(tt.browsers)
			test.Error(t, err)
			test.T(t, vs.SupportsDeclaration(tt.ident), tt.expected)
		})
	}
}

func TestSupportsKeyframePrefix(t *testing.T) {
	var tests = []struct {
		browsers string
		prefix   string
		expected bool
	}{
		{"", "-ms-", false},
		{"", "-webkit-", true},
		{"ie:6", "-ms-", false},
		{"chrome:39", "-webkit-", true},
		{"chrome:40", "-webkit-", false},
		{"fx:16", "-moz-", false},
		{"fx:16", "-o-", true},
		{"opera:13", "-o-", false},
		{"fx:16", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.browsers+" "+tt.prefix, func(t *testing.T) {
			vs, err := ParseVersions(tt.browsers)
			test.Error(t, err)
			test.T(t, vs.SupportsKeyframePrefix(tt.prefix), tt.expected)
		})
	}
}

func TestSupportsIEFilter(t *testing.T) {
	vs, _ := ParseVersions("ie:9")
	test.T(t, vs.SupportsIEFilter(), true)
	vs, _ = ParseVersions("ie:10")
	test.T(t, vs.SupportsIEFilter(), false)
	test.T(t, Versions{}.SupportsIEFilter(), true)
}

func TestBrowserString(t *testing.T) {
	test.String(t, Chrome.String(), "chrome")
	test.String(t, Browser(10).String(), "Invalid(10)")
}

// Package browser answers whether vendor-prefixed and legacy CSS is still needed for a set of minimum browser versions.
package browser

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Browser is a browser whose minimum version can be configured.
type Browser int

// Browsers.
const (
	Chrome Browser = iota
	Firefox
	IE
	Opera
)

var browserNames = map[string]Browser{
	"chrome":  Chrome,
	"chr":     Chrome,
	"firefox": Firefox,
	"fx":      Firefox,
	"ie":      IE,
	"opera":   Opera,
	"op":      Opera,
}

func (b Browser) String() string {
	switch b {
	case Chrome:
		return "chrome"
	case Firefox:
		return "firefox"
	case IE:
		return "ie"
	case Opera:
		return "opera"
	}
	return fmt.Sprintf("Invalid(%d)", int(b))
}

// ParseBrowser returns the browser by its name or abbreviation (fx, chr, op).
func ParseBrowser(name string) (Browser, error) {
	if b, ok := browserNames[strings.ToLower(name)]; ok {
		return b, nil
	}
	return 0, fmt.Errorf("unknown browser %q", name)
}

////////////////////////////////////////////////////////////////

// Versions maps browsers to the oldest version the output must support. An empty Versions imposes no constraints.
type Versions map[Browser]*semver.Version

// ParseVersions parses a list of browser minimums separated by commas or whitespace, such as "ie:9,firefox:20" or "ie9 fx20".
func ParseVersions(s string) (Versions, error) {
	vs := Versions{}
	items := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
	for _, item := range items {
		var name, version string
		if i := strings.IndexAny(item, ":="); i != -1 {
			name, version = item[:i], item[i+1:]
		} else {
			i := strings.IndexAny(item, "0123456789")
			if i <= 0 {
				return nil, fmt.Errorf("bad browser minimum %q", item)
			}
			name, version = item[:i], item[i:]
		}
		if err := vs.Set(name, version); err != nil {
			return nil, err
		}
	}
	return vs, nil
}

// Set sets the minimum version of a browser by name.
func (vs Versions) Set(name, version string) error {
	b, err := ParseBrowser(name)
	if err != nil {
		return err
	}
	ver, err := semver.NewVersion(version)
	if err != nil {
		return fmt.Errorf("browser %s: %w", b, err)
	}
	vs[b] = ver
	return nil
}

// Above returns true if the minimum of b is configured and newer than version.
func (vs Versions) Above(b Browser, version *semver.Version) bool {
	m, ok := vs[b]
	return ok && m != nil && m.GreaterThan(version)
}

func (vs Versions) String() string {
	items := make([]string, 0, len(vs))
	for b, ver := range vs {
		items = append(items, b.String()+":"+ver.Original())
	}
	sort.Strings(items)
	return strings.Join(items, ",")
}

// blocks returns true if any configured minimum reached the version that dropped the feature.
func (vs Versions) blocks(c cutoffs) bool {
	for b, cutoff := range c {
		if m, ok := vs[b]; ok && m != nil && !m.LessThan(cutoff) {
			return true
		}
	}
	return false
}

var (
	ie6 = semver.MustParse("6")
	ie9 = semver.MustParse("9")
)

// SupportsDeclaration returns false if a declaration is not needed by any of the configured browsers.
func (vs Versions) SupportsDeclaration(ident string) bool {
	if len(vs) == 0 {
		return true
	}
	// _prop hacks only target IE6
	if 0 < len(ident) && ident[0] == '_' && vs.Above(IE, ie6) {
		return false
	}
	c, ok := declarationsRemoved[ident]
	if !ok {
		return true
	}
	return !vs.blocks(c)
}

// SupportsKeyframePrefix returns false if a vendor-prefixed @keyframes block is not needed by any of the configured browsers. The -ms- prefix was never shipped.
func (vs Versions) SupportsKeyframePrefix(prefix string) bool {
	if prefix == "-ms-" {
		return false
	} else if len(vs) == 0 {
		return true
	}
	c, ok := keyframesRemoved[prefix]
	if !ok {
		return true
	}
	return !vs.blocks(c)
}

// SupportsIEFilter returns false if legacy IE filters are not needed, which is the case from IE10 onwards.
func (vs Versions) SupportsIEFilter() bool {
	return !vs.Above(IE, ie9)
}

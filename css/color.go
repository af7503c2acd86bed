package css

import (
	"math"
	"strconv"

	"github.com/tdewolff/parse/v2/css"

	"github.com/tdewolff/cssopt"
)

// namedColors lists every CSS color keyword. For aliases the first is preferred.
var namedColors = []struct {
	name string
	hex  string
}{
	{"aliceblue", "#f0f8ff"},
	{"antiquewhite", "#faebd7"},
	{"aqua", "#00ffff"},
	{"aquamarine", "#7fffd4"},
	{"azure", "#f0ffff"},
	{"beige", "#f5f5dc"},
	{"bisque", "#ffe4c4"},
	{"black", "#000000"},
	{"blanchedalmond", "#ffebcd"},
	{"blue", "#0000ff"},
	{"blueviolet", "#8a2be2"},
	{"brown", "#a52a2a"},
	{"burlywood", "#deb887"},
	{"cadetblue", "#5f9ea0"},
	{"chartreuse", "#7fff00"},
	{"chocolate", "#d2691e"},
	{"coral", "#ff7f50"},
	{"cornflowerblue", "#6495ed"},
	{"cornsilk", "#fff8dc"},
	{"crimson", "#dc143c"},
	{"cyan", "#00ffff"},
	{"darkblue", "#00008b"},
	{"darkcyan", "#008b8b"},
	{"darkgoldenrod", "#b8860b"},
	{"darkgray", "#a9a9a9"},
	{"darkgreen", "#006400"},
	{"darkgrey", "#a9a9a9"},
	{"darkkhaki", "#bdb76b"},
	{"darkmagenta", "#8b008b"},
	{"darkolivegreen", "#556b2f"},
	{"darkorange", "#ff8c00"},
	{"darkorchid", "#9932cc"},
	{"darkred", "#8b0000"},
	{"darksalmon", "#e9967a"},
	{"darkseagreen", "#8fbc8f"},
	{"darkslateblue", "#483d8b"},
	{"darkslategray", "#2f4f4f"},
	{"darkslategrey", "#2f4f4f"},
	{"darkturquoise", "#00ced1"},
	{"darkviolet", "#9400d3"},
	{"deeppink", "#ff1493"},
	{"deepskyblue", "#00bfff"},
	{"dimgray", "#696969"},
	{"dimgrey", "#696969"},
	{"dodgerblue", "#1e90ff"},
	{"firebrick", "#b22222"},
	{"floralwhite", "#fffaf0"},
	{"forestgreen", "#228b22"},
	{"fuchsia", "#ff00ff"},
	{"gainsboro", "#dcdcdc"},
	{"ghostwhite", "#f8f8ff"},
	{"gold", "#ffd700"},
	{"goldenrod", "#daa520"},
	{"gray", "#808080"},
	{"green", "#008000"},
	{"greenyellow", "#adff2f"},
	{"grey", "#808080"},
	{"honeydew", "#f0fff0"},
	{"hotpink", "#ff69b4"},
	{"indianred", "#cd5c5c"},
	{"indigo", "#4b0082"},
	{"ivory", "#fffff0"},
	{"khaki", "#f0e68c"},
	{"lavender", "#e6e6fa"},
	{"lavenderblush", "#fff0f5"},
	{"lawngreen", "#7cfc00"},
	{"lemonchiffon", "#fffacd"},
	{"lightblue", "#add8e6"},
	{"lightcoral", "#f08080"},
	{"lightcyan", "#e0ffff"},
	{"lightgoldenrodyellow", "#fafad2"},
	{"lightgray", "#d3d3d3"},
	{"lightgreen", "#90ee90"},
	{"lightgrey", "#d3d3d3"},
	{"lightpink", "#ffb6c1"},
	{"lightsalmon", "#ffa07a"},
	{"lightseagreen", "#20b2aa"},
	{"lightskyblue", "#87cefa"},
	{"lightslategray", "#778899"},
	{"lightslategrey", "#778899"},
	{"lightsteelblue", "#b0c4de"},
	{"lightyellow", "#ffffe0"},
	{"lime", "#00ff00"},
	{"limegreen", "#32cd32"},
	{"linen", "#faf0e6"},
	{"magenta", "#ff00ff"},
	{"maroon", "#800000"},
	{"mediumaquamarine", "#66cdaa"},
	{"mediumblue", "#0000cd"},
	{"mediumorchid", "#ba55d3"},
	{"mediumpurple", "#9370db"},
	{"mediumseagreen", "#3cb371"},
	{"mediumslateblue", "#7b68ee"},
	{"mediumspringgreen", "#00fa9a"},
	{"mediumturquoise", "#48d1cc"},
	{"mediumvioletred", "#c71585"},
	{"midnightblue", "#191970"},
	{"mintcream", "#f5fffa"},
	{"mistyrose", "#ffe4e1"},
	{"moccasin", "#ffe4b5"},
	{"navajowhite", "#ffdead"},
	{"navy", "#000080"},
	{"oldlace", "#fdf5e6"},
	{"olive", "#808000"},
	{"olivedrab", "#6b8e23"},
	{"orange", "#ffa500"},
	{"orangered", "#ff4500"},
	{"orchid", "#da70d6"},
	{"palegoldenrod", "#eee8aa"},
	{"palegreen", "#98fb98"},
	{"paleturquoise", "#afeeee"},
	{"palevioletred", "#db7093"},
	{"papayawhip", "#ffefd5"},
	{"peachpuff", "#ffdab9"},
	{"peru", "#cd853f"},
	{"pink", "#ffc0cb"},
	{"plum", "#dda0dd"},
	{"powderblue", "#b0e0e6"},
	{"purple", "#800080"},
	{"rebeccapurple", "#663399"},
	{"red", "#ff0000"},
	{"rosybrown", "#bc8f8f"},
	{"royalblue", "#4169e1"},
	{"saddlebrown", "#8b4513"},
	{"salmon", "#fa8072"},
	{"sandybrown", "#f4a460"},
	{"seagreen", "#2e8b57"},
	{"seashell", "#fff5ee"},
	{"sienna", "#a0522d"},
	{"silver", "#c0c0c0"},
	{"skyblue", "#87ceeb"},
	{"slateblue", "#6a5acd"},
	{"slategray", "#708090"},
	{"slategrey", "#708090"},
	{"snow", "#fffafa"},
	{"springgreen", "#00ff7f"},
	{"steelblue", "#4682b4"},
	{"tan", "#d2b48c"},
	{"teal", "#008080"},
	{"thistle", "#d8bfd8"},
	{"tomato", "#ff6347"},
	{"turquoise", "#40e0d0"},
	{"violet", "#ee82ee"},
	{"wheat", "#f5deb3"},
	{"white", "#ffffff"},
	{"whitesmoke", "#f5f5f5"},
	{"yellow", "#ffff00"},
	{"yellowgreen", "#9acd32"},
}

// shortenColorHex maps shortened hex colors to names that are shorter.
// Colors whose name and hex have equal length, such as blue and #00f, are in neither map and are kept as written.
var shortenColorHex = map[string]string{}

// shortenColorName maps names to shortened hex colors that are shorter.
var shortenColorName = map[string]string{}

// hexColorName maps full hex colors to their preferred name.
var hexColorName = map[string]string{}

func init() {
	for _, color := range namedColors {
		if _, ok := hexColorName[color.hex]; !ok {
			hexColorName[color.hex] = color.name
		}
		hex := shortenHexColor(color.hex)
		if len(color.name) < len(hex) {
			if _, ok := shortenColorHex[hex]; !ok {
				shortenColorHex[hex] = color.name
			}
		} else if len(hex) < len(color.name) {
			shortenColorName[color.name] = hex
		}
	}
}

// shortenHexColor turns #aabbcc into #abc, the color must be lower-case.
func shortenHexColor(hex string) string {
	if len(hex) == 7 && hex[1] == hex[2] && hex[3] == hex[4] && hex[5] == hex[6] {
		return string([]byte{'#', hex[1], hex[3], hex[5]})
	}
	return hex
}

// colorArg returns the value of a non-negative numeric color argument and whether it was a percentage.
func colorArg(n Node) (float64, bool, bool) {
	switch v := n.(type) {
	case *Number:
		if 0 <= v.Value {
			return v.Value, false, true
		}
	case *Dimension:
		if v.Unit == "%" && 0 <= v.Value {
			return v.Value, true, true
		}
	}
	return 0, false, false
}

func clampByte(f float64) int {
	return int(math.Round(math.Max(0.0, math.Min(255.0, f))))
}

// optimizeColorFunc converts rgb(), rgba(), hsl() and hsla() with numeric arguments to the shortest equivalent color.
func optimizeColorFunc(f *Func) (Node, bool) {
	n := 0
	switch f.Name {
	case "rgb", "hsl":
		n = 3
	case "rgba", "hsla":
		n = 4
	default:
		return nil, false
	}
	if len(f.Args.Terms) != n {
		return nil, false
	}

	var vals [4]float64
	var percent [4]bool
	for i, term := range f.Args.Terms {
		if i != 0 && term.Op != ',' {
			return nil, false
		}
		val, isPercent, ok := colorArg(term.Value)
		if !ok {
			return nil, false
		}
		vals[i], percent[i] = val, isPercent
	}

	var rgb [3]int
	if f.Name[0] == 'r' {
		for i := 0; i < 3; i++ {
			if percent[i] {
				rgb[i] = clampByte(vals[i] * 255.0 / 100.0)
			} else {
				rgb[i] = clampByte(vals[i])
			}
		}
	} else {
		if percent[0] || !percent[1] || !percent[2] {
			return nil, false
		}
		h := math.Mod(vals[0], 360.0) / 360.0
		s := math.Min(vals[1], 100.0) / 100.0
		l := math.Min(vals[2], 100.0) / 100.0
		r, g, b := css.HSL2RGB(h, s, l)
		rgb = [3]int{clampByte(r * 255.0), clampByte(g * 255.0), clampByte(b * 255.0)}
	}

	alpha := 1.0
	if n == 4 {
		alpha = vals[3]
		if percent[3] {
			alpha /= 100.0
		}
		alpha = math.Max(0.0, math.Min(1.0, alpha))
	}
	return shortestColor(rgb, alpha), true
}

// shortestColor returns the shortest representation of a color: a name or hex color when opaque, otherwise rgba() or hsla().
func shortestColor(rgb [3]int, alpha float64) Node {
	if 1.0-cssopt.Epsilon < alpha {
		hex := "#" + hexByte(rgb[0]) + hexByte(rgb[1]) + hexByte(rgb[2])
		short := shortenHexColor(hex)
		if name, ok := shortenColorHex[short]; ok {
			return &Ident{name}
		}
		if name, ok := hexColorName[hex]; ok && len(name) <= len(hex) {
			return &Ident{name}
		}
		return &HexColor{short}
	}

	a := &Number{alpha}
	rgba := &Func{"rgba", &Expression{[]Term{
		{0, &Number{float64(rgb[0])}},
		{',', &Number{float64(rgb[1])}},
		{',', &Number{float64(rgb[2])}},
		{',', a},
	}}}
	h, s, l := rgbToHSL(rgb)
	if hslRoundTrips(rgb, h, s, l) {
		hsla := &Func{"hsla", &Expression{[]Term{
			{0, &Number{float64(h)}},
			{',', &Dimension{float64(s), "%"}},
			{',', &Dimension{float64(l), "%"}},
			{',', a},
		}}}
		if len(hsla.String()) < len(rgba.String()) {
			return hsla
		}
	}
	return rgba
}

func hexByte(v int) string {
	s := strconv.FormatInt(int64(v), 16)
	if len(s) == 1 {
		return "0" + s
	}
	return s
}

// rgbToHSL returns the hue in degrees and the saturation and lightness in percentages, all rounded.
func rgbToHSL(rgb [3]int) (int, int, int) {
	r, g, b := float64(rgb[0])/255.0, float64(rgb[1])/255.0, float64(rgb[2])/255.0
	hi := math.Max(r, math.Max(g, b))
	lo := math.Min(r, math.Min(g, b))
	l := (hi + lo) / 2.0
	if hi == lo {
		return 0, 0, int(math.Round(l * 100.0))
	}

	d := hi - lo
	s := d / (1.0 - math.Abs(2.0*l-1.0))
	var h float64
	switch hi {
	case r:
		h = math.Mod((g-b)/d, 6.0)
	case g:
		h = (b-r)/d + 2.0
	default:
		h = (r-g)/d + 4.0
	}
	h *= 60.0
	if h < 0.0 {
		h += 360.0
	}
	return int(math.Round(h)) % 360, int(math.Round(s * 100.0)), int(math.Round(l * 100.0))
}

func hslRoundTrips(rgb [3]int, h, s, l int) bool {
	r, g, b := css.HSL2RGB(float64(h)/360.0, float64(s)/100.0, float64(l)/100.0)
	return clampByte(r*255.0) == rgb[0] && clampByte(g*255.0) == rgb[1] && clampByte(b*255.0) == rgb[2]
}

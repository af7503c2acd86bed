package css

import (
	"math"
	"strings"
)

type unitCategory struct {
	names   []string // candidate order, the first shortest wins
	factors map[string]float64
}

var lengthUnits = unitCategory{
	names: []string{"in", "px", "pt", "pc", "cm", "mm"},
	factors: map[string]float64{
		"in": 96.0,
		"px": 1.0,
		"pt": 4.0 / 3.0,
		"pc": 16.0,
		"cm": 96.0 / 2.54,
		"mm": 9.6 / 2.54,
	},
}

var angleUnits = unitCategory{
	names: []string{"deg", "rad", "grad", "turn"},
	factors: map[string]float64{
		"deg":  1.0,
		"rad":  180.0 / math.Pi,
		"grad": 0.9,
		"turn": 360.0,
	},
}

var timeUnits = map[string]bool{"s": true, "ms": true}

var timeCategory = unitCategory{
	names: []string{"s", "ms"},
	factors: map[string]float64{
		"s":  1000.0,
		"ms": 1.0,
	},
}

var frequencyUnits = unitCategory{
	names: []string{"Hz", "kHz"},
	factors: map[string]float64{
		"Hz":  1.0,
		"kHz": 1000.0,
	},
}

// resolution factors are in dots per inch
var resolutionUnits = unitCategory{
	names: []string{"dpi", "dpcm", "dppx"},
	factors: map[string]float64{
		"dpi":  1.0,
		"dpcm": 2.54,
		"dppx": 96.0,
	},
}

var unitCategories = map[string]*unitCategory{}

func init() {
	for _, category := range []*unitCategory{&lengthUnits, &angleUnits, &timeCategory, &frequencyUnits, &resolutionUnits} {
		for _, name := range category.names {
			unitCategories[name] = category
		}
	}
}

// O1 only, lossy for print
var o1Units = map[string]bool{"cm": true, "mm": true}

// canonicalUnit lower-cases a unit, except for frequencies that are spelled Hz and kHz.
func canonicalUnit(unit string) string {
	unit = strings.ToLower(unit)
	switch unit {
	case "hz":
		return "Hz"
	case "khz":
		return "kHz"
	}
	return unit
}

// minimizeUnit returns the textually shortest dimension with the same value in the same unit category. Unknown units are returned unchanged.
func minimizeUnit(d *Dimension, o1 bool) *Dimension {
	category, ok := unitCategories[d.Unit]
	if !ok || !o1 && o1Units[d.Unit] {
		return d
	}

	base := d.Value * category.factors[d.Unit]
	shortest := d
	shortestLen := len(d.String())
	for _, name := range category.names {
		if name == d.Unit || name == "turn" || !o1 && o1Units[name] {
			continue
		}
		candidate := &Dimension{base / category.factors[name], name}
		if n := len(candidate.String()); n < shortestLen {
			shortest = candidate
			shortestLen = n
		}
	}
	return shortest
}

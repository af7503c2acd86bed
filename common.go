// Package cssopt holds the helpers shared by the CSS optimizer packages.
package cssopt // import "github.com/tdewolff/cssopt"

import (
	"bytes"
	"math"
	"strconv"
)

// Epsilon is the closest distance to an integer that is not considered to be that integer.
var Epsilon = 0.00001

// Decimals is the number of decimals kept by Number.
const Decimals = 4

var zeroBytes = []byte("0")

// Number formats a number for output. Decimals beyond Decimals are truncated, trailing zeros and the leading zero before the decimal point are removed. Numbers within Epsilon of an integer are written as that integer and NaN is written as zero.
func Number(f float64) []byte {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return zeroBytes
	}
	if r := math.Round(f); math.Abs(r-f) < Epsilon {
		if r == 0 {
			return zeroBytes
		}
		return strconv.AppendFloat(nil, r, 'f', -1, 64)
	}

	num := strconv.AppendFloat(nil, math.Abs(f), 'f', -1, 64)
	if dot := bytes.IndexByte(num, '.'); dot != -1 {
		if Decimals < len(num)-dot-1 {
			num = num[:dot+1+Decimals]
		}
		// trim 0 right
		for num[len(num)-1] == '0' {
			num = num[:len(num)-1]
		}
		if num[len(num)-1] == '.' {
			num = num[:len(num)-1]
		}
	}
	if len(num) == 1 && num[0] == '0' {
		return zeroBytes
	}
	// trim 0 left
	if 1 < len(num) && num[0] == '0' && num[1] == '.' {
		num = num[1:]
	}
	if f < 0 {
		num = append([]byte{'-'}, num...)
	}
	return num
}

// Raw formats a number without truncation, as written by pretty printers.
func Raw(f float64) []byte {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return zeroBytes
	}
	return strconv.AppendFloat(nil, f, 'f', -1, 64)
}

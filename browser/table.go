package browser

import "github.com/Masterminds/semver/v3"

// cutoffs maps a browser to the first version that dropped a feature.
type cutoffs map[Browser]*semver.Version

func v(s string) *semver.Version {
	return semver.MustParse(s)
}

// nobody marks declarations that no browser ever implemented.
var nobody = cutoffs{Chrome: v("0"), Firefox: v("0"), IE: v("0"), Opera: v("0")}

// declarationsRemoved lists declarations by the browser version that stopped needing them.
var declarationsRemoved = map[string]cutoffs{
	"-moz-border-radius":    {Firefox: v("4")},
	"-webkit-border-radius": {Chrome: v("5")},
	"-o-border-radius":      {Opera: v("12")},

	"-moz-box-shadow":    {Firefox: v("4")},
	"-webkit-box-shadow": {Chrome: v("10")},

	"-moz-box-sizing":    {Firefox: v("29")},
	"-webkit-box-sizing": {Chrome: v("9")},

	"-moz-transition":                    {Firefox: v("16")},
	"-moz-transition-delay":              {Firefox: v("16")},
	"-moz-transition-duration":           {Firefox: v("16")},
	"-moz-transition-property":           {Firefox: v("16")},
	"-moz-transition-timing-function":    {Firefox: v("16")},
	"-webkit-transition":                 {Chrome: v("26")},
	"-webkit-transition-delay":           {Chrome: v("26")},
	"-webkit-transition-duration":        {Chrome: v("26")},
	"-webkit-transition-property":        {Chrome: v("26")},
	"-webkit-transition-timing-function": {Chrome: v("26")},
	"-o-transition":                      {Opera: v("12")},

	"-moz-animation":                 {Firefox: v("16")},
	"-moz-animation-delay":           {Firefox: v("16")},
	"-moz-animation-direction":       {Firefox: v("16")},
	"-moz-animation-duration":        {Firefox: v("16")},
	"-moz-animation-fill-mode":       {Firefox: v("16")},
	"-moz-animation-iteration-count": {Firefox: v("16")},
	"-moz-animation-name":            {Firefox: v("16")},
	"-moz-animation-play-state":      {Firefox: v("16")},
	"-moz-animation-timing-function": {Firefox: v("16")},
	"-o-animation":                   {Opera: v("13")},
	"-o-animation-delay":             {Opera: v("13")},
	"-o-animation-direction":         {Opera: v("13")},
	"-o-animation-duration":          {Opera: v("13")},
	"-o-animation-fill-mode":         {Opera: v("13")},
	"-o-animation-iteration-count":   {Opera: v("13")},
	"-o-animation-name":              {Opera: v("13")},
	"-o-animation-play-state":        {Opera: v("13")},
	"-o-animation-timing-function":   {Opera: v("13")},

	"-moz-align-content":   {Firefox: v("28")},
	"-moz-align-items":     {Firefox: v("20")},
	"-moz-align-self":      {Firefox: v("20")},
	"-moz-flex":            {Firefox: v("20")},
	"-moz-flex-basis":      {Firefox: v("22")},
	"-moz-flex-direction":  {Firefox: v("20")},
	"-moz-flex-flow":       {Firefox: v("28")},
	"-moz-flex-grow":       {Firefox: v("20")},
	"-moz-flex-shrink":     {Firefox: v("20")},
	"-moz-flex-wrap":       {Firefox: v("28")},
	"-moz-justify-content": {Firefox: v("20")},
	"-webkit-flex":         {Chrome: v("29")},
	"-ms-align-items":      {IE: v("11")},
	"-ms-align-content":    {IE: v("11")},
	"-ms-align-self":       {IE: v("11")},
	"-ms-flex":             {IE: v("11")},
	"-ms-flex-basis":       {IE: v("11")},
	"-ms-flex-direction":   {IE: v("11")},
	"-ms-flex-flow":        {IE: v("11")},
	"-ms-flex-grow":        {IE: v("11")},
	"-ms-flex-shrink":      {IE: v("11")},
	"-ms-flex-order":       {IE: v("11")},
	"-ms-flex-wrap":        {IE: v("11")},
	"-ms-justify-content":  {IE: v("11")},
	"-ms-order":            {IE: v("11")},

	"-moz-transform":           {Firefox: v("16")},
	"-moz-transform-origin":    {Firefox: v("16")},
	"-moz-transform-style":     {Firefox: v("16")},
	"-moz-backface-visibility": {Firefox: v("16")},
	"-moz-perspective":         {Firefox: v("16")},
	"-moz-perspective-origin":  {Firefox: v("16")},

	"-ms-filter": {IE: v("10")},
	"filter":     {IE: v("10")},

	// never valid
	"-ms-transform":        {IE: v("0")},
	"-ms-transform-origin": {IE: v("0")},
	"box-align":            nobody,
	"box-flex":             nobody,
	"box-ordinal-group":    nobody,
	"box-orient":           nobody,
	"box-pack":             nobody,
}

// keyframesRemoved lists @keyframes vendor prefixes by the browser version that stopped needing them.
var keyframesRemoved = map[string]cutoffs{
	"-webkit-": {Chrome: v("40")},
	"-moz-":    {Firefox: v("16")},
	"-o-":      {Opera: v("13")},
}

package css

import (
	"go.uber.org/zap"

	"github.com/tdewolff/cssopt/browser"
)

var nopLogger = zap.NewNop()

// Context configures an optimization pass. It is passed by value, so scoped fields set with the With methods are only seen by the subtree they were set for.
type Context struct {
	Browsers browser.Versions // minimum browser versions, empty means no constraints
	O1       bool             // aggressive optimizations
	SaveIE   bool             // keep hacks targeting old versions of Internet Explorer
	Log      *zap.Logger

	vendorPrefix string
	function     string
	declaration  string
}

// WithVendorPrefix returns a context inside a vendor-prefixed at-rule such as @-webkit-keyframes.
func (ctx Context) WithVendorPrefix(prefix string) Context {
	ctx.vendorPrefix = prefix
	return ctx
}

// WithFunction returns a context inside a function call such as hsl().
func (ctx Context) WithFunction(name string) Context {
	ctx.function = name
	return ctx
}

// WithDeclaration returns a context inside the value of a declaration.
func (ctx Context) WithDeclaration(ident string) Context {
	ctx.declaration = ident
	return ctx
}

func (ctx Context) VendorPrefix() string {
	return ctx.vendorPrefix
}

func (ctx Context) Function() string {
	return ctx.function
}

func (ctx Context) Declaration() string {
	return ctx.declaration
}

func (ctx Context) log() *zap.Logger {
	if ctx.Log == nil {
		return nopLogger
	}
	return ctx.Log
}

// Package errors provides the pieces shared by the typed errors of every
// pipeline stage: the stage category and a lazily resolved caller.
package errors

import (
	"runtime"
	"strings"
)

// ErrorCategory names the pipeline stage an error originated from
type ErrorCategory string

const (
	CategoryLex     ErrorCategory = "LEX"
	CategoryParse   ErrorCategory = "PARSE"
	CategoryCodegen ErrorCategory = "CODEGEN"
)

// Caller identifies a function on the call stack by program counter.
// Capturing it is cheap; the function name is looked up only by Name.
type Caller uintptr

// CallerAt records the function skip frames above the caller of CallerAt.
// CallerAt(0) identifies the function that called CallerAt.
func CallerAt(skip int) Caller {
	var pcs [1]uintptr
	if runtime.Callers(skip+2, pcs[:]) == 0 {
		return 0
	}
	return Caller(pcs[0])
}

// FullName returns the package qualified function name, or "unknown".
func (c Caller) FullName() string {
	if c == 0 {
		return "unknown"
	}
	frames := runtime.CallersFrames([]uintptr{uintptr(c)})
	frame, _ := frames.Next()
	if frame.Function == "" {
		return "unknown"
	}
	return frame.Function
}

// Name returns the bare function or method name without package path or
// receiver, e.g. "parseFunction" for "(*Parser).parseFunction".
func (c Caller) Name() string {
	name := c.FullName()
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.IndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.LastIndex(name, ")."); i >= 0 {
		name = name[i+2:]
	}
	return name
}

// Package config holds the small set of fixed names and settings that
// need one canonical home instead of being duplicated across the lexer,
// CLI, and tooling: the source file extension, the prelude function
// names (which the binder must refuse to let user code shadow, AT1012),
// and the optional atlas.yaml project config.
package config

import "strings"

// SourceFileExt is the recognized Atlas source file extension.
const SourceFileExt = ".atl"

// HasSourceExt reports whether path ends with the Atlas source extension.
func HasSourceExt(path string) bool {
	return strings.HasSuffix(path, SourceFileExt)
}

// TrimSourceExt removes the Atlas source extension from name, if present.
func TrimSourceExt(name string) string {
	return strings.TrimSuffix(name, SourceFileExt)
}

// BytecodeExt is the extension used for compiled bytecode artifacts
// produced by `atlas build`.
const BytecodeExt = ".atb"

// PreludeNames are the fixed built-in function names: print, len, str.
// A program that declares a function or variable with one of these names
// is rejected at bind time with AT1012.
var PreludeNames = []string{"print", "len", "str"}

// IsPreludeName reports whether name is one of the non-redefinable prelude
// builtins.
func IsPreludeName(name string) bool {
	for _, n := range PreludeNames {
		if n == name {
			return true
		}
	}
	return false
}

const (
	PrintFuncName = "print"
	LenFuncName   = "len"
	StrFuncName   = "str"
)

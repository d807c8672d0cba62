package interp

import (
	"fmt"
	"unicode/utf8"

	"github.com/atlas-lang/atlas/internal/ast"
	"github.com/atlas-lang/atlas/internal/value"
)

// evalPrelude evaluates a call to one of Atlas's three fixed builtins —
// print, len, str — which the checker already validated, so no further
// domain checking happens here. Returns handled=false for any other
// callee name so evalCallExpr falls through to ordinary user-function
// dispatch.
func (in *Interpreter) evalPrelude(name string, call *ast.CallExpr, env *Environment) (value.Value, bool, *RuntimeError) {
	switch name {
	case "print":
		v, err := in.eval(call.Args[0], env)
		if err != nil {
			return value.Null, true, err
		}
		fmt.Fprintln(in.stdout, value.CanonicalString(v))
		return value.Null, true, nil

	case "len":
		v, err := in.eval(call.Args[0], env)
		if err != nil {
			return value.Null, true, err
		}
		if v.IsString() {
			return value.Number(float64(utf8.RuneCountInString(v.AsString()))), true, nil
		}
		return value.Number(float64(v.AsArray().Len())), true, nil

	case "str":
		v, err := in.eval(call.Args[0], env)
		if err != nil {
			return value.Null, true, err
		}
		return value.String(value.CanonicalString(v)), true, nil

	default:
		return value.Null, false, nil
	}
}

package value_test

import (
	"math"
	"strconv"
	"testing"

	"github.com/atlas-lang/atlas/internal/value"
)

func TestCanonicalString(t *testing.T) {
	// Held in variables so the sum is computed in float64 at run time; the
	// constant expression 0.1 + 0.2 would fold exactly to 0.3.
	tenth, fifth := 0.1, 0.2
	testCases := []struct {
		name string
		v    value.Value
		want string
	}{
		{"integer", value.Number(5), "5"},
		{"negative", value.Number(-5), "-5"},
		{"zero", value.Number(0), "0"},
		{"fraction", value.Number(3.5), "3.5"},
		{"tricky_sum", value.Number(tenth + fifth), "0.30000000000000004"},
		{"large", value.Number(2.5e10), "2.5e+10"},
		{"small", value.Number(1e-7), "1e-07"},
		{"true", value.Bool(true), "true"},
		{"false", value.Bool(false), "false"},
		{"null", value.Null, "null"},
		{"string_verbatim", value.String("hi there"), "hi there"},
		{"empty_string", value.String(""), ""},
		{"array", value.NewArray([]value.Value{value.Number(1), value.String("a"), value.Null}), `[1, "a", null]`},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := value.CanonicalString(tc.v); got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

// Number rendering is the shortest decimal that round-trips (spec: str(x)
// round-trips through the number literal parser).
func TestNumberStringRoundTrips(t *testing.T) {
	cases := []float64{0, 1, -1, 0.5, 1.0 / 3.0, 123456789.123456, 1e300, 5e-324, math.MaxFloat64}
	for _, f := range cases {
		s := value.CanonicalString(value.Number(f))
		back, err := strconv.ParseFloat(s, 64)
		if err != nil {
			t.Fatalf("%v rendered as unparseable %q", f, s)
		}
		if back != f {
			t.Errorf("%v -> %q -> %v does not round-trip", f, s, back)
		}
	}
}

func TestEqual(t *testing.T) {
	a := value.NewArray([]value.Value{value.Number(1)})
	b := value.NewArray([]value.Value{value.Number(1)})

	testCases := []struct {
		name string
		x, y value.Value
		want bool
	}{
		{"numbers_equal", value.Number(1), value.Number(1), true},
		{"numbers_unequal", value.Number(1), value.Number(2), false},
		{"strings_equal", value.String("a"), value.String("a"), true},
		{"bools", value.Bool(true), value.Bool(true), true},
		{"nulls", value.Null, value.Null, true},
		{"array_same_ref", a, a, true},
		{"array_structurally_equal_but_distinct", a, b, false},
		{"functions_same", value.Function(3), value.Function(3), true},
		{"functions_different", value.Function(3), value.Function(4), false},
		{"cross_kind", value.Number(0), value.Null, false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := value.Equal(tc.x, tc.y); got != tc.want {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestArraySharing(t *testing.T) {
	a := value.NewArray([]value.Value{value.Number(1), value.Number(2)})
	alias := a // copying the Value copies the pointer, not the elements
	a.AsArray().Set(0, value.Number(99))
	if got := alias.AsArray().Get(0); !value.Equal(got, value.Number(99)) {
		t.Errorf("aliased array did not observe the mutation: %s", value.CanonicalString(got))
	}
}

func TestRefCounting(t *testing.T) {
	v := value.NewArray(nil)
	arr := v.AsArray()
	if arr.RefCount() != 1 {
		t.Fatalf("fresh refcount: %d", arr.RefCount())
	}
	arr.Retain()
	arr.Retain()
	if arr.RefCount() != 3 {
		t.Errorf("after two retains: %d", arr.RefCount())
	}
	arr.Release()
	if arr.RefCount() != 2 {
		t.Errorf("after release: %d", arr.RefCount())
	}
}

func TestIsFinite(t *testing.T) {
	if !value.IsFinite(1.5) || !value.IsFinite(0) || !value.IsFinite(-math.MaxFloat64) {
		t.Error("finite values misclassified")
	}
	if value.IsFinite(math.Inf(1)) || value.IsFinite(math.Inf(-1)) || value.IsFinite(math.NaN()) {
		t.Error("non-finite values misclassified")
	}
}

func TestKinds(t *testing.T) {
	if !value.Number(1).IsNumber() || !value.String("").IsString() ||
		!value.Bool(false).IsBool() || !value.Null.IsNull() ||
		!value.NewArray(nil).IsArray() || !value.Function(0).IsFunction() {
		t.Error("kind predicates broken")
	}
	if value.Null.Kind().String() != "null" || value.Number(0).Kind().String() != "number" {
		t.Error("kind names broken")
	}
}

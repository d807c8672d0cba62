package diagnostics

// MaxErrors is the default hard cap on errors reported per compilation.
// Warnings are never capped.
const MaxErrors = 25

// Bag collects diagnostics for one compilation unit, enforcing the error
// cap and the rule that errors precede warnings in the output stream.
type Bag struct {
	errors    []*Diagnostic
	warnings  []*Diagnostic
	maxErrors int
}

// NewBag returns an empty diagnostic bag with the default error cap.
func NewBag() *Bag { return &Bag{maxErrors: MaxErrors} }

// SetMaxErrors overrides the error cap, used when an atlas.yaml raises or
// lowers it for a project. Non-positive values are ignored.
func (b *Bag) SetMaxErrors(n int) {
	if n > 0 {
		b.maxErrors = n
	}
}

// Add records d, silently dropping errors once the cap has been reached.
// Warnings are always recorded.
func (b *Bag) Add(d *Diagnostic) {
	if d == nil {
		return
	}
	if d.Level == LevelWarning {
		b.warnings = append(b.warnings, d)
		return
	}
	if len(b.errors) >= b.maxErrors {
		return
	}
	b.errors = append(b.errors, d)
}

// AddErr is a convenience wrapper for DiagnosticError producers.
func (b *Bag) AddErr(e *DiagnosticError) {
	if e == nil {
		return
	}
	b.Add(e.Diagnostic)
}

// HasErrors reports whether any error-level diagnostic was recorded.
func (b *Bag) HasErrors() bool { return len(b.errors) > 0 }

// Errors returns the recorded errors, in emission order, capped at the
// bag's error cap (MaxErrors unless SetMaxErrors changed it).
func (b *Bag) Errors() []*Diagnostic { return b.errors }

// Warnings returns the recorded warnings, in emission order, uncapped.
func (b *Bag) Warnings() []*Diagnostic { return b.warnings }

// All returns errors followed by warnings — the external ordering contract.
func (b *Bag) All() []*Diagnostic {
	out := make([]*Diagnostic, 0, len(b.errors)+len(b.warnings))
	out = append(out, b.errors...)
	out = append(out, b.warnings...)
	return out
}

// ErrorCount returns the number of recorded errors (never above the bag's
// error cap).
func (b *Bag) ErrorCount() int { return len(b.errors) }

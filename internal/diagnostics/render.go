package diagnostics

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// RenderHuman renders a diagnostic in the gutter format:
//
//	error[AT0001]: Type mismatch
//	  --> path/to/file.atl:12:9
//	   |
//	12 | let x: number = "hello";
//	   |         ^^^^^ expected number, found string
//	   |
//	help: convert the value to number or change the variable type
func RenderHuman(d *Diagnostic) string {
	var b strings.Builder

	prefix := string(d.Level)
	fmt.Fprintf(&b, "%s[%s]: %s\n", prefix, d.Code, d.Message)
	fmt.Fprintf(&b, "  --> %s:%d:%d\n", d.File, d.Line, d.Column)

	gutter := strconv.Itoa(d.Line)
	pad := strings.Repeat(" ", len(gutter))
	fmt.Fprintf(&b, "%s |\n", pad)
	fmt.Fprintf(&b, "%s | %s\n", gutter, d.Snippet)

	caretPad := strings.Repeat(" ", max0(d.Column-1))
	carets := strings.Repeat("^", max1(d.Length))
	fmt.Fprintf(&b, "%s | %s%s", pad, caretPad, carets)
	if d.Label != "" {
		fmt.Fprintf(&b, " %s", d.Label)
	}
	b.WriteString("\n")

	for _, r := range d.Related {
		fmt.Fprintf(&b, "  --> %s:%d:%d: %s\n", r.File, r.Line, r.Column, r.Message)
	}
	for _, n := range d.Notes {
		fmt.Fprintf(&b, "note: %s\n", n)
	}
	fmt.Fprintf(&b, "%s |\n", pad)
	if d.Help != "" {
		fmt.Fprintf(&b, "help: %s\n", d.Help)
	}
	return b.String()
}

// RenderRuntimeHuman renders a runtime-error record, prefixed
// `runtime error[...]` and followed by a stack-trace block.
func RenderRuntimeHuman(d *Diagnostic, frames []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "runtime error[%s]: %s\n", d.Code, d.Message)
	fmt.Fprintf(&b, "  --> %s:%d:%d\n", d.File, d.Line, d.Column)
	if len(frames) > 0 {
		b.WriteString("stack trace:\n")
		for _, f := range frames {
			fmt.Fprintf(&b, "  at %s\n", f)
		}
	}
	return b.String()
}

func max0(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

func max1(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

// RenderJSON renders a single diagnostic as one JSON object, byte-for-byte
// identical across renderer invocations for identical inputs.
func RenderJSON(d *Diagnostic) (string, error) {
	b, err := json.Marshal(d)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// RenderJSONArray renders a full diagnostic set as a single JSON array.
func RenderJSONArray(ds []*Diagnostic) (string, error) {
	b, err := json.Marshal(ds)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

package atlasapi_test

import (
	"bytes"
	"testing"

	"github.com/atlas-lang/atlas/pkg/atlasapi"
)

func TestCheck(t *testing.T) {
	out := atlasapi.Check("ok.atl", `let x = 1; print(x);`)
	if !out.OK {
		t.Fatalf("accepted program rejected: %v", out.Diagnostics)
	}

	out = atlasapi.Check("bad.atl", `let x: number = "hello";`)
	if out.OK {
		t.Fatal("rejected program accepted")
	}
	if len(out.Diagnostics) == 0 || out.Diagnostics[0].Code != "AT0001" {
		t.Errorf("diagnostics: %v", out.Diagnostics)
	}
}

func TestRunBothEngines(t *testing.T) {
	src := `fn add(a: number, b: number) -> number { return a + b; } print(add(2, 3)); add(1, 1);`

	var interpOut, vmOut bytes.Buffer
	r1 := atlasapi.Run("p.atl", src, &interpOut)
	r2 := atlasapi.RunVM("p.atl", src, &vmOut)

	if !r1.OK || !r2.OK {
		t.Fatalf("rejected: %v / %v", r1.Diagnostics, r2.Diagnostics)
	}
	if interpOut.String() != "5\n" || vmOut.String() != "5\n" {
		t.Errorf("stdout: %q / %q", interpOut.String(), vmOut.String())
	}
	if r1.Result != "2" || r2.Result != "2" {
		t.Errorf("final values: %q / %q", r1.Result, r2.Result)
	}
}

func TestRunRejectedProgramDoesNotExecute(t *testing.T) {
	var out bytes.Buffer
	r := atlasapi.Run("bad.atl", `print(1); let x: number = "no";`, &out)
	if r.OK {
		t.Fatal("expected rejection")
	}
	if out.Len() != 0 {
		t.Errorf("rejected program produced output: %q", out.String())
	}
}

func TestRunReportsRuntimeError(t *testing.T) {
	var out bytes.Buffer
	r := atlasapi.Run("err.atl", `print(1 / 0);`, &out)
	if !r.OK {
		t.Fatal("the program itself is well-typed")
	}
	if r.RuntimeError == "" {
		t.Error("expected a runtime error")
	}
	if r.Result != "" {
		t.Errorf("failed run still produced a result: %q", r.Result)
	}
}

func TestBuildExecRoundTrip(t *testing.T) {
	src := `var n = 0; while (n < 3) { print(n); n = n + 1; }`
	artifact, out := atlasapi.Build("loop.atl", src)
	if !out.OK {
		t.Fatalf("build rejected: %v", out.Diagnostics)
	}
	if len(artifact) == 0 {
		t.Fatal("empty artifact")
	}

	var stdout bytes.Buffer
	res, err := atlasapi.Exec(artifact, &stdout)
	if err != nil {
		t.Fatal(err)
	}
	if res.RuntimeError != "" {
		t.Fatalf("runtime error: %s", res.RuntimeError)
	}
	if stdout.String() != "0\n1\n2\n" {
		t.Errorf("stdout: %q", stdout.String())
	}
}

func TestExecRejectsCorruptArtifact(t *testing.T) {
	if _, err := atlasapi.Exec([]byte("junk"), &bytes.Buffer{}); err == nil {
		t.Error("expected an error for a corrupt artifact")
	}
}

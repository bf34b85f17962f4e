package engine

import (
	"strings"
	"testing"
)

func TestEvaluateEmptyString(t *testing.T) {
	eng := NewEngine()

	res, evalErrs, err := eng.Evaluate("")
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("unexpected eval errors: %v", evalErrs)
	}
	if res == nil {
		t.Fatal("expected non-nil result")
	}
	if len(res.Meshes) != 0 {
		t.Errorf("expected no meshes, got %d", len(res.Meshes))
	}
}

func TestEvaluateWhitespaceOnly(t *testing.T) {
	eng := NewEngine()

	res, evalErrs, err := eng.Evaluate("   \n\t  \n  ")
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("unexpected eval errors: %v", evalErrs)
	}
	if res == nil || len(res.Meshes) != 0 {
		t.Fatal("whitespace source must yield an empty result")
	}
}

func TestEvaluateValidExpression(t *testing.T) {
	eng := NewEngine()

	// Plain Lisp with no pipeline calls registers nothing.
	res, evalErrs, err := eng.Evaluate("(+ 1 2)")
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("unexpected eval errors: %v", evalErrs)
	}
	if res == nil || len(res.Meshes) != 0 {
		t.Fatal("expected an empty result")
	}
}

func TestEvaluateSyntaxError(t *testing.T) {
	eng := NewEngine()

	res, evalErrs, err := eng.Evaluate("(+ 1 2")
	if err != nil {
		t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
	}
	if res != nil {
		t.Fatal("expected nil result on syntax error")
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected at least one eval error")
	}
	if evalErrs[0].Message == "" {
		t.Error("eval error message should not be empty")
	}
}

func TestEvaluateUndefinedSymbol(t *testing.T) {
	eng := NewEngine()

	res, evalErrs, err := eng.Evaluate("(+ 1 no-such-symbol)")
	if err != nil {
		t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
	}
	if res != nil {
		t.Fatal("expected nil result on eval error")
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected at least one eval error")
	}
}

func TestEvaluateRuntimeErrorFromBuiltin(t *testing.T) {
	eng := NewEngine()

	res, evalErrs, err := eng.Evaluate(`(validate "not a mesh")`)
	if err != nil {
		t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
	}
	if res != nil {
		t.Fatal("expected nil result on builtin error")
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected at least one eval error")
	}
	if !strings.Contains(evalErrs[0].Message, "mesh") {
		t.Errorf("error message %q should mention the expected type", evalErrs[0].Message)
	}
}

func TestEvaluateIsolation(t *testing.T) {
	// Definitions must not leak between evaluations.
	eng := NewEngine()

	if _, evalErrs, err := eng.Evaluate("(def leaky 42)"); err != nil || len(evalErrs) > 0 {
		t.Fatalf("setup failed: %v %v", err, evalErrs)
	}

	res, evalErrs, err := eng.Evaluate("(+ leaky 1)")
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if res != nil || len(evalErrs) == 0 {
		t.Fatal("expected an eval error for a symbol from a previous evaluation")
	}
}

func TestParseZygomysErrorLineExtraction(t *testing.T) {
	tests := []struct {
		name     string
		msg      string
		wantLine int
	}{
		{"long form", "Error on line 3: unexpected token", 3},
		{"short form", "line 12: bad call", 12},
		{"no line info", "something broke", 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			errs := parseZygomysError(errString(tc.msg))
			if len(errs) != 1 {
				t.Fatalf("got %d errors, want 1", len(errs))
			}
			if errs[0].Line != tc.wantLine {
				t.Errorf("line = %d, want %d", errs[0].Line, tc.wantLine)
			}
			if errs[0].Message == "" {
				t.Error("message should not be empty")
			}
		})
	}
}

type errString string

func (e errString) Error() string { return string(e) }

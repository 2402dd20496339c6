package yangbind_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	yangbind "github.com/reoring/yangbind"
)

type step string

func (s step) String() string { return string(s) }

func TestIssues_IsMatchesCodeFamilies(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", yangbind.InvalidValue(yangbind.CodePrecisionLoss, "1.005", nil))
	if !errors.Is(err, yangbind.ErrInvalidValue) {
		t.Fatalf("precision_loss should match ErrInvalidValue: %v", err)
	}
	if errors.Is(err, yangbind.ErrSchemaMismatch) {
		t.Fatalf("precision_loss must not match ErrSchemaMismatch")
	}

	err = yangbind.SchemaMismatch("/(urn:x)top", step("(urn:x)nope"))
	if !errors.Is(err, yangbind.ErrSchemaMismatch) {
		t.Fatalf("expected schema mismatch, got %v", err)
	}
	if got := yangbind.FirstCode(err); got != yangbind.CodeSchemaMismatch {
		t.Fatalf("FirstCode = %q", got)
	}

	err = yangbind.UnsupportedObjectModel("/(urn:x)blob", "xml-dom")
	if !errors.Is(err, yangbind.ErrUnsupportedObjectModel) {
		t.Fatalf("expected unsupported object model, got %v", err)
	}
}

func TestIssues_ParamsCarryValueAndAlternatives(t *testing.T) {
	err := yangbind.InvalidValue(yangbind.CodeUnknownName, "bogus", map[string]any{"valid": []string{"a", "b"}})
	iss, ok := yangbind.AsIssues(err)
	if !ok || len(iss) != 1 {
		t.Fatalf("expected one issue, got %v", err)
	}
	if iss[0].Params["value"] != "bogus" {
		t.Fatalf("value param = %v", iss[0].Params["value"])
	}
	if names, _ := iss[0].Params["valid"].([]string); len(names) != 2 {
		t.Fatalf("valid param = %v", iss[0].Params["valid"])
	}
	if !strings.Contains(err.Error(), "unknown_name") {
		t.Fatalf("Error() = %q", err.Error())
	}
}

func TestIssues_ErrorTruncates(t *testing.T) {
	var iss yangbind.Issues
	for i := 0; i < 5; i++ {
		iss = yangbind.AppendIssues(iss, yangbind.IssueAt(fmt.Sprintf("/%d", i), yangbind.CodeInvalidValue, "", nil))
	}
	if msg := iss.Error(); !strings.Contains(msg, "total 5") {
		t.Fatalf("Error() = %q", msg)
	}
}

func TestIssues_UnwrapCauses(t *testing.T) {
	cause := errors.New("boom")
	iss := yangbind.Issues{{Code: yangbind.CodeInvalidValue, Cause: cause}}
	if !errors.Is(iss, cause) {
		t.Fatalf("expected cause to be reachable through Unwrap")
	}
	if _, ok := yangbind.AsIssues(nil); ok {
		t.Fatalf("nil error must not yield issues")
	}
}

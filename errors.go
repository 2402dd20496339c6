package yangbind

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeSchemaMismatch         = "schema_mismatch"
	CodeInvalidValue           = "invalid_value"
	CodeOutOfRange             = "out_of_range"
	CodePrecisionLoss          = "precision_loss"
	CodeUnknownName            = "unknown_name"
	CodeUnsupportedObjectModel = "unsupported_object_model"
	CodeInvalidArgument        = "invalid_argument"
	CodeMissingMandatory       = "missing_mandatory"
	// Informational only: conversions report it through an ok=false result.
	CodeNotRepresentable = "not_representable"
)

// Sentinels for errors.Is. An Issues value matches a sentinel when any of its
// entries carries the corresponding code family.
var (
	ErrSchemaMismatch         = errors.New("yangbind: schema mismatch")
	ErrInvalidValue           = errors.New("yangbind: invalid value")
	ErrUnsupportedObjectModel = errors.New("yangbind: unsupported object model")
)

// Issue represents a single failure entry.
type Issue struct {
	Path    string // Rendered path of the offending node or step (may be empty).
	Code    string // One of the codes listed above.
	Message string
	Hint    string // Optional: remediation hints.
	Cause   error  // Optional: underlying error.
	// Params carries structured parameters (e.g., {"value": "1.005",
	// "valid": []string{...}, "ranges": [...]}) for i18n and callers.
	Params map[string]any
}

// Issues is a collection of failures that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := min(n, maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. invalid_value at /(urn:x)top: invalid value (abc)
		fmt.Fprintf(b, "%s", it.Code)
		if it.Path != "" {
			fmt.Fprintf(b, " at %s", it.Path)
		}
		if it.Message != "" && it.Message != it.Code {
			fmt.Fprintf(b, ": %s", it.Message)
		}
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// Is reports whether any entry belongs to the family of the target sentinel.
func (iss Issues) Is(target error) bool {
	for _, it := range iss {
		switch target {
		case ErrSchemaMismatch:
			if it.Code == CodeSchemaMismatch {
				return true
			}
		case ErrInvalidValue:
			switch it.Code {
			case CodeInvalidValue, CodeOutOfRange, CodePrecisionLoss, CodeUnknownName:
				return true
			}
		case ErrUnsupportedObjectModel:
			if it.Code == CodeUnsupportedObjectModel {
				return true
			}
		}
	}
	return false
}

// Unwrap exposes the causes of all entries.
func (iss Issues) Unwrap() []error {
	var out []error
	for _, it := range iss {
		if it.Cause != nil {
			out = append(out, it.Cause)
		}
	}
	return out
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// FirstCode returns the code of the first issue carried by err, or "".
func FirstCode(err error) string {
	iss, ok := AsIssues(err)
	if !ok || len(iss) == 0 {
		return ""
	}
	return iss[0].Code
}

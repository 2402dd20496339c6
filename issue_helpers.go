package yangbind

import (
	"fmt"

	"github.com/reoring/yangbind/i18n"
)

// IssueAt creates an Issue at the given path with provided code, message and params map.
// This is a convenience helper to improve readability at call sites with many parameters.
func IssueAt(path, code, msg string, params map[string]any) Issue {
	return Issue{Path: path, Code: code, Message: msg, Params: params}
}

// SchemaMismatch reports a step without schema counterpart below parent.
func SchemaMismatch(parent string, step fmt.Stringer) Issues {
	s := step.String()
	return Issues{{
		Path:    parent,
		Code:    CodeSchemaMismatch,
		Message: i18n.T(CodeSchemaMismatch, map[string]string{"step": s}),
		Params:  map[string]any{"step": s},
	}}
}

// InvalidValue reports a scalar contract violation. raw is the offending
// input as received; params may add legal alternatives.
func InvalidValue(code, raw string, params map[string]any) Issues {
	p := map[string]any{"value": raw}
	for k, v := range params {
		p[k] = v
	}
	return Issues{{
		Code:    code,
		Message: i18n.T(code, map[string]string{"value": raw}),
		Params:  p,
	}}
}

// UnsupportedObjectModel reports an opaque payload tagged with an unknown model.
func UnsupportedObjectModel(path, model string) Issues {
	return Issues{{
		Path:    path,
		Code:    CodeUnsupportedObjectModel,
		Message: i18n.T(CodeUnsupportedObjectModel, map[string]string{"value": model}),
		Params:  map[string]any{"model": model},
	}}
}

// InvalidArgument reports API misuse such as passing a non-pointer object.
func InvalidArgument(path, msg string) Issues {
	return Issues{{Path: path, Code: CodeInvalidArgument, Message: msg}}
}

// MissingMandatory reports an absent mandatory node below path.
func MissingMandatory(path, step string) Issue {
	return Issue{
		Path:    path,
		Code:    CodeMissingMandatory,
		Message: i18n.T(CodeMissingMandatory, map[string]string{"step": step}),
		Params:  map[string]any{"step": step},
	}
}

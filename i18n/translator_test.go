package i18n

import (
	"strings"
	"testing"
)

func TestTranslator_DefaultAndJapanese(t *testing.T) {
	// default is en
	if msg := T("invalid_value", nil); msg == "invalid_value" || msg == "" {
		t.Fatalf("expected a human message, got %q", msg)
	}

	SetLanguage("ja")
	if msg := T("invalid_value", nil); msg == "invalid value" {
		t.Fatalf("expected japanese message, got %q", msg)
	}

	// reset to en
	SetLanguage("en")
}

func TestTranslator_EmbedsData(t *testing.T) {
	msg := T("out_of_range", map[string]string{"value": "150.00"})
	if !strings.Contains(msg, "150.00") {
		t.Fatalf("expected value in message, got %q", msg)
	}
	msg = T("schema_mismatch", map[string]string{"step": "(urn:x)foo"})
	if !strings.HasSuffix(msg, "(urn:x)foo") {
		t.Fatalf("expected step in message, got %q", msg)
	}
}

func TestTranslator_UnknownCodeFallsBack(t *testing.T) {
	if msg := T("no_such_code", nil); msg != "no_such_code" {
		t.Fatalf("expected code echo, got %q", msg)
	}
}

type upper struct{}

func (upper) Message(code string, _ map[string]string) string { return strings.ToUpper(code) }

func TestSetTranslator(t *testing.T) {
	SetTranslator(upper{})
	defer SetTranslator(nil)
	if msg := T("invalid_value", nil); msg != "INVALID_VALUE" {
		t.Fatalf("custom translator not used, got %q", msg)
	}
}

package i18n

import "strings"

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "value" or "step").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	var msg string
	switch t.lang {
	case "ja":
		switch code {
		case "schema_mismatch":
			msg = "スキーマに対応するノードがありません"
		case "invalid_value":
			msg = "値が不正です"
		case "out_of_range":
			msg = "値が許可された範囲外です"
		case "precision_loss":
			msg = "小数桁の精度が失われます"
		case "unknown_name":
			msg = "未定義の名前です"
		case "unsupported_object_model":
			msg = "サポートされていないオブジェクトモデルです"
		case "invalid_argument":
			msg = "引数が不正です"
		case "not_representable":
			msg = "バインディング表現では表現できません"
		case "missing_mandatory":
			msg = "必須ノードがありません"
		}
	default: // "en"
		switch code {
		case "schema_mismatch":
			msg = "no schema node for step"
		case "invalid_value":
			msg = "invalid value"
		case "out_of_range":
			msg = "value out of allowed ranges"
		case "precision_loss":
			msg = "value would lose precision"
		case "unknown_name":
			msg = "unknown name"
		case "unsupported_object_model":
			msg = "unsupported object model"
		case "invalid_argument":
			msg = "invalid argument"
		case "not_representable":
			msg = "not representable in binding form"
		case "missing_mandatory":
			msg = "mandatory node missing"
		}
	}
	if msg == "" {
		return code
	}
	if v, ok := data["value"]; ok {
		return msg + " (" + v + ")"
	}
	if s, ok := data["step"]; ok {
		return msg + ": " + s
	}
	if names, ok := data["valid"]; ok {
		return msg + "; expected one of " + strings.TrimSpace(names)
	}
	return msg
}

var currentTranslator Translator = dictTranslator{lang: "en"}

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	currentTranslator = dictTranslator{lang: lang}
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		currentTranslator = dictTranslator{lang: "en"}
		return
	}
	currentTranslator = tr
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string { return currentTranslator.Message(code, data) }

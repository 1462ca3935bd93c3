package i18n

// Translator retrieves localized messages for error codes.
// data provides optional metadata to embed in the message (for example,
// "expected" or "group").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	switch t.lang {
	case "ja":
		switch code {
		case "type_mismatch":
			if e := data["expected"]; e != "" {
				return e + " が必要です"
			}
			return "型が不正です"
		case "literal_mismatch":
			return "不正な値です"
		case "required_key_missing":
			return "必須キーが指定されていません"
		case "extra_key_not_allowed":
			return "許可されていないキーです"
		case "exclusive_group_conflict":
			return "排他グループのキーが重複しています"
		case "invalid_list_value":
			return "リストの値が不正です"
		case "sequence_length_mismatch":
			return "シーケンスの長さが一致しません"
		case "callable_rejected":
			return "不正な値です"
		case "no_valid_value":
			return "有効な値が見つかりません"
		case "parse_error":
			return "解析エラー"
		}
	default: // "en"
		switch code {
		case "type_mismatch":
			if e := data["expected"]; e != "" {
				return "expected " + e
			}
			return "invalid type"
		case "literal_mismatch":
			return "not a valid value"
		case "required_key_missing":
			return "required key not provided"
		case "extra_key_not_allowed":
			return "extra keys not allowed"
		case "exclusive_group_conflict":
			if g := data["group"]; g != "" {
				return "two or more values in the same group of exclusion '" + g + "'"
			}
			return "two or more values in the same group of exclusion"
		case "invalid_list_value":
			return "invalid list value"
		case "sequence_length_mismatch":
			return "sequence has wrong length"
		case "callable_rejected":
			return "not a valid value"
		case "no_valid_value":
			return "no valid value found"
		case "parse_error":
			return "parse error"
		}
	}
	return code
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

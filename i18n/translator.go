package i18n

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "expected" or "format").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	switch t.lang {
	case "ja":
		switch code {
		case "invalid_type":
			return "型が不正です"
		case "invalid_literal":
			return "リテラル値が一致しません"
		case "invalid_enum_value":
			return "許可されていない値です"
		case "unrecognized_keys":
			return "未知のキーです"
		case "invalid_union":
			return "どの候補にも一致しません"
		case "discriminator_missing":
			return "判別キーがありません"
		case "discriminator_unknown":
			return "未知の判別値です"
		case "invalid_intersection_types":
			return "交差結果を併合できません"
		case "too_small":
			return "小さすぎます"
		case "too_big":
			return "大きすぎます"
		case "not_multiple_of":
			return "倍数ではありません"
		case "invalid_string":
			return "文字列形式が不正です"
		case "invalid_date":
			return "日付が不正です"
		case "async_effect":
			return "非同期エフェクトには ParseAsync が必要です"
		case "custom":
			return "検証に失敗しました"
		case "parse_error":
			return "解析エラー"
		}
	default: // "en"
		switch code {
		case "invalid_type":
			if data != nil && data["expected"] != "" {
				return "expected " + data["expected"] + ", received " + orUnknown(data["received"])
			}
			return "invalid type"
		case "invalid_literal":
			return "invalid literal value"
		case "invalid_enum_value":
			return "invalid enum value"
		case "unrecognized_keys":
			return "unrecognized keys in object"
		case "invalid_union":
			return "invalid input: no union alternative matched"
		case "discriminator_missing":
			return "discriminator missing"
		case "discriminator_unknown":
			return "unknown discriminator value"
		case "invalid_intersection_types":
			return "intersection results could not be merged"
		case "too_small":
			return "too small"
		case "too_big":
			return "too big"
		case "not_multiple_of":
			return "not a multiple of the expected step"
		case "invalid_string":
			if data != nil && data["format"] != "" {
				return "invalid " + data["format"]
			}
			return "invalid string"
		case "invalid_date":
			return "invalid date"
		case "async_effect":
			return "asynchronous effect encountered; use ParseAsync"
		case "custom":
			return "invalid input"
		case "parse_error":
			return "parse error"
		}
	}
	return code
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
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

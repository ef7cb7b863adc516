package language

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

type entry struct {
	code    string // ISO 639-1
	speech  string // identifier expected by the speech synthesizers
	cloud   string // BCP-47 code used by the premium voice API
	display string
}

// Supported languages, in the order offered to users.
var languages = []entry{
	{"en", "en", "en-US", "English"},
	{"tr", "tr", "tr-TR", "Turkish"},
	{"de", "de", "de-DE", "German"},
	{"fr", "fr", "fr-FR", "French"},
	{"es", "es", "es-ES", "Spanish"},
	{"it", "it", "it-IT", "Italian"},
	{"ru", "ru", "ru-RU", "Russian"},
	{"ja", "jp", "ja-JP", "Japanese"},
	{"ko", "ko", "ko-KR", "Korean"},
	{"zh", "zh-cn", "cmn-CN", "Chinese"},
}

var byCode map[string]*entry

func init() {
	byCode = make(map[string]*entry, len(languages))
	for i := range languages {
		byCode[languages[i].code] = &languages[i]
	}
}

// Normalize reduces a language identifier (code or BCP-47 tag) to the
// two-letter base code, or returns the trimmed lowercase input when the tag
// cannot be parsed.
func Normalize(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" || code == "auto" {
		return code
	}
	if _, ok := byCode[code]; ok {
		return code
	}
	tag, err := language.Parse(code)
	if err != nil {
		return code
	}
	base, conf := tag.Base()
	if conf == language.No {
		return code
	}
	return base.String()
}

// Supported reports whether code names a language the pipeline can speak.
func Supported(code string) bool {
	_, ok := byCode[Normalize(code)]
	return ok
}

// SpeechCode maps a language code to the identifier expected by the free
// speech synthesizer. Unmapped languages default to English rather than
// failing.
func SpeechCode(code string) string {
	if e, ok := byCode[Normalize(code)]; ok {
		return e.speech
	}
	return "en"
}

// CloudVoiceCode maps a language code to the BCP-47 identifier expected by
// the premium voice API. Unmapped languages default to US English.
func CloudVoiceCode(code string) string {
	if e, ok := byCode[Normalize(code)]; ok {
		return e.cloud
	}
	return "en-US"
}

// DisplayName returns the English display name for code. Unknown codes fall
// back to the x/text display catalog, then to the code itself.
func DisplayName(code string) string {
	normalized := Normalize(code)
	if e, ok := byCode[normalized]; ok {
		return e.display
	}
	if tag, err := language.Parse(normalized); err == nil {
		if name := display.English.Tags().Name(tag); name != "" {
			return name
		}
	}
	return code
}

// Codes returns the supported language codes in presentation order.
func Codes() []string {
	out := make([]string, 0, len(languages))
	for _, e := range languages {
		out = append(out, e.code)
	}
	return out
}

package translation

import (
	"github.com/leonelquinteros/gotext"
)

// GetLanguage reports the active catalog language, defaulting to English
// when gotext has nothing loaded.
func GetLanguage() string {
	lang := gotext.GetLanguage()

	if lang == "und" || lang == "" {
		return "en"
	}

	return lang
}

// Translate resolves a message id against the loaded catalog. Untranslated
// ids come back as-is, so the ids double as the English strings.
func Translate(msgID string, vars ...interface{}) string {
	return gotext.Get(msgID, vars...)
}

package common

import (
	"fmt"
	"slices"

	"golang.org/x/text/language"
)

// labelLanguages are the base languages document labels exist for
var labelLanguages = []string{"en", "zh"}

// ValidateLanguage validates a label language tag. An empty tag is
// valid and falls back to English labels.
func ValidateLanguage(lang string) error {
	if lang == "" {
		return nil
	}

	tag, err := language.Parse(lang)
	if err != nil {
		return fmt.Errorf("invalid language tag '%s': %w", lang, err)
	}

	base, _ := tag.Base()
	if slices.Contains(labelLanguages, base.String()) {
		return nil
	}

	return fmt.Errorf("unsupported label language '%s'. Supported languages: %v",
		lang, labelLanguages)
}

// SupportedLanguages returns the list of supported label languages
func SupportedLanguages() []string {
	return labelLanguages
}

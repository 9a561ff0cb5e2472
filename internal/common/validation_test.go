package common

import "testing"

func TestValidateLanguage(t *testing.T) {
	tests := []struct {
		name    string
		lang    string
		wantErr bool
	}{
		{"empty tag falls back", "", false},
		{"english", "en", false},
		{"chinese", "zh", false},
		{"regional variant", "zh-CN", false},
		{"english variant", "en-US", false},
		{"unsupported language", "fr", true},
		{"garbage tag", "!!", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLanguage(tt.lang)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateLanguage(%q) error = %v, wantErr %v", tt.lang, err, tt.wantErr)
			}
		})
	}
}

func TestSupportedLanguages(t *testing.T) {
	langs := SupportedLanguages()
	if len(langs) == 0 {
		t.Fatal("no supported languages")
	}
	for _, l := range langs {
		if err := ValidateLanguage(l); err != nil {
			t.Errorf("supported language %q does not validate: %v", l, err)
		}
	}
}

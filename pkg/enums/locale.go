package enums

import "fmt"

// Locale selects the storefront language a customer checked out with.
type Locale string

const (
	LocaleSpanish Locale = "es"
	LocaleEnglish Locale = "en"
)

var validLocales = []Locale{
	LocaleSpanish,
	LocaleEnglish,
}

// String implements fmt.Stringer.
func (l Locale) String() string {
	return string(l)
}

// IsValid reports whether the value is a known Locale.
func (l Locale) IsValid() bool {
	for _, candidate := range validLocales {
		if candidate == l {
			return true
		}
	}
	return false
}

// ParseLocale converts raw input into a Locale, defaulting to Spanish for
// empty input.
func ParseLocale(value string) (Locale, error) {
	if value == "" {
		return LocaleSpanish, nil
	}
	for _, candidate := range validLocales {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid locale %q", value)
}

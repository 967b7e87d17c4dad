package configurator

import (
	"golang.org/x/text/language"

	"github.com/yourorg/checkout-components/internal/sdk"
)

// CustomisedLocale switches the SDK to host-supplied label overrides.
const CustomisedLocale = "Customised"

// DefaultLocale is the locale used after a reset.
const DefaultLocale = "en-GB"

var sdkLocales = []string{
	"ar", "da-DK", "de-DE", "el", "en-GB", "es-ES", "fi-FI", "fil-PH", "fr-FR",
	"hi-IN", "id-ID", "it-IT", "ja-JP", "ms-MY", "nb-NO", "nl-NL", "pt-PT",
	"sv-SE", "th-TH", "vi-VN", "zh-CN", "zh-HK", "zh-TW",
}

// Locales lists the selectable locales: the SDK locales followed by CustomisedLocale.
func Locales() []string {
	return append(append([]string(nil), sdkLocales...), CustomisedLocale)
}

// CanonicalLocale returns the selectable spelling of locale ("en-gb" becomes "en-GB")
// and whether it is selectable at all.
func CanonicalLocale(locale string) (string, bool) {
	if locale == CustomisedLocale {
		return locale, true
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return "", false
	}
	canonical := tag.String()
	for _, l := range sdkLocales {
		if l == canonical {
			return canonical, true
		}
	}
	return "", false
}

// DefaultTranslationOverrides are the labels shown under CustomisedLocale
// when the host configured none.
func DefaultTranslationOverrides() map[sdk.TranslationKey]string {
	return map[sdk.TranslationKey]string{
		sdk.TranslationCard:           "😂",
		sdk.TranslationCardHolderName: "🤷🏻‍♂️",
		sdk.TranslationCardNumber:     "🔢",
	}
}

var overrideKeys = []sdk.TranslationKey{sdk.TranslationCard, sdk.TranslationCardHolderName, sdk.TranslationCardNumber}

// Translations returns the override map for locale. Only CustomisedLocale gets
// overrides, keyed by exactly the card, cardholder-name and card-number labels;
// keys missing from overrides take the default text and unknown keys are dropped.
func Translations(locale string, overrides map[sdk.TranslationKey]string) sdk.Translations {
	if locale != CustomisedLocale {
		return sdk.Translations{}
	}
	defaults := DefaultTranslationOverrides()
	labels := make(map[sdk.TranslationKey]string, len(overrideKeys))
	for _, k := range overrideKeys {
		if v, ok := overrides[k]; ok && v != "" {
			labels[k] = v
			continue
		}
		labels[k] = defaults[k]
	}
	return sdk.Translations{CustomisedLocale: labels}
}

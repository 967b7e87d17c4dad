package configurator

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yourorg/checkout-components/internal/sdk"
)

// DefaultApplePayMerchantID is the sandbox merchant used when none is configured.
const DefaultApplePayMerchantID = "merchant.com.flow.checkout.sandbox"

// Settings is everything a user can choose before making a component.
type Settings struct {
	Selection    Selection                     `json:"selection" yaml:"selection"`
	Options      Options                       `json:"options" yaml:"options"`
	Appearance   Appearance                    `json:"appearance" yaml:"appearance"`
	Locale       string                        `json:"locale" yaml:"locale"`
	Environment  sdk.Environment               `json:"environment" yaml:"environment"`
	Translations map[sdk.TranslationKey]string `json:"translations,omitempty" yaml:"translations,omitempty"`
}

// DefaultSettings is the state a reset-to-defaults returns to.
func DefaultSettings() Settings {
	return Settings{
		Selection: Selection{Kind: KindFlow, Methods: AllMethods()},
		Options: Options{
			ShowCardPayButton:   true,
			PaymentButtonAction: sdk.ButtonActionPayment,
			ShowApplePayButton:  true,
			ApplePayMerchantID:  DefaultApplePayMerchantID,
			Address:             AddressPrefillCustomized,
			RememberMe:          RememberMe{Enabled: true, ShowPayButton: true},
			CustomButton:        CustomButtonSubmitPayment,
		},
		Appearance:  AppearanceDefault,
		Locale:      DefaultLocale,
		Environment: sdk.EnvironmentSandbox,
	}
}

// Validate checks every enumerated field and normalizes the locale spelling.
func (s *Settings) Validate() error {
	if !s.Selection.Kind.Valid() {
		return fmt.Errorf("%w: unknown component kind %q", ErrConfiguration, s.Selection.Kind)
	}
	if !s.Environment.Valid() {
		return fmt.Errorf("%w: unknown environment %q", ErrConfiguration, s.Environment)
	}
	if !s.Appearance.Valid() {
		return fmt.Errorf("%w: unknown appearance %q", ErrConfiguration, s.Appearance)
	}
	locale, ok := CanonicalLocale(s.Locale)
	if !ok {
		return fmt.Errorf("%w: unsupported locale %q", ErrConfiguration, s.Locale)
	}
	s.Locale = locale
	if !s.Options.Address.Valid() {
		return fmt.Errorf("%w: unknown address configuration %q", ErrConfiguration, s.Options.Address)
	}
	switch s.Options.PaymentButtonAction {
	case sdk.ButtonActionPayment, sdk.ButtonActionTokenization:
	default:
		return fmt.Errorf("%w: unknown payment button action %q", ErrConfiguration, s.Options.PaymentButtonAction)
	}
	if !s.Options.CustomButton.Valid() {
		return fmt.Errorf("%w: unknown custom button operation %q", ErrConfiguration, s.Options.CustomButton)
	}
	return nil
}

// ParseSettings decodes a JSON or YAML document on top of DefaultSettings,
// so presets only need to name what they change.
func ParseSettings(data []byte, source string) (Settings, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return Settings{}, fmt.Errorf("%w: settings %s are empty", ErrConfiguration, source)
	}

	settings := DefaultSettings()
	if jsonErr := json.Unmarshal(data, &settings); jsonErr != nil {
		settings = DefaultSettings()
		if err := yaml.Unmarshal(data, &settings); err != nil {
			return Settings{}, fmt.Errorf("%w: parse %s: %w", ErrConfiguration, source, err)
		}
	}
	if err := settings.Validate(); err != nil {
		return Settings{}, fmt.Errorf("settings %s: %w", source, err)
	}
	return settings, nil
}

// LoadSettings reads a preset file.
func LoadSettings(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("%w: read settings: %w", ErrConfiguration, err)
	}
	return ParseSettings(data, path)
}

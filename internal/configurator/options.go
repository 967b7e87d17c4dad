package configurator

import "github.com/yourorg/checkout-components/internal/sdk"

// AddressConfiguration names one of the supported address-field policies.
type AddressConfiguration string

const (
	AddressDefault           AddressConfiguration = "default"
	AddressPrefill           AddressConfiguration = "prefill"
	AddressPrefillCustomized AddressConfiguration = "prefillCustomized"
	AddressCustomizedFields  AddressConfiguration = "customizedFields"
)

// AddressConfigurations lists the policies in display order.
func AddressConfigurations() []AddressConfiguration {
	return []AddressConfiguration{AddressDefault, AddressPrefill, AddressPrefillCustomized, AddressCustomizedFields}
}

// customFields are collected when a customised policy is chosen.
var customFields = []string{"addressLine1", "city", "zip", "country"}

// Valid reports whether a is a known policy.
func (a AddressConfiguration) Valid() bool {
	for _, known := range AddressConfigurations() {
		if a == known {
			return true
		}
	}
	return false
}

// Policy maps a onto the concrete SDK address policy. prefill is only used by
// AddressPrefillCustomized.
func (a AddressConfiguration) Policy(prefill *sdk.Address) sdk.AddressPolicy {
	switch a {
	case AddressPrefill:
		return sdk.AddressPolicy{Mode: sdk.AddressModeSDKDefault, PrefillFromSession: true}
	case AddressPrefillCustomized:
		policy := sdk.AddressPolicy{
			Mode:               sdk.AddressModeCustomFields,
			RequiredFields:     append([]string(nil), customFields...),
			PrefillFromSession: true,
		}
		if prefill != nil {
			p := *prefill
			policy.Prefill = &p
		}
		return policy
	case AddressCustomizedFields:
		return sdk.AddressPolicy{
			Mode:           sdk.AddressModeCustomFields,
			RequiredFields: append([]string(nil), customFields...),
		}
	}
	return sdk.AddressPolicy{Mode: sdk.AddressModeSDKDefault}
}

// CustomButtonOperation is what the host's own button triggers.
type CustomButtonOperation string

const (
	CustomButtonSubmitPayment CustomButtonOperation = "submitPayment"
	CustomButtonTokenization  CustomButtonOperation = "tokenization"
)

// Valid reports whether o is a known operation.
func (o CustomButtonOperation) Valid() bool {
	return o == CustomButtonSubmitPayment || o == CustomButtonTokenization
}

// Phone is a remember-me phone number.
type Phone struct {
	CountryCode string `json:"countryCode" yaml:"countryCode"`
	Number      string `json:"number" yaml:"number"`
}

// RememberMe is the opt-in policy for storing contact data.
type RememberMe struct {
	Enabled       bool   `json:"enabled" yaml:"enabled"`
	ShowPayButton bool   `json:"showPayButton" yaml:"showPayButton"`
	Email         string `json:"email,omitempty" yaml:"email,omitempty"`
	Phone         Phone  `json:"phone" yaml:"phone"`
}

func (r RememberMe) configuration() *sdk.RememberMeConfiguration {
	if !r.Enabled {
		return nil
	}
	cfg := &sdk.RememberMeConfiguration{Email: r.Email, ShowPayButton: r.ShowPayButton}
	if r.Phone.CountryCode != "" || r.Phone.Number != "" {
		cfg.Phone = &sdk.Phone{CountryCode: r.Phone.CountryCode, Number: r.Phone.Number}
	}
	return cfg
}

// Options are the per-method component options.
type Options struct {
	ShowCardPayButton    bool                    `json:"showCardPayButton" yaml:"showCardPayButton"`
	PaymentButtonAction  sdk.PaymentButtonAction `json:"paymentButtonAction" yaml:"paymentButtonAction"`
	ShowApplePayButton   bool                    `json:"showApplePayButton" yaml:"showApplePayButton"`
	ApplePayMerchantID   string                  `json:"applePayMerchantId" yaml:"applePayMerchantId"`
	Address              AddressConfiguration    `json:"address" yaml:"address"`
	PrefillAddress       *sdk.Address            `json:"prefillAddress,omitempty" yaml:"prefillAddress,omitempty"`
	RememberMe           RememberMe              `json:"rememberMe" yaml:"rememberMe"`
	HandleSubmitManually bool                    `json:"handleSubmitManually" yaml:"handleSubmitManually"`
	CustomButton         CustomButtonOperation   `json:"customButton" yaml:"customButton"`
}

func (o Options) cardMethod() sdk.PaymentMethod {
	return sdk.CardMethod(sdk.CardOptions{
		ShowPayButton:       o.ShowCardPayButton,
		PaymentButtonAction: o.PaymentButtonAction,
		Address:             o.Address.Policy(o.PrefillAddress),
		RememberMe:          o.RememberMe.configuration(),
	})
}

func (o Options) applePayMethod() sdk.PaymentMethod {
	return sdk.ApplePayMethod(sdk.ApplePayOptions{
		MerchantIdentifier: o.ApplePayMerchantID,
		ShowPayButton:      o.ShowApplePayButton,
	})
}

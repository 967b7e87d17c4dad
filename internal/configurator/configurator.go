// Package configurator turns the user's component choices into an SDK
// configuration and a requested-component descriptor. Everything here is a
// pure function of its inputs.
package configurator

import (
	"errors"
	"fmt"

	checkoutctx "github.com/yourorg/checkout-components/internal/context"
	"github.com/yourorg/checkout-components/internal/policy"
	"github.com/yourorg/checkout-components/internal/sdk"
	"github.com/yourorg/checkout-components/internal/session"
)

// ErrConfiguration marks settings the SDK would reject.
var ErrConfiguration = errors.New("invalid component configuration")

// BuildConfiguration assembles the SDK configuration for sess. Unsupported
// option combinations fail with ErrConfiguration before the SDK is involved.
func BuildConfiguration(sess session.Session, settings Settings, creds checkoutctx.Credentials, callbacks sdk.Callbacks) (sdk.Configuration, error) {
	if err := settings.Validate(); err != nil {
		return sdk.Configuration{}, err
	}
	if creds.PublicKey == "" {
		return sdk.Configuration{}, fmt.Errorf("%w: public key is required", ErrConfiguration)
	}
	if sess.ID == "" {
		return sdk.Configuration{}, fmt.Errorf("%w: payment session is required", ErrConfiguration)
	}

	violations, err := policy.Compatibility.Evaluate(compatibilityParams(sess, settings))
	if err != nil {
		return sdk.Configuration{}, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	if len(violations) > 0 {
		return sdk.Configuration{}, fmt.Errorf("%w: %s", ErrConfiguration, policy.Describe(violations))
	}

	return sdk.Configuration{
		PaymentSession: sess.SDKSession(),
		PublicKey:      creds.PublicKey,
		Environment:    settings.Environment,
		Appearance:     settings.Appearance.DesignTokens(),
		Locale:         settings.Locale,
		Translations:   Translations(settings.Locale, settings.Translations),
		Callbacks:      callbacks,
	}, nil
}

// BuildComponentRequest describes the component to create. Card and Apple Pay
// kinds request their single method; a flow requests every effective method.
func BuildComponentRequest(settings Settings) sdk.ComponentRequest {
	methods := settings.Selection.EffectiveMethods()
	req := sdk.ComponentRequest{Variant: settings.Selection.Kind.Variant()}
	for _, m := range methods.Kinds() {
		switch m {
		case MethodCard:
			req.Methods = append(req.Methods, settings.Options.cardMethod())
		case MethodApplePay:
			req.Methods = append(req.Methods, settings.Options.applePayMethod())
		}
	}
	return req
}

func compatibilityParams(sess session.Session, settings Settings) map[string]interface{} {
	methods := settings.Selection.EffectiveMethods()
	card := methods.Has(MethodCard)
	address := settings.Options.Address.Policy(settings.Options.PrefillAddress)
	remember := settings.Options.RememberMe
	return map[string]interface{}{
		policy.ParamAddressPrefill:     card && address.PrefillFromSession,
		policy.ParamSessionHasBilling:  sess.Billing.Address.Country != "",
		policy.ParamRememberMePhone:    card && remember.Enabled && remember.Phone.Number != "",
		policy.ParamRememberMeCountry:  remember.Phone.CountryCode,
		policy.ParamTokenizationAction: card && settings.Options.PaymentButtonAction == sdk.ButtonActionTokenization,
		policy.ParamShowCardPayButton:  settings.Options.ShowCardPayButton,
		policy.ParamApplePayEnabled:    methods.Has(MethodApplePay),
		policy.ParamApplePayMerchantID: settings.Options.ApplePayMerchantID,
	}
}

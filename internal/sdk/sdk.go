// Package sdk describes the contract of the payment-components SDK the checkout
// hosts drive. The SDK itself (tokenization, validation, 3-D Secure, rendering)
// is an external collaborator; this package only fixes the shapes exchanged with it
// and the capability model of the components it produces.
package sdk

import (
	"context"
	"fmt"
)

// Environment selects the SDK backend.
type Environment string

const (
	EnvironmentSandbox    Environment = "sandbox"
	EnvironmentProduction Environment = "production"
)

// Valid reports whether e is a known environment.
func (e Environment) Valid() bool {
	return e == EnvironmentSandbox || e == EnvironmentProduction
}

// PaymentSession is what the SDK needs to initialise against a server-side session.
type PaymentSession struct {
	ID                   string `json:"id"`
	PaymentSessionToken  string `json:"payment_session_token"`
	PaymentSessionSecret string `json:"payment_session_secret"`
}

// TranslationKey names a label the host may override.
type TranslationKey string

const (
	TranslationCard           TranslationKey = "card"
	TranslationCardHolderName TranslationKey = "cardHolderName"
	TranslationCardNumber     TranslationKey = "cardNumber"
)

// Translations maps a locale to label overrides.
type Translations map[string]map[TranslationKey]string

// Configuration is consumed by SDK.Configure.
type Configuration struct {
	PaymentSession PaymentSession
	PublicKey      string
	Environment    Environment
	// Appearance is nil for the SDK default theme.
	Appearance   *DesignTokens
	Locale       string
	Translations Translations
	Callbacks    Callbacks
}

// UpdateDetails carries the values a rendered component may be asked to reflect.
type UpdateDetails struct {
	Amount int64 `json:"amount"`
}

// SDK creates configured instances.
type SDK interface {
	Configure(ctx context.Context, cfg Configuration) (Instance, error)
}

// Instance is one configured SDK able to create components.
type Instance interface {
	Create(req ComponentRequest) (Handle, error)
	// Update changes what the rendered view shows. It never touches the remote session.
	Update(details UpdateDetails) error
}

// ErrorCode classifies SDK-side rejections.
type ErrorCode string

const (
	ErrorCodeInvalidConfiguration ErrorCode = "invalid_configuration"
	ErrorCodeInvalidSession       ErrorCode = "invalid_payment_session"
	ErrorCodeUnsupportedComponent ErrorCode = "unsupported_component"
	ErrorCodeInvalidOptions       ErrorCode = "invalid_component_options"
	ErrorCodeUpdateFailed         ErrorCode = "update_failed"
	ErrorCodePaymentFailed        ErrorCode = "payment_failed"
)

// Error is returned by the SDK for configuration, creation and payment failures.
type Error struct {
	Code    ErrorCode
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

package sdk

// PaymentMethodType identifies a payment method the SDK can present.
type PaymentMethodType string

const (
	MethodCard     PaymentMethodType = "card"
	MethodApplePay PaymentMethodType = "applepay"
)

// PaymentButtonAction decides what the card pay button does.
type PaymentButtonAction string

const (
	ButtonActionPayment      PaymentButtonAction = "payment"
	ButtonActionTokenization PaymentButtonAction = "tokenization"
)

// AddressMode selects how the SDK collects the billing address.
type AddressMode string

const (
	AddressModeSDKDefault   AddressMode = "sdk_default"
	AddressModeCustomFields AddressMode = "custom_fields"
)

// Address is a postal address used to prefill address fields.
type Address struct {
	AddressLine1 string `json:"address_line1,omitempty" yaml:"address_line1"`
	City         string `json:"city,omitempty" yaml:"city"`
	Zip          string `json:"zip,omitempty" yaml:"zip"`
	Country      string `json:"country" yaml:"country"`
}

// AddressPolicy is the concrete address-field policy handed to the card method.
type AddressPolicy struct {
	Mode           AddressMode `json:"mode"`
	RequiredFields []string    `json:"required_fields,omitempty"`
	// PrefillFromSession asks the SDK to fill the form from the session billing data.
	PrefillFromSession bool     `json:"prefill_from_session"`
	Prefill            *Address `json:"prefill,omitempty"`
}

// Phone is a remember-me contact number.
type Phone struct {
	CountryCode string `json:"country_code"`
	Number      string `json:"number"`
}

// RememberMeConfiguration enables storing contact data for repeat payments.
type RememberMeConfiguration struct {
	Email         string `json:"email,omitempty"`
	Phone         *Phone `json:"phone,omitempty"`
	ShowPayButton bool   `json:"show_pay_button"`
}

// CardOptions configures the card payment method.
type CardOptions struct {
	ShowPayButton       bool                     `json:"show_pay_button"`
	PaymentButtonAction PaymentButtonAction      `json:"payment_button_action"`
	Address             AddressPolicy            `json:"address"`
	RememberMe          *RememberMeConfiguration `json:"remember_me,omitempty"`
}

// ApplePayOptions configures the Apple Pay payment method.
type ApplePayOptions struct {
	MerchantIdentifier string `json:"merchant_identifier"`
	ShowPayButton      bool   `json:"show_pay_button"`
}

// PaymentMethod is one method offered by a component. Exactly one of Card and
// ApplePay is set, matching Type.
type PaymentMethod struct {
	Type     PaymentMethodType `json:"type"`
	Card     *CardOptions      `json:"card,omitempty"`
	ApplePay *ApplePayOptions  `json:"apple_pay,omitempty"`
}

// CardMethod builds a card payment method.
func CardMethod(opts CardOptions) PaymentMethod {
	return PaymentMethod{Type: MethodCard, Card: &opts}
}

// ApplePayMethod builds an Apple Pay payment method.
func ApplePayMethod(opts ApplePayOptions) PaymentMethod {
	return PaymentMethod{Type: MethodApplePay, ApplePay: &opts}
}

// ComponentRequest is the requested-component descriptor passed to Instance.Create.
type ComponentRequest struct {
	Variant Variant         `json:"variant"`
	Methods []PaymentMethod `json:"methods"`
}

// MethodTypes lists the method types in request order.
func (r ComponentRequest) MethodTypes() []PaymentMethodType {
	types := make([]PaymentMethodType, 0, len(r.Methods))
	for _, m := range r.Methods {
		types = append(types, m.Type)
	}
	return types
}

package policy

// Parameter names supplied by the configurator.
const (
	ParamAddressPrefill     = "addressPrefill"
	ParamSessionHasBilling  = "sessionHasBilling"
	ParamRememberMePhone    = "rememberMePhone"
	ParamRememberMeCountry  = "rememberMeCountryCode"
	ParamTokenizationAction = "tokenizationAction"
	ParamShowCardPayButton  = "showCardPayButton"
	ParamApplePayEnabled    = "applePayEnabled"
	ParamApplePayMerchantID = "applePayMerchantID"
)

// CompatibilityRules are the combinations the SDK rejects.
func CompatibilityRules() []Rule {
	return []Rule{
		{
			ID:         "address_prefill_requires_billing",
			Expression: "!addressPrefill || sessionHasBilling",
			Message:    "address prefill needs billing data on the payment session",
		},
		{
			ID:         "remember_me_phone_requires_country_code",
			Expression: "!rememberMePhone || rememberMeCountryCode != ''",
			Message:    "a remember-me phone number needs a country code",
		},
		{
			ID:         "tokenization_requires_card_pay_button",
			Expression: "!tokenizationAction || showCardPayButton",
			Message:    "the tokenization button action needs the card pay button to be shown",
		},
		{
			ID:         "apple_pay_requires_merchant_id",
			Expression: "!applePayEnabled || applePayMerchantID != ''",
			Message:    "Apple Pay needs a merchant identifier",
		},
	}
}

// Compatibility is the compiled CompatibilityRules set.
var Compatibility = MustEnforcer(CompatibilityRules())

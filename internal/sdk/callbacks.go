package sdk

import "context"

// MethodDescriptor describes the payment method that completed a payment.
type MethodDescriptor struct {
	Name string            `json:"name"`
	Type PaymentMethodType `json:"type"`
}

// TokenDetails is delivered after a successful tokenization.
type TokenDetails struct {
	Type  string `json:"type"`
	Token string `json:"token"`
}

// SubmitOutcome is what a host-side submission returns to the SDK.
type SubmitOutcome struct {
	PaymentID string
	Status    string
}

// Callbacks are invoked by the SDK on the caller's goroutine.
type Callbacks struct {
	OnReady     func(component string)
	OnSuccess   func(method MethodDescriptor, paymentID string)
	OnError     func(err error)
	OnTokenized func(details TokenDetails)
	// HandleSubmit, when set, replaces the SDK's own submission: the SDK hands
	// over the session data and the host submits the payment session itself.
	HandleSubmit func(ctx context.Context, sessionData string) (SubmitOutcome, error)
}

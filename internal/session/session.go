// Package session bootstraps payment sessions against the payments API.
// A session is created once per component attempt; failures are surfaced to the
// caller immediately and never retried here.
package session

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"

	checkoutctx "github.com/yourorg/checkout-components/internal/context"
	"github.com/yourorg/checkout-components/internal/logging"
	"github.com/yourorg/checkout-components/internal/sdk"
)

var (
	// ErrInvalidRequest is returned before any network call when the request is malformed.
	ErrInvalidRequest = errors.New("invalid session request")
	// ErrNetwork covers transport, authorization and protocol failures of the payments API.
	ErrNetwork = errors.New("payments API request failed")
)

// Address is the billing address; only the country is required.
type Address struct {
	Country string `json:"country"`
}

// Billing wraps the billing address.
type Billing struct {
	Address Address `json:"address"`
}

// ThreeDS is the 3-D Secure policy of a session.
type ThreeDS struct {
	Enabled    bool `json:"enabled"`
	AttemptN3D bool `json:"attempt_n3d"`
}

// SessionRequest is the body of a session-creation call. Build it with
// Bootstrapper.BuildRequest and treat it as immutable.
type SessionRequest struct {
	Amount              int64   `json:"amount"`
	Currency            string  `json:"currency"`
	Billing             Billing `json:"billing"`
	SuccessURL          string  `json:"success_url"`
	FailureURL          string  `json:"failure_url"`
	ThreeDS             ThreeDS `json:"3ds"`
	ProcessingChannelID string  `json:"processing_channel_id,omitempty"`
}

// Session is a server-side payment session.
type Session struct {
	ID                   string `json:"id"`
	PaymentSessionToken  string `json:"payment_session_token"`
	PaymentSessionSecret string `json:"payment_session_secret"`
	// Billing is the billing data the session was created with.
	Billing Billing `json:"-"`
}

// SDKSession converts s into the shape the SDK consumes.
func (s Session) SDKSession() sdk.PaymentSession {
	return sdk.PaymentSession{
		ID:                   s.ID,
		PaymentSessionToken:  s.PaymentSessionToken,
		PaymentSessionSecret: s.PaymentSessionSecret,
	}
}

// SubmitRequest submits a session on behalf of the SDK.
type SubmitRequest struct {
	SessionData string  `json:"session_data"`
	Amount      int64   `json:"amount"`
	ThreeDS     ThreeDS `json:"3ds"`
}

// SubmissionResult is the payments API answer to a submission.
type SubmissionResult struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Type   string `json:"type"`
}

// NetworkLayer is the payments API as seen by the bootstrapper.
type NetworkLayer interface {
	CreateSession(ctx context.Context, req SessionRequest) (Session, error)
	SubmitSession(ctx context.Context, id string, req SubmitRequest) (SubmissionResult, error)
}

// SessionConfig holds the static inputs a session request is built from.
type SessionConfig struct {
	Amount              int64
	Currency            string
	Country             string
	ThreeDS             ThreeDS
	ProcessingChannelID string
	SuccessURL          string
	FailureURL          string
}

// DefaultSessionConfig returns the test configuration used for every demo attempt:
// one minor unit of GBP, billed in GB, with 3DS enabled and attempt-without-3DS allowed.
func DefaultSessionConfig(profile checkoutctx.MerchantProfile) SessionConfig {
	return SessionConfig{
		Amount:              1,
		Currency:            "GBP",
		Country:             "GB",
		ThreeDS:             ThreeDS{Enabled: true, AttemptN3D: true},
		ProcessingChannelID: profile.ProcessingChannelID,
		SuccessURL:          profile.SuccessURL,
		FailureURL:          profile.FailureURL,
	}
}

// Bootstrapper builds session requests and creates sessions.
type Bootstrapper struct {
	network NetworkLayer
	logger  *logging.Logger
}

// NewBootstrapper creates a Bootstrapper over network.
func NewBootstrapper(network NetworkLayer, logger *logging.Logger) *Bootstrapper {
	if network == nil {
		panic("NetworkLayer cannot be nil")
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &Bootstrapper{network: network, logger: logger}
}

// BuildRequest validates cfg and turns it into a SessionRequest.
func (b *Bootstrapper) BuildRequest(cfg SessionConfig) (SessionRequest, error) {
	if cfg.Amount <= 0 {
		return SessionRequest{}, fmt.Errorf("%w: amount must be positive, got %d", ErrInvalidRequest, cfg.Amount)
	}
	if err := validateCurrency(cfg.Currency); err != nil {
		return SessionRequest{}, err
	}
	if err := validateCountry(cfg.Country); err != nil {
		return SessionRequest{}, err
	}
	if err := validateURL("success_url", cfg.SuccessURL); err != nil {
		return SessionRequest{}, err
	}
	if err := validateURL("failure_url", cfg.FailureURL); err != nil {
		return SessionRequest{}, err
	}
	return SessionRequest{
		Amount:              cfg.Amount,
		Currency:            cfg.Currency,
		Billing:             Billing{Address: Address{Country: cfg.Country}},
		SuccessURL:          cfg.SuccessURL,
		FailureURL:          cfg.FailureURL,
		ThreeDS:             cfg.ThreeDS,
		ProcessingChannelID: cfg.ProcessingChannelID,
	}, nil
}

// CreateSession builds the request from cfg and performs exactly one outbound call.
func (b *Bootstrapper) CreateSession(ctx context.Context, cfg SessionConfig) (Session, error) {
	req, err := b.BuildRequest(cfg)
	if err != nil {
		b.logger.Warn(ctx, "Bootstrapper: rejected session request", logging.Fields{"error": err.Error()})
		return Session{}, err
	}

	s, err := b.network.CreateSession(ctx, req)
	if err != nil {
		b.logger.Error(ctx, "Bootstrapper: session creation failed", err, nil)
		return Session{}, asNetworkError(err)
	}
	if err := checkSession(s); err != nil {
		b.logger.Error(ctx, "Bootstrapper: incomplete session in response", err, logging.Fields{"session_id": s.ID})
		return Session{}, err
	}
	s.Billing = req.Billing
	b.logger.Info(ctx, "Bootstrapper: session created", logging.Fields{"session_id": s.ID, "amount": req.Amount, "currency": req.Currency})
	return s, nil
}

// SubmitSession forwards a submission to the network layer.
func (b *Bootstrapper) SubmitSession(ctx context.Context, id string, req SubmitRequest) (SubmissionResult, error) {
	if id == "" {
		return SubmissionResult{}, fmt.Errorf("%w: session id is required", ErrInvalidRequest)
	}
	res, err := b.network.SubmitSession(ctx, id, req)
	if err != nil {
		b.logger.Error(ctx, "Bootstrapper: session submission failed", err, logging.Fields{"session_id": id})
		return SubmissionResult{}, asNetworkError(err)
	}
	return res, nil
}

// asNetworkError classifies a network-layer failure. Requests the layer itself
// rejected before sending stay ErrInvalidRequest.
func asNetworkError(err error) error {
	if errors.Is(err, ErrNetwork) || errors.Is(err, ErrInvalidRequest) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrNetwork, err)
}

// checkSession rejects a response missing any field the SDK needs.
func checkSession(s Session) error {
	switch {
	case s.ID == "":
		return fmt.Errorf("%w: response carried no session id", ErrNetwork)
	case s.PaymentSessionToken == "":
		return fmt.Errorf("%w: session %s carried no payment session token", ErrNetwork, s.ID)
	case s.PaymentSessionSecret == "":
		return fmt.Errorf("%w: session %s carried no payment session secret", ErrNetwork, s.ID)
	}
	return nil
}

func validateCurrency(code string) error {
	if len(code) != 3 || strings.ToUpper(code) != code {
		return fmt.Errorf("%w: currency %q is not an upper-case ISO 4217 code", ErrInvalidRequest, code)
	}
	if _, err := currency.ParseISO(code); err != nil {
		return fmt.Errorf("%w: unknown currency %q", ErrInvalidRequest, code)
	}
	return nil
}

func validateCountry(code string) error {
	if len(code) != 2 || strings.ToUpper(code) != code {
		return fmt.Errorf("%w: country %q is not an upper-case ISO 3166 alpha-2 code", ErrInvalidRequest, code)
	}
	region, err := language.ParseRegion(code)
	if err != nil || !region.IsCountry() {
		return fmt.Errorf("%w: unknown country %q", ErrInvalidRequest, code)
	}
	return nil
}

func validateURL(name, raw string) error {
	u, err := url.Parse(raw)
	if err != nil || !u.IsAbs() || (u.Scheme != "https" && u.Scheme != "http") {
		return fmt.Errorf("%w: %s must be an absolute http(s) URL", ErrInvalidRequest, name)
	}
	return nil
}

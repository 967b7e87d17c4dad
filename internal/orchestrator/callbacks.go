package orchestrator

import (
	stdcontext "context"
	"fmt"

	"github.com/yourorg/checkout-components/internal/configurator"
	"github.com/yourorg/checkout-components/internal/logging"
	"github.com/yourorg/checkout-components/internal/reporting"
	"github.com/yourorg/checkout-components/internal/sdk"
	"github.com/yourorg/checkout-components/internal/session"
)

// manualSubmitAmount is the amount submitted when the host handles submission itself.
const manualSubmitAmount = 100

// callbacks binds SDK callbacks to one attempt. Callbacks arriving for an
// attempt that is neither in flight nor held are dropped, so outcomes never
// leak across attempts or survive a Reset.
func (o *Orchestrator) callbacks(attemptID, sessionID string) sdk.Callbacks {
	cb := sdk.Callbacks{
		OnReady: func(component string) {
			o.logger.Debug(stdcontext.Background(), "Orchestrator: component ready callback", logging.Fields{"attempt_id": attemptID, "component": component})
		},
		OnSuccess: func(method sdk.MethodDescriptor, paymentID string) {
			if !o.accepts(attemptID, "success") {
				return
			}
			o.outcome = PaymentOutcome{
				ShowResult: true,
				Succeeded:  true,
				ResultText: fmt.Sprintf("Payment succeeded with %s. Payment ID: %s", method.Name, paymentID),
			}
			paymentOutcomesTotal.WithLabelValues("success").Inc()
			o.record(attemptID, reporting.Entry{Status: reporting.StatusPaymentSuccess, PaymentID: paymentID})
		},
		OnError: func(err error) {
			if !o.accepts(attemptID, "failure") {
				return
			}
			o.outcome = PaymentOutcome{
				ShowResult:   true,
				Succeeded:    false,
				ResultText:   "Payment failed",
				ErrorMessage: err.Error(),
			}
			paymentOutcomesTotal.WithLabelValues("failure").Inc()
			o.record(attemptID, reporting.Entry{
				Status:       reporting.StatusPaymentFailure,
				ErrorCode:    errorCode(err),
				ErrorMessage: err.Error(),
			})
		},
		OnTokenized: func(details sdk.TokenDetails) {
			if !o.accepts(attemptID, "tokenized") {
				return
			}
			o.outcome = PaymentOutcome{
				ShowResult: true,
				Succeeded:  true,
				ResultText: fmt.Sprintf("Tokenization succeeded (%s)", details.Type),
				Token:      details.Token,
			}
			paymentOutcomesTotal.WithLabelValues("tokenized").Inc()
			o.record(attemptID, reporting.Entry{Status: reporting.StatusTokenized})
		},
	}
	if o.settings.Options.HandleSubmitManually {
		cb.HandleSubmit = func(ctx stdcontext.Context, sessionData string) (sdk.SubmitOutcome, error) {
			return o.submitManually(ctx, sessionID, sessionData)
		}
	}
	return cb
}

// submitManually submits the session through the payments API on behalf of the SDK.
// The amount is fixed and 3DS is disabled for these submissions.
func (o *Orchestrator) submitManually(ctx stdcontext.Context, sessionID, sessionData string) (sdk.SubmitOutcome, error) {
	res, err := o.bootstrapper.SubmitSession(ctx, sessionID, session.SubmitRequest{
		SessionData: sessionData,
		Amount:      manualSubmitAmount,
		ThreeDS:     session.ThreeDS{Enabled: false, AttemptN3D: false},
	})
	if err != nil {
		o.logger.Error(ctx, "Orchestrator: manual session submission failed", err, logging.Fields{"session_id": sessionID})
		return sdk.SubmitOutcome{}, err
	}
	o.logger.Info(ctx, "Orchestrator: session submitted", logging.Fields{"session_id": sessionID, "payment_id": res.ID, "status": res.Status})
	return sdk.SubmitOutcome{PaymentID: res.ID, Status: res.Status}, nil
}

func (o *Orchestrator) accepts(attemptID, event string) bool {
	if attemptID == o.inflightAttempt || (o.component != nil && attemptID == o.attempt.AttemptID) {
		return true
	}
	o.logger.Debug(stdcontext.Background(), "Orchestrator: dropping callback from a stale attempt", logging.Fields{"attempt_id": attemptID, "event": event})
	return false
}

func (o *Orchestrator) record(attemptID string, e reporting.Entry) {
	e.AttemptID = attemptID
	e.TraceID = o.attempt.TraceID
	e.Kind = string(o.heldKind)
	e.Environment = string(o.attempt.Environment)
	if o.session != nil {
		e.SessionID = o.session.ID
	}
	if e.Status == reporting.StatusPaymentSuccess {
		e.Amount, e.Currency = o.paidAmount()
	}
	o.journal.Record(e)
}

// paidAmount is what a successful payment charged: the fixed manual amount when
// the host submits, otherwise the session amount.
func (o *Orchestrator) paidAmount() (int64, string) {
	cfg := session.DefaultSessionConfig(o.attempt.Profile)
	if o.settings.Options.HandleSubmitManually {
		return manualSubmitAmount, cfg.Currency
	}
	return cfg.Amount, cfg.Currency
}

// PressCustomButton runs the operation configured for the host's own button.
func (o *Orchestrator) PressCustomButton() error {
	if o.settings.Options.CustomButton == configurator.CustomButtonTokenization {
		return o.Tokenize()
	}
	return o.Submit()
}

package orchestrator

import (
	stdcontext "context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/yourorg/checkout-components/internal/logging"
	"github.com/yourorg/checkout-components/internal/sdk"
)

// invalidInputHint is logged when a submission is dropped by the validity check.
const invalidInputHint = "Component did not pass the validation checks. Input fields might be wrongly filled in. " +
	"Components without any input fields are always valid."

// IsDiagnostic reports whether err only describes a dropped action or ignored
// input, as opposed to a failure the user should see.
func IsDiagnostic(err error) bool {
	return errors.Is(err, ErrValidationFailure) || errors.Is(err, ErrParse)
}

// Submit asks the held component to submit the payment. Components without the
// submit capability, or whose input does not pass validation, are left alone:
// the SDK is not called and the returned error wraps ErrValidationFailure.
func (o *Orchestrator) Submit() error {
	ctx := stdcontext.Background()
	if o.component == nil {
		return o.dropAction(ctx, "submit", "no component is held")
	}
	s := o.component.Submitter()
	if s == nil {
		return o.dropAction(ctx, "submit", fmt.Sprintf("component %s does not support submit (capabilities %s)",
			o.component.Name(), o.component.Capabilities))
	}
	if !s.IsValid() {
		return o.dropAction(ctx, "submit", invalidInputHint)
	}
	componentActionsTotal.WithLabelValues("submit", "invoked").Inc()
	s.Submit()
	return nil
}

// Tokenize asks the held component to tokenize the entered card details. Only
// components with the tokenize capability are called.
func (o *Orchestrator) Tokenize() error {
	ctx := stdcontext.Background()
	if o.component == nil {
		return o.dropAction(ctx, "tokenize", "no component is held")
	}
	t := o.component.Tokenizer()
	if t == nil {
		return o.dropAction(ctx, "tokenize", fmt.Sprintf("component %s does not support tokenize (capabilities %s)",
			o.component.Name(), o.component.Capabilities))
	}
	componentActionsTotal.WithLabelValues("tokenize", "invoked").Inc()
	t.Tokenize()
	return nil
}

// UpdateAmount asks the SDK to show a new amount in the rendered view. The
// remote payment session keeps its original amount.
//
// Input that is not a positive integer is ignored: nothing changes, the SDK is
// not called and nil is returned. An SDK rejection sets the error message.
func (o *Orchestrator) UpdateAmount(raw string) error {
	ctx := stdcontext.Background()
	amount, err := parseAmount(raw)
	if err != nil {
		componentActionsTotal.WithLabelValues("update_amount", "ignored").Inc()
		o.logger.Debug(ctx, "Orchestrator: ignoring amount update", logging.Fields{"input": raw, "reason": err.Error()})
		return nil
	}
	if o.instance == nil {
		componentActionsTotal.WithLabelValues("update_amount", "ignored").Inc()
		o.logger.Debug(ctx, "Orchestrator: ignoring amount update, no SDK instance", logging.Fields{"amount": amount})
		return nil
	}

	if err := o.instance.Update(sdk.UpdateDetails{Amount: amount}); err != nil {
		componentActionsTotal.WithLabelValues("update_amount", "rejected").Inc()
		o.errorMessage = err.Error()
		o.logger.Error(ctx, "Orchestrator: amount update failed", err, logging.Fields{"amount": amount})
		return fmt.Errorf("update amount: %w", err)
	}
	componentActionsTotal.WithLabelValues("update_amount", "invoked").Inc()

	if view, ok := o.Render(o.component); ok {
		o.view = &view
	}
	o.logger.Info(ctx, "Orchestrator: amount updated in view", logging.Fields{"amount": amount})
	return nil
}

func parseAmount(raw string) (int64, error) {
	amount, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: amount %q is not an integer", ErrParse, raw)
	}
	if amount <= 0 {
		return 0, fmt.Errorf("%w: amount %d is not positive", ErrParse, amount)
	}
	return amount, nil
}

func (o *Orchestrator) dropAction(ctx stdcontext.Context, action, reason string) error {
	componentActionsTotal.WithLabelValues(action, "rejected").Inc()
	o.logger.Debug(ctx, "Orchestrator: "+action+" dropped", logging.Fields{"reason": reason})
	return fmt.Errorf("%w: %s", ErrValidationFailure, reason)
}

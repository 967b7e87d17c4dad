// Package fake provides an in-process payment-components SDK with deterministic,
// configurable behaviour. It backs the demo hosts and the tests.
package fake

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/yourorg/checkout-components/internal/sdk"
)

// SDK is a fake implementation of sdk.SDK.
// The zero value rejects nothing but renders unavailable components; use New.
type SDK struct {
	// Available is reported by every rendered component.
	Available bool
	// Valid is reported by every submittable component.
	Valid bool
	// FailPayment makes Submit report an SDK payment error.
	FailPayment bool

	ConfigureFunc func(ctx context.Context, cfg sdk.Configuration) error
	CreateFunc    func(req sdk.ComponentRequest) error
	UpdateFunc    func(details sdk.UpdateDetails) error

	Configurations []sdk.Configuration
	Instances      []*Instance
	SubmitCalls    int
	TokenizeCalls  int
}

// New returns an SDK whose components are available and valid.
func New() *SDK {
	return &SDK{Available: true, Valid: true}
}

// Configure implements sdk.SDK.
func (s *SDK) Configure(ctx context.Context, cfg sdk.Configuration) (sdk.Instance, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.ConfigureFunc != nil {
		if err := s.ConfigureFunc(ctx, cfg); err != nil {
			return nil, err
		}
	}
	if cfg.PaymentSession.ID == "" || cfg.PaymentSession.PaymentSessionSecret == "" {
		return nil, &sdk.Error{Code: sdk.ErrorCodeInvalidSession, Message: "payment session is missing its id or secret"}
	}
	if cfg.PublicKey == "" {
		return nil, &sdk.Error{Code: sdk.ErrorCodeInvalidConfiguration, Message: "public key is required"}
	}
	if !cfg.Environment.Valid() {
		return nil, &sdk.Error{Code: sdk.ErrorCodeInvalidConfiguration, Message: fmt.Sprintf("unknown environment %q", cfg.Environment)}
	}
	s.Configurations = append(s.Configurations, cfg)
	inst := &Instance{sdk: s, cfg: cfg}
	s.Instances = append(s.Instances, inst)
	return inst, nil
}

// Instance is a configured fake SDK.
type Instance struct {
	sdk     *SDK
	cfg     sdk.Configuration
	amount  int64
	Created []sdk.ComponentRequest
	Updates []sdk.UpdateDetails
}

// Create implements sdk.Instance.
func (i *Instance) Create(req sdk.ComponentRequest) (sdk.Handle, error) {
	if i.sdk.CreateFunc != nil {
		if err := i.sdk.CreateFunc(req); err != nil {
			return nil, err
		}
	}
	if err := checkRequest(req); err != nil {
		return nil, err
	}
	i.Created = append(i.Created, req)

	base := renderHandle{inst: i, req: req}
	var h sdk.Handle
	switch req.Variant {
	case sdk.VariantAddress:
		h = &base
	case sdk.VariantCard:
		h = &cardHandle{paymentHandle{base}}
	default:
		h = &paymentHandle{base}
	}
	if i.cfg.Callbacks.OnReady != nil {
		i.cfg.Callbacks.OnReady(h.Name())
	}
	return h, nil
}

// Update implements sdk.Instance.
func (i *Instance) Update(details sdk.UpdateDetails) error {
	if i.sdk.UpdateFunc != nil {
		if err := i.sdk.UpdateFunc(details); err != nil {
			return err
		}
	}
	if details.Amount <= 0 {
		return &sdk.Error{Code: sdk.ErrorCodeUpdateFailed, Message: "amount must be positive"}
	}
	i.amount = details.Amount
	i.Updates = append(i.Updates, details)
	return nil
}

func checkRequest(req sdk.ComponentRequest) error {
	single := func(t sdk.PaymentMethodType) error {
		if len(req.Methods) != 1 || req.Methods[0].Type != t {
			return &sdk.Error{Code: sdk.ErrorCodeInvalidOptions, Message: fmt.Sprintf("%s component takes exactly the %s method", req.Variant, t)}
		}
		return nil
	}
	switch req.Variant {
	case sdk.VariantFlow:
		if len(req.Methods) == 0 {
			return &sdk.Error{Code: sdk.ErrorCodeInvalidOptions, Message: "flow component needs at least one payment method"}
		}
		seen := make(map[sdk.PaymentMethodType]bool)
		for _, m := range req.Methods {
			if seen[m.Type] {
				return &sdk.Error{Code: sdk.ErrorCodeInvalidOptions, Message: fmt.Sprintf("duplicate payment method %s", m.Type)}
			}
			seen[m.Type] = true
		}
		return nil
	case sdk.VariantCard:
		return single(sdk.MethodCard)
	case sdk.VariantApplePay:
		return single(sdk.MethodApplePay)
	case sdk.VariantAddress:
		return nil
	default:
		return &sdk.Error{Code: sdk.ErrorCodeUnsupportedComponent, Message: fmt.Sprintf("unsupported component %q", req.Variant)}
	}
}

type renderHandle struct {
	inst *Instance
	req  sdk.ComponentRequest
}

func (h *renderHandle) Name() string { return string(h.req.Variant) }

func (h *renderHandle) IsAvailable() bool { return h.inst.sdk.Available }

func (h *renderHandle) Render() sdk.View {
	theme := "default"
	if h.inst.cfg.Appearance != nil {
		theme = h.inst.cfg.Appearance.Name
	}
	return sdk.View{
		Component: h.Name(),
		Variant:   h.req.Variant,
		Methods:   h.req.MethodTypes(),
		Locale:    h.inst.cfg.Locale,
		Theme:     theme,
		Amount:    h.inst.amount,
	}
}

type paymentHandle struct {
	renderHandle
}

func (h *paymentHandle) IsValid() bool { return h.inst.sdk.Valid }

func (h *paymentHandle) Submit() {
	s := h.inst.sdk
	s.SubmitCalls++
	cb := h.inst.cfg.Callbacks
	method := h.describe()

	if cb.HandleSubmit != nil {
		outcome, err := cb.HandleSubmit(context.Background(), "sd_"+newID())
		if err != nil {
			if cb.OnError != nil {
				cb.OnError(err)
			}
			return
		}
		if cb.OnSuccess != nil {
			cb.OnSuccess(method, outcome.PaymentID)
		}
		return
	}
	if s.FailPayment {
		if cb.OnError != nil {
			cb.OnError(&sdk.Error{Code: sdk.ErrorCodePaymentFailed, Message: "payment declined"})
		}
		return
	}
	if cb.OnSuccess != nil {
		cb.OnSuccess(method, "pay_"+newID())
	}
}

func (h *paymentHandle) describe() sdk.MethodDescriptor {
	if len(h.req.Methods) == 0 {
		return sdk.MethodDescriptor{Name: string(h.req.Variant)}
	}
	t := h.req.Methods[0].Type
	name := "Card"
	if t == sdk.MethodApplePay {
		name = "Apple Pay"
	}
	return sdk.MethodDescriptor{Name: name, Type: t}
}

type cardHandle struct {
	paymentHandle
}

func (h *cardHandle) Tokenize() {
	h.inst.sdk.TokenizeCalls++
	if cb := h.inst.cfg.Callbacks.OnTokenized; cb != nil {
		cb(sdk.TokenDetails{Type: "card", Token: "tok_" + newID()})
	}
}

func newID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:26]
}

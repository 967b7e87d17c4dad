// Package orchestrator owns the checkout component lifecycle: it obtains a
// payment session, configures the SDK, creates the requested component and
// renders it, strictly in that order. Hosts read published state through
// Snapshot and change it only through the Orchestrator's operations.
//
// An Orchestrator is not safe for concurrent use. Hosts that serve several
// goroutines serialize calls themselves.
package orchestrator

import (
	stdcontext "context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/yourorg/checkout-components/internal/configurator"
	checkoutctx "github.com/yourorg/checkout-components/internal/context"
	"github.com/yourorg/checkout-components/internal/logging"
	"github.com/yourorg/checkout-components/internal/reporting"
	"github.com/yourorg/checkout-components/internal/sdk"
	"github.com/yourorg/checkout-components/internal/session"
)

var (
	// ErrComponentCreation wraps SDK rejections of the requested component.
	ErrComponentCreation = errors.New("component creation failed")
	// ErrValidationFailure is returned when a capability or validity check drops an action.
	// It is diagnostic only and never becomes user-visible state.
	ErrValidationFailure = errors.New("component validation failed")
	// ErrParse marks malformed user input.
	ErrParse = errors.New("malformed input")
	// ErrResetRequired is returned by MakeComponent while a component of another kind is held.
	ErrResetRequired = errors.New("reset required before creating a different component")
)

// State is the lifecycle state of the held component.
type State string

const (
	StateIdle              State = "idle"
	StateSessionPending    State = "session_pending"
	StateConfiguringSDK    State = "configuring_sdk"
	StateCreatingComponent State = "creating_component"
	StateReady             State = "ready"
	StateComponentError    State = "component_error"
)

// Stage names a step of MakeComponent for metrics and the journal.
type Stage string

const (
	StageProfile   Stage = "profile"
	StageSession   Stage = "session"
	StageConfigure Stage = "configure"
	StageCreate    Stage = "create"
	StageRender    Stage = "render"
)

// SessionBootstrapper creates and submits payment sessions.
type SessionBootstrapper interface {
	CreateSession(ctx stdcontext.Context, cfg session.SessionConfig) (session.Session, error)
	SubmitSession(ctx stdcontext.Context, id string, req session.SubmitRequest) (session.SubmissionResult, error)
}

// Journal records checkout events.
type Journal interface {
	Record(e reporting.Entry)
}

type nopJournal struct{}

func (nopJournal) Record(reporting.Entry) {}

// PaymentOutcome is the result of the latest payment or tokenization. It is
// cleared when an attempt starts and filled once by an SDK callback.
type PaymentOutcome struct {
	ShowResult   bool   `json:"showResult"`
	Succeeded    bool   `json:"succeeded"`
	ResultText   string `json:"resultText,omitempty"`
	Token        string `json:"token,omitempty"`
	ErrorMessage string `json:"errorMessage,omitempty"`
}

// Snapshot is a read-only copy of the published state.
type Snapshot struct {
	State        State                 `json:"state"`
	Settings     configurator.Settings `json:"settings"`
	MethodsTitle string                `json:"methodsTitle"`
	AttemptID    string                `json:"attemptId,omitempty"`
	SessionID    string                `json:"sessionId,omitempty"`
	Component    string                `json:"component,omitempty"`
	Capabilities string                `json:"capabilities,omitempty"`
	View         *sdk.View             `json:"view,omitempty"`
	ErrorMessage string                `json:"errorMessage,omitempty"`
	Outcome      PaymentOutcome        `json:"outcome"`
}

// Orchestrator drives one component at a time.
type Orchestrator struct {
	bootstrapper SessionBootstrapper
	sdk          sdk.SDK
	profiles     checkoutctx.ProfileRepository
	journal      Journal
	logger       *logging.Logger

	settings configurator.Settings
	state    State

	// Held references, replaced only when an attempt completes.
	session   *session.Session
	instance  sdk.Instance
	component *sdk.Component
	heldKind  configurator.Kind
	view      *sdk.View
	attempt   checkoutctx.AttemptContext

	inflightAttempt string
	errorMessage    string
	outcome         PaymentOutcome
}

// NewOrchestrator creates an Orchestrator in the Idle state with DefaultSettings.
func NewOrchestrator(
	b SessionBootstrapper,
	s sdk.SDK,
	profiles checkoutctx.ProfileRepository,
	journal Journal,
	logger *logging.Logger,
) *Orchestrator {
	if b == nil {
		panic("SessionBootstrapper cannot be nil")
	}
	if s == nil {
		panic("SDK cannot be nil")
	}
	if profiles == nil {
		panic("ProfileRepository cannot be nil")
	}
	if journal == nil {
		journal = nopJournal{}
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &Orchestrator{
		bootstrapper: b,
		sdk:          s,
		profiles:     profiles,
		journal:      journal,
		logger:       logger,
		settings:     configurator.DefaultSettings(),
		state:        StateIdle,
	}
}

// State returns the current lifecycle state.
func (o *Orchestrator) State() State {
	return o.state
}

// Settings returns the current settings.
func (o *Orchestrator) Settings() configurator.Settings {
	return o.settings
}

// ApplySettings validates and replaces the settings. A held component is kept;
// choosing a different kind makes the next MakeComponent require a Reset.
func (o *Orchestrator) ApplySettings(s configurator.Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	o.settings = s
	return nil
}

// MakeComponent runs session creation, SDK configuration, component creation
// and rendering in sequence. A failing stage stops the pipeline, moves to
// ComponentError and records a user-visible message; the previously held
// component and view stay as they were.
func (o *Orchestrator) MakeComponent(traceCtx checkoutctx.TraceContext) error {
	kind := o.settings.Selection.Kind
	if o.component != nil && o.heldKind != kind {
		o.logger.Warn(traceCtx.Context(), "Orchestrator: component of another kind is held, reset first",
			logging.Fields{"held": string(o.heldKind), "requested": string(kind)})
		return fmt.Errorf("%w: holding %s, requested %s", ErrResetRequired, o.heldKind, kind)
	}

	tracer := otel.Tracer("orchestrator")
	ctx, span := tracer.Start(traceCtx.Context(), "Orchestrator.MakeComponent")
	defer span.End()
	traceCtx = traceCtx.WithContext(ctx)
	span.SetAttributes(attribute.String("checkout.kind", string(kind)))

	o.outcome = PaymentOutcome{}
	o.errorMessage = ""

	profileStart := time.Now()
	profile, err := o.profiles.Get(o.settings.Environment)
	observeStage(StageProfile, profileStart)
	if err != nil {
		failed := checkoutctx.AttemptContext{Environment: o.settings.Environment, StartTime: profileStart}
		return o.fail(traceCtx, failed, StageProfile,
			fmt.Errorf("%w: %w", configurator.ErrConfiguration, err))
	}
	attempt := checkoutctx.DeriveAttemptContext(traceCtx, profile)
	o.inflightAttempt = attempt.AttemptID
	defer func() { o.inflightAttempt = "" }()
	span.SetAttributes(attribute.String("checkout.attempt_id", attempt.AttemptID))

	o.state = StateSessionPending
	sessionCfg := session.DefaultSessionConfig(profile)
	stageStart := time.Now()
	stageCtx, stageSpan := tracer.Start(ctx, "Orchestrator.CreateSession")
	sess, err := o.bootstrapper.CreateSession(stageCtx, sessionCfg)
	endStage(stageSpan, err)
	observeStage(StageSession, stageStart)
	if err != nil {
		return o.fail(traceCtx, attempt, StageSession, err)
	}
	o.logger.Info(ctx, "Orchestrator: payment session created", logging.Fields{"attempt_id": attempt.AttemptID, "session_id": sess.ID})

	o.state = StateConfiguringSDK
	stageStart = time.Now()
	stageCtx, stageSpan = tracer.Start(ctx, "Orchestrator.ConfigureSDK")
	instance, err := o.configure(stageCtx, sess, attempt)
	endStage(stageSpan, err)
	observeStage(StageConfigure, stageStart)
	if err != nil {
		return o.fail(traceCtx, attempt, StageConfigure, err)
	}

	o.state = StateCreatingComponent
	stageStart = time.Now()
	_, stageSpan = tracer.Start(ctx, "Orchestrator.CreateComponent")
	req := configurator.BuildComponentRequest(o.settings)
	handle, err := instance.Create(req)
	switch {
	case err != nil:
		err = fmt.Errorf("%w: %w", ErrComponentCreation, err)
	case handle == nil:
		err = fmt.Errorf("%w: SDK returned no %s component", ErrComponentCreation, req.Variant)
	}
	endStage(stageSpan, err)
	observeStage(StageCreate, stageStart)
	if err != nil {
		return o.fail(traceCtx, attempt, StageCreate, err)
	}
	component := sdk.NewComponent(req.Variant, handle)

	stageStart = time.Now()
	view, ok := o.Render(component)
	observeStage(StageRender, stageStart)
	if !ok {
		o.logger.Info(ctx, "Orchestrator: component is not available, nothing to display",
			logging.Fields{"component": component.Name(), "capabilities": component.Capabilities.String()})
	}

	o.session = &sess
	o.instance = instance
	o.component = component
	o.heldKind = kind
	o.attempt = attempt
	o.view = nil
	if ok {
		o.view = &view
	}
	o.state = StateReady

	componentAttemptsTotal.WithLabelValues(string(kind), "ready").Inc()
	o.journal.Record(reporting.Entry{
		AttemptID:   attempt.AttemptID,
		TraceID:     attempt.TraceID,
		Kind:        string(kind),
		Environment: string(attempt.Environment),
		Status:      reporting.StatusReady,
		SessionID:   sess.ID,
		Amount:      sessionCfg.Amount,
		Currency:    sessionCfg.Currency,
		DurationMs:  attempt.Elapsed().Milliseconds(),
	})
	o.logger.Info(ctx, "Orchestrator: component ready", logging.Fields{
		"attempt_id":   attempt.AttemptID,
		"component":    component.Name(),
		"capabilities": component.Capabilities.String(),
		"rendered":     ok,
	})
	return nil
}

func (o *Orchestrator) configure(ctx stdcontext.Context, sess session.Session, attempt checkoutctx.AttemptContext) (sdk.Instance, error) {
	cfg, err := configurator.BuildConfiguration(sess, o.settings, attempt.Credentials, o.callbacks(attempt.AttemptID, sess.ID))
	if err != nil {
		return nil, err
	}
	instance, err := o.sdk.Configure(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", configurator.ErrConfiguration, err)
	}
	return instance, nil
}

// Render returns the component's view when it can be displayed. A component
// without the render facet or reporting itself unavailable yields no view.
func (o *Orchestrator) Render(component *sdk.Component) (sdk.View, bool) {
	if component == nil {
		return sdk.View{}, false
	}
	r := component.Renderer()
	if r == nil || !r.IsAvailable() {
		return sdk.View{}, false
	}
	return r.Render(), true
}

// Reset returns to Idle and drops every held reference.
func (o *Orchestrator) Reset() {
	o.state = StateIdle
	o.session = nil
	o.instance = nil
	o.component = nil
	o.heldKind = ""
	o.view = nil
	o.attempt = checkoutctx.AttemptContext{}
	o.inflightAttempt = ""
	o.errorMessage = ""
	o.outcome = PaymentOutcome{}
}

// ResetToDefaults resets and restores DefaultSettings.
func (o *Orchestrator) ResetToDefaults() {
	o.Reset()
	o.settings = configurator.DefaultSettings()
}

// Snapshot copies the published state.
func (o *Orchestrator) Snapshot() Snapshot {
	snap := Snapshot{
		State:        o.state,
		Settings:     o.settings,
		MethodsTitle: o.settings.Selection.Methods.Title(),
		AttemptID:    o.attempt.AttemptID,
		ErrorMessage: o.errorMessage,
		Outcome:      o.outcome,
	}
	if len(o.settings.Translations) > 0 {
		snap.Settings.Translations = make(map[sdk.TranslationKey]string, len(o.settings.Translations))
		for k, v := range o.settings.Translations {
			snap.Settings.Translations[k] = v
		}
	}
	if o.session != nil {
		snap.SessionID = o.session.ID
	}
	if o.component != nil {
		snap.Component = o.component.Name()
		snap.Capabilities = o.component.Capabilities.String()
	}
	if o.view != nil {
		v := *o.view
		v.Methods = append([]sdk.PaymentMethodType(nil), o.view.Methods...)
		snap.View = &v
	}
	return snap
}

// TakeOutcome returns the outcome and clears it, so each result is shown once.
func (o *Orchestrator) TakeOutcome() PaymentOutcome {
	out := o.outcome
	o.outcome = PaymentOutcome{}
	return out
}

func (o *Orchestrator) fail(traceCtx checkoutctx.TraceContext, attempt checkoutctx.AttemptContext, stage Stage, err error) error {
	ctx := traceCtx.Context()
	o.state = StateComponentError
	o.errorMessage = userMessage(err)

	kind := o.settings.Selection.Kind
	componentAttemptsTotal.WithLabelValues(string(kind), "failed").Inc()
	o.journal.Record(reporting.Entry{
		AttemptID:    attempt.AttemptID,
		TraceID:      traceCtx.TraceID,
		Kind:         string(kind),
		Environment:  string(attempt.Environment),
		Status:       reporting.StatusFailure,
		Stage:        string(stage),
		DurationMs:   attempt.Elapsed().Milliseconds(),
		ErrorCode:    errorCode(err),
		ErrorMessage: err.Error(),
	})
	o.logger.Error(ctx, "Orchestrator: component attempt failed", err, logging.Fields{
		"attempt_id": attempt.AttemptID,
		"stage":      string(stage),
	})
	return err
}

func endStage(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func userMessage(err error) string {
	if errors.Is(err, session.ErrNetwork) {
		return fmt.Sprintf("Network error: %v. Check if your keys are correct.", err)
	}
	return err.Error()
}

func errorCode(err error) string {
	var sdkErr *sdk.Error
	if errors.As(err, &sdkErr) {
		return string(sdkErr.Code)
	}
	if apiErr, ok := session.AsAPIError(err); ok && apiErr.ErrorType != "" {
		return apiErr.ErrorType
	}
	switch {
	case errors.Is(err, session.ErrInvalidRequest):
		return "invalid_request"
	case errors.Is(err, session.ErrNetwork):
		return "network_error"
	case errors.Is(err, configurator.ErrConfiguration):
		return "configuration_error"
	case errors.Is(err, ErrComponentCreation):
		return "component_creation_error"
	}
	return "unknown_error"
}

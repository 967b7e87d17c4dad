package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/yourorg/checkout-components/internal/configurator"
	checkoutctx "github.com/yourorg/checkout-components/internal/context"
	"github.com/yourorg/checkout-components/internal/orchestrator"
	"github.com/yourorg/checkout-components/internal/sdk"
)

const (
	actionSubmit       = "Submit payment"
	actionTokenize     = "Tokenize card"
	actionCustomButton = "Press custom button"
	actionAmount       = "Update amount"
	actionState        = "Show state"
	actionRemake       = "Make component again"
	actionReconfigure  = "Reset and reconfigure"
	actionDefaults     = "Reset to defaults"
	actionQuit         = "Quit"
)

var actions = []string{
	actionSubmit, actionTokenize, actionCustomButton, actionAmount, actionState,
	actionRemake, actionReconfigure, actionDefaults, actionQuit,
}

// askSettings walks the user through the settings, starting from base.
func askSettings(p prompter, base configurator.Settings) (configurator.Settings, error) {
	s := base

	kinds := make([]string, 0, len(configurator.Kinds()))
	for _, k := range configurator.Kinds() {
		kinds = append(kinds, string(k))
	}
	kind, err := p.Select("Component", kinds, string(s.Selection.Kind))
	if err != nil {
		return s, err
	}
	s.Selection.Kind = configurator.Kind(kind)

	if s.Selection.Kind == configurator.KindFlow {
		all := []string{string(configurator.MethodCard), string(configurator.MethodApplePay)}
		var current []string
		for _, m := range s.Selection.Methods.Kinds() {
			current = append(current, string(m))
		}
		picked, err := p.MultiSelect("Payment methods", all, current)
		if err != nil {
			return s, err
		}
		methods := configurator.Methods()
		for _, m := range picked {
			methods = methods.With(configurator.MethodKind(m))
		}
		s.Selection.Methods = methods
	}

	locale, err := p.Select("Locale", configurator.Locales(), s.Locale)
	if err != nil {
		return s, err
	}
	s.Locale = locale

	env, err := p.Select("Environment",
		[]string{string(sdk.EnvironmentSandbox), string(sdk.EnvironmentProduction)}, string(s.Environment))
	if err != nil {
		return s, err
	}
	s.Environment = sdk.Environment(env)

	dark, err := p.Confirm("Dark appearance?", s.Appearance == configurator.AppearanceDark)
	if err != nil {
		return s, err
	}
	s.Appearance = configurator.AppearanceDefault
	if dark {
		s.Appearance = configurator.AppearanceDark
	}

	addresses := make([]string, 0, len(configurator.AddressConfigurations()))
	for _, a := range configurator.AddressConfigurations() {
		addresses = append(addresses, string(a))
	}
	address, err := p.Select("Address", addresses, string(s.Options.Address))
	if err != nil {
		return s, err
	}
	s.Options.Address = configurator.AddressConfiguration(address)

	manual, err := p.Confirm("Submit payments from the host?", s.Options.HandleSubmitManually)
	if err != nil {
		return s, err
	}
	s.Options.HandleSubmitManually = manual

	return s, s.Validate()
}

type host struct {
	orc *orchestrator.Orchestrator
	p   prompter
	out io.Writer
}

// configure asks for settings and applies them, asking again while they are rejected.
func (h *host) configure() error {
	for {
		settings, err := askSettings(h.p, h.orc.Settings())
		if err == nil {
			err = h.orc.ApplySettings(settings)
		}
		if err == nil {
			return nil
		}
		if !errors.Is(err, configurator.ErrConfiguration) {
			return err
		}
		fmt.Fprintf(h.out, "Settings rejected: %v\n", err)
	}
}

func (h *host) make() {
	if err := h.orc.MakeComponent(checkoutctx.NewTraceContext(context.Background())); err != nil {
		fmt.Fprintf(h.out, "Could not make the component: %v\n", err)
	}
	h.printState()
}

// run drives the orchestrator until the user quits.
func (h *host) run() error {
	if err := h.configure(); err != nil {
		return err
	}
	h.make()

	for {
		action, err := h.p.Select("Action", actions, actionSubmit)
		if err != nil {
			return err
		}
		switch action {
		case actionSubmit:
			h.report(h.orc.Submit())
		case actionTokenize:
			h.report(h.orc.Tokenize())
		case actionCustomButton:
			h.report(h.orc.PressCustomButton())
		case actionAmount:
			raw, err := h.p.Input("Amount (minor units)", "")
			if err != nil {
				return err
			}
			h.report(h.orc.UpdateAmount(raw))
			h.printState()
		case actionState:
			h.printState()
		case actionRemake:
			h.make()
		case actionReconfigure:
			h.orc.Reset()
			if err := h.configure(); err != nil {
				return err
			}
			h.make()
		case actionDefaults:
			h.orc.ResetToDefaults()
			h.printState()
		case actionQuit:
			return nil
		}
	}
}

func (h *host) report(err error) {
	switch {
	case err == nil:
	case orchestrator.IsDiagnostic(err):
		fmt.Fprintf(h.out, "Ignored: %v\n", err)
	default:
		fmt.Fprintf(h.out, "Error: %v\n", err)
	}
	if outcome := h.orc.TakeOutcome(); outcome.ShowResult {
		if outcome.Succeeded {
			fmt.Fprintf(h.out, "%s\n", outcome.ResultText)
			if outcome.Token != "" {
				fmt.Fprintf(h.out, "Token: %s\n", outcome.Token)
			}
		} else {
			fmt.Fprintf(h.out, "%s: %s\n", outcome.ResultText, outcome.ErrorMessage)
		}
	}
}

func (h *host) printState() {
	snap := h.orc.Snapshot()
	fmt.Fprintf(h.out, "State: %s | %s | %s\n", snap.State, snap.Settings.Selection.Kind.DisplayName(), snap.MethodsTitle)
	if snap.View != nil {
		fmt.Fprintf(h.out, "Showing %s (%s, theme %s, amount %d)\n", snap.View.Component, snap.View.Locale, snap.View.Theme, snap.View.Amount)
	}
	if snap.ErrorMessage != "" {
		fmt.Fprintf(h.out, "%s\n", snap.ErrorMessage)
	}
}

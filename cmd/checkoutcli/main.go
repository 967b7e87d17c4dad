// Command checkoutcli drives the checkout components from a terminal.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/yourorg/checkout-components/internal/config"
	"github.com/yourorg/checkout-components/internal/configurator"
	"github.com/yourorg/checkout-components/internal/logging"
	"github.com/yourorg/checkout-components/internal/orchestrator"
	"github.com/yourorg/checkout-components/internal/reporting"
	"github.com/yourorg/checkout-components/internal/sdk/fake"
	"github.com/yourorg/checkout-components/internal/session"
	"github.com/yourorg/checkout-components/internal/session/mock"
)

func main() {
	offline := flag.Bool("offline", false, "answer payments API calls in-process instead of calling the network")
	preset := flag.String("preset", "", "YAML or JSON settings preset (overrides CKO_PRESET)")
	verbose := flag.Bool("v", false, "log to stderr")
	flag.Parse()

	if err := run(*offline, *preset, *verbose); err != nil {
		if errors.Is(err, errAborted) {
			os.Exit(130)
		}
		fmt.Fprintf(os.Stderr, "checkoutcli: %v\n", err)
		os.Exit(1)
	}
}

func run(offline bool, preset string, verbose bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	var w io.Writer = io.Discard
	if verbose {
		w = os.Stderr
	}
	logger := logging.New(w, logging.ParseLevel(cfg.LogLevel))

	var network session.NetworkLayer = mock.NewNetwork()
	if !offline {
		network = cfg.Network()
	}

	journal := reporting.NewJournal(0)
	orc := orchestrator.NewOrchestrator(session.NewBootstrapper(network, logger), fake.New(), cfg.Profiles(), journal, logger)

	if preset == "" {
		preset = cfg.PresetPath
	}
	if preset != "" {
		settings, err := configurator.LoadSettings(preset)
		if err != nil {
			return err
		}
		if err := orc.ApplySettings(settings); err != nil {
			return err
		}
	}

	h := &host{orc: orc, p: surveyPrompter{}, out: os.Stdout}
	if err := h.run(); err != nil {
		return err
	}

	report, err := journal.Retrospective()
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "%d attempts, %d ready, %d payments succeeded, %d failed, %d tokenized\n",
		report.TotalAttempts, report.ReadyComponents, report.SuccessfulPayments, report.FailedPayments, report.Tokenizations)
	return nil
}

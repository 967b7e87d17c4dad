package main

import (
	"errors"
	"net/http"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/yourorg/checkout-components/internal/configurator"
	checkoutctx "github.com/yourorg/checkout-components/internal/context"
	"github.com/yourorg/checkout-components/internal/logging"
	"github.com/yourorg/checkout-components/internal/monitor"
	"github.com/yourorg/checkout-components/internal/orchestrator"
	"github.com/yourorg/checkout-components/internal/reporting"
	"github.com/yourorg/checkout-components/internal/sdk"
	"github.com/yourorg/checkout-components/internal/session"
)

// settingsSchema guards PUT /checkout/settings before the body is decoded.
const settingsSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "selection": {
      "type": "object",
      "properties": {
        "kind": {"enum": ["flow", "card", "applePay"]},
        "methods": {"type": "array", "items": {"enum": ["card", "applePay"]}, "uniqueItems": true}
      }
    },
    "options": {
      "type": "object",
      "properties": {
        "paymentButtonAction": {"enum": ["payment", "tokenization"]},
        "address": {"enum": ["default", "prefill", "prefillCustomized", "customizedFields"]},
        "customButton": {"enum": ["submitPayment", "tokenization"]},
        "applePayMerchantId": {"type": "string"},
        "handleSubmitManually": {"type": "boolean"}
      }
    },
    "appearance": {"enum": ["default", "dark"]},
    "locale": {"type": "string", "minLength": 1},
    "environment": {"enum": ["sandbox", "production"]},
    "translations": {"type": "object", "additionalProperties": {"type": "string"}}
  },
  "additionalProperties": false
}`

// app serializes every host request onto the single orchestrator.
type app struct {
	mu       sync.Mutex
	orc      *orchestrator.Orchestrator
	journal  *reporting.Journal
	settings *monitor.ContractMonitor
	logger   *logging.Logger
}

func newApp(orc *orchestrator.Orchestrator, journal *reporting.Journal, logger *logging.Logger) *app {
	if logger == nil {
		logger = logging.Nop()
	}
	return &app{
		orc:      orc,
		journal:  journal,
		settings: monitor.MustContractMonitor("settings", settingsSchema),
		logger:   logger,
	}
}

func (a *app) routes(r gin.IRouter) {
	g := r.Group("/checkout")
	g.GET("/state", a.getState)
	g.PUT("/settings", a.putSettings)
	g.POST("/component", a.makeComponent)
	g.POST("/submit", a.action(func(o *orchestrator.Orchestrator) error { return o.Submit() }))
	g.POST("/tokenize", a.action(func(o *orchestrator.Orchestrator) error { return o.Tokenize() }))
	g.POST("/custom-button", a.action(func(o *orchestrator.Orchestrator) error { return o.PressCustomButton() }))
	g.POST("/amount", a.updateAmount)
	g.POST("/reset", a.reset)
	g.GET("/outcome", a.takeOutcome)
	g.GET("/locales", a.locales)
	g.GET("/report", a.report)
}

func (a *app) getState(c *gin.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()
	c.JSON(http.StatusOK, a.orc.Snapshot())
}

func (a *app) putSettings(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	valid, violations, err := a.settings.Validate(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	if !valid {
		c.JSON(http.StatusBadRequest, gin.H{"error": monitor.FormatErrors(violations)})
		return
	}
	settings, err := configurator.ParseSettings(body, "request body")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.orc.ApplySettings(settings); err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, a.orc.Snapshot())
}

func (a *app) makeComponent(c *gin.Context) {
	traceCtx := checkoutctx.NewTraceContext(c.Request.Context())

	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.orc.MakeComponent(traceCtx); err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, a.orc.Snapshot())
}

func (a *app) action(run func(*orchestrator.Orchestrator) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		a.mu.Lock()
		defer a.mu.Unlock()
		if err := run(a.orc); err != nil {
			a.writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, a.orc.Snapshot())
	}
}

type amountRequest struct {
	Amount string `json:"amount" binding:"required"`
}

func (a *app) updateAmount(c *gin.Context) {
	var req amountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.orc.UpdateAmount(req.Amount); err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, a.orc.Snapshot())
}

func (a *app) reset(c *gin.Context) {
	defaults, _ := strconv.ParseBool(c.Query("defaults"))

	a.mu.Lock()
	defer a.mu.Unlock()
	if defaults {
		a.orc.ResetToDefaults()
	} else {
		a.orc.Reset()
	}
	c.JSON(http.StatusOK, a.orc.Snapshot())
}

func (a *app) takeOutcome(c *gin.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()
	c.JSON(http.StatusOK, a.orc.TakeOutcome())
}

func (a *app) locales(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"default": configurator.DefaultLocale,
		"locales": configurator.Locales(),
	})
}

func (a *app) report(c *gin.Context) {
	report, err := a.journal.Retrospective()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error generating report: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, report)
}

// writeError must be called with a.mu held.
func (a *app) writeError(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		a.logger.Error(c.Request.Context(), "Server: request failed", err, logging.Fields{"path": c.FullPath(), "status": status})
	}
	c.JSON(status, gin.H{"error": err.Error(), "state": a.orc.Snapshot()})
}

func statusFor(err error) int {
	switch {
	case orchestrator.IsDiagnostic(err):
		return http.StatusUnprocessableEntity
	case errors.Is(err, orchestrator.ErrResetRequired):
		return http.StatusConflict
	case errors.Is(err, configurator.ErrConfiguration), errors.Is(err, session.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrNetwork):
		return http.StatusBadGateway
	case errors.Is(err, orchestrator.ErrComponentCreation), errors.As(err, new(*sdk.Error)):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

package orchestrator_test

import (
	stdcontext "context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourorg/checkout-components/internal/configurator"
	checkoutctx "github.com/yourorg/checkout-components/internal/context"
	"github.com/yourorg/checkout-components/internal/orchestrator"
	"github.com/yourorg/checkout-components/internal/reporting"
	"github.com/yourorg/checkout-components/internal/sdk"
	"github.com/yourorg/checkout-components/internal/sdk/fake"
	"github.com/yourorg/checkout-components/internal/session"
	"github.com/yourorg/checkout-components/internal/session/mock"
)

func sandboxProfiles() *checkoutctx.InMemoryProfileRepository {
	repo := checkoutctx.NewInMemoryProfileRepository()
	repo.AddProfile(checkoutctx.MerchantProfile{
		Environment:         sdk.EnvironmentSandbox,
		PublicKey:           "pk_sbox_integration",
		SecretKey:           "sk_sbox_integration",
		ProcessingChannelID: "pc_integration",
		SuccessURL:          "https://example.com/success",
		FailureURL:          "https://example.com/failure",
	})
	return repo
}

// fakePaymentsAPI serves the two payment-session endpoints and records what it received.
type fakePaymentsAPI struct {
	mu          sync.Mutex
	created     []session.SessionRequest
	submissions []session.SubmitRequest
	auth        []string
}

func (f *fakePaymentsAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.auth = append(f.auth, r.Header.Get("Authorization"))
	w.Header().Set("Content-Type", "application/json")

	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/payment-sessions":
		var req session.SessionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.created = append(f.created, req)
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"id":                     "ps_integration",
			"payment_session_token":  "token_integration",
			"payment_session_secret": "secret_integration",
		})
	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/submit"):
		var req session.SubmitRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.submissions = append(f.submissions, req)
		_ = json.NewEncoder(w).Encode(session.SubmissionResult{ID: "pay_integration", Status: "Approved", Type: "card"})
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func TestIntegration_HTTPSessionToSubmittedPayment(t *testing.T) {
	api := &fakePaymentsAPI{}
	server := httptest.NewServer(api)
	defer server.Close()

	client := session.NewHTTPClient(server.URL, "sk_sbox_integration", server.Client())
	f := fake.New()
	journal := reporting.NewJournal(0)
	orc := orchestrator.NewOrchestrator(session.NewBootstrapper(client, nil), f, sandboxProfiles(), journal, nil)

	settings := orc.Settings()
	settings.Selection = configurator.Selection{Kind: configurator.KindFlow, Methods: configurator.Methods(configurator.MethodCard)}
	settings.Options.HandleSubmitManually = true
	require.NoError(t, orc.ApplySettings(settings))

	require.NoError(t, orc.MakeComponent(checkoutctx.NewTraceContext(stdcontext.Background())))
	snap := orc.Snapshot()
	require.Equal(t, orchestrator.StateReady, snap.State)
	assert.Equal(t, "ps_integration", snap.SessionID)

	require.NoError(t, orc.Submit())
	outcome := orc.TakeOutcome()
	assert.True(t, outcome.Succeeded)
	assert.Contains(t, outcome.ResultText, "pay_integration")

	api.mu.Lock()
	defer api.mu.Unlock()
	require.Len(t, api.created, 1)
	assert.Equal(t, int64(1), api.created[0].Amount)
	assert.Equal(t, "GBP", api.created[0].Currency)
	assert.Equal(t, "GB", api.created[0].Billing.Address.Country)
	assert.Equal(t, "pc_integration", api.created[0].ProcessingChannelID)
	assert.Equal(t, session.ThreeDS{Enabled: true, AttemptN3D: true}, api.created[0].ThreeDS)

	require.Len(t, api.submissions, 1)
	assert.Equal(t, int64(100), api.submissions[0].Amount)
	assert.Equal(t, session.ThreeDS{}, api.submissions[0].ThreeDS)
	assert.True(t, strings.HasPrefix(api.submissions[0].SessionData, "sd_"))
	for _, h := range api.auth {
		assert.Equal(t, "Bearer sk_sbox_integration", h)
	}

	report, err := journal.Retrospective()
	require.NoError(t, err)
	assert.Equal(t, 1, report.ReadyComponents)
	assert.Equal(t, 1, report.SuccessfulPayments)
	assert.Equal(t, int64(100), report.TotalAmountProcessed)
}

func TestIntegration_RejectedKeysSurfaceAsNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"request_id": "req_1",
			"error_type": "authentication_error",
		})
	}))
	defer server.Close()

	f := fake.New()
	orc := orchestrator.NewOrchestrator(
		session.NewBootstrapper(session.NewHTTPClient(server.URL, "sk_wrong", server.Client()), nil),
		f, sandboxProfiles(), nil, nil)

	err := orc.MakeComponent(checkoutctx.NewTraceContext(stdcontext.Background()))
	require.ErrorIs(t, err, session.ErrNetwork)

	snap := orc.Snapshot()
	assert.Equal(t, orchestrator.StateComponentError, snap.State)
	assert.True(t, strings.HasPrefix(snap.ErrorMessage, "Network error:"))
	assert.Contains(t, snap.ErrorMessage, "Check if your keys are correct.")
	assert.Empty(t, f.Configurations, "the SDK is never configured without a session")
}

func TestIntegration_SwitchingKindsRequiresReset(t *testing.T) {
	network := mock.NewNetwork()
	f := fake.New()
	orc := orchestrator.NewOrchestrator(session.NewBootstrapper(network, nil), f, sandboxProfiles(), nil, nil)
	trace := checkoutctx.NewTraceContext(stdcontext.Background())

	require.NoError(t, orc.MakeComponent(trace))
	first := orc.Snapshot()
	assert.Equal(t, "flow", first.Component)

	settings := orc.Settings()
	settings.Selection.Kind = configurator.KindCard
	require.NoError(t, orc.ApplySettings(settings))

	err := orc.MakeComponent(trace)
	require.ErrorIs(t, err, orchestrator.ErrResetRequired)
	held := orc.Snapshot()
	assert.Equal(t, orchestrator.StateReady, held.State)
	assert.Equal(t, first.AttemptID, held.AttemptID)
	assert.Equal(t, first.SessionID, held.SessionID)
	assert.Equal(t, "flow", held.Component)
	assert.Len(t, network.CreatedRequests(), 1)

	orc.Reset()
	require.NoError(t, orc.MakeComponent(trace))
	second := orc.Snapshot()
	assert.Equal(t, "card", second.Component)
	assert.Equal(t, "render|submit|tokenize", second.Capabilities)
	assert.NotEqual(t, first.SessionID, second.SessionID)
	assert.Len(t, network.CreatedRequests(), 2)
}

func TestIntegration_CustomisedLocaleReachesSDK(t *testing.T) {
	f := fake.New()
	orc := orchestrator.NewOrchestrator(session.NewBootstrapper(mock.NewNetwork(), nil), f, sandboxProfiles(), nil, nil)

	settings := orc.Settings()
	settings.Locale = configurator.CustomisedLocale
	settings.Appearance = configurator.AppearanceDark
	require.NoError(t, orc.ApplySettings(settings))
	require.NoError(t, orc.MakeComponent(checkoutctx.NewTraceContext(stdcontext.Background())))

	require.Len(t, f.Configurations, 1)
	cfg := f.Configurations[0]
	assert.Equal(t, configurator.CustomisedLocale, cfg.Locale)
	require.Contains(t, cfg.Translations, configurator.CustomisedLocale)
	assert.Len(t, cfg.Translations[configurator.CustomisedLocale], 3)
	require.NotNil(t, cfg.Appearance)
	assert.Equal(t, "dark", cfg.Appearance.Name)
	assert.Equal(t, "dark", orc.Snapshot().View.Theme)
}

func TestIntegration_AmountUpdateLeavesSessionAlone(t *testing.T) {
	network := mock.NewNetwork()
	f := fake.New()
	orc := orchestrator.NewOrchestrator(session.NewBootstrapper(network, nil), f, sandboxProfiles(), nil, nil)
	require.NoError(t, orc.MakeComponent(checkoutctx.NewTraceContext(stdcontext.Background())))

	require.NoError(t, orc.UpdateAmount(" 4200 "))
	assert.Equal(t, int64(4200), orc.Snapshot().View.Amount)
	assert.Len(t, network.CreatedRequests(), 1)
	assert.Empty(t, network.Submissions())

	require.NoError(t, orc.UpdateAmount("abc"))
	assert.Equal(t, int64(4200), orc.Snapshot().View.Amount)
}

package context

import (
	go_std_context "context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourorg/checkout-components/internal/sdk"
)

type ctxKey struct{}

func TestNewTraceContext(t *testing.T) {
	tc := NewTraceContext(go_std_context.Background())
	assert.NotEmpty(t, tc.TraceID, "TraceID should not be empty")
	assert.NotEmpty(t, tc.SpanID, "SpanID should not be empty")
	assert.NotNil(t, tc.Baggage, "Baggage should be initialized")
	assert.NotNil(t, tc.Context(), "stdCtx should be initialized")

	assert.NotNil(t, NewTraceContext(nil).Context())
	assert.NotNil(t, TraceContext{}.Context())
}

func TestTraceContext_NewSpan(t *testing.T) {
	tc := NewTraceContext(go_std_context.Background())
	initialSpanID := tc.SpanID
	newSpanID := tc.NewSpan()
	assert.NotEmpty(t, newSpanID)
	assert.NotEqual(t, initialSpanID, newSpanID)
	assert.Equal(t, newSpanID, tc.SpanID)
}

func TestTraceContext_WithContext(t *testing.T) {
	tc := NewTraceContext(go_std_context.Background())
	ctx := go_std_context.WithValue(go_std_context.Background(), ctxKey{}, "v")
	bound := tc.WithContext(ctx)
	assert.Equal(t, tc.TraceID, bound.TraceID)
	assert.Equal(t, "v", bound.Context().Value(ctxKey{}))
	assert.Nil(t, tc.Context().Value(ctxKey{}), "original must be unchanged")
}

func TestInMemoryProfileRepository(t *testing.T) {
	repo := NewInMemoryProfileRepository()
	sandbox := MerchantProfile{Environment: sdk.EnvironmentSandbox, PublicKey: "pk_sbox"}
	repo.AddProfile(sandbox)

	got, err := repo.Get(sdk.EnvironmentSandbox)
	require.NoError(t, err)
	assert.Equal(t, sandbox, got)

	_, err = repo.Get(sdk.EnvironmentProduction)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "merchant profile not found for environment: production")
}

func TestDeriveAttemptContext(t *testing.T) {
	tc := NewTraceContext(go_std_context.Background())
	profile := MerchantProfile{
		Environment: sdk.EnvironmentSandbox,
		PublicKey:   "pk_sbox",
		SecretKey:   "sk_sbox",
	}

	a := DeriveAttemptContext(tc, profile)
	b := DeriveAttemptContext(tc, profile)

	assert.Equal(t, tc.TraceID, a.TraceID)
	assert.NotEqual(t, tc.SpanID, a.SpanID, "attempt should get its own span")
	assert.NotEqual(t, a.AttemptID, b.AttemptID)
	assert.Equal(t, "pk_sbox", a.Credentials.PublicKey)
	assert.Equal(t, "sk_sbox", a.Credentials.SecretKey)
	assert.Equal(t, sdk.EnvironmentSandbox, a.Environment)
	assert.WithinDuration(t, time.Now(), a.StartTime, 100*time.Millisecond)
	assert.GreaterOrEqual(t, a.Elapsed(), time.Duration(0))
}

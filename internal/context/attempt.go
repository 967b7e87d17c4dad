package context

import (
	"time"

	"github.com/google/uuid"

	"github.com/yourorg/checkout-components/internal/sdk"
)

// Credentials are the keys used by one attempt.
type Credentials struct {
	PublicKey string
	SecretKey string
}

// AttemptContext is derived by the orchestrator for every component attempt.
type AttemptContext struct {
	TraceID     string
	SpanID      string
	AttemptID   string
	StartTime   time.Time
	Environment sdk.Environment
	Credentials Credentials
	Profile     MerchantProfile
}

// DeriveAttemptContext creates an AttemptContext for a new attempt in env.
func DeriveAttemptContext(tc TraceContext, profile MerchantProfile) AttemptContext {
	return AttemptContext{
		TraceID:     tc.TraceID,
		SpanID:      tc.NewSpan(),
		AttemptID:   uuid.NewString(),
		StartTime:   time.Now(),
		Environment: profile.Environment,
		Credentials: Credentials{
			PublicKey: profile.PublicKey,
			SecretKey: profile.SecretKey,
		},
		Profile: profile,
	}
}

// Elapsed returns the time spent since the attempt started.
func (a AttemptContext) Elapsed() time.Duration {
	return time.Since(a.StartTime)
}

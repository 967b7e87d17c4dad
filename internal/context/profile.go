// Package context holds the per-request contexts of the checkout orchestrator:
// trace identity, merchant profiles per environment and the per-attempt context.
package context

import (
	"fmt"

	"github.com/yourorg/checkout-components/internal/sdk"
)

// MerchantProfile holds the static credentials and callback targets of a merchant
// for one environment.
type MerchantProfile struct {
	Environment         sdk.Environment
	PublicKey           string
	SecretKey           string
	ProcessingChannelID string
	ApplePayMerchantID  string
	SuccessURL          string
	FailureURL          string
}

// ProfileRepository fetches the merchant profile for an environment.
type ProfileRepository interface {
	Get(env sdk.Environment) (MerchantProfile, error)
}

// InMemoryProfileRepository is a simple in-memory implementation.
type InMemoryProfileRepository struct {
	profiles map[sdk.Environment]MerchantProfile
}

// NewInMemoryProfileRepository creates a new in-memory repository.
func NewInMemoryProfileRepository() *InMemoryProfileRepository {
	return &InMemoryProfileRepository{
		profiles: make(map[sdk.Environment]MerchantProfile),
	}
}

// AddProfile stores a profile, replacing any profile for the same environment.
func (r *InMemoryProfileRepository) AddProfile(p MerchantProfile) {
	r.profiles[p.Environment] = p
}

// Get fetches the profile for env.
func (r *InMemoryProfileRepository) Get(env sdk.Environment) (MerchantProfile, error) {
	p, ok := r.profiles[env]
	if !ok {
		return MerchantProfile{}, fmt.Errorf("merchant profile not found for environment: %s", env)
	}
	return p, nil
}

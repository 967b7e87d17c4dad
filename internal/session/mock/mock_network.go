// Package mock provides an in-memory session.NetworkLayer for tests and the demo hosts.
package mock

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/yourorg/checkout-components/internal/session"
)

// Network is a mock implementation of session.NetworkLayer.
// Unset funcs fall back to deterministic successful responses.
type Network struct {
	CreateFunc func(ctx context.Context, req session.SessionRequest) (session.Session, error)
	SubmitFunc func(ctx context.Context, id string, req session.SubmitRequest) (session.SubmissionResult, error)

	mu          sync.Mutex
	created     []session.SessionRequest
	submissions []session.SubmitRequest
}

// NewNetwork creates a mock Network.
func NewNetwork() *Network {
	return &Network{}
}

// CreateSession implements session.NetworkLayer.
func (n *Network) CreateSession(ctx context.Context, req session.SessionRequest) (session.Session, error) {
	n.mu.Lock()
	n.created = append(n.created, req)
	n.mu.Unlock()

	if n.CreateFunc != nil {
		return n.CreateFunc(ctx, req)
	}
	id := "ps_" + uuid.NewString()
	return session.Session{
		ID:                   id,
		PaymentSessionToken:  "tok_" + id,
		PaymentSessionSecret: "pss_" + id,
	}, nil
}

// SubmitSession implements session.NetworkLayer.
func (n *Network) SubmitSession(ctx context.Context, id string, req session.SubmitRequest) (session.SubmissionResult, error) {
	n.mu.Lock()
	n.submissions = append(n.submissions, req)
	n.mu.Unlock()

	if n.SubmitFunc != nil {
		return n.SubmitFunc(ctx, id, req)
	}
	return session.SubmissionResult{ID: "pay_" + id, Status: "Approved", Type: "card"}, nil
}

// CreatedRequests returns the session requests seen so far.
func (n *Network) CreatedRequests() []session.SessionRequest {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]session.SessionRequest(nil), n.created...)
}

// Submissions returns the submit requests seen so far.
func (n *Network) Submissions() []session.SubmitRequest {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]session.SubmitRequest(nil), n.submissions...)
}

// Package reporting journals checkout attempts and summarizes them after the fact.
package reporting

import (
	"time"
)

// Status is the kind of event a journal entry records.
type Status string

const (
	// StatusReady marks a component attempt that reached a rendered component.
	StatusReady Status = "READY"
	// StatusFailure marks a component attempt that stopped at Stage.
	StatusFailure        Status = "FAILURE"
	StatusPaymentSuccess Status = "PAYMENT_SUCCESS"
	StatusPaymentFailure Status = "PAYMENT_FAILURE"
	StatusTokenized      Status = "TOKENIZED"
)

// Entry is a single event of the checkout process.
type Entry struct {
	Timestamp    time.Time `json:"timestamp"`
	AttemptID    string    `json:"attemptId"`
	TraceID      string    `json:"traceId,omitempty"`
	Kind         string    `json:"kind"`
	Environment  string    `json:"environment"`
	Status       Status    `json:"status"`
	Stage        string    `json:"stage,omitempty"`
	SessionID    string    `json:"sessionId,omitempty"`
	PaymentID    string    `json:"paymentId,omitempty"`
	Amount       int64     `json:"amount,omitempty"`
	Currency     string    `json:"currency,omitempty"`
	DurationMs   int64     `json:"durationMs,omitempty"`
	ErrorCode    string    `json:"errorCode,omitempty"`
	ErrorMessage string    `json:"errorMessage,omitempty"`
}

// RetrospectiveReport summarizes checkout activity over a set of entries.
type RetrospectiveReport struct {
	TotalAttempts        int              `json:"totalAttempts"`
	ReadyComponents      int              `json:"readyComponents"`
	FailedAttempts       int              `json:"failedAttempts"`
	SuccessfulPayments   int              `json:"successfulPayments"`
	FailedPayments       int              `json:"failedPayments"`
	Tokenizations        int              `json:"tokenizations"`
	TotalAmountProcessed int64            `json:"totalAmountProcessed"` // successful payments only
	AmountByCurrency     map[string]int64 `json:"amountByCurrency"`
	ErrorBreakdown       map[string]int   `json:"errorBreakdown"`
	FailuresByStage      map[string]int   `json:"failuresByStage"`
	KindUsage            map[string]int   `json:"kindUsage"` // component attempts per kind
	DateFrom             time.Time        `json:"dateFrom"`
	DateTo               time.Time        `json:"dateTo"`
	ProcessingDuration   time.Duration    `json:"processingDuration"`
}

// RetrospectiveReporter generates retrospective reports from journal entries.
type RetrospectiveReporter struct{}

// NewRetrospectiveReporter creates a new RetrospectiveReporter.
func NewRetrospectiveReporter() *RetrospectiveReporter {
	return &RetrospectiveReporter{}
}

// GenerateRetrospective analyzes entries and produces a RetrospectiveReport.
func (rr *RetrospectiveReporter) GenerateRetrospective(entries []Entry) (*RetrospectiveReport, error) {
	report := &RetrospectiveReport{
		AmountByCurrency: make(map[string]int64),
		ErrorBreakdown:   make(map[string]int),
		FailuresByStage:  make(map[string]int),
		KindUsage:        make(map[string]int),
	}
	if len(entries) == 0 {
		return report, nil
	}

	report.DateFrom = entries[0].Timestamp
	report.DateTo = entries[0].Timestamp
	for _, e := range entries {
		if e.Timestamp.Before(report.DateFrom) {
			report.DateFrom = e.Timestamp
		}
		if e.Timestamp.After(report.DateTo) {
			report.DateTo = e.Timestamp
		}

		switch e.Status {
		case StatusReady:
			report.TotalAttempts++
			report.ReadyComponents++
			report.KindUsage[e.Kind]++
		case StatusFailure:
			report.TotalAttempts++
			report.FailedAttempts++
			report.KindUsage[e.Kind]++
			if e.Stage != "" {
				report.FailuresByStage[e.Stage]++
			}
			if e.ErrorCode != "" {
				report.ErrorBreakdown[e.ErrorCode]++
			}
		case StatusPaymentSuccess:
			report.SuccessfulPayments++
			report.TotalAmountProcessed += e.Amount
			if e.Currency != "" {
				report.AmountByCurrency[e.Currency] += e.Amount
			}
		case StatusPaymentFailure:
			report.FailedPayments++
			if e.ErrorCode != "" {
				report.ErrorBreakdown[e.ErrorCode]++
			}
		case StatusTokenized:
			report.Tokenizations++
		}
	}
	report.ProcessingDuration = report.DateTo.Sub(report.DateFrom)

	return report, nil
}

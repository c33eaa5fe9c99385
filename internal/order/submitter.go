package order

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/maryaskin70/pharma-shop/internal/domain"
)

// SubmissionError is a structured failure returned by the order endpoint
// (validation error, payment failure, server-side stock conflict). It is
// surfaced verbatim; the submitter performs no retry.
type SubmissionError struct {
	Status  int
	Code    string
	Message string
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("order submission failed (%d %s): %s", e.Status, e.Code, e.Message)
}

// Submitter posts finalized orders to the external order endpoint behind a
// circuit breaker, so a dead endpoint fails fast instead of tying up
// request handlers.
type Submitter struct {
	endpoint string
	client   *http.Client
	breaker  *gobreaker.CircuitBreaker[*domain.OrderConfirmation]
}

func NewSubmitter(endpoint string, timeout time.Duration) *Submitter {
	settings := gobreaker.Settings{
		Name:        "order-submission",
		MaxRequests: 3,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	}
	return &Submitter{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
		breaker:  gobreaker.NewCircuitBreaker[*domain.OrderConfirmation](settings),
	}
}

func (s *Submitter) Submit(ctx context.Context, submission *domain.OrderSubmission) (*domain.OrderConfirmation, error) {
	return s.breaker.Execute(func() (*domain.OrderConfirmation, error) {
		return s.submit(ctx, submission)
	})
}

func (s *Submitter) submit(ctx context.Context, submission *domain.OrderSubmission) (*domain.OrderConfirmation, error) {
	body, err := json.Marshal(submission)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal order submission: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build order request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach order endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		var confirmation domain.OrderConfirmation
		if err := json.NewDecoder(resp.Body).Decode(&confirmation); err != nil {
			return nil, fmt.Errorf("failed to decode order confirmation: %w", err)
		}
		return &confirmation, nil
	}

	var apiErr struct {
		Error string `json:"error"`
		Code  string `json:"code"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiErr); err != nil {
		apiErr.Error = resp.Status
	}
	return nil, &SubmissionError{
		Status:  resp.StatusCode,
		Code:    apiErr.Code,
		Message: apiErr.Error,
	}
}

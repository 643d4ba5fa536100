package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/angelofallars/ticketprice/internal/duration"
	"github.com/angelofallars/ticketprice/internal/pricing"
	"github.com/angelofallars/ticketprice/pkg/tracker"
)

type fakeTracker struct {
	issues  map[string]*tracker.Issue
	updates map[string]map[string]any
	err     error
}

func newFakeTracker(issues map[string]string) *fakeTracker {
	ft := &fakeTracker{
		issues:  map[string]*tracker.Issue{},
		updates: map[string]map[string]any{},
	}
	for key, body := range issues {
		issue := &tracker.Issue{}
		if err := json.Unmarshal([]byte(body), issue); err != nil {
			panic(err)
		}
		ft.issues[key] = issue
	}
	return ft
}

func (f *fakeTracker) GetIssue(_ context.Context, key string) (*tracker.Issue, error) {
	issue, ok := f.issues[key]
	if !ok {
		return nil, tracker.ErrIssueNotFound
	}
	return issue, nil
}

func (f *fakeTracker) UpdateIssue(_ context.Context, key string, fields map[string]any) error {
	if f.err != nil {
		return f.err
	}
	f.updates[key] = fields
	return nil
}

var testFields = Fields{
	Spent:      "spent",
	HourlyRate: "hourlyRate",
	Price:      "issuePrice",
}

func newTestService(ft *fakeTracker) *pricingService {
	return NewPricing(ft, testFields, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestCalculate(t *testing.T) {
	svc := newTestService(newFakeTracker(nil))

	quote, err := svc.Calculate("PT1H30M", 60)
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}
	if quote.Minutes != 90 {
		t.Errorf("expected 90 minutes, got %d", quote.Minutes)
	}
	if quote.Price != 90 {
		t.Errorf("expected price 90, got %v", quote.Price)
	}
	if quote.Applied {
		t.Error("calculated quote should not be applied")
	}

	if _, err := svc.Calculate("garbage", 60); !errors.Is(err, duration.ErrInvalidFormat) {
		t.Errorf("expected ErrInvalidFormat, got %v", err)
	}
	if _, err := svc.Calculate("PT1H", 0); !errors.Is(err, pricing.ErrInvalidRate) {
		t.Errorf("expected ErrInvalidRate, got %v", err)
	}
}

func TestQuote(t *testing.T) {
	ft := newFakeTracker(map[string]string{
		"TEST-1": `{"key":"TEST-1","summary":"Fix login","spent":"P1DT2H","hourlyRate":"25"}`,
	})
	svc := newTestService(ft)

	quote, err := svc.Quote(context.Background(), "TEST-1")
	if err != nil {
		t.Fatalf("Quote failed: %v", err)
	}

	if quote.IssueKey != "TEST-1" || quote.Summary != "Fix login" {
		t.Errorf("unexpected issue details: %+v", quote)
	}
	if quote.Minutes != 1560 {
		t.Errorf("expected 1560 minutes, got %d", quote.Minutes)
	}
	if quote.Price != 650 {
		t.Errorf("expected price 650, got %v", quote.Price)
	}
	if len(ft.updates) != 0 {
		t.Errorf("Quote must not write back, got %v", ft.updates)
	}
}

func TestQuoteErrors(t *testing.T) {
	ft := newFakeTracker(map[string]string{
		"NO-SPENT":  `{"key":"NO-SPENT","hourlyRate":60}`,
		"BAD-SPENT": `{"key":"BAD-SPENT","spent":"1 hour","hourlyRate":60}`,
		"NO-RATE":   `{"key":"NO-RATE","spent":"PT1H"}`,
		"ZERO-RATE": `{"key":"ZERO-RATE","spent":"PT1H","hourlyRate":0}`,
	})
	svc := newTestService(ft)

	tests := []struct {
		key  string
		want error
	}{
		{"NO-SPENT", duration.ErrInvalidFormat},
		{"BAD-SPENT", duration.ErrInvalidFormat},
		{"NO-RATE", pricing.ErrInvalidRate},
		{"ZERO-RATE", pricing.ErrInvalidRate},
		{"MISSING", tracker.ErrIssueNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			_, err := svc.Quote(context.Background(), tt.key)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestApply(t *testing.T) {
	ft := newFakeTracker(map[string]string{
		"TEST-1": `{"key":"TEST-1","spent":"PT20M","hourlyRate":10}`,
	})
	svc := newTestService(ft)

	quote, err := svc.Apply(context.Background(), "TEST-1")
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if !quote.Applied {
		t.Error("expected quote to be applied")
	}

	update, ok := ft.updates["TEST-1"]
	if !ok {
		t.Fatal("expected an update for TEST-1")
	}
	if len(update) != 1 || update["issuePrice"] != 3.33 {
		t.Errorf("expected {issuePrice: 3.33}, got %v", update)
	}
}

func TestApplyWriteFailure(t *testing.T) {
	ft := newFakeTracker(map[string]string{
		"TEST-1": `{"key":"TEST-1","spent":"PT1H","hourlyRate":10}`,
	})
	ft.err = tracker.ErrForbidden
	svc := newTestService(ft)

	if _, err := svc.Apply(context.Background(), "TEST-1"); !errors.Is(err, tracker.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestApplySkipsWriteOnInvalidIssue(t *testing.T) {
	ft := newFakeTracker(map[string]string{
		"TEST-1": `{"key":"TEST-1","spent":"PT1H","hourlyRate":-3}`,
	})
	svc := newTestService(ft)

	if _, err := svc.Apply(context.Background(), "TEST-1"); !errors.Is(err, pricing.ErrInvalidRate) {
		t.Fatalf("expected ErrInvalidRate, got %v", err)
	}
	if len(ft.updates) != 0 {
		t.Errorf("expected no write back, got %v", ft.updates)
	}
}

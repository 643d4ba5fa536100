package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/angelofallars/ticketprice/internal/domain"
	"github.com/angelofallars/ticketprice/internal/duration"
	"github.com/angelofallars/ticketprice/internal/pricing"
	"github.com/angelofallars/ticketprice/pkg/tracker"
)

type Pricing interface {
	Quote(ctx context.Context, key string) (*domain.Quote, error)
	Apply(ctx context.Context, key string) (*domain.Quote, error)
	Calculate(spent string, hourlyRate float64) (*domain.Quote, error)
}

// Tracker is the subset of the tracker API the pricing service needs.
type Tracker interface {
	GetIssue(ctx context.Context, key string) (*tracker.Issue, error)
	UpdateIssue(ctx context.Context, key string, fields map[string]any) error
}

// Fields names the issue fields that hold the time spent, the hourly
// rate, and the computed price.
type Fields struct {
	Spent      string
	HourlyRate string
	Price      string
}

type pricingService struct {
	tracker Tracker
	fields  Fields
	slog    *slog.Logger
}

func NewPricing(tracker Tracker, fields Fields, slog *slog.Logger) *pricingService {
	return &pricingService{
		tracker: tracker,
		fields:  fields,
		slog:    slog,
	}
}

func (p *pricingService) Calculate(spent string, hourlyRate float64) (*domain.Quote, error) {
	return Calculate(spent, hourlyRate)
}

// Calculate prices spent at hourlyRate without touching the tracker.
func Calculate(spent string, hourlyRate float64) (*domain.Quote, error) {
	minutes, err := duration.Parse(spent)
	if err != nil {
		return nil, err
	}

	price, err := pricing.Price(hourlyRate, minutes)
	if err != nil {
		return nil, err
	}

	return domain.NewQuote(spent, minutes, hourlyRate, price), nil
}

func (p *pricingService) Quote(ctx context.Context, key string) (*domain.Quote, error) {
	issue, err := p.tracker.GetIssue(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("issue %s: %w", key, err)
	}

	rate, err := pricing.ParseRate(issue.Field(p.fields.HourlyRate))
	if err != nil {
		return nil, fmt.Errorf("issue %s: field %s: %w", key, p.fields.HourlyRate, err)
	}

	quote, err := p.Calculate(issue.Field(p.fields.Spent), rate)
	if err != nil {
		return nil, fmt.Errorf("issue %s: field %s: %w", key, p.fields.Spent, err)
	}
	quote.IssueKey = key
	quote.Summary = issue.Summary

	p.slog.Info("issue quoted",
		"quote_id", quote.ID,
		"issue", key,
		"minutes", quote.Minutes,
		"hourly_rate", quote.HourlyRate,
		"price", quote.Price,
	)

	return quote, nil
}

func (p *pricingService) Apply(ctx context.Context, key string) (*domain.Quote, error) {
	quote, err := p.Quote(ctx, key)
	if err != nil {
		return nil, err
	}

	err = p.tracker.UpdateIssue(ctx, key, map[string]any{
		p.fields.Price: quote.Price,
	})
	if err != nil {
		return nil, fmt.Errorf("issue %s: write %s: %w", key, p.fields.Price, err)
	}
	quote.Applied = true

	p.slog.Info("issue price updated",
		"quote_id", quote.ID,
		"issue", key,
		"field", p.fields.Price,
		"price", quote.Price,
	)

	return quote, nil
}

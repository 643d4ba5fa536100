package domain

import (
	"time"

	"github.com/google/uuid"
)

// Quote is the priced time of a single tracker issue.
type Quote struct {
	ID         uuid.UUID `json:"id"`
	IssueKey   string    `json:"issue_key,omitempty"`
	Summary    string    `json:"summary,omitempty"`
	Spent      string    `json:"spent"`
	Minutes    int       `json:"minutes"`
	HourlyRate float64   `json:"hourly_rate"`
	Price      float64   `json:"price"`
	Applied    bool      `json:"applied"`
	CreatedAt  time.Time `json:"created_at"`
}

func NewQuote(spent string, minutes int, hourlyRate, price float64) *Quote {
	return &Quote{
		ID:         uuid.New(),
		Spent:      spent,
		Minutes:    minutes,
		HourlyRate: hourlyRate,
		Price:      price,
		CreatedAt:  time.Now().UTC(),
	}
}

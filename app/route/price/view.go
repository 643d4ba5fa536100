package price

import (
	"fmt"
	"strconv"

	"github.com/angelofallars/ticketprice/app/header"
	"github.com/angelofallars/ticketprice/internal/domain"
	"github.com/angelofallars/ticketprice/internal/duration"
)

// tokenHeaders makes htmx send the typed API token with each form post.
func tokenHeaders() string {
	return `js:{"` + header.APIToken + `": document.getElementById("api-token").value}`
}

func spentText(q *domain.Quote) string {
	return fmt.Sprintf("%s (%d min)", duration.Format(q.Minutes), q.Minutes)
}

func rateText(q *domain.Quote) string {
	return strconv.FormatFloat(q.HourlyRate, 'f', -1, 64)
}

func priceText(q *domain.Quote) string {
	return strconv.FormatFloat(q.Price, 'f', 2, 64)
}

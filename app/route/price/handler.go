package price

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	"github.com/a-h/templ"
	"github.com/angelofallars/htmx-go"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/angelofallars/ticketprice/app/auth"
	"github.com/angelofallars/ticketprice/app/component"
	"github.com/angelofallars/ticketprice/app/event"
	"github.com/angelofallars/ticketprice/internal/duration"
	"github.com/angelofallars/ticketprice/internal/pricing"
	"github.com/angelofallars/ticketprice/internal/service"
	"github.com/angelofallars/ticketprice/pkg/tracker"
)

type HandlerGroup struct {
	svc      service.Pricing
	apiToken string
	slog     *slog.Logger
}

func NewHandlerGroup(svc service.Pricing, apiToken string, slog *slog.Logger) *HandlerGroup {
	return &HandlerGroup{
		svc:      svc,
		apiToken: apiToken,
		slog:     slog,
	}
}

func (hg *HandlerGroup) Mount(r chi.Router) {
	r.Handle("/", templ.Handler(component.FullPage("Ticket Price", page())))

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAPIToken(hg.apiToken))

		r.Post("/issues", hg.handleIssueForm)
		r.Get("/hook", hg.handleHook)
		r.Post("/hook", hg.handleHook)

		r.Route("/api", func(r chi.Router) {
			r.Get("/issues/{key}/price", hg.handleGetPrice)
			r.Post("/issues/{key}/price", hg.handleApplyPrice)
			r.Post("/quote", hg.handleQuote)
		})
	})
}

// Queue keys such as TEST-12, or 24 digit hex issue ids.
var issueKeyRe = regexp.MustCompile(`^(?:[A-Za-z][A-Za-z0-9_]*-[0-9]+|[0-9a-fA-F]{24})$`)

func validateKey(key string) error {
	if !issueKeyRe.MatchString(key) {
		return fmt.Errorf("Invalid issue key: %q", key)
	}
	return nil
}

func (hg *HandlerGroup) handleGetPrice(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if err := validateKey(key); err != nil {
		hg.renderError(w, r, http.StatusBadRequest, err)
		return
	}

	quote, err := hg.svc.Quote(r.Context(), key)
	if err != nil {
		hg.renderError(w, r, statusFor(err), err)
		return
	}

	render.JSON(w, r, quote)
}

func (hg *HandlerGroup) handleApplyPrice(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if err := validateKey(key); err != nil {
		hg.renderError(w, r, http.StatusBadRequest, err)
		return
	}

	quote, err := hg.svc.Apply(r.Context(), key)
	if err != nil {
		hg.renderError(w, r, statusFor(err), err)
		return
	}

	render.JSON(w, r, quote)
}

type QuoteRequest struct {
	Spent      string  `json:"spent" form:"spent"`
	HourlyRate float64 `json:"rate" form:"rate"`
}

// QuoteRequest satisfies [render.Binder]. Spent and rate are checked
// by the calculation, not here.
func (qr *QuoteRequest) Bind(r *http.Request) error {
	qr.Spent = strings.TrimSpace(qr.Spent)
	return nil
}

func (hg *HandlerGroup) handleQuote(w http.ResponseWriter, r *http.Request) {
	req := &QuoteRequest{}
	if err := render.Bind(r, req); err != nil {
		hg.renderError(w, r, http.StatusBadRequest, err)
		return
	}

	quote, err := hg.svc.Calculate(req.Spent, req.HourlyRate)
	if err != nil {
		hg.renderError(w, r, statusFor(err), err)
		return
	}

	render.JSON(w, r, quote)
}

// handleHook is the endpoint tracker triggers call, with the issue
// passed as ?key=.
func (hg *HandlerGroup) handleHook(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimSpace(r.URL.Query().Get("key"))
	if err := validateKey(key); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.PlainText(w, r, err.Error())
		return
	}

	quote, err := hg.svc.Apply(r.Context(), key)
	if err != nil {
		code := statusFor(err)
		hg.logError(r, code, err)
		render.Status(r, code)
		render.PlainText(w, r, err.Error())
		return
	}

	render.PlainText(w, r, fmt.Sprintf("%s: price %.2f written", quote.IssueKey, quote.Price))
}

func (hg *HandlerGroup) handleIssueForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		showError(w, http.StatusBadRequest, err)
		return
	}

	key := strings.TrimSpace(r.Form.Get("key"))
	if err := validateKey(key); err != nil {
		showError(w, http.StatusBadRequest, err)
		return
	}

	run := hg.svc.Apply
	if r.Form.Get("dry-run") != "" {
		run = hg.svc.Quote
	}

	quote, err := run(r.Context(), key)
	if err != nil {
		code := statusFor(err)
		hg.logError(r, code, err)
		showError(w, code, err)
		return
	}

	triggers := []htmx.EventTrigger{event.TriggerSetErrMessage("")}
	if quote.Applied {
		triggers = append(triggers, event.TriggerPriceApplied(quote.IssueKey))
	}

	_ = htmx.NewResponse().
		AddTrigger(triggers...).
		RenderTempl(r.Context(), w, quoteResult(quote))
}

// statusFor maps pricing and tracker failures to a response status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, duration.ErrInvalidFormat),
		errors.Is(err, pricing.ErrInvalidRate),
		errors.Is(err, pricing.ErrInvalidDuration):
		return http.StatusUnprocessableEntity
	case errors.Is(err, tracker.ErrIssueNotFound):
		return http.StatusNotFound
	case errors.Is(err, tracker.ErrUnauthorized),
		errors.Is(err, tracker.ErrForbidden):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

type errResponse struct {
	Error string `json:"error"`
}

func (hg *HandlerGroup) renderError(w http.ResponseWriter, r *http.Request, code int, err error) {
	hg.logError(r, code, err)
	render.Status(r, code)
	render.JSON(w, r, errResponse{Error: err.Error()})
}

func (hg *HandlerGroup) logError(r *http.Request, code int, err error) {
	if code < http.StatusInternalServerError {
		return
	}
	hg.slog.Error("pricing request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"status", code,
		"error", err,
	)
}

func showError(w http.ResponseWriter, code int, err error) {
	_ = htmx.NewResponse().
		StatusCode(code).
		Reswap(htmx.SwapNone).
		AddTrigger(event.TriggerSetErrMessage(err.Error())).
		Write(w)
}

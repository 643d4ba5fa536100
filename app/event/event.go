// Package event names the browser events the server raises through the
// HX-Trigger header and the page listens for with Alpine.js.
package event

import (
	"github.com/a-h/templ"
	"github.com/angelofallars/htmx-go"
)

// Event is a window-level DOM event name. Names are kebab-case so they
// survive Alpine's x-on attribute parsing.
type Event string

// Event satisfies [fmt.Stringer]
func (e Event) String() string { return string(e) }

// Listen returns the x-on attribute that runs jsCode when e reaches the
// window, for example x-on:price-applied.window="...".
func (e Event) Listen(jsCode string) templ.Attributes {
	return templ.Attributes{
		"x-on:" + string(e) + ".window": jsCode,
	}
}

// SetErrMessage replaces the page's error banner. An empty detail
// clears it.
const SetErrMessage Event = "set-err-message"

func TriggerSetErrMessage(message string) htmx.EventTrigger {
	return htmx.TriggerDetail(SetErrMessage.String(), message)
}

// OpenSettings moves focus to the API token input.
const OpenSettings Event = "open-settings"

var TriggerOpenSettings = htmx.Trigger(OpenSettings.String())

// PriceApplied reports the key of an issue whose price field was just
// written.
const PriceApplied Event = "price-applied"

func TriggerPriceApplied(issueKey string) htmx.EventTrigger {
	return htmx.TriggerDetail(PriceApplied.String(), issueKey)
}

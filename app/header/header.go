// Package header names the HTTP headers shared by the handlers and
// the browser client.
package header

const (
	APIToken      = "X-Api-Token"
	Authorization = "Authorization"
)

package httpx

import "net/http"

// Client is the minimal HTTP surface the moderation client needs. Satisfied
// by *http.Client; tests substitute their own implementation.
type Client interface {
	Do(req *http.Request) (*http.Response, error)
}

package api

import "time"

// DefaultBaseURL is where the local devserver listens unless configured otherwise.
const DefaultBaseURL = "http://localhost:8040"

// RequestsList is the logical name of the list holding requests.
const RequestsList = "Requests"

// NewDefaultClient builds a client pointed at the default service URL.
func NewDefaultClient(apiKey string, timeout ...time.Duration) *Client {
	return NewClient(DefaultBaseURL, apiKey, timeout...)
}

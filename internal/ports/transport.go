package ports

import "net/http"

// HTTPDoer is the transport a robot session submits requests through.
// *http.Client satisfies it.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

package gateway

import (
	"context"
	"encoding/json"
	"net/url"

	pkgerrors "github.com/bakeshop-mx/storefront-client/pkg/errors"
)

// Request describes one call against the backend API.
type Request struct {
	Method string
	// Path is relative to the API base, e.g. "cart/items".
	Path  string
	Body  any
	Query url.Values

	// GuestTolerant marks the request as one whose 401 means "never logged
	// in" rather than "session died". Only the profile fetch sets it.
	GuestTolerant bool
}

// Response carries the backend's status and raw JSON body.
type Response struct {
	Status int
	Body   []byte
}

// Decode unmarshals the response body into v.
func (r *Response) Decode(v any) error {
	if r == nil || len(r.Body) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeUnknown, err, "decoding response body")
	}
	return nil
}

// Gateway is the request/response contract the stores consume.
type Gateway interface {
	Do(ctx context.Context, req Request) (*Response, error)
}

// Authorizer supplies the bearer token and owns the reaction to
// authorization failures. The session service implements it.
type Authorizer interface {
	Token(ctx context.Context) string
	HandleResponseError(ctx context.Context, err error, guestTolerant bool) error
}

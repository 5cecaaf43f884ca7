// Package identity abstracts the external identity provider. The server only
// ever sees an Identity; who verified it is the provider's business.
package identity

import "context"

// Identity is the verified external principal returned by the provider.
type Identity struct {
	SlackID        string
	Name           string
	ProfilePicture string
}

// Provider drives the OAuth login round trip.
type Provider interface {
	// AuthURL returns the provider URL to redirect the browser to, carrying
	// the anti-forgery state value.
	AuthURL(state string) string
	// Exchange trades the callback code for a verified Identity.
	Exchange(ctx context.Context, code string) (*Identity, error)
}

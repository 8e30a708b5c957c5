package drive

// Mode identifies which credential path services a request. Determined
// per request and never persisted.
type Mode string

const (
	// ModeServiceAccount queries Drive with server-held service credentials.
	ModeServiceAccount Mode = "service_account"
	// ModeOAuth queries Drive with a caller-supplied delegated token.
	ModeOAuth Mode = "oauth"
	// ModeMock serves the local simulation store. Not a failure: it is the
	// designed default so the dashboard works without infrastructure setup.
	ModeMock Mode = "mock"
)

// ServiceCredentials holds the server-side service identity.
type ServiceCredentials struct {
	Email      string
	PrivateKey []byte
}

// Configured reports whether both halves of the identity are present.
func (c ServiceCredentials) Configured() bool {
	return c.Email != "" && len(c.PrivateKey) > 0
}

// DetectMode picks the backend mode for a request. A delegated bearer
// token overrides server configuration: it authorizes calls scoped to the
// end user's Drive access, not the service account's.
func DetectMode(creds ServiceCredentials, bearer string) Mode {
	if bearer != "" {
		return ModeOAuth
	}
	if creds.Configured() {
		return ModeServiceAccount
	}
	return ModeMock
}

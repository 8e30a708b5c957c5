package drive

import (
	"context"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	gdrive "google.golang.org/api/drive/v3"
)

// NewServiceAccountClient builds a Client authenticated as the configured
// service identity. The private key may arrive from the environment with
// literal "\n" sequences; those are normalized before signing.
func NewServiceAccountClient(ctx context.Context, creds ServiceCredentials) (*Client, error) {
	if !creds.Configured() {
		return nil, NewError(KindConfiguration, "service account email and private key are not configured")
	}

	conf := &jwt.Config{
		Email:      creds.Email,
		PrivateKey: []byte(strings.ReplaceAll(string(creds.PrivateKey), `\n`, "\n")),
		Scopes:     []string{gdrive.DriveReadonlyScope},
		TokenURL:   google.JWTTokenURL,
	}
	return NewClient(ctx, conf.TokenSource(ctx))
}

// NewBearerClient builds a Client from a caller-supplied delegated token.
func NewBearerClient(ctx context.Context, accessToken string) (*Client, error) {
	if accessToken == "" {
		return nil, NewError(KindAuth, "missing bearer token")
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})
	return NewClient(ctx, ts)
}

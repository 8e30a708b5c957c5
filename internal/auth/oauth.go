// Package auth implements the OAuth2 token lifecycle: code exchange and
// refresh against the authorization server. Tokens are returned to the
// caller and never stored server-side; storage and renewal scheduling are
// the caller's responsibility.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/miyata/campdash/backend/internal/model"
	"golang.org/x/oauth2"
	goauth2 "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

// ErrorKind classifies token-lifecycle failures.
type ErrorKind string

const (
	// KindConfiguration means server-level client credentials are absent.
	KindConfiguration ErrorKind = "configuration"
	// KindInvalidGrant means the authorization server rejected the grant.
	KindInvalidGrant ErrorKind = "invalid_grant"
	// KindUpstream covers every other non-2xx or network failure.
	KindUpstream ErrorKind = "upstream"
)

// Error carries the failure class alongside the underlying cause.
type Error struct {
	Kind    ErrorKind
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Service performs single, non-retried calls against the token endpoint.
type Service struct {
	conf *oauth2.Config

	// userinfoOpts lets tests point the profile fetch at a fake server.
	userinfoOpts []option.ClientOption
}

// NewService creates a Service. The oauth2.Config is constructed by the
// caller (from environment configuration), following the same split as the
// rest of the app wiring.
func NewService(conf *oauth2.Config, userinfoOpts ...option.ClientOption) *Service {
	return &Service{conf: conf, userinfoOpts: userinfoOpts}
}

// Configured reports whether client credentials are present.
func (s *Service) Configured() bool {
	return s.conf != nil && s.conf.ClientID != "" && s.conf.ClientSecret != ""
}

// ExchangeCode exchanges an authorization code for a token set and fetches
// the user's basic profile with the fresh token.
func (s *Service) ExchangeCode(ctx context.Context, code, redirectURI string) (*model.TokenSet, *model.Profile, error) {
	if !s.Configured() {
		return nil, nil, &Error{Kind: KindConfiguration, Message: "oauth client credentials are not configured"}
	}

	conf := *s.conf
	if redirectURI != "" {
		conf.RedirectURL = redirectURI
	}

	token, err := conf.Exchange(ctx, code)
	if err != nil {
		return nil, nil, classifyTokenError("code exchange rejected", err)
	}

	profile, err := s.fetchProfile(ctx, &conf, token)
	if err != nil {
		return nil, nil, &Error{Kind: KindUpstream, Message: "unable to fetch user profile", cause: err}
	}

	return toTokenSet(token, ""), profile, nil
}

// Refresh obtains a fresh access token. The returned set carries a refresh
// token only when the authorization server issued a replacement; otherwise
// the caller keeps using the one it sent.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*model.TokenSet, error) {
	if !s.Configured() {
		return nil, &Error{Kind: KindConfiguration, Message: "oauth client credentials are not configured"}
	}
	if refreshToken == "" {
		return nil, &Error{Kind: KindInvalidGrant, Message: "missing refresh token"}
	}

	ts := s.conf.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	token, err := ts.Token()
	if err != nil {
		return nil, classifyTokenError("token refresh rejected", err)
	}

	return toTokenSet(token, refreshToken), nil
}

func (s *Service) fetchProfile(ctx context.Context, conf *oauth2.Config, token *oauth2.Token) (*model.Profile, error) {
	opts := append([]option.ClientOption{option.WithTokenSource(conf.TokenSource(ctx, token))}, s.userinfoOpts...)
	svc, err := goauth2.NewService(ctx, opts...)
	if err != nil {
		return nil, err
	}
	userinfo, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	return &model.Profile{
		ID:      userinfo.Id,
		Email:   userinfo.Email,
		Name:    userinfo.Name,
		Picture: userinfo.Picture,
	}, nil
}

// toTokenSet maps an oauth2 token to the wire shape. previousRefreshToken
// suppresses the echo the oauth2 library adds when the server returned no
// replacement token.
func toTokenSet(token *oauth2.Token, previousRefreshToken string) *model.TokenSet {
	set := &model.TokenSet{
		AccessToken: token.AccessToken,
		TokenType:   token.TokenType,
	}
	if token.RefreshToken != "" && token.RefreshToken != previousRefreshToken {
		set.RefreshToken = token.RefreshToken
	}
	if !token.Expiry.IsZero() {
		set.ExpiresIn = int64(time.Until(token.Expiry).Round(time.Second).Seconds())
	}
	return set
}

func classifyTokenError(message string, err error) *Error {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		code := 0
		if retrieveErr.Response != nil {
			code = retrieveErr.Response.StatusCode
		}
		if retrieveErr.ErrorCode == "invalid_grant" || code == 400 || code == 401 {
			return &Error{Kind: KindInvalidGrant, Message: message, cause: err}
		}
		return &Error{Kind: KindUpstream, Message: message, cause: err}
	}
	return &Error{Kind: KindUpstream, Message: message, cause: err}
}

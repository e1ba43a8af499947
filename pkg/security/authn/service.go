package authn

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/oklog/ulid/v2"
	"golang.org/x/sync/errgroup"

	"github.com/pactum-io/pactum/pkg/security/authz"
	"github.com/pactum-io/pactum/pkg/utils/errors"
)

// Service issues and verifies session token pairs.
type Service struct {
	key        *KeyMaterial
	issuer     string
	audience   string
	accessTTL  time.Duration
	refreshTTL time.Duration

	// now is the clock source, overridable in tests.
	now func() time.Time
}

// Option is a functional option for the token service.
type Option func(*Service)

// WithIssuer sets the token issuer (iss claim).
func WithIssuer(issuer string) Option {
	return func(s *Service) {
		s.issuer = issuer
	}
}

// WithAudience sets the token audience (aud claim).
func WithAudience(audience string) Option {
	return func(s *Service) {
		s.audience = audience
	}
}

// WithAccessTTL sets the access token lifetime.
func WithAccessTTL(d time.Duration) Option {
	return func(s *Service) {
		s.accessTTL = d
	}
}

// WithRefreshTTL sets the refresh token lifetime.
func WithRefreshTTL(d time.Duration) Option {
	return func(s *Service) {
		s.refreshTTL = d
	}
}

// New creates a session token service bound to the given key material.
func New(key *KeyMaterial, opts ...Option) (*Service, error) {
	if key == nil {
		return nil, errors.ErrKeyMaterial.WithMessage("key material is required")
	}

	s := &Service{
		key:        key,
		issuer:     "pactum",
		audience:   "pactum-api",
		accessTTL:  15 * time.Minute,
		refreshTTL: 7 * 24 * time.Hour,
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.issuer == "" || s.audience == "" {
		return nil, fmt.Errorf("issuer and audience are required")
	}
	if s.accessTTL <= 0 || s.refreshTTL <= 0 {
		return nil, fmt.Errorf("token lifetimes must be positive")
	}
	if s.refreshTTL < s.accessTTL {
		return nil, fmt.Errorf("refresh lifetime (%v) must be >= access lifetime (%v)", s.refreshTTL, s.accessTTL)
	}

	return s, nil
}

// sessionClaims is the wire claim set of a session token.
type sessionClaims struct {
	jwt.RegisteredClaims
	Roles         []string `json:"roles,omitempty"`
	DepartmentIDs []string `json:"dids,omitempty"`
	TokenType     string   `json:"typ,omitempty"`
}

// IssueTokens creates an access/refresh token pair for the subject. The
// access token carries the subject's roles and department memberships;
// the refresh token carries only the subject identifier plus the
// refresh type marker. The two signatures are computed concurrently.
func (s *Service) IssueTokens(ctx context.Context, subject authz.Subject) (*TokenPair, error) {
	if subject.ID == "" {
		return nil, errors.ErrInvalidParam.WithMessage("subject id is required")
	}

	now := s.now()
	accessExpiry := now.Add(s.accessTTL)

	var accessToken, refreshToken string
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		accessToken, err = s.signAccess(subject, now, accessExpiry)
		return err
	})
	g.Go(func() error {
		var err error
		refreshToken, err = s.signRefresh(subject.ID, now)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresAt:    accessExpiry.Unix(),
		ExpiresIn:    int64(accessExpiry.Sub(now).Seconds()),
	}, nil
}

func (s *Service) signAccess(subject authz.Subject, now, expiresAt time.Time) (string, error) {
	roles := make([]string, len(subject.Roles))
	for i, r := range subject.Roles {
		roles[i] = string(r)
	}

	return s.sign(&sessionClaims{
		RegisteredClaims: s.registered(subject.ID, now, expiresAt),
		Roles:            roles,
		DepartmentIDs:    subject.DepartmentIDs,
	})
}

func (s *Service) signRefresh(subjectID string, now time.Time) (string, error) {
	return s.sign(&sessionClaims{
		RegisteredClaims: s.registered(subjectID, now, now.Add(s.refreshTTL)),
		TokenType:        TokenTypeRefresh,
	})
}

func (s *Service) registered(subjectID string, now, expiresAt time.Time) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		Subject:   subjectID,
		Issuer:    s.issuer,
		Audience:  jwt.ClaimStrings{s.audience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		NotBefore: jwt.NewNumericDate(now),
		ID:        ulid.Make().String(),
	}
}

func (s *Service) sign(claims *sessionClaims) (string, error) {
	token := jwt.NewWithClaims(s.key.method, claims)
	signed, err := token.SignedString(s.key.private)
	if err != nil {
		return "", errors.ErrInternal.WithCause(err).WithMessage("failed to sign token")
	}
	return signed, nil
}

// Verify checks the token's signature, lifetime, issuer and audience,
// and returns a typed introspection result. It never returns an error:
// every failure mode is reported through Introspection.Err.
func (s *Service) Verify(ctx context.Context, tokenString string) Introspection {
	if tokenString == "" {
		return failed(errors.ErrInvalidToken.WithMessage("token is empty"))
	}

	token, err := jwt.ParseWithClaims(tokenString, &sessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != s.key.method.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.key.Public(), nil
	})
	if err != nil {
		return failed(mapParseError(err))
	}
	if !token.Valid {
		return failed(errors.ErrInvalidToken)
	}

	claims, ok := token.Claims.(*sessionClaims)
	if !ok {
		return failed(errors.ErrInvalidToken.WithMessage("invalid claims type"))
	}

	// iss and aud are matched exactly, not by prefix or set overlap.
	if claims.Issuer != s.issuer {
		return failed(errors.ErrWrongIssuer.WithMessagef("token issued by %q", claims.Issuer))
	}
	if !claims.VerifyAudience(s.audience, true) {
		return failed(errors.ErrWrongIssuer.WithMessage("audience mismatch"))
	}

	audience := ""
	if len(claims.Audience) > 0 {
		audience = claims.Audience[0]
	}

	return Introspection{
		Valid: true,
		Claims: &Claims{
			Subject:       claims.Subject,
			Roles:         claims.Roles,
			DepartmentIDs: claims.DepartmentIDs,
			TokenType:     claims.TokenType,
			Issuer:        claims.Issuer,
			Audience:      audience,
			IssuedAt:      claims.IssuedAt.Unix(),
			ExpiresAt:     claims.ExpiresAt.Unix(),
			ID:            claims.ID,
		},
	}
}

// Refresh exchanges a valid refresh token for a fresh token pair. The
// caller supplies the subject's current roles and departments, looked up
// from the identity store, so a stale refresh token can never mint an
// access token with outdated privileges. The refresh token is rotated:
// the returned pair contains a new one with a new token ID.
func (s *Service) Refresh(ctx context.Context, refreshToken string, subject authz.Subject) (*TokenPair, error) {
	intro := s.Verify(ctx, refreshToken)
	if !intro.Valid {
		return nil, intro.Err
	}
	if !intro.Claims.IsRefresh() {
		return nil, errors.ErrNotRefreshToken
	}
	if intro.Claims.Subject != subject.ID {
		return nil, errors.ErrInvalidToken.WithMessage("refresh token subject mismatch")
	}

	return s.IssueTokens(ctx, subject)
}

func failed(err *errors.Errno) Introspection {
	return Introspection{Valid: false, Err: err}
}

// mapParseError maps jwt parse errors to pactum errors.
func mapParseError(err error) *errors.Errno {
	if err == nil {
		return nil
	}

	switch {
	case strings.Contains(err.Error(), "token is expired"):
		return errors.ErrTokenExpired
	case strings.Contains(err.Error(), "signature is invalid"):
		return errors.ErrInvalidToken.WithMessage("invalid signature")
	case strings.Contains(err.Error(), "token is malformed"):
		return errors.ErrInvalidToken.WithMessage("malformed token")
	case strings.Contains(err.Error(), "token is not valid yet"):
		return errors.ErrInvalidToken.WithMessage("token not valid yet")
	default:
		return errors.ErrInvalidToken.WithCause(err)
	}
}

package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ainarsv/trove/internal/cryptox"
	"github.com/ainarsv/trove/internal/logging"
	"github.com/ainarsv/trove/internal/models"
	"github.com/ainarsv/trove/internal/remote"
	"github.com/ainarsv/trove/internal/repositories/credentials"
)

// VerifyResult is the outcome of an offline credential check. Unknown
// identifier and wrong secret produce the identical zero value, so a caller
// cannot tell the two cases apart.
type VerifyResult struct {
	Valid       bool
	UserID      string
	DisplayName string
}

// Session describes an authenticated user, online or offline.
type Session struct {
	UserID      string
	DisplayName string
	AccessToken string
	Offline     bool
}

// AuthService performs online login against the remote identity service
// when reachable, and falls back to the device-global credential vault when
// it is not. Every successful online login refreshes the vault so the next
// offline login can succeed.
type AuthService struct {
	client remote.Client
	creds  credentials.Repository
	hasher cryptox.Hasher
	log    logging.Logger
	now    func() time.Time
}

func NewAuthService(client remote.Client, creds credentials.Repository, hasher cryptox.Hasher, log logging.Logger) *AuthService {
	return &AuthService{client: client, creds: creds, hasher: hasher, log: log, now: time.Now}
}

// NormalizeIdentifier case-folds a login identifier; the vault is keyed by
// this form only.
func NormalizeIdentifier(identifier string) string {
	return strings.ToLower(strings.TrimSpace(identifier))
}

// SaveCredentials hashes the secret and upserts the vault entry for the
// identifier, overwriting any prior hash.
func (a *AuthService) SaveCredentials(ctx context.Context, identifier string, secret []byte, userID, displayName string) error {
	hash, err := a.hasher.Hash(secret)
	if err != nil {
		return err
	}
	return a.creds.Save(ctx, models.StoredCredentials{
		Identifier:     NormalizeIdentifier(identifier),
		HashedPassword: hash,
		UserID:         userID,
		DisplayName:    displayName,
		LastLogin:      a.now(),
	})
}

// VerifyOffline checks a secret against the vault. The zero result covers
// both unknown identifiers and wrong secrets.
func (a *AuthService) VerifyOffline(ctx context.Context, identifier string, secret []byte) (VerifyResult, error) {
	c, err := a.creds.Get(ctx, NormalizeIdentifier(identifier))
	if err != nil {
		return VerifyResult{}, err
	}
	if c == nil || !a.hasher.Verify(c.HashedPassword, secret) {
		return VerifyResult{}, nil
	}
	if err := a.creds.Touch(ctx, c.Identifier, a.now()); err != nil {
		return VerifyResult{}, err
	}
	return VerifyResult{Valid: true, UserID: c.UserID, DisplayName: c.DisplayName}, nil
}

// Login tries the remote identity service first and seeds the vault on
// success. When the backend is unreachable it falls back to offline
// verification. Wrong credentials surface as remote.ErrUnauthorized in
// both modes.
func (a *AuthService) Login(ctx context.Context, identifier string, secret []byte) (*Session, error) {
	res, err := a.client.Login(ctx, identifier, secret)
	switch {
	case err == nil:
		if err := a.SaveCredentials(ctx, identifier, secret, res.UserID, res.DisplayName); err != nil {
			return nil, err
		}
		return &Session{UserID: res.UserID, DisplayName: res.DisplayName, AccessToken: res.AccessToken}, nil

	case errors.Is(err, remote.ErrUnavailable):
		a.log.Warn(ctx, "remote login unavailable, trying offline", "identifier", NormalizeIdentifier(identifier))
		v, verr := a.VerifyOffline(ctx, identifier, secret)
		if verr != nil {
			return nil, verr
		}
		if !v.Valid {
			return nil, remote.ErrUnauthorized
		}
		return &Session{UserID: v.UserID, DisplayName: v.DisplayName, Offline: true}, nil

	default:
		return nil, err
	}
}

// Register creates the account remotely and caches the credential locally
// so the user can log in offline right away.
func (a *AuthService) Register(ctx context.Context, identifier string, secret []byte, displayName string) error {
	if err := a.client.Register(ctx, identifier, secret, displayName); err != nil {
		return err
	}
	res, err := a.client.Login(ctx, identifier, secret)
	if err != nil {
		return err
	}
	return a.SaveCredentials(ctx, identifier, secret, res.UserID, res.DisplayName)
}

// Ping probes backend reachability.
func (a *AuthService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}

// ClearOfflineData wipes the credential vault.
func (a *AuthService) ClearOfflineData(ctx context.Context) error {
	return a.creds.Clear(ctx)
}

// TokenValid reports whether a cached access token is still inside its
// expiry window. Only the exp claim is inspected; signature verification is
// the server's job.
func (a *AuthService) TokenValid(token string) bool {
	if token == "" {
		return false
	}
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return false
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.After(a.now())
}

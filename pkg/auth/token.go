package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Goden-Gun/vis-server/pkg/codes"
	log "github.com/Goden-Gun/vis-server/pkg/logger"
	"github.com/Goden-Gun/vis-server/pkg/protocol"
)

// TokenKind distinguishes the two credentials an authorize request may
// carry: a token for the person and a token for the vehicle unit.
type TokenKind string

const (
	UserToken   TokenKind = "user"
	DeviceToken TokenKind = "device"
)

// Claims are the payload of both token kinds.
type Claims struct {
	TokenType string `json:"type"`
	Scope     string `json:"scope,omitempty"`
	jwt.RegisteredClaims
}

// AttemptStore counts failed authentication attempts per client within a
// rolling window.
type AttemptStore interface {
	Incr(ctx context.Context, clientID string) (int64, error)
}

// Grant is the authorization state attached to a session after a
// successful authorize action.
type Grant struct {
	Subject   string
	ExpiresAt time.Time
}

// TTLSeconds is the value reported back to the client.
func (g Grant) TTLSeconds() int64 {
	return int64(time.Until(g.ExpiresAt).Seconds())
}

// Valid reports whether the grant is still usable.
func (g Grant) Valid() bool {
	return g.Subject != "" && time.Now().Before(g.ExpiresAt)
}

// Authorizer verifies authorize-action tokens and maps every outcome onto
// a VIS error-table entry.
type Authorizer struct {
	cfg      Config
	attempts AttemptStore
}

// New builds an Authorizer. attempts may be nil, disabling the
// too_many_attempts limit.
func New(cfg Config, attempts AttemptStore) *Authorizer {
	cfg.Defaults()
	return &Authorizer{cfg: cfg, attempts: attempts}
}

// Authorize validates the tokens of one authorize request. clientID keys
// the failed-attempt counter (typically the remote address). On failure the
// returned error is a codes.ErrorCode catalog entry ready for the envelope;
// store failures surface as plain errors for the caller to downgrade.
func (a *Authorizer) Authorize(ctx context.Context, tokens protocol.Tokens, clientID string) (Grant, error) {
	var grant Grant

	userClaims, err := a.verify(UserToken, tokens.Authorization)
	if err != nil {
		return Grant{}, a.recordFailure(ctx, clientID, err)
	}
	if userClaims != nil {
		grant = grantFromClaims(userClaims, a.cfg.TTL)
	}

	deviceClaims, err := a.verify(DeviceToken, tokens.Device)
	if err != nil {
		return Grant{}, a.recordFailure(ctx, clientID, err)
	}
	if grant.Subject == "" && deviceClaims != nil {
		grant = grantFromClaims(deviceClaims, a.cfg.TTL)
	}

	if grant.Subject == "" {
		return Grant{}, a.recordFailure(ctx, clientID, codes.UnauthorizedUserTokenMissing)
	}
	return grant, nil
}

// verify checks a single token. An absent token of one kind is fine as long
// as the other kind is present; the caller enforces that.
func (a *Authorizer) verify(kind TokenKind, token string) (*Claims, error) {
	if token == "" {
		return nil, nil
	}
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(a.cfg.Secret), nil
	}, jwt.WithLeeway(a.cfg.ClockSkew))
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, expiredError(kind)
	case err != nil:
		return nil, invalidError(kind)
	case !parsed.Valid:
		return nil, invalidError(kind)
	}
	if claims.TokenType != string(kind) {
		return nil, invalidError(kind)
	}
	return claims, nil
}

// recordFailure bumps the attempt counter and upgrades the error to
// too_many_attempts once the client crosses the limit.
func (a *Authorizer) recordFailure(ctx context.Context, clientID string, cause error) error {
	if a.attempts == nil || clientID == "" {
		return cause
	}
	count, err := a.attempts.Incr(ctx, clientID)
	if err != nil {
		log.WithError(err).Warn("attempt counter unavailable")
		return cause
	}
	if count > int64(a.cfg.MaxAttempts) {
		return codes.UnauthorizedTooManyAttempts
	}
	return cause
}

func grantFromClaims(claims *Claims, fallbackTTL time.Duration) Grant {
	expires := time.Now().Add(fallbackTTL)
	if claims.ExpiresAt != nil && claims.ExpiresAt.Before(expires) {
		expires = claims.ExpiresAt.Time
	}
	return Grant{Subject: claims.Subject, ExpiresAt: expires}
}

func expiredError(kind TokenKind) codes.ErrorCode {
	if kind == DeviceToken {
		return codes.UnauthorizedDeviceTokenExpired
	}
	return codes.UnauthorizedUserTokenExpired
}

func invalidError(kind TokenKind) codes.ErrorCode {
	if kind == DeviceToken {
		return codes.UnauthorizedDeviceTokenInvalid
	}
	return codes.UnauthorizedUserTokenInvalid
}

// IssueToken signs a token of the given kind. The server itself never
// issues tokens in production; this exists for tooling and tests.
func IssueToken(kind TokenKind, subject string, ttl time.Duration, cfg Config) (string, error) {
	cfg.Defaults()
	if cfg.Secret == "" {
		return "", errors.New("jwt secret is empty")
	}
	now := time.Now()
	claims := Claims{
		TokenType: string(kind),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.Secret))
}

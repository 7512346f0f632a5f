package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/todokeeper/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// MinSecretLength is the shortest signing secret NewTokenCodec accepts.
const MinSecretLength = 32

// PurposeAuth tags tokens that authenticate API requests.
const PurposeAuth = "auth"

var ErrWeakSecret = fmt.Errorf("signing secret must be at least %d bytes", MinSecretLength)

// Claims is the signed payload of a session token.
type Claims struct {
	Purpose string `json:"access"`
	jwt.RegisteredClaims
}

// TokenClaims is what Verify recovers from a token.
type TokenClaims struct {
	SubjectID string
	Purpose   string
	TokenID   string
	IssuedAt  time.Time
}

// TokenCodec issues and verifies HS256-signed session tokens.
type TokenCodec struct {
	secret   []byte
	issuer   string
	validity time.Duration
	now      func() time.Time
}

// CodecOption configures a TokenCodec.
type CodecOption func(*TokenCodec)

// WithIssuer sets the iss claim and requires it on verification.
func WithIssuer(iss string) CodecOption {
	return func(c *TokenCodec) { c.issuer = iss }
}

// WithValidity adds an exp claim d after issuance. Zero disables expiry.
func WithValidity(d time.Duration) CodecOption {
	return func(c *TokenCodec) { c.validity = d }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) CodecOption {
	return func(c *TokenCodec) { c.now = now }
}

// NewTokenCodec returns a codec signing with secret, which must be at least
// MinSecretLength bytes long.
func NewTokenCodec(secret []byte, opts ...CodecOption) (*TokenCodec, error) {
	if len(secret) < MinSecretLength {
		return nil, ErrWeakSecret
	}
	c := &TokenCodec{
		secret: append([]byte(nil), secret...),
		now:    time.Now,
	}
	for _, o := range opts {
		o(c)
	}
	if c.validity < 0 {
		return nil, errors.New("token validity must not be negative")
	}
	return c, nil
}

// Issue signs a token for subjectID tagged with purpose. Each token gets a
// random jti, so repeated calls never return the same string.
func (c *TokenCodec) Issue(subjectID, purpose string) (string, error) {
	if subjectID == "" || purpose == "" {
		return "", errors.New("subject and purpose are required")
	}

	now := c.now()
	claims := Claims{
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:       uuid.NewString(),
			Subject:  subjectID,
			Issuer:   c.issuer,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if c.validity > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(c.validity))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", err
	}
	return signed, nil
}

// Verify checks signature, algorithm, issuer and expiry. Every failure is
// reported as common.ErrInvalidToken.
func (c *TokenCodec) Verify(tokenString string) (*TokenClaims, error) {
	if tokenString == "" {
		return nil, common.ErrInvalidToken
	}

	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.now),
		jwt.WithStrictDecoding(),
	}
	if c.issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(c.issuer))
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return c.secret, nil
	}, parserOpts...)
	if err != nil || !token.Valid {
		return nil, common.ErrInvalidToken
	}
	if claims.Subject == "" || claims.Purpose == "" {
		return nil, common.ErrInvalidToken
	}

	out := &TokenClaims{
		SubjectID: claims.Subject,
		Purpose:   claims.Purpose,
		TokenID:   claims.ID,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	return out, nil
}

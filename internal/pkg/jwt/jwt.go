package jwt

import (
	"errors"
	"fmt"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"

	appErr "github.com/xxxsen/cardkeep/internal/pkg/errors"
)

const DefaultIssuer = "cardkeep"

var supportedMethods = map[string]jwtlib.SigningMethod{
	jwtlib.SigningMethodHS256.Alg(): jwtlib.SigningMethodHS256,
	jwtlib.SigningMethodHS384.Alg(): jwtlib.SigningMethodHS384,
	jwtlib.SigningMethodHS512.Alg(): jwtlib.SigningMethodHS512,
}

// Signer issues and verifies HMAC-signed bearer tokens. It is read-only after
// construction and safe for concurrent use.
type Signer struct {
	method jwtlib.SigningMethod
	secret []byte
	issuer string
	now    func() time.Time
}

type Option func(*Signer)

func WithIssuer(issuer string) Option {
	return func(s *Signer) {
		s.issuer = issuer
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Signer) {
		if now != nil {
			s.now = now
		}
	}
}

func NewSigner(secret []byte, algorithm string, opts ...Option) (*Signer, error) {
	if len(secret) == 0 {
		return nil, errors.New("jwt secret is required")
	}
	method, ok := supportedMethods[algorithm]
	if !ok {
		return nil, fmt.Errorf("unsupported jwt algorithm: %q", algorithm)
	}
	s := &Signer{
		method: method,
		secret: append([]byte(nil), secret...),
		issuer: DefaultIssuer,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Signer) Algorithm() string {
	return s.method.Alg()
}

// Issue signs a token for subject. Claims carry whole seconds, so issuance is
// truncated to the second and the token expires exactly ttl after its iat.
func (s *Signer) Issue(subject string, ttl time.Duration) (string, error) {
	if subject == "" {
		return "", errors.New("jwt subject is required")
	}
	if ttl < time.Second {
		return "", errors.New("jwt ttl must be at least one second")
	}
	now := s.now().Truncate(time.Second)
	claims := jwtlib.RegisteredClaims{
		Subject:   subject,
		Issuer:    s.issuer,
		IssuedAt:  jwtlib.NewNumericDate(now),
		ExpiresAt: jwtlib.NewNumericDate(now.Add(ttl)),
	}
	token := jwtlib.NewWithClaims(s.method, claims)
	return token.SignedString(s.secret)
}

// Verify checks signature and expiry and returns the token subject. The
// error is ErrExpiredToken once now reaches the expiry, ErrInvalidToken for
// anything else.
func (s *Signer) Verify(tokenString string) (string, error) {
	opts := []jwtlib.ParserOption{
		jwtlib.WithValidMethods([]string{s.method.Alg()}),
		jwtlib.WithTimeFunc(s.now),
		jwtlib.WithExpirationRequired(),
		jwtlib.WithStrictDecoding(),
	}
	if s.issuer != "" {
		opts = append(opts, jwtlib.WithIssuer(s.issuer))
	}
	token, err := jwtlib.ParseWithClaims(tokenString, &jwtlib.RegisteredClaims{}, func(token *jwtlib.Token) (interface{}, error) {
		return s.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwtlib.ErrTokenExpired) {
			return "", appErr.ErrExpiredToken
		}
		return "", fmt.Errorf("%w: %v", appErr.ErrInvalidToken, err)
	}
	claims, ok := token.Claims.(*jwtlib.RegisteredClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return "", appErr.ErrInvalidToken
	}
	return claims.Subject, nil
}

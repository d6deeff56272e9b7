package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"hearthub/internal/common"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// JWTCustomClaims are the claims issued by the hosted auth provider.
type JWTCustomClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// AuthConfig selects how bearer tokens are verified. When JWKSURL is set the
// provider's published keys are used, otherwise Secret is an HS256 shared secret.
type AuthConfig struct {
	Secret   string
	JWKSURL  string
	Issuer   string
	Audience string
}

// Authenticator verifies bearer tokens and places the caller in the request context.
type Authenticator struct {
	keyFunc jwt.Keyfunc
	parser  *jwt.Parser
	jwks    *keyfunc.JWKS
	log     logrus.FieldLogger
}

func NewAuthenticator(cfg AuthConfig, log logrus.FieldLogger) (*Authenticator, error) {
	a := &Authenticator{log: log.WithField("component", "auth")}

	opts := []jwt.ParserOption{jwt.WithLeeway(30 * time.Second), jwt.WithExpirationRequired()}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	if cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(cfg.Audience))
	}

	switch {
	case cfg.JWKSURL != "":
		jwks, err := keyfunc.Get(cfg.JWKSURL, keyfunc.Options{
			RefreshInterval:   time.Hour,
			RefreshRateLimit:  5 * time.Minute,
			RefreshTimeout:    10 * time.Second,
			RefreshUnknownKID: true,
			RefreshErrorHandler: func(err error) {
				a.log.WithError(err).Warn("failed to refresh JWKS")
			},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to load JWKS from %s: %w", cfg.JWKSURL, err)
		}
		a.jwks = jwks
		a.keyFunc = jwks.Keyfunc
		opts = append(opts, jwt.WithValidMethods([]string{"RS256", "ES256"}))
	case cfg.Secret != "":
		secret := []byte(cfg.Secret)
		a.keyFunc = func(*jwt.Token) (interface{}, error) { return secret, nil }
		opts = append(opts, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	default:
		return nil, errors.New("either a JWT secret or a JWKS URL is required")
	}

	a.parser = jwt.NewParser(opts...)
	return a, nil
}

// Middleware returns the echo-jwt middleware backed by ParseToken.
func (a *Authenticator) Middleware() echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ParseTokenFunc: a.ParseToken,
		ErrorHandler: func(c echo.Context, err error) error {
			a.log.WithError(err).WithField("path", c.Path()).Debug("rejected token")
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or missing token")
		},
	})
}

// ParseToken validates raw and stores the subject and email on the request.
func (a *Authenticator) ParseToken(c echo.Context, raw string) (interface{}, error) {
	claims := new(JWTCustomClaims)
	token, err := a.parser.ParseWithClaims(raw, claims, a.keyFunc)
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("token not valid")
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("invalid subject %q: %w", claims.Subject, err)
	}

	ctx := common.WithUser(c.Request().Context(), userID, claims.Email)
	c.SetRequest(c.Request().WithContext(ctx))
	return token, nil
}

// Close stops the JWKS background refresh.
func (a *Authenticator) Close() {
	if a.jwks != nil {
		a.jwks.EndBackground()
	}
}

package echoapi

import (
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/trezcool/edumatch/core"
	"github.com/trezcool/edumatch/core/user"
)

const (
	contextTokenKey = "userToken"
	contextUserKey  = "user"
	tokenAudience   = "EduMatch"
)

// Claims represents the authorization claims transmitted via a JWT.
type Claims struct {
	jwt.StandardClaims
	OrigIssuedAt int64     `json:"oriat,omitempty"`
	Email        string    `json:"email,omitempty"`
	Name         string    `json:"name,omitempty"`
	Role         user.Role `json:"role,omitempty"`
}

// User rebuilds the identity carried by the claims. Users never change role or name once created.
func (c Claims) User() user.User {
	return user.User{ID: c.Subject, Email: c.Email, Name: c.Name, Role: c.Role}
}

type tokenIssuer struct {
	conf      *core.Config
	jwtConfig middleware.JWTConfig
}

func newTokenIssuer(conf *core.Config) *tokenIssuer {
	return &tokenIssuer{
		conf: conf,
		jwtConfig: middleware.JWTConfig{
			SigningKey:    []byte(conf.SecretKey),
			SigningMethod: middleware.AlgorithmHS256,
			ContextKey:    contextTokenKey,
			Claims:        new(Claims),
		},
	}
}

func (ti *tokenIssuer) middleware() echo.MiddlewareFunc {
	return middleware.JWTWithConfig(ti.jwtConfig)
}

func (ti *tokenIssuer) userClaims(usr user.User, origIat ...int64) *Claims {
	now := time.Now()
	nownix := now.Unix()

	oriat := nownix
	if len(origIat) > 0 {
		oriat = origIat[0]
	}

	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    ti.conf.AppName,
			Subject:   usr.ID,
			Audience:  tokenAudience,
			ExpiresAt: now.Add(ti.conf.Server.JWTExpirationDelta).Unix(),
			IssuedAt:  nownix,
		},
		OrigIssuedAt: oriat,
		Email:        usr.Email,
		Name:         usr.Name,
		Role:         usr.Role,
	}
}

// GenerateToken generates a signed JWT token string representing the user Claims.
func (ti *tokenIssuer) GenerateToken(claims *Claims) (string, error) {
	method := jwt.GetSigningMethod(ti.jwtConfig.SigningMethod)
	token := jwt.NewWithClaims(method, claims)

	ss, err := token.SignedString(ti.jwtConfig.SigningKey)
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

func (ti *tokenIssuer) tokenFor(usr user.User) (string, error) {
	return ti.GenerateToken(ti.userClaims(usr))
}

// parseRequestClaims reads the bearer token of a request that did not go through the JWT middleware.
func (ti *tokenIssuer) parseRequestClaims(ctx echo.Context) (Claims, bool) {
	auth := ctx.Request().Header.Get(echo.HeaderAuthorization)
	const prefix = "Bearer "
	if !strings.HasPrefix(auth, prefix) {
		return Claims{}, false
	}
	claims := new(Claims)
	token, err := jwt.ParseWithClaims(strings.TrimPrefix(auth, prefix), claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != ti.jwtConfig.SigningMethod {
			return nil, errors.Errorf("unexpected jwt signing method=%v", t.Header["alg"])
		}
		return ti.jwtConfig.SigningKey, nil
	})
	if err != nil || !token.Valid {
		return Claims{}, false
	}
	return *claims, true
}

// refresh issues a new token for the claims' user as long as the refresh window since login is open.
func (ti *tokenIssuer) refresh(claims Claims) (string, error) {
	expTime := time.Unix(claims.OrigIssuedAt, 0).Add(ti.conf.Server.JWTRefreshExpirationDelta)
	if time.Now().After(expTime) {
		return "", errRefreshExpired
	}
	token, err := ti.GenerateToken(ti.userClaims(claims.User(), claims.OrigIssuedAt))
	return token, errors.Wrap(err, "generating token")
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(contextTokenKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

func getContextUser(ctx echo.Context) (user.User, error) {
	if usr, ok := ctx.Get(contextUserKey).(user.User); ok {
		return usr, nil
	}
	claims, err := getContextClaims(ctx)
	if err != nil {
		return user.User{}, errors.Wrap(err, "getting context claims")
	}
	usr := claims.User()
	ctx.Set(contextUserKey, usr)
	return usr, nil
}

package auth

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/pot-code/go-storefront/internal/domain"
)

// ErrNoSession the request carries no session cookie
var ErrNoSession = errors.New("no session cookie")

// SessionClaims identity of the signed in user, mirrored from the profile
// at issue time
type SessionClaims struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
	Name  string `json:"name"`

	jwt.StandardClaims
}

// TimeRemaining zero once expired
func (sc *SessionClaims) TimeRemaining() time.Duration {
	left := time.Until(time.Unix(sc.ExpiresAt, 0))
	if left < 0 {
		return 0
	}
	return left
}

var signingMethods = map[string]jwt.SigningMethod{
	jwt.SigningMethodHS256.Alg(): jwt.SigningMethodHS256,
	jwt.SigningMethodHS384.Alg(): jwt.SigningMethodHS384,
	jwt.SigningMethodHS512.Alg(): jwt.SigningMethodHS512,
}

// JWTUtil session tokens carried in an http-only cookie
type JWTUtil struct {
	method jwt.SigningMethod
	secret []byte
	cookie string
	ttl    time.Duration
}

// NewJWTUtil unknown methods fall back to HS256. cookie names both the client
// cookie and the echo context key holding validated claims.
func NewJWTUtil(method, secret, cookie string, ttl time.Duration) *JWTUtil {
	m, ok := signingMethods[method]
	if !ok {
		m = jwt.SigningMethodHS256
	}
	return &JWTUtil{
		method: m,
		secret: []byte(secret),
		cookie: cookie,
		ttl:    ttl,
	}
}

// Sign encode claims as is
func (ju *JWTUtil) Sign(claims *SessionClaims) (string, error) {
	return jwt.NewWithClaims(ju.method, claims).SignedString(ju.secret)
}

// Validate decode tokenStr, rejecting foreign algorithms and expired tokens
func (ju *JWTUtil) Validate(tokenStr string) (*SessionClaims, error) {
	claims := new(SessionClaims)
	if _, err := jwt.ParseWithClaims(tokenStr, claims, ju.key); err != nil {
		return nil, err
	}
	return claims, nil
}

func (ju *JWTUtil) key(token *jwt.Token) (interface{}, error) {
	if alg := token.Method.Alg(); alg != ju.method.Alg() {
		return nil, fmt.Errorf("unexpected signing method: %s", alg)
	}
	return ju.secret, nil
}

// Issue start a session for user and send it to the client
func (ju *JWTUtil) Issue(c echo.Context, user *domain.UserModel) (*SessionClaims, error) {
	claims := &SessionClaims{
		UID:   user.ID,
		Email: user.Email,
		Name:  user.Name,
	}
	return claims, ju.Refresh(c, claims)
}

// Refresh push the expiry of claims one ttl from now and resend the cookie
func (ju *JWTUtil) Refresh(c echo.Context, claims *SessionClaims) error {
	claims.ExpiresAt = time.Now().Add(ju.ttl).Unix()
	tokenStr, err := ju.Sign(claims)
	if err != nil {
		return err
	}
	ju.writeCookie(c, tokenStr, int(ju.ttl/time.Second))
	return nil
}

// Authenticate read and validate the session cookie, ErrNoSession when absent
func (ju *JWTUtil) Authenticate(c echo.Context) (string, *SessionClaims, error) {
	cookie, err := c.Cookie(ju.cookie)
	if err != nil || cookie.Value == "" {
		return "", nil, ErrNoSession
	}
	claims, err := ju.Validate(cookie.Value)
	if err != nil {
		return "", nil, err
	}
	return cookie.Value, claims, nil
}

// Clear tell the client to drop the session cookie
func (ju *JWTUtil) Clear(c echo.Context) {
	ju.writeCookie(c, "", -1)
}

func (ju *JWTUtil) writeCookie(c echo.Context, value string, maxAge int) {
	c.SetCookie(&http.Cookie{
		Name:     ju.cookie,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// SetContextClaims store validated claims for the rest of the chain
func (ju *JWTUtil) SetContextClaims(c echo.Context, claims *SessionClaims) {
	c.Set(ju.cookie, claims)
}

// ContextClaims nil unless VerifyToken ran
func (ju *JWTUtil) ContextClaims(c echo.Context) *SessionClaims {
	claims, _ := c.Get(ju.cookie).(*SessionClaims)
	return claims
}

package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/appdistro/release-cms/pkg/release_cms/models"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/pkg/errors"
)

const (
	SessionCookie  = "release_cms_session"
	returnToCookie = "release_cms_return_to"
	LoginPath      = "/cms/login"
	DefaultLanding = "/cms"
	sessionTTL     = 14 * 24 * time.Hour
)

var ErrInvalidSession = errors.New("invalid session")

type UserLoader interface {
	FindUser(ctx context.Context, id string) (*models.User, error)
}

// SessionManager issues and verifies the signed CMS session cookie. The
// cookie only holds the user id.
type SessionManager struct {
	secret []byte
	secure bool
	now    func() time.Time
}

func NewSessionManager(secret string, secure bool) *SessionManager {
	return &SessionManager{secret: []byte(secret), secure: secure, now: time.Now}
}

func (m *SessionManager) Issue(c *gin.Context, userID string) error {
	now := m.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(sessionTTL)),
	})
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return errors.Wrap(err, "sign session")
	}
	m.setCookie(c, SessionCookie, signed, int(sessionTTL.Seconds()))
	return nil
}

func (m *SessionManager) Clear(c *gin.Context) {
	m.setCookie(c, SessionCookie, "", -1)
}

// UserID returns the user id of a valid session cookie.
func (m *SessionManager) UserID(c *gin.Context) (string, error) {
	raw, err := c.Cookie(SessionCookie)
	if err != nil || raw == "" {
		return "", ErrInvalidSession
	}
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSession
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid || claims.Subject == "" {
		return "", ErrInvalidSession
	}
	return claims.Subject, nil
}

// RequireLogin loads the session user or redirects to the login page,
// remembering where the visitor wanted to go.
func (m *SessionManager) RequireLogin(users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := m.UserID(c)
		if err == nil {
			u, lerr := users.FindUser(c.Request.Context(), id)
			if lerr != nil {
				_ = c.Error(lerr)
				c.Abort()
				return
			}
			if u != nil {
				FromContext(c).User = u
				c.Next()
				return
			}
		}

		m.Clear(c)
		if c.Request.Method == http.MethodGet {
			m.setCookie(c, returnToCookie, c.Request.URL.RequestURI(), 600)
		}
		c.Redirect(http.StatusFound, LoginPath)
		c.Abort()
	}
}

// TakeReturnTo returns the remembered destination and forgets it. Only
// local paths are honoured.
func (m *SessionManager) TakeReturnTo(c *gin.Context) string {
	target, err := c.Cookie(returnToCookie)
	if err != nil || target == "" {
		return DefaultLanding
	}
	m.setCookie(c, returnToCookie, "", -1)
	if !isLocalPath(target) {
		return DefaultLanding
	}
	return target
}

func isLocalPath(p string) bool {
	return strings.HasPrefix(p, "/") && !strings.HasPrefix(p, "//") && !strings.HasPrefix(p, `/\`)
}

func (m *SessionManager) setCookie(c *gin.Context, name, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, maxAge, "/", "", m.secure, true)
}

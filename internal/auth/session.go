// Package auth хранит учётные данные сессии и прикладывает их к каждому
// запросу к сервису сокращения ссылок.
package auth

import (
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"github.com/Popolzen/linkdash/internal/model"
	"github.com/golang-jwt/jwt/v5"
)

// Session токен сессии пользователя и cookie jar, в котором он живёт
type Session struct {
	token      string
	cookieName string
	jar        *cookiejar.Jar
	parser     *jwt.Parser
	now        func() time.Time
}

// NewSession кладёт токен в jar как cookie для адреса сервиса
func NewSession(backendURL, cookieName, token string) (*Session, error) {
	u, err := url.Parse(backendURL)
	if err != nil {
		return nil, fmt.Errorf("некорректный адрес сервиса: %w", err)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	if token != "" {
		jar.SetCookies(u, []*http.Cookie{{
			Name:     cookieName,
			Value:    token,
			Path:     "/",
			HttpOnly: true,
		}})
	}

	return &Session{
		token:      token,
		cookieName: cookieName,
		jar:        jar,
		parser:     jwt.NewParser(),
		now:        time.Now,
	}, nil
}

// Jar для http.Client: cookie уходят с каждым запросом, обновлённые сохраняются
func (s *Session) Jar() http.CookieJar {
	return s.jar
}

// Token сырой токен сессии
func (s *Session) Token() string {
	return s.token
}

// Authenticated есть ли действующая сессия
func (s *Session) Authenticated() bool {
	return s.Check() == nil
}

// Check возвращает model.ErrAuth, если токена нет или он просрочен.
// Токен, не являющийся JWT, считается действующим: решает сервис.
func (s *Session) Check() error {
	if s.token == "" {
		return fmt.Errorf("%w: токен сессии не задан", model.ErrAuth)
	}

	exp, ok := s.expiresAt()
	if ok && !s.now().Before(exp) {
		return fmt.Errorf("%w: сессия истекла %s", model.ErrAuth, exp.Format(time.RFC3339))
	}
	return nil
}

func (s *Session) expiresAt() (time.Time, bool) {
	token, _, err := s.parser.ParseUnverified(s.token, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, false
	}

	exp, err := token.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

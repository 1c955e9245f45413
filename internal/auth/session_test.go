package auth

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/Popolzen/linkdash/internal/model"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signed(t *testing.T, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-1",
		"exp": exp.Unix(),
	})
	s, err := token.SignedString([]byte("secret"))
	require.NoError(t, err)
	return s
}

func TestSession_Check(t *testing.T) {
	tests := []struct {
		name    string
		token   func(t *testing.T) string
		wantErr bool
	}{
		{
			name:    "Нет токена",
			token:   func(t *testing.T) string { return "" },
			wantErr: true,
		},
		{
			name:  "Непрозрачный токен",
			token: func(t *testing.T) string { return "opaque-session-id" },
		},
		{
			name:  "Действующий JWT",
			token: func(t *testing.T) string { return signed(t, time.Now().Add(time.Hour)) },
		},
		{
			name:    "Просроченный JWT",
			token:   func(t *testing.T) string { return signed(t, time.Now().Add(-time.Minute)) },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewSession("http://localhost:3000", "token", tt.token(t))
			require.NoError(t, err)

			err = s.Check()
			if tt.wantErr {
				assert.ErrorIs(t, err, model.ErrAuth)
				assert.False(t, s.Authenticated())
			} else {
				assert.NoError(t, err)
				assert.True(t, s.Authenticated())
			}
		})
	}
}

func TestSession_JarSendsCookie(t *testing.T) {
	var got string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie("token"); err == nil {
			got = c.Value
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	s, err := NewSession(server.URL, "token", "abc")
	require.NoError(t, err)

	client := &http.Client{Jar: s.Jar()}
	resp, err := client.Get(server.URL + "/url/my")
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "abc", got)
}

func TestSession_NoCookieWithoutToken(t *testing.T) {
	s, err := NewSession("http://localhost:3000", "token", "")
	require.NoError(t, err)

	u, _ := url.Parse("http://localhost:3000/url/my")
	assert.Empty(t, s.Jar().Cookies(u))
}

func TestNewSession_BadURL(t *testing.T) {
	_, err := NewSession("://bad", "token", "x")
	assert.Error(t, err)
}

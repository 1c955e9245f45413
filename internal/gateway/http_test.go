package gateway

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Popolzen/linkdash/internal/auth"
	"github.com/Popolzen/linkdash/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGateway(t *testing.T, h http.HandlerFunc) *HTTPGateway {
	t.Helper()
	server := httptest.NewServer(h)
	t.Cleanup(server.Close)

	session, err := auth.NewSession(server.URL, "token", "test-token")
	require.NoError(t, err)

	return NewHTTPGateway(server.URL, session, 2*time.Second)
}

func TestHTTPGateway_ListMine(t *testing.T) {
	var gotCookie string
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/url/my", r.URL.Path)
		if c, err := r.Cookie("token"); err == nil {
			gotCookie = c.Value
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"data":{"urls":[
			{"_id":"1","originalUrl":"https://one.com","shortenUrl":"http://s/1","createdAt":"2026-01-01T00:00:00Z"},
			{"_id":"2","originalUrl":"https://two.com","shortenUrl":"http://s/2","createdAt":"2026-01-02T00:00:00Z"}
		]}}`)
	})

	links, err := gw.ListMine(context.Background())

	require.NoError(t, err)
	require.Len(t, links, 2)
	// Порядок сервиса сохраняется
	assert.Equal(t, "1", links[0].ID)
	assert.Equal(t, "2", links[1].ID)
	assert.Equal(t, "test-token", gotCookie)
}

func TestHTTPGateway_ListMine_EmptyIsNotError(t *testing.T) {
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"data":{"urls":null}}`)
	})

	links, err := gw.ListMine(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, links)
	assert.Empty(t, links)
}

func TestHTTPGateway_Create(t *testing.T) {
	expires := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/url/short", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req model.ShortenRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "https://example.com", req.OriginalURL)
		if assert.NotNil(t, req.ExpiredIn) {
			assert.True(t, expires.Equal(*req.ExpiredIn))
		}

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(model.ShortenResponse{Data: model.Link{
			ID:           "new-id",
			OriginalURL:  req.OriginalURL,
			ShortenedURL: "http://s/new",
			ExpiredIn:    req.ExpiredIn,
		}})
	})

	link, err := gw.Create(context.Background(), "https://example.com", &expires)

	require.NoError(t, err)
	assert.Equal(t, "new-id", link.ID)
	assert.Equal(t, "http://s/new", link.ShortenedURL)
}

func TestHTTPGateway_Create_WithoutIDIsTransportError(t *testing.T) {
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"data":{}}`)
	})

	_, err := gw.Create(context.Background(), "https://example.com", nil)
	assert.ErrorIs(t, err, model.ErrTransport)
}

func TestHTTPGateway_CreateAfterEarlyRejection(t *testing.T) {
	var calls int
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			// Отвечаем, не читая тело запроса
			w.WriteHeader(http.StatusBadRequest)
			io.WriteString(w, `{"message":"Invalid URL"}`)
			return
		}

		var req model.ShortenRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "https://second.com", req.OriginalURL)
		json.NewEncoder(w).Encode(model.ShortenResponse{Data: model.Link{ID: "2", OriginalURL: req.OriginalURL}})
	})

	_, err := gw.Create(context.Background(), "https://first.com/"+strings.Repeat("x", 8<<10), nil)
	assert.ErrorIs(t, err, model.ErrValidation)

	link, err := gw.Create(context.Background(), "https://second.com", nil)
	require.NoError(t, err)
	assert.Equal(t, "2", link.ID)
}

func TestHTTPGateway_StatusMapping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
		wantMsg string
	}{
		{name: "400", status: http.StatusBadRequest, body: `{"message":"Invalid URL"}`, wantErr: model.ErrValidation, wantMsg: "Invalid URL"},
		{name: "422", status: http.StatusUnprocessableEntity, wantErr: model.ErrValidation},
		{name: "401", status: http.StatusUnauthorized, wantErr: model.ErrAuth},
		{name: "403", status: http.StatusForbidden, wantErr: model.ErrAuth},
		{name: "404", status: http.StatusNotFound, body: "no such link", wantErr: model.ErrNotFound, wantMsg: "no such link"},
		{name: "500", status: http.StatusInternalServerError, wantErr: model.ErrTransport},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			})

			err := gw.Delete(context.Background(), "abc")

			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestHTTPGateway_Delete(t *testing.T) {
	var path string
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		path = r.URL.EscapedPath()
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, gw.Delete(context.Background(), "a/b"))
	assert.Equal(t, "/url/remove/a%2Fb", path)
}

func TestHTTPGateway_RequestQRCode(t *testing.T) {
	png := []byte{0x89, 'P', 'N', 'G'}
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/url/qrcode/42", r.URL.Path)
		w.Header().Set("Content-Type", "image/png")
		w.Write(png)
	})

	img, err := gw.RequestQRCode(context.Background(), "42")

	require.NoError(t, err)
	assert.Equal(t, png, img)
}

func TestHTTPGateway_ConnectionError(t *testing.T) {
	session, err := auth.NewSession("http://127.0.0.1:1", "token", "x")
	require.NoError(t, err)
	gw := NewHTTPGateway("http://127.0.0.1:1", session, time.Second)

	_, err = gw.ListMine(context.Background())
	assert.ErrorIs(t, err, model.ErrTransport)
}

func TestHTTPGateway_NoSessionSkipsRequest(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	session, err := auth.NewSession(server.URL, "token", "")
	require.NoError(t, err)
	gw := NewHTTPGateway(server.URL, session, time.Second)

	_, err = gw.ListMine(context.Background())

	assert.ErrorIs(t, err, model.ErrAuth)
	assert.False(t, called)
}

func TestRemoteQR_UsesLinkID(t *testing.T) {
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/url/qrcode/xyz", r.URL.Path)
		w.Write([]byte("img"))
	})

	img, err := NewRemoteQR(gw).QRCode(context.Background(), model.Link{ID: "xyz"})

	require.NoError(t, err)
	assert.Equal(t, []byte("img"), img)
}

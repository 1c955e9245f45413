package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Popolzen/linkdash/internal/auth"
	"github.com/Popolzen/linkdash/internal/logger"
	"github.com/Popolzen/linkdash/internal/model"
	"github.com/Popolzen/linkdash/internal/pool"
)

const (
	pathListMine = "/url/my"
	pathShorten  = "/url/short"
	pathRemove   = "/url/remove/"
	pathQRCode   = "/url/qrcode/"

	maxErrorBody = 4 << 10
	maxImageBody = 1 << 20
)

// HTTPGateway реализация Gateway поверх HTTP API сервиса
type HTTPGateway struct {
	baseURL string
	client  *http.Client
	session *auth.Session
	buffers *pool.BufferPool
}

// NewHTTPGateway создаёт шлюз; все запросы уходят с cookie сессии
func NewHTTPGateway(baseURL string, session *auth.Session, timeout time.Duration) *HTTPGateway {
	return &HTTPGateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: timeout,
			Jar:     session.Jar(),
		},
		session: session,
		buffers: pool.NewBufferPool(),
	}
}

// ListMine GET /url/my
func (g *HTTPGateway) ListMine(ctx context.Context) ([]model.Link, error) {
	resp, err := g.do(ctx, http.MethodGet, pathListMine, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError("list", resp)
	}

	var body model.ListResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: ошибка десериализации списка: %v", model.ErrTransport, err)
	}

	if body.Data.URLs == nil {
		return []model.Link{}, nil
	}
	return body.Data.URLs, nil
}

// Create POST /url/short
func (g *HTTPGateway) Create(ctx context.Context, originalURL string, expiredIn *time.Time) (model.Link, error) {
	buf := g.buffers.Get()
	defer g.buffers.Put(buf)

	req := model.ShortenRequest{OriginalURL: originalURL, ExpiredIn: expiredIn}
	if err := json.NewEncoder(buf).Encode(req); err != nil {
		return model.Link{}, fmt.Errorf("ошибка сериализации запроса: %w", err)
	}

	// Transport может дочитывать тело уже после ответа, поэтому буфер пула наружу не отдаём
	resp, err := g.do(ctx, http.MethodPost, pathShorten, bytes.NewReader(bytes.Clone(buf.Bytes())))
	if err != nil {
		return model.Link{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return model.Link{}, statusError("create", resp)
	}

	var body model.ShortenResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return model.Link{}, fmt.Errorf("%w: ошибка десериализации ссылки: %v", model.ErrTransport, err)
	}
	if body.Data.ID == "" {
		return model.Link{}, fmt.Errorf("%w: сервис вернул ссылку без id", model.ErrTransport)
	}

	return body.Data, nil
}

// Delete DELETE /url/remove/{id}
func (g *HTTPGateway) Delete(ctx context.Context, linkID string) error {
	resp, err := g.do(ctx, http.MethodDelete, pathRemove+url.PathEscape(linkID), nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return statusError("delete", resp)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// RequestQRCode GET /url/qrcode/{id}
func (g *HTTPGateway) RequestQRCode(ctx context.Context, linkID string) ([]byte, error) {
	resp, err := g.do(ctx, http.MethodGet, pathQRCode+url.PathEscape(linkID), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError("qrcode", resp)
	}

	img, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBody))
	if err != nil {
		return nil, fmt.Errorf("%w: ошибка чтения изображения: %v", model.ErrTransport, err)
	}
	return img, nil
}

func (g *HTTPGateway) do(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	if err := g.session.Check(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания запроса: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := g.client.Do(req)
	if err != nil {
		logger.L().Warnw("запрос к сервису не выполнен", "method", method, "path", path, "error", err)
		return nil, fmt.Errorf("%w: %s %s: %v", model.ErrTransport, method, path, err)
	}

	logger.L().Debugw("запрос к сервису",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)
	return resp, nil
}

// statusError переводит HTTP статус в ошибку из model
func statusError(op string, resp *http.Response) error {
	msg := readMessage(resp.Body)

	var kind error
	switch resp.StatusCode {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		kind = model.ErrValidation
	case http.StatusUnauthorized, http.StatusForbidden:
		kind = model.ErrAuth
	case http.StatusNotFound:
		kind = model.ErrNotFound
	default:
		kind = model.ErrTransport
	}

	if msg == "" {
		return fmt.Errorf("%w: %s: статус %d", kind, op, resp.StatusCode)
	}
	return fmt.Errorf("%w: %s: статус %d: %s", kind, op, resp.StatusCode, msg)
}

func readMessage(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, maxErrorBody))
	if err != nil || len(data) == 0 {
		return ""
	}

	var body model.ErrorResponse
	if err := json.Unmarshal(data, &body); err != nil {
		// Не JSON: отдаём текст как есть
		return strings.TrimSpace(string(data))
	}
	return body.Message
}

package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/Popolzen/linkdash/internal/logger"
)

const (
	httpDeliveryTimeout = 5 * time.Second
	// headerAction действие события дублируется в заголовке
	headerAction = "X-Audit-Action"
)

// HTTPObserver доставляет каждое событие отдельным POST на адрес приёмника
type HTTPObserver struct {
	endpoint string
	client   *http.Client
}

func NewHTTPObserver(endpoint string) *HTTPObserver {
	return &HTTPObserver{
		endpoint: endpoint,
		client:   &http.Client{Timeout: httpDeliveryTimeout},
	}
}

// Notify не повторяет доставку: неудача попадает только в лог
func (h *HTTPObserver) Notify(event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		logger.L().Errorw("событие аудита не сериализуется", "action", event.Action, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), httpDeliveryTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.endpoint, bytes.NewReader(payload))
	if err != nil {
		logger.L().Errorw("некорректный адрес приёмника аудита", "endpoint", h.endpoint, "error", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(headerAction, string(event.Action))

	resp, err := h.client.Do(req)
	if err != nil {
		logger.L().Warnw("приёмник аудита недоступен", "endpoint", h.endpoint, "id", event.ID, "error", err)
		return
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= http.StatusBadRequest {
		logger.L().Warnw("приёмник аудита отклонил событие",
			"endpoint", h.endpoint,
			"id", event.ID,
			"status", resp.StatusCode,
		)
	}
}

func (h *HTTPObserver) Close() error {
	return nil
}

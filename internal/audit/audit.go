package audit

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Action тип действия над коллекцией ссылок
type Action string

const (
	ActionRefresh Action = "refresh"
	ActionCreate  Action = "create"
	ActionDelete  Action = "delete"
	ActionQRCode  Action = "qrcode"
)

// Outcome результат операции
type Outcome string

const (
	OutcomeOK    Outcome = "ok"
	OutcomeError Outcome = "error"
)

// Event структура события аудита
type Event struct {
	ID        string  `json:"id"`
	Timestamp int64   `json:"ts"`
	Action    Action  `json:"action"`
	LinkID    string  `json:"link_id,omitempty"`
	URL       string  `json:"url,omitempty"`
	Outcome   Outcome `json:"outcome"`
	Error     string  `json:"error,omitempty"`
}

// NewEvent создаёт событие; err == nil означает успех
func NewEvent(action Action, linkID, url string, err error) Event {
	e := Event{
		ID:        uuid.NewString(),
		Timestamp: time.Now().Unix(),
		Action:    action,
		LinkID:    linkID,
		URL:       url,
		Outcome:   OutcomeOK,
	}
	if err != nil {
		e.Outcome = OutcomeError
		e.Error = err.Error()
	}
	return e
}

type Observer interface {
	Notify(event Event)
	Close() error
}

// Publisher рассылает события всем подписчикам. Нулевой *Publisher ничего не делает.
type Publisher struct {
	mu          sync.Mutex
	subscribers []Observer
}

func NewPublisher() *Publisher {
	return &Publisher{}
}

func (p *Publisher) Subscribe(o Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.subscribers = append(p.subscribers, o)
}

func (p *Publisher) Publish(event Event) {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, s := range p.subscribers {
		s.Notify(event)
	}
}

// Len количество подписчиков
func (p *Publisher) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.subscribers)
}

// Close закрывает всех наблюдателей, возвращает первую ошибку
func (p *Publisher) Close() error {
	if p == nil {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	var first error
	for _, obs := range p.subscribers {
		if err := obs.Close(); err != nil && first == nil {
			first = err
		}
	}
	p.subscribers = nil
	return first
}

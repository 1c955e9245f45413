package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/Popolzen/linkdash/internal/logger"
)

// FileObserver журнал событий в формате JSON Lines
type FileObserver struct {
	path string

	mu  sync.Mutex
	out *os.File
	enc *json.Encoder
}

// NewFileObserver журнал дописывается, существующие записи не трогаются
func NewFileObserver(path string) (*FileObserver, error) {
	out, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("журнал аудита %s: %w", path, err)
	}
	return &FileObserver{path: path, out: out, enc: json.NewEncoder(out)}, nil
}

// Notify после Close события молча отбрасываются
func (f *FileObserver) Notify(event Event) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.out == nil {
		return
	}
	if err := f.enc.Encode(event); err != nil {
		logger.L().Errorw("запись в журнал аудита", "path", f.path, "action", event.Action, "error", err)
	}
}

func (f *FileObserver) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.out == nil {
		return nil
	}
	err := f.out.Close()
	f.out, f.enc = nil, nil
	return err
}

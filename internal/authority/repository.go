package authority

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"
	"sync"

	"github.com/Popolzen/linkdash/internal/model"
)

const (
	codeLength  = 6
	maxAttempts = 1000
)

// Repository ссылки в памяти, сгруппированные по владельцу
type Repository struct {
	mu     sync.RWMutex
	owners map[string][]model.Link
	// codes короткий код → ссылка, для редиректа
	codes map[string]model.Link
}

func NewRepository() *Repository {
	return &Repository{
		owners: map[string][]model.Link{},
		codes:  map[string]model.Link{},
	}
}

// List ссылки владельца в порядке создания
func (r *Repository) List(owner string) []model.Link {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Clone(r.owners[owner])
}

// Store сохраняет ссылку, подбирая свободный короткий код
func (r *Repository) Store(owner string, link model.Link, shortBase string) (model.Link, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for range maxAttempts {
		code := shortCode(codeLength)
		if _, taken := r.codes[code]; taken {
			continue
		}

		link.ShortenedURL = strings.TrimRight(shortBase, "/") + "/" + code
		r.codes[code] = link
		r.owners[owner] = append(r.owners[owner], link)
		return link, nil
	}

	return model.Link{}, fmt.Errorf("не удалось создать уникальную ссылку за %d попыток", maxAttempts)
}

// Get ссылка владельца по id
func (r *Repository) Get(owner, id string) (model.Link, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := slices.IndexFunc(r.owners[owner], func(l model.Link) bool { return l.ID == id })
	if i < 0 {
		return model.Link{}, false
	}
	return r.owners[owner][i], true
}

// Delete удаляет ссылку владельца; false, если её нет
func (r *Repository) Delete(owner, id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	links := r.owners[owner]
	i := slices.IndexFunc(links, func(l model.Link) bool { return l.ID == id })
	if i < 0 {
		return false
	}

	code := links[i].ShortenedURL[strings.LastIndex(links[i].ShortenedURL, "/")+1:]
	delete(r.codes, code)
	r.owners[owner] = slices.Delete(links, i, i+1)
	return true
}

// Resolve ссылка по короткому коду
func (r *Repository) Resolve(code string) (model.Link, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	link, ok := r.codes[code]
	return link, ok
}

// shortCode создает случайный короткий код
func shortCode(length int) string {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	var result strings.Builder
	l := len(charset)

	for range length {
		result.WriteByte(charset[rand.IntN(l)])
	}

	return result.String()
}

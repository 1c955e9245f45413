package pool

import (
	"bytes"
	"sync"
)

// Resettable тип, который умеет очищать себя перед повторным использованием
type Resettable interface {
	Reset()
}

// Pool типизированная обёртка над sync.Pool, вызывающая Reset при возврате
type Pool[T Resettable] struct {
	pool sync.Pool
}

// New создает Pool, fn вызывается, когда свободных объектов нет
func New[T Resettable](fn func() T) *Pool[T] {
	return &Pool[T]{
		pool: sync.Pool{
			New: func() any {
				return fn()
			},
		},
	}
}

// Get берёт объект из пула
func (p *Pool[T]) Get() T {
	return p.pool.Get().(T)
}

// Put очищает объект и возвращает его в пул
func (p *Pool[T]) Put(x T) {
	x.Reset()
	p.pool.Put(x)
}

// maxPooledBuffer буферы больше этого размера в пул не возвращаются
const maxPooledBuffer = 64 << 10

// BufferPool пул буферов для тел запросов
type BufferPool struct {
	p *Pool[*bytes.Buffer]
}

// NewBufferPool создаёт пул буферов
func NewBufferPool() *BufferPool {
	return &BufferPool{p: New(func() *bytes.Buffer { return new(bytes.Buffer) })}
}

func (b *BufferPool) Get() *bytes.Buffer {
	return b.p.Get()
}

// Put большие буферы отдаём сборщику мусора
func (b *BufferPool) Put(buf *bytes.Buffer) {
	if buf.Cap() > maxPooledBuffer {
		return
	}
	b.p.Put(buf)
}

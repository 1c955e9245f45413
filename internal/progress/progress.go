// Package progress общий для процесса счётчик активности, по которому
// рисуется индикатор загрузки.
//
// Счётчик только растёт: Start прибавляет StartStep при запуске операции,
// Done прибавляет DoneStep при её завершении, успешном или нет. Значение
// счётчика ничего не говорит о завершении конкретной операции.
package progress

import "sync/atomic"

const (
	StartStep int64 = 30
	DoneStep  int64 = 70
)

// Tracker счётчик активности. Нулевое значение готово к работе.
type Tracker struct {
	value    atomic.Int64
	inFlight atomic.Int64
}

var global atomic.Pointer[Tracker]

func init() {
	global.Store(&Tracker{})
}

// Global возвращает счётчик процесса
func Global() *Tracker {
	return global.Load()
}

// Init заводит новый счётчик процесса на границе сессии
func Init() *Tracker {
	t := &Tracker{}
	global.Store(t)
	return t
}

// Start отмечает начало отслеживаемой операции
func (t *Tracker) Start() {
	t.inFlight.Add(1)
	t.value.Add(StartStep)
}

// Done отмечает завершение операции
func (t *Tracker) Done() {
	t.inFlight.Add(-1)
	t.value.Add(DoneStep)
}

// Track оборачивает fn в Start/Done и возвращает её ошибку
func (t *Tracker) Track(fn func() error) error {
	t.Start()
	defer t.Done()
	return fn()
}

// Value текущее значение счётчика
func (t *Tracker) Value() int64 {
	return t.value.Load()
}

// Percent значение, обрезанное до [0,100] для отображения
func (t *Tracker) Percent() int {
	v := t.value.Load()
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	}
	return int(v)
}

// Busy есть ли незавершённые операции
func (t *Tracker) Busy() bool {
	return t.inFlight.Load() > 0
}

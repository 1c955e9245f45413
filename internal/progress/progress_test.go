package progress

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTracker_StartDone(t *testing.T) {
	var tr Tracker

	tr.Start()
	assert.Equal(t, StartStep, tr.Value())
	assert.True(t, tr.Busy())

	tr.Done()
	assert.Equal(t, StartStep+DoneStep, tr.Value())
	assert.False(t, tr.Busy())
}

func TestTracker_TrackAdvancesOnFailure(t *testing.T) {
	var tr Tracker
	boom := errors.New("boom")

	err := tr.Track(func() error { return boom })

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, StartStep+DoneStep, tr.Value())
	assert.False(t, tr.Busy())
}

func TestTracker_Percent(t *testing.T) {
	var tr Tracker
	assert.Equal(t, 0, tr.Percent())

	tr.Start()
	assert.Equal(t, int(StartStep), tr.Percent())

	tr.Done()
	tr.Start()
	tr.Done()
	// Счётчик растёт дальше, а для отображения обрезается
	assert.Equal(t, 100, tr.Percent())
	assert.Greater(t, tr.Value(), int64(100))
}

func TestTracker_Concurrent(t *testing.T) {
	var tr Tracker
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = tr.Track(func() error { return nil })
		}()
	}
	wg.Wait()

	assert.Equal(t, 50*(StartStep+DoneStep), tr.Value())
	assert.False(t, tr.Busy())
}

func TestInit_ReplacesGlobal(t *testing.T) {
	old := Global()
	old.Start()

	fresh := Init()

	assert.NotSame(t, old, fresh)
	assert.Same(t, fresh, Global())
	assert.Equal(t, int64(0), fresh.Value())
}

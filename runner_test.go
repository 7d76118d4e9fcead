package docfill

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLimitedRunner_BoundsConcurrency(t *testing.T) {
	r := NewLimitedRunner(context.Background(), 2)

	var active, peak int32
	var mu sync.Mutex

	for i := 0; i < 10; i++ {
		r.Go(func() error {
			n := atomic.AddInt32(&active, 1)
			mu.Lock()
			if n > peak {
				peak = n
			}
			mu.Unlock()
			time.Sleep(5 * time.Millisecond)
			atomic.AddInt32(&active, -1)
			return nil
		})
	}

	assert.NoError(t, r.Wait())
	assert.LessOrEqual(t, peak, int32(2))
}

func TestRunner_PropagatesFirstError(t *testing.T) {
	r := DefaultRunner(context.Background())
	boom := errors.New("task failed")

	r.Go(func() error { return nil })
	r.Go(func() error { return boom })
	r.Go(func() error { return nil })

	assert.ErrorIs(t, r.Wait(), boom)
}

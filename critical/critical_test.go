package critical

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlotLifecycle(t *testing.T) {
	var s Slot[int]
	Free(func(cs CS) {
		_, ok := s.Get(cs)
		assert.False(t, ok)

		_, had := s.Replace(cs, 4)
		assert.False(t, had)
		old, had := s.Replace(cs, 5)
		assert.True(t, had)
		assert.Equal(t, 4, old)
		assert.True(t, s.Loaded(cs))

		v, ok := s.Take(cs)
		assert.True(t, ok)
		assert.Equal(t, 5, v)
		assert.False(t, s.Loaded(cs))
	})
}

func TestTokenOutsideSection(t *testing.T) {
	var s Slot[string]
	assert.Panics(t, func() { s.Get(CS{}) })

	var leaked CS
	Free(func(cs CS) { leaked = cs })
	assert.Panics(t, func() { s.Replace(leaked, "x") })
}

func TestSectionsExclude(t *testing.T) {
	var (
		s  Slot[int]
		wg sync.WaitGroup
	)
	const n = 64
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			Free(func(cs CS) {
				v, _ := s.Get(cs)
				s.Replace(cs, v+1)
			})
		}()
	}
	wg.Wait()
	Free(func(cs CS) {
		v, _ := s.Get(cs)
		assert.Equal(t, n, v)
	})
}

func TestFreeReleasesOnPanic(t *testing.T) {
	assert.Panics(t, func() { Free(func(CS) { panic("boom") }) })
	done := false
	Free(func(CS) { done = true })
	assert.True(t, done)
}

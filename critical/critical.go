// Package critical provides one global critical section and a slot type that
// can only be touched from inside it.
//
// Entering the section is the stand-in for masking interrupts. The lock also
// orders memory: everything written inside one section is visible to the next
// section on any goroutine. Sections do not nest; calling Free from inside
// Free deadlocks.
package critical

import "sync"

var global sync.Mutex

type section struct {
	active bool
}

// CS proves the holder is inside a critical section. It is only valid for the
// duration of the Free call that produced it.
type CS struct {
	s *section
}

func (cs CS) check() {
	if cs.s == nil || !cs.s.active {
		panic("critical: token used outside its critical section")
	}
}

// Free runs f with the critical section held.
func Free(f func(cs CS)) {
	global.Lock()
	s := &section{active: true}
	defer func() {
		s.active = false
		global.Unlock()
	}()
	f(CS{s: s})
}

// Slot is an optional value shared between contexts. The zero Slot is empty.
type Slot[T any] struct {
	v      T
	loaded bool
}

// Replace stores v and returns the previous value, if any.
func (s *Slot[T]) Replace(cs CS, v T) (old T, ok bool) {
	cs.check()
	old, ok = s.v, s.loaded
	s.v, s.loaded = v, true
	return old, ok
}

func (s *Slot[T]) Get(cs CS) (T, bool) {
	cs.check()
	return s.v, s.loaded
}

// Take empties the slot.
func (s *Slot[T]) Take(cs CS) (T, bool) {
	cs.check()
	v, ok := s.v, s.loaded
	var zero T
	s.v, s.loaded = zero, false
	return v, ok
}

func (s *Slot[T]) Loaded(cs CS) bool {
	cs.check()
	return s.loaded
}

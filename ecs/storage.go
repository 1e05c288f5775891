package ecs

import "github.com/milk9111/planetbowl/ecs/component"

// entityStore tracks entity generations and free ids. Id 0 is never issued so
// the zero Entity is always invalid.
type entityStore struct {
	gen   []generation
	alive []bool
	free  []entityID
}

func (s *entityStore) create() Entity {
	var id entityID
	if n := len(s.free); n > 0 {
		id = s.free[n-1]
		s.free = s.free[:n-1]
	} else {
		if len(s.gen) == 0 {
			s.gen = append(s.gen, 0)
			s.alive = append(s.alive, false)
		}
		id = entityID(len(s.gen))
		s.gen = append(s.gen, 0)
		s.alive = append(s.alive, false)
	}
	s.alive[id] = true
	return makeEntity(id, s.gen[id])
}

func (s *entityStore) destroy(e Entity) bool {
	if !s.isAlive(e) {
		return false
	}
	id := e.id()
	s.alive[id] = false
	s.gen[id]++
	s.free = append(s.free, id)
	return true
}

func (s *entityStore) isAlive(e Entity) bool {
	id := e.id()
	if !e.Valid() || int(id) >= len(s.gen) {
		return false
	}
	return s.alive[id] && s.gen[id] == e.generation()
}

func (s *entityStore) all() []Entity {
	out := make([]Entity, 0, len(s.gen))
	for id := 1; id < len(s.gen); id++ {
		if s.alive[id] {
			out = append(out, makeEntity(entityID(id), s.gen[id]))
		}
	}
	return out
}

// store is the type-erased view of a component table used for entity teardown.
type store interface {
	remove(id entityID) bool
	len() int
}

// componentStore is a sparse set keyed by entity id.
type componentStore[T any] struct {
	dense  []Entity
	values []*T
	sparse map[entityID]int
}

func newComponentStore[T any]() *componentStore[T] {
	return &componentStore[T]{sparse: make(map[entityID]int)}
}

func (s *componentStore[T]) set(e Entity, v *T) {
	if idx, ok := s.sparse[e.id()]; ok {
		s.dense[idx] = e
		s.values[idx] = v
		return
	}
	s.sparse[e.id()] = len(s.dense)
	s.dense = append(s.dense, e)
	s.values = append(s.values, v)
}

func (s *componentStore[T]) get(e Entity) (*T, bool) {
	idx, ok := s.sparse[e.id()]
	if !ok || s.dense[idx] != e {
		return nil, false
	}
	return s.values[idx], true
}

func (s *componentStore[T]) remove(id entityID) bool {
	idx, ok := s.sparse[id]
	if !ok {
		return false
	}
	last := len(s.dense) - 1
	moved := s.dense[last]
	s.dense[idx] = moved
	s.values[idx] = s.values[last]
	s.sparse[moved.id()] = idx
	s.dense = s.dense[:last]
	s.values = s.values[:last]
	delete(s.sparse, id)
	return true
}

func (s *componentStore[T]) len() int {
	return len(s.dense)
}

// snapshot copies the dense arrays so callbacks may add or destroy entities.
func (s *componentStore[T]) snapshot() ([]Entity, []*T) {
	ents := append([]Entity(nil), s.dense...)
	vals := append([]*T(nil), s.values...)
	return ents, vals
}

func storeFor[T any](w *World, kind component.ComponentKind[T], create bool) *componentStore[T] {
	if w == nil || !kind.Valid() {
		return nil
	}
	if existing, ok := w.stores[kind.ID()]; ok {
		typed, _ := existing.(*componentStore[T])
		return typed
	}
	if !create {
		return nil
	}
	s := newComponentStore[T]()
	w.stores[kind.ID()] = s
	return s
}

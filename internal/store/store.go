// Package store holds the session's workouts in insertion order.
//
// A Store is not safe for concurrent use; callers serialize access the way
// tracker.App does.
package store

import (
	"iter"

	"github.com/claude/mapty/internal/models"
)

// Store is an ordered collection of workouts. Order is insertion order and
// is the order list rendering and marker placement follow.
type Store struct {
	workouts []*models.Workout
}

// New creates an empty Store.
func New() *Store {
	return &Store{}
}

// Add appends a workout. Ids are not checked for duplicates; callers
// generate fresh ones.
func (s *Store) Add(w *models.Workout) {
	s.workouts = append(s.workouts, w)
}

// Remove deletes the workout with the given id and returns the index it
// held before removal. ok is false when the id is absent.
func (s *Store) Remove(id string) (index int, ok bool) {
	index = s.indexOf(id)
	if index < 0 {
		return -1, false
	}
	s.workouts = append(s.workouts[:index], s.workouts[index+1:]...)
	return index, true
}

// Find returns the workout with the given id.
func (s *Store) Find(id string) (*models.Workout, bool) {
	if i := s.indexOf(id); i >= 0 {
		return s.workouts[i], true
	}
	return nil, false
}

// All returns a restartable sequence over the current workouts. Mutating
// the store while ranging over it is undefined.
func (s *Store) All() iter.Seq[*models.Workout] {
	return func(yield func(*models.Workout) bool) {
		for _, w := range s.workouts {
			if !yield(w) {
				return
			}
		}
	}
}

// Len returns the number of workouts.
func (s *Store) Len() int {
	return len(s.workouts)
}

// ReplaceAll discards the current contents and installs ws in the given
// order. Used only for hydration and reset.
func (s *Store) ReplaceAll(ws []*models.Workout) {
	s.workouts = append([]*models.Workout(nil), ws...)
}

func (s *Store) indexOf(id string) int {
	for i, w := range s.workouts {
		if w.ID == id {
			return i
		}
	}
	return -1
}

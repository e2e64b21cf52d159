// Package ordinal keeps 1-based position sequences dense and duplicate-free.
//
// An ordinal sequence is any slice of elements that carry an explicit integer
// position. The position field is the only ordering source of truth: every
// function here sorts by it before doing positional work and never trusts the
// slice order it was handed.
package ordinal

import (
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/pkordes/hanglog/internal/domain"
)

// Element is satisfied by pointers to domain.DayLog and domain.Item.
type Element interface {
	SequenceID() uuid.UUID
	Position() int
	SetPosition(n int)
}

// Sort orders elems by position, in place. Ties keep their relative order;
// a well-formed sequence never has ties.
func Sort[E Element](elems []E) {
	slices.SortStableFunc(elems, func(a, b E) int {
		return a.Position() - b.Position()
	})
}

// Next returns the position a newly appended element must receive.
func Next[E Element](elems []E) int {
	return len(elems) + 1
}

// Check reports an error when the positions of elems are not exactly 1..N.
// It does not mutate elems.
func Check[E Element](elems []E) error {
	seen := make([]bool, len(elems)+1)
	for _, e := range elems {
		p := e.Position()
		if p < 1 || p > len(elems) {
			return fmt.Errorf("ordinal %d out of range 1..%d", p, len(elems))
		}
		if seen[p] {
			return fmt.Errorf("ordinal %d is duplicated", p)
		}
		seen[p] = true
	}
	return nil
}

// Reorder assigns position k+1 to the element identified by ids[k].
//
// ids must be a permutation of exactly the ids currently in elems. Every check
// runs before the first mutation, so a failed call leaves elems untouched.
// Failures wrap domain.ErrValidation.
func Reorder[E Element](elems []E, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return fmt.Errorf("%w: identifiers required", domain.ErrValidation)
	}

	index := make(map[uuid.UUID]E, len(elems))
	for _, e := range elems {
		index[e.SequenceID()] = e
	}

	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: identifiers must be unique", domain.ErrValidation)
		}
		seen[id] = struct{}{}
	}

	if len(ids) != len(elems) {
		return fmt.Errorf("%w: identifiers must match the current items (got %d, have %d)",
			domain.ErrValidation, len(ids), len(elems))
	}
	for _, id := range ids {
		if _, ok := index[id]; !ok {
			return fmt.Errorf("%w: identifiers must match the current items (unknown id %s)",
				domain.ErrValidation, id)
		}
	}

	for k, id := range ids {
		index[id].SetPosition(k + 1)
	}
	return nil
}

// RemoveAndCompact removes the element identified by id and shifts every later
// element down by one so the sequence stays 1..N-1.
//
// It returns the remaining elements in position order, the removed element, and
// the elements whose position changed (the caller persists those).
// Returns domain.ErrNotFound if id is not in elems.
func RemoveAndCompact[E Element](elems []E, id uuid.UUID) (rest []E, removed E, shifted []E, err error) {
	sorted := slices.Clone(elems)
	Sort(sorted)

	at := slices.IndexFunc(sorted, func(e E) bool { return e.SequenceID() == id })
	if at < 0 {
		return nil, removed, nil, fmt.Errorf("ordinal.RemoveAndCompact: %s: %w", id, domain.ErrNotFound)
	}

	removed = sorted[at]
	rest = slices.Delete(sorted, at, at+1)
	for i := at; i < len(rest); i++ {
		if rest[i].Position() != i+1 {
			rest[i].SetPosition(i + 1)
			shifted = append(shifted, rest[i])
		}
	}
	return rest, removed, shifted, nil
}

// Append gives e the next free position and adds it to the end of elems.
func Append[E Element](elems []E, e E) []E {
	e.SetPosition(Next(elems))
	return append(elems, e)
}

// Package cart keeps the mutable cart state of one buyer session.
package cart

import (
	"errors"
	"fmt"
	"sync"

	"github.com/maryaskin70/pharma-shop/internal/domain"
)

var ErrInvalidQuantity = errors.New("quantity must be positive")

// Observer receives human-readable cart event messages. Observers are
// advisory only; a failing or slow observer must not affect cart state.
type Observer func(message string)

// Store holds the ordered cart lines of one session, one line per
// purchasable-item identifier. All operations are serialized behind a
// mutex so concurrent adds cannot lose updates.
type Store struct {
	mu        sync.RWMutex
	lines     []domain.CartLine
	observers []Observer
}

func NewStore() *Store {
	return &Store{}
}

// Subscribe registers an observer for subsequent cart events.
func (s *Store) Subscribe(fn Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

// Add merges the item into an existing line with the same identifier, or
// appends a new line. item.Quantity is the requested quantity and must be
// positive.
func (s *Store) Add(item domain.CartLine) error {
	if item.Quantity <= 0 {
		return ErrInvalidQuantity
	}

	s.mu.Lock()
	var msg string
	merged := false
	for i := range s.lines {
		if s.lines[i].ItemID == item.ItemID {
			s.lines[i].Quantity += item.Quantity
			msg = fmt.Sprintf("Updated %s quantity in cart", s.lines[i].Name)
			merged = true
			break
		}
	}
	if !merged {
		s.lines = append(s.lines, item)
		msg = fmt.Sprintf("%s added to cart", item.Name)
	}
	observers := s.snapshotObservers()
	s.mu.Unlock()

	publish(observers, msg)
	return nil
}

// Remove deletes the line with the given identifier. Removing an absent
// item is a no-op, not an error.
func (s *Store) Remove(itemID string) {
	s.mu.Lock()
	var msg string
	for i, line := range s.lines {
		if line.ItemID == itemID {
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
			msg = fmt.Sprintf("%s removed from cart", line.Name)
			break
		}
	}
	observers := s.snapshotObservers()
	s.mu.Unlock()

	if msg != "" {
		publish(observers, msg)
	}
}

// SetQuantity overwrites the quantity of an existing line. A quantity of
// zero or less removes the line. The caller is responsible for clamping the
// quantity to the currently resolved stock; the store has no catalog
// reference and does not re-validate.
func (s *Store) SetQuantity(itemID string, quantity int) {
	if quantity <= 0 {
		s.Remove(itemID)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.lines {
		if s.lines[i].ItemID == itemID {
			s.lines[i].Quantity = quantity
			return
		}
	}
}

// Clear empties the cart unconditionally.
func (s *Store) Clear() {
	s.mu.Lock()
	s.lines = nil
	observers := s.snapshotObservers()
	s.mu.Unlock()

	publish(observers, "Cart cleared")
}

// Subtotal sums unit price times quantity over all lines, using the prices
// captured at add time.
func (s *Store) Subtotal() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var total float64
	for _, line := range s.lines {
		total += line.LineTotal()
	}
	return total
}

// ItemCount sums quantities across lines, for badge counts.
func (s *Store) ItemCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, line := range s.lines {
		count += line.Quantity
	}
	return count
}

// Quantity returns the quantity of the line with the given identifier, or
// zero when absent.
func (s *Store) Quantity(itemID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, line := range s.lines {
		if line.ItemID == itemID {
			return line.Quantity
		}
	}
	return 0
}

// Lines returns a copy of the cart lines in insertion order.
func (s *Store) Lines() []domain.CartLine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.CartLine, len(s.lines))
	copy(out, s.lines)
	return out
}

func (s *Store) snapshotObservers() []Observer {
	out := make([]Observer, len(s.observers))
	copy(out, s.observers)
	return out
}

// publish runs outside the store lock so observers may call back into the
// store.
func publish(observers []Observer, msg string) {
	for _, fn := range observers {
		fn(msg)
	}
}

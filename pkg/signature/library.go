package signature

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a signature id is not in the library.
var ErrNotFound = errors.New("signature not found")

// Library is an in-memory signature store safe for concurrent use.
// Signatures keep their insertion order, which is the order diagnosis
// reports list their comparisons in before scoring reorders them.
type Library struct {
	mu    sync.RWMutex
	byID  map[string]*Signature
	order []string
}

// NewLibrary creates an empty library.
func NewLibrary() *Library {
	return &Library{byID: make(map[string]*Signature)}
}

// Add stores a signature, assigning it a fresh id and creation timestamp.
// The assigned id is returned.
func (l *Library) Add(sig Signature) string {
	sig.ID = uuid.New().String()
	sig.CreatedAt = time.Now().UTC()
	sig.Values = append([]float64(nil), sig.Values...)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.byID[sig.ID] = &sig
	l.order = append(l.order, sig.ID)
	return sig.ID
}

// Get returns a copy of the signature with the given id.
func (l *Library) Get(id string) (Signature, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	sig, ok := l.byID[id]
	if !ok {
		return Signature{}, ErrNotFound
	}
	return copySignature(sig), nil
}

// Remove deletes the signature with the given id.
func (l *Library) Remove(id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.byID[id]; !ok {
		return ErrNotFound
	}
	delete(l.byID, id)
	for i, existing := range l.order {
		if existing == id {
			l.order = append(l.order[:i], l.order[i+1:]...)
			break
		}
	}
	return nil
}

// List returns copies of all signatures in insertion order.
func (l *Library) List() []Signature {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]Signature, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, copySignature(l.byID[id]))
	}
	return out
}

// Len returns the number of stored signatures.
func (l *Library) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.order)
}

func copySignature(sig *Signature) Signature {
	out := *sig
	out.Values = append([]float64(nil), sig.Values...)
	return out
}

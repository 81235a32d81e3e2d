package dispatch

import (
	"fmt"
	"github.com/google/uuid"
)

// Key identifies a group of listeners and the events committed to them.
// Two keys are equal when both the namespace and event name are equal.
type Key struct {
	Namespace string
	Event     string
}

func NewKey(namespace, event string) Key {
	return Key{Namespace: namespace, Event: event}
}

func (k Key) String() string {
	return k.Namespace + "/" + k.Event
}

// Owner is an opaque identity that listeners are bound to.
// The zero Owner is treated as absent, so listeners can't be registered or removed with it.
//
// A [Registry] only compares owners, it never manages the lifetime of whatever entity an Owner represents.
type Owner struct {
	id uuid.UUID
}

// NewOwner creates a new, unique Owner.
func NewOwner() Owner {
	return Owner{id: uuid.New()}
}

// ParseOwner recovers an Owner from the output of [Owner.String].
func ParseOwner(s string) (Owner, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return Owner{}, fmt.Errorf("invalid owner '%s': %w", s, err)
	}
	return Owner{id: id}, nil
}

func (o Owner) IsZero() bool {
	return o.id == uuid.Nil
}

func (o Owner) String() string {
	if o.IsZero() {
		return "<none>"
	}
	return o.id.String()
}

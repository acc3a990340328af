// Package events delivers artifact notifications for completed reads and
// writes. Delivery is fire-and-forget: emission never blocks a filesystem
// operation and a failed delivery never surfaces as the operation's error.
package events

import (
	"time"

	"github.com/google/uuid"
)

// Kind identifies the artifact event type.
type Kind string

const (
	ArtifactRead  Kind = "ARTIFACT_READ"
	ArtifactWrite Kind = "ARTIFACT_WRITE"
)

// Event describes a completed read or write.
type Event struct {
	ID    string    `json:"id"`
	Kind  Kind      `json:"kind"`
	Path  string    `json:"path"`
	Bytes int       `json:"bytes"`
	At    time.Time `json:"at"`
}

// Emitter receives artifact notifications. Implementations must not block.
type Emitter interface {
	Emit(kind Kind, path string, bytes int)
}

// NopEmitter discards all events, useful in tests.
type NopEmitter struct{}

func (NopEmitter) Emit(Kind, string, int) {}

// Multi fans events out to several emitters.
func Multi(emitters ...Emitter) Emitter {
	return multi(emitters)
}

type multi []Emitter

func (m multi) Emit(kind Kind, path string, bytes int) {
	for _, e := range m {
		e.Emit(kind, path, bytes)
	}
}

func newEvent(kind Kind, path string, bytes int) Event {
	return Event{
		ID:    uuid.NewString(),
		Kind:  kind,
		Path:  path,
		Bytes: bytes,
		At:    time.Now().UTC(),
	}
}

// Recorder is an Emitter that captures events for test assertions.
type Recorder struct {
	Events []Event
}

func (r *Recorder) Emit(kind Kind, path string, bytes int) {
	r.Events = append(r.Events, newEvent(kind, path, bytes))
}

package player

import "github.com/san-kum/webdevguide/internal/sequence"

// Status is the playback status of a Player.
type Status int

const (
	Idle Status = iota
	Playing
	Paused
	Completed
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	case Completed:
		return "completed"
	}
	return "unknown"
}

// Snapshot is a point-in-time view of a player. Step is a shallow copy:
// slices, maps and pointers inside its Visual payload are shared with the
// sequence and with every other listener, so treat them as read-only.
type Snapshot[V any] struct {
	Index  int
	Total  int
	Status Status
	Step   sequence.Step[V]
}

// Last reports whether the snapshot is at the final step.
func (s Snapshot[V]) Last() bool {
	return s.Index == s.Total-1
}

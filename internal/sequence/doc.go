// Package sequence defines the immutable step data behind every animated
// diagram.
//
//   - [Step]: one stage of a taught process, with a duration and an opaque
//     visual payload
//   - [Sequence]: an ordered, validated, read-only list of steps
//
// A Sequence can only be obtained through [New], which runs [Validate]. The
// payload type V is never inspected here; renderers decide what it means.
//
// # Example
//
//	seq, err := sequence.New([]sequence.Step[string]{
//		{ID: "syn", Label: "SYN", DurationMs: 500},
//		{ID: "syn-ack", Label: "SYN-ACK", DurationMs: 300},
//	})
package sequence

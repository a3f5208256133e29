// Package player implements the state machine behind every stepwise diagram.
//
// A [Player] walks one immutable [sequence.Sequence], tracks the current
// step and a playback [Status], and arms a [schedule.Scheduler] so the next
// step arrives on its own while playing:
//
//	idle ──play──▶ playing ──pause──▶ paused ──play──▶ playing
//	                  │
//	                  └─last step elapses (no loop)──▶ completed ──play──▶ playing (from 0)
//
// With Loop set, the last step wraps to the first and completed is never
// reached. Pausing and playing again restarts the current step's full
// duration; elapsed time within a step is not remembered.
//
// # Notifications
//
// Panels observe a player through [Player.Subscribe]. Every change of index
// or status publishes one [Snapshot] to all listeners, in subscription order,
// before the triggering call returns. A listener that calls back into the
// player is not re-entered: the call is queued and applied once the current
// notification pass completes.
//
// # Thread Safety
//
// Player is NOT goroutine-safe. All operations, and the scheduler's
// callbacks, must run on one cooperative loop (see [schedule.Loop]).
package player

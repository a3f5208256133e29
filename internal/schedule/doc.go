// Package schedule provides the auto-advance timers that drive a player.
//
//   - [Scheduler]: one pending timer at most; Arm replaces, Disarm cancels
//   - [Clock]: a deterministic virtual clock for tests and headless traces
//   - [Loop] and [Timer]: real-time timers whose callbacks run on a single
//     cooperative event loop
//
// # Thread Safety
//
// Callbacks never run on a timer goroutine. A [Timer] posts its callback to
// the loop it was built with, so player code only ever runs on that loop.
// [Clock] is not goroutine-safe and fires callbacks from [Clock.Advance].
package schedule

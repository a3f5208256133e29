// Package viz is the interactive terminal front end built on Bubble Tea.
//
//   - [Model]: topic menu, diagram list and diagram player
//   - [Session]: one player with its panels attached through the
//     snapshot hub, so every panel always shows the same step
//   - Panels: diagram nodes and arrow, step list, detail, comparison
//     table, timing graph and progress bar
//   - Theme selection with 4 built-in color schemes
//
// # Key Bindings
//
//	Space - Play/Pause (replays once completed)
//	→ / L - Next step
//	← / H - Previous step
//	1-9   - Jump to a step
//	R     - Reset to the first step
//	T     - Cycle color themes
//	?     - Show help overlay
//	Q     - Back / quit
//
// # Timers
//
// Auto-advance timers fire on their own goroutines. Their callbacks are
// posted to a schedule.Loop that the program drains as messages, so the
// player only ever runs inside Update.
package viz

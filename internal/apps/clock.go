// Package apps implements the workplace applications that run inside the
// sandbox: the company directory, the work calendar, and conference-room
// booking. They reach the active world through the ambient context and
// never touch the store internals directly.
package apps

import "time"

// simulatedNow is the frozen wall clock every app observes. Keeping it
// fixed makes seeded worlds and recorded programs reproducible.
var simulatedNow = time.Date(2024, time.June, 25, 9, 6, 0, 0, time.UTC)

// Now returns the simulated current time.
func Now() time.Time { return simulatedNow }

// Today returns the simulated current date at midnight.
func Today() time.Time {
	y, m, d := simulatedNow.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SetNow overrides the simulated clock and returns a restore function.
func SetNow(t time.Time) func() {
	previous := simulatedNow
	simulatedNow = t
	return func() { simulatedNow = previous }
}

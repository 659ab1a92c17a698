// Package worktime derives the numbers employees look at from raw punches
// and leave requests: daily worked time, the hour bank, the
// "needs adjustment" flag, monthly summaries, leave days used, months of
// service and the day-count logic of the leave form.
//
// Every function takes "now" or "today" explicitly; nothing reads the clock.
// Calendar days come from internal/datex so the math is immune to UTC
// offsets.
package worktime

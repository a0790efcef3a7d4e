// Package clock provides a tiny time abstraction.
//
// Business code depends on Clocker instead of calling time.Now so tests can
// pin the current time. The production clock can be bound to the shop's
// time zone so "today" and "17h" mean local time.
package clock

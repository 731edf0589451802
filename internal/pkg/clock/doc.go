// Package clock provides a tiny time abstraction.
//
// Code that reasons about expiry depends on the Clocker interface instead of
// calling time.Now() directly, so tests can drive time with ManualClocker
// rather than sleeping.
package clock

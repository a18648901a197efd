/*
Package session serializes access to per-user conversation state.

The engine applies one event at a time but does not order concurrent events
for the same user; transports own that concern. Gate wraps any event handler
with a per-user critical section, backed by in-process mutexes and optionally
by a distributed locker when several replicas share one store.
*/
package session

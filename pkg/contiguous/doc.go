// Package contiguous provides List, a growable sequence backed by a single
// contiguous store. The store doubles when an insert finds it full and never
// shrinks. Removal shifts the tail left so element order is preserved.
//
// A List has a single owner. It does no locking; callers sharing one across
// goroutines must guard every call themselves.
package contiguous

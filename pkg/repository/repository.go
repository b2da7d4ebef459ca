// Package repository implements the output side of a sampling session: the
// single-method collaborator a finished Context hands its folded-stack
// output to, and the three reference backends (file, directory-per-day,
// remote HTTP) that can receive it.
package repository

import "github.com/google/uuid"

// Record is everything a terminated context exposes to a Repository: its
// name, identity, rendered folded-stack text, and how long it was open.
type Record struct {
	Name        string
	Ident       uuid.UUID
	FlameOutput string
	LifecycleMS int64
}

// Repository is the single-operation capability interface a Sampler stores
// finished sessions through. It is deliberately narrow so file, directory,
// remote, or test-double backends can all satisfy it without an inheritance
// hierarchy.
type Repository interface {
	Store(rec *Record) error
}

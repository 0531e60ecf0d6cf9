// Copyright 2024 Pebblescale Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package sqlbind

import (
	"context"
	"errors"
	"fmt"
)

// ErrNoBackend is returned when an operation tries to resolve a backend
// outside any session scope, e.g. on a zero Session.
var ErrNoBackend = errors.New("no backend in session")

// Session binds a sequence of database operations to exactly one [Backend]
// and one [Compiler] for its entire lifetime. Every operation resolves the
// same backend instance; no operation can substitute a different one
// mid-session. A Session must not outlive the backend resource it wraps.
//
// Sessions are cheap and not goroutine-bound: concurrent flows each hold
// their own Session, possibly over distinct backends. Within one Session,
// operations issued sequentially reach the backend in issue order.
type Session struct {
	be       Backend
	compiler Compiler
}

// New returns a session bound to the given backend and compiler.
func New(be Backend, compiler Compiler) *Session {
	return &Session{be: be, compiler: compiler}
}

// Run is the session entry point used by backend-specific connection
// opening routines: it scopes fn to a session over the given backend and
// returns fn's error. Nested computations that need a different backend
// must call Run (or [New]) again with that backend; a backend is never
// inherited implicitly.
func Run(ctx context.Context, be Backend, compiler Compiler, fn func(context.Context, *Session) error) error {
	if be == nil {
		return ErrNoBackend
	}
	return fn(ctx, New(be, compiler))
}

// Backend resolves the session's active backend.
func (s *Session) Backend() (Backend, error) {
	if s == nil || s.be == nil {
		return nil, ErrNoBackend
	}
	return s.be, nil
}

// resolve returns the active backend and compiler of the session.
func (s *Session) resolve() (Backend, Compiler, error) {
	be, err := s.Backend()
	if err != nil {
		return nil, nil, err
	}
	if s.compiler == nil {
		return nil, nil, fmt.Errorf("cannot compile: session has no compiler")
	}
	return be, s.compiler, nil
}

// Transact runs fn inside a transaction on the session's backend, binding
// fn to a nested session over the transaction. The transaction is rolled
// back if fn returns an error and committed otherwise. Backends that do not
// implement [Transactor] are refused.
func (s *Session) Transact(ctx context.Context, fn func(context.Context, *Session) error) error {
	be, err := s.Backend()
	if err != nil {
		return err
	}
	tr, ok := be.(Transactor)
	if !ok {
		return fmt.Errorf("cannot begin transaction: backend %T does not support transactions", be)
	}
	tx, err := tr.Begin(ctx)
	if err != nil {
		return err
	}
	if err := fn(ctx, New(tx, s.compiler)); err != nil {
		if rerr := tx.Rollback(); rerr != nil {
			return fmt.Errorf("%w (rollback also failed: %s)", err, rerr)
		}
		return err
	}
	return tx.Commit()
}

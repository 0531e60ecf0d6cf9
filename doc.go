/*
Package sqlbind is the runtime core of a typed SQL access layer. It defines
the contract a database backend must satisfy, a session that carries exactly
one active backend through a sequence of operations, and the execution
pipeline that turns compiled statements into typed results.

The query language and the SQL compiler live outside this package. sqlbind
consumes them through the [Compiler] interface: every operation asks the
compiler for a [Statement] (SQL text plus ordered parameters) and dispatches
it to the session's [Backend]. Raw rows come back as values of the closed
[Value] union and are decoded positionally against the [ResultShape] declared
by the query.

# Sessions

A [Session] binds a sequence of operations to one backend for its whole
lifetime. Operations issued sequentially on a session reach the backend in
that same order; the core never reorders, retries, pools or multiplexes.
Backends are never inherited between sessions. Code that wants a different
backend constructs a new session and says so explicitly:

	be, err := sqlite.Open("people.db")
	if err != nil {
		return err
	}
	err = sqlbind.Run(ctx, be, compiler, func(ctx context.Context, s *sqlbind.Session) error {
		n, err := s.Insert(ctx, people, rows)
		...
	})

# Backends

A backend is anything implementing [Backend]: statement execution, generated
key retrieval for auto-incrementing inserts, and an override hook for DDL
column types. The backend/sqlite, backend/postgres and backend/mysql packages
provide implementations over database/sql; backend/sqldb holds the shared
execution core they are built on.

Errors from the underlying driver are wrapped in [BackendError] and surface
to the caller verbatim. Shape mismatches during decoding are reported as
[DecodeError] and always indicate a programming error, never a transient
condition.
*/
package sqlbind

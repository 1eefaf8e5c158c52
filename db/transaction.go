package db

import (
	"context"
	"fmt"

	"github.com/pq-async/pqgo/transport"
)

// Transaction control runs as plain statements on the handle's reserved
// connection — a Handle owning exactly one connection for its lifetime
// (§4.I) already guarantees BEGIN/COMMIT/ROLLBACK/SAVEPOINT land on the
// same physical connection, which is all Postgres requires of them.

// Begin opens a transaction block.
func (h *Handle) Begin(ctx context.Context) error {
	_, err := h.Execute(ctx, "BEGIN")
	return err
}

// Commit commits the current transaction block.
func (h *Handle) Commit(ctx context.Context) error {
	_, err := h.Execute(ctx, "COMMIT")
	return err
}

// Rollback aborts the current transaction block.
func (h *Handle) Rollback(ctx context.Context) error {
	_, err := h.Execute(ctx, "ROLLBACK")
	return err
}

// Savepoint establishes a named savepoint within the current transaction.
func (h *Handle) Savepoint(ctx context.Context, name string) error {
	_, err := h.Execute(ctx, fmt.Sprintf("SAVEPOINT %s", transport.QuoteIdent(name)))
	return err
}

// Release forgets a savepoint, keeping its effects.
func (h *Handle) Release(ctx context.Context, name string) error {
	_, err := h.Execute(ctx, fmt.Sprintf("RELEASE SAVEPOINT %s", transport.QuoteIdent(name)))
	return err
}

// RollbackTo rolls back to a named savepoint without aborting the whole
// transaction.
func (h *Handle) RollbackTo(ctx context.Context, name string) error {
	_, err := h.Execute(ctx, fmt.Sprintf("ROLLBACK TO SAVEPOINT %s", transport.QuoteIdent(name)))
	return err
}

// Package pgstore implements the datastore contract on PostgreSQL with pgx.
// The no-overlap invariant lives in an exclusion constraint and per-room
// serialization rides on transaction-scoped advisory locks.
package pgstore

import (
	"bytes"
	"context"
	_ "embed"
	"slices"

	"stayops/internal/pkg/pgconv"
	"stayops/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schemaSQL string

// ApplySchema creates the tables, constraints, and indexes. Statements are
// idempotent so repeated startup is safe.
func ApplySchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		return classify("apply schema", err)
	}
	return nil
}

type UnitOfWork struct {
	pool *pgxpool.Pool
}

func NewUnitOfWork(pool *pgxpool.Pool) *UnitOfWork {
	return &UnitOfWork{pool: pool}
}

// Within runs fn in a ReadCommitted transaction. Failures are never retried
// here: the caller sees the classified error and decides.
func (u *UnitOfWork) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	pgxTx, err := u.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return classify("begin transaction", err)
	}
	defer pgxTx.Rollback(ctx) //nolint:errcheck

	if err := fn(ctx, &pgTx{tx: pgxTx}); err != nil {
		return err
	}
	if err := pgxTx.Commit(ctx); err != nil {
		return classify("commit transaction", err)
	}
	return nil
}

func (u *UnitOfWork) WithinReadOnly(ctx context.Context, fn func(ctx context.Context, r shared.Reads) error) error {
	pgxTx, err := u.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted, AccessMode: pgx.ReadOnly})
	if err != nil {
		return classify("begin read-only transaction", err)
	}
	defer pgxTx.Rollback(ctx) //nolint:errcheck

	if err := fn(ctx, &pgReads{q: pgxTx}); err != nil {
		return err
	}
	if err := pgxTx.Commit(ctx); err != nil {
		return classify("commit read-only transaction", err)
	}
	return nil
}

func (u *UnitOfWork) Reads() shared.Reads {
	return &pgReads{q: u.pool}
}

type pgTx struct {
	tx pgx.Tx
}

func (t *pgTx) RoomTypes() shared.RoomTypeRepository { return &roomTypeRepo{tx: t.tx} }
func (t *pgTx) Rooms() shared.RoomRepository         { return &roomRepo{tx: t.tx} }
func (t *pgTx) Bookings() shared.BookingRepository   { return &bookingRepo{tx: t.tx} }
func (t *pgTx) Tasks() shared.TaskRepository         { return &taskRepo{tx: t.tx} }
func (t *pgTx) Reads() shared.Reads                  { return &pgReads{q: t.tx} }

// LockRooms serializes on transaction-scoped advisory locks keyed by room id,
// acquired in ascending id order. The locks release automatically at commit
// or rollback.
func (t *pgTx) LockRooms(ctx context.Context, roomIDs ...uuid.UUID) error {
	for _, id := range sortedUnique(roomIDs) {
		_, err := t.tx.Exec(ctx,
			`SELECT pg_advisory_xact_lock(hashtextextended($1::text, 0))`,
			pgconv.UUIDToPgtype(id),
		)
		if err != nil {
			return classify("acquire room lock", err)
		}
	}
	return nil
}

func sortedUnique(ids []uuid.UUID) []uuid.UUID {
	sorted := slices.Clone(ids)
	slices.SortFunc(sorted, func(a, b uuid.UUID) int {
		return bytes.Compare(a[:], b[:])
	})
	return slices.Compact(sorted)
}

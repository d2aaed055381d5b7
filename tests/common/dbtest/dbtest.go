//go:build e2e

package dbtest

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ResetDB wipes all engine state between subtests. TRUNCATE CASCADE keeps the
// schema (and its exclusion constraints) in place.
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := pool.Exec(ctx,
		"TRUNCATE bookings, housekeeping_tasks, rooms, room_types CASCADE")
	return err
}

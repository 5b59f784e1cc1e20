package main

import (
	"log/slog"
	"time"

	"github.com/BearBump/TrackSheet/internal/storage/pgrecords"
)

// Postgres может быть не готов сразу после старта docker compose,
// поэтому открываем с небольшим retry.
func mustOpenPostgresWithRetry(connString string, timeout time.Duration) *pgrecords.Storage {
	deadline := time.Now().Add(timeout)
	for {
		st, err := pgrecords.New(connString)
		if err == nil {
			return st
		}
		if time.Now().After(deadline) {
			panic(err)
		}
		slog.Warn("postgres not ready, retrying", "err", err)
		time.Sleep(2 * time.Second)
	}
}

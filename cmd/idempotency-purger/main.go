package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	orderpostgres "github.com/Apurer/go-gin-booking-api/internal/domains/orders/adapters/persistence/postgres"
	"github.com/Apurer/go-gin-booking-api/internal/domains/orders/ports"
	platformpostgres "github.com/Apurer/go-gin-booking-api/internal/platform/postgres"
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	db, cleanup := platformpostgres.ConnectOrFallback(ctx, os.Getenv("POSTGRES_DSN"), logger)
	defer cleanup()
	if db == nil {
		log.Fatal("POSTGRES_DSN not set or connection failed; cannot purge idempotency keys")
	}

	var purger ports.IdempotencyPurger = orderpostgres.NewIdempotencyStore(db)
	cutoff := time.Now().Add(-ttlFromEnv())
	n, err := purger.PurgeOlderThan(ctx, cutoff)
	if err != nil {
		log.Fatalf("failed to purge idempotency keys: %v", err)
	}
	logger.Info("idempotency purge completed", slog.Int64("deleted", n), slog.Time("cutoff", cutoff))
}

func ttlFromEnv() time.Duration {
	raw := strings.TrimSpace(os.Getenv("IDEMPOTENCY_TTL_HOURS"))
	if raw == "" {
		return ports.DefaultIdempotencyTTL
	}
	hours, err := strconv.Atoi(raw)
	if err != nil || hours <= 0 {
		return ports.DefaultIdempotencyTTL
	}
	return time.Duration(hours) * time.Hour
}

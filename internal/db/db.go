package db

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

var Conn *pgxpool.Pool

// Connect opens a pool and verifies it with a ping.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}
	return pool, nil
}

// Init connects to Postgres, sets Conn and makes sure the schema exists.
func Init(dsn string) {
	ctx := context.Background()

	var err error
	Conn, err = Connect(ctx, dsn)
	if err != nil {
		log.Fatalf("%v\n", err)
	}
	log.Println("Connected to Postgres successfully")

	if err := EnsureSchema(ctx, Conn); err != nil {
		log.Fatalf("schema setup failed: %v", err)
	}
}

// Close releases the shared pool.
func Close() {
	if Conn != nil {
		Conn.Close()
	}
}

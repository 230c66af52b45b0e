package database

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/activegames/reservation/internal/platform/config"
)

const (
	defaultConnectAttempts = 10
	defaultRetryDelay      = 2 * time.Second
)

// Connect opens the reservation database and waits for it to come up,
// so the service survives being started before its database container.
func Connect(cfg config.App) (*sql.DB, error) {
	return ConnectWithRetry(cfg, defaultConnectAttempts, defaultRetryDelay)
}

func ConnectWithRetry(cfg config.App, attempts int, delay time.Duration) (*sql.DB, error) {
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)

	var db *sql.DB
	var err error

	for i := 1; i <= attempts; i++ {
		db, err = sql.Open("postgres", dsn)
		if err == nil {
			err = db.Ping()
		}

		if err == nil {
			log.Printf("postgres: connected to %s:%s/%s", cfg.DBHost, cfg.DBPort, cfg.DBName)
			return db, nil
		}

		log.Printf("postgres: not reachable (attempt %d/%d): %v", i, attempts, err)
		time.Sleep(delay)
	}

	return nil, fmt.Errorf("postgres unreachable after %d attempts: %w", attempts, err)
}

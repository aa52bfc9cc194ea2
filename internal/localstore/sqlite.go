package localstore

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrations embed.FS

// SQLiteBackend keeps guest state in a single-file database, for deployments
// without Redis that still need state to survive restarts.
type SQLiteBackend struct {
	db  *sql.DB
	ttl time.Duration

	stopCleanup chan struct{}
	wg          sync.WaitGroup
}

func NewSQLiteBackend(dbPath string, ttl time.Duration) (*SQLiteBackend, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// one writer at a time, otherwise concurrent saves fail with SQLITE_BUSY
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteBackend{
		db:          db,
		ttl:         ttl,
		stopCleanup: make(chan struct{}),
	}, nil
}

// RunMigrations brings the schema up to date using the embedded migrations.
func (s *SQLiteBackend) RunMigrations() error {
	driver, err := sqlite.WithInstance(s.db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	source, err := iofs.New(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("could not open embedded migrations: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

// StartCleanup deletes expired rows every interval until Close is called.
func (s *SQLiteBackend) StartCleanup(interval time.Duration) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				n, err := s.PurgeExpired(context.Background())
				if err != nil {
					log.Printf("guest state purge failed: %v", err)
				} else if n > 0 {
					log.Printf("purged %d expired guest state rows", n)
				}
			case <-s.stopCleanup:
				return
			}
		}
	}()
}

func (s *SQLiteBackend) PurgeExpired(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM guest_state WHERE expires_at > 0 AND expires_at <= ?`,
		time.Now().UnixNano())
	if err != nil {
		return 0, fmt.Errorf("failed to purge guest state: %w", err)
	}
	return res.RowsAffected()
}

func (s *SQLiteBackend) Load(ctx context.Context, key string) ([]byte, error) {
	var (
		value     []byte
		expiresAt int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT value, expires_at FROM guest_state WHERE state_key = ?`, key,
	).Scan(&value, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query guest state: %w", err)
	}
	if expiresAt > 0 && time.Now().UnixNano() >= expiresAt {
		return nil, ErrNotFound
	}
	return value, nil
}

func (s *SQLiteBackend) Save(ctx context.Context, key string, value []byte) error {
	now := time.Now()
	var expiresAt int64
	if s.ttl > 0 {
		expiresAt = now.Add(s.ttl).UnixNano()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO guest_state (state_key, value, expires_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (state_key) DO UPDATE SET
			value = excluded.value,
			expires_at = excluded.expires_at,
			updated_at = excluded.updated_at
	`, key, value, expiresAt, now.UnixNano())
	if err != nil {
		return fmt.Errorf("failed to save guest state: %w", err)
	}
	return nil
}

func (s *SQLiteBackend) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM guest_state WHERE state_key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete guest state: %w", err)
	}
	return nil
}

// Close stops the cleanup loop, if any, and closes the database.
func (s *SQLiteBackend) Close() error {
	close(s.stopCleanup)
	s.wg.Wait()
	return s.db.Close()
}

package metrics

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/darts-league/internal/database"
)

// counterStore handles the persisted activity counters.
type counterStore struct {
	db *database.DB
	mu sync.Mutex
}

// NewCounterStore creates a CounterStore backed by the counters table.
func NewCounterStore(db *database.DB) CounterStore {
	return &counterStore{
		db: db,
	}
}

// Increment upserts a counter key and increments its value by one. Failures
// are logged and otherwise ignored.
func (s *counterStore) Increment(ctx context.Context, key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, s.db.Rebind(`
		INSERT INTO counters (key, value) VALUES (?, 1)
		ON CONFLICT (key) DO UPDATE SET value = counters.value + 1`),
		key,
	)
	if err != nil {
		log.Error("Failed to increment counter", "error", err, "key", key)
		return
	}
	log.Debug("Incremented counter", "key", key)
}

// GetAll returns all counters from the database.
func (s *counterStore) GetAll(ctx context.Context) (map[string]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx, "SELECT key, value FROM counters")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counters := make(map[string]int)
	for rows.Next() {
		var key string
		var value int
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		counters[key] = value
	}
	return counters, rows.Err()
}

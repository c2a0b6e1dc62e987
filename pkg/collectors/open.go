package collectors

import (
	"fmt"

	"github.com/yair/eventify/pkg/domain"
)

// Open returns the event store for driver ("sqlite" or "memory") and a
// function releasing it.
func Open(driver, path string) (domain.EventRepository, func() error, error) {
	switch driver {
	case "memory":
		return NewMemoryEventRepository(), func() error { return nil }, nil
	case "sqlite":
		db, err := NewSQLiteDB(path)
		if err != nil {
			return nil, nil, err
		}

		repo, err := NewEventRepository(db)
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		return repo, db.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown database driver %q", driver)
	}
}

package store

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"designer-dashboard-backend/internal/model"
)

// gormStore keeps every collection as one row of the collections table.
type gormStore struct {
	db     *gorm.DB
	prefix string
}

// NewGormStore creates a new GORM-backed store. Keys are stored as prefix+collection.
func NewGormStore(db *gorm.DB, prefix string) Store {
	return &gormStore{db: db, prefix: prefix}
}

func (s *gormStore) Load(ctx context.Context, collection string) ([]byte, error) {
	var rec model.CollectionRecord
	err := s.db.WithContext(ctx).Where("name = ?", s.prefix+collection).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load collection %q: %w", collection, err)
	}
	return rec.Payload, nil
}

// Save upserts all records transactionally.
func (s *gormStore) Save(ctx context.Context, records map[string][]byte) error {
	names := make([]string, 0, len(records))
	for name := range records {
		names = append(names, name)
	}
	sort.Strings(names)

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, name := range names {
			rec := model.CollectionRecord{Name: s.prefix + name, Payload: records[name]}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "name"}},
				DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
			}).Create(&rec).Error; err != nil {
				return fmt.Errorf("failed to save collection %q: %w", name, err)
			}
		}
		return nil
	})
}

func (s *gormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

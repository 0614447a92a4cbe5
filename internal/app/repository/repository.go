package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SessionEntry одна запись сессии в таблице session_entries
type SessionEntry struct {
	Key       string `gorm:"primaryKey;size:64"`
	Value     string `gorm:"type:text;not null"`
	UpdatedAt time.Time
}

func (SessionEntry) TableName() string {
	return "session_entries"
}

type Repository struct {
	db *gorm.DB
}

func New(dsn string) (*Repository, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	return &Repository{
		db: db,
	}, nil
}

// NewWithDB для уже открытого соединения
func NewWithDB(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Close закрывает пул соединений
func (r *Repository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Migrate создает таблицу сессии
func (r *Repository) Migrate() error {
	if err := r.db.AutoMigrate(&SessionEntry{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

func (r *Repository) Load(ctx context.Context, keys ...string) (map[string]string, error) {
	out := make(map[string]string, len(keys))
	if len(keys) == 0 {
		return out, nil
	}

	var rows []SessionEntry
	err := r.db.WithContext(ctx).Where("key IN ?", keys).Find(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		out[row.Key] = row.Value
	}
	return out, nil
}

// Save upsert всех записей в одной транзакции
func (r *Repository) Save(ctx context.Context, entries map[string]string) error {
	if len(entries) == 0 {
		return nil
	}

	now := time.Now()
	rows := make([]SessionEntry, 0, len(entries))
	for k, v := range entries {
		rows = append(rows, SessionEntry{Key: k, Value: v, UpdatedAt: now})
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).Create(&rows).Error
	})
}

func (r *Repository) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Where("key IN ?", keys).Delete(&SessionEntry{}).Error
}

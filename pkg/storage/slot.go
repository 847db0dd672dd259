// Package storage implements the durable key-value slot backing the
// session snapshot. It is the local analog of browser storage: one
// small sqlite file, read once at startup, written on login/register
// and cleared on logout.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/tastybites/storefront-core/pkg/config"
	"github.com/tastybites/storefront-core/pkg/logger"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Slot is one persisted key-value pair.
type Slot struct {
	Key       string    `gorm:"primaryKey;type:text"`
	Value     string    `gorm:"type:text;not null"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// Client wraps the local slot database.
type Client struct {
	conn *gorm.DB
}

// New opens (or creates) the slot database at the configured path.
func New(ctx context.Context, cfg config.StorageConfig, logg *logger.Logger) (*Client, error) {
	if cfg.SessionDBPath == "" {
		return nil, fmt.Errorf("session db path is required")
	}

	gormLogger := gormlogger.New(
		log.New(io.Discard, "", log.LstdFlags),
		gormlogger.Config{LogLevel: gormlogger.Silent},
	)

	conn, err := gorm.Open(sqlite.Open(cfg.SessionDBPath), &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening slot db: %w", err)
	}

	if err := conn.WithContext(ctx).AutoMigrate(&Slot{}); err != nil {
		return nil, fmt.Errorf("migrating slot table: %w", err)
	}

	if logg != nil {
		logg.Info(ctx, "session storage ready")
	}

	return &Client{conn: conn}, nil
}

// Get returns the stored value and whether the key was present.
func (c *Client) Get(ctx context.Context, key string) (string, bool, error) {
	var slot Slot
	err := c.conn.WithContext(ctx).First(&slot, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading slot %q: %w", key, err)
	}
	return slot.Value, true, nil
}

// Put stores the value under the key, replacing any previous value.
func (c *Client) Put(ctx context.Context, key, value string) error {
	slot := Slot{Key: key, Value: value}
	err := c.conn.WithContext(ctx).Save(&slot).Error
	if err != nil {
		return fmt.Errorf("writing slot %q: %w", key, err)
	}
	return nil
}

// Delete removes the key. Deleting an absent key is a no-op.
func (c *Client) Delete(ctx context.Context, key string) error {
	err := c.conn.WithContext(ctx).Delete(&Slot{}, "key = ?", key).Error
	if err != nil {
		return fmt.Errorf("deleting slot %q: %w", key, err)
	}
	return nil
}

// Close releases the underlying database handle.
func (c *Client) Close() error {
	sqlDB, err := c.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

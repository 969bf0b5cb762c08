// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package tracestore // import "github.com/politepol/crawllog/tracestore"

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Options configures how stores are opened.
type Options struct {
	// AutoMigrate creates the traces table when it does not exist.
	AutoMigrate bool
}

// Store is a trace engine backed by one relational database.
type Store struct {
	name string
	db   *gorm.DB
}

var _ Engine = (*Store)(nil)

// Open creates a store for the given connection string. Like a connection
// pool, it does not contact the database until first use unless AutoMigrate
// is set.
func Open(dsn string, opts Options) (*Store, error) {
	src, err := parseDSN(dsn)
	if err != nil {
		return nil, err
	}
	db, err := gorm.Open(src.dialector(), &gorm.Config{
		Logger:                 logger.Discard,
		DisableAutomaticPing:   true,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", src.name, err)
	}
	s := &Store{name: src.name, db: db}

	if src.driver == driverSQLite && src.dsn == sqliteMemory {
		// Every connection to :memory: is a separate database.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if opts.AutoMigrate {
		if err := db.AutoMigrate(&Record{}); err != nil {
			_ = s.Close()
			return nil, fmt.Errorf("migrate %s: %w", src.name, err)
		}
	}
	return s, nil
}

// Name returns the connection string with any password redacted.
func (s *Store) Name() string {
	return s.name
}

// Insert appends rec on a connection acquired for this call only. The
// connection is released whether or not the insert succeeds.
func (s *Store) Insert(ctx context.Context, rec Record) error {
	return s.db.WithContext(ctx).Connection(func(conn *gorm.DB) error {
		return conn.Create(&rec).Error
	})
}

// FindBySnapshot returns the rows recorded for snapshotID in insertion order.
func (s *Store) FindBySnapshot(ctx context.Context, snapshotID int64) ([]Record, error) {
	var recs []Record
	err := s.db.WithContext(ctx).
		Where("snapshot_id = ?", snapshotID).
		Find(&recs).Error
	return recs, err
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

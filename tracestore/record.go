// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

// Package tracestore persists trace rows into relational databases and owns the
// registry of database engines used by the trace sink.
package tracestore // import "github.com/politepol/crawllog/tracestore"

import "time"

// TableName is the table trace rows are appended to.
const TableName = "traces"

// Record is one append-only trace row. The table has no key; duplicate rows for
// a snapshot are valid.
type Record struct {
	SnapshotID int64     `gorm:"column:snapshot_id;not null"`
	Code       int       `gorm:"column:code;not null"`
	Message    string    `gorm:"column:message;type:text;not null"`
	CreatedAt  time.Time `gorm:"column:created_at;not null;autoCreateTime:false"`
	UpdatedAt  time.Time `gorm:"column:updated_at;not null;autoUpdateTime:false"`
}

// TableName implements gorm's schema.Tabler.
func (Record) TableName() string {
	return TableName
}

// NewRecord builds a row captured at now.
func NewRecord(snapshotID int64, code int, message string, now time.Time) Record {
	return Record{
		SnapshotID: snapshotID,
		Code:       code,
		Message:    message,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

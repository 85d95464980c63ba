// Package models contains database model definitions.
package models

import (
	"time"

	"gorm.io/datatypes"
)

// Document is one record of a resource collection.
// The entity fields live in Data, the other columns exist for filtering and sorting.
type Document struct {
	// ID is the uuid of the document.
	ID string `gorm:"primaryKey;size:36"`
	// Collection is the resource name, e.g. "news".
	Collection string `gorm:"size:64;not null;index:idx_documents_collection_status,priority:1"`
	// Status mirrors the entity status field.
	Status string `gorm:"size:64;index:idx_documents_collection_status,priority:2"`
	// SortKey is the natural order of the entity within its collection.
	SortKey string `gorm:"size:128"`
	// Data is the JSON encoded entity.
	Data datatypes.JSON
	// CreatedAt is set by the store on insert.
	CreatedAt time.Time `gorm:"autoCreateTime:false;index"`
	// UpdatedAt is set by the store on every write.
	UpdatedAt time.Time `gorm:"autoUpdateTime:false;index"`
}

// DocumentKey reserves a unique value for a document within its collection.
type DocumentKey struct {
	ID         uint64 `gorm:"primaryKey;autoIncrement"`
	Collection string `gorm:"size:64;not null;uniqueIndex:idx_document_keys_name,priority:1"`
	Name       string `gorm:"size:255;not null;uniqueIndex:idx_document_keys_name,priority:2"`
	DocumentID string `gorm:"size:36;not null;index"`
}

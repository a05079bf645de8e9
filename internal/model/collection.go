package model

import "time"

// CollectionRecord is one named collection serialized as a JSON array.
type CollectionRecord struct {
	Name      string    `gorm:"primaryKey;size:128"`
	Payload   []byte    `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName pins the table name used by every SQL backend.
func (CollectionRecord) TableName() string {
	return "collections"
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// SystemLog stores structured ERROR+ records from the ingest service so
// operational failures (store inserts, collaborator calls) are queryable.
type SystemLog struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Timestamp time.Time      `gorm:"not null;index" json:"timestamp"`
	Level     string         `gorm:"size:10;not null;index" json:"level"`
	Message   string         `gorm:"type:text" json:"message"`
	ClientID  string         `gorm:"size:64;index" json:"client_id"`
	Kind      string         `gorm:"size:20;index" json:"kind"`
	Table     string         `gorm:"size:40;column:table_name" json:"table"`
	TraceID   string         `gorm:"size:36;index" json:"trace_id"`
	Error     string         `gorm:"type:text" json:"error"`
	Extra     datatypes.JSON `gorm:"type:jsonb;default:'{}'" json:"extra"`
	CreatedAt time.Time      `json:"created_at"`
}

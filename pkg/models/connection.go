package models

import (
	"time"

	"github.com/google/uuid"
)

// Dialect identifies a supported target database engine.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectMSSQL    Dialect = "mssql"
)

// ConnectionTarget is an external database the SQL pipeline may query.
// Credentials are stored encrypted and decrypted on demand; the engine
// never mutates the target.
type ConnectionTarget struct {
	ID       uuid.UUID `json:"id"`
	TenantID int64     `json:"tenant_id"`
	Name     string    `json:"name"`
	Dialect  Dialect   `json:"dialect"`

	// EncryptedDSN is the AES-GCM encrypted connection string.
	// Never logged, never returned to callers.
	EncryptedDSN string `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

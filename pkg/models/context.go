package models

import (
	"time"

	"github.com/google/uuid"
)

// ContextType distinguishes document collections from queryable databases.
type ContextType string

const (
	ContextTypeDocumental    ContextType = "DOCUMENTAL"
	ContextTypeDatabaseQuery ContextType = "DATABASE_QUERY"
)

// KnowledgeContext is one bounded unit of retrievable knowledge: a document
// collection or a queryable database. Created and updated by the admin
// surface; read-only to the engine.
type KnowledgeContext struct {
	ID           int64       `json:"id"`
	TenantID     int64       `json:"tenant_id"`
	Name         string      `json:"name"`
	Type         ContextType `json:"type"`
	ChunkSize    int         `json:"chunk_size"`
	ChunkOverlap int         `json:"chunk_overlap"`

	// ConnectionID links DATABASE_QUERY contexts to their target connection.
	ConnectionID *uuid.UUID `json:"connection_id,omitempty"`

	// Tables restricts schema collection to the tables this context exposes.
	// Never the full database schema.
	Tables []string `json:"tables,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ChunkMetadata identifies where a document chunk came from. The context ID
// is the access-control boundary for retrieval.
type ChunkMetadata struct {
	ContextID      int64  `json:"context_id"`
	SourceFilename string `json:"source_filename"`
	SourceType     string `json:"source_type"`
}

// DocumentChunk is one retrievable piece of an ingested document.
// Produced by the ingestion pipeline; consumed read-only here.
type DocumentChunk struct {
	Content  string        `json:"content"`
	Metadata ChunkMetadata `json:"metadata"`
	Score    float64       `json:"score,omitempty"`
}

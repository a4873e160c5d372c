package datasource

import (
	"context"
	"fmt"
	"sync"

	"github.com/conversia-ai/answer-engine/pkg/models"
)

// AdapterRegistration contains the factories for one dialect.
type AdapterRegistration struct {
	Dialect                models.Dialect
	DisplayName            string
	QueryExecutorFactory   func(ctx context.Context, dsn string) (QueryExecutor, error)
	SchemaExtractorFactory func(ctx context.Context, dsn string) (SchemaExtractor, error)
}

var (
	registryMu sync.RWMutex
	registry   = make(map[models.Dialect]AdapterRegistration)
)

// Register is called by each adapter's init() function.
// Thread-safe for concurrent init() calls.
func Register(reg AdapterRegistration) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[reg.Dialect] = reg
}

// IsRegistered checks if an adapter dialect is available.
func IsRegistered(dialect models.Dialect) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := registry[dialect]
	return ok
}

func lookup(dialect models.Dialect) (AdapterRegistration, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	reg, ok := registry[dialect]
	return reg, ok
}

// AdapterFactory creates adapters from the registry. Use the interface for
// dependency injection so tests can substitute fakes.
type AdapterFactory interface {
	NewQueryExecutor(ctx context.Context, dialect models.Dialect, dsn string) (QueryExecutor, error)
	NewSchemaExtractor(ctx context.Context, dialect models.Dialect, dsn string) (SchemaExtractor, error)
}

type registryFactory struct{}

// NewAdapterFactory returns a factory backed by the global registry.
func NewAdapterFactory() AdapterFactory {
	return &registryFactory{}
}

func (f *registryFactory) NewQueryExecutor(ctx context.Context, dialect models.Dialect, dsn string) (QueryExecutor, error) {
	reg, ok := lookup(dialect)
	if !ok {
		return nil, fmt.Errorf("unsupported dialect: %s (not compiled in)", dialect)
	}
	return reg.QueryExecutorFactory(ctx, dsn)
}

func (f *registryFactory) NewSchemaExtractor(ctx context.Context, dialect models.Dialect, dsn string) (SchemaExtractor, error) {
	reg, ok := lookup(dialect)
	if !ok {
		return nil, fmt.Errorf("unsupported dialect: %s (not compiled in)", dialect)
	}
	return reg.SchemaExtractorFactory(ctx, dsn)
}

var _ AdapterFactory = (*registryFactory)(nil)

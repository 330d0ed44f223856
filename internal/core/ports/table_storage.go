package ports

import (
	"context"

	"go.trai.ch/watt/internal/core/domain"
)

// TableStorage reads reference tables from a backing store.
//
//go:generate mockgen -source=table_storage.go -destination=mocks/mock_table_storage.go -package=mocks
type TableStorage interface {
	// ReadTable reads and validates one table.
	// A table that does not exist yields domain.ErrTableNotFound.
	ReadTable(ctx context.Context, key domain.TableKey, name string) (*domain.Table, error)

	// Editions lists every code and edition present in the store.
	Editions(ctx context.Context) ([]domain.TableKey, error)

	// Tables lists the table names stored for key, sorted. An absent key lists nothing.
	Tables(ctx context.Context, key domain.TableKey) ([]string, error)
}

// TableStorageOpener opens the table storage rooted at a directory.
type TableStorageOpener func(root string) TableStorage

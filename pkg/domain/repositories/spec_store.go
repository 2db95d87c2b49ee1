package repositories

import (
	"context"

	"github.com/bakeline/production-core/pkg/domain/entities"
)

// SpecStore is the read-only (to the core) collaborator backing the
// bake_specs collection (spec §6): one document per ItemGUID.
type SpecStore interface {
	GetSpec(ctx context.Context, item entities.ItemGUID) (*entities.BakeSpec, error)
	GetActiveSpecs(ctx context.Context) ([]*entities.BakeSpec, error)
}

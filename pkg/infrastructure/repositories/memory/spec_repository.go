package memory

import (
	"context"

	domainerrors "github.com/bakeline/production-core/pkg/domain/errors"

	"github.com/bakeline/production-core/pkg/domain/entities"
	"github.com/bakeline/production-core/pkg/domain/repositories"
)

// SpecRepository is an in-memory SpecStore, keyed by ItemGUID like the
// teacher's ItemRepository keys by PartNumber.
type SpecRepository struct {
	specs    []entities.BakeSpec
	specsMap map[entities.ItemGUID]int
}

// NewSpecRepository creates an empty in-memory spec repository.
func NewSpecRepository() *SpecRepository {
	return &SpecRepository{
		specs:    make([]entities.BakeSpec, 0),
		specsMap: make(map[entities.ItemGUID]int),
	}
}

var _ repositories.SpecStore = (*SpecRepository)(nil)

// AddSpec adds or replaces a bake spec.
func (r *SpecRepository) AddSpec(spec entities.BakeSpec) {
	if idx, exists := r.specsMap[spec.ItemGUID]; exists {
		r.specs[idx] = spec
		return
	}
	r.specsMap[spec.ItemGUID] = len(r.specs)
	r.specs = append(r.specs, spec)
}

// GetSpec returns the bake spec for an item.
func (r *SpecRepository) GetSpec(ctx context.Context, item entities.ItemGUID) (*entities.BakeSpec, error) {
	idx, exists := r.specsMap[item]
	if !exists {
		return nil, domainerrors.Newf(domainerrors.NotFound, "bake spec not found: %s", item)
	}
	spec := r.specs[idx]
	return &spec, nil
}

// GetActiveSpecs returns every spec with Active set, in load order.
func (r *SpecRepository) GetActiveSpecs(ctx context.Context) ([]*entities.BakeSpec, error) {
	active := make([]*entities.BakeSpec, 0, len(r.specs))
	for i := range r.specs {
		if r.specs[i].Active {
			spec := r.specs[i]
			active = append(active, &spec)
		}
	}
	return active, nil
}

package services

import (
	"encoding/json"

	"tireshop/internal/domain"
	"tireshop/internal/repos"
)

type CatalogService struct {
	Prods *repos.ProductRepo
}

func NewCatalogService(prods *repos.ProductRepo) *CatalogService {
	return &CatalogService{Prods: prods}
}

// List returns the storefront catalog, newest first, with specs decoded.
// includeInactive is the privileged variant and must be gated by the
// caller via the admin gate.
func (s *CatalogService) List(includeInactive bool) ([]domain.Product, error) {
	out, err := s.Prods.List(includeInactive)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Specs = decodeSpecs(out[i].SpecsJSON)
	}
	return out, nil
}

func decodeSpecs(raw string) []string {
	if raw == "" {
		return []string{}
	}
	var specs []string
	if err := json.Unmarshal([]byte(raw), &specs); err != nil || specs == nil {
		return []string{}
	}
	return specs
}

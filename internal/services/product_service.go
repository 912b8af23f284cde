package services

import (
	"context"
	"strings"

	"github.com/milan1710/mern-ayurveda/internal/cache"
	"github.com/milan1710/mern-ayurveda/internal/models"
)

type ProductService struct {
	Repo      ProductStore
	publicURL string
}

// NewProductService builds the catalog service. publicURL is the externally
// reachable API base used to absolutize relative upload paths.
func NewProductService(repo ProductStore, publicURL string) *ProductService {
	return &ProductService{
		Repo:      repo,
		publicURL: strings.TrimRight(publicURL, "/"),
	}
}

// SanitizeImageURLs drops browser-local references, absolutizes relative
// upload paths and de-duplicates case-insensitively, keeping first occurrence.
func (s *ProductService) SanitizeImageURLs(urls []string) []string {
	seen := make(map[string]bool)
	out := make([]string, 0, len(urls))

	for _, raw := range urls {
		u := strings.TrimSpace(raw)
		if u == "" {
			continue
		}
		lower := strings.ToLower(u)
		// blob: and data: URLs only exist inside the submitting browser
		if strings.HasPrefix(lower, "blob:") || strings.HasPrefix(lower, "data:") {
			continue
		}
		if strings.HasPrefix(u, "/uploads/") && s.publicURL != "" {
			u = s.publicURL + u
			lower = strings.ToLower(u)
		}
		if seen[lower] {
			continue
		}
		seen[lower] = true
		out = append(out, u)
	}
	return out
}

func (s *ProductService) Create(ctx context.Context, req *models.CreateProductRequest, actor *models.User) (*models.Product, error) {
	actorID := actor.ID
	p := &models.Product{
		Name:          req.Name,
		SKU:           strings.TrimSpace(req.SKU),
		Price:         req.Price,
		OldPrice:      req.OldPrice,
		Stock:         req.Stock,
		Description:   req.Description,
		Images:        s.SanitizeImageURLs(req.Images),
		Featured:      req.Featured,
		CategoryID:    req.CategoryID,
		CollectionID:  req.CollectionID,
		CreatedBy:     &actorID,
		CreatedByRole: actor.Role,
		AssignedTo:    req.AssignedTo,
	}
	if err := s.Repo.Create(ctx, p); err != nil {
		return nil, err
	}
	cache.InvalidateProductCaches(ctx)
	return p, nil
}

func (s *ProductService) Get(ctx context.Context, id int) (*models.Product, error) {
	return s.Repo.Get(ctx, id)
}

func (s *ProductService) List(ctx context.Context, filter models.ProductListFilter) ([]*models.Product, error) {
	return s.Repo.List(ctx, filter)
}

func (s *ProductService) Update(ctx context.Context, id int, req *models.CreateProductRequest) (*models.Product, error) {
	p, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	p.Name = req.Name
	p.SKU = strings.TrimSpace(req.SKU)
	p.Price = req.Price
	p.OldPrice = req.OldPrice
	p.Stock = req.Stock
	p.Description = req.Description
	p.Images = s.SanitizeImageURLs(req.Images)
	p.Featured = req.Featured
	p.CategoryID = req.CategoryID
	p.CollectionID = req.CollectionID
	p.AssignedTo = req.AssignedTo

	if err := s.Repo.Update(ctx, p); err != nil {
		return nil, err
	}
	cache.InvalidateProductCaches(ctx)
	return p, nil
}

func (s *ProductService) Delete(ctx context.Context, id int) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	cache.InvalidateProductCaches(ctx)
	return nil
}

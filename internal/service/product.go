package service

import (
	"context"

	"github.com/Skotchmaster/shofy/internal/events"
	"github.com/Skotchmaster/shofy/internal/models"
	"github.com/Skotchmaster/shofy/internal/search"
	"github.com/Skotchmaster/shofy/internal/transport"
	"github.com/Skotchmaster/shofy/internal/validation"
	"github.com/Skotchmaster/shofy/pkg/logging"
)

const SearchSize = 20

type ProductRepo interface {
	GetStore(ctx context.Context, userID uint) (*models.Store, error)
	ListProducts(ctx context.Context) ([]models.Product, error)
	ListProductsByIDs(ctx context.Context, ids []uint) ([]models.Product, error)
	GetProduct(ctx context.Context, id uint) (*models.Product, error)
	CreateProduct(ctx context.Context, product *models.Product) error
	UpdateProduct(ctx context.Context, product *models.Product) error
	DeleteProduct(ctx context.Context, id uint) (*models.Product, error)
}

type ProductService struct {
	Repo   ProductRepo
	Events events.Publisher
	Index  search.Index
}

func (s *ProductService) List(ctx context.Context) ([]models.Product, error) {
	return s.Repo.ListProducts(ctx)
}

func (s *ProductService) Get(ctx context.Context, id uint) (*models.Product, error) {
	product, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		return nil, notFound(err, "product")
	}
	return product, nil
}

func (s *ProductService) Create(ctx context.Context, f transport.ProductFields) (*models.Product, error) {
	storeID := transport.Deref(f.StoreID)
	if _, err := s.Repo.GetStore(ctx, storeID); err != nil {
		return nil, reference(err, "Store", storeID)
	}

	product := models.Product{StoreID: storeID}
	f.ApplyTo(&product)
	var missing []validation.FieldError
	if f.Price == nil {
		missing = append(missing, validation.Required("price"))
	}
	if f.Quantity == nil {
		missing = append(missing, validation.Required("quantity"))
	}
	if err := validation.Join(validation.Struct(product), missing...); err != nil {
		return nil, err
	}

	if err := s.Repo.CreateProduct(ctx, &product); err != nil {
		return nil, err
	}

	s.index(ctx, product)
	publish(ctx, s.Events, events.TopicProducts, "product_created", product.ID, product)
	return &product, nil
}

// Update merges f into the stored product. store_id is not changeable.
func (s *ProductService) Update(ctx context.Context, id uint, f transport.ProductFields) (*models.Product, error) {
	product, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		return nil, notFound(err, "product")
	}

	f.ApplyTo(product)
	if err := validation.Struct(*product); err != nil {
		return nil, err
	}

	if err := s.Repo.UpdateProduct(ctx, product); err != nil {
		return nil, notFound(err, "product")
	}

	s.index(ctx, *product)
	publish(ctx, s.Events, events.TopicProducts, "product_updated", product.ID, product)
	return product, nil
}

func (s *ProductService) Delete(ctx context.Context, id uint) (*models.Product, error) {
	product, err := s.Repo.DeleteProduct(ctx, id)
	if err != nil {
		return nil, notFound(err, "product")
	}

	if s.Index != nil {
		if err := s.Index.DeleteProduct(ctx, product.ID); err != nil {
			logging.FromContext(ctx).Error("unindex_product_error", "product_id", product.ID, "error", err)
		}
	}
	publish(ctx, s.Events, events.TopicProducts, "product_deleted", product.ID, nil)
	return product, nil
}

// Search queries the product index and answers with the stored rows, in hit
// order. Hits whose product no longer exists are dropped; Total is the index's
// own hit count.
func (s *ProductService) Search(ctx context.Context, query string) (*transport.SearchResult, error) {
	if s.Index == nil {
		return nil, search.ErrDisabled
	}

	total, hits, err := s.Index.Search(ctx, query, SearchSize)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(hits))
	for _, h := range hits {
		ids = append(ids, h.ID)
	}
	stored, err := s.Repo.ListProductsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[uint]models.Product, len(stored))
	for _, p := range stored {
		byID[p.ID] = p
	}
	out := make([]models.Product, 0, len(stored))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return &transport.SearchResult{Total: total, Products: out}, nil
}

func (s *ProductService) index(ctx context.Context, p models.Product) {
	if s.Index == nil {
		return
	}
	if err := s.Index.IndexProduct(ctx, p); err != nil {
		logging.FromContext(ctx).Error("index_product_error", "product_id", p.ID, "error", err)
	}
}

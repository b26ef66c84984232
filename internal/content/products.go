package content

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/demolux/storefront/internal/catalog"
	"github.com/demolux/storefront/internal/cms"
	pkgerrors "github.com/demolux/storefront/pkg/errors"
)

// The delivery API caps a page of entries at 100.
const maxPageSize = 100

// GetProducts lists products, optionally filtered by category and featured flag.
func (s *service) GetProducts(ctx context.Context, q ProductQuery) ([]catalog.Product, error) {
	where := map[string]any{}
	if category := strings.TrimSpace(q.Category); category != "" {
		where["category"] = category
	}
	if q.Featured {
		where["featured"] = true
	}
	entries, err := s.client.Entries(ctx, cms.Query{
		ContentType: cms.ContentTypeProduct,
		Where:       where,
		Limit:       q.Limit,
		Variants:    q.Variants,
	})
	if err != nil {
		return nil, err
	}
	return s.decodeProducts(ctx, entries)
}

// GetAllProducts pages through the whole catalog, without personalization.
func (s *service) GetAllProducts(ctx context.Context) ([]catalog.Product, error) {
	var all []catalog.Product
	for skip := 0; ; skip += maxPageSize {
		entries, err := s.client.Entries(ctx, cms.Query{
			ContentType: cms.ContentTypeProduct,
			Limit:       maxPageSize,
			Skip:        skip,
		})
		if err != nil {
			return nil, err
		}
		products, err := s.decodeProducts(ctx, entries)
		if err != nil {
			return nil, err
		}
		all = append(all, products...)
		if len(entries) < maxPageSize {
			return all, nil
		}
	}
}

// GetProductBySlug finds a product by its url handle. A missing product is a NOT_FOUND error.
func (s *service) GetProductBySlug(ctx context.Context, slug string, variants []string) (*catalog.Product, error) {
	slug = strings.Trim(strings.TrimSpace(slug), "/")
	if slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product slug is required")
	}

	for _, where := range []map[string]any{
		{"url": "/products/" + slug},
		{"slug": slug},
	} {
		entries, err := s.client.Entries(ctx, cms.Query{
			ContentType: cms.ContentTypeProduct,
			Where:       where,
			Limit:       1,
			Variants:    variants,
		})
		if err != nil {
			return nil, err
		}
		products, err := s.decodeProducts(ctx, entries)
		if err != nil {
			return nil, err
		}
		if len(products) > 0 {
			return &products[0], nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
}

func (s *service) decodeProducts(ctx context.Context, entries []json.RawMessage) ([]catalog.Product, error) {
	products, err := decodeEntries[catalog.Product](entries)
	if err != nil {
		if len(products) == 0 && len(entries) > 0 {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode products")
		}
		s.warn(ctx, "content.product_decode_failed", err, nil)
	}
	return products, nil
}

// GetBlogPosts lists the most recent posts.
func (s *service) GetBlogPosts(ctx context.Context, limit int) ([]catalog.BlogPost, error) {
	entries, err := s.client.Entries(ctx, cms.Query{ContentType: cms.ContentTypeBlogPost, Limit: limit})
	if err != nil {
		return nil, err
	}
	posts, err := decodeEntries[catalog.BlogPost](entries)
	if err != nil {
		s.warn(ctx, "content.blog_decode_failed", err, nil)
	}
	return posts, nil
}

func (s *service) GetCollections(ctx context.Context) ([]catalog.Collection, error) {
	entries, err := s.client.Entries(ctx, cms.Query{ContentType: cms.ContentTypeCollection})
	if err != nil {
		return nil, err
	}
	collections, err := decodeEntries[catalog.Collection](entries)
	if err != nil {
		s.warn(ctx, "content.collection_decode_failed", err, nil)
	}
	return collections, nil
}

func (s *service) GetLookbooks(ctx context.Context) ([]catalog.Lookbook, error) {
	entries, err := s.client.Entries(ctx, cms.Query{ContentType: cms.ContentTypeLookbook})
	if err != nil {
		return nil, err
	}
	lookbooks, err := decodeEntries[catalog.Lookbook](entries)
	if err != nil {
		s.warn(ctx, "content.lookbook_decode_failed", err, nil)
	}
	return lookbooks, nil
}

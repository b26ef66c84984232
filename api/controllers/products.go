package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/demolux/storefront/api/responses"
	"github.com/demolux/storefront/api/validators"
	"github.com/demolux/storefront/internal/content"
	"github.com/demolux/storefront/internal/personalize"
	"github.com/demolux/storefront/internal/search"
	pkgerrors "github.com/demolux/storefront/pkg/errors"
	"github.com/demolux/storefront/pkg/logger"
)

const maxSlugLength = 200

type personalizedProductRequest struct {
	Slug           string          `json:"slug"`
	VariantAliases json.RawMessage `json:"variantAliases"`
}

// PersonalizedProduct fetches one product with the caller's variant aliases applied.
// GET reads ?slug= and ?variantAliases= (falling back to the variants cookie);
// POST takes {slug, variantAliases[]} and requires the aliases to be an array.
func PersonalizedProduct(svc content.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "content service unavailable"))
			return
		}

		var (
			slug     string
			variants []string
		)
		if r.Method == http.MethodPost {
			var payload personalizedProductRequest
			if err := validators.DecodeJSONBody(r, &payload); err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
			aliases, err := decodeAliases(payload.VariantAliases)
			if err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
			slug, variants = payload.Slug, aliases
		} else {
			slug = r.URL.Query().Get("slug")
			variants = validators.ParseQueryList(r, "variantAliases")
			if variants == nil {
				variants = personalize.VariantsFromContext(ctx)
			}
		}

		slug = validators.SanitizeString(slug, maxSlugLength)
		if slug == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "slug is required").
				WithDetails(map[string]string{"slug": "is required"}))
			return
		}

		product, err := svc.GetProductBySlug(ctx, slug, variants)
		if err != nil {
			if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) && !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
				err = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to fetch product")
			}
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

func decodeAliases(raw json.RawMessage) ([]string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "variantAliases must be an array").
			WithDetails(map[string]string{"variantAliases": "must be an array"})
	}
	var aliases []string
	if err := json.Unmarshal(trimmed, &aliases); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "variantAliases must be an array of strings").
			WithDetails(map[string]string{"variantAliases": "must be an array of strings"})
	}
	out := make([]string, 0, len(aliases))
	for _, alias := range aliases {
		if alias = strings.TrimSpace(alias); alias != "" {
			out = append(out, alias)
		}
	}
	return out, nil
}

// Products returns the full, unfiltered catalog for client-side search.
func Products(svc content.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "content service unavailable"))
			return
		}
		products, err := svc.GetAllProducts(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to fetch products"))
			return
		}
		responses.WriteSuccess(w, products)
	}
}

// Search queries the product index with ?q= and an optional ?limit=.
func Search(index *search.Index, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if index == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "search unavailable"))
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", search.DefaultLimit, 1, 100)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		query := validators.SanitizeString(r.URL.Query().Get("q"), maxSlugLength)
		results, err := index.Search(ctx, query, limit)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"query":   query,
			"results": results,
		})
	}
}

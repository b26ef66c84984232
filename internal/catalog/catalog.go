// Package catalog holds the read-only CMS entities shared by blocks, cart and content.
package catalog

import (
	"path"
	"strings"

	"github.com/shopspring/decimal"
)

// Asset is a Contentstack file reference.
type Asset struct {
	UID         string `json:"uid,omitempty"`
	URL         string `json:"url"`
	Title       string `json:"title,omitempty"`
	Filename    string `json:"filename,omitempty"`
	Description string `json:"description,omitempty"`
}

// Alt returns the best available alternative text.
func (a *Asset) Alt() string {
	if a == nil {
		return ""
	}
	for _, candidate := range []string{a.Description, a.Title, a.Filename} {
		if strings.TrimSpace(candidate) != "" {
			return candidate
		}
	}
	return ""
}

// Present reports whether the asset points at something renderable.
func (a *Asset) Present() bool {
	return a != nil && strings.TrimSpace(a.URL) != ""
}

// VariantInfo is attached by the delivery API when a personalized variant was served.
type VariantInfo struct {
	UID string `json:"_uid,omitempty"`
}

// Product is a catalog entry. Prices are decimal; the CMS sends them as numbers.
type Product struct {
	UID              string          `json:"uid"`
	Title            string          `json:"title"`
	URL              string          `json:"url,omitempty"`
	Slug             string          `json:"slug,omitempty"`
	Price            decimal.Decimal `json:"price"`
	Description      string          `json:"description,omitempty"`
	Category         string          `json:"category,omitempty"`
	FeaturedImage    *Asset          `json:"featured_image,omitempty"`
	AdditionalImages []Asset         `json:"additional_images,omitempty"`
	Featured         bool            `json:"featured,omitempty"`
	Variant          *VariantInfo    `json:"_variant,omitempty"`
}

// Handle is the product's URL slug, derived from the url field when slug is empty.
func (p Product) Handle() string {
	if s := strings.TrimSpace(p.Slug); s != "" {
		return s
	}
	u := strings.TrimSuffix(strings.TrimSpace(p.URL), "/")
	if u == "" {
		return ""
	}
	return path.Base(u)
}

// Href is the storefront path of the product detail page.
func (p Product) Href() string {
	if h := p.Handle(); h != "" {
		return "/products/" + h
	}
	return "/products"
}

// BlogPost is an editorial entry listed by featured grids.
type BlogPost struct {
	UID           string   `json:"uid"`
	Title         string   `json:"title"`
	URL           string   `json:"url,omitempty"`
	Excerpt       string   `json:"excerpt,omitempty"`
	Content       string   `json:"content,omitempty"`
	Author        string   `json:"author,omitempty"`
	PublishDate   string   `json:"publish_date,omitempty"`
	FeaturedImage *Asset   `json:"featured_image,omitempty"`
	Tags          []string `json:"tags,omitempty"`
}

// Collection groups products under a merchandising theme.
type Collection struct {
	UID           string    `json:"uid"`
	Title         string    `json:"title"`
	URL           string    `json:"url,omitempty"`
	Description   string    `json:"description,omitempty"`
	FeaturedImage *Asset    `json:"featured_image,omitempty"`
	Products      []Product `json:"products,omitempty"`
}

// Lookbook is an editorial gallery of styled products.
type Lookbook struct {
	UID         string    `json:"uid"`
	Title       string    `json:"title"`
	URL         string    `json:"url,omitempty"`
	Description string    `json:"description,omitempty"`
	Season      string    `json:"season,omitempty"`
	Images      []Asset   `json:"images,omitempty"`
	Products    []Product `json:"products,omitempty"`
}

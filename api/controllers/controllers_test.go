package controllers

import (
	"encoding/json"
	"testing"

	"github.com/demolux/storefront/internal/content"
	pkgerrors "github.com/demolux/storefront/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeAliases(t *testing.T) {
	aliases, err := decodeAliases(json.RawMessage(` ["cs_personalize_0_1", " ", "cs_personalize_1_0"]`))
	require.NoError(t, err)
	assert.Equal(t, []string{"cs_personalize_0_1", "cs_personalize_1_0"}, aliases)

	aliases, err = decodeAliases(json.RawMessage(`[]`))
	require.NoError(t, err)
	assert.Empty(t, aliases)

	for _, raw := range []string{``, `null`, `"cs_personalize_0_1"`, `{"a":1}`, `[1,2]`} {
		_, err := decodeAliases(json.RawMessage(raw))
		assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), "input %q", raw)
	}
}

func TestPageMeta(t *testing.T) {
	sf := Storefront{BaseURL: "https://demolux.example/"}

	meta := sf.pageMeta(&content.Page{Title: "About", URL: "/about"})
	assert.Equal(t, "About", meta.Title)
	assert.Equal(t, "https://demolux.example/about", meta.Canonical)

	meta = sf.pageMeta(&content.Page{
		Title: "About",
		URL:   "/about",
		SEO:   content.SEO{MetaTitle: "Our story", CanonicalURL: "https://elsewhere.example/story", NoIndex: true},
	})
	assert.Equal(t, "Our story", meta.Title)
	assert.Equal(t, "https://elsewhere.example/story", meta.Canonical)
	assert.True(t, meta.NoIndex)

	assert.Empty(t, Storefront{}.canonical("/about"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate(" short ", 10))
	assert.Equal(t, "abcd…", truncate("abcdefghij", 5))
}

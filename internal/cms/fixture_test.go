package cms

import (
	"context"
	"encoding/json"
	"testing"
	"testing/fstest"

	pkgerrors "github.com/demolux/storefront/pkg/errors"
)

func decodeEntries(t *testing.T, raw []json.RawMessage) []map[string]any {
	t.Helper()
	out := make([]map[string]any, 0, len(raw))
	for _, r := range raw {
		var m map[string]any
		if err := json.Unmarshal(r, &m); err != nil {
			t.Fatalf("decode entry: %v", err)
		}
		out = append(out, m)
	}
	return out
}

func TestEmbeddedFixturesLoad(t *testing.T) {
	client, err := NewFixtureClient()
	if err != nil {
		t.Fatalf("load fixtures: %v", err)
	}
	for _, ct := range []string{
		ContentTypePage,
		ContentTypeNavigation,
		ContentTypeSiteSettings,
		ContentTypeProduct,
		ContentTypeBlogPost,
		ContentTypeCollection,
		ContentTypeLookbook,
	} {
		entries, err := client.Entries(context.Background(), Query{ContentType: ct})
		if err != nil {
			t.Fatalf("%s: %v", ct, err)
		}
		if len(entries) == 0 {
			t.Fatalf("expected demo entries for %s", ct)
		}
	}
}

func TestFixtureClientFiltersAndPages(t *testing.T) {
	fsys := fstest.MapFS{
		"data/product.json": {Data: []byte(`{"entries":[
			{"uid":"a","category":"bags","featured":true,"price":10},
			{"uid":"b","category":"shoes","featured":true,"price":20},
			{"uid":"c","category":"bags","featured":false,"price":30},
			{"uid":"d","category":"bags","featured":true,"price":40}
		]}`)},
		"data/README.md": {Data: []byte("ignored")},
	}
	client, err := NewFixtureClientFS(fsys, "data")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	ctx := context.Background()

	raw, err := client.Entries(ctx, Query{ContentType: ContentTypeProduct, Where: map[string]any{"category": "bags", "featured": true}})
	if err != nil {
		t.Fatalf("entries: %v", err)
	}
	got := decodeEntries(t, raw)
	if len(got) != 2 || got[0]["uid"] != "a" || got[1]["uid"] != "d" {
		t.Fatalf("unexpected filter result %v", got)
	}

	raw, _ = client.Entries(ctx, Query{ContentType: ContentTypeProduct, Skip: 1, Limit: 2})
	got = decodeEntries(t, raw)
	if len(got) != 2 || got[0]["uid"] != "b" || got[1]["uid"] != "c" {
		t.Fatalf("unexpected page %v", got)
	}

	raw, _ = client.Entries(ctx, Query{ContentType: ContentTypeProduct, Where: map[string]any{"uid": map[string]any{"$in": []string{"c", "b"}}}})
	if got = decodeEntries(t, raw); len(got) != 2 {
		t.Fatalf("expected $in to match two entries, got %v", got)
	}

	raw, _ = client.Entries(ctx, Query{ContentType: ContentTypeProduct, Where: map[string]any{"price": 20}})
	if got = decodeEntries(t, raw); len(got) != 1 || got[0]["uid"] != "b" {
		t.Fatalf("expected numeric match, got %v", got)
	}

	raw, _ = client.Entries(ctx, Query{ContentType: "unknown_type"})
	if len(raw) != 0 {
		t.Fatalf("expected empty result for unknown content type")
	}
}

func TestFixtureClientAppliesVariants(t *testing.T) {
	fsys := fstest.MapFS{
		"f/product.json": {Data: []byte(`{"entries":[
			{"uid":"a","title":"Base","price":10,"_variants":{"v1":{"title":"Variant One"},"v2":{"price":5}}}
		]}`)},
	}
	client, err := NewFixtureClientFS(fsys, "f")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	ctx := context.Background()

	raw, err := client.Entry(ctx, Query{ContentType: ContentTypeProduct}, "a")
	if err != nil {
		t.Fatalf("entry: %v", err)
	}
	base := decodeEntries(t, []json.RawMessage{raw})[0]
	if base["title"] != "Base" {
		t.Fatalf("unexpected base title %v", base["title"])
	}
	if _, ok := base["_variants"]; ok {
		t.Fatalf("variant overrides must not leak into entries")
	}
	if _, ok := base["_variant"]; ok {
		t.Fatalf("base entry must not claim a variant")
	}

	raw, _ = client.Entry(ctx, Query{ContentType: ContentTypeProduct, Variants: []string{"nope", "v2", "v1"}}, "a")
	variant := decodeEntries(t, []json.RawMessage{raw})[0]
	if variant["price"] != float64(5) || variant["title"] != "Base" {
		t.Fatalf("expected first matching alias to apply, got %v", variant)
	}
	if tag, _ := variant["_variant"].(map[string]any); tag["_uid"] != "v2" {
		t.Fatalf("expected _variant tag, got %v", variant["_variant"])
	}

	if _, err := client.Entry(ctx, Query{ContentType: ContentTypeProduct}, "zzz"); !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

package cms

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"reflect"
	"strings"

	pkgerrors "github.com/demolux/storefront/pkg/errors"
)

//go:embed fixtures/*.json
var fixtureFS embed.FS

const (
	variantsField = "_variants"
	variantField  = "_variant"
)

// FixtureClient serves the embedded demo stack. It is used when no delivery
// credentials are configured, and in tests.
//
// Fixture entries may carry a "_variants" object keyed by variant alias; when a
// query names one of those aliases its fields are merged over the base entry.
type FixtureClient struct {
	entries map[string][]map[string]any
}

// NewFixtureClient loads the embedded demo content.
func NewFixtureClient() (*FixtureClient, error) {
	return NewFixtureClientFS(fixtureFS, "fixtures")
}

// NewFixtureClientFS loads fixtures from dir, one <content_type>.json file per type.
func NewFixtureClientFS(fsys fs.FS, dir string) (*FixtureClient, error) {
	files, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read fixtures: %w", err)
	}
	client := &FixtureClient{entries: map[string][]map[string]any{}}
	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".json") {
			continue
		}
		raw, err := fs.ReadFile(fsys, path.Join(dir, file.Name()))
		if err != nil {
			return nil, fmt.Errorf("read fixture %s: %w", file.Name(), err)
		}
		var payload struct {
			Entries []map[string]any `json:"entries"`
		}
		if err := json.Unmarshal(raw, &payload); err != nil {
			return nil, fmt.Errorf("decode fixture %s: %w", file.Name(), err)
		}
		client.entries[strings.TrimSuffix(file.Name(), ".json")] = payload.Entries
	}
	return client, nil
}

func (f *FixtureClient) Entries(ctx context.Context, q Query) ([]json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	where, err := normalizeWhere(q.Where)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "encode entry query")
	}

	out := []json.RawMessage{}
	skipped := 0
	for _, entry := range f.entries[q.ContentType] {
		if !matches(entry, where) {
			continue
		}
		if skipped < q.Skip {
			skipped++
			continue
		}
		raw, err := json.Marshal(applyVariants(entry, q.Variants))
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode fixture entry")
		}
		out = append(out, raw)
		if q.Limit > 0 && len(out) == q.Limit {
			break
		}
	}
	return out, nil
}

func (f *FixtureClient) Entry(ctx context.Context, q Query, uid string) (json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, entry := range f.entries[q.ContentType] {
		if entry["uid"] != uid {
			continue
		}
		raw, err := json.Marshal(applyVariants(entry, q.Variants))
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode fixture entry")
		}
		return raw, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "entry not found")
}

// normalizeWhere round-trips the query through JSON so comparisons see decoded types.
func normalizeWhere(where map[string]any) (map[string]any, error) {
	if len(where) == 0 {
		return nil, nil
	}
	raw, err := json.Marshal(where)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func matches(entry map[string]any, where map[string]any) bool {
	for field, want := range where {
		got := entry[field]
		if ops, ok := want.(map[string]any); ok {
			if in, ok := ops["$in"].([]any); ok {
				if !containsValue(in, got) {
					return false
				}
				continue
			}
		}
		if !reflect.DeepEqual(got, want) {
			return false
		}
	}
	return true
}

func containsValue(values []any, v any) bool {
	for _, candidate := range values {
		if reflect.DeepEqual(candidate, v) {
			return true
		}
	}
	return false
}

func applyVariants(entry map[string]any, aliases []string) map[string]any {
	out := make(map[string]any, len(entry))
	for k, v := range entry {
		if k == variantsField {
			continue
		}
		out[k] = v
	}
	overrides, _ := entry[variantsField].(map[string]any)
	for _, alias := range aliases {
		fields, ok := overrides[alias].(map[string]any)
		if !ok {
			continue
		}
		for k, v := range fields {
			out[k] = v
		}
		out[variantField] = map[string]any{"_uid": alias}
		break
	}
	return out
}

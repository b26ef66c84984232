package blocks

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/multierr"
)

const (
	typeField        = "block_type"
	contentTypeField = "_content_type_uid"
	uidField         = "uid"
)

var errNoType = errors.New("section carries no block type")

// Reference is an unresolved pointer to a block stored as its own entry.
type Reference struct {
	UID         string
	ContentType string
}

// Decode turns one raw section into a Section.
//
// Two shapes are accepted: an object with a block_type (or _content_type_uid) field,
// and the modular-blocks shape {"<block_type>": {...}}. Unrecognized types decode to
// UnknownBlock without error. A payload that fails to decode also yields UnknownBlock,
// together with the error.
func Decode(raw json.RawMessage) (Section, error) {
	blockType, payload, err := split(raw)
	if err != nil {
		return &UnknownBlock{Raw: raw}, err
	}

	target := newPayload(Type(blockType))
	if target == nil {
		return &UnknownBlock{RawType: blockType, Raw: raw}, nil
	}
	if err := json.Unmarshal(payload, target); err != nil {
		return &UnknownBlock{RawType: blockType, Raw: raw}, fmt.Errorf("decoding %s: %w", blockType, err)
	}
	return target, nil
}

// DecodeList decodes sections in order. Broken sections degrade to UnknownBlock and
// their errors are combined; the returned slice always has len(raw) entries.
func DecodeList(raw []json.RawMessage) ([]Section, error) {
	sections := make([]Section, 0, len(raw))
	var errs error
	for i, item := range raw {
		section, err := Decode(item)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("section %d: %w", i, err))
		}
		sections = append(sections, section)
	}
	return sections, errs
}

// AsReference reports whether raw is a bare {uid, _content_type_uid} entry reference.
func AsReference(raw json.RawMessage) (Reference, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return Reference{}, false
	}
	if len(fields) != 2 {
		return Reference{}, false
	}
	var ref Reference
	if err := unmarshalString(fields[uidField], &ref.UID); err != nil || ref.UID == "" {
		return Reference{}, false
	}
	if err := unmarshalString(fields[contentTypeField], &ref.ContentType); err != nil || ref.ContentType == "" {
		return Reference{}, false
	}
	return ref, true
}

func split(raw json.RawMessage) (string, json.RawMessage, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return "", nil, errors.New("section is not a JSON object")
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return "", nil, fmt.Errorf("parsing section: %w", err)
	}

	for _, key := range []string{typeField, contentTypeField} {
		if v, ok := fields[key]; ok {
			var blockType string
			if err := unmarshalString(v, &blockType); err != nil {
				return "", nil, fmt.Errorf("%s: %w", key, err)
			}
			if blockType != "" {
				return blockType, raw, nil
			}
		}
	}

	// Modular blocks wrap the payload under a single key naming the type.
	// Underscore keys are CMS metadata and are ignored.
	var (
		blockType string
		payload   json.RawMessage
	)
	for key, v := range fields {
		if strings.HasPrefix(key, "_") || key == typeField {
			continue
		}
		if blockType != "" {
			return "", nil, errNoType
		}
		blockType, payload = key, v
	}
	if blockType == "" {
		return "", nil, errNoType
	}
	return blockType, payload, nil
}

func unmarshalString(raw json.RawMessage, dst *string) error {
	if raw == nil {
		return errors.New("missing")
	}
	return json.Unmarshal(raw, dst)
}

func newPayload(t Type) Section {
	switch t {
	case TypeHero:
		return &HeroBlock{}
	case TypeFeaturedContentGrid:
		return &FeaturedContentGridBlock{}
	case TypeValuesGrid:
		return &ValuesGridBlock{}
	case TypeCampaignCTA:
		return &CampaignCTABlock{}
	case TypeProcessSteps:
		return &ProcessStepsBlock{}
	case TypeStatistics:
		return &StatisticsBlock{}
	case TypeTestimonials:
		return &TestimonialsBlock{}
	case TypeFAQ:
		return &FAQBlock{}
	default:
		return nil
	}
}

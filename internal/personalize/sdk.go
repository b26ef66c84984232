package personalize

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/demolux/storefront/pkg/config"
	pkgerrors "github.com/demolux/storefront/pkg/errors"
)

// SDK returns the variant aliases active for a user.
type SDK interface {
	Variants(ctx context.Context, userUID string, attributes map[string]string) ([]string, error)
	Configured() bool
}

// Alias formats the variant alias of an experience/variant pair.
func Alias(experienceShortUID, variantShortUID string) string {
	return fmt.Sprintf("cs_personalize_%s_%s", experienceShortUID, variantShortUID)
}

// NewSDK selects the SDK for cfg: disabled when not configured, static when
// static variants are set, otherwise the edge client.
func NewSDK(cfg config.PersonalizeConfig, opts ...EdgeOption) (SDK, error) {
	if !cfg.Configured() {
		return DisabledSDK{}, nil
	}
	if len(cfg.StaticVariants) > 0 {
		return NewStaticSDK(cfg.StaticVariants...), nil
	}
	return NewEdgeClient(cfg, opts...)
}

// DisabledSDK makes no calls and returns no variants.
type DisabledSDK struct{}

func (DisabledSDK) Variants(context.Context, string, map[string]string) ([]string, error) {
	return nil, nil
}

func (DisabledSDK) Configured() bool { return false }

// StaticSDK always returns the same aliases.
type StaticSDK struct {
	aliases []string
}

func NewStaticSDK(aliases ...string) *StaticSDK {
	clean := make([]string, 0, len(aliases))
	for _, alias := range aliases {
		if alias = strings.TrimSpace(alias); alias != "" {
			clean = append(clean, alias)
		}
	}
	return &StaticSDK{aliases: clean}
}

func (s *StaticSDK) Variants(context.Context, string, map[string]string) ([]string, error) {
	return append([]string(nil), s.aliases...), nil
}

func (s *StaticSDK) Configured() bool { return true }

const (
	headerProjectUID = "x-project-uid"
	headerUserUID    = "x-cs-personalize-user-uid"
	edgeReadLimit    = 1024
)

// EdgeClient talks to the Personalize Edge API.
type EdgeClient struct {
	httpClient *http.Client
	baseURL    string
	projectUID string
}

// EdgeOption configures an EdgeClient.
type EdgeOption func(*EdgeClient)

// WithEdgeHTTPClient overrides the default HTTP client.
func WithEdgeHTTPClient(client *http.Client) EdgeOption {
	return func(c *EdgeClient) {
		if client != nil {
			c.httpClient = client
		}
	}
}

func NewEdgeClient(cfg config.PersonalizeConfig, opts ...EdgeOption) (*EdgeClient, error) {
	if strings.TrimSpace(cfg.ProjectUID) == "" {
		return nil, fmt.Errorf("personalize project uid is required")
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.EdgeURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("personalize edge url is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	c := &EdgeClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		projectUID: strings.TrimSpace(cfg.ProjectUID),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

func (c *EdgeClient) Configured() bool { return true }

type manifest struct {
	Experiences []struct {
		ShortUID              string `json:"shortUid"`
		ActiveVariantShortUID string `json:"activeVariantShortUid"`
	} `json:"experiences"`
}

// Variants pushes the live attributes for userUID, then reads the manifest and
// maps each experience with an active variant to its alias.
func (c *EdgeClient) Variants(ctx context.Context, userUID string, attributes map[string]string) ([]string, error) {
	if len(attributes) > 0 {
		body, err := json.Marshal(attributes)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode live attributes")
		}
		if err := c.do(ctx, http.MethodPatch, "/user-attributes", userUID, body, nil); err != nil {
			return nil, err
		}
	}

	var m manifest
	if err := c.do(ctx, http.MethodGet, "/manifest", userUID, nil, &m); err != nil {
		return nil, err
	}
	aliases := make([]string, 0, len(m.Experiences))
	for _, exp := range m.Experiences {
		if exp.ShortUID == "" || exp.ActiveVariantShortUID == "" {
			continue
		}
		aliases = append(aliases, Alias(exp.ShortUID, exp.ActiveVariantShortUID))
	}
	return aliases, nil
}

func (c *EdgeClient) do(ctx context.Context, method, path, userUID string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build personalize request")
	}
	req.Header.Set(headerProjectUID, c.projectUID)
	if userUID != "" {
		req.Header.Set(headerUserUID, userUID)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute personalize request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, edgeReadLimit))
		return pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "personalize request failed")
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode personalize response")
	}
	return nil
}

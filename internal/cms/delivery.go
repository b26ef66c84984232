package cms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/demolux/storefront/pkg/config"
	pkgerrors "github.com/demolux/storefront/pkg/errors"
	"github.com/demolux/storefront/pkg/metrics"
)

const (
	defaultTimeout              = 10 * time.Second
	responseBodyReadLimit int64 = 1024

	headerAPIKey      = "api_key"
	headerAccessToken = "access_token"
	headerBranch      = "branch"
	headerVariantUID  = "x-cs-variant-uid"
)

var regionHosts = map[string]string{
	"us":       "https://cdn.contentstack.io",
	"eu":       "https://eu-cdn.contentstack.com",
	"azure-na": "https://azure-na-cdn.contentstack.com",
	"azure-eu": "https://azure-eu-cdn.contentstack.com",
	"gcp-na":   "https://gcp-na-cdn.contentstack.com",
}

var (
	errAPIKeyRequired        = errors.New("contentstack api key is required")
	errDeliveryTokenRequired = errors.New("contentstack delivery token is required")
	errUnknownRegion         = errors.New("unknown contentstack region")
)

// DeliveryClient calls the Content Delivery REST API.
type DeliveryClient struct {
	httpClient  *http.Client
	baseURL     string
	apiKey      string
	token       string
	environment string
	branch      string
	locale      string
	metrics     *metrics.CMSMetrics
}

// Option configures optional client behavior.
type Option func(*DeliveryClient)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *DeliveryClient) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithMetrics records request durations and failures.
func WithMetrics(m *metrics.CMSMetrics) Option {
	return func(c *DeliveryClient) {
		c.metrics = m
	}
}

// BaseURL resolves the delivery host for cfg. An explicit base URL wins over the region.
func BaseURL(cfg config.ContentstackConfig) (string, error) {
	if trimmed := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"); trimmed != "" {
		return trimmed, nil
	}
	region := strings.ToLower(strings.TrimSpace(cfg.Region))
	if region == "" {
		region = "us"
	}
	host, ok := regionHosts[region]
	if !ok {
		return "", fmt.Errorf("%w %q", errUnknownRegion, cfg.Region)
	}
	return host, nil
}

// NewDeliveryClient builds a delivery client from the stack configuration.
func NewDeliveryClient(cfg config.ContentstackConfig, opts ...Option) (*DeliveryClient, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errAPIKeyRequired
	}
	if strings.TrimSpace(cfg.DeliveryToken) == "" {
		return nil, errDeliveryTokenRequired
	}
	baseURL, err := BaseURL(cfg)
	if err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	client := &DeliveryClient{
		httpClient:  &http.Client{Timeout: timeout},
		baseURL:     baseURL,
		apiKey:      strings.TrimSpace(cfg.APIKey),
		token:       strings.TrimSpace(cfg.DeliveryToken),
		environment: cfg.Environment,
		branch:      strings.TrimSpace(cfg.Branch),
		locale:      cfg.Locale,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

// Entries lists entries matching q.
func (c *DeliveryClient) Entries(ctx context.Context, q Query) ([]json.RawMessage, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotConfigured, "contentstack client not configured")
	}
	endpoint, err := c.buildURL(q, "")
	if err != nil {
		return nil, err
	}

	var payload struct {
		Entries []json.RawMessage `json:"entries"`
	}
	if err := c.get(ctx, q, endpoint, &payload); err != nil {
		return nil, err
	}
	return payload.Entries, nil
}

// Entry fetches a single entry by uid. A missing entry is a NOT_FOUND error.
func (c *DeliveryClient) Entry(ctx context.Context, q Query, uid string) (json.RawMessage, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotConfigured, "contentstack client not configured")
	}
	if strings.TrimSpace(uid) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "entry uid is required")
	}
	endpoint, err := c.buildURL(q, uid)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Entry json.RawMessage `json:"entry"`
	}
	if err := c.get(ctx, q, endpoint, &payload); err != nil {
		return nil, err
	}
	if len(payload.Entry) == 0 || string(payload.Entry) == "null" {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "entry not found")
	}
	return payload.Entry, nil
}

func (c *DeliveryClient) buildURL(q Query, uid string) (string, error) {
	if strings.TrimSpace(q.ContentType) == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "content type is required")
	}
	path := fmt.Sprintf("%s/v3/content_types/%s/entries", c.baseURL, url.PathEscape(q.ContentType))
	if uid != "" {
		path += "/" + url.PathEscape(uid)
	}

	params := url.Values{}
	if c.environment != "" {
		params.Set("environment", c.environment)
	}
	locale := q.Locale
	if locale == "" {
		locale = c.locale
	}
	if locale != "" {
		params.Set("locale", locale)
	}
	if len(q.Where) > 0 {
		where, err := json.Marshal(q.Where)
		if err != nil {
			return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "encode entry query")
		}
		params.Set("query", string(where))
	}
	for _, ref := range q.Include {
		params.Add("include[]", ref)
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Skip > 0 {
		params.Set("skip", strconv.Itoa(q.Skip))
	}
	if encoded := params.Encode(); encoded != "" {
		path += "?" + encoded
	}
	return path, nil
}

func (c *DeliveryClient) get(ctx context.Context, q Query, endpoint string, out any) error {
	start := time.Now()
	err := c.do(ctx, q, endpoint, out)
	c.metrics.ObserveRequest(q.ContentType, time.Since(start))
	if err != nil && !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		c.metrics.IncFailure(q.ContentType)
	}
	return err
}

func (c *DeliveryClient) do(ctx context.Context, q Query, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build contentstack request")
	}
	req.Header.Set(headerAPIKey, c.apiKey)
	req.Header.Set(headerAccessToken, c.token)
	req.Header.Set("Accept", "application/json")
	if c.branch != "" {
		req.Header.Set(headerBranch, c.branch)
	}
	if variants := normalizeVariants(q.Variants); len(variants) > 0 {
		req.Header.Set(headerVariantUID, strings.Join(variants, ","))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute contentstack request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusUnprocessableEntity {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "contentstack entry not found")
	}
	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
		return pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "contentstack request failed")
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode contentstack response")
	}
	return nil
}

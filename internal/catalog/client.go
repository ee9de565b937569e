package catalog

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

	"github.com/bazarly/storefront-backend/pkg/config"
	pkgerrors "github.com/bazarly/storefront-backend/pkg/errors"
	"github.com/bazarly/storefront-backend/pkg/logger"
)

var errLoggerRequired = errors.New("catalog logger is required")

const (
	defaultPerPage = 20
	maxPerPage     = 100
)

// Client consumes the commerce platform's products REST API with centralized
// auth, logging, and error mapping.
type Client struct {
	http    *http.Client
	baseURL *url.URL
	key     string
	secret  string
	logger  *logger.Logger
}

// NewClient validates the configuration and builds a catalog client.
func NewClient(cfg config.CommerceConfig, logg *logger.Logger) (*Client, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		return nil, errors.New("commerce base url is required")
	}
	parsed, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("parsing commerce base url: %w", err)
	}

	return &Client{
		http:    &http.Client{Timeout: cfg.Timeout},
		baseURL: parsed,
		key:     strings.TrimSpace(cfg.ConsumerKey),
		secret:  strings.TrimSpace(cfg.ConsumerSecret),
		logger:  logg,
	}, nil
}

// ListProducts fetches one catalog page.
func (c *Client) ListProducts(ctx context.Context, page, perPage int) ([]Product, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}

	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("per_page", strconv.Itoa(perPage))

	var products []Product
	if err := c.getJSON(ctx, "products", query, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// GetProduct fetches a single product snapshot by id.
func (c *Client) GetProduct(ctx context.Context, id int64) (*Product, error) {
	if id <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	var product Product
	if err := c.getJSON(ctx, fmt.Sprintf("products/%d", id), nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, dest any) error {
	endpoint := *c.baseURL
	endpoint.Path = strings.TrimRight(endpoint.Path, "/") + "/" + path

	if query == nil {
		query = url.Values{}
	}
	if c.key != "" {
		query.Set("consumer_key", c.key)
		query.Set("consumer_secret", c.secret)
	}
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build catalog request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error(ctx, "catalog.request_failed", err)
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reach commerce api")
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	case resp.StatusCode >= 400:
		err := fmt.Errorf("commerce api returned %d", resp.StatusCode)
		c.logger.Error(ctx, "catalog.bad_status", err)
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "commerce api error")
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode catalog response")
	}
	return nil
}

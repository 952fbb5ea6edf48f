package catalogapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hemantajax/connectclo/internal/domain"
)

const DefaultProductsURL = "https://fakestoreapi.com/products"

// Client reads the upstream products endpoint. It only ever issues GETs.
type Client struct {
	url    string
	client *http.Client
}

func NewClient(productsURL string, timeout time.Duration) *Client {
	if productsURL == "" {
		productsURL = DefaultProductsURL
	}
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Client{
		url: productsURL,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// FetchRaw returns the records exactly as the API sent them.
func (c *Client) FetchRaw(ctx context.Context) ([]RawProduct, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: status code %d", domain.ErrSourceUnavailable, resp.StatusCode)
	}

	var records []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	return DecodeRecords(records), nil
}

// DecodeRecords decodes each record on its own. A record that is not a JSON object
// becomes nil so positions, and the synthetic ids derived from them, stay stable.
func DecodeRecords(records []json.RawMessage) []RawProduct {
	raw := make([]RawProduct, len(records))
	for i, rec := range records {
		dec := json.NewDecoder(bytes.NewReader(rec))
		dec.UseNumber()
		var r RawProduct
		if err := dec.Decode(&r); err != nil {
			continue
		}
		raw[i] = r
	}
	return raw
}

// FetchProducts fetches and normalizes the catalog.
func (c *Client) FetchProducts(ctx context.Context) ([]domain.Product, error) {
	raw, err := c.FetchRaw(ctx)
	if err != nil {
		return nil, err
	}
	products := Normalize(raw)
	if dropped := len(raw) - len(products); dropped > 0 {
		log.Warn().Int("received", len(raw)).Int("dropped", dropped).Msg("malformed product records skipped")
	}
	log.Debug().Str("url", c.url).Int("products", len(products)).Msg("catalog fetched")
	return products, nil
}

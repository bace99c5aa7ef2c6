package catalog

import (
	"context"
	"io"
	"net/http"
	"strconv"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var _ Source = (*Client)(nil)

// Client implements Source against the catalog's HTTP API: three GET
// endpoints, no auth, JSON bodies. There is no retry, no pagination, and no
// caching here; the Snapshot source covers offline use.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a Client for the catalog at baseURL. When httpClient is
// nil, http.DefaultClient is used.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: baseURL, http: httpClient}
}

// Products lists the entire catalog.
func (c *Client) Products(ctx context.Context) ([]Product, error) {
	body, err := c.get(ctx, "/products")
	if err != nil {
		return nil, err
	}

	var products []Product
	d := jx.DecodeBytes(body)
	if err := d.Arr(func(d *jx.Decoder) error {
		p, err := decodeProduct(d)
		if err != nil {
			return err
		}
		products = append(products, p)
		return nil
	}); err != nil {
		return nil, errors.Wrap(err, "decode products")
	}
	return products, nil
}

// Product fetches a single product by ID. A missing product is ErrNotFound:
// the catalog answers either 404 or a null body for unknown IDs.
func (c *Client) Product(ctx context.Context, id int64) (*Product, error) {
	body, err := c.get(ctx, "/products/"+strconv.FormatInt(id, 10))
	if err != nil {
		return nil, err
	}

	d := jx.DecodeBytes(body)
	switch d.Next() {
	case jx.Null, jx.Invalid:
		return nil, ErrNotFound
	default:
	}

	p, err := decodeProduct(d)
	if err != nil {
		return nil, errors.Wrapf(err, "decode product %d", id)
	}
	return &p, nil
}

// Categories lists the catalog's category names.
func (c *Client) Categories(ctx context.Context) ([]string, error) {
	body, err := c.get(ctx, "/products/categories")
	if err != nil {
		return nil, err
	}

	var categories []string
	d := jx.DecodeBytes(body)
	if err := d.Arr(func(d *jx.Decoder) error {
		s, err := d.Str()
		if err != nil {
			return err
		}
		categories = append(categories, s)
		return nil
	}); err != nil {
		return nil, errors.Wrap(err, "decode categories")
	}
	return categories, nil
}

// get performs one catalog request. Every request carries a fresh
// X-Request-ID so failures can be correlated with the catalog's own logs.
func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "build request for %s", path)
	}

	requestID := uuid.New().String()
	req.Header.Set("X-Request-ID", requestID)
	req.Header.Set("Accept", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "get %s", path)
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if res.StatusCode != http.StatusOK {
		return nil, errors.Errorf("get %s: unexpected status %d", path, res.StatusCode)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s response", path)
	}

	zctx.From(ctx).Debug("catalog request",
		zap.String("path", path),
		zap.String("request_id", requestID),
		zap.Int("bytes", len(body)),
	)
	return body, nil
}

// decodeProduct reads one product object, skipping unknown fields so catalog
// additions do not break the client.
func decodeProduct(d *jx.Decoder) (Product, error) {
	var p Product
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "id":
			v, err := d.Int64()
			p.ID = v
			return err
		case "title":
			v, err := d.Str()
			p.Title = v
			return err
		case "price":
			num, err := d.Num()
			if err != nil {
				return err
			}
			price, err := decimal.NewFromString(num.String())
			if err != nil {
				return errors.Wrap(err, "parse price")
			}
			p.Price = price
			return nil
		case "description":
			v, err := d.Str()
			p.Description = v
			return err
		case "category":
			v, err := d.Str()
			p.Category = v
			return err
		case "image":
			v, err := d.Str()
			p.Image = v
			return err
		case "rating":
			return d.Obj(func(d *jx.Decoder, key string) error {
				switch key {
				case "rate":
					v, err := d.Float64()
					p.Rating.Rate = v
					return err
				case "count":
					v, err := d.Int()
					p.Rating.Count = v
					return err
				default:
					return d.Skip()
				}
			})
		default:
			return d.Skip()
		}
	}); err != nil {
		return Product{}, err
	}
	return p, nil
}

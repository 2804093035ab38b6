package stripe

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"net/url"
	"strconv"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/flaboy/aira-catalog/pkg/errors"
)

const (
	defaultAPIBase   = "https://api.stripe.com"
	defaultFilesBase = "https://files.stripe.com"

	// Stripe caps list page sizes at 100.
	MaxPageSize = 100
)

// Client is a thin typed client over the Stripe REST API. Construct one
// explicitly and pass it into each pipeline; the base URLs are fields so
// tests can point the client at a stub server.
type Client struct {
	APIBase   string
	FilesBase string

	secretKey string
	http      *fasthttp.Client
}

func NewClient(secretKey string) *Client {
	return &Client{
		APIBase:   defaultAPIBase,
		FilesBase: defaultFilesBase,
		secretKey: secretKey,
		http: &fasthttp.Client{
			ReadTimeout:  60 * time.Second,
			WriteTimeout: 60 * time.Second,
		},
	}
}

// ListProducts fetches one page of active products. The cursor is the id
// of the last item of the previous page; empty means the first page.
// pageSize is clamped to the service maximum.
func (c *Client) ListProducts(pageSize int, startingAfter string) ([]Product, bool, error) {
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	if pageSize < 1 {
		pageSize = 1
	}

	q := url.Values{}
	q.Set("active", "true")
	q.Set("limit", strconv.Itoa(pageSize))
	if startingAfter != "" {
		q.Set("starting_after", startingAfter)
	}

	var list productList
	if err := c.call("GET", c.APIBase, "/v1/products?"+q.Encode(), "", nil, &list); err != nil {
		return nil, false, err
	}
	return list.Data, list.HasMore, nil
}

// ListActivePrices returns the active prices of a product, in the
// service's order. The first element is treated as "the" price during
// export; an empty result means the product has no exportable price.
func (c *Client) ListActivePrices(productID string) ([]Price, error) {
	q := url.Values{}
	q.Set("product", productID)
	q.Set("active", "true")
	q.Set("limit", strconv.Itoa(MaxPageSize))

	var list priceList
	if err := c.call("GET", c.APIBase, "/v1/prices?"+q.Encode(), "", nil, &list); err != nil {
		return nil, err
	}
	return list.Data, nil
}

func (c *Client) CreateProduct(params *ProductParams) (*Product, error) {
	form := url.Values{}
	form.Set("name", params.Name)
	if params.Description != "" {
		form.Set("description", params.Description)
	}
	form.Set("metadata[code]", params.Code)
	if params.ImageURL != "" {
		form.Set("images[0]", params.ImageURL)
	}

	var product Product
	if err := c.callForm("/v1/products", form, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *Client) CreatePrice(productID string, unitAmount int64, currency, nickname string) (*Price, error) {
	if unitAmount <= 0 {
		return nil, errors.Newf(errors.ValidationError,
			"unit amount must be a positive integer, got %d", unitAmount)
	}

	form := url.Values{}
	form.Set("product", productID)
	form.Set("unit_amount", strconv.FormatInt(unitAmount, 10))
	form.Set("currency", currency)
	if nickname != "" {
		form.Set("nickname", nickname)
	}

	var price Price
	if err := c.callForm("/v1/prices", form, &price); err != nil {
		return nil, err
	}
	return &price, nil
}

// UploadFile sends the bytes to the files host. Empty payloads are
// rejected before any network round trip.
func (c *Client) UploadFile(data []byte, filename, mimeType, purpose string) (*File, error) {
	if len(data) == 0 {
		return nil, errors.Newf(errors.ImageMissing, "refusing to upload empty file %s", filename)
	}

	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	if err := w.WriteField("purpose", purpose); err != nil {
		return nil, errors.Wrap(errors.RemoteError, err, "build upload request")
	}
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	header.Set("Content-Type", mimeType)
	part, err := w.CreatePart(header)
	if err != nil {
		return nil, errors.Wrap(errors.RemoteError, err, "build upload request")
	}
	if _, err := part.Write(data); err != nil {
		return nil, errors.Wrap(errors.RemoteError, err, "build upload request")
	}
	if err := w.Close(); err != nil {
		return nil, errors.Wrap(errors.RemoteError, err, "build upload request")
	}

	var file File
	if err := c.call("POST", c.FilesBase, "/v1/files", w.FormDataContentType(), body.Bytes(), &file); err != nil {
		return nil, err
	}
	return &file, nil
}

func (c *Client) CreateFileLink(fileID string) (*FileLink, error) {
	form := url.Values{}
	form.Set("file", fileID)

	var link FileLink
	if err := c.callForm("/v1/file_links", form, &link); err != nil {
		return nil, err
	}
	return &link, nil
}

func (c *Client) callForm(path string, form url.Values, out interface{}) error {
	return c.call("POST", c.APIBase, path,
		"application/x-www-form-urlencoded", []byte(form.Encode()), out)
}

func (c *Client) call(method, base, path, contentType string, body []byte, out interface{}) error {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(base + path)
	req.Header.SetMethod(method)
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	if contentType != "" {
		req.Header.SetContentType(contentType)
	}
	if body != nil {
		req.SetBody(body)
	}

	if err := c.http.Do(req, resp); err != nil {
		return errors.Wrap(errors.RemoteError, err, method+" "+path)
	}

	if resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		var apiErr apiError
		if json.Unmarshal(resp.Body(), &apiErr) == nil && apiErr.Error.Message != "" {
			return errors.Newf(errors.RemoteError, "%s %s: %s (%s)",
				method, path, apiErr.Error.Message, apiErr.Error.Type)
		}
		return errors.Newf(errors.RemoteError, "%s %s: status %d", method, path, resp.StatusCode())
	}

	if out != nil {
		if err := json.Unmarshal(resp.Body(), out); err != nil {
			return errors.Wrap(errors.RemoteError, err, "decode "+path+" response")
		}
	}
	return nil
}

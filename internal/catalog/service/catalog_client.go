package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"

	"github.com/ridloal/e-commerce-go-storefront/internal/catalog/domain"
	"github.com/ridloal/e-commerce-go-storefront/internal/platform/apiclient"
	"github.com/ridloal/e-commerce-go-storefront/internal/platform/logger"
)

var ErrProductNotFound = errors.New("product not found")

// UnexpectedStatusError is returned when the API answers with a status the
// operation does not accept. Message carries the API's error payload, if any.
type UnexpectedStatusError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *UnexpectedStatusError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s: unexpected status code %d", e.Op, e.StatusCode)
}

type CatalogClient interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	SearchProducts(ctx context.Context, keyword string) ([]domain.Product, error)
	GetProduct(ctx context.Context, id int) (*domain.Product, error)
	GetProductImage(ctx context.Context, id int) (*domain.Image, error)
	UpdateProduct(ctx context.Context, id int, draft domain.ProductDraft, image *domain.ImageUpload) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id int) error
}

type httpCatalogClient struct {
	api *apiclient.Client
}

func NewHTTPCatalogClient(api *apiclient.Client) CatalogClient {
	return &httpCatalogClient{api: api}
}

// ListProducts menerima 200 dan 302 sebagai sukses.
func (c *httpCatalogClient) ListProducts(ctx context.Context) ([]domain.Product, error) {
	resp, err := c.api.Get(ctx, "/products", nil)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusFound {
		return nil, &UnexpectedStatusError{Op: "ListProducts", StatusCode: resp.StatusCode}
	}
	products := []domain.Product{}
	if err := resp.DecodeJSON(&products); err != nil {
		logger.Error("CatalogClient.ListProducts: JSON decode failed", err)
		return nil, err
	}
	return products, nil
}

func (c *httpCatalogClient) SearchProducts(ctx context.Context, keyword string) ([]domain.Product, error) {
	resp, err := c.api.Get(ctx, "/products/search", url.Values{"keyword": {keyword}})
	if err != nil {
		return nil, err
	}
	if !resp.IsSuccess() {
		return nil, &UnexpectedStatusError{Op: "SearchProducts", StatusCode: resp.StatusCode}
	}
	products := []domain.Product{}
	if err := resp.DecodeJSON(&products); err != nil {
		logger.Error("CatalogClient.SearchProducts: JSON decode failed", err)
		return nil, err
	}
	return products, nil
}

func (c *httpCatalogClient) GetProduct(ctx context.Context, id int) (*domain.Product, error) {
	resp, err := c.api.Get(ctx, productPath(id), nil)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrProductNotFound
	}
	if !resp.IsSuccess() {
		return nil, &UnexpectedStatusError{Op: "GetProduct", StatusCode: resp.StatusCode, Message: apiclient.ErrorMessage(resp, "")}
	}
	var p domain.Product
	if err := resp.DecodeJSON(&p); err != nil {
		logger.Error("CatalogClient.GetProduct: JSON decode failed for product %d", err, id)
		return nil, err
	}
	// server lama mengembalikan produk kosong (id 0) untuk id yang tidak ada
	if p.ID == 0 {
		return nil, ErrProductNotFound
	}
	return &p, nil
}

func (c *httpCatalogClient) GetProductImage(ctx context.Context, id int) (*domain.Image, error) {
	resp, err := c.api.Get(ctx, productPath(id)+"/image", nil)
	if err != nil {
		return nil, err
	}
	if !resp.IsSuccess() {
		return nil, &UnexpectedStatusError{Op: "GetProductImage", StatusCode: resp.StatusCode}
	}
	if len(resp.Body) == 0 {
		return nil, fmt.Errorf("empty image payload for product %d", id)
	}
	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(resp.Body)
	}
	return &domain.Image{
		ProductID:   id,
		ContentType: contentType,
		URL:         "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(resp.Body),
	}, nil
}

// UpdateProduct sends a multipart body: a "product" JSON part and, when image
// is non-nil, an "imageFile" part.
func (c *httpCatalogClient) UpdateProduct(ctx context.Context, id int, draft domain.ProductDraft, image *domain.ImageUpload) (*domain.Product, error) {
	body, contentType, err := encodeProductForm(draft, image)
	if err != nil {
		logger.Error("CatalogClient.UpdateProduct: encoding form failed", err)
		return nil, err
	}
	resp, err := c.api.Put(ctx, productPath(id), nil, body, contentType)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrProductNotFound
	}
	if !resp.IsSuccess() {
		return nil, &UnexpectedStatusError{Op: "UpdateProduct", StatusCode: resp.StatusCode, Message: apiclient.ErrorMessage(resp, "")}
	}
	var p domain.Product
	if err := resp.DecodeJSON(&p); err != nil {
		// update sudah berhasil, body yang tidak terbaca tidak dianggap gagal
		logger.Warn("CatalogClient.UpdateProduct: ignoring undecodable body for product %d: %v", id, err)
		return nil, nil
	}
	return &p, nil
}

func (c *httpCatalogClient) DeleteProduct(ctx context.Context, id int) error {
	resp, err := c.api.Delete(ctx, productPath(id))
	if err != nil {
		return err
	}
	if resp.StatusCode == http.StatusNotFound {
		return ErrProductNotFound
	}
	if !resp.IsSuccess() {
		return &UnexpectedStatusError{Op: "DeleteProduct", StatusCode: resp.StatusCode, Message: apiclient.ErrorMessage(resp, "")}
	}
	return nil
}

func productPath(id int) string {
	return "/product/" + strconv.Itoa(id)
}

func encodeProductForm(draft domain.ProductDraft, image *domain.ImageUpload) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	productJSON, err := json.Marshal(draft)
	if err != nil {
		return nil, "", fmt.Errorf("failed to marshal product draft: %w", err)
	}
	part, err := w.CreatePart(textproto.MIMEHeader{
		"Content-Disposition": {`form-data; name="product"; filename="product.json"`},
		"Content-Type":        {"application/json"},
	})
	if err != nil {
		return nil, "", fmt.Errorf("failed to create product part: %w", err)
	}
	if _, err := part.Write(productJSON); err != nil {
		return nil, "", fmt.Errorf("failed to write product part: %w", err)
	}

	if image != nil {
		filename := image.Filename
		if filename == "" {
			filename = "image"
		}
		contentType := image.ContentType
		if contentType == "" {
			contentType = http.DetectContentType(image.Data)
		}
		imgPart, err := w.CreatePart(textproto.MIMEHeader{
			"Content-Disposition": {fmt.Sprintf(`form-data; name="imageFile"; filename=%q`, filename)},
			"Content-Type":        {contentType},
		})
		if err != nil {
			return nil, "", fmt.Errorf("failed to create image part: %w", err)
		}
		if _, err := imgPart.Write(image.Data); err != nil {
			return nil, "", fmt.Errorf("failed to write image part: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart writer: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

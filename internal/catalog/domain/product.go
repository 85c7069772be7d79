package domain

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// harga dikirim sebagai angka JSON, bukan string
	decimal.MarshalJSONWithoutQuotes = true
}

type Product struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"desc"`
	Brand       string          `json:"brand"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	ReleaseDate ReleaseDate     `json:"release_date"`
	Available   bool            `json:"available"`
	Quantity    int             `json:"quantity"`
}

// Purchasable: hanya jika available dan stok > 0
func (p Product) Purchasable() bool {
	return p.Available && p.Quantity > 0
}

// Draft seeds an editable copy of the product's fields.
func (p Product) Draft() ProductDraft {
	return ProductDraft{
		Name:        p.Name,
		Brand:       p.Brand,
		Price:       p.Price,
		Category:    p.Category,
		Description: p.Description,
		Quantity:    p.Quantity,
		Available:   p.Available,
		ReleaseDate: p.ReleaseDate,
	}
}

// ProductDraft is the JSON part of a product update.
type ProductDraft struct {
	Name        string          `json:"name"`
	Brand       string          `json:"brand"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Description string          `json:"desc"`
	Quantity    int             `json:"quantity"`
	Available   bool            `json:"available"`
	ReleaseDate ReleaseDate     `json:"release_date"`
}

// ImageUpload is an optional replacement image sent with a product update.
type ImageUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

type Image struct {
	ProductID   int    `json:"product_id"`
	ContentType string `json:"content_type,omitempty"`
	URL         string `json:"url"` // data: URI, atau URL placeholder
	Placeholder bool   `json:"placeholder"`
}

const PlaceholderImageURL = "https://via.placeholder.com/300x200?text=No+Image"

func PlaceholderImage(productID int) Image {
	return Image{ProductID: productID, URL: PlaceholderImageURL, Placeholder: true}
}

// Decode returns the raw bytes behind a data: URI. ok is false for
// placeholders and anything that is not base64 data.
func (i Image) Decode() ([]byte, bool) {
	const marker = ";base64,"
	if i.Placeholder || !strings.HasPrefix(i.URL, "data:") {
		return nil, false
	}
	idx := strings.Index(i.URL, marker)
	if idx < 0 {
		return nil, false
	}
	data, err := base64.StdEncoding.DecodeString(i.URL[idx+len(marker):])
	if err != nil {
		return nil, false
	}
	return data, true
}

// ReleaseDate accepts an ISO date, an RFC 3339 timestamp or epoch milliseconds
// and is always written back as YYYY-MM-DD.
type ReleaseDate struct {
	time.Time
}

const releaseDateLayout = "2006-01-02"

func NewReleaseDate(year int, month time.Month, day int) ReleaseDate {
	return ReleaseDate{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func ParseReleaseDate(s string) (ReleaseDate, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return ReleaseDate{}, nil
	}
	for _, layout := range []string{releaseDateLayout, time.RFC3339Nano, "2006-01-02T15:04:05.000-0700", "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return ReleaseDate{t.UTC()}, nil
		}
	}
	return ReleaseDate{}, fmt.Errorf("invalid release date %q", s)
}

func (d ReleaseDate) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(releaseDateLayout)
}

func (d ReleaseDate) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

func (d *ReleaseDate) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*d = ReleaseDate{}
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		parsed, err := ParseReleaseDate(s)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	}
	ms, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid release date %s", data)
	}
	*d = ReleaseDate{time.UnixMilli(ms).UTC()}
	return nil
}

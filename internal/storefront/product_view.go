package storefront

import (
	"context"
	"errors"
	"sync"

	catalogDomain "github.com/ridloal/e-commerce-go-storefront/internal/catalog/domain"
	catalogService "github.com/ridloal/e-commerce-go-storefront/internal/catalog/service"
	"github.com/ridloal/e-commerce-go-storefront/internal/platform/logger"
)

const (
	msgProductUpdated = "Product updated successfully!"
	msgProductDeleted = "Product deleted successfully"
)

type Mode int

const (
	ModeViewing Mode = iota
	ModeEditing
	ModeDeleting
)

func (m Mode) String() string {
	switch m {
	case ModeEditing:
		return "editing"
	case ModeDeleting:
		return "deleting"
	default:
		return "viewing"
	}
}

type ProductPage struct {
	Product  catalogDomain.Product       `json:"product"`
	Image    catalogDomain.Image         `json:"image"`
	Mode     string                      `json:"mode"`
	Draft    *catalogDomain.ProductDraft `json:"draft,omitempty"`
	Quantity int                         `json:"quantity"`
	Message  string                      `json:"message,omitempty"`
}

// ProductView is the detail page of one product:
//
//	Viewing -> Editing -> Viewing   (save or cancel)
//	Viewing -> Deleting -> removed  (or back to Viewing on failure)
//
// A failed save stays in Editing so the draft survives.
type ProductView struct {
	state *AppState
	id    int

	mu       sync.Mutex
	mode     Mode
	product  *catalogDomain.Product
	image    catalogDomain.Image
	draft    *catalogDomain.ProductDraft
	quantity int
}

func NewProductView(state *AppState, id int) *ProductView {
	return &ProductView{state: state, id: id, quantity: 1}
}

// Load fetches the product and its image. An open draft is kept.
func (v *ProductView) Load(ctx context.Context) (ProductPage, error) {
	p, err := v.state.Catalog.GetProduct(ctx, v.id)
	if err != nil {
		logger.Error("ProductView.Load: fetching product %d failed", err, v.id)
		return ProductPage{}, wrapLookup(err)
	}
	img := v.state.Catalog.FetchImage(ctx, v.id)

	v.mu.Lock()
	defer v.mu.Unlock()
	v.product = p
	v.image = img
	return v.pageLocked(""), nil
}

// Page returns the current page, loading it first if needed.
func (v *ProductView) Page(ctx context.Context) (ProductPage, error) {
	v.mu.Lock()
	loaded := v.product != nil
	page := v.pageLocked("")
	v.mu.Unlock()
	if !loaded {
		return v.Load(ctx)
	}
	return page, nil
}

// Edit enters Editing with a draft seeded from the product. Calling it while
// already editing returns the open draft.
func (v *ProductView) Edit(ctx context.Context) (catalogDomain.ProductDraft, error) {
	if _, err := v.Page(ctx); err != nil {
		return catalogDomain.ProductDraft{}, err
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	switch v.mode {
	case ModeEditing:
		return *v.draft, nil
	case ModeDeleting:
		return catalogDomain.ProductDraft{}, ErrNotEditing
	}
	d := v.product.Draft()
	v.draft = &d
	v.mode = ModeEditing
	return d, nil
}

func (v *ProductView) UpdateDraft(d catalogDomain.ProductDraft) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.mode != ModeEditing {
		return ErrNotEditing
	}
	v.draft = &d
	return nil
}

// Cancel drops the draft and returns to Viewing.
func (v *ProductView) Cancel() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.mode == ModeEditing {
		v.mode = ModeViewing
		v.draft = nil
	}
}

// Save submits the draft, with image when not nil. On success the product
// (and its image, when replaced) is fetched again and the catalog refreshed.
func (v *ProductView) Save(ctx context.Context, image *catalogDomain.ImageUpload) (ProductPage, error) {
	v.mu.Lock()
	if v.mode != ModeEditing || v.draft == nil {
		v.mu.Unlock()
		return ProductPage{}, ErrNotEditing
	}
	draft := *v.draft
	v.mu.Unlock()

	if _, err := v.state.Catalog.UpdateProduct(ctx, v.id, draft, image); err != nil {
		v.mu.Lock()
		page := v.pageLocked("")
		v.mu.Unlock()
		if IsNotFound(err) {
			return page, err
		}
		return page, &RemoteError{Message: "Failed to update product: " + remoteMessage(err), Err: err}
	}

	fresh, err := v.state.Catalog.GetProduct(ctx, v.id)
	if err != nil {
		logger.Warn("ProductView.Save: re-fetching product %d failed: %v", v.id, err)
	}
	var img *catalogDomain.Image
	if image != nil {
		i := v.state.Catalog.FetchImage(ctx, v.id)
		img = &i
	}
	if err := v.state.Catalog.Refresh(ctx); err != nil {
		logger.Warn("ProductView.Save: catalog refresh failed: %v", err)
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if fresh != nil {
		v.product = fresh
	}
	if img != nil {
		v.image = *img
	}
	v.mode = ModeViewing
	v.draft = nil
	return v.pageLocked(msgProductUpdated), nil
}

// Delete removes the product once confirmed. It returns the address to go to
// after a successful delete and the message to show.
func (v *ProductView) Delete(ctx context.Context, confirmed bool) (string, string, error) {
	if !confirmed {
		return "", "", ErrConfirmationRequired
	}
	v.mu.Lock()
	if v.mode == ModeDeleting {
		v.mu.Unlock()
		return "", "", ErrConfirmationRequired
	}
	prev := v.mode
	v.mode = ModeDeleting
	v.mu.Unlock()

	if err := v.state.Catalog.DeleteProduct(ctx, v.id); err != nil {
		v.mu.Lock()
		v.mode = prev
		v.mu.Unlock()
		return "", "", &RemoteError{Message: "Failed to delete product: " + remoteMessage(err), Err: err}
	}

	if err := v.state.Catalog.Refresh(ctx); err != nil {
		logger.Warn("ProductView.Delete: catalog refresh failed: %v", err)
	}
	logger.Info("ProductView.Delete: product %d deleted", v.id)
	return "/", msgProductDeleted, nil
}

// SetQuantity clamps the chosen quantity to [1, stock] and returns it.
func (v *ProductView) SetQuantity(q int) int {
	v.mu.Lock()
	defer v.mu.Unlock()
	stock := 0
	if v.product != nil {
		stock = v.product.Quantity
	}
	v.quantity = max(1, min(stock, q))
	return v.quantity
}

// AddToCart adds the chosen quantity. The quantity is reset to 1 after a
// successful add.
func (v *ProductView) AddToCart(ctx context.Context) (string, error) {
	if _, err := v.Page(ctx); err != nil {
		return "", err
	}
	v.mu.Lock()
	p := *v.product
	q := v.quantity
	v.mu.Unlock()

	if !p.Available {
		return "", ErrProductUnavailable
	}
	if p.Quantity <= 0 {
		return "", ErrOutOfStock
	}
	if p.Quantity < q {
		return "", &StockError{Available: p.Quantity}
	}

	res := v.state.Cart.AddToCart(ctx, p.ID, q)
	if !res.Success {
		msg := res.Error
		if msg == "" {
			msg = msgAddToCartFailed
		}
		return "", &RemoteError{Message: msg}
	}

	v.mu.Lock()
	v.quantity = 1
	v.mu.Unlock()
	return msgAddedToCart, nil
}

func (v *ProductView) Mode() Mode {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.mode
}

func (v *ProductView) pageLocked(msg string) ProductPage {
	page := ProductPage{
		Image:    v.image,
		Mode:     v.mode.String(),
		Quantity: v.quantity,
		Message:  msg,
	}
	if v.product != nil {
		page.Product = *v.product
	}
	if v.draft != nil {
		d := *v.draft
		page.Draft = &d
	}
	return page
}

// ProductViews keeps one detail view per product so an edit survives across
// requests.
type ProductViews struct {
	state *AppState

	mu    sync.Mutex
	views map[int]*ProductView
}

func NewProductViews(state *AppState) *ProductViews {
	return &ProductViews{state: state, views: make(map[int]*ProductView)}
}

func (r *ProductViews) Get(id int) *ProductView {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.views[id]
	if !ok {
		v = NewProductView(r.state, id)
		r.views[id] = v
	}
	return v
}

// Len reports how many product views are held.
func (r *ProductViews) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.views)
}

func (r *ProductViews) Forget(id int) {
	r.mu.Lock()
	delete(r.views, id)
	r.mu.Unlock()
}

// IsNotFound reports a product the API does not know.
func IsNotFound(err error) bool {
	return errors.Is(err, catalogService.ErrProductNotFound)
}

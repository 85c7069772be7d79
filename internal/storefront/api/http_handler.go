package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	catalogDomain "github.com/ridloal/e-commerce-go-storefront/internal/catalog/domain"
	"github.com/ridloal/e-commerce-go-storefront/internal/platform/logger"
	"github.com/ridloal/e-commerce-go-storefront/internal/storefront"
)

const maxUploadSize = 10 << 20

type StorefrontHandler struct {
	state    *storefront.AppState
	catalog  *storefront.CatalogView
	products *storefront.ProductViews
	cart     *storefront.CartView
	checkout *storefront.CheckoutDialog
}

func NewStorefrontHandler(state *storefront.AppState) *StorefrontHandler {
	cart := storefront.NewCartView(state)
	return &StorefrontHandler{
		state:    state,
		catalog:  storefront.NewCatalogView(state),
		products: storefront.NewProductViews(state),
		cart:     cart,
		checkout: storefront.NewCheckoutDialog(cart),
	}
}

func (h *StorefrontHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/", h.CatalogPage)
	router.GET("/health", h.Health)

	productsRoutes := router.Group("/products")
	{
		productsRoutes.POST("/refresh", h.RefreshCatalog)
		productsRoutes.POST("/:id/cart", h.CatalogAddToCart)
	}

	productRoutes := router.Group("/product")
	{
		productRoutes.GET("/:id", h.ProductPage)
		productRoutes.GET("/:id/image", h.ProductImage)
		productRoutes.POST("/:id/edit", h.EditProduct)
		productRoutes.POST("/:id/cancel", h.CancelEdit)
		productRoutes.PUT("/:id", h.SaveProduct)
		productRoutes.DELETE("/:id", h.DeleteProduct)
		productRoutes.POST("/:id/cart", h.ProductAddToCart)
	}

	cartRoutes := router.Group("/cart")
	{
		cartRoutes.GET("", h.CartPage)
		cartRoutes.GET("/count", h.CartCount)
		cartRoutes.PUT("/:id", h.UpdateCartLine)
		cartRoutes.DELETE("/:id", h.RemoveCartLine)
		cartRoutes.DELETE("", h.ClearCart)
		cartRoutes.GET("/checkout", h.Checkout)
		cartRoutes.POST("/checkout/confirm", h.ConfirmCheckout)
	}

	router.GET("/theme", h.Theme)
	router.POST("/theme/toggle", h.ToggleTheme)
}

type quantityRequest struct {
	Quantity *int `json:"quantity"`
}

func (h *StorefrontHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *StorefrontHandler) CatalogPage(c *gin.Context) {
	q := storefront.Query{Search: c.Query("search"), Category: c.Query("category")}
	c.JSON(http.StatusOK, h.catalog.Page(c.Request.Context(), q))
}

func (h *StorefrontHandler) RefreshCatalog(c *gin.Context) {
	if err := h.catalog.Refresh(c.Request.Context()); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": h.state.Status.Error()})
		return
	}
	c.JSON(http.StatusOK, h.catalog.Page(c.Request.Context(), storefront.Query{}))
}

func (h *StorefrontHandler) CatalogAddToCart(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	msg, err := h.catalog.AddToCart(c.Request.Context(), id)
	if err != nil {
		respondError(c, "CatalogAddToCart", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": msg})
}

func (h *StorefrontHandler) ProductPage(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	page, err := h.products.Get(id).Load(c.Request.Context())
	if err != nil {
		h.productError(c, id, "ProductPage", err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// ProductImage serves the image bytes, or redirects to the placeholder.
func (h *StorefrontHandler) ProductImage(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	img := h.state.Catalog.FetchImage(c.Request.Context(), id)
	data, ok := img.Decode()
	if !ok {
		c.Redirect(http.StatusFound, catalogDomain.PlaceholderImageURL)
		return
	}
	c.Data(http.StatusOK, img.ContentType, data)
}

func (h *StorefrontHandler) EditProduct(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	draft, err := h.products.Get(id).Edit(c.Request.Context())
	if err != nil {
		h.productError(c, id, "EditProduct", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"mode": storefront.ModeEditing.String(), "draft": draft})
}

func (h *StorefrontHandler) CancelEdit(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	view := h.products.Get(id)
	view.Cancel()
	page, err := view.Page(c.Request.Context())
	if err != nil {
		h.productError(c, id, "CancelEdit", err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// SaveProduct takes a multipart body with a "product" JSON part and an
// optional "imageFile" part. Without a "product" part the open draft is sent.
func (h *StorefrontHandler) SaveProduct(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	if err := c.Request.ParseMultipartForm(maxUploadSize); err != nil {
		logger.Error("SaveProduct Hdl: bad multipart body", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid multipart payload: " + err.Error()})
		return
	}
	draft, hasDraft, err := readDraft(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product payload: " + err.Error()})
		return
	}
	image, err := readImage(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid image payload: " + err.Error()})
		return
	}

	view := h.products.Get(id)
	if _, err := view.Edit(ctx); err != nil {
		h.productError(c, id, "SaveProduct", err)
		return
	}
	if hasDraft {
		if err := view.UpdateDraft(draft); err != nil {
			h.productError(c, id, "SaveProduct", err)
			return
		}
	}

	page, err := view.Save(ctx, image)
	if err != nil {
		var re *storefront.RemoteError
		if errors.As(err, &re) {
			logger.Error("SaveProduct Hdl: update of product %d failed", err, id)
			c.JSON(http.StatusBadGateway, gin.H{"error": re.Message, "draft": page.Draft})
			return
		}
		h.productError(c, id, "SaveProduct", err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *StorefrontHandler) DeleteProduct(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	confirmed, _ := strconv.ParseBool(c.Query("confirm"))
	redirect, msg, err := h.products.Get(id).Delete(c.Request.Context(), confirmed)
	if err != nil {
		h.productError(c, id, "DeleteProduct", err)
		return
	}
	h.products.Forget(id)
	c.JSON(http.StatusOK, gin.H{"message": msg, "redirect": redirect})
}

func (h *StorefrontHandler) ProductAddToCart(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req quantityRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
			return
		}
	}

	ctx := c.Request.Context()
	view := h.products.Get(id)
	if _, err := view.Page(ctx); err != nil {
		h.productError(c, id, "ProductAddToCart", err)
		return
	}
	if req.Quantity != nil {
		view.SetQuantity(*req.Quantity)
	}
	msg, err := view.AddToCart(ctx)
	if err != nil {
		h.productError(c, id, "ProductAddToCart", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": msg})
}

func (h *StorefrontHandler) CartPage(c *gin.Context) {
	c.JSON(http.StatusOK, h.cart.Load(c.Request.Context()))
}

// CartCount serves the navbar badge from the lines already held.
func (h *StorefrontHandler) CartCount(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"count": h.cart.ItemCount()})
}

func (h *StorefrontHandler) UpdateCartLine(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req quantityRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Quantity == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: quantity is required"})
		return
	}
	if err := h.cart.UpdateQuantity(c.Request.Context(), id, *req.Quantity); err != nil {
		respondError(c, "UpdateCartLine", err)
		return
	}
	c.JSON(http.StatusOK, h.cart.Page(c.Request.Context()))
}

func (h *StorefrontHandler) RemoveCartLine(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	msg, err := h.cart.Remove(c.Request.Context(), id)
	if err != nil {
		respondError(c, "RemoveCartLine", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": msg, "cart": h.cart.Page(c.Request.Context())})
}

func (h *StorefrontHandler) ClearCart(c *gin.Context) {
	confirmed, _ := strconv.ParseBool(c.Query("confirm"))
	msg, err := h.cart.Clear(c.Request.Context(), confirmed)
	if err != nil {
		respondError(c, "ClearCart", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": msg, "cart": h.cart.Page(c.Request.Context())})
}

func (h *StorefrontHandler) Checkout(c *gin.Context) {
	c.JSON(http.StatusOK, h.checkout.Open(c.Request.Context()))
}

func (h *StorefrontHandler) ConfirmCheckout(c *gin.Context) {
	ctx := c.Request.Context()
	snap := h.checkout.Open(ctx)
	h.checkout.Confirm(ctx, snap)
	c.JSON(http.StatusOK, gin.H{"confirmed": false, "checkout": snap})
}

func (h *StorefrontHandler) Theme(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"theme": h.state.Theme.Get(c.Request.Context())})
}

func (h *StorefrontHandler) ToggleTheme(c *gin.Context) {
	theme, err := h.state.Theme.Toggle(c.Request.Context())
	if err != nil {
		logger.Error("ToggleTheme Hdl: saving theme failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save theme"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"theme": theme})
}

func pathID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid id %q", c.Param("id"))})
		return 0, false
	}
	return id, true
}

// productError drops the cached view of a product the API no longer knows.
func (h *StorefrontHandler) productError(c *gin.Context, id int, op string, err error) {
	if storefront.IsNotFound(err) {
		h.products.Forget(id)
	}
	respondError(c, op, err)
}

func respondError(c *gin.Context, op string, err error) {
	var re *storefront.RemoteError
	switch {
	case storefront.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case storefront.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
	case errors.As(err, &re):
		logger.Error("%s Hdl: remote call failed", err, op)
		c.JSON(http.StatusBadGateway, gin.H{"error": re.Message})
	default:
		logger.Error("%s Hdl: unhandled error", err, op)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// readDraft reads the "product" part, sent either as a file part (a JSON
// blob) or as a plain form field.
func readDraft(c *gin.Context) (catalogDomain.ProductDraft, bool, error) {
	var draft catalogDomain.ProductDraft
	var raw []byte
	if fh, err := c.FormFile("product"); err == nil {
		raw, err = readPart(fh)
		if err != nil {
			return draft, false, err
		}
	} else if v, ok := c.GetPostForm("product"); ok {
		raw = []byte(v)
	} else {
		return draft, false, nil
	}
	if err := json.Unmarshal(raw, &draft); err != nil {
		return draft, false, err
	}
	return draft, true, nil
}

func readImage(c *gin.Context) (*catalogDomain.ImageUpload, error) {
	fh, err := c.FormFile("imageFile")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	data, err := readPart(fh)
	if err != nil {
		return nil, err
	}
	contentType := fh.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	return &catalogDomain.ImageUpload{Filename: fh.Filename, ContentType: contentType, Data: data}, nil
}

func readPart(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

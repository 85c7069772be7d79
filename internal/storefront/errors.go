package storefront

import (
	"errors"
	"fmt"

	catalogService "github.com/ridloal/e-commerce-go-storefront/internal/catalog/service"
	"github.com/ridloal/e-commerce-go-storefront/internal/platform/apiclient"
)

// Validation refusals. These are caught before anything is sent to the API,
// and their text is shown to the shopper as is.
var (
	ErrProductUnavailable   = errors.New("Product is not available")
	ErrOutOfStock           = errors.New("Product is out of stock")
	ErrInvalidQuantity      = errors.New("Quantity must be at least 1")
	ErrInsufficientStock    = errors.New("insufficient stock")
	ErrConfirmationRequired = errors.New("confirmation required")
	ErrNotEditing           = errors.New("product is not being edited")
)

// StockError reports a requested quantity above the available stock.
type StockError struct {
	Available int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("Only %d items available in stock", e.Available)
}

func (e *StockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// RemoteError is a failure reported by the API (or the transport to it),
// already turned into a message for the shopper.
type RemoteError struct {
	Message string
	Err     error
}

func (e *RemoteError) Error() string {
	return e.Message
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err was raised before any request was sent.
func IsValidation(err error) bool {
	var se *StockError
	return errors.Is(err, ErrProductUnavailable) ||
		errors.Is(err, ErrOutOfStock) ||
		errors.Is(err, ErrInvalidQuantity) ||
		errors.As(err, &se) ||
		errors.Is(err, ErrConfirmationRequired) ||
		errors.Is(err, ErrNotEditing)
}

// remoteMessage picks the most useful text out of a catalog call error.
func remoteMessage(err error) string {
	var use *catalogService.UnexpectedStatusError
	if errors.As(err, &use) {
		return use.Error()
	}
	return apiclient.FailureMessage(nil, err, err.Error())
}

// wrapLookup keeps ErrProductNotFound recognisable and turns everything else
// into a RemoteError.
func wrapLookup(err error) error {
	if errors.Is(err, catalogService.ErrProductNotFound) {
		return err
	}
	return &RemoteError{Message: remoteMessage(err), Err: err}
}

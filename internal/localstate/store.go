// Package localstate is the durable client-side key/value store backing the
// cached cart snapshot and the theme preference. Values never expire.
package localstate

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("local state key not found")

const (
	KeyCart  = "cart"
	KeyTheme = "theme"
)

type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

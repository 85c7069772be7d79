package localstate

import (
	"context"
	"errors"

	"github.com/ridloal/e-commerce-go-storefront/internal/platform/logger"
)

const (
	ThemeLight = "light-theme"
	ThemeDark  = "dark-theme"
)

type ThemePreference struct {
	store Store
}

func NewThemePreference(store Store) *ThemePreference {
	return &ThemePreference{store: store}
}

// Get returns the stored theme, or ThemeLight when nothing usable is stored.
func (p *ThemePreference) Get(ctx context.Context) string {
	raw, err := p.store.Get(ctx, KeyTheme)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			logger.Warn("ThemePreference.Get: falling back to %s: %v", ThemeLight, err)
		}
		return ThemeLight
	}
	switch theme := string(raw); theme {
	case ThemeLight, ThemeDark:
		return theme
	default:
		return ThemeLight
	}
}

func (p *ThemePreference) Toggle(ctx context.Context) (string, error) {
	next := ThemeDark
	if p.Get(ctx) == ThemeDark {
		next = ThemeLight
	}
	if err := p.store.Set(ctx, KeyTheme, []byte(next)); err != nil {
		return "", err
	}
	return next, nil
}

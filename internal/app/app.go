// Package app assembles the storefront state core: the catalog, the
// cart and session stores, and the checkout entry point their views
// read from.
package app

import (
	"context"
	"fmt"

	"github.com/tastybites/storefront-core/internal/auth"
	"github.com/tastybites/storefront-core/internal/cart"
	"github.com/tastybites/storefront-core/internal/catalog"
	"github.com/tastybites/storefront-core/internal/checkout"
	"github.com/tastybites/storefront-core/pkg/config"
	"github.com/tastybites/storefront-core/pkg/logger"
	"github.com/tastybites/storefront-core/pkg/notify"
)

// App owns the long-lived stores. One App serves one shopper.
type App struct {
	Catalog       catalog.Service
	Cart          *cart.Store
	Session       *auth.Store
	Notifications *notify.Bus

	cfg  *config.Config
	logg *logger.Logger
}

// Params bundles the application dependencies.
type Params struct {
	Config *config.Config
	Slot   auth.SnapshotSlot
	Logger *logger.Logger
}

// New wires the stores together. The session snapshot is not restored
// yet; call Restore once the caller is ready to observe state changes.
func New(params Params) (*App, error) {
	if params.Config == nil {
		return nil, fmt.Errorf("config required")
	}
	if params.Slot == nil {
		return nil, fmt.Errorf("snapshot slot required")
	}

	bus := notify.NewBus()

	registry, err := auth.NewRegistry(params.Config.Password)
	if err != nil {
		return nil, fmt.Errorf("seeding credential registry: %w", err)
	}
	session, err := auth.NewStore(auth.StoreParams{
		Registry:    registry,
		Slot:        params.Slot,
		AuthLatency: params.Config.Simulation.AuthLatency,
		Notifier:    bus,
		Logger:      params.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("building session store: %w", err)
	}

	return &App{
		Catalog:       catalog.NewService(catalog.Menu()),
		Cart:          cart.NewStore(bus),
		Session:       session,
		Notifications: bus,
		cfg:           params.Config,
		logg:          params.Logger,
	}, nil
}

// Restore rehydrates the session from its durable snapshot. Safe to
// call when no snapshot exists.
func (a *App) Restore(ctx context.Context) error {
	return a.Session.Restore(ctx)
}

// BeginCheckout opens a checkout attempt over the current cart and
// session. It fails when the cart is empty or the shopper is anonymous.
func (a *App) BeginCheckout() (*checkout.Workflow, error) {
	return checkout.Begin(checkout.Params{
		Cart:       a.Cart,
		Session:    a.Session,
		Pricing:    a.cfg.Pricing,
		Simulation: a.cfg.Simulation,
		Notifier:   a.Notifications,
		Logger:     a.logg,
	})
}

package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/tastybites/storefront-core/internal/app"
	"github.com/tastybites/storefront-core/internal/auth"
	"github.com/tastybites/storefront-core/internal/catalog"
	"github.com/tastybites/storefront-core/internal/checkout"
	"github.com/tastybites/storefront-core/pkg/config"
	"github.com/tastybites/storefront-core/pkg/logger"
	"github.com/tastybites/storefront-core/pkg/money"
	"github.com/tastybites/storefront-core/pkg/notify"
	"github.com/tastybites/storefront-core/pkg/storage"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "storefront"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "storefront",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	store, err := storage.New(context.Background(), cfg.Storage, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to open session storage", err)
		os.Exit(1)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logg.Error(context.Background(), "error closing session storage", err)
		}
	}()

	a, err := app.New(app.Params{Config: cfg, Slot: store, Logger: logg})
	if err != nil {
		logg.Error(context.Background(), "failed to build storefront", err)
		os.Exit(1)
	}

	a.Notifications.Subscribe(func(event notify.Event) {
		ctx := logg.WithField(context.Background(), "level", event.Level.String())
		logg.Info(ctx, event.Text)
	})

	ctx := logg.WithField(context.Background(), "env", cfg.App.Env)
	logg.Info(ctx, "storefront core starting")

	if err := a.Restore(ctx); err != nil {
		logg.Warn(ctx, "session restore skipped: "+err.Error())
	}
	if user := a.Session.Current(); user != nil {
		logg.Info(logg.WithUserID(ctx, user.ID), "session restored")
	}

	// Scripted walkthrough: browse, fill a cart, log in and check out.
	if err := walkthrough(ctx, a, logg); err != nil {
		logg.Error(ctx, "walkthrough failed", err)
		os.Exit(1)
	}
}

func walkthrough(ctx context.Context, a *app.App, logg *logger.Logger) error {
	for _, item := range a.Catalog.List(catalog.Filter{Query: "pizza"}) {
		logg.Info(ctx, "found "+item.Name+" at "+money.Display(item.Price))
	}

	burger, err := a.Catalog.Get("1")
	if err != nil {
		return err
	}
	if err := a.Cart.AddItem(burger, 2); err != nil {
		return err
	}
	logg.Info(ctx, "cart subtotal "+money.Display(a.Cart.Subtotal()))

	if !a.Session.IsAuthenticated() {
		if _, err := a.Session.Login(ctx, auth.DemoEmail, auth.DemoPassword); err != nil {
			return err
		}
	}

	flow, err := a.BeginCheckout()
	if err != nil {
		return err
	}
	if err := flow.SubmitAddress(checkout.AddressForm{
		FullName:      a.Session.Current().Name,
		Phone:         "555-0100",
		StreetAddress: "1 Main St",
		City:          "Springfield",
		State:         "IL",
		ZipCode:       "62701",
	}); err != nil {
		return err
	}

	confirmation, err := flow.SubmitPayment(ctx, checkout.PaymentForm{
		CardholderName: a.Session.Current().Name,
		CardNumber:     checkout.FormatCardNumber("4242424242424242"),
		ExpiryDate:     checkout.FormatExpiry("1228"),
		CVV:            checkout.FormatCVV("123"),
	})
	if err != nil {
		return err
	}

	orderCtx := logg.WithCheckoutID(ctx, flow.ID().String())
	logg.Info(orderCtx, "order "+confirmation.OrderNumber+" total "+money.Display(confirmation.Totals.Total)+
		", arriving in "+confirmation.EstimatedDelivery)
	return nil
}

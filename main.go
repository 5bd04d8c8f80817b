package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	auction "auction-marketplace/internal/auctionService"
	"auction-marketplace/internal/config"
	"auction-marketplace/internal/identity"
	model "auction-marketplace/internal/models"
	"auction-marketplace/internal/repository"
	"auction-marketplace/internal/server"
	"auction-marketplace/internal/storage"
	"auction-marketplace/utils"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := utils.SetLevel(cfg.LogLevel); err != nil {
		utils.Warn("main: falling back to info level", map[string]any{"error": err.Error()})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend, closeBackend, err := openBackend(ctx, cfg)
	if err != nil {
		utils.Fatal("main: failed to open storage", map[string]any{"driver": cfg.StorageDriver, "error": err.Error()})
	}
	defer closeBackend()

	repo := repository.NewMemoryRepo(backend)
	if err := repo.Load(ctx); err != nil {
		utils.Fatal("main: failed to load catalog", map[string]any{"error": err.Error()})
	}
	accounts := identity.NewStore(backend)
	if err := accounts.Load(ctx); err != nil {
		utils.Fatal("main: failed to load accounts", map[string]any{"error": err.Error()})
	}

	auctionSvc := auction.NewAuctionService(repo, accounts, auction.WithDepositDelay(cfg.DepositDelay))

	if cfg.SeedDemo {
		if err := seedDemoData(ctx, repo, accounts, auctionSvc); err != nil {
			utils.Warn("main: demo seeding failed", map[string]any{"error": err.Error()})
		}
	}

	router := server.SetupRouter(auctionSvc, accounts)
	srv := &http.Server{
		Addr:              cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		utils.Info("main: starting auction server", map[string]any{"addr": cfg.Port, "storage": cfg.StorageDriver})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.Fatal("main: server failed", map[string]any{"error": err.Error()})
		}
	}()

	<-ctx.Done()
	utils.Info("main: shutting down", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.Error("main: graceful shutdown failed", map[string]any{"error": err.Error()})
	}
	// in-flight deposit payments always complete
	auctionSvc.Wait()
}

// openBackend selects the durable store named by the config
func openBackend(ctx context.Context, cfg config.Config) (storage.Backend, func(), error) {
	noop := func() {}
	switch cfg.StorageDriver {
	case config.DriverMemory:
		return storage.NewMemoryBackend(), noop, nil
	case config.DriverRedis:
		b, err := storage.DialRedis(ctx, cfg.RedisURL, cfg.RedisPrefix)
		if err != nil {
			return nil, noop, err
		}
		return b, func() { _ = b.Close() }, nil
	default:
		b, err := storage.NewFileBackend(cfg.DataDir)
		if err != nil {
			return nil, noop, err
		}
		return b, noop, nil
	}
}

// seedDemoData adds demo accounts and two live auctions to a fresh install.
// Anything already stored, a signed-in session included, leaves it untouched.
func seedDemoData(ctx context.Context, repo *repository.MemoryRepo, accounts *identity.Store, svc *auction.AuctionService) error {
	existing, err := repo.ListProducts(ctx, repository.ProductFilter{})
	if err != nil {
		return err
	}
	if _, signedIn := accounts.CurrentSession(); len(existing) > 0 || accounts.AccountCount() > 0 || signedIn {
		utils.Debug("main: existing data, demo seed skipped", map[string]any{
			"products": len(existing),
			"accounts": accounts.AccountCount(),
		})
		return nil
	}

	if _, err := accounts.Register(ctx, "admin@demo.local", "admin", "Demo Admin", model.RoleAdmin); err != nil {
		return err
	}
	if _, err := accounts.Register(ctx, "buyer@demo.local", "buyer", "Demo Buyer", model.RoleBuyer); err != nil {
		return err
	}
	seller, err := accounts.Register(ctx, "seller@demo.local", "seller", "Demo Seller", model.RoleSeller)
	if err != nil {
		return err
	}

	buyNow := 900.0
	listings := []model.ProductInput{
		{
			Title:           "Vintage Film Camera",
			Description:     "Fully working 35mm rangefinder",
			Category:        model.CategoryGeneral,
			Attributes:      model.GeneralAttributes{Label: "Electronics"},
			Images:          []string{"camera.jpg"},
			StartingPrice:   120,
			BidStep:         10,
			DurationMinutes: 24 * 60,
		},
		{
			Title:           "Leather Tote",
			Description:     "Barely used, dust bag included",
			Category:        model.CategoryHandbag,
			Attributes:      model.HandbagAttributes{Brand: "Coach", Material: "leather", Color: "tan"},
			Images:          []string{"tote.jpg"},
			EvidenceImages:  []string{"tote-receipt.jpg"},
			StartingPrice:   300,
			BidStep:         25,
			BuyNowPrice:     &buyNow,
			DurationMinutes: 3 * 60,
		},
	}
	for _, in := range listings {
		p, err := svc.SubmitProduct(ctx, seller, in)
		if err != nil {
			return err
		}
		if _, err := svc.ApproveProduct(ctx, p.ProductID); err != nil {
			return err
		}
	}

	utils.Info("main: seeded demo data", map[string]any{
		"accounts": []string{"admin@demo.local", "seller@demo.local", "buyer@demo.local"},
		"products": len(listings),
	})
	// registration signed the demo seller in; a fresh install starts signed out
	return accounts.Logout(ctx)
}

package perftests

import (
	"context"
	"fmt"
	"testing"

	auction "auction-marketplace/internal/auctionService"
	model "auction-marketplace/internal/models"
	"auction-marketplace/internal/repository"
)

var benchSeller = model.Account{AccountID: "seller_bench", Name: "Bench Seller", Role: model.RoleSeller}

type staticDirectory map[string]string

func (d staticDirectory) AccountName(accountID string) (string, bool) {
	name, ok := d[accountID]
	return name, ok
}

// setupService builds a service over a snapshot-free repository
func setupService() *auction.AuctionService {
	repo := repository.NewMemoryRepo(nil)
	return auction.NewAuctionService(repo, staticDirectory{benchSeller.AccountID: benchSeller.Name})
}

// listProducts submits and approves n day-long auctions, returning their ids
func listProducts(tb testing.TB, svc *auction.AuctionService, n int, startingPrice, step float64) []string {
	tb.Helper()

	ctx := context.Background()
	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		p, err := svc.SubmitProduct(ctx, benchSeller, model.ProductInput{
			Title:           fmt.Sprintf("Bench Item %d", i),
			Description:     "Benchmark item",
			Category:        model.CategoryGeneral,
			StartingPrice:   startingPrice,
			BidStep:         step,
			DurationMinutes: 24 * 60,
		})
		if err != nil {
			tb.Fatalf("failed to submit product: %v", err)
		}
		if _, err := svc.ApproveProduct(ctx, p.ProductID); err != nil {
			tb.Fatalf("failed to approve product: %v", err)
		}
		ids = append(ids, p.ProductID)
	}
	return ids
}

func buyer(i int) model.Account {
	return model.Account{
		AccountID: fmt.Sprintf("buyer_%d", i),
		Name:      fmt.Sprintf("Buyer %d", i),
		Role:      model.RoleBuyer,
	}
}

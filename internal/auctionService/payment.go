package auction

import (
	"context"
	"fmt"
	"time"

	"auction-marketplace/internal/auctionerrors"
	"auction-marketplace/internal/models"
	"auction-marketplace/utils"
)

// PayDeposit starts the simulated deposit payment for an order and returns
// immediately. The payment always completes after the configured delay and
// cannot be cancelled. An already paid order, or one whose payment is still
// in flight, is returned as is.
func (s *AuctionService) PayDeposit(ctx context.Context, buyer models.Account, orderID string) (models.OrderDetails, error) {
	order, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return models.OrderDetails{}, fmt.Errorf("service: pay deposit: %w", err)
	}
	if order.BuyerID != buyer.AccountID {
		return models.OrderDetails{}, fmt.Errorf("service: pay deposit for order %s: %w", orderID, auctionerrors.ErrForbidden)
	}

	details := orderDetails(order)
	if order.DepositPaid {
		return details, nil
	}

	s.settlingMu.Lock()
	defer s.settlingMu.Unlock()
	if _, busy := s.settling[orderID]; busy {
		return details, nil
	}
	s.settling[orderID] = struct{}{}

	s.payments.Add(1)
	go s.settleDeposit(orderID, details.Deposit)
	return details, nil
}

// settleDeposit waits out the simulated latency and marks the order paid
func (s *AuctionService) settleDeposit(orderID, amount string) {
	defer s.payments.Done()
	defer func() {
		s.settlingMu.Lock()
		delete(s.settling, orderID)
		s.settlingMu.Unlock()
	}()

	if s.depositDelay > 0 {
		time.Sleep(s.depositDelay)
	}

	// the request context may be gone by now; payments run to completion regardless
	if _, err := s.repo.MarkDepositPaid(context.Background(), orderID); err != nil {
		utils.Error("service: deposit settlement failed", map[string]any{
			"order_id": orderID,
			"error":    err.Error(),
		})
		return
	}
	utils.Info("service: deposit paid", map[string]any{
		"order_id": orderID,
		"amount":   amount,
	})
}

// Wait blocks until every started deposit payment has completed
func (s *AuctionService) Wait() {
	s.payments.Wait()
}

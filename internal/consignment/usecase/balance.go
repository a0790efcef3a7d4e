package usecase

import (
	"cmp"
	"context"
	"log/slog"
	"slices"

	"github.com/samber/lo"
	"github.com/shandysiswandi/shopdesk/internal/consignment/entity"
	"github.com/shandysiswandi/shopdesk/internal/pkg/gate"
	"github.com/shandysiswandi/shopdesk/internal/pkg/goerror"
	"github.com/shopspring/decimal"
)

type ListBalancesInput struct {
	StockID int64 `validate:"gte=0"`
}

type balanceKey struct {
	stockID   int64
	productID int64
}

// ListBalances folds the ledger per (stock, product):
// held = OUT - RETURN - INVOICE quantities, due = INVOICE - PAYMENT amounts.
func (s *Usecase) ListBalances(ctx context.Context, in ListBalancesInput) ([]entity.Balance, error) {
	ctx, span := s.startSpan(ctx, "ListBalances")
	defer span.End()

	if _, err := s.gate.Authorize(ctx, gateObject, gate.ActRead); err != nil {
		return nil, err
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	totals, err := s.repoDB.SumMoves(ctx, optional(in.StockID))
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo sum consignment moves", "error", err)
		return nil, goerror.NewServer(err)
	}

	return fold(totals), nil
}

func fold(totals []entity.MoveTotal) []entity.Balance {
	groups := lo.GroupBy(totals, func(t entity.MoveTotal) balanceKey {
		return balanceKey{stockID: t.StockID, productID: t.ProductID}
	})

	balances := lo.MapToSlice(groups, func(k balanceKey, rows []entity.MoveTotal) entity.Balance {
		b := entity.Balance{StockID: k.stockID, ProductID: k.productID, Held: decimal.Zero, Due: decimal.Zero}
		for _, t := range rows {
			switch t.Type {
			case entity.MoveOut:
				b.Held = b.Held.Add(t.Quantity)
			case entity.MoveReturn:
				b.Held = b.Held.Sub(t.Quantity)
			case entity.MoveInvoice:
				b.Held = b.Held.Sub(t.Quantity)
				b.Due = b.Due.Add(t.Amount)
			case entity.MovePayment:
				b.Due = b.Due.Sub(t.Amount)
			}
		}
		return b
	})

	slices.SortFunc(balances, func(a, b entity.Balance) int {
		return cmp.Or(cmp.Compare(a.StockID, b.StockID), cmp.Compare(a.ProductID, b.ProductID))
	})
	return balances
}

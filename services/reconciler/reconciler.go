package reconciler

import (
	// Go Internal Packages
	"context"
	"time"

	// Local Packages
	models "anchor-engine/models"
	stellar "anchor-engine/stellar"

	// External Packages
	"go.uber.org/zap"
)

type TxLister interface {
	ListByStatus(ctx context.Context, status string) ([]models.Transaction, error)
}

type AccountGetter interface {
	GetAccount(ctx context.Context, address string) (stellar.AccountState, error)
}

type Settler interface {
	Settle(ctx context.Context, transactionID string) error
}

// Reconciler periodically rescans transactions parked in pending_trust and
// re-drives settlement for the ones whose destination has since
// established a trustline. It is the system's only retry path for
// trust-blocked deposits.
type Reconciler struct {
	Logger   *zap.Logger
	TxRepo   TxLister
	Ledger   AccountGetter
	Settler  Settler
	Interval time.Duration
}

func NewReconciler(logger *zap.Logger, txRepo TxLister, ledger AccountGetter, settler Settler, interval time.Duration) *Reconciler {
	return &Reconciler{Logger: logger, TxRepo: txRepo, Ledger: ledger, Settler: settler, Interval: interval}
}

// Run blocks until ctx is done, scanning on a fixed cadence. Each scan
// runs to completion before the next tick is taken, so runs never overlap.
func (r *Reconciler) Run(ctx context.Context) {
	ticker := time.NewTicker(r.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.CheckTrustlines(ctx)
		}
	}
}

// CheckTrustlines performs one scan over the pending_trust records. A
// failed account read skips the record until the next cycle; a balance
// whose asset code matches the transaction re-enters settlement, which
// will now pick the standard-payment strategy. Records in any other
// status are never touched.
func (r *Reconciler) CheckTrustlines(ctx context.Context) {
	txs, err := r.TxRepo.ListByStatus(ctx, models.StatusPendingTrust)
	if err != nil {
		r.Logger.Warn("could not list trust-blocked transactions", zap.Error(err))
		return
	}

	for _, tx := range txs {
		state, err := r.Ledger.GetAccount(ctx, tx.StellarAccount)
		if err != nil {
			r.Logger.Debug("could not load account, retrying next cycle",
				zap.String("transaction_id", tx.ID), zap.Error(err))
			continue
		}
		if !state.Exists {
			continue
		}

		for _, balance := range state.Balances {
			if balance.Code != tx.AssetCode {
				continue
			}
			r.Logger.Info("trustline established, re-driving settlement",
				zap.String("transaction_id", tx.ID),
				zap.String("asset_code", tx.AssetCode))
			if err := r.Settler.Settle(ctx, tx.ID); err != nil {
				r.Logger.Warn("reconciliation settle attempt failed",
					zap.String("transaction_id", tx.ID), zap.Error(err))
			}
			break
		}
	}
}

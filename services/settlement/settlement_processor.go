package settlement

import (
	// Go Internal Packages
	"context"
	"encoding/json"
	"errors"

	// Local Packages
	models "anchor-engine/models"
	stellar "anchor-engine/stellar"

	// External Packages
	"github.com/shopspring/decimal"
	"github.com/stellar/go/keypair"
	"github.com/stellar/go/txnbuild"
	"go.uber.org/zap"
)

type TxRepository interface {
	ClaimForSubmission(ctx context.Context, id string) (*models.Transaction, error)
	SetStatus(ctx context.Context, id, status string) error
	MarkCompleted(ctx context.Context, id, stellarTransactionID string, amountOut decimal.Decimal) error
}

type Ledger interface {
	GetAccount(ctx context.Context, address string) (stellar.AccountState, error)
	SourceAccount(ctx context.Context) (txnbuild.Account, error)
	Submit(ctx context.Context, tx *txnbuild.Transaction) (stellar.SubmissionResult, error)
}

type DeadLetterQueue interface {
	Send(ctx context.Context, records []models.Record) error
}

// Processor owns the settlement state machine: it claims a pending record,
// picks a funding strategy from on-ledger state, submits the envelope and
// persists the resulting status.
type Processor struct {
	Logger  *zap.Logger
	TxRepo  TxRepository
	Ledger  Ledger
	Builder *stellar.Builder
	DLQueue DeadLetterQueue
}

func NewProcessor(logger *zap.Logger, txRepo TxRepository, ledger Ledger, builder *stellar.Builder, dlQueue DeadLetterQueue) *Processor {
	return &Processor{Logger: logger, TxRepo: txRepo, Ledger: ledger, Builder: builder, DLQueue: dlQueue}
}

// Settle drives one settlement attempt for the given transaction. The
// returned error is for the caller's log line only; every observable
// outcome lands in the transaction record.
//
// The claim is the sole double-submission guard: unless the record sits in
// pending_anchor or pending_trust the call is a strict no-op. Transient
// read/submit failures and unresolved outcomes leave the record parked at
// pending_stellar for an operator.
func (p *Processor) Settle(ctx context.Context, transactionID string) error {
	tx, err := p.TxRepo.ClaimForSubmission(ctx, transactionID)
	if err != nil {
		p.Logger.Warn("could not claim transaction", zap.String("transaction_id", transactionID), zap.Error(err))
		return err
	}
	if tx == nil {
		p.Logger.Debug("unexpected transaction status at top of settle",
			zap.String("transaction_id", transactionID))
		return nil
	}

	if err := tx.ValidateForSettlement(); err != nil {
		p.Logger.Error("transaction rejected before ledger I/O",
			zap.String("transaction_id", tx.ID), zap.Error(err))
		return err
	}
	amount := tx.PaymentAmount()

	state, err := p.Ledger.GetAccount(ctx, tx.StellarAccount)
	if err != nil {
		p.Logger.Warn("could not load destination account",
			zap.String("transaction_id", tx.ID), zap.Error(err))
		return err
	}

	strategy := SelectStrategy(state, tx.AssetCode, tx.AssetIssuer)
	p.Logger.Info("funding strategy selected",
		zap.String("transaction_id", tx.ID),
		zap.String("strategy", strategy.String()),
		zap.String("amount", amount.StringFixed(models.AmountPrecision)))

	source, err := p.Ledger.SourceAccount(ctx)
	if err != nil {
		p.Logger.Warn("could not load distribution account",
			zap.String("transaction_id", tx.ID), zap.Error(err))
		return err
	}

	if strategy == StrategyPayment {
		return p.settlePayment(ctx, tx, source, amount)
	}
	return p.settleIntermediate(ctx, tx, source, amount, strategy)
}

func (p *Processor) settlePayment(ctx context.Context, tx *models.Transaction, source txnbuild.Account, amount decimal.Decimal) error {
	envelope, err := p.Builder.Payment(source, tx.StellarAccount, tx.AssetCode, tx.AssetIssuer, amount)
	if err != nil {
		p.Logger.Error("payment envelope build failed",
			zap.String("transaction_id", tx.ID), zap.Error(err))
		return err
	}

	result, submitErr := p.Ledger.Submit(ctx, envelope)
	switch stellar.Interpret(result, submitErr) {
	case stellar.OutcomeSuccess:
		return p.TxRepo.MarkCompleted(ctx, tx.ID, result.Hash, amount)
	case stellar.OutcomeTrustMissing:
		p.Logger.Info("destination trustline missing, parking for reconciliation",
			zap.String("transaction_id", tx.ID))
		return p.TxRepo.SetStatus(ctx, tx.ID, models.StatusPendingTrust)
	default:
		p.reportUnresolved(ctx, tx, submitErr)
		return nil
	}
}

func (p *Processor) settleIntermediate(ctx context.Context, tx *models.Transaction, source txnbuild.Account, amount decimal.Decimal, strategy Strategy) error {
	intermediate, err := keypair.Random()
	if err != nil {
		return err
	}

	envelope, err := p.Builder.Intermediate(source, intermediate, tx.StellarAccount, tx.AssetCode, tx.AssetIssuer, amount)
	if err != nil {
		p.Logger.Error("intermediate envelope build failed",
			zap.String("transaction_id", tx.ID), zap.Error(err))
		return err
	}

	result, submitErr := p.Ledger.Submit(ctx, envelope)
	if stellar.Interpret(result, submitErr) != stellar.OutcomeSuccess {
		p.reportUnresolved(ctx, tx, submitErr)
		return nil
	}

	p.Logger.Info("intermediate account funded, awaiting user trust operation",
		zap.String("transaction_id", tx.ID),
		zap.String("strategy", strategy.String()),
		zap.String("intermediate_account", intermediate.Address()))
	return p.TxRepo.SetStatus(ctx, tx.ID, models.StatusPendingUser)
}

// reportUnresolved surfaces a submission the engine could not classify.
// The record stays at pending_stellar; the reconciliation loop will not
// pick it up, an operator has to.
func (p *Processor) reportUnresolved(ctx context.Context, tx *models.Transaction, submitErr error) {
	var serr *stellar.SubmissionError
	if errors.As(submitErr, &serr) && serr.SourceTrustMissing() {
		p.Logger.Error("distribution account lacks a trustline for the asset",
			zap.String("transaction_id", tx.ID),
			zap.String("asset_code", tx.AssetCode))
	} else {
		p.Logger.Error("unresolved submission outcome",
			zap.String("transaction_id", tx.ID), zap.Error(submitErr))
	}

	payload := map[string]any{
		"transaction_id": tx.ID,
		"asset_code":     tx.AssetCode,
	}
	if submitErr != nil {
		payload["error"] = submitErr.Error()
	}
	value, err := json.Marshal(payload)
	if err != nil {
		return
	}
	record := models.Record{Key: []byte(tx.ID), Value: value, Topic: "unresolved-submissions"}
	if err := p.DLQueue.Send(ctx, []models.Record{record}); err != nil {
		p.Logger.Error("failed to park unresolved submission",
			zap.String("transaction_id", tx.ID), zap.Error(err))
	}
}

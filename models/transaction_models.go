package models

import (
	// Go Internal Packages
	"time"

	// Local Packages
	errors "anchor-engine/errors"

	// External Packages
	"github.com/shopspring/decimal"
	"github.com/stellar/go/strkey"
)

// Canonical transaction status values. Transitions move forward only:
// pending_anchor -> pending_stellar -> {completed | pending_trust | pending_user},
// with pending_trust re-entering pending_stellar when a retry is driven.
const (
	StatusPendingAnchor  = "pending_anchor"
	StatusPendingStellar = "pending_stellar"
	StatusPendingTrust   = "pending_trust"
	StatusPendingUser    = "pending_user"
	StatusCompleted      = "completed"
)

// AmountPrecision is the ledger's minimum unit, 1e-7 of an asset.
const AmountPrecision = 7

// Transaction is the internal record for one deposit settlement.
// AmountOut stays invalid until the settlement completes.
type Transaction struct {
	ID                   string
	StellarAccount       string
	AssetCode            string
	AssetIssuer          string
	AmountIn             decimal.Decimal
	AmountFee            decimal.Decimal
	AmountOut            decimal.NullDecimal
	Status               string
	StellarTransactionID string
	CompletedAt          time.Time
	StatusETA            int64
}

// PaymentAmount returns amount_in minus fee at ledger precision. It is
// derived on every settlement run but persisted only on completion.
func (t *Transaction) PaymentAmount() decimal.Decimal {
	return t.AmountIn.Sub(t.AmountFee).Round(AmountPrecision)
}

// ValidateForSettlement rejects records that must never reach the ledger,
// before any network I/O happens.
func (t *Transaction) ValidateForSettlement() error {
	ve := errors.ValidationErrs()

	if !strkey.IsValidEd25519PublicKey(t.StellarAccount) {
		ve.Add("stellar_account", "not a valid ed25519 public key")
	}
	if t.AssetCode == "" {
		ve.Add("asset_code", "cannot be empty")
	}
	if !strkey.IsValidEd25519PublicKey(t.AssetIssuer) {
		ve.Add("asset_issuer", "not a valid ed25519 public key")
	}
	if t.AmountFee.IsNegative() {
		ve.Add("amount_fee", "cannot be negative")
	}
	if !t.AmountIn.GreaterThan(t.AmountFee) {
		ve.Add("amount_in", "must exceed amount_fee")
	}

	if err := ve.Err(); err != nil {
		return errors.ValidationFailedErr(err)
	}
	return nil
}

type MongoTransaction struct {
	ID                   string    `json:"transaction_id" bson:"_id"`
	StellarAccount       string    `json:"stellar_account" bson:"stellar_account"`
	AssetCode            string    `json:"asset_code" bson:"asset_code"`
	AssetIssuer          string    `json:"asset_issuer" bson:"asset_issuer"`
	AmountIn             string    `json:"amount_in" bson:"amount_in"`
	AmountFee            string    `json:"amount_fee" bson:"amount_fee"`
	AmountOut            string    `json:"amount_out,omitempty" bson:"amount_out,omitempty"`
	Status               string    `json:"status" bson:"status"`
	StellarTransactionID string    `json:"stellar_transaction_id,omitempty" bson:"stellar_transaction_id,omitempty"`
	CompletedAt          time.Time `json:"completed_at,omitempty" bson:"completed_at,omitempty"`
	StatusETA            int64     `json:"status_eta" bson:"status_eta"`
}

// Transform maps the domain record into its Mongo document shape.
// Amounts are stored as fixed-precision decimal strings.
func (t *Transaction) Transform() MongoTransaction {
	doc := MongoTransaction{
		ID:                   t.ID,
		StellarAccount:       t.StellarAccount,
		AssetCode:            t.AssetCode,
		AssetIssuer:          t.AssetIssuer,
		AmountIn:             t.AmountIn.StringFixed(AmountPrecision),
		AmountFee:            t.AmountFee.StringFixed(AmountPrecision),
		Status:               t.Status,
		StellarTransactionID: t.StellarTransactionID,
		CompletedAt:          t.CompletedAt,
		StatusETA:            t.StatusETA,
	}
	if t.AmountOut.Valid {
		doc.AmountOut = t.AmountOut.Decimal.StringFixed(AmountPrecision)
	}
	return doc
}

// ToDomain parses the Mongo document back into the domain record.
func (d *MongoTransaction) ToDomain() (Transaction, error) {
	amountIn, err := decimal.NewFromString(d.AmountIn)
	if err != nil {
		return Transaction{}, errors.E(errors.Invalid, "malformed amount_in", err)
	}
	amountFee, err := decimal.NewFromString(d.AmountFee)
	if err != nil {
		return Transaction{}, errors.E(errors.Invalid, "malformed amount_fee", err)
	}

	tx := Transaction{
		ID:                   d.ID,
		StellarAccount:       d.StellarAccount,
		AssetCode:            d.AssetCode,
		AssetIssuer:          d.AssetIssuer,
		AmountIn:             amountIn,
		AmountFee:            amountFee,
		Status:               d.Status,
		StellarTransactionID: d.StellarTransactionID,
		CompletedAt:          d.CompletedAt,
		StatusETA:            d.StatusETA,
	}
	if d.AmountOut != "" {
		amountOut, err := decimal.NewFromString(d.AmountOut)
		if err != nil {
			return Transaction{}, errors.E(errors.Invalid, "malformed amount_out", err)
		}
		tx.AmountOut = decimal.NewNullDecimal(amountOut)
	}
	return tx, nil
}

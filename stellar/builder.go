package stellar

import (
	// Local Packages
	errors "anchor-engine/errors"

	// External Packages
	"github.com/shopspring/decimal"
	"github.com/stellar/go/keypair"
	"github.com/stellar/go/txnbuild"
)

// amountPrecision matches the ledger's minimum unit (1e-7).
const amountPrecision = 7

// envelopeTimeout bounds how long a signed envelope stays valid, in seconds.
const envelopeTimeout = 300

type BuilderConfig struct {
	NetworkPassphrase string
	// StartingBalance funds a freshly created intermediate account. It is
	// sized to cover the minimum account reserve plus one trustline reserve.
	StartingBalance string
	BaseFee         int64
}

// Builder assembles and signs settlement envelopes with the distribution
// keypair. It performs no network I/O.
type Builder struct {
	distribution      *keypair.Full
	networkPassphrase string
	startingBalance   string
	baseFee           int64
}

func NewBuilder(distribution *keypair.Full, cfg BuilderConfig) *Builder {
	return &Builder{
		distribution:      distribution,
		networkPassphrase: cfg.NetworkPassphrase,
		startingBalance:   cfg.StartingBalance,
		baseFee:           cfg.BaseFee,
	}
}

// Payment builds the standard funding envelope: a single payment from the
// distribution account to an existing, trusting destination.
func (b *Builder) Payment(source txnbuild.Account, destination, assetCode, assetIssuer string, amount decimal.Decimal) (*txnbuild.Transaction, error) {
	if !amount.IsPositive() {
		return nil, errors.BuildInputErr(errors.EmptyParamErr("amount"))
	}

	ops := []txnbuild.Operation{
		&txnbuild.Payment{
			Destination: destination,
			Amount:      amount.StringFixed(amountPrecision),
			Asset:       txnbuild.CreditAsset{Code: assetCode, Issuer: assetIssuer},
		},
	}
	return b.build(source, ops, b.distribution)
}

// Intermediate builds the bootstrap/escrow envelope: create the intermediate
// account, have it trust the asset, pay it, then zero its master weight and
// hand signing authority to the destination user's key. The same construction
// serves both strategies; they differ only in when they are chosen.
func (b *Builder) Intermediate(source txnbuild.Account, intermediate *keypair.Full, destination, assetCode, assetIssuer string, amount decimal.Decimal) (*txnbuild.Transaction, error) {
	if !amount.IsPositive() {
		return nil, errors.BuildInputErr(errors.EmptyParamErr("amount"))
	}

	asset := txnbuild.CreditAsset{Code: assetCode, Issuer: assetIssuer}
	ops := []txnbuild.Operation{
		&txnbuild.CreateAccount{
			Destination: intermediate.Address(),
			Amount:      b.startingBalance,
		},
		&txnbuild.ChangeTrust{
			Line:          txnbuild.ChangeTrustAssetWrapper{Asset: asset},
			SourceAccount: intermediate.Address(),
		},
		&txnbuild.Payment{
			Destination: intermediate.Address(),
			Amount:      amount.StringFixed(amountPrecision),
			Asset:       asset,
		},
		&txnbuild.SetOptions{
			MasterWeight:  txnbuild.NewThreshold(0),
			Signer:        &txnbuild.Signer{Address: destination, Weight: 1},
			SourceAccount: intermediate.Address(),
		},
	}
	return b.build(source, ops, b.distribution, intermediate)
}

func (b *Builder) build(source txnbuild.Account, ops []txnbuild.Operation, signers ...*keypair.Full) (*txnbuild.Transaction, error) {
	tx, err := txnbuild.NewTransaction(txnbuild.TransactionParams{
		SourceAccount:        source,
		IncrementSequenceNum: true,
		Operations:           ops,
		BaseFee:              b.baseFee,
		Preconditions:        txnbuild.Preconditions{TimeBounds: txnbuild.NewTimeout(envelopeTimeout)},
	})
	if err != nil {
		return nil, errors.BuildInputErr(err)
	}

	for _, kp := range signers {
		tx, err = tx.Sign(b.networkPassphrase, kp)
		if err != nil {
			return nil, err
		}
	}
	return tx, nil
}

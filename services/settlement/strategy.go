package settlement

import (
	// Local Packages
	stellar "anchor-engine/stellar"
)

// Strategy is how the destination account gets funded, derived fresh from
// on-ledger state on every settlement run and never persisted.
type Strategy int

const (
	// StrategyPayment pays an existing, trusting destination directly.
	StrategyPayment Strategy = iota
	// StrategyEscrow routes funds through a fresh intermediate account
	// that only the destination's key can claim; used when the account
	// exists but holds no trustline for the asset.
	StrategyEscrow
	// StrategyBootstrap creates the destination-side intermediate account
	// from scratch; used when the destination has never been funded.
	StrategyBootstrap
)

func (s Strategy) String() string {
	switch s {
	case StrategyPayment:
		return "payment"
	case StrategyEscrow:
		return "escrow"
	default:
		return "bootstrap"
	}
}

// SelectStrategy applies the funding decision table. An account with no
// trustline cannot receive a direct payment of a non-native asset, so the
// two intermediate-account strategies cover the remaining rows. A
// bootstrap is never retried as a direct payment within the same run: the
// user's own trust operation has to land first.
func SelectStrategy(state stellar.AccountState, assetCode, assetIssuer string) Strategy {
	if !state.Exists {
		return StrategyBootstrap
	}
	for _, b := range state.Balances {
		if b.Code == assetCode && b.Issuer == assetIssuer {
			return StrategyPayment
		}
	}
	return StrategyEscrow
}

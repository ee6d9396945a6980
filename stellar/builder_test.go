package stellar

import (
	// Go Internal Packages
	"testing"

	// External Packages
	"github.com/shopspring/decimal"
	"github.com/stellar/go/keypair"
	"github.com/stellar/go/network"
	"github.com/stellar/go/txnbuild"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBuilder(t *testing.T) (*Builder, *keypair.Full) {
	t.Helper()
	distribution := keypair.MustRandom()
	b := NewBuilder(distribution, BuilderConfig{
		NetworkPassphrase: network.TestNetworkPassphrase,
		StartingBalance:   "40",
		BaseFee:           txnbuild.MinBaseFee,
	})
	return b, distribution
}

func sourceAccount(distribution *keypair.Full) *txnbuild.SimpleAccount {
	return &txnbuild.SimpleAccount{AccountID: distribution.Address(), Sequence: 1}
}

func TestBuildPayment(t *testing.T) {
	b, distribution := testBuilder(t)
	destination := keypair.MustRandom().Address()
	issuer := keypair.MustRandom().Address()

	tx, err := b.Payment(sourceAccount(distribution), destination, "USD", issuer, decimal.RequireFromString("20.5"))
	require.NoError(t, err)

	ops := tx.Operations()
	require.Len(t, ops, 1)

	payment, ok := ops[0].(*txnbuild.Payment)
	require.True(t, ok)
	assert.Equal(t, destination, payment.Destination)
	assert.Equal(t, "20.5000000", payment.Amount)

	asset, ok := payment.Asset.(txnbuild.CreditAsset)
	require.True(t, ok)
	assert.Equal(t, "USD", asset.Code)
	assert.Equal(t, issuer, asset.Issuer)

	assert.Len(t, tx.Signatures(), 1)
}

func TestBuildPaymentRejectsNonPositiveAmount(t *testing.T) {
	b, distribution := testBuilder(t)
	destination := keypair.MustRandom().Address()
	issuer := keypair.MustRandom().Address()

	_, err := b.Payment(sourceAccount(distribution), destination, "USD", issuer, decimal.Zero)
	require.Error(t, err)

	_, err = b.Payment(sourceAccount(distribution), destination, "USD", issuer, decimal.RequireFromString("-1"))
	require.Error(t, err)
}

func TestBuildIntermediate(t *testing.T) {
	b, distribution := testBuilder(t)
	intermediate := keypair.MustRandom()
	destination := keypair.MustRandom().Address()
	issuer := keypair.MustRandom().Address()

	tx, err := b.Intermediate(sourceAccount(distribution), intermediate, destination, "USD", issuer, decimal.RequireFromString("100"))
	require.NoError(t, err)

	ops := tx.Operations()
	require.Len(t, ops, 4)

	create, ok := ops[0].(*txnbuild.CreateAccount)
	require.True(t, ok)
	assert.Equal(t, intermediate.Address(), create.Destination)
	assert.Equal(t, "40", create.Amount)

	trust, ok := ops[1].(*txnbuild.ChangeTrust)
	require.True(t, ok)
	assert.Equal(t, intermediate.Address(), trust.SourceAccount)
	wrapper, ok := trust.Line.(txnbuild.ChangeTrustAssetWrapper)
	require.True(t, ok)
	trustAsset, ok := wrapper.Asset.(txnbuild.CreditAsset)
	require.True(t, ok)
	assert.Equal(t, "USD", trustAsset.Code)
	assert.Equal(t, issuer, trustAsset.Issuer)

	payment, ok := ops[2].(*txnbuild.Payment)
	require.True(t, ok)
	assert.Equal(t, intermediate.Address(), payment.Destination)
	assert.Equal(t, "100.0000000", payment.Amount)

	// The intermediate account strips its own signing authority and hands
	// control to the destination user's key.
	setOpts, ok := ops[3].(*txnbuild.SetOptions)
	require.True(t, ok)
	assert.Equal(t, intermediate.Address(), setOpts.SourceAccount)
	require.NotNil(t, setOpts.MasterWeight)
	assert.Equal(t, txnbuild.Threshold(0), *setOpts.MasterWeight)
	require.NotNil(t, setOpts.Signer)
	assert.Equal(t, destination, setOpts.Signer.Address)
	assert.Equal(t, txnbuild.Threshold(1), setOpts.Signer.Weight)

	// Signed by both the distribution and the intermediate keypair.
	assert.Len(t, tx.Signatures(), 2)
}

package stellar

import (
	// Go Internal Packages
	"context"
	stderrors "errors"
	"net/http"
	"time"

	// Local Packages
	errors "anchor-engine/errors"

	// External Packages
	"github.com/stellar/go/clients/horizonclient"
	"github.com/stellar/go/keypair"
	"github.com/stellar/go/txnbuild"
)

// ClientConfig carries everything the ledger client needs; nothing is
// read from ambient state.
type ClientConfig struct {
	HorizonURL        string
	NetworkPassphrase string
	DistributionSeed  string
	Timeout           time.Duration
}

// Balance is one asset line held by a ledger account.
type Balance struct {
	Code   string
	Issuer string
	Amount string
}

// AccountState is the result of an account lookup. A destination that has
// never been funded comes back with Exists=false and a nil error; only
// transport problems are errors.
type AccountState struct {
	Exists   bool
	Balances []Balance
}

// SubmissionResult is a non-error submission response. Whether it counts
// as settlement success is decided by Interpret, not here.
type SubmissionResult struct {
	Hash      string
	ResultXDR string
}

// Client wraps the Horizon API for the two operations the engine needs:
// account lookups and envelope submission.
type Client struct {
	horizon      horizonclient.ClientInterface
	distribution *keypair.Full
}

func NewClient(cfg ClientConfig) (*Client, error) {
	kp, err := keypair.ParseFull(cfg.DistributionSeed)
	if err != nil {
		return nil, errors.E(errors.Invalid, "malformed distribution seed", err)
	}
	hc := &horizonclient.Client{
		HorizonURL: cfg.HorizonURL,
		HTTP:       &http.Client{Timeout: cfg.Timeout},
	}
	return &Client{horizon: hc, distribution: kp}, nil
}

// Distribution returns the anchor's distribution keypair.
func (c *Client) Distribution() *keypair.Full {
	return c.distribution
}

// GetAccount fetches existence and balances for a ledger account.
func (c *Client) GetAccount(_ context.Context, address string) (AccountState, error) {
	acct, err := c.horizon.AccountDetail(horizonclient.AccountRequest{AccountID: address})
	if err != nil {
		if horizonclient.IsNotFoundError(err) {
			return AccountState{}, nil
		}
		return AccountState{}, err
	}

	balances := make([]Balance, 0, len(acct.Balances))
	for _, b := range acct.Balances {
		balances = append(balances, Balance{Code: b.Code, Issuer: b.Issuer, Amount: b.Balance})
	}
	return AccountState{Exists: true, Balances: balances}, nil
}

// SourceAccount loads the distribution account, which supplies the
// sequence number for envelope construction.
func (c *Client) SourceAccount(_ context.Context) (txnbuild.Account, error) {
	acct, err := c.horizon.AccountDetail(horizonclient.AccountRequest{AccountID: c.distribution.Address()})
	if err != nil {
		return nil, err
	}
	return &acct, nil
}

// Submit sends a signed envelope to Horizon. Rejections that carry
// structured result codes come back as *SubmissionError so the outcome
// interpreter can classify them; anything else is transient.
func (c *Client) Submit(_ context.Context, tx *txnbuild.Transaction) (SubmissionResult, error) {
	resp, err := c.horizon.SubmitTransaction(tx)
	if err != nil {
		var herr *horizonclient.Error
		if stderrors.As(err, &herr) {
			if codes, cerr := herr.ResultCodes(); cerr == nil {
				return SubmissionResult{}, &SubmissionError{
					TxCode:  codes.TransactionCode,
					OpCodes: codes.OperationCodes,
				}
			}
		}
		return SubmissionResult{}, err
	}
	return SubmissionResult{Hash: resp.Hash, ResultXDR: resp.ResultXdr}, nil
}

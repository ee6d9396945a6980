package stellar

import (
	// Go Internal Packages
	"errors"
	"fmt"
	"strings"

	// External Packages
	"github.com/stellar/go/xdr"
)

// Horizon operation result codes the engine branches on.
const (
	opNoTrust    = "op_no_trust"
	opSrcNoTrust = "op_src_no_trust"
)

// SubmissionError is a Horizon rejection that carried structured result
// codes. Rejections without codes stay plain errors (transient).
type SubmissionError struct {
	TxCode  string
	OpCodes []string
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("submission rejected: tx=%s ops=%s", e.TxCode, strings.Join(e.OpCodes, ","))
}

// TrustMissing reports whether the destination lacks a trustline for the
// paid asset.
func (e *SubmissionError) TrustMissing() bool {
	for _, code := range e.OpCodes {
		if code == opNoTrust {
			return true
		}
	}
	return false
}

// SourceTrustMissing reports a misconfigured distribution account: the
// payment source itself holds no trustline for the asset.
func (e *SubmissionError) SourceTrustMissing() bool {
	for _, code := range e.OpCodes {
		if code == opSrcNoTrust {
			return true
		}
	}
	return false
}

type Outcome int

const (
	// OutcomeUnresolved covers every submission result the engine does not
	// recognize as definitive; it drives no status change.
	OutcomeUnresolved Outcome = iota
	OutcomeSuccess
	OutcomeTrustMissing
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeTrustMissing:
		return "trust_missing"
	default:
		return "unresolved"
	}
}

// Interpret classifies a submission response. A non-error response counts
// as success only when its result XDR decodes to the canonical success
// code; ambiguous acknowledgements stay unresolved.
func Interpret(result SubmissionResult, err error) Outcome {
	if err != nil {
		var serr *SubmissionError
		if errors.As(err, &serr) && serr.TrustMissing() {
			return OutcomeTrustMissing
		}
		return OutcomeUnresolved
	}

	var txResult xdr.TransactionResult
	if xdr.SafeUnmarshalBase64(result.ResultXDR, &txResult) != nil {
		return OutcomeUnresolved
	}
	if txResult.Result.Code != xdr.TransactionResultCodeTxSuccess {
		return OutcomeUnresolved
	}
	return OutcomeSuccess
}

package stellar

import (
	// Go Internal Packages
	"errors"
	"fmt"
	"testing"

	// External Packages
	"github.com/stretchr/testify/assert"
)

// Result XDR signatures as returned by Horizon for a settled payment and
// for a payment rejected by a missing destination trustline.
const (
	successResultXDR   = "AAAAAAAAAGQAAAAAAAAAAQAAAAAAAAABAAAAAAAAAAA="
	trustlineResultXDR = "AAAAAAAAAGT/////AAAAAQAAAAAAAAAB////+gAAAAA="
)

func TestInterpret(t *testing.T) {
	tests := []struct {
		name   string
		result SubmissionResult
		err    error
		want   Outcome
	}{
		{
			name:   "success signature",
			result: SubmissionResult{Hash: "abc", ResultXDR: successResultXDR},
			want:   OutcomeSuccess,
		},
		{
			name:   "non-success result despite ok response",
			result: SubmissionResult{Hash: "abc", ResultXDR: trustlineResultXDR},
			want:   OutcomeUnresolved,
		},
		{
			name:   "undecodable result",
			result: SubmissionResult{Hash: "abc", ResultXDR: "not-xdr"},
			want:   OutcomeUnresolved,
		},
		{
			name: "destination trustline missing",
			err:  &SubmissionError{TxCode: "tx_failed", OpCodes: []string{"op_no_trust"}},
			want: OutcomeTrustMissing,
		},
		{
			name: "trustline code among several ops",
			err:  &SubmissionError{TxCode: "tx_failed", OpCodes: []string{"op_success", "op_no_trust"}},
			want: OutcomeTrustMissing,
		},
		{
			name: "source trustline missing is not retryable",
			err:  &SubmissionError{TxCode: "tx_failed", OpCodes: []string{"op_src_no_trust"}},
			want: OutcomeUnresolved,
		},
		{
			name: "wrapped submission error",
			err:  fmt.Errorf("submit: %w", &SubmissionError{TxCode: "tx_failed", OpCodes: []string{"op_no_trust"}}),
			want: OutcomeTrustMissing,
		},
		{
			name: "plain transport error",
			err:  errors.New("connection reset"),
			want: OutcomeUnresolved,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Interpret(tt.result, tt.err))
		})
	}
}

func TestSubmissionErrorCodes(t *testing.T) {
	err := &SubmissionError{TxCode: "tx_failed", OpCodes: []string{"op_src_no_trust"}}
	assert.False(t, err.TrustMissing())
	assert.True(t, err.SourceTrustMissing())
	assert.Contains(t, err.Error(), "tx_failed")
}

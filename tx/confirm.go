// Copyright 2025 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package tx

import (
	"context"
	"time"

	"github.com/blinklabs-io/gomarket/errors"
)

// AwaitConfirmation polls the node until the transaction's receipt has been
// observed at the requested confirmation depth, then returns the final
// receipt. A zero timeout waits until the context is cancelled.
//
// Transport errors during polling are transient and retried on the next
// tick; the poll loop is itself the retry mechanism. Cancellation and
// timeout abandon only the wait: the submitted transaction's eventual
// on-ledger outcome is unaffected.
func (o *Orchestrator) AwaitConfirmation(
	ctx context.Context,
	submitted *SubmittedTransaction,
	minConfirmations uint64,
	timeout time.Duration,
) (*FinalReceipt, error) {
	var timeoutChan <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		timeoutChan = timer.C
	}
	ticker := time.NewTicker(o.pollInterval)
	defer ticker.Stop()
	for {
		// Poll immediately on entry, then once per tick
		receipt, err := o.checkConfirmation(ctx, submitted, minConfirmations)
		if err != nil {
			return nil, err
		}
		if receipt != nil {
			return receipt, nil
		}
		select {
		case <-ctx.Done():
			if ctx.Err() == context.DeadlineExceeded {
				return nil, errors.Wrapf(
					errors.ErrTimeout,
					"confirmation wait for %s",
					submitted.TxHash,
				)
			}
			return nil, errors.Wrapf(
				errors.ErrCancelled,
				"confirmation wait for %s",
				submitted.TxHash,
			)
		case <-timeoutChan:
			return nil, errors.Wrapf(
				errors.ErrTimeout,
				"confirmation wait for %s",
				submitted.TxHash,
			)
		case <-ticker.C:
		}
	}
}

// checkConfirmation performs one poll round. It returns a non-nil receipt
// when the target confirmation depth has been reached, (nil, nil) when the
// wait should continue, and an error only for terminal conditions.
func (o *Orchestrator) checkConfirmation(
	ctx context.Context,
	submitted *SubmittedTransaction,
	minConfirmations uint64,
) (*FinalReceipt, error) {
	if ctx.Err() != nil {
		// Let the caller map the context error
		return nil, nil
	}
	receipt, err := o.node.TransactionReceipt(ctx, submitted.TxHash)
	if err != nil {
		o.logger.Debug(
			"receipt poll failed, will retry",
			"component", "tx",
			"tx_id", submitted.TxHash.String(),
			"error", err,
		)
		return nil, nil
	}
	if receipt == nil {
		// Not yet mined
		return nil, nil
	}
	height, err := o.node.BlockNumber(ctx)
	if err != nil {
		o.logger.Debug(
			"height poll failed, will retry",
			"component", "tx",
			"tx_id", submitted.TxHash.String(),
			"error", err,
		)
		return nil, nil
	}
	receiptHeight := receipt.BlockNumber.Uint64()
	if height < receiptHeight {
		// The node answered from behind the block containing the receipt
		return nil, nil
	}
	confirmations := height - receiptHeight
	submitted.Confirmations = confirmations
	if confirmations < minConfirmations {
		return nil, nil
	}
	if !receipt.Succeeded() {
		submitted.Status = StatusFailed
		return nil, ErrExecutionFailed.Newf("tx %s", submitted.TxHash)
	}
	submitted.Status = StatusConfirmed
	o.logger.Debug(
		"call confirmed",
		"component", "tx",
		"tx_id", submitted.TxHash.String(),
		"confirmations", confirmations,
	)
	return &FinalReceipt{
		Receipt:       receipt,
		Confirmations: confirmations,
		Height:        height,
	}, nil
}

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

// Package tx implements the ledger call orchestrator: cost estimation with a
// safety buffer, submission through the account session's signer, polling
// for a confirmation depth, and structured extraction of results from
// receipt events.
//
// Each Submit/AwaitConfirmation pair is an independently cancellable unit of
// work; any number of them may be in flight concurrently against the same
// session. The orchestrator holds no mutable shared state of its own.
package tx

import (
	"context"
	"log/slog"
	"math/big"
	"time"

	"github.com/blinklabs-io/gomarket/errors"
	"github.com/blinklabs-io/gomarket/ledger"
	"github.com/blinklabs-io/gomarket/session"
	"github.com/blinklabs-io/gomarket/signer"
)

var (
	// ErrExecutionFailed is returned when a transaction was mined but its
	// receipt reports failed execution
	ErrExecutionFailed = errors.Register(101, "transaction execution failed")
)

const (
	// DefaultPollInterval is the default receipt polling interval
	DefaultPollInterval = 1 * time.Second
	// Default gas buffer of 20% applied to estimates, rounding up, to reduce
	// the chance of an in-flight cost spike aborting the call
	defaultGasBufferNumerator   = 120
	defaultGasBufferDenominator = 100
)

// Status is the lifecycle state of a submitted transaction
type Status int

const (
	StatusPending Status = iota
	StatusConfirmed
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusConfirmed:
		return "Confirmed"
	case StatusFailed:
		return "Failed"
	}
	return "Unknown"
}

// CallRequest describes one mutating contract call. It is immutable once
// created and owned exclusively by the orchestrator for the duration of one
// submission.
type CallRequest struct {
	To    ledger.Address
	Data  []byte
	Value *big.Int
}

// SubmittedTransaction records one submission. Status and Confirmations are
// mutated only by the orchestrator's polling loop and become immutable once
// the status is terminal.
type SubmittedTransaction struct {
	TxHash        ledger.Hash
	SubmittedBy   ledger.Address
	ChainID       uint64
	Request       CallRequest
	GasLimit      uint64
	Status        Status
	Confirmations uint64
}

// FinalReceipt is the result of a confirmation wait
type FinalReceipt struct {
	Receipt       *ledger.Receipt
	Confirmations uint64
	Height        uint64
}

// Orchestrator submits mutating calls and waits for their confirmation
type Orchestrator struct {
	sess         *session.Session
	node         ledger.Node
	logger       *slog.Logger
	pollInterval time.Duration
	gasBufferNum uint64
	gasBufferDen uint64
}

// OrchestratorOptionFunc is a function that modifies an Orchestrator
type OrchestratorOptionFunc func(*Orchestrator)

// WithLogger specifies the logger for orchestrator events
func WithLogger(logger *slog.Logger) OrchestratorOptionFunc {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// WithPollInterval specifies the receipt polling interval
func WithPollInterval(interval time.Duration) OrchestratorOptionFunc {
	return func(o *Orchestrator) {
		o.pollInterval = interval
	}
}

// WithGasBuffer specifies the safety buffer applied to gas estimates as a
// ratio, e.g. 120/100 for 20% headroom
func WithGasBuffer(numerator uint64, denominator uint64) OrchestratorOptionFunc {
	return func(o *Orchestrator) {
		o.gasBufferNum = numerator
		o.gasBufferDen = denominator
	}
}

// NewOrchestrator returns a new Orchestrator for the specified session and
// node with the specified options
func NewOrchestrator(
	sess *session.Session,
	node ledger.Node,
	options ...OrchestratorOptionFunc,
) *Orchestrator {
	o := &Orchestrator{
		sess: sess,
		node: node,
	}
	// Apply provided options functions
	for _, option := range options {
		option(o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}
	if o.pollInterval <= 0 {
		o.pollInterval = DefaultPollInterval
	}
	if o.gasBufferDen == 0 || o.gasBufferNum < o.gasBufferDen {
		o.gasBufferNum = defaultGasBufferNumerator
		o.gasBufferDen = defaultGasBufferDenominator
	}
	return o
}

// bufferedGas applies the safety buffer to a gas estimate, rounding up
func (o *Orchestrator) bufferedGas(estimate uint64) uint64 {
	return (estimate*o.gasBufferNum + o.gasBufferDen - 1) / o.gasBufferDen
}

// Submit estimates the cost of the call, applies the safety buffer, and
// submits it through the session's signer. An estimation failure usually
// indicates the call would revert and is returned as a terminal
// ErrEstimation carrying the node's raw message; it is never retried.
//
// The session account and chain are snapshotted here; later account or
// chain changes do not retarget the submission.
func (o *Orchestrator) Submit(
	ctx context.Context,
	request CallRequest,
) (*SubmittedTransaction, error) {
	snapshot := o.sess.Snapshot()
	if snapshot.State != session.StateConnected {
		return nil, errors.ErrState.New("session is not connected")
	}
	estimate, err := o.node.EstimateGas(ctx, ledger.CallMsg{
		From:  snapshot.Account,
		To:    request.To,
		Data:  request.Data,
		Value: request.Value,
	})
	if err != nil {
		return nil, errors.Wrapf(errors.ErrEstimation, "%s", err)
	}
	gasLimit := o.bufferedGas(estimate)
	txHash, err := o.sess.Signer().SignAndSend(ctx, signer.TxParams{
		From:  snapshot.Account,
		To:    request.To,
		Data:  request.Data,
		Value: request.Value,
		Gas:   gasLimit,
	})
	if err != nil {
		// User rejection and other signer errors propagate unchanged
		return nil, errors.Wrap(err, "submit call")
	}
	submitted := &SubmittedTransaction{
		TxHash:      txHash,
		SubmittedBy: snapshot.Account,
		ChainID:     snapshot.ChainID,
		Request:     cloneRequest(request),
		GasLimit:    gasLimit,
		Status:      StatusPending,
	}
	o.logger.Debug(
		"submitted call",
		"component", "tx",
		"tx_id", txHash.String(),
		"target", request.To.String(),
		"gas_limit", gasLimit,
	)
	return submitted, nil
}

// Execute is the common Submit + AwaitConfirmation + ExtractResult sequence
// used by the marketplace and asset registry operations. A nil expectation
// skips extraction.
func (o *Orchestrator) Execute(
	ctx context.Context,
	request CallRequest,
	minConfirmations uint64,
	timeout time.Duration,
	expect *Expectation,
) (Result, *FinalReceipt, error) {
	submitted, err := o.Submit(ctx, request)
	if err != nil {
		return nil, nil, err
	}
	receipt, err := o.AwaitConfirmation(ctx, submitted, minConfirmations, timeout)
	if err != nil {
		return nil, nil, err
	}
	if expect == nil {
		return nil, receipt, nil
	}
	result, err := ExtractResult(receipt.Receipt, *expect)
	if err != nil {
		return nil, receipt, err
	}
	return result, receipt, nil
}

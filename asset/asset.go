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

// Package asset implements the asset registry operations: minting, batch
// minting, transfer, burn, and marketplace approval.
//
// Metadata uploads happen strictly before Mint is called. Mint only accepts
// an already-resolved metadata reference, so a failed upload can never
// produce a minted asset with a dangling reference.
package asset

import (
	"context"
	"log/slog"
	"math/big"
	"time"

	"github.com/blinklabs-io/gomarket/abi"
	"github.com/blinklabs-io/gomarket/errors"
	"github.com/blinklabs-io/gomarket/ledger"
	"github.com/blinklabs-io/gomarket/session"
	"github.com/blinklabs-io/gomarket/tx"
	"github.com/blinklabs-io/gomarket/unit"
)

// Asset contract event signatures
var (
	topicAssetMinted      = abi.EventTopic("AssetMinted(uint256,address,string,address,uint256)")
	topicAssetTransferred = abi.EventTopic("Transfer(address,address,uint256)")
)

// MintParams describes one asset to mint
type MintParams struct {
	To ledger.Address
	// MetadataRef is the already-resolved content reference for the asset
	// metadata, treated as opaque
	MetadataRef      string
	RoyaltyRecipient ledger.Address
	// RoyaltyBps is the creator royalty in basis points. Zero means the
	// default of 250 (2.5%).
	RoyaltyBps int64
}

// royaltyBps resolves the effective royalty for the mint
func (p MintParams) royaltyBps() int64 {
	if p.RoyaltyBps == 0 {
		return unit.DefaultRoyaltyBps
	}
	return p.RoyaltyBps
}

// validate checks the parameters that can be rejected without a network
// round trip
func (p MintParams) validate() error {
	if p.To.IsZero() {
		return errors.ErrInvalidInput.New("mint recipient is the zero address")
	}
	if p.MetadataRef == "" {
		return errors.ErrInvalidInput.New("metadata reference is empty")
	}
	if p.RoyaltyBps < 0 || p.RoyaltyBps > unit.BasisPointDenominator {
		return errors.ErrInvalidInput.Newf(
			"royalty %d bps out of range [0, %d]",
			p.RoyaltyBps,
			unit.BasisPointDenominator,
		)
	}
	return nil
}

// Registry issues asset contract calls through the orchestrator
type Registry struct {
	orch             *tx.Orchestrator
	sess             *session.Session
	node             ledger.Node
	contract         ledger.Address
	marketplace      ledger.Address
	logger           *slog.Logger
	minConfirmations uint64
	confirmTimeout   time.Duration
}

// RegistryOptionFunc is a function that modifies a Registry
type RegistryOptionFunc func(*Registry)

// WithLogger specifies the logger for asset registry operations
func WithLogger(logger *slog.Logger) RegistryOptionFunc {
	return func(r *Registry) {
		r.logger = logger
	}
}

// WithMinConfirmations specifies the confirmation depth to wait for before
// a call is considered final
func WithMinConfirmations(minConfirmations uint64) RegistryOptionFunc {
	return func(r *Registry) {
		r.minConfirmations = minConfirmations
	}
}

// WithConfirmTimeout specifies the maximum time to wait for confirmation of
// a single call. Zero waits until the caller's context is cancelled.
func WithConfirmTimeout(timeout time.Duration) RegistryOptionFunc {
	return func(r *Registry) {
		r.confirmTimeout = timeout
	}
}

// New returns a new Registry for the specified asset contract and
// marketplace contract with the specified options
func New(
	orch *tx.Orchestrator,
	sess *session.Session,
	node ledger.Node,
	contract ledger.Address,
	marketplace ledger.Address,
	options ...RegistryOptionFunc,
) *Registry {
	r := &Registry{
		orch:        orch,
		sess:        sess,
		node:        node,
		contract:    contract,
		marketplace: marketplace,
	}
	// Apply provided options functions
	for _, option := range options {
		option(r)
	}
	if r.logger == nil {
		r.logger = slog.New(slog.DiscardHandler)
	}
	return r
}

// Contract returns the asset contract address
func (r *Registry) Contract() ledger.Address {
	return r.contract
}

func (r *Registry) requireConnected() error {
	if !r.sess.Connected() {
		return errors.ErrState.New("session is not connected")
	}
	return nil
}

func (r *Registry) expect(topic ledger.Hash, decode tx.DecodeFunc) *tx.Expectation {
	return &tx.Expectation{
		Contract: r.contract,
		Topic:    topic,
		Decode:   decode,
	}
}

// Mint creates a new asset from an already-resolved metadata reference and
// returns the assigned token id
func (r *Registry) Mint(ctx context.Context, params MintParams) (*big.Int, error) {
	if err := r.requireConnected(); err != nil {
		return nil, err
	}
	if err := params.validate(); err != nil {
		return nil, err
	}
	data, err := abi.EncodeCall(
		"mint(address,string,address,uint256)",
		params.To,
		params.MetadataRef,
		params.RoyaltyRecipient,
		new(big.Int).SetInt64(params.royaltyBps()),
	)
	if err != nil {
		return nil, err
	}
	result, _, err := r.orch.Execute(
		ctx,
		tx.CallRequest{To: r.contract, Data: data},
		r.minConfirmations,
		r.confirmTimeout,
		r.expect(topicAssetMinted, decodeAssetMinted),
	)
	if err != nil {
		return nil, err
	}
	return result.(tx.AssetMinted).TokenID, nil
}

// BatchMint creates several assets in a single submission and returns the
// assigned token ids in emission order. Partial success is not modeled:
// either every asset in the batch is minted in one receipt or the whole
// call fails.
func (r *Registry) BatchMint(ctx context.Context, batch []MintParams) ([]*big.Int, error) {
	if err := r.requireConnected(); err != nil {
		return nil, err
	}
	if len(batch) == 0 {
		return nil, errors.ErrInvalidInput.New("empty mint batch")
	}
	for _, params := range batch {
		if err := params.validate(); err != nil {
			return nil, err
		}
	}
	data, err := encodeBatchMint(batch)
	if err != nil {
		return nil, err
	}
	submitted, err := r.orch.Submit(ctx, tx.CallRequest{To: r.contract, Data: data})
	if err != nil {
		return nil, err
	}
	receipt, err := r.orch.AwaitConfirmation(ctx, submitted, r.minConfirmations, r.confirmTimeout)
	if err != nil {
		return nil, err
	}
	results, err := tx.ExtractResults(
		receipt.Receipt,
		*r.expect(topicAssetMinted, decodeAssetMinted),
	)
	if err != nil {
		return nil, err
	}
	if len(results) != len(batch) {
		return nil, errors.ErrEventMissing.Newf(
			"expected %d mint events, receipt has %d",
			len(batch),
			len(results),
		)
	}
	ret := make([]*big.Int, len(results))
	for i, result := range results {
		ret[i] = result.(tx.AssetMinted).TokenID
	}
	return ret, nil
}

// Transfer moves an asset to another account. Ownership is checked locally
// first so a non-owner gets a fast NotOwner error instead of a late
// on-ledger revert.
func (r *Registry) Transfer(ctx context.Context, tokenID *big.Int, to ledger.Address) error {
	if err := r.requireConnected(); err != nil {
		return err
	}
	if err := r.requireOwner(ctx, tokenID); err != nil {
		return err
	}
	data, err := abi.EncodeCall(
		"transferFrom(address,address,uint256)",
		r.sess.Account(),
		to,
		tokenID,
	)
	if err != nil {
		return err
	}
	_, _, err = r.orch.Execute(
		ctx,
		tx.CallRequest{To: r.contract, Data: data},
		r.minConfirmations,
		r.confirmTimeout,
		r.expect(topicAssetTransferred, decodeTransfer),
	)
	return err
}

// Burn permanently destroys an asset. Ownership is checked locally first.
func (r *Registry) Burn(ctx context.Context, tokenID *big.Int) error {
	if err := r.requireConnected(); err != nil {
		return err
	}
	if err := r.requireOwner(ctx, tokenID); err != nil {
		return err
	}
	data, err := abi.EncodeCall("burn(uint256)", tokenID)
	if err != nil {
		return err
	}
	_, _, err = r.orch.Execute(
		ctx,
		tx.CallRequest{To: r.contract, Data: data},
		r.minConfirmations,
		r.confirmTimeout,
		r.expect(topicAssetTransferred, decodeTransfer),
	)
	return err
}

// requireOwner verifies the session account owns the token before any call
// is built
func (r *Registry) requireOwner(ctx context.Context, tokenID *big.Int) error {
	owner, err := r.OwnerOf(ctx, tokenID)
	if err != nil {
		return err
	}
	if owner != r.sess.Account() {
		return errors.ErrNotOwner.Newf(
			"token %s is owned by %s",
			tokenID,
			owner,
		)
	}
	return nil
}

// OwnerOf returns the current owner of a token
func (r *Registry) OwnerOf(ctx context.Context, tokenID *big.Int) (ledger.Address, error) {
	data, err := abi.EncodeCall("ownerOf(uint256)", tokenID)
	if err != nil {
		return ledger.Address{}, err
	}
	ret, err := r.node.CallContract(ctx, ledger.CallMsg{To: r.contract, Data: data})
	if err != nil {
		return ledger.Address{}, errors.Wrap(err, "read owner")
	}
	return abi.DecodeAddress(ret, 0)
}

// TokenRoyalty returns the royalty recipient and basis points recorded for
// a token
func (r *Registry) TokenRoyalty(
	ctx context.Context,
	tokenID *big.Int,
) (ledger.Address, int64, error) {
	data, err := abi.EncodeCall("tokenRoyalty(uint256)", tokenID)
	if err != nil {
		return ledger.Address{}, 0, err
	}
	ret, err := r.node.CallContract(ctx, ledger.CallMsg{To: r.contract, Data: data})
	if err != nil {
		return ledger.Address{}, 0, errors.Wrap(err, "read royalty")
	}
	recipient, err := abi.DecodeAddress(ret, 0)
	if err != nil {
		return ledger.Address{}, 0, err
	}
	bps, err := abi.DecodeUint256(ret, 1)
	if err != nil {
		return ledger.Address{}, 0, err
	}
	return recipient, bps.Int64(), nil
}

// SetApprovalForAll grants or revokes the marketplace contract's permission
// to move the session account's assets
func (r *Registry) SetApprovalForAll(ctx context.Context, approved bool) error {
	if err := r.requireConnected(); err != nil {
		return err
	}
	data, err := abi.EncodeCall(
		"setApprovalForAll(address,bool)",
		r.marketplace,
		approved,
	)
	if err != nil {
		return err
	}
	submitted, err := r.orch.Submit(ctx, tx.CallRequest{To: r.contract, Data: data})
	if err != nil {
		return err
	}
	_, err = r.orch.AwaitConfirmation(ctx, submitted, r.minConfirmations, r.confirmTimeout)
	return err
}

// IsApprovedForAll returns whether the marketplace contract may move the
// session account's assets
func (r *Registry) IsApprovedForAll(ctx context.Context) (bool, error) {
	if err := r.requireConnected(); err != nil {
		return false, err
	}
	data, err := abi.EncodeCall(
		"isApprovedForAll(address,address)",
		r.sess.Account(),
		r.marketplace,
	)
	if err != nil {
		return false, err
	}
	ret, err := r.node.CallContract(ctx, ledger.CallMsg{To: r.contract, Data: data})
	if err != nil {
		return false, errors.Wrap(err, "read approval")
	}
	return abi.DecodeBool(ret, 0)
}

// encodeBatchMint encodes the batch mint call. The contract takes parallel
// arrays for recipients, references, royalty recipients, and royalty basis
// points.
func encodeBatchMint(batch []MintParams) ([]byte, error) {
	recipients := make([]ledger.Address, len(batch))
	refs := make([]string, len(batch))
	royaltyRecipients := make([]ledger.Address, len(batch))
	royaltyBps := make([]*big.Int, len(batch))
	for i, params := range batch {
		recipients[i] = params.To
		refs[i] = params.MetadataRef
		royaltyRecipients[i] = params.RoyaltyRecipient
		royaltyBps[i] = new(big.Int).SetInt64(params.royaltyBps())
	}
	return abi.EncodeCall(
		"batchMint(address[],string[],address[],uint256[])",
		recipients,
		refs,
		royaltyRecipients,
		royaltyBps,
	)
}

// Event decoders

func decodeAssetMinted(log ledger.Log) (tx.Result, error) {
	if len(log.Topics) < 2 {
		return nil, errors.ErrEventMissing.New("AssetMinted event missing token id topic")
	}
	return tx.AssetMinted{
		TokenID: abi.TopicUint256(log.Topics[1]),
	}, nil
}

func decodeTransfer(log ledger.Log) (tx.Result, error) {
	if len(log.Topics) < 4 {
		return nil, errors.ErrEventMissing.New("Transfer event missing topics")
	}
	return tx.AssetTransferred{
		TokenID: abi.TopicUint256(log.Topics[3]),
		To:      abi.TopicAddress(log.Topics[2]),
	}, nil
}

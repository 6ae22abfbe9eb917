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

// Package market implements the marketplace operations: listings, auctions,
// offers, withdrawals, and the fee arithmetic.
//
// Each operation validates its local preconditions, builds the contract
// call, and runs it through the orchestrator. Checks that belong to the
// ledger's contract logic (a listing still being active, a bid exceeding the
// current one, an auction having ended) are deliberately not duplicated
// here: pre-checking them locally would race against other participants, so
// this layer submits and surfaces whatever revert reason the ledger
// returns.
package market

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

// Marketplace contract event signatures
var (
	topicItemListed       = abi.EventTopic("ItemListed(uint256,address,uint256,address,uint256)")
	topicItemSold         = abi.EventTopic("ItemSold(uint256,address,uint256)")
	topicListingCancelled = abi.EventTopic("ListingCancelled(uint256)")
	topicAuctionCreated   = abi.EventTopic("AuctionCreated(uint256,address,uint256,address,uint256,uint256)")
	topicBidPlaced        = abi.EventTopic("BidPlaced(uint256,address,uint256)")
	topicAuctionEnded     = abi.EventTopic("AuctionEnded(uint256,address,uint256)")
	topicOfferMade        = abi.EventTopic("OfferMade(uint256,address,uint256,address,uint256)")
	topicOfferAccepted    = abi.EventTopic("OfferAccepted(uint256,uint256)")
	topicWithdrawn        = abi.EventTopic("Withdrawn(address,uint256)")
)

// Market issues marketplace contract calls through the orchestrator
type Market struct {
	orch             *tx.Orchestrator
	sess             *session.Session
	node             ledger.Node
	contract         ledger.Address
	logger           *slog.Logger
	minConfirmations uint64
	confirmTimeout   time.Duration
}

// MarketOptionFunc is a function that modifies a Market
type MarketOptionFunc func(*Market)

// WithLogger specifies the logger for marketplace operations
func WithLogger(logger *slog.Logger) MarketOptionFunc {
	return func(m *Market) {
		m.logger = logger
	}
}

// WithMinConfirmations specifies the confirmation depth to wait for before
// a call is considered final
func WithMinConfirmations(minConfirmations uint64) MarketOptionFunc {
	return func(m *Market) {
		m.minConfirmations = minConfirmations
	}
}

// WithConfirmTimeout specifies the maximum time to wait for confirmation of
// a single call. Zero waits until the caller's context is cancelled.
func WithConfirmTimeout(timeout time.Duration) MarketOptionFunc {
	return func(m *Market) {
		m.confirmTimeout = timeout
	}
}

// New returns a new Market for the specified marketplace contract with the
// specified options
func New(
	orch *tx.Orchestrator,
	sess *session.Session,
	node ledger.Node,
	contract ledger.Address,
	options ...MarketOptionFunc,
) *Market {
	m := &Market{
		orch:     orch,
		sess:     sess,
		node:     node,
		contract: contract,
	}
	// Apply provided options functions
	for _, option := range options {
		option(m)
	}
	if m.logger == nil {
		m.logger = slog.New(slog.DiscardHandler)
	}
	return m
}

// Contract returns the marketplace contract address
func (m *Market) Contract() ledger.Address {
	return m.contract
}

// requireConnected short-circuits operations that need a connected session
func (m *Market) requireConnected() error {
	if !m.sess.Connected() {
		return errors.ErrState.New("session is not connected")
	}
	return nil
}

// expect builds the orchestrator expectation for a marketplace event
func (m *Market) expect(topic ledger.Hash, decode tx.DecodeFunc) *tx.Expectation {
	return &tx.Expectation{
		Contract: m.contract,
		Topic:    topic,
		Decode:   decode,
	}
}

// CreateListing lists an asset for sale at a fixed price and returns the new
// listing id
func (m *Market) CreateListing(
	ctx context.Context,
	assetContract ledger.Address,
	tokenID *big.Int,
	priceDecimal string,
) (*big.Int, error) {
	if err := m.requireConnected(); err != nil {
		return nil, err
	}
	price, err := unit.ToSmallestUnit(priceDecimal)
	if err != nil {
		return nil, err
	}
	data, err := abi.EncodeCall(
		"createListing(address,uint256,uint256)",
		assetContract,
		tokenID,
		price,
	)
	if err != nil {
		return nil, err
	}
	result, _, err := m.orch.Execute(
		ctx,
		tx.CallRequest{To: m.contract, Data: data},
		m.minConfirmations,
		m.confirmTimeout,
		m.expect(topicItemListed, decodeItemListed),
	)
	if err != nil {
		return nil, err
	}
	return result.(tx.ListingCreated).ListingID, nil
}

// BuyItem purchases a listed item, attaching the price as the call value.
// Whether the listing is still active is the ledger's check: this layer
// surfaces the revert reason if another buyer got there first.
func (m *Market) BuyItem(
	ctx context.Context,
	listingID *big.Int,
	priceDecimal string,
) error {
	if err := m.requireConnected(); err != nil {
		return err
	}
	price, err := unit.ToSmallestUnit(priceDecimal)
	if err != nil {
		return err
	}
	data, err := abi.EncodeCall("buyItem(uint256)", listingID)
	if err != nil {
		return err
	}
	_, _, err = m.orch.Execute(
		ctx,
		tx.CallRequest{To: m.contract, Data: data, Value: price},
		m.minConfirmations,
		m.confirmTimeout,
		m.expect(topicItemSold, decodeItemSold),
	)
	return err
}

// CancelListing cancels an active listing owned by the session account
func (m *Market) CancelListing(ctx context.Context, listingID *big.Int) error {
	if err := m.requireConnected(); err != nil {
		return err
	}
	data, err := abi.EncodeCall("cancelListing(uint256)", listingID)
	if err != nil {
		return err
	}
	_, _, err = m.orch.Execute(
		ctx,
		tx.CallRequest{To: m.contract, Data: data},
		m.minConfirmations,
		m.confirmTimeout,
		m.expect(topicListingCancelled, decodeListingCancelled),
	)
	return err
}

// CreateAuction opens an auction and returns the new auction id. Duration
// must be positive.
func (m *Market) CreateAuction(
	ctx context.Context,
	assetContract ledger.Address,
	tokenID *big.Int,
	startingPriceDecimal string,
	duration time.Duration,
) (*big.Int, error) {
	if err := m.requireConnected(); err != nil {
		return nil, err
	}
	if duration <= 0 {
		return nil, errors.ErrInvalidInput.Newf("auction duration %s is not positive", duration)
	}
	startingPrice, err := unit.ToSmallestUnit(startingPriceDecimal)
	if err != nil {
		return nil, err
	}
	data, err := abi.EncodeCall(
		"createAuction(address,uint256,uint256,uint256)",
		assetContract,
		tokenID,
		startingPrice,
		uint64(duration/time.Second),
	)
	if err != nil {
		return nil, err
	}
	result, _, err := m.orch.Execute(
		ctx,
		tx.CallRequest{To: m.contract, Data: data},
		m.minConfirmations,
		m.confirmTimeout,
		m.expect(topicAuctionCreated, decodeAuctionCreated),
	)
	if err != nil {
		return nil, err
	}
	return result.(tx.AuctionCreated).AuctionID, nil
}

// PlaceBid bids on an auction, attaching the bid as the call value. The
// strict greater-than check against the current bid happens on the ledger;
// comparing locally first would race against other bidders on a stale read.
func (m *Market) PlaceBid(
	ctx context.Context,
	auctionID *big.Int,
	bidDecimal string,
) error {
	if err := m.requireConnected(); err != nil {
		return err
	}
	bid, err := unit.ToSmallestUnit(bidDecimal)
	if err != nil {
		return err
	}
	data, err := abi.EncodeCall("placeBid(uint256)", auctionID)
	if err != nil {
		return err
	}
	_, _, err = m.orch.Execute(
		ctx,
		tx.CallRequest{To: m.contract, Data: data, Value: bid},
		m.minConfirmations,
		m.confirmTimeout,
		m.expect(topicBidPlaced, decodeBidPlaced),
	)
	return err
}

// EndAuction settles an auction. Legal only after the auction's end time;
// calling early surfaces the ledger's revert.
func (m *Market) EndAuction(ctx context.Context, auctionID *big.Int) error {
	if err := m.requireConnected(); err != nil {
		return err
	}
	data, err := abi.EncodeCall("endAuction(uint256)", auctionID)
	if err != nil {
		return err
	}
	_, _, err = m.orch.Execute(
		ctx,
		tx.CallRequest{To: m.contract, Data: data},
		m.minConfirmations,
		m.confirmTimeout,
		m.expect(topicAuctionEnded, decodeAuctionEnded),
	)
	return err
}

// MakeOffer places an offer on an asset, attaching the offer amount as the
// call value, and returns the offer identifier
func (m *Market) MakeOffer(
	ctx context.Context,
	assetContract ledger.Address,
	tokenID *big.Int,
	amountDecimal string,
	expiration time.Time,
) (*big.Int, error) {
	if err := m.requireConnected(); err != nil {
		return nil, err
	}
	amount, err := unit.ToSmallestUnit(amountDecimal)
	if err != nil {
		return nil, err
	}
	data, err := abi.EncodeCall(
		"makeOffer(address,uint256,uint256)",
		assetContract,
		tokenID,
		uint64(expiration.Unix()),
	)
	if err != nil {
		return nil, err
	}
	result, _, err := m.orch.Execute(
		ctx,
		tx.CallRequest{To: m.contract, Data: data, Value: amount},
		m.minConfirmations,
		m.confirmTimeout,
		m.expect(topicOfferMade, decodeOfferMade),
	)
	if err != nil {
		return nil, err
	}
	return result.(tx.OfferMade).OfferID, nil
}

// AcceptOffer accepts the offer at the given index within an offer bucket.
// The index can drift if offers change between the caller's read and this
// call, so the current offer list should be fetched immediately before
// calling.
func (m *Market) AcceptOffer(
	ctx context.Context,
	offerID *big.Int,
	offerIndex uint64,
) error {
	if err := m.requireConnected(); err != nil {
		return err
	}
	data, err := abi.EncodeCall("acceptOffer(uint256,uint256)", offerID, offerIndex)
	if err != nil {
		return err
	}
	_, _, err = m.orch.Execute(
		ctx,
		tx.CallRequest{To: m.contract, Data: data},
		m.minConfirmations,
		m.confirmTimeout,
		m.expect(topicOfferAccepted, decodeOfferAccepted),
	)
	return err
}

// PendingWithdrawal returns the proceeds currently owed to an account
func (m *Market) PendingWithdrawal(
	ctx context.Context,
	account ledger.Address,
) (*big.Int, error) {
	data, err := abi.EncodeCall("pendingWithdrawals(address)", account)
	if err != nil {
		return nil, err
	}
	ret, err := m.node.CallContract(ctx, ledger.CallMsg{To: m.contract, Data: data})
	if err != nil {
		return nil, errors.Wrap(err, "read pending withdrawal")
	}
	return abi.DecodeUint256(ret, 0)
}

// Withdraw collects the session account's pending proceeds. When nothing is
// pending it fails fast with ErrNothingToWithdraw before submitting
// anything, avoiding a round trip on a call guaranteed to be a no-op.
func (m *Market) Withdraw(ctx context.Context) (*big.Int, error) {
	if err := m.requireConnected(); err != nil {
		return nil, err
	}
	pending, err := m.PendingWithdrawal(ctx, m.sess.Account())
	if err != nil {
		return nil, err
	}
	if pending.Sign() == 0 {
		return nil, errors.ErrNothingToWithdraw.Newf(
			"account %s",
			m.sess.Account(),
		)
	}
	data, err := abi.EncodeCall("withdraw()")
	if err != nil {
		return nil, err
	}
	result, _, err := m.orch.Execute(
		ctx,
		tx.CallRequest{To: m.contract, Data: data},
		m.minConfirmations,
		m.confirmTimeout,
		m.expect(topicWithdrawn, decodeWithdrawn),
	)
	if err != nil {
		return nil, err
	}
	return result.(tx.Withdrawn).Amount, nil
}

// Event decoders. Indexed fields arrive as topics, the rest as data words.

func decodeItemListed(log ledger.Log) (tx.Result, error) {
	if len(log.Topics) < 2 {
		return nil, errors.ErrEventMissing.New("ItemListed event missing listing id topic")
	}
	return tx.ListingCreated{
		ListingID: abi.TopicUint256(log.Topics[1]),
	}, nil
}

func decodeItemSold(log ledger.Log) (tx.Result, error) {
	if len(log.Topics) < 3 {
		return nil, errors.ErrEventMissing.New("ItemSold event missing topics")
	}
	return tx.ListingSold{
		ListingID: abi.TopicUint256(log.Topics[1]),
		Buyer:     abi.TopicAddress(log.Topics[2]),
	}, nil
}

func decodeListingCancelled(log ledger.Log) (tx.Result, error) {
	if len(log.Topics) < 2 {
		return nil, errors.ErrEventMissing.New("ListingCancelled event missing listing id topic")
	}
	return tx.ListingCancelled{
		ListingID: abi.TopicUint256(log.Topics[1]),
	}, nil
}

func decodeAuctionCreated(log ledger.Log) (tx.Result, error) {
	if len(log.Topics) < 2 {
		return nil, errors.ErrEventMissing.New("AuctionCreated event missing auction id topic")
	}
	return tx.AuctionCreated{
		AuctionID: abi.TopicUint256(log.Topics[1]),
	}, nil
}

func decodeBidPlaced(log ledger.Log) (tx.Result, error) {
	if len(log.Topics) < 3 {
		return nil, errors.ErrEventMissing.New("BidPlaced event missing topics")
	}
	amount, err := abi.DecodeUint256(log.Data, 0)
	if err != nil {
		return nil, err
	}
	return tx.BidPlaced{
		AuctionID: abi.TopicUint256(log.Topics[1]),
		Bidder:    abi.TopicAddress(log.Topics[2]),
		Amount:    amount,
	}, nil
}

func decodeAuctionEnded(log ledger.Log) (tx.Result, error) {
	if len(log.Topics) < 3 {
		return nil, errors.ErrEventMissing.New("AuctionEnded event missing topics")
	}
	amount, err := abi.DecodeUint256(log.Data, 0)
	if err != nil {
		return nil, err
	}
	return tx.AuctionEnded{
		AuctionID: abi.TopicUint256(log.Topics[1]),
		Winner:    abi.TopicAddress(log.Topics[2]),
		Amount:    amount,
	}, nil
}

func decodeOfferMade(log ledger.Log) (tx.Result, error) {
	if len(log.Topics) < 2 {
		return nil, errors.ErrEventMissing.New("OfferMade event missing offer id topic")
	}
	return tx.OfferMade{
		OfferID: abi.TopicUint256(log.Topics[1]),
	}, nil
}

func decodeOfferAccepted(log ledger.Log) (tx.Result, error) {
	if len(log.Topics) < 2 {
		return nil, errors.ErrEventMissing.New("OfferAccepted event missing offer id topic")
	}
	return tx.OfferAccepted{
		OfferID: abi.TopicUint256(log.Topics[1]),
	}, nil
}

func decodeWithdrawn(log ledger.Log) (tx.Result, error) {
	if len(log.Topics) < 2 {
		return nil, errors.ErrEventMissing.New("Withdrawn event missing account topic")
	}
	amount, err := abi.DecodeUint256(log.Data, 0)
	if err != nil {
		return nil, err
	}
	return tx.Withdrawn{
		Account: abi.TopicAddress(log.Topics[1]),
		Amount:  amount,
	}, nil
}

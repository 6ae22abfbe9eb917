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
	"math/big"

	"github.com/blinklabs-io/gomarket/errors"
	"github.com/blinklabs-io/gomarket/ledger"
)

// Result is implemented by the structured results extracted from receipt
// events. One variant exists per expected ledger event, decoded eagerly at
// the orchestrator boundary so downstream code never inspects raw logs.
type Result interface {
	isResult()
}

// ListingCreated is the result of a create-listing call
type ListingCreated struct {
	ListingID *big.Int
}

func (ListingCreated) isResult() {}

// ListingSold is the result of a buy call
type ListingSold struct {
	ListingID *big.Int
	Buyer     ledger.Address
}

func (ListingSold) isResult() {}

// ListingCancelled is the result of a cancel-listing call
type ListingCancelled struct {
	ListingID *big.Int
}

func (ListingCancelled) isResult() {}

// AuctionCreated is the result of a create-auction call
type AuctionCreated struct {
	AuctionID *big.Int
}

func (AuctionCreated) isResult() {}

// BidPlaced is the result of a place-bid call
type BidPlaced struct {
	AuctionID *big.Int
	Bidder    ledger.Address
	Amount    *big.Int
}

func (BidPlaced) isResult() {}

// AuctionEnded is the result of an end-auction call
type AuctionEnded struct {
	AuctionID *big.Int
	Winner    ledger.Address
	Amount    *big.Int
}

func (AuctionEnded) isResult() {}

// OfferMade is the result of a make-offer call
type OfferMade struct {
	OfferID *big.Int
}

func (OfferMade) isResult() {}

// OfferAccepted is the result of an accept-offer call
type OfferAccepted struct {
	OfferID *big.Int
}

func (OfferAccepted) isResult() {}

// AssetMinted is the result of a mint call
type AssetMinted struct {
	TokenID *big.Int
}

func (AssetMinted) isResult() {}

// AssetsMinted is the result of a batch mint call, with token ids in
// emission order
type AssetsMinted struct {
	TokenIDs []*big.Int
}

func (AssetsMinted) isResult() {}

// AssetTransferred is the result of a transfer call
type AssetTransferred struct {
	TokenID *big.Int
	To      ledger.Address
}

func (AssetTransferred) isResult() {}

// AssetBurned is the result of a burn call
type AssetBurned struct {
	TokenID *big.Int
}

func (AssetBurned) isResult() {}

// Withdrawn is the result of a withdraw call
type Withdrawn struct {
	Account ledger.Address
	Amount  *big.Int
}

func (Withdrawn) isResult() {}

// DecodeFunc decodes a matching receipt log into a Result
type DecodeFunc func(ledger.Log) (Result, error)

// Expectation names the event a call is expected to emit and how to decode
// it
type Expectation struct {
	// Contract is the address the event must be emitted from
	Contract ledger.Address
	// Topic is the event signature topic to match
	Topic ledger.Hash
	// Decode converts the matching log into a Result
	Decode DecodeFunc
}

// matches reports whether a log is the expected event
func (e Expectation) matches(log ledger.Log) bool {
	return log.Address == e.Contract &&
		len(log.Topics) > 0 &&
		log.Topics[0] == e.Topic
}

// ExtractResult scans a receipt's events for the expected event and decodes
// its first occurrence. A confirmed receipt without the expected event is an
// on-ledger logic path the caller did not anticipate and is surfaced as
// ErrEventMissing, never silently ignored.
func ExtractResult(receipt *ledger.Receipt, expect Expectation) (Result, error) {
	for _, log := range receipt.Logs {
		if expect.matches(log) {
			return expect.Decode(log)
		}
	}
	return nil, errors.ErrEventMissing.Newf(
		"event %s from %s in receipt for %s",
		expect.Topic,
		expect.Contract,
		receipt.TxHash,
	)
}

// ExtractResults collects one decoded result per occurrence of the expected
// event, in emission order. It's used for batch calls. At least one
// occurrence is required.
func ExtractResults(receipt *ledger.Receipt, expect Expectation) ([]Result, error) {
	var ret []Result
	for _, log := range receipt.Logs {
		if expect.matches(log) {
			result, err := expect.Decode(log)
			if err != nil {
				return nil, err
			}
			ret = append(ret, result)
		}
	}
	if len(ret) == 0 {
		return nil, errors.ErrEventMissing.Newf(
			"event %s from %s in receipt for %s",
			expect.Topic,
			expect.Contract,
			receipt.TxHash,
		)
	}
	return ret, nil
}

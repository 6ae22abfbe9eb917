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

package market

import (
	"math/big"
	"time"

	"github.com/blinklabs-io/gomarket/ledger"
)

// Listing is a fixed-price listing projection read from the ledger. The
// ledger is the system of record; entities here are transient and
// re-fetchable. A listing is never physically deleted: Active flipping to
// false is its terminal state, reached by a sale or a cancellation.
type Listing struct {
	ListingID     *big.Int
	TokenID       *big.Int
	AssetContract ledger.Address
	Seller        ledger.Address
	Price         *big.Int
	Active        bool
}

// Terminal returns whether the listing has been sold or cancelled
func (l *Listing) Terminal() bool {
	return !l.Active
}

// Auction is an auction projection read from the ledger. CurrentBid and
// CurrentBidder advance monotonically: the ledger rejects any bid that does
// not exceed the current one.
type Auction struct {
	AuctionID     *big.Int
	TokenID       *big.Int
	AssetContract ledger.Address
	Seller        ledger.Address
	StartingPrice *big.Int
	CurrentBid    *big.Int
	CurrentBidder ledger.Address
	StartTime     time.Time
	EndTime       time.Time
	Active        bool
	Ended         bool
}

// HasBids returns whether at least one bid has been accepted
func (a *Auction) HasBids() bool {
	return !a.CurrentBidder.IsZero()
}

// Closeable returns whether the auction's end time has passed at the given
// instant. The ledger enforces this on endAuction; the helper exists for
// display purposes only.
func (a *Auction) Closeable(now time.Time) bool {
	return now.After(a.EndTime)
}

// Offer is an offer projection read from the ledger. Expiration is
// advisory: the ledger does not auto-expire offers, so callers must treat
// an offer past its expiration as terminal even while Active still reads
// true.
type Offer struct {
	OfferID       *big.Int
	TokenID       *big.Int
	AssetContract ledger.Address
	Offerer       ledger.Address
	Amount        *big.Int
	Expiration    time.Time
	Active        bool
}

// Expired returns whether the offer is past its advisory expiration at the
// given instant
func (o *Offer) Expired(now time.Time) bool {
	return now.After(o.Expiration)
}

// Open returns whether the offer can still be accepted at the given instant
func (o *Offer) Open(now time.Time) bool {
	return o.Active && !o.Expired(now)
}

// PendingWithdrawal is the proceeds owed to an account from sales and
// royalties, zeroed by a successful withdraw call. It is never negative.
type PendingWithdrawal struct {
	Account ledger.Address
	Amount  *big.Int
}

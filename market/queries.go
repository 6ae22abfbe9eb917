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
	"context"
	"math/big"
	"time"

	"github.com/blinklabs-io/gomarket/abi"
	"github.com/blinklabs-io/gomarket/errors"
	"github.com/blinklabs-io/gomarket/ledger"
)

// Read-only projections of marketplace state. Every call round-trips to the
// node; nothing is cached, so a projection is already stale the moment it
// returns.

// GetListing fetches a listing projection by id
func (m *Market) GetListing(ctx context.Context, listingID *big.Int) (*Listing, error) {
	data, err := abi.EncodeCall("getListing(uint256)", listingID)
	if err != nil {
		return nil, err
	}
	ret, err := m.node.CallContract(ctx, ledger.CallMsg{To: m.contract, Data: data})
	if err != nil {
		return nil, errors.Wrap(err, "read listing")
	}
	// (address assetContract, uint256 tokenId, address seller,
	//  uint256 price, bool active)
	assetContract, err := abi.DecodeAddress(ret, 0)
	if err != nil {
		return nil, err
	}
	tokenID, err := abi.DecodeUint256(ret, 1)
	if err != nil {
		return nil, err
	}
	seller, err := abi.DecodeAddress(ret, 2)
	if err != nil {
		return nil, err
	}
	price, err := abi.DecodeUint256(ret, 3)
	if err != nil {
		return nil, err
	}
	active, err := abi.DecodeBool(ret, 4)
	if err != nil {
		return nil, err
	}
	if seller.IsZero() {
		return nil, errors.ErrNotFound.Newf("listing %s", listingID)
	}
	return &Listing{
		ListingID:     new(big.Int).Set(listingID),
		TokenID:       tokenID,
		AssetContract: assetContract,
		Seller:        seller,
		Price:         price,
		Active:        active,
	}, nil
}

// GetAuction fetches an auction projection by id
func (m *Market) GetAuction(ctx context.Context, auctionID *big.Int) (*Auction, error) {
	data, err := abi.EncodeCall("getAuction(uint256)", auctionID)
	if err != nil {
		return nil, err
	}
	ret, err := m.node.CallContract(ctx, ledger.CallMsg{To: m.contract, Data: data})
	if err != nil {
		return nil, errors.Wrap(err, "read auction")
	}
	// (address assetContract, uint256 tokenId, address seller,
	//  uint256 startingPrice, uint256 currentBid, address currentBidder,
	//  uint256 startTime, uint256 endTime, bool active, bool ended)
	assetContract, err := abi.DecodeAddress(ret, 0)
	if err != nil {
		return nil, err
	}
	tokenID, err := abi.DecodeUint256(ret, 1)
	if err != nil {
		return nil, err
	}
	seller, err := abi.DecodeAddress(ret, 2)
	if err != nil {
		return nil, err
	}
	startingPrice, err := abi.DecodeUint256(ret, 3)
	if err != nil {
		return nil, err
	}
	currentBid, err := abi.DecodeUint256(ret, 4)
	if err != nil {
		return nil, err
	}
	currentBidder, err := abi.DecodeAddress(ret, 5)
	if err != nil {
		return nil, err
	}
	startTime, err := abi.DecodeUint256(ret, 6)
	if err != nil {
		return nil, err
	}
	endTime, err := abi.DecodeUint256(ret, 7)
	if err != nil {
		return nil, err
	}
	active, err := abi.DecodeBool(ret, 8)
	if err != nil {
		return nil, err
	}
	ended, err := abi.DecodeBool(ret, 9)
	if err != nil {
		return nil, err
	}
	if seller.IsZero() {
		return nil, errors.ErrNotFound.Newf("auction %s", auctionID)
	}
	return &Auction{
		AuctionID:     new(big.Int).Set(auctionID),
		TokenID:       tokenID,
		AssetContract: assetContract,
		Seller:        seller,
		StartingPrice: startingPrice,
		CurrentBid:    currentBid,
		CurrentBidder: currentBidder,
		StartTime:     time.Unix(int64(startTime.Uint64()), 0),
		EndTime:       time.Unix(int64(endTime.Uint64()), 0),
		Active:        active,
		Ended:         ended,
	}, nil
}

// GetOfferCount returns the number of offers in an offer bucket
func (m *Market) GetOfferCount(ctx context.Context, offerID *big.Int) (uint64, error) {
	data, err := abi.EncodeCall("getOfferCount(uint256)", offerID)
	if err != nil {
		return 0, err
	}
	ret, err := m.node.CallContract(ctx, ledger.CallMsg{To: m.contract, Data: data})
	if err != nil {
		return 0, errors.Wrap(err, "read offer count")
	}
	count, err := abi.DecodeUint256(ret, 0)
	if err != nil {
		return 0, err
	}
	return count.Uint64(), nil
}

// GetOffer fetches the offer projection at the given index of an offer
// bucket. Fetch immediately before AcceptOffer to minimize index drift.
func (m *Market) GetOffer(
	ctx context.Context,
	offerID *big.Int,
	offerIndex uint64,
) (*Offer, error) {
	data, err := abi.EncodeCall("getOffer(uint256,uint256)", offerID, offerIndex)
	if err != nil {
		return nil, err
	}
	ret, err := m.node.CallContract(ctx, ledger.CallMsg{To: m.contract, Data: data})
	if err != nil {
		return nil, errors.Wrap(err, "read offer")
	}
	// (address assetContract, uint256 tokenId, address offerer,
	//  uint256 amount, uint256 expiration, bool active)
	assetContract, err := abi.DecodeAddress(ret, 0)
	if err != nil {
		return nil, err
	}
	tokenID, err := abi.DecodeUint256(ret, 1)
	if err != nil {
		return nil, err
	}
	offerer, err := abi.DecodeAddress(ret, 2)
	if err != nil {
		return nil, err
	}
	amount, err := abi.DecodeUint256(ret, 3)
	if err != nil {
		return nil, err
	}
	expiration, err := abi.DecodeUint256(ret, 4)
	if err != nil {
		return nil, err
	}
	active, err := abi.DecodeBool(ret, 5)
	if err != nil {
		return nil, err
	}
	if offerer.IsZero() {
		return nil, errors.ErrNotFound.Newf("offer %s index %d", offerID, offerIndex)
	}
	return &Offer{
		OfferID:       new(big.Int).Set(offerID),
		TokenID:       tokenID,
		AssetContract: assetContract,
		Offerer:       offerer,
		Amount:        amount,
		Expiration:    time.Unix(int64(expiration.Uint64()), 0),
		Active:        active,
	}, nil
}

// GetOffers fetches every offer in an offer bucket. The indexes of the
// returned offers match the contract's at the moment of each read, but a
// cancellation landing between reads can shift later entries.
func (m *Market) GetOffers(ctx context.Context, offerID *big.Int) ([]*Offer, error) {
	count, err := m.GetOfferCount(ctx, offerID)
	if err != nil {
		return nil, err
	}
	ret := make([]*Offer, 0, count)
	for offerIndex := uint64(0); offerIndex < count; offerIndex++ {
		offer, err := m.GetOffer(ctx, offerID, offerIndex)
		if err != nil {
			// An entry cancelled mid-walk reads as not found; skip it
			if errors.ErrNotFound.Is(err) {
				continue
			}
			return nil, err
		}
		ret = append(ret, offer)
	}
	return ret, nil
}

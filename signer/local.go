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

package signer

import (
	"context"
	"math/big"
	"sync"

	"github.com/blinklabs-io/gomarket/errors"
	"github.com/blinklabs-io/gomarket/ledger"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/tyler-smith/go-bip39"
	"golang.org/x/crypto/sha3"
)

// Backend is the node surface the local signer needs to assemble and submit
// raw transactions
type Backend interface {
	ChainID(ctx context.Context) (uint64, error)
	PendingNonceAt(ctx context.Context, account ledger.Address) (uint64, error)
	GasPrice(ctx context.Context) (*big.Int, error)
	SendRawTransaction(ctx context.Context, rawTx []byte) (ledger.Hash, error)
}

// LocalSigner holds a secp256k1 key in process and signs legacy transactions
// itself, submitting them through a Backend. It's intended for tooling and
// tests; interactive wallets implement the Signer interface through their
// own provider instead.
//
// A LocalSigner never emits spontaneous events, since its account and chain
// cannot change underneath the caller.
type LocalSigner struct {
	key       *secp256k1.PrivateKey
	address   ledger.Address
	backend   Backend
	eventChan chan Event
	onceClose sync.Once
}

// NewLocalSigner returns a LocalSigner for the provided secp256k1 private
// key
func NewLocalSigner(key *secp256k1.PrivateKey, backend Backend) *LocalSigner {
	return &LocalSigner{
		key:       key,
		address:   pubKeyAddress(key.PubKey()),
		backend:   backend,
		eventChan: make(chan Event),
	}
}

// NewLocalSignerFromMnemonic derives a secp256k1 key from a BIP-39 mnemonic
// and returns a LocalSigner for it
func NewLocalSignerFromMnemonic(mnemonic string, backend Backend) (*LocalSigner, error) {
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, errors.ErrInvalidInput.New("invalid mnemonic")
	}
	seed := bip39.NewSeed(mnemonic, "")
	key := secp256k1.PrivKeyFromBytes(seed[:32])
	return NewLocalSigner(key, backend), nil
}

// pubKeyAddress derives the account address from a public key: the last 20
// bytes of the Keccak-256 digest of the uncompressed point
func pubKeyAddress(pub *secp256k1.PublicKey) ledger.Address {
	var ret ledger.Address
	uncompressed := pub.SerializeUncompressed()
	h := sha3.NewLegacyKeccak256()
	h.Write(uncompressed[1:])
	digest := h.Sum(nil)
	copy(ret[:], digest[len(digest)-ledger.AddressLength:])
	return ret
}

// Address returns the signer's account address
func (s *LocalSigner) Address() ledger.Address {
	return s.address
}

// RequestAccounts returns the single in-process account
func (s *LocalSigner) RequestAccounts(ctx context.Context) ([]ledger.Address, error) {
	return []ledger.Address{s.address}, nil
}

// ChainID returns the chain id of the backend node
func (s *LocalSigner) ChainID(ctx context.Context) (uint64, error) {
	return s.backend.ChainID(ctx)
}

// SignAndSend assembles a legacy transaction from the call parameters, signs
// it with the in-process key, and submits it through the backend
func (s *LocalSigner) SignAndSend(ctx context.Context, params TxParams) (ledger.Hash, error) {
	if !params.From.IsZero() && params.From != s.address {
		return ledger.Hash{}, errors.ErrNoSigner.Newf(
			"no key for account %s",
			params.From,
		)
	}
	chainID, err := s.backend.ChainID(ctx)
	if err != nil {
		return ledger.Hash{}, errors.Wrap(err, "fetch chain id")
	}
	nonce, err := s.backend.PendingNonceAt(ctx, s.address)
	if err != nil {
		return ledger.Hash{}, errors.Wrap(err, "fetch nonce")
	}
	gasPrice, err := s.backend.GasPrice(ctx)
	if err != nil {
		return ledger.Hash{}, errors.Wrap(err, "fetch gas price")
	}
	tx := legacyTx{
		Nonce:    nonce,
		GasPrice: gasPrice,
		Gas:      params.Gas,
		To:       params.To,
		Value:    params.Value,
		Data:     params.Data,
	}
	rawTx, err := tx.sign(s.key, chainID)
	if err != nil {
		return ledger.Hash{}, errors.Wrap(err, "sign transaction")
	}
	return s.backend.SendRawTransaction(ctx, rawTx)
}

// SwitchChain reports ErrUnknownChain for anything other than the backend's
// chain, since a local signer is bound to a single node
func (s *LocalSigner) SwitchChain(ctx context.Context, chainID uint64) error {
	current, err := s.backend.ChainID(ctx)
	if err != nil {
		return err
	}
	if chainID != current {
		return ErrUnknownChain.Newf("signer is bound to chain %d", current)
	}
	return nil
}

// AddChain is not supported by a local signer
func (s *LocalSigner) AddChain(ctx context.Context, params ChainParams) error {
	return errors.ErrInvalidInput.New("local signer cannot add chains")
}

// Events returns the signer event channel. A local signer never publishes
// events; the channel only closes on Close.
func (s *LocalSigner) Events() <-chan Event {
	return s.eventChan
}

// Close releases the signer's event channel
func (s *LocalSigner) Close() error {
	s.onceClose.Do(func() {
		close(s.eventChan)
	})
	return nil
}

// legacyTx is a pre-EIP-1559 transaction assembled for EIP-155 signing
type legacyTx struct {
	Nonce    uint64
	GasPrice *big.Int
	Gas      uint64
	To       ledger.Address
	Value    *big.Int
	Data     []byte
}

// sign produces the signed RLP encoding of the transaction using EIP-155
// replay protection
func (tx *legacyTx) sign(key *secp256k1.PrivateKey, chainID uint64) ([]byte, error) {
	chainIDInt := new(big.Int).SetUint64(chainID)
	// EIP-155: the signing payload includes (chainID, 0, 0) in place of the
	// signature fields
	unsigned := rlpList(
		rlpUint(tx.Nonce),
		rlpBigInt(tx.GasPrice),
		rlpUint(tx.Gas),
		rlpBytes(tx.To[:]),
		rlpBigInt(tx.Value),
		rlpBytes(tx.Data),
		rlpBigInt(chainIDInt),
		rlpBytes(nil),
		rlpBytes(nil),
	)
	h := sha3.NewLegacyKeccak256()
	h.Write(unsigned)
	digest := h.Sum(nil)
	// SignCompact returns [recovery+27, R (32 bytes), S (32 bytes)]
	compact := ecdsa.SignCompact(key, digest, false)
	recovery := uint64(compact[0]) - 27
	r := new(big.Int).SetBytes(compact[1:33])
	sVal := new(big.Int).SetBytes(compact[33:65])
	v := new(big.Int).SetUint64(recovery + 35 + 2*chainID)
	signed := rlpList(
		rlpUint(tx.Nonce),
		rlpBigInt(tx.GasPrice),
		rlpUint(tx.Gas),
		rlpBytes(tx.To[:]),
		rlpBigInt(tx.Value),
		rlpBytes(tx.Data),
		rlpBigInt(v),
		rlpBigInt(r),
		rlpBigInt(sVal),
	)
	return signed, nil
}

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

// Package signer defines the capability surface of an external transaction
// signer (browser extension, hardware device, or an in-process key) and
// provides a local in-process implementation.
package signer

import (
	"context"
	"math/big"

	"github.com/blinklabs-io/gomarket/errors"
	"github.com/blinklabs-io/gomarket/ledger"
)

var (
	// ErrUnknownChain is reported by a signer when asked to switch to a
	// chain it has no configuration for. The session reacts by adding the
	// chain from the network registry and retrying once.
	ErrUnknownChain = errors.Register(100, "unknown chain")
)

// TxParams describes a mutating call for the signer to authorize and submit
type TxParams struct {
	From  ledger.Address
	To    ledger.Address
	Data  []byte
	Value *big.Int
	// Gas is the buffered gas ceiling computed by the orchestrator
	Gas uint64
}

// ChainParams describes a chain for AddChain requests, sourced from the
// network registry
type ChainParams struct {
	ChainID     uint64
	Name        string
	EndpointURL string
}

// Event is implemented by all signer event types
type Event interface {
	isEvent()
}

// AccountsChangedEvent is emitted when the signer's account list changes. An
// empty list means access was revoked.
type AccountsChangedEvent struct {
	Accounts []ledger.Address
}

func (AccountsChangedEvent) isEvent() {}

// ChainChangedEvent is emitted when the signer's active chain changes
type ChainChangedEvent struct {
	ChainID uint64
}

func (ChainChangedEvent) isEvent() {}

// Signer is the minimal capability surface the account session depends on.
// Any signer implementing this surface is interchangeable.
type Signer interface {
	// RequestAccounts asks for account access and returns the accounts the
	// user granted. A decline is reported as ErrUserRejected.
	RequestAccounts(ctx context.Context) ([]ledger.Address, error)
	// ChainID returns the signer's active chain id
	ChainID(ctx context.Context) (uint64, error)
	// SignAndSend authorizes the described call, submits it, and returns
	// the transaction hash
	SignAndSend(ctx context.Context, params TxParams) (ledger.Hash, error)
	// SwitchChain asks the signer to change its active chain. An
	// unconfigured chain is reported as ErrUnknownChain.
	SwitchChain(ctx context.Context, chainID uint64) error
	// AddChain asks the signer to add a chain configuration
	AddChain(ctx context.Context, params ChainParams) error
	// Events returns the channel the signer publishes account and chain
	// changes on. The channel is closed by Close.
	Events() <-chan Event
	// Close releases any signer resources
	Close() error
}

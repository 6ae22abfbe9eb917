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

package test

import (
	"context"
	"sync"

	"github.com/blinklabs-io/gomarket/ledger"
	"github.com/blinklabs-io/gomarket/signer"
)

// MockSigner is a scripted signer for tests. Known chains, accounts, and
// outcomes are controlled by the test, and every interaction is recorded.
type MockSigner struct {
	sync.Mutex
	Accounts        []ledger.Address
	ActiveChainID   uint64
	KnownChains     map[uint64]bool
	RequestErr      error
	SignErr         error
	SignedParams    []signer.TxParams
	SwitchCalls     int
	AddChainCalls   int
	AddedChains     []signer.ChainParams
	events          chan signer.Event
	onceClose       sync.Once
	nextHash        byte
}

// NewMockSigner returns a MockSigner with the given accounts and active
// chain. The active chain starts out as the only known chain.
func NewMockSigner(chainID uint64, accounts ...ledger.Address) *MockSigner {
	return &MockSigner{
		Accounts:      accounts,
		ActiveChainID: chainID,
		KnownChains:   map[uint64]bool{chainID: true},
		events:        make(chan signer.Event, 8),
	}
}

func (s *MockSigner) RequestAccounts(
	ctx context.Context,
) ([]ledger.Address, error) {
	s.Lock()
	defer s.Unlock()
	if s.RequestErr != nil {
		return nil, s.RequestErr
	}
	return append([]ledger.Address{}, s.Accounts...), nil
}

func (s *MockSigner) ChainID(ctx context.Context) (uint64, error) {
	s.Lock()
	defer s.Unlock()
	return s.ActiveChainID, nil
}

func (s *MockSigner) SignAndSend(
	ctx context.Context,
	params signer.TxParams,
) (ledger.Hash, error) {
	s.Lock()
	defer s.Unlock()
	if s.SignErr != nil {
		return ledger.Hash{}, s.SignErr
	}
	s.SignedParams = append(s.SignedParams, params)
	s.nextHash++
	var txHash ledger.Hash
	txHash[31] = s.nextHash
	return txHash, nil
}

func (s *MockSigner) SwitchChain(ctx context.Context, chainID uint64) error {
	s.Lock()
	defer s.Unlock()
	s.SwitchCalls++
	if !s.KnownChains[chainID] {
		return signer.ErrUnknownChain.New("chain not configured")
	}
	s.ActiveChainID = chainID
	return nil
}

func (s *MockSigner) AddChain(
	ctx context.Context,
	params signer.ChainParams,
) error {
	s.Lock()
	defer s.Unlock()
	s.AddChainCalls++
	s.AddedChains = append(s.AddedChains, params)
	s.KnownChains[params.ChainID] = true
	return nil
}

func (s *MockSigner) Events() <-chan signer.Event {
	return s.events
}

// Emit publishes an event on the signer's event channel
func (s *MockSigner) Emit(event signer.Event) {
	s.events <- event
}

func (s *MockSigner) Close() error {
	s.onceClose.Do(func() {
		close(s.events)
	})
	return nil
}

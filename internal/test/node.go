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
	"math/big"
	"sync"

	"github.com/blinklabs-io/gomarket/ledger"
)

// MockNode is a scripted in-memory ledger node for tests. Heights, balances,
// and receipts are set directly by the test, and call counts are recorded so
// tests can assert on interaction patterns.
type MockNode struct {
	sync.Mutex
	ChainIDValue    uint64
	Height          uint64
	GasPriceValue   *big.Int
	EstimateValue   uint64
	EstimateErr     error
	CallHandler     func(ctx context.Context, msg ledger.CallMsg) ([]byte, error)
	SendHandler     func(ctx context.Context, rawTx []byte) (ledger.Hash, error)
	balances        map[ledger.Address]*big.Int
	nonces          map[ledger.Address]uint64
	receipts        map[ledger.Hash]*ledger.Receipt
	EstimateCalls   int
	CallCalls       int
	ReceiptCalls    int
	SendCalls       int
	BalanceCalls    int
	BlockNumberErrs []error
}

// NewMockNode returns a MockNode with the given chain ID
func NewMockNode(chainID uint64) *MockNode {
	return &MockNode{
		ChainIDValue:  chainID,
		GasPriceValue: big.NewInt(1_000_000_000),
		EstimateValue: 21000,
		balances:      map[ledger.Address]*big.Int{},
		nonces:        map[ledger.Address]uint64{},
		receipts:      map[ledger.Hash]*ledger.Receipt{},
	}
}

func (n *MockNode) ChainID(ctx context.Context) (uint64, error) {
	n.Lock()
	defer n.Unlock()
	return n.ChainIDValue, nil
}

func (n *MockNode) BlockNumber(ctx context.Context) (uint64, error) {
	n.Lock()
	defer n.Unlock()
	if len(n.BlockNumberErrs) > 0 {
		err := n.BlockNumberErrs[0]
		n.BlockNumberErrs = n.BlockNumberErrs[1:]
		if err != nil {
			return 0, err
		}
	}
	return n.Height, nil
}

// SetHeight sets the current chain height
func (n *MockNode) SetHeight(height uint64) {
	n.Lock()
	defer n.Unlock()
	n.Height = height
}

// AdvanceHeight increases the current chain height
func (n *MockNode) AdvanceHeight(blocks uint64) {
	n.Lock()
	defer n.Unlock()
	n.Height += blocks
}

// SetBalance sets the balance reported for an account
func (n *MockNode) SetBalance(account ledger.Address, balance *big.Int) {
	n.Lock()
	defer n.Unlock()
	n.balances[account] = new(big.Int).Set(balance)
}

func (n *MockNode) BalanceAt(
	ctx context.Context,
	account ledger.Address,
) (*big.Int, error) {
	n.Lock()
	defer n.Unlock()
	n.BalanceCalls++
	if balance, ok := n.balances[account]; ok {
		return new(big.Int).Set(balance), nil
	}
	return big.NewInt(0), nil
}

func (n *MockNode) EstimateGas(
	ctx context.Context,
	msg ledger.CallMsg,
) (uint64, error) {
	n.Lock()
	defer n.Unlock()
	n.EstimateCalls++
	if n.EstimateErr != nil {
		return 0, n.EstimateErr
	}
	return n.EstimateValue, nil
}

func (n *MockNode) CallContract(
	ctx context.Context,
	msg ledger.CallMsg,
) ([]byte, error) {
	n.Lock()
	handler := n.CallHandler
	n.CallCalls++
	n.Unlock()
	if handler == nil {
		return make([]byte, 32), nil
	}
	return handler(ctx, msg)
}

// SetReceipt makes a receipt available for the given transaction hash
func (n *MockNode) SetReceipt(txHash ledger.Hash, receipt *ledger.Receipt) {
	n.Lock()
	defer n.Unlock()
	n.receipts[txHash] = receipt
}

func (n *MockNode) TransactionReceipt(
	ctx context.Context,
	txHash ledger.Hash,
) (*ledger.Receipt, error) {
	n.Lock()
	defer n.Unlock()
	n.ReceiptCalls++
	// Absent receipt means the transaction is still pending
	return n.receipts[txHash], nil
}

func (n *MockNode) PendingNonceAt(
	ctx context.Context,
	account ledger.Address,
) (uint64, error) {
	n.Lock()
	defer n.Unlock()
	return n.nonces[account], nil
}

func (n *MockNode) GasPrice(ctx context.Context) (*big.Int, error) {
	n.Lock()
	defer n.Unlock()
	return new(big.Int).Set(n.GasPriceValue), nil
}

func (n *MockNode) SendRawTransaction(
	ctx context.Context,
	rawTx []byte,
) (ledger.Hash, error) {
	n.Lock()
	handler := n.SendHandler
	n.SendCalls++
	nonce := uint64(n.SendCalls)
	n.Unlock()
	if handler != nil {
		return handler(ctx, rawTx)
	}
	var txHash ledger.Hash
	txHash[31] = byte(nonce)
	return txHash, nil
}

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

package ledger

import (
	"context"
	"math/big"
)

// Node is the read and estimate surface of a ledger endpoint. All methods
// round-trip to the remote node; nothing is cached locally.
type Node interface {
	// ChainID returns the chain id reported by the node
	ChainID(ctx context.Context) (uint64, error)
	// BlockNumber returns the current block height
	BlockNumber(ctx context.Context) (uint64, error)
	// BalanceAt returns the native-currency balance of an account in the
	// smallest unit
	BalanceAt(ctx context.Context, account Address) (*big.Int, error)
	// EstimateGas simulates the call and returns the gas required. A
	// simulation failure usually indicates the call would revert.
	EstimateGas(ctx context.Context, msg CallMsg) (uint64, error)
	// CallContract executes a read-only call and returns the raw return
	// data
	CallContract(ctx context.Context, msg CallMsg) ([]byte, error)
	// TransactionReceipt returns the receipt for a transaction hash, or a
	// nil receipt with a nil error while the transaction is still pending
	TransactionReceipt(ctx context.Context, txHash Hash) (*Receipt, error)
}

// RawSender is implemented by nodes that accept pre-signed raw transactions.
// It's used by the local signer; browser-style signers submit through their
// own provider instead.
type RawSender interface {
	// SendRawTransaction submits a signed raw transaction and returns its
	// hash
	SendRawTransaction(ctx context.Context, rawTx []byte) (Hash, error)
}

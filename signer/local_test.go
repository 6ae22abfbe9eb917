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

package signer_test

import (
	"context"
	"math/big"
	"testing"

	"github.com/blinklabs-io/gomarket/errors"
	"github.com/blinklabs-io/gomarket/internal/test"
	"github.com/blinklabs-io/gomarket/ledger"
	"github.com/blinklabs-io/gomarket/signer"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testChainID = 11155111

const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

func newTestKey() *secp256k1.PrivateKey {
	keyBytes := make([]byte, 32)
	keyBytes[31] = 0x01
	return secp256k1.PrivKeyFromBytes(keyBytes)
}

func TestLocalSignerFromMnemonic(t *testing.T) {
	mockNode := test.NewMockNode(testChainID)
	localSigner, err := signer.NewLocalSignerFromMnemonic(testMnemonic, mockNode)
	require.NoError(t, err)
	defer localSigner.Close()
	assert.False(t, localSigner.Address().IsZero())
	// Derivation is deterministic
	otherSigner, err := signer.NewLocalSignerFromMnemonic(testMnemonic, mockNode)
	require.NoError(t, err)
	defer otherSigner.Close()
	assert.Equal(t, localSigner.Address(), otherSigner.Address())
}

func TestLocalSignerFromMnemonicInvalid(t *testing.T) {
	mockNode := test.NewMockNode(testChainID)
	_, err := signer.NewLocalSignerFromMnemonic("not a mnemonic", mockNode)
	assert.True(t, errors.ErrInvalidInput.Is(err), "did not get expected error: %v", err)
}

func TestLocalSignerAccounts(t *testing.T) {
	mockNode := test.NewMockNode(testChainID)
	localSigner := signer.NewLocalSigner(newTestKey(), mockNode)
	defer localSigner.Close()
	accounts, err := localSigner.RequestAccounts(context.Background())
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, localSigner.Address(), accounts[0])
	chainID, err := localSigner.ChainID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(testChainID), chainID)
}

func TestLocalSignerSignAndSend(t *testing.T) {
	mockNode := test.NewMockNode(testChainID)
	var rawTx []byte
	mockNode.SendHandler = func(ctx context.Context, data []byte) (ledger.Hash, error) {
		rawTx = data
		return ledger.Hash{31: 0x01}, nil
	}
	localSigner := signer.NewLocalSigner(newTestKey(), mockNode)
	defer localSigner.Close()
	txHash, err := localSigner.SignAndSend(context.Background(), signer.TxParams{
		To:    ledger.Address{0xdd},
		Value: big.NewInt(1000),
		Data:  []byte{0x01, 0x02},
		Gas:   21000,
	})
	require.NoError(t, err)
	assert.Equal(t, ledger.Hash{31: 0x01}, txHash)
	require.NotEmpty(t, rawTx)
	// The signed transaction is an RLP list
	assert.GreaterOrEqual(t, rawTx[0], byte(0xc0))
}

// A request naming an account the signer has no key for is rejected before
// anything reaches the node
func TestLocalSignerSignAndSendWrongAccount(t *testing.T) {
	mockNode := test.NewMockNode(testChainID)
	localSigner := signer.NewLocalSigner(newTestKey(), mockNode)
	defer localSigner.Close()
	_, err := localSigner.SignAndSend(context.Background(), signer.TxParams{
		From: ledger.Address{0xbb},
		To:   ledger.Address{0xdd},
	})
	assert.True(t, errors.ErrNoSigner.Is(err), "did not get expected error: %v", err)
	assert.Equal(t, 0, mockNode.SendCalls)
}

func TestLocalSignerSwitchChain(t *testing.T) {
	mockNode := test.NewMockNode(testChainID)
	localSigner := signer.NewLocalSigner(newTestKey(), mockNode)
	defer localSigner.Close()
	require.NoError(t, localSigner.SwitchChain(context.Background(), testChainID))
	err := localSigner.SwitchChain(context.Background(), 137)
	assert.True(t, signer.ErrUnknownChain.Is(err), "did not get expected error: %v", err)
	err = localSigner.AddChain(context.Background(), signer.ChainParams{ChainID: 137})
	assert.True(t, errors.ErrInvalidInput.Is(err), "did not get expected error: %v", err)
}

func TestLocalSignerClose(t *testing.T) {
	mockNode := test.NewMockNode(testChainID)
	localSigner := signer.NewLocalSigner(newTestKey(), mockNode)
	require.NoError(t, localSigner.Close())
	// Close is idempotent and closes the event channel
	require.NoError(t, localSigner.Close())
	_, ok := <-localSigner.Events()
	assert.False(t, ok)
}

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

package tx_test

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"testing"

	"github.com/blinklabs-io/gomarket/errors"
	"github.com/blinklabs-io/gomarket/internal/test"
	"github.com/blinklabs-io/gomarket/ledger"
	"github.com/blinklabs-io/gomarket/session"
	"github.com/blinklabs-io/gomarket/signer"
	"github.com/blinklabs-io/gomarket/tx"
)

const testChainID = 11155111

var (
	testAccount  = ledger.Address{0xaa}
	testContract = ledger.Address{0xcc}
)

func testResolver(chainID uint64) (signer.ChainParams, bool) {
	if chainID == testChainID {
		return signer.ChainParams{ChainID: chainID, Name: "test"}, true
	}
	return signer.ChainParams{}, false
}

// newTestOrchestrator returns an orchestrator wired to a connected session
// backed by the given mocks
func newTestOrchestrator(
	t *testing.T,
	mockSigner *test.MockSigner,
	mockNode *test.MockNode,
	options ...tx.OrchestratorOptionFunc,
) *tx.Orchestrator {
	t.Helper()
	sess := session.New(mockSigner, mockNode, testResolver)
	t.Cleanup(func() {
		sess.Close()
		mockSigner.Close()
	})
	if err := sess.Connect(context.Background()); err != nil {
		t.Fatalf("unexpected error connecting session: %s", err)
	}
	return tx.NewOrchestrator(sess, mockNode, options...)
}

func TestSubmit(t *testing.T) {
	mockSigner := test.NewMockSigner(testChainID, testAccount)
	mockNode := test.NewMockNode(testChainID)
	mockNode.EstimateValue = 100000
	orch := newTestOrchestrator(t, mockSigner, mockNode)
	submitted, err := orch.Submit(context.Background(), tx.CallRequest{
		To:    testContract,
		Data:  []byte{0x01, 0x02},
		Value: big.NewInt(500),
	})
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	// 20% buffer on the estimate
	if submitted.GasLimit != 120000 {
		t.Fatalf(
			"did not get expected gas limit: got %d, wanted 120000",
			submitted.GasLimit,
		)
	}
	if submitted.Status != tx.StatusPending {
		t.Fatalf("did not get expected status: %s", submitted.Status)
	}
	if submitted.SubmittedBy != testAccount {
		t.Fatalf("did not get expected submitter: %s", submitted.SubmittedBy)
	}
	if submitted.ChainID != testChainID {
		t.Fatalf("did not get expected chain id: %d", submitted.ChainID)
	}
	if len(mockSigner.SignedParams) != 1 {
		t.Fatalf("did not get expected signer call count: %d", len(mockSigner.SignedParams))
	}
	if mockSigner.SignedParams[0].Gas != 120000 {
		t.Fatalf(
			"signer did not receive buffered gas: got %d",
			mockSigner.SignedParams[0].Gas,
		)
	}
}

// The buffer rounds up so a fractional buffered estimate never rounds below
// the intended margin
func TestSubmitGasBufferRoundsUp(t *testing.T) {
	mockSigner := test.NewMockSigner(testChainID, testAccount)
	mockNode := test.NewMockNode(testChainID)
	mockNode.EstimateValue = 21001
	orch := newTestOrchestrator(t, mockSigner, mockNode)
	submitted, err := orch.Submit(context.Background(), tx.CallRequest{To: testContract})
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if submitted.GasLimit != 25202 {
		t.Fatalf(
			"did not get expected gas limit: got %d, wanted 25202",
			submitted.GasLimit,
		)
	}
}

func TestSubmitCustomGasBuffer(t *testing.T) {
	mockSigner := test.NewMockSigner(testChainID, testAccount)
	mockNode := test.NewMockNode(testChainID)
	mockNode.EstimateValue = 100000
	orch := newTestOrchestrator(
		t,
		mockSigner,
		mockNode,
		tx.WithGasBuffer(150, 100),
	)
	submitted, err := orch.Submit(context.Background(), tx.CallRequest{To: testContract})
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if submitted.GasLimit != 150000 {
		t.Fatalf(
			"did not get expected gas limit: got %d, wanted 150000",
			submitted.GasLimit,
		)
	}
}

func TestSubmitNotConnected(t *testing.T) {
	mockSigner := test.NewMockSigner(testChainID, testAccount)
	mockNode := test.NewMockNode(testChainID)
	sess := session.New(mockSigner, mockNode, testResolver)
	defer func() {
		sess.Close()
		mockSigner.Close()
	}()
	orch := tx.NewOrchestrator(sess, mockNode)
	_, err := orch.Submit(context.Background(), tx.CallRequest{To: testContract})
	if !errors.ErrState.Is(err) {
		t.Fatalf("did not get expected error: %v", err)
	}
	if mockNode.EstimateCalls != 0 {
		t.Fatalf("estimate was called for a disconnected session")
	}
}

// An estimation failure is terminal and carries the node's raw message
func TestSubmitEstimationFailure(t *testing.T) {
	mockSigner := test.NewMockSigner(testChainID, testAccount)
	mockNode := test.NewMockNode(testChainID)
	mockNode.EstimateErr = fmt.Errorf("execution reverted: item not listed")
	orch := newTestOrchestrator(t, mockSigner, mockNode)
	_, err := orch.Submit(context.Background(), tx.CallRequest{To: testContract})
	if !errors.ErrEstimation.Is(err) {
		t.Fatalf("did not get expected error: %v", err)
	}
	if !strings.Contains(err.Error(), "execution reverted: item not listed") {
		t.Fatalf("raw node message was lost: %s", err)
	}
	if len(mockSigner.SignedParams) != 0 {
		t.Fatalf("signer was called after estimation failure")
	}
}

func TestSubmitSignerRejection(t *testing.T) {
	mockSigner := test.NewMockSigner(testChainID, testAccount)
	mockNode := test.NewMockNode(testChainID)
	mockSigner.SignErr = errors.ErrUserRejected.New("user declined")
	orch := newTestOrchestrator(t, mockSigner, mockNode)
	_, err := orch.Submit(context.Background(), tx.CallRequest{To: testContract})
	if !errors.ErrUserRejected.Is(err) {
		t.Fatalf("did not get expected error: %v", err)
	}
}

// The submitted record holds its own copy of the request
func TestSubmitRequestSnapshot(t *testing.T) {
	mockSigner := test.NewMockSigner(testChainID, testAccount)
	mockNode := test.NewMockNode(testChainID)
	orch := newTestOrchestrator(t, mockSigner, mockNode)
	request := tx.CallRequest{
		To:    testContract,
		Data:  []byte{0x01, 0x02},
		Value: big.NewInt(500),
	}
	submitted, err := orch.Submit(context.Background(), request)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	request.Data[0] = 0xff
	request.Value.SetInt64(9999)
	if submitted.Request.Data[0] != 0x01 {
		t.Fatalf("submitted request shares call data with the caller")
	}
	if submitted.Request.Value.Int64() != 500 {
		t.Fatalf("submitted request shares value with the caller")
	}
}

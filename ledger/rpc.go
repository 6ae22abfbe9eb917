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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/blinklabs-io/gomarket/errors"
	"golang.org/x/time/rate"
)

const (
	defaultRequestTimeout = 30 * time.Second
	// defaultRequestsPerSecond bounds outbound request rate so a tight
	// confirmation poll cannot hammer a public endpoint
	defaultRequestsPerSecond = 20
)

// RPCNode is a Node implementation backed by a JSON-RPC 2.0 HTTP endpoint
type RPCNode struct {
	endpoint   string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
	nextId     atomic.Uint64
}

// RPCNodeOptionFunc is a function that modifies an RPCNode
type RPCNodeOptionFunc func(*RPCNode)

// WithHTTPClient specifies the HTTP client to use for requests
func WithHTTPClient(client *http.Client) RPCNodeOptionFunc {
	return func(n *RPCNode) {
		n.httpClient = client
	}
}

// WithRateLimit specifies the maximum outbound requests per second
func WithRateLimit(requestsPerSecond float64) RPCNodeOptionFunc {
	return func(n *RPCNode) {
		n.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), 1)
	}
}

// WithNodeLogger specifies the logger to use for request logging
func WithNodeLogger(logger *slog.Logger) RPCNodeOptionFunc {
	return func(n *RPCNode) {
		n.logger = logger
	}
}

// NewRPCNode returns a new RPCNode for the specified endpoint URL with the
// specified options
func NewRPCNode(endpoint string, options ...RPCNodeOptionFunc) *RPCNode {
	n := &RPCNode{
		endpoint: endpoint,
	}
	// Apply provided options functions
	for _, option := range options {
		option(n)
	}
	if n.httpClient == nil {
		n.httpClient = &http.Client{
			Timeout: defaultRequestTimeout,
		}
	}
	if n.limiter == nil {
		n.limiter = rate.NewLimiter(rate.Limit(defaultRequestsPerSecond), 1)
	}
	if n.logger == nil {
		n.logger = slog.New(slog.DiscardHandler)
	}
	return n
}

type rpcRequest struct {
	JsonRpc string `json:"jsonrpc"`
	Id      uint64 `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type rpcResponse struct {
	JsonRpc string          `json:"jsonrpc"`
	Id      uint64          `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *rpcError       `json:"error"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

func (e *rpcError) Error() string {
	if e.Data != nil {
		return fmt.Sprintf("%s (code %d, data %v)", e.Message, e.Code, e.Data)
	}
	return fmt.Sprintf("%s (code %d)", e.Message, e.Code)
}

// call performs a single JSON-RPC round trip and decodes the result into
// the provided destination. Transport failures are returned as ErrNetwork.
// Errors reported by the node itself are returned verbatim as *rpcError so
// callers can surface the raw message.
func (n *RPCNode) call(
	ctx context.Context,
	result any,
	method string,
	params ...any,
) error {
	if err := n.limiter.Wait(ctx); err != nil {
		return errors.Wrapf(errors.ErrCancelled, "rpc %s: %s", method, err)
	}
	if params == nil {
		params = []any{}
	}
	reqBody := rpcRequest{
		JsonRpc: "2.0",
		Id:      n.nextId.Add(1),
		Method:  method,
		Params:  params,
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return errors.Wrapf(errors.ErrInvalidInput, "rpc %s: encode request: %s", method, err)
	}
	n.logger.Debug(
		"rpc request",
		"component", "ledger",
		"method", method,
		"id", reqBody.Id,
	)
	httpReq, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		n.endpoint,
		bytes.NewReader(payload),
	)
	if err != nil {
		return errors.Wrapf(errors.ErrNetwork, "rpc %s: %s", method, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpResp, err := n.httpClient.Do(httpReq)
	if err != nil {
		return errors.Wrapf(errors.ErrNetwork, "rpc %s: %s", method, err)
	}
	defer httpResp.Body.Close()
	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return errors.Wrapf(errors.ErrNetwork, "rpc %s: read response: %s", method, err)
	}
	if httpResp.StatusCode != http.StatusOK {
		return errors.Wrapf(
			errors.ErrNetwork,
			"rpc %s: unexpected HTTP status %d: %s",
			method,
			httpResp.StatusCode,
			string(respBody),
		)
	}
	var resp rpcResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return errors.Wrapf(errors.ErrNetwork, "rpc %s: decode response: %s", method, err)
	}
	if resp.Error != nil {
		// Node-reported errors carry revert reasons and similar context
		// that callers need verbatim
		return resp.Error
	}
	if result != nil {
		if err := json.Unmarshal(resp.Result, result); err != nil {
			return errors.Wrapf(errors.ErrNetwork, "rpc %s: decode result: %s", method, err)
		}
	}
	return nil
}

// callMsgParam converts a CallMsg into the wire parameter object
func callMsgParam(msg CallMsg) map[string]any {
	param := map[string]any{
		"to": msg.To.String(),
	}
	if !msg.From.IsZero() {
		param["from"] = msg.From.String()
	}
	if len(msg.Data) > 0 {
		param["data"] = Bytes(msg.Data).String()
	}
	if msg.Value != nil && msg.Value.Sign() != 0 {
		param["value"] = NewQuantity(msg.Value).String()
	}
	if msg.Gas > 0 {
		param["gas"] = NewQuantity(new(big.Int).SetUint64(msg.Gas)).String()
	}
	return param
}

// ChainID returns the chain id reported by the node
func (n *RPCNode) ChainID(ctx context.Context) (uint64, error) {
	var ret Quantity
	if err := n.call(ctx, &ret, "eth_chainId"); err != nil {
		return 0, err
	}
	return ret.Uint64(), nil
}

// BlockNumber returns the current block height
func (n *RPCNode) BlockNumber(ctx context.Context) (uint64, error) {
	var ret Quantity
	if err := n.call(ctx, &ret, "eth_blockNumber"); err != nil {
		return 0, err
	}
	return ret.Uint64(), nil
}

// BalanceAt returns the native-currency balance of an account in the
// smallest unit
func (n *RPCNode) BalanceAt(ctx context.Context, account Address) (*big.Int, error) {
	var ret Quantity
	if err := n.call(ctx, &ret, "eth_getBalance", account.String(), "latest"); err != nil {
		return nil, err
	}
	return ret.Int(), nil
}

// EstimateGas simulates the call and returns the gas required
func (n *RPCNode) EstimateGas(ctx context.Context, msg CallMsg) (uint64, error) {
	var ret Quantity
	if err := n.call(ctx, &ret, "eth_estimateGas", callMsgParam(msg)); err != nil {
		return 0, err
	}
	return ret.Uint64(), nil
}

// CallContract executes a read-only call and returns the raw return data
func (n *RPCNode) CallContract(ctx context.Context, msg CallMsg) ([]byte, error) {
	var ret Bytes
	if err := n.call(ctx, &ret, "eth_call", callMsgParam(msg), "latest"); err != nil {
		return nil, err
	}
	return ret, nil
}

// TransactionReceipt returns the receipt for a transaction hash, or a nil
// receipt with a nil error while the transaction is still pending
func (n *RPCNode) TransactionReceipt(ctx context.Context, txHash Hash) (*Receipt, error) {
	var raw json.RawMessage
	if err := n.call(ctx, &raw, "eth_getTransactionReceipt", txHash.String()); err != nil {
		return nil, err
	}
	if len(raw) == 0 || string(raw) == "null" {
		// Not yet mined
		return nil, nil
	}
	var ret Receipt
	if err := json.Unmarshal(raw, &ret); err != nil {
		return nil, errors.Wrapf(errors.ErrNetwork, "decode receipt: %s", err)
	}
	return &ret, nil
}

// SendRawTransaction submits a signed raw transaction and returns its hash
func (n *RPCNode) SendRawTransaction(ctx context.Context, rawTx []byte) (Hash, error) {
	var ret Hash
	if err := n.call(ctx, &ret, "eth_sendRawTransaction", Bytes(rawTx).String()); err != nil {
		return Hash{}, err
	}
	return ret, nil
}

// PendingNonceAt returns the next nonce for an account, including pending
// transactions
func (n *RPCNode) PendingNonceAt(ctx context.Context, account Address) (uint64, error) {
	var ret Quantity
	if err := n.call(ctx, &ret, "eth_getTransactionCount", account.String(), "pending"); err != nil {
		return 0, err
	}
	return ret.Uint64(), nil
}

// GasPrice returns the node's suggested gas price in the smallest unit
func (n *RPCNode) GasPrice(ctx context.Context) (*big.Int, error) {
	var ret Quantity
	if err := n.call(ctx, &ret, "eth_gasPrice"); err != nil {
		return nil, err
	}
	return ret.Int(), nil
}

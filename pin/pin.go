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

// Package pin is a client for the stateless content-pinning upload service.
// Callers receive an opaque content reference; resolving or interpreting the
// reference is out of scope. Upload before mint: the asset registry only
// accepts already-resolved references.
package pin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/blinklabs-io/gomarket/errors"
	"github.com/fxamacker/cbor/v2"
)

const defaultUploadTimeout = 2 * time.Minute

// PinResult is the service's answer to a successful upload
type PinResult struct {
	// Reference is the opaque content reference for the pinned data
	Reference string `json:"reference"`
	// Size is the pinned size in bytes
	Size int64 `json:"size"`
}

// Client is a content-pinning service client
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

// ClientOptionFunc is a function that modifies a Client
type ClientOptionFunc func(*Client)

// WithAPIKey specifies the bearer token for upload requests
func WithAPIKey(apiKey string) ClientOptionFunc {
	return func(c *Client) {
		c.apiKey = apiKey
	}
}

// WithHTTPClient specifies the HTTP client to use for requests
func WithHTTPClient(httpClient *http.Client) ClientOptionFunc {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger specifies the logger for upload requests
func WithLogger(logger *slog.Logger) ClientOptionFunc {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient returns a new pinning client for the specified service URL with
// the specified options
func NewClient(baseURL string, options ...ClientOptionFunc) *Client {
	c := &Client{
		baseURL: baseURL,
	}
	// Apply provided options functions
	for _, option := range options {
		option(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{
			Timeout: defaultUploadTimeout,
		}
	}
	if c.logger == nil {
		c.logger = slog.New(slog.DiscardHandler)
	}
	return c
}

// Upload pins raw bytes and returns the content reference
func (c *Client) Upload(
	ctx context.Context,
	data []byte,
	nameHint string,
) (*PinResult, error) {
	return c.upload(ctx, data, nameHint, "application/octet-stream")
}

// UploadJSON pins the canonical JSON encoding of a value and returns the
// content reference
func (c *Client) UploadJSON(
	ctx context.Context,
	v any,
	nameHint string,
) (*PinResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, errors.ErrInvalidInput.Newf("encode metadata: %s", err)
	}
	return c.upload(ctx, data, nameHint, "application/json")
}

// UploadCBOR pins the canonical CBOR encoding of a value and returns the
// content reference. Pinning services that store structured data as
// dag-cbor accept this alongside JSON.
func (c *Client) UploadCBOR(
	ctx context.Context,
	v any,
	nameHint string,
) (*PinResult, error) {
	mode, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		return nil, errors.ErrInvalidInput.Newf("cbor encoder: %s", err)
	}
	data, err := mode.Marshal(v)
	if err != nil {
		return nil, errors.ErrInvalidInput.Newf("encode metadata: %s", err)
	}
	return c.upload(ctx, data, nameHint, "application/cbor")
}

func (c *Client) upload(
	ctx context.Context,
	data []byte,
	nameHint string,
	contentType string,
) (*PinResult, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", nameHint)
	if err != nil {
		return nil, errors.ErrInvalidInput.Newf("build upload form: %s", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, errors.ErrInvalidInput.Newf("build upload form: %s", err)
	}
	if err := writer.WriteField("contentType", contentType); err != nil {
		return nil, errors.ErrInvalidInput.Newf("build upload form: %s", err)
	}
	if err := writer.Close(); err != nil {
		return nil, errors.ErrInvalidInput.Newf("build upload form: %s", err)
	}
	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		fmt.Sprintf("%s/upload", c.baseURL),
		&body,
	)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNetwork, "upload: %s", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	c.logger.Debug(
		"uploading content",
		"component", "pin",
		"name_hint", nameHint,
		"size", len(data),
	)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNetwork, "upload: %s", err)
	}
	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNetwork, "upload: read response: %s", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Wrapf(
			errors.ErrNetwork,
			"upload: unexpected HTTP status %d: %s",
			resp.StatusCode,
			string(respBody),
		)
	}
	var ret PinResult
	if err := json.Unmarshal(respBody, &ret); err != nil {
		return nil, errors.Wrapf(errors.ErrNetwork, "upload: decode response: %s", err)
	}
	if ret.Reference == "" {
		return nil, errors.ErrNetwork.New("upload: service returned empty reference")
	}
	return &ret, nil
}

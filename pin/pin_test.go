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

package pin_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/blinklabs-io/gomarket/errors"
	"github.com/blinklabs-io/gomarket/pin"
)

type uploadRecord struct {
	Name        string
	Data        []byte
	ContentType string
	AuthHeader  string
}

// newTestService runs an upload endpoint that records each request and
// answers with a reference derived from the upload size
func newTestService(t *testing.T, records *[]uploadRecord) *httptest.Server {
	t.Helper()
	return httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/upload" {
				t.Errorf("unexpected request path: %s", r.URL.Path)
				http.NotFound(w, r)
				return
			}
			if err := r.ParseMultipartForm(1 << 20); err != nil {
				t.Errorf("unexpected error parsing form: %s", err)
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			file, header, err := r.FormFile("file")
			if err != nil {
				t.Errorf("unexpected error reading file part: %s", err)
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			defer file.Close()
			data, err := io.ReadAll(file)
			if err != nil {
				t.Errorf("unexpected error reading upload: %s", err)
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			*records = append(*records, uploadRecord{
				Name:        header.Filename,
				Data:        data,
				ContentType: r.FormValue("contentType"),
				AuthHeader:  r.Header.Get("Authorization"),
			})
			_ = json.NewEncoder(w).Encode(pin.PinResult{
				Reference: fmt.Sprintf("ref-%d", len(data)),
				Size:      int64(len(data)),
			})
		}),
	)
}

func TestUpload(t *testing.T) {
	var records []uploadRecord
	srv := newTestService(t, &records)
	defer srv.Close()
	client := pin.NewClient(srv.URL, pin.WithAPIKey("secret"))
	result, err := client.Upload(
		context.Background(),
		[]byte{0x01, 0x02, 0x03},
		"artwork.bin",
	)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if result.Reference != "ref-3" {
		t.Fatalf("did not get expected reference: %s", result.Reference)
	}
	if result.Size != 3 {
		t.Fatalf("did not get expected size: %d", result.Size)
	}
	if len(records) != 1 {
		t.Fatalf("did not get expected upload count: %d", len(records))
	}
	if records[0].Name != "artwork.bin" {
		t.Fatalf("did not get expected name hint: %s", records[0].Name)
	}
	if !bytes.Equal(records[0].Data, []byte{0x01, 0x02, 0x03}) {
		t.Fatalf("did not get expected upload payload: %x", records[0].Data)
	}
	if records[0].ContentType != "application/octet-stream" {
		t.Fatalf("did not get expected content type: %s", records[0].ContentType)
	}
	if records[0].AuthHeader != "Bearer secret" {
		t.Fatalf("did not get expected auth header: %q", records[0].AuthHeader)
	}
}

func TestUploadJSON(t *testing.T) {
	var records []uploadRecord
	srv := newTestService(t, &records)
	defer srv.Close()
	client := pin.NewClient(srv.URL)
	metadata := map[string]string{"name": "test asset"}
	result, err := client.UploadJSON(context.Background(), metadata, "metadata.json")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if result.Reference == "" {
		t.Fatalf("did not get expected reference")
	}
	if records[0].ContentType != "application/json" {
		t.Fatalf("did not get expected content type: %s", records[0].ContentType)
	}
	var decoded map[string]string
	if err := json.Unmarshal(records[0].Data, &decoded); err != nil {
		t.Fatalf("unexpected error decoding upload: %s", err)
	}
	if decoded["name"] != "test asset" {
		t.Fatalf("did not get expected metadata payload: %+v", decoded)
	}
	if records[0].AuthHeader != "" {
		t.Fatalf("got unexpected auth header: %q", records[0].AuthHeader)
	}
}

func TestUploadCBOR(t *testing.T) {
	var records []uploadRecord
	srv := newTestService(t, &records)
	defer srv.Close()
	client := pin.NewClient(srv.URL)
	result, err := client.UploadCBOR(
		context.Background(),
		map[string]string{"name": "test asset"},
		"metadata.cbor",
	)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if result.Reference == "" {
		t.Fatalf("did not get expected reference")
	}
	if records[0].ContentType != "application/cbor" {
		t.Fatalf("did not get expected content type: %s", records[0].ContentType)
	}
	if len(records[0].Data) == 0 {
		t.Fatalf("did not get expected upload payload")
	}
}

func TestUploadServiceError(t *testing.T) {
	srv := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "quota exceeded", http.StatusForbidden)
		}),
	)
	defer srv.Close()
	client := pin.NewClient(srv.URL)
	_, err := client.Upload(context.Background(), []byte{0x01}, "artwork.bin")
	if !errors.ErrNetwork.Is(err) {
		t.Fatalf("did not get expected error: %v", err)
	}
}

func TestUploadTransportError(t *testing.T) {
	srv := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}),
	)
	srv.Close()
	client := pin.NewClient(srv.URL)
	_, err := client.Upload(context.Background(), []byte{0x01}, "artwork.bin")
	if !errors.ErrNetwork.Is(err) {
		t.Fatalf("did not get expected error: %v", err)
	}
}

func TestUploadEmptyReference(t *testing.T) {
	srv := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"reference":"","size":0}`))
		}),
	)
	defer srv.Close()
	client := pin.NewClient(srv.URL)
	_, err := client.Upload(context.Background(), []byte{0x01}, "artwork.bin")
	if !errors.ErrNetwork.Is(err) {
		t.Fatalf("did not get expected error: %v", err)
	}
}

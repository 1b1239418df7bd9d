// Copyright 2026 The Cockroach Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or
// implied. See the License for the specific language governing
// permissions and limitations under the License.
package httputil

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime"
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/gogo/protobuf/proto"
)

const (
	// AcceptHeader is the canonical header name for accept.
	AcceptHeader = "Accept"
	// ContentTypeHeader is the canonical header name for content type.
	ContentTypeHeader = "Content-Type"
	// JSONContentType is the JSON content type.
	JSONContentType = "application/json"
	// ProtoContentType is the protobuf content type.
	ProtoContentType = "application/x-protobuf"
)

// maxErrorBody bounds how much of an error response body is included in the
// returned error.
const maxErrorBody = 1 << 10

// PostProto uses the supplied client to POST request to the URL specified by
// url and unmarshals the protobuf-encoded result into response.
func PostProto(
	ctx context.Context, client *http.Client, url string, request, response proto.Message,
) error {
	body, err := proto.Marshal(request)
	if err != nil {
		return errors.Wrap(err, "marshaling request")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set(ContentTypeHeader, ProtoContentType)
	req.Header.Set(AcceptHeader, ProtoContentType)
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return errors.Newf("POST %s: status %d: %s", url, resp.StatusCode, errorMessage(resp.Header, msg))
	}
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "reading response")
	}
	return errors.Wrap(proto.Unmarshal(respBody, response), "unmarshaling response")
}

// ErrorBody is the JSON form of an error response.
type ErrorBody struct {
	Error string `json:"error"`
	Code  int    `json:"code,omitempty"`
}

// WriteError writes err as a JSON error body with the given status code.
func WriteError(w http.ResponseWriter, err error, code int) {
	w.Header().Set(ContentTypeHeader, JSONContentType)
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(ErrorBody{Error: err.Error(), Code: code})
}

// errorMessage extracts the message of an error response body. JSON bodies
// are decoded; anything else is returned as text.
func errorMessage(h http.Header, body []byte) string {
	if mt, _, err := mime.ParseMediaType(h.Get(ContentTypeHeader)); err == nil && mt == JSONContentType {
		var eb ErrorBody
		if err := json.Unmarshal(body, &eb); err == nil && eb.Error != "" {
			return eb.Error
		}
	}
	return string(bytes.TrimSpace(body))
}

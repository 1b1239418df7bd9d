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
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cockroachdb/dbconsole/pkg/ts/tspb"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
)

func TestPostProtoErrorBody(t *testing.T) {
	ctx := context.Background()
	testCases := []struct {
		name    string
		handler http.HandlerFunc
		expErr  string
	}{
		{
			name: "json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				WriteError(w, errors.New("no such metric"), http.StatusBadRequest)
			},
			expErr: "status 400: no such metric$",
		},
		{
			name: "json with charset",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set(ContentTypeHeader, JSONContentType+"; charset=utf-8")
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte(`{"error": "boom", "code": 500}`))
			},
			expErr: "status 500: boom$",
		},
		{
			name: "plaintext",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "bad gateway", http.StatusBadGateway)
			},
			expErr: "status 502: bad gateway$",
		},
		{
			name: "malformed json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set(ContentTypeHeader, JSONContentType)
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte("{not json"))
			},
			expErr: "status 400: \\{not json$",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(tc.handler)
			defer srv.Close()
			err := PostProto(ctx, srv.Client(), srv.URL, &tspb.TimeSeriesQueryRequest{}, &tspb.TimeSeriesQueryResponse{})
			require.Error(t, err)
			require.Regexp(t, tc.expErr, err.Error())
		})
	}
}

func TestWriteError(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, errors.New("oops"), http.StatusNotFound)
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, JSONContentType, w.Header().Get(ContentTypeHeader))
	require.JSONEq(t, `{"error": "oops", "code": 404}`, w.Body.String())
}

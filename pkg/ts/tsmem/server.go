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
package tsmem

import (
	"context"
	"io"
	"net/http"
	"sync/atomic"

	"github.com/NYTimes/gziphandler"
	"github.com/cockroachdb/dbconsole/pkg/ts/tspb"
	"github.com/cockroachdb/dbconsole/pkg/util/httputil"
	"github.com/cockroachdb/dbconsole/pkg/util/log"
	"github.com/cockroachdb/errors"
	"github.com/gogo/protobuf/proto"
	"github.com/gorilla/mux"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// TestingKnobs alter the behavior of a Server in tests.
type TestingKnobs struct {
	// QueryFilter, if set, is called with every request before it is
	// served. A returned error fails the request.
	QueryFilter func(*tspb.TimeSeriesQueryRequest) error
	// ResponseFilter, if set, may modify every response before it is
	// returned.
	ResponseFilter func(*tspb.TimeSeriesQueryResponse)
}

// Server serves queries against a DB over gRPC and HTTP.
type Server struct {
	db    *DB
	knobs TestingKnobs

	// queries counts the requests served.
	queries atomic.Int64
}

var _ tspb.TimeSeriesServer = (*Server)(nil)

// NewServer returns a server for db.
func NewServer(db *DB, knobs TestingKnobs) *Server {
	return &Server{db: db, knobs: knobs}
}

// Requests returns the number of query requests the server received.
func (s *Server) Requests() int64 {
	return s.queries.Load()
}

// Query implements tspb.TimeSeriesServer.
func (s *Server) Query(
	ctx context.Context, req *tspb.TimeSeriesQueryRequest,
) (*tspb.TimeSeriesQueryResponse, error) {
	s.queries.Add(1)
	if err := validate(req); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if fn := s.knobs.QueryFilter; fn != nil {
		if err := fn(req); err != nil {
			return nil, err
		}
	}
	log.VEventf(ctx, 2, "serving %d queries over %s", len(req.Queries), req.TimeSpan())
	resp := &tspb.TimeSeriesQueryResponse{
		Results: make([]tspb.TimeSeriesQueryResponse_Result, len(req.Queries)),
	}
	for i, q := range req.Queries {
		resp.Results[i] = tspb.TimeSeriesQueryResponse_Result{
			Query:      q,
			Datapoints: s.db.Query(q, req.SampleNanos, req.StartNanos, req.EndNanos).Datapoints(),
		}
	}
	if fn := s.knobs.ResponseFilter; fn != nil {
		fn(resp)
	}
	return resp, nil
}

func validate(req *tspb.TimeSeriesQueryRequest) error {
	if len(req.Queries) == 0 {
		return errors.New("time series query requests must specify at least one query")
	}
	if req.SampleNanos <= 0 {
		return errors.Newf("invalid sample period %d", req.SampleNanos)
	}
	if req.EndNanos <= req.StartNanos {
		return errors.Newf("end time %d must be after start time %d", req.EndNanos, req.StartNanos)
	}
	for i := range req.Queries {
		if req.Queries[i].Name == "" {
			return errors.Newf("query %d: time series query requests must specify a name", i)
		}
	}
	return nil
}

// Handler returns an HTTP handler serving the query endpoint.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc(tspb.URLQuery, s.serveQuery).Methods(http.MethodPost)
	return gziphandler.GzipHandler(r)
}

func (s *Server) serveQuery(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	body, err := io.ReadAll(r.Body)
	if err != nil {
		httputil.WriteError(w, err, http.StatusBadRequest)
		return
	}
	req := &tspb.TimeSeriesQueryRequest{}
	if err := proto.Unmarshal(body, req); err != nil {
		httputil.WriteError(w, errors.Wrap(err, "decoding request"), http.StatusBadRequest)
		return
	}
	resp, err := s.Query(ctx, req)
	if err != nil {
		code := http.StatusInternalServerError
		if status.Code(err) == codes.InvalidArgument {
			code = http.StatusBadRequest
		}
		httputil.WriteError(w, err, code)
		return
	}
	out, err := proto.Marshal(resp)
	if err != nil {
		log.Errorf(ctx, "encoding response: %v", err)
		httputil.WriteError(w, err, http.StatusInternalServerError)
		return
	}
	w.Header().Set(httputil.ContentTypeHeader, httputil.ProtoContentType)
	if _, err := w.Write(out); err != nil {
		log.Warningf(ctx, "writing response: %v", err)
	}
}

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
package tsclient

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cockroachdb/dbconsole/pkg/rpc"
	"github.com/cockroachdb/dbconsole/pkg/ts/tsmem"
	"github.com/cockroachdb/dbconsole/pkg/ts/tspb"
	"github.com/cockroachdb/dbconsole/pkg/util/contextutil"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/test/bufconn"
)

func testRequest() *tspb.TimeSeriesQueryRequest {
	return &tspb.TimeSeriesQueryRequest{
		StartNanos:  0,
		EndNanos:    (60 * time.Second).Nanoseconds(),
		SampleNanos: (10 * time.Second).Nanoseconds(),
		Queries:     []tspb.Query{{Name: "m"}, {Name: "missing"}},
	}
}

func testDB() *tsmem.DB {
	db := tsmem.NewDB()
	db.Record("m", "1", tsmem.DataSeries{
		{Timestamp: 0, Value: 1},
		{Timestamp: (10 * time.Second).Nanoseconds(), Value: 2},
	})
	return db
}

func checkResponse(t *testing.T, resp *tspb.TimeSeriesQueryResponse) {
	t.Helper()
	require.Len(t, resp.Results, 2)
	require.Equal(t, "m", resp.Results[0].Name)
	require.Equal(t, []float64{1, 2}, resp.Results[0].Values())
	require.Equal(t, "missing", resp.Results[1].Name)
	require.Empty(t, resp.Results[1].Datapoints)
}

func TestHTTPClient(t *testing.T) {
	ctx := context.Background()
	srv := httptest.NewServer(tsmem.NewServer(testDB(), tsmem.TestingKnobs{}).Handler())
	defer srv.Close()

	q, closer, err := New(ctx, Config{URL: srv.URL + "/", Transport: TransportHTTP})
	require.NoError(t, err)
	defer func() { require.NoError(t, closer()) }()

	resp, err := q.Query(ctx, testRequest())
	require.NoError(t, err)
	checkResponse(t, resp)

	_, err = q.Query(ctx, &tspb.TimeSeriesQueryRequest{EndNanos: 1, SampleNanos: 1})
	require.ErrorContains(t, err, "status 400")
	require.NotContains(t, err.Error(), `"error"`)
}

func TestHTTPClientTimeout(t *testing.T) {
	ctx := context.Background()
	// The server only notices the client going away once the body is read.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		<-r.Context().Done()
	}))
	defer srv.Close()

	c, err := NewHTTPClient(srv.Client(), srv.URL, 10*time.Millisecond)
	require.NoError(t, err)
	_, err = c.Query(ctx, testRequest())
	require.Error(t, err)
	var te *contextutil.TimeoutError
	require.True(t, errors.As(err, &te), "%+v", err)
	require.Equal(t, "ts query", te.Operation())
}

func TestNewHTTPClientInvalidURL(t *testing.T) {
	_, err := NewHTTPClient(nil, "localhost:8080", time.Second)
	require.ErrorContains(t, err, "unsupported scheme")
	_, _, err = New(context.Background(), Config{URL: "http://x", Transport: "carrier-pigeon"})
	require.ErrorContains(t, err, "unknown transport")
}

func TestGRPCClient(t *testing.T) {
	ctx := context.Background()
	lis := bufconn.Listen(1 << 20)
	grpcSrv := rpc.NewServer()
	tspb.RegisterTimeSeriesServer(grpcSrv, tsmem.NewServer(testDB(), tsmem.TestingKnobs{}))
	go func() { _ = grpcSrv.Serve(lis) }()
	defer grpcSrv.Stop()

	q, closer, err := New(ctx, Config{
		URL:       "bufnet",
		Transport: TransportGRPC,
		Dial: rpc.DialOptions{
			Metrics: rpc.NewMetrics(nil),
			Extra: []grpc.DialOption{
				grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
					return lis.DialContext(ctx)
				}),
			},
		},
	})
	require.NoError(t, err)
	defer func() { require.NoError(t, closer()) }()

	resp, err := q.Query(ctx, testRequest())
	require.NoError(t, err)
	checkResponse(t, resp)
}

func TestTransportFlag(t *testing.T) {
	var tr Transport
	require.NoError(t, tr.Set("GRPC"))
	require.Equal(t, TransportGRPC, tr)
	require.Equal(t, "grpc", tr.String())
	require.Error(t, tr.Set("udp"))
}

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
package rpc

import (
	"context"
	"net"
	"testing"

	"github.com/cockroachdb/dbconsole/pkg/ts/tspb"
	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/test/bufconn"
)

type echoServer struct {
	fail bool
}

func (s *echoServer) Query(
	_ context.Context, req *tspb.TimeSeriesQueryRequest,
) (*tspb.TimeSeriesQueryResponse, error) {
	if s.fail {
		return nil, errors.New("boom")
	}
	resp := &tspb.TimeSeriesQueryResponse{}
	for _, q := range req.Queries {
		resp.Results = append(resp.Results, tspb.TimeSeriesQueryResponse_Result{Query: q})
	}
	return resp, nil
}

func TestDialRemoteMetrics(t *testing.T) {
	ctx := context.Background()
	lis := bufconn.Listen(1 << 20)
	srv := NewServer()
	echo := &echoServer{}
	tspb.RegisterTimeSeriesServer(srv, echo)
	go func() { _ = srv.Serve(lis) }()
	defer srv.Stop()

	m := NewMetrics(nil)
	conn, err := DialRemote(ctx, "bufnet", DialOptions{
		Metrics: m,
		Extra: []grpc.DialOption{
			grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
				return lis.DialContext(ctx)
			}),
		},
	})
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()

	client := tspb.NewTimeSeriesClient(conn)
	resp, err := client.Query(ctx, &tspb.TimeSeriesQueryRequest{
		Queries: []tspb.Query{{Name: "a"}, {Name: "b"}},
	})
	require.NoError(t, err)
	require.Len(t, resp.Results, 2)
	require.Equal(t, "b", resp.Results[1].Name)

	echo.fail = true
	_, err = client.Query(ctx, &tspb.TimeSeriesQueryRequest{})
	require.Error(t, err)

	const method = "/cockroach.ts.tspb.TimeSeries/Query"
	require.Equal(t, 2.0, testutil.ToFloat64(m.Calls.WithLabelValues(method)))
	require.Equal(t, 1.0, testutil.ToFloat64(m.CallErrors.WithLabelValues(method)))
	require.Equal(t, 1, testutil.CollectAndCount(m.RoundTripLatency))
}

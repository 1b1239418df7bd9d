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
// Package tsclient issues time series queries to a cluster node.
package tsclient

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cockroachdb/dbconsole/pkg/rpc"
	"github.com/cockroachdb/dbconsole/pkg/ts/tspb"
	"github.com/cockroachdb/dbconsole/pkg/util/contextutil"
	"github.com/cockroachdb/dbconsole/pkg/util/httputil"
	"github.com/cockroachdb/errors"
	"google.golang.org/grpc"
)

// Querier issues a single time series query request and returns the
// server's response.
type Querier interface {
	Query(context.Context, *tspb.TimeSeriesQueryRequest) (*tspb.TimeSeriesQueryResponse, error)
}

// DefaultTimeout bounds a single query when no timeout is configured.
const DefaultTimeout = 30 * time.Second

// Transport selects how queries are sent.
type Transport string

// Supported transports.
const (
	TransportHTTP Transport = "http"
	TransportGRPC Transport = "grpc"
)

// Set implements pflag.Value.
func (t *Transport) Set(s string) error {
	switch v := Transport(strings.ToLower(s)); v {
	case TransportHTTP, TransportGRPC:
		*t = v
		return nil
	default:
		return errors.Newf("unknown transport %q, expected %q or %q", s, TransportHTTP, TransportGRPC)
	}
}

func (t *Transport) String() string { return string(*t) }

// Type implements pflag.Value.
func (t *Transport) Type() string { return "transport" }

// HTTPClient sends queries as protobuf POST requests to the admin HTTP
// endpoint of a node.
type HTTPClient struct {
	client  *http.Client
	url     string
	timeout time.Duration
}

var _ Querier = (*HTTPClient)(nil)

// NewHTTPClient returns a client posting to the query endpoint below
// baseURL. A nil client means http.DefaultClient.
func NewHTTPClient(client *http.Client, baseURL string, timeout time.Duration) (*HTTPClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing url %q", baseURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, errors.Newf("url %q: unsupported scheme %q", baseURL, u.Scheme)
	}
	if client == nil {
		client = http.DefaultClient
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + tspb.URLQuery
	return &HTTPClient{client: client, url: u.String(), timeout: timeout}, nil
}

// Query implements Querier.
func (c *HTTPClient) Query(
	ctx context.Context, req *tspb.TimeSeriesQueryRequest,
) (*tspb.TimeSeriesQueryResponse, error) {
	resp := &tspb.TimeSeriesQueryResponse{}
	if err := contextutil.RunWithTimeout(ctx, "ts query", c.timeout, func(ctx context.Context) error {
		return httputil.PostProto(ctx, c.client, c.url, req, resp)
	}); err != nil {
		return nil, err
	}
	return resp, nil
}

// GRPCClient sends queries over the TimeSeries gRPC service.
type GRPCClient struct {
	client  tspb.TimeSeriesClient
	timeout time.Duration
}

var _ Querier = (*GRPCClient)(nil)

// NewGRPCClient returns a client issuing queries on conn.
func NewGRPCClient(conn grpc.ClientConnInterface, timeout time.Duration) *GRPCClient {
	return &GRPCClient{client: tspb.NewTimeSeriesClient(conn), timeout: timeout}
}

// Query implements Querier.
func (c *GRPCClient) Query(
	ctx context.Context, req *tspb.TimeSeriesQueryRequest,
) (*tspb.TimeSeriesQueryResponse, error) {
	var resp *tspb.TimeSeriesQueryResponse
	if err := contextutil.RunWithTimeout(ctx, "ts query", c.timeout, func(ctx context.Context) (err error) {
		resp, err = c.client.Query(ctx, req)
		return err
	}); err != nil {
		return nil, err
	}
	return resp, nil
}

// Config describes how to reach a node.
type Config struct {
	// URL is the base URL of the node's admin HTTP endpoint for the http
	// transport, or host:port for the grpc transport.
	URL       string
	Transport Transport
	Timeout   time.Duration
	// HTTPClient is used by the http transport; nil means http.DefaultClient.
	HTTPClient *http.Client
	// Dial is used by the grpc transport.
	Dial rpc.DialOptions
}

// New returns a Querier for cfg along with a function releasing its
// resources.
func New(ctx context.Context, cfg Config) (Querier, func() error, error) {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	switch cfg.Transport {
	case TransportHTTP, "":
		c, err := NewHTTPClient(cfg.HTTPClient, cfg.URL, timeout)
		if err != nil {
			return nil, nil, err
		}
		return c, func() error { return nil }, nil
	case TransportGRPC:
		addr := strings.TrimPrefix(strings.TrimPrefix(cfg.URL, "http://"), "grpc://")
		conn, err := rpc.DialRemote(ctx, addr, cfg.Dial)
		if err != nil {
			return nil, nil, err
		}
		return NewGRPCClient(conn, timeout), conn.Close, nil
	default:
		return nil, nil, errors.Newf("unknown transport %q", cfg.Transport)
	}
}

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
	"time"

	"github.com/cockroachdb/dbconsole/pkg/util/log"
	"github.com/cockroachdb/errors"
	"google.golang.org/grpc"
	"google.golang.org/grpc/backoff"
	"google.golang.org/grpc/credentials/insecure"
)

// minConnectionTimeout is the minimum time a dial attempt is given to
// complete before it is retried.
const minConnectionTimeout = 5 * time.Second

// DialOptions configures DialRemote.
type DialOptions struct {
	// Metrics, if set, records every unary call made on the connection.
	Metrics *Metrics
	// Extra is appended to the options built by DialRemote.
	Extra []grpc.DialOption
}

// DialRemote opens a gRPC client connection to addr which exchanges
// gogoproto-encoded messages. The connection is established lazily; errors
// talking to the remote surface on the first call.
func DialRemote(ctx context.Context, addr string, opts DialOptions) (*grpc.ClientConn, error) {
	dialOpts := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.ForceCodec(codec{})),
		grpc.WithConnectParams(grpc.ConnectParams{
			Backoff:           backoff.DefaultConfig,
			MinConnectTimeout: minConnectionTimeout,
		}),
	}
	if opts.Metrics != nil {
		dialOpts = append(dialOpts, grpc.WithChainUnaryInterceptor(opts.Metrics.UnaryClientInterceptor()))
	}
	dialOpts = append(dialOpts, opts.Extra...)
	log.VEventf(ctx, 1, "dialing %s", addr)
	conn, err := grpc.DialContext(ctx, addr, dialOpts...)
	if err != nil {
		return nil, errors.Wrapf(err, "dialing %s", addr)
	}
	return conn, nil
}

// NewServer returns a gRPC server which exchanges gogoproto-encoded
// messages.
func NewServer(opts ...grpc.ServerOption) *grpc.Server {
	return grpc.NewServer(append([]grpc.ServerOption{grpc.ForceServerCodec(codec{})}, opts...)...)
}

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
	"github.com/cockroachdb/errors"
	"github.com/gogo/protobuf/proto"
	"google.golang.org/grpc/encoding"
)

// name is the name registered for the proto compressor.
const name = "proto"

type codec struct{}

var _ encoding.Codec = codec{}

func (codec) Marshal(v interface{}) ([]byte, error) {
	pm, ok := v.(proto.Message)
	if !ok {
		return nil, errors.AssertionFailedf("%T is not a gogoproto message", v)
	}
	return proto.Marshal(pm)
}

func (codec) Unmarshal(data []byte, v interface{}) error {
	pm, ok := v.(proto.Message)
	if !ok {
		return errors.AssertionFailedf("%T is not a gogoproto message", v)
	}
	return proto.Unmarshal(data, pm)
}

func (codec) Name() string {
	return name
}

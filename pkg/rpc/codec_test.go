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
	"reflect"
	"strings"
	"testing"
	"unicode"

	"github.com/cockroachdb/dbconsole/pkg/ts/tspb"
	"github.com/stretchr/testify/require"
)

func TestCodecMarshalUnmarshal(t *testing.T) {
	testCodec := codec{}
	for _, test := range []struct {
		name             string
		filledMsgBuilder func() interface{}
		emptyMsgBuilder  func() interface{}
	}{
		{"tspb.TimeSeriesQueryRequest",
			func() interface{} {
				return &tspb.TimeSeriesQueryRequest{
					StartNanos:  1_600_000_000_000_000_001,
					EndNanos:    1_600_000_060_000_000_001,
					SampleNanos: 10_000_000_000,
					Queries: []tspb.Query{{
						Name:       "cr.node.sql.select.count",
						Derivative: tspb.TimeSeriesQueryDerivative_NON_NEGATIVE_DERIVATIVE.Enum(),
						Sources:    []string{"1"},
					}},
				}
			},
			func() interface{} { return &tspb.TimeSeriesQueryRequest{} }},
		{"tspb.TimeSeriesQueryResponse",
			func() interface{} {
				return &tspb.TimeSeriesQueryResponse{
					Results: []tspb.TimeSeriesQueryResponse_Result{{
						Query: tspb.Query{Name: "cr.node.sys.rss"},
						Datapoints: []tspb.TimeSeriesDatapoint{
							{TimestampNanos: 10, Value: 1.5},
							{TimestampNanos: 20, Value: 2.5},
						},
					}},
				}
			},
			func() interface{} { return &tspb.TimeSeriesQueryResponse{} }},
	} {
		t.Run(test.name, func(t *testing.T) {
			input := test.filledMsgBuilder()
			marshaled, err := testCodec.Marshal(input)
			require.NoError(t, err, "marshal failed")
			output := test.emptyMsgBuilder()
			err = testCodec.Unmarshal(marshaled, output)
			require.NoError(t, err, "unmarshal failed")
			// Compare only the public, non-XXX fields.
			input2 := test.emptyMsgBuilder()
			output2 := test.emptyMsgBuilder()
			copyPublicFields(input2, input)
			copyPublicFields(output2, output)
			require.Equal(t, input2, output2)
		})
	}
}

func TestCodecRejectsNonProto(t *testing.T) {
	_, err := codec{}.Marshal(struct{}{})
	require.Error(t, err)
	require.Error(t, codec{}.Unmarshal(nil, &struct{}{}))
	require.Equal(t, "proto", codec{}.Name())
}

func copyPublicFields(dst, src interface{}) {
	srcval := reflect.Indirect(reflect.ValueOf(src))
	dstval := reflect.Indirect(reflect.ValueOf(dst))
	typ := srcval.Type()
	for i := 0; i < srcval.NumField(); i++ {
		fname := typ.Field(i).Name
		if unicode.IsUpper(rune(fname[0])) && !strings.HasPrefix(fname, "XXX_") {
			dstval.Field(i).Set(srcval.Field(i))
		}
	}
}

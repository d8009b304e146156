// Copyright 2025 go-highway Authors
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

package conv

import "github.com/ajroetker/go-qconv/hwy/contrib/requant"

// problem bundles the operands of one validated convolution call.
type problem struct {
	in, filter, out Dims
	p               Params
	input           []int8
	filterData      []int8
	bias            []int32
	output          []int8
	q               Quant
}

func (pr *problem) biasAt(oc int) int32 {
	if pr.bias == nil {
		return 0
	}
	return pr.bias[oc]
}

// store requantizes acc for output channel oc and writes it at index i.
func (pr *problem) store(i int, acc int32, oc int) {
	v := pr.q.Channel(oc).Apply(acc) + pr.p.OutputOffset
	pr.output[i] = int8(requant.Clamp(v, pr.p.ActivationMin, pr.p.ActivationMax))
}

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

package main

import (
	"encoding/binary"
	"fmt"
	"os"

	"golang.org/x/exp/mmap"
)

// readInt8File maps path and returns its first n bytes as int8 values.
// The file must hold at least n bytes.
func readInt8File(path string, n int) ([]int8, error) {
	data, err := readMapped(path, n)
	if err != nil {
		return nil, err
	}
	out := make([]int8, n)
	for i, b := range data {
		out[i] = int8(b)
	}
	return out, nil
}

// readInt32File maps path and decodes n little-endian int32 values.
func readInt32File(path string, n int) ([]int32, error) {
	data, err := readMapped(path, 4*n)
	if err != nil {
		return nil, err
	}
	out := make([]int32, n)
	for i := range out {
		out[i] = int32(binary.LittleEndian.Uint32(data[4*i:]))
	}
	return out, nil
}

func readMapped(path string, size int) ([]byte, error) {
	r, err := mmap.Open(path)
	if err != nil {
		return nil, fmt.Errorf("mmap %s: %w", path, err)
	}
	defer r.Close()

	if r.Len() < size {
		return nil, fmt.Errorf("%s: has %d bytes, want %d", path, r.Len(), size)
	}
	data := make([]byte, size)
	if _, err := r.ReadAt(data, 0); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// writeInt8File writes values as raw bytes.
func writeInt8File(path string, values []int8) error {
	data := make([]byte, len(values))
	for i, v := range values {
		data[i] = byte(v)
	}
	return os.WriteFile(path, data, 0o644)
}

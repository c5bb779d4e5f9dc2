// Copyright 2025 Poiesic Systems
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


package storage

import (
	"fmt"

	"github.com/mus-format/mus-go/ord"
	"github.com/poiesic/uidmap/core"
)

// MarshalMapping encodes a mapping as two length-prefixed strings,
// primary key first.
func MarshalMapping(m core.Mapping) []byte {
	size := ord.String.Size(m.PrimaryKey) + ord.String.Size(m.AttributeValue)
	buf := make([]byte, size)
	n := ord.String.Marshal(m.PrimaryKey, buf)
	ord.String.Marshal(m.AttributeValue, buf[n:])
	return buf
}

// UnmarshalMapping decodes a value written by MarshalMapping.
func UnmarshalMapping(data []byte) (core.Mapping, error) {
	pk, n, err := ord.String.Unmarshal(data)
	if err != nil {
		return core.Mapping{}, fmt.Errorf("%w: primary key: %w", ErrSerializationFailed, err)
	}
	av, _, err := ord.String.Unmarshal(data[n:])
	if err != nil {
		return core.Mapping{}, fmt.Errorf("%w: attribute value: %w", ErrSerializationFailed, err)
	}
	return core.Mapping{PrimaryKey: pk, AttributeValue: av}, nil
}

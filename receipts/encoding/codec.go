// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package encoding converts hydrated receipts into byte sequences handed to
// clients and back.
package encoding

import (
	"fmt"
	"slices"

	"github.com/0xsoniclabs/receiptbridge/common"
	"github.com/0xsoniclabs/receiptbridge/receipts"
	"golang.org/x/exp/maps"
)

// ErrSerialization is reported for receipts that can not be encoded or
// decoded.
const ErrSerialization = common.ConstError("serialization failed")

// Codec converts the receipts of a block to and from bytes. Implementations
// are stateless and safe for concurrent use.
type Codec interface {
	Name() string
	Encode(receipts []*receipts.Receipt) ([]byte, error)
	Decode(data []byte) ([]*receipts.Receipt, error)
}

// Default is the codec used unless another one is requested.
var Default Codec = JSON{}

var codecs = map[string]Codec{
	JSON{}.Name(): JSON{},
	CBOR{}.Name(): CBOR{},
}

// Names lists the names of all supported codecs.
func Names() []string {
	res := maps.Keys(codecs)
	slices.Sort(res)
	return res
}

// ByName resolves a codec by its name.
func ByName(name string) (Codec, error) {
	if codec, found := codecs[name]; found {
		return codec, nil
	}
	return nil, fmt.Errorf("unknown encoding %q, supported: %v", name, Names())
}

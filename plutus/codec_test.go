// Copyright 2026 Blink Labs Software
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

package plutus_test

import (
	"encoding/hex"
	"errors"
	"math/big"
	"strings"
	"testing"

	"github.com/blinklabs-io/plutigo/data"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blinklabs-io/spend-showcase/plutus"
)

func TestEncodeKnownShapes(t *testing.T) {
	testDefs := []struct {
		value   plutus.Value
		cborHex string
	}{
		{value: plutus.Void{}, cborHex: "d87980"},
		{value: plutus.NewInt(42), cborHex: "182a"},
		{value: plutus.Text("secret"), cborHex: "46736563726574"},
		{value: plutus.ActionMint, cborHex: "d87980"},
		{value: plutus.ActionUpdate, cborHex: "d87a80"},
		{value: plutus.ActionBurn, cborHex: "d87b80"},
	}
	for _, testDef := range testDefs {
		cborData, err := plutus.Encode(testDef.value)
		require.NoError(t, err)
		assert.Equal(t, testDef.cborHex, hex.EncodeToString(cborData), testDef.value.Shape().String())
	}
}

func TestRoundTrip(t *testing.T) {
	testDefs := []plutus.Value{
		plutus.Void{},
		plutus.NewInt(42),
		plutus.Int{Value: new(big.Int).Lsh(big.NewInt(1), 80)},
		plutus.Bytes(strings.Repeat("a", 64)),
		plutus.Bytes{},
		plutus.ActionUpdate,
		plutus.NewCip68Datum("Showcase", "ipfs://bafy"),
		plutus.NewCip68Datum("", ""),
	}
	for _, value := range testDefs {
		cborData, err := plutus.Encode(value)
		require.NoError(t, err)
		decoded, err := plutus.Decode(cborData, value.Shape())
		require.NoError(t, err)
		switch v := value.(type) {
		case plutus.Int:
			assert.True(t, v.Equal(decoded.(plutus.Int)))
		case plutus.Cip68Datum:
			got := decoded.(plutus.Cip68Datum)
			assert.Equal(t, v.Metadata, got.Metadata)
			assert.Equal(t, uint64(1), got.Version)
			assert.Empty(t, got.Extra)
		default:
			assert.Equal(t, value, decoded)
		}
	}
}

func TestConstrRoundTrip(t *testing.T) {
	value := plutus.Constr{
		Tag: 1,
		Fields: []data.PlutusData{
			data.NewByteString([]byte{0x01}),
			data.NewInteger(big.NewInt(7)),
		},
	}
	cborData, err := plutus.Encode(value)
	require.NoError(t, err)
	decoded, err := plutus.Decode(cborData, plutus.ShapeConstr)
	require.NoError(t, err)
	constr := decoded.(plutus.Constr)
	assert.Equal(t, uint(1), constr.Tag)
	require.Len(t, constr.Fields, 2)
	again, err := plutus.Encode(constr)
	require.NoError(t, err)
	assert.Equal(t, cborData, again)
}

func TestCip68DatumLayout(t *testing.T) {
	cborData, err := plutus.Encode(plutus.NewCip68Datum("A", "B"))
	require.NoError(t, err)
	pd, err := data.Decode(cborData)
	require.NoError(t, err)
	constr, ok := pd.(*data.Constr)
	require.True(t, ok)
	assert.Equal(t, uint(0), constr.Tag)
	require.Len(t, constr.Fields, 3)
	metadata, ok := constr.Fields[0].(*data.Map)
	require.True(t, ok)
	require.Len(t, metadata.Pairs, 2)
	key, ok := metadata.Pairs[0][0].(*data.ByteString)
	require.True(t, ok)
	assert.Equal(t, []byte("name"), key.Inner)
	version, ok := constr.Fields[1].(*data.Integer)
	require.True(t, ok)
	assert.Equal(t, int64(1), version.Inner.Int64())
	extra, ok := constr.Fields[2].(*data.List)
	require.True(t, ok)
	assert.Empty(t, extra.Items)

	datum, err := plutus.DecodeCip68(cborData)
	require.NoError(t, err)
	name, ok := datum.Field(plutus.MetadataKeyName)
	assert.True(t, ok)
	assert.Equal(t, "A", name)
}

func TestDecodeMismatch(t *testing.T) {
	intCbor, err := plutus.Encode(plutus.NewInt(42))
	require.NoError(t, err)
	bytesCbor, err := plutus.Encode(plutus.Text("x"))
	require.NoError(t, err)
	testDefs := []struct {
		cborData []byte
		shape    plutus.Shape
	}{
		{cborData: intCbor, shape: plutus.ShapeBytes},
		{cborData: bytesCbor, shape: plutus.ShapeInt},
		{cborData: intCbor, shape: plutus.ShapeVoid},
		{cborData: intCbor, shape: plutus.ShapeCip68},
		{cborData: []byte{0xff}, shape: plutus.ShapeInt},
	}
	for _, testDef := range testDefs {
		_, err := plutus.Decode(testDef.cborData, testDef.shape)
		require.Error(t, err)
		assert.ErrorIs(t, err, plutus.ErrEncodingMismatch)
		var mismatchErr *plutus.MismatchError
		assert.True(t, errors.As(err, &mismatchErr))
		assert.Equal(t, testDef.shape, mismatchErr.Want)
	}
	// Action tags past Burn are not actions
	constrCbor, err := plutus.Encode(plutus.Constr{Tag: 5})
	require.NoError(t, err)
	_, err = plutus.Decode(constrCbor, plutus.ShapeAction)
	assert.ErrorIs(t, err, plutus.ErrEncodingMismatch)
}

func TestValidateMetadata(t *testing.T) {
	testDefs := []struct {
		name      string
		image     string
		failField string
	}{
		{name: strings.Repeat("n", 28), image: strings.Repeat("i", 64)},
		{name: strings.Repeat("n", 29), image: "", failField: "name"},
		{name: "ok", image: strings.Repeat("i", 65), failField: "image"},
		// Limits are in bytes, not characters
		{name: strings.Repeat("é", 15), image: "", failField: "name"},
	}
	for _, testDef := range testDefs {
		err := plutus.ValidateMetadata(testDef.name, testDef.image)
		if testDef.failField == "" {
			assert.NoError(t, err)
			continue
		}
		var tooLong *plutus.FieldTooLongError
		require.True(t, errors.As(err, &tooLong))
		assert.Equal(t, testDef.failField, tooLong.Field)
	}
}

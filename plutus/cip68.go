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

package plutus

import (
	"fmt"

	"github.com/blinklabs-io/plutigo/data"
)

const (
	Cip68Version = 1

	// Asset names are capped at 32 bytes, and the CIP-67 label takes 4 of them
	MaxNameLength  = 28
	MaxImageLength = 64

	MetadataKeyName  = "name"
	MetadataKeyImage = "image"
)

// MetadataField is a single metadata entry. Order is kept as given.
type MetadataField struct {
	Key   string
	Value string
}

// Cip68Datum is the reference token datum: Constr 0 [metadata, version, extra]
type Cip68Datum struct {
	Metadata []MetadataField
	Version  uint64
	Extra    []data.PlutusData
}

// NewCip68Datum builds the datum for a name and image
func NewCip68Datum(name string, image string) Cip68Datum {
	return Cip68Datum{
		Metadata: []MetadataField{
			{Key: MetadataKeyName, Value: name},
			{Key: MetadataKeyImage, Value: image},
		},
		Version: Cip68Version,
	}
}

func (Cip68Datum) isValue()     {}
func (Cip68Datum) Shape() Shape { return ShapeCip68 }

func (d Cip68Datum) ToPlutusData() data.PlutusData {
	pairs := make([][2]data.PlutusData, 0, len(d.Metadata))
	for _, field := range d.Metadata {
		pairs = append(pairs, [2]data.PlutusData{
			data.NewByteString([]byte(field.Key)),
			data.NewByteString([]byte(field.Value)),
		})
	}
	extra := d.Extra
	if extra == nil {
		extra = []data.PlutusData{}
	}
	return data.NewConstr(
		0,
		data.NewMap(pairs),
		data.NewInteger(newBigUint(d.Version)),
		data.NewList(extra...),
	)
}

// Field returns the value of a metadata key
func (d Cip68Datum) Field(key string) (string, bool) {
	for _, field := range d.Metadata {
		if field.Key == key {
			return field.Value, true
		}
	}
	return "", false
}

// FieldTooLongError reports a metadata field over its byte limit
type FieldTooLongError struct {
	Field  string
	Length int
	Limit  int
}

func (e *FieldTooLongError) Error() string {
	return fmt.Sprintf(
		"%s is %d bytes, the limit is %d",
		e.Field,
		e.Length,
		e.Limit,
	)
}

// ValidateMetadata checks the name and image byte lengths
func ValidateMetadata(name string, image string) error {
	if len(name) > MaxNameLength {
		return &FieldTooLongError{Field: MetadataKeyName, Length: len(name), Limit: MaxNameLength}
	}
	if len(image) > MaxImageLength {
		return &FieldTooLongError{Field: MetadataKeyImage, Length: len(image), Limit: MaxImageLength}
	}
	return nil
}

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

package showcase

import (
	"errors"
	"fmt"

	"github.com/blinklabs-io/spend-showcase/plutus"
	"github.com/blinklabs-io/spend-showcase/utxo"
)

// Error kinds reported by Run and Handle. Every error matches exactly one
// kind with errors.Is and keeps its cause for errors.As.
var (
	ErrValidationFailed   = errors.New("validation failed")
	ErrPreconditionFailed = errors.New("precondition failed")
	ErrNotFound           = errors.New("not found")
	ErrEncodingMismatch   = plutus.ErrEncodingMismatch
	ErrAssemblyFailed     = errors.New("assembly failed")
	ErrSubmissionFailed   = errors.New("submission failed")
)

var errorKinds = []error{
	ErrValidationFailed,
	ErrPreconditionFailed,
	ErrNotFound,
	ErrEncodingMismatch,
	ErrAssemblyFailed,
	ErrSubmissionFailed,
}

// kindOf returns the kind an error already carries, if any
func kindOf(err error) error {
	for _, kind := range errorKinds {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}

// wrap tags err with kind unless it already carries a kind
func wrap(kind error, err error) error {
	if err == nil {
		return nil
	}
	if kindOf(err) != nil {
		return err
	}
	return fmt.Errorf("%w: %w", kind, err)
}

// buildError classifies a failure while building a draft
func buildError(err error) error {
	if errors.Is(err, utxo.ErrNotFound) {
		return wrap(ErrNotFound, err)
	}
	return wrap(ErrAssemblyFailed, err)
}

// resultLabel is the metrics label for an outcome
func resultLabel(err error) string {
	switch kindOf(err) {
	case nil:
		if err == nil {
			return "success"
		}
		return "error"
	case ErrValidationFailed:
		return "validation_failed"
	case ErrPreconditionFailed:
		return "precondition_failed"
	case ErrNotFound:
		return "not_found"
	case ErrEncodingMismatch:
		return "encoding_mismatch"
	case ErrAssemblyFailed:
		return "assembly_failed"
	case ErrSubmissionFailed:
		return "submission_failed"
	}
	return "error"
}

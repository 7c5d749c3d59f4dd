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

package common

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUsageExplainsSessionPersistence(t *testing.T) {
	f := NewGlobalFlags()
	var out bytes.Buffer
	f.Flagset.SetOutput(&out)
	f.Flagset.Usage()
	assert.Contains(t, out.String(), "-signing-key")
	assert.Contains(t, out.String(), "backend: badger")
	assert.Contains(t, out.String(), "SHOWCASE_SESSION_BACKEND=badger")
}

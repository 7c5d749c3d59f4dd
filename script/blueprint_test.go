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

package script_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blinklabs-io/spend-showcase/ledger"
	"github.com/blinklabs-io/spend-showcase/script"
)

func TestBlueprintTemplate(t *testing.T) {
	always, err := ledger.NewPlutusV3ScriptFromHex(alwaysSucceedsHex)
	require.NoError(t, err)
	blueprintJson := `{
  "preamble": {"title": "showcase/spend", "version": "0.0.0", "plutusVersion": "v3"},
  "validators": [
    {"title": "check_datum.check_datum.spend", "compiledCode": "` + alwaysSucceedsHex + `", "hash": "` + always.Hash().String() + `"},
    {"title": "sc_wallet.sc_wallet.spend", "compiledCode": "` + identityHex + `", "parameters": [{"title": "owner"}]},
    {"title": "broken.broken.spend", "compiledCode": "` + alwaysSucceedsHex + `", "hash": "00"}
  ]
}`
	path := filepath.Join(t.TempDir(), "plutus.json")
	require.NoError(t, os.WriteFile(path, []byte(blueprintJson), 0o600))
	bp, err := script.LoadBlueprint(path)
	require.NoError(t, err)

	tmpl, err := bp.Template("check_datum.check_datum.spend")
	require.NoError(t, err)
	assert.Equal(t, always, tmpl.Script)

	_, err = bp.Template("sc_wallet.sc_wallet.spend")
	require.NoError(t, err)

	_, err = bp.Template("broken.broken.spend")
	assert.ErrorIs(t, err, script.ErrInvalidTemplate)

	_, err = bp.Template("missing")
	assert.ErrorIs(t, err, script.ErrInvalidTemplate)
}

func TestParseBlueprintRejectsOtherPlutusVersions(t *testing.T) {
	_, err := script.ParseBlueprint([]byte(`{"preamble": {"plutusVersion": "v2"}, "validators": []}`))
	assert.Error(t, err)
	_, err = script.ParseBlueprint([]byte(`not json`))
	assert.Error(t, err)
}

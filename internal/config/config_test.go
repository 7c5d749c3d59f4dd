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

package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blinklabs-io/spend-showcase/internal/config"
	"github.com/blinklabs-io/spend-showcase/ledger"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, ledger.NetworkPreview.Name, cfg.Network)
	assert.Equal(t, ledger.NetworkPreview, cfg.NetworkInfo())
	assert.Equal(t, 30*time.Second, cfg.Koios.Timeout)
	assert.Equal(t, config.SessionBackendMemory, cfg.Session.Backend)
	assert.Equal(t, config.DefaultValidators, cfg.Scripts.Validators)
}

func TestLoadFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
network: preprod
koios:
  token: file-token
  timeout: 5s
session:
  backend: badger
  dir: /tmp/sessions
logging:
  format: json
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("SHOWCASE_KOIOS_TOKEN", "env-token")
	t.Setenv("SHOWCASE_LOGGING_LEVEL", "debug")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "preprod", cfg.Network)
	assert.Equal(t, "env-token", cfg.Koios.Token)
	assert.Equal(t, 5*time.Second, cfg.Koios.Timeout)
	assert.Equal(t, config.SessionBackendBadger, cfg.Session.Backend)
	assert.Equal(t, "/tmp/sessions", cfg.Session.Dir)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	// Unset keys keep their defaults
	assert.Equal(t, "plutus.json", cfg.Scripts.Blueprint)
}

func TestValidateNamesField(t *testing.T) {
	testDefs := []struct {
		mutate func(*config.Config)
		field  string
	}{
		{func(c *config.Config) { c.Network = "nope" }, "network"},
		{func(c *config.Config) { c.Koios.Timeout = 0 }, "koios.timeout"},
		{func(c *config.Config) { c.Session.Backend = "redis" }, "session.backend"},
		{func(c *config.Config) { c.Session.Backend = config.SessionBackendBadger }, "session.dir"},
		{func(c *config.Config) { c.Logging.Level = "loud" }, "logging.level"},
		{func(c *config.Config) { c.Logging.Format = "xml" }, "logging.format"},
	}
	for _, testDef := range testDefs {
		cfg := config.Default()
		testDef.mutate(cfg)
		err := cfg.Validate()
		require.ErrorIs(t, err, config.ErrInvalidConfig)
		assert.Contains(t, err.Error(), testDef.field)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJSON_Success(t *testing.T) {
	path := writeRawJSON(t, `{
		"vault": {
			"key_id": "json-key",
			"key_backend": "file",
			"key_dir": "/srv/keys",
			"passphrase": "pp",
			"service_name": "svc"
		},
		"storage": {"driver": "sqlite", "dsn": "/srv/vault.db"},
		"workers": {"audit_interval": "15m"},
		"log": {"file": "/srv/vault.log"}
	}`)

	cfg, err := parseJSON(path)
	require.NoError(t, err)

	assert.Equal(t, Vault{
		KeyID:       "json-key",
		KeyBackend:  KeyBackendFile,
		KeyDir:      "/srv/keys",
		Passphrase:  "pp",
		ServiceName: "svc",
	}, cfg.Vault)
	assert.Equal(t, Storage{Driver: StorageDriverSQLite, DSN: "/srv/vault.db"}, cfg.Storage)
	assert.Equal(t, 15*time.Minute, cfg.Workers.AuditInterval)
	assert.Equal(t, "/srv/vault.log", cfg.Log.File)
	assert.Empty(t, cfg.JSONFilePath)
}

func TestParseJSON_FileNotFound(t *testing.T) {
	_, err := parseJSON(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading a json file")
}

func TestParseJSON_InvalidJSON(t *testing.T) {
	path := writeRawJSON(t, `{"vault": {`)

	_, err := parseJSON(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error decoding json configs")
}

func TestParseJSON_InvalidDuration(t *testing.T) {
	path := writeRawJSON(t, `{"workers": {"audit_interval": "soon"}}`)

	_, err := parseJSON(path)
	require.Error(t, err)
}

func TestParseJSON_NumericDuration(t *testing.T) {
	path := writeRawJSON(t, `{"workers": {"audit_interval": 1000000000}}`)

	cfg, err := parseJSON(path)
	require.NoError(t, err)
	assert.Equal(t, time.Second, cfg.Workers.AuditInterval)
}

func TestParseJSON_EmptyObject(t *testing.T) {
	path := writeRawJSON(t, `{}`)

	cfg, err := parseJSON(path)
	require.NoError(t, err)
	assert.Equal(t, &StructuredConfig{}, cfg)
}

func TestDuration_MarshalJSON(t *testing.T) {
	b, err := Duration(90 * time.Second).MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `"1m30s"`, string(b))
}

func writeRawJSON(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

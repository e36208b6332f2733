/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/apikit/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "apikit.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_NoFileUsesDefaults(t *testing.T) {
	f, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, config.DefaultTransport(), f.Transport)
	assert.Equal(t, "info", f.Log.Level)
	assert.Empty(t, f.Services)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
log:
  level: debug
  format: console
transport:
  connect_timeout: 2s
  read_timeout: 3s
  rate_limit: 5
  burst: 2
services:
  users:
    base_url: https://users.example.com/v1/
  billing:
    base_url: http://localhost:9000/
`)

	f, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", f.Log.Level)
	assert.Equal(t, "console", f.Log.Format)
	assert.Equal(t, 2*time.Second, f.Transport.ConnectTimeout)
	assert.Equal(t, 3*time.Second, f.Transport.ReadTimeout)
	assert.Equal(t, config.DefaultTimeout, f.Transport.WriteTimeout, "unset keys keep defaults")
	assert.Equal(t, 5.0, f.Transport.RateLimit)
	assert.Equal(t, 2, f.Transport.Burst)
	assert.Equal(t, []string{"billing", "users"}, f.ServiceNames())
	assert.Equal(t, "https://users.example.com/v1/", f.Services["users"].BaseURL)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
transport:
  read_timeout: 3s
`)
	t.Setenv("APIKIT_TRANSPORT_READ_TIMEOUT", "7s")
	t.Setenv("APIKIT_LOG_LEVEL", "warn")

	f, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 7*time.Second, f.Transport.ReadTimeout)
	assert.Equal(t, "warn", f.Log.Level)
}

func TestLoad_EnvDeclaresAndOverridesServices(t *testing.T) {
	path := writeConfig(t, `
services:
  users:
    base_url: https://users.example.com/
`)
	t.Setenv("APIKIT_SERVICES_USERS_BASE_URL", "https://env/")
	t.Setenv("APIKIT_SERVICES_BILLING_BASE_URL", "https://billing.env/v2/")
	t.Setenv("APIKIT_SERVICES__MY_API__BASE_URL", "https://my-api.env/")
	t.Setenv("APIKIT_SERVICES_JUNK", "ignored")
	t.Setenv("APIKIT_TRANSPORT__WRITE_TIMEOUT", "4s")

	f, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"billing", "my_api", "users"}, f.ServiceNames())
	assert.Equal(t, "https://env/", f.Services["users"].BaseURL)
	assert.Equal(t, "https://billing.env/v2/", f.Services["billing"].BaseURL)
	assert.Equal(t, "https://my-api.env/", f.Services["my_api"].BaseURL)
	assert.Equal(t, 4*time.Second, f.Transport.WriteTimeout)
}

func TestLoad_EnvServiceWithoutFile(t *testing.T) {
	t.Setenv("APIKIT_SERVICES_USERS_BASE_URL", "https://env/")

	f, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, map[string]config.Service{"users": {BaseURL: "https://env/"}}, f.Services)
}

func TestLoad_EnvServiceURLIsValidated(t *testing.T) {
	t.Setenv("APIKIT_SERVICES_USERS_BASE_URL", "https://env")

	_, err := config.Load("")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.NotValid))
}

func TestLoad_InvalidServiceURL(t *testing.T) {
	path := writeConfig(t, `
services:
  users:
    base_url: https://users.example.com
`)

	_, err := config.Load(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.NotValid))
	assert.Contains(t, err.Error(), "users")
}

func TestLoad_InvalidLogLevel(t *testing.T) {
	path := writeConfig(t, "log:\n  level: shouty\n")

	_, err := config.Load(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.NotValid))
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestLoad_Directory(t *testing.T) {
	_, err := config.Load(t.TempDir())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.NotValid))
}

func TestLoad_BadYAML(t *testing.T) {
	path := writeConfig(t, "transport: [unclosed\n")

	_, err := config.Load(path)
	require.Error(t, err)
}

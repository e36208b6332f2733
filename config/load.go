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

package config

import (
	"os"
	"sort"
	"strings"

	"github.com/juju/errors"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"dirpx.dev/apikit/apis"
	"dirpx.dev/apikit/logging"
)

// EnvPrefix is the prefix of environment overrides.
const EnvPrefix = "APIKIT_"

// maxFileSize caps the size of a configuration file.
const maxFileSize = 1 << 20

// baseURLKey is the key of a service's base URL.
const baseURLKey = "base_url"

// File is the on-disk configuration of a process using apikit.
type File struct {
	Log       logging.Config     `koanf:"log"`
	Transport apis.Transport     `koanf:"transport"`
	Services  map[string]Service `koanf:"services"`
}

// Service declares a service and where it lives.
type Service struct {
	BaseURL string `koanf:"base_url"`
}

// DefaultFile returns the configuration used when nothing is loaded.
func DefaultFile() File {
	return File{
		Log:       logging.DefaultConfig(),
		Transport: DefaultTransport(),
		Services:  map[string]Service{},
	}
}

// Load reads the YAML file at path, then applies environment overrides.
//
// Precedence (highest to lowest):
//  1. Environment variables (APIKIT_TRANSPORT_READ_TIMEOUT, APIKIT_LOG_LEVEL, ...)
//  2. The YAML file, if path is not empty
//  3. DefaultFile
//
// Environment variables map to keys by dropping the prefix and lowercasing.
// A double underscore separates every level when present:
// APIKIT_SERVICES__MY_API__BASE_URL becomes services.my_api.base_url.
// Otherwise the first underscore ends the section: APIKIT_TRANSPORT_READ_TIMEOUT
// becomes transport.read_timeout, and APIKIT_SERVICES_USERS_BASE_URL becomes
// services.users.base_url. Service variables not ending in _BASE_URL are
// ignored.
func Load(path string) (*File, error) {
	k := koanf.New(".")

	if path != "" {
		content, err := readFile(path)
		if err != nil {
			return nil, errors.Trace(err)
		}
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, errors.Annotatef(err, "parse config file %s", path)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, errors.Annotate(err, "load environment")
	}

	f := DefaultFile()
	if err := k.Unmarshal("", &f); err != nil {
		return nil, errors.Annotate(err, "decode config")
	}
	if f.Services == nil {
		f.Services = map[string]Service{}
	}
	if err := f.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	return &f, nil
}

// Validate checks logging, transport and every declared service.
func (f *File) Validate() error {
	if err := f.Log.Validate(); err != nil {
		return errors.Trace(err)
	}
	t := f.Transport
	if t.ConnectTimeout < 0 || t.WriteTimeout < 0 || t.ReadTimeout < 0 {
		return errors.NotValidf("negative transport timeout")
	}
	if t.RateLimit < 0 {
		return errors.NotValidf("negative rate limit")
	}
	for _, name := range f.ServiceNames() {
		if _, err := ParseBaseURL(f.Services[name].BaseURL); err != nil {
			return errors.Annotatef(err, "service %q", name)
		}
	}
	return nil
}

// ServiceNames returns the declared service names in sorted order.
func (f *File) ServiceNames() []string {
	names := make([]string, 0, len(f.Services))
	for name := range f.Services {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// readFile reads a configuration file, refusing oversized ones.
func readFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Annotatef(err, "stat config file %s", path)
	}
	if info.IsDir() {
		return nil, errors.NotValidf("config path %s (directory)", path)
	}
	if info.Size() > maxFileSize {
		return nil, errors.NotValidf("config file %s of %d bytes", path, info.Size())
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Annotatef(err, "read config file %s", path)
	}
	return content, nil
}

// envKey maps an environment variable to a config key. An empty result
// makes the env provider skip the variable.
func envKey(s string) string {
	lower := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	if strings.Contains(lower, "__") {
		return strings.ReplaceAll(lower, "__", ".")
	}
	section, field, ok := strings.Cut(lower, "_")
	if !ok {
		return lower
	}
	if section == "services" {
		name, found := strings.CutSuffix(field, "_"+baseURLKey)
		if !found || name == "" {
			return ""
		}
		return section + "." + name + "." + baseURLKey
	}
	return section + "." + field
}

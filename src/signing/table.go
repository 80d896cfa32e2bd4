// Package signing loads the external signing-config table that build
// variants reference by name. The table only holds references to keystores
// and passwords; it never opens a keystore.
package signing

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// EnvPrefix marks a password value that names an environment variable.
const EnvPrefix = "env:"

// DebugName is the signing entry every Android toolchain provides.
const DebugName = "debug"

// Entry is one named signing configuration.
type Entry struct {
	StoreFile     string `yaml:"store_file"`
	StorePassword string `yaml:"store_password"`
	KeyAlias      string `yaml:"key_alias"`
	KeyPassword   string `yaml:"key_password"`
}

// Table maps signing config names to entries. The zero value is an empty
// table; lookups on a nil Table report no entries.
type Table map[string]Entry

// Has reports whether name is present.
func (t Table) Has(name string) bool {
	_, ok := t[name]
	return ok
}

// Names returns entry names in sorted order.
func (t Table) Names() []string {
	names := make([]string, 0, len(t))
	for n := range t {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Merge returns a new table with other's entries overlaid on t.
func (t Table) Merge(other Table) Table {
	out := make(Table, len(t)+len(other))
	for n, e := range t {
		out[n] = e
	}
	for n, e := range other {
		out[n] = e
	}
	return out
}

// Default returns the built-in table holding the Android debug keystore.
func Default() Table {
	return Table{
		DebugName: {
			StoreFile:     "~/.android/debug.keystore",
			StorePassword: "android",
			KeyAlias:      "androiddebugkey",
			KeyPassword:   "android",
		},
	}
}

// tableFile is the on-disk layout: a top-level "signing" map.
type tableFile struct {
	Signing Table `yaml:"signing"`
}

// Load reads a signing table from a YAML file. A missing file yields an
// empty table so callers can merge it over Default unconditionally.
func Load(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Table{}, nil
		}
		return nil, fmt.Errorf("reading signing table: %w", err)
	}
	return Parse(data)
}

// Parse decodes a signing table document.
func Parse(data []byte) (Table, error) {
	var f tableFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse signing table: %w", err)
	}
	if f.Signing == nil {
		f.Signing = Table{}
	}

	var errs []string
	for _, name := range f.Signing.Names() {
		e := f.Signing[name]
		if e.StoreFile == "" {
			errs = append(errs, fmt.Sprintf("signing.%s: store_file is required", name))
		}
		if e.KeyAlias == "" {
			errs = append(errs, fmt.Sprintf("signing.%s: key_alias is required", name))
		}
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return f.Signing, nil
}

// ResolvePasswords expands env: references using getenv. A referenced
// variable that is unset is an error; literal passwords pass through.
func (e Entry) ResolvePasswords(getenv func(string) string) (Entry, error) {
	var err error
	if e.StorePassword, err = expand(e.StorePassword, getenv); err != nil {
		return Entry{}, fmt.Errorf("store_password: %w", err)
	}
	if e.KeyPassword, err = expand(e.KeyPassword, getenv); err != nil {
		return Entry{}, fmt.Errorf("key_password: %w", err)
	}
	return e, nil
}

// IsReference reports whether a password value is an env: reference.
func IsReference(v string) bool {
	return strings.HasPrefix(v, EnvPrefix)
}

func expand(v string, getenv func(string) string) (string, error) {
	if !IsReference(v) {
		return v, nil
	}
	name := strings.TrimPrefix(v, EnvPrefix)
	if name == "" {
		return "", fmt.Errorf("empty environment variable name")
	}
	val := getenv(name)
	if val == "" {
		return "", fmt.Errorf("environment variable %s is not set", name)
	}
	return val, nil
}

// Package config discovers and loads watt.yaml.
package config

import (
	"bytes"
	"errors"
	"io"
	"maps"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"go.trai.ch/watt/internal/core/domain"
	"go.trai.ch/watt/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Loader implements ports.ConfigLoader on an afero filesystem.
type Loader struct {
	fs     afero.Fs
	logger ports.Logger
}

var _ ports.ConfigLoader = (*Loader)(nil)

// NewLoader creates a Loader.
func NewLoader(fs afero.Fs, logger ports.Logger) *Loader {
	return &Loader{fs: fs, logger: logger}
}

// Load finds watt.yaml in cwd or the nearest parent and resolves it. Without a file
// the defaults apply, relative to cwd.
func (l *Loader) Load(cwd string) (*domain.Config, error) {
	cwd, err := filepath.Abs(cwd)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "cannot resolve working directory"), "cwd", cwd)
	}

	path, found := l.find(cwd)
	if !found {
		l.logger.Info("no config file found, using defaults", "cwd", cwd)
		return resolve(cwd, "", &Wattfile{})
	}

	data, err := afero.ReadFile(l.fs, path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(errors.Join(domain.ErrConfigReadFailed, err), "cannot read config"), "path", path)
	}

	wf, err := parse(data)
	if err != nil {
		return nil, zerr.With(err, "path", path)
	}
	return resolve(filepath.Dir(path), path, wf)
}

func (l *Loader) find(dir string) (string, bool) {
	for {
		candidate := filepath.Join(dir, domain.ConfigFileName)
		if info, err := l.fs.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

func parse(data []byte) (*Wattfile, error) {
	var wf Wattfile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&wf); err != nil && !errors.Is(err, io.EOF) {
		return nil, zerr.Wrap(errors.Join(domain.ErrConfigParseFailed, err), "cannot parse config")
	}
	return &wf, nil
}

func resolve(base, path string, wf *Wattfile) (*domain.Config, error) {
	tier := domain.DefaultTier
	if wf.Defaults.Tier != "" {
		t, err := domain.ParseTier(wf.Defaults.Tier)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(domain.ErrInvalidTier, "invalid default tier"), "tier", wf.Defaults.Tier)
		}
		tier = t
	}

	cfg := &domain.Config{
		Path:           path,
		TablesRoot:     resolvePath(base, wf.Tables.Root, domain.DefaultTablesRoot),
		PublicKeyPath:  resolvePath(base, wf.Trust.PublicKey, domain.DefaultPublicKey),
		TrustStorePath: resolvePath(base, wf.Trust.Store, domain.DefaultTrustStore),
		DefaultCode:    strings.ToUpper(fallback(wf.Defaults.Code, domain.DefaultCode)),
		DefaultEdition: fallback(wf.Defaults.Edition, domain.DefaultEdition),
		DefaultTier:    tier,
		Jurisdictions:  make(map[string]domain.JurisdictionConfig, len(wf.Jurisdictions)),
	}

	for code, j := range wf.Jurisdictions {
		code = strings.ToUpper(strings.TrimSpace(code))
		cfg.Jurisdictions[code] = domain.JurisdictionConfig{
			Code:    code,
			Region:  j.Region,
			Options: maps.Clone(j.Options),
		}
	}
	return cfg, nil
}

func resolvePath(base, value, def string) string {
	p := fallback(value, def)
	p = os.ExpandEnv(p)
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(base, p)
}

func fallback(v, def string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return def
}

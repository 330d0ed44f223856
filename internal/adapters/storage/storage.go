// Package storage reads reference tables laid out as
// <root>/<code>/<edition>/<name>.{yaml,yml,toml,json}.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/afero"
	"go.trai.ch/watt/internal/core/domain"
	"go.trai.ch/watt/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Extensions are the recognised table file extensions in lookup order.
var Extensions = []string{".yaml", ".yml", ".toml", ".json"}

// Storage implements ports.TableStorage on an afero filesystem.
type Storage struct {
	fs   afero.Fs
	root string
}

var _ ports.TableStorage = (*Storage)(nil)

// New creates a Storage rooted at root.
func New(fs afero.Fs, root string) *Storage {
	return &Storage{fs: fs, root: root}
}

// ReadTable reads, decodes and validates one table. Exactly one file per table name
// may exist in an edition directory.
func (s *Storage) ReadTable(ctx context.Context, key domain.TableKey, name string) (*domain.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, zerr.Wrap(err, "table read cancelled")
	}

	path, err := s.locate(key, name)
	if err != nil {
		return nil, err
	}

	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		err = zerr.Wrap(errors.Join(domain.ErrTableReadFailed, err), "cannot read table")
		return nil, zerr.With(zerr.With(err, "table", name), "path", path)
	}

	doc, err := decode(filepath.Ext(path), data)
	if err != nil {
		err = zerr.Wrap(errors.Join(domain.ErrTableParseFailed, err), "cannot decode table")
		return nil, zerr.With(zerr.With(err, "table", name), "path", path)
	}

	return domain.NewTable(name, doc)
}

func (s *Storage) locate(key domain.TableKey, name string) (string, error) {
	if !safeSegment(name) {
		return "", zerr.With(zerr.Wrap(domain.ErrTableInvalid, "invalid table name"), "table", name)
	}

	dir, err := s.editionDir(key)
	if err != nil {
		return "", err
	}
	var found []string
	for _, ext := range Extensions {
		p := filepath.Join(dir, name+ext)
		if info, err := s.fs.Stat(p); err == nil && !info.IsDir() {
			found = append(found, p)
		}
	}

	switch len(found) {
	case 0:
		err := zerr.Wrap(domain.ErrTableNotFound, "no table file")
		err = zerr.With(err, "table", name)
		return "", zerr.With(err, "key", key.String())
	case 1:
		return found[0], nil
	default:
		err := zerr.Wrap(domain.ErrTableInvalid, "table defined by more than one file")
		err = zerr.With(err, "table", name)
		return "", zerr.With(err, "files", found)
	}
}

// editionDir returns the directory of key. Code and edition must each be a single
// path segment.
func (s *Storage) editionDir(key domain.TableKey) (string, error) {
	if !safeSegment(key.Code) || !safeSegment(key.Edition) {
		err := zerr.With(zerr.Wrap(domain.ErrTableInvalid, "invalid table key"), "code", key.Code)
		return "", zerr.With(err, "edition", key.Edition)
	}
	return filepath.Join(s.root, key.Code, key.Edition), nil
}

func safeSegment(s string) bool {
	return s != "" && s != "." && s != ".." && !strings.ContainsAny(s, `/\`)
}

func decode(ext string, data []byte) (domain.TableDocument, error) {
	var doc domain.TableDocument
	switch ext {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil {
			return doc, err
		}
	case ".toml":
		md, err := toml.Decode(string(data), &doc)
		if err != nil {
			return doc, err
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return doc, zerr.With(zerr.New("unknown keys in table"), "keys", undecoded[0].String())
		}
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return doc, err
		}
	default:
		return doc, zerr.With(zerr.New("unsupported table format"), "extension", ext)
	}
	return doc, nil
}

// Editions lists every code and edition directory under the root, sorted.
// A missing root yields no editions.
func (s *Storage) Editions(ctx context.Context) ([]domain.TableKey, error) {
	if err := ctx.Err(); err != nil {
		return nil, zerr.Wrap(err, "edition listing cancelled")
	}

	codes, err := afero.ReadDir(s.fs, s.root)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, zerr.With(zerr.Wrap(errors.Join(domain.ErrTableReadFailed, err), "cannot list codes"), "root", s.root)
	}

	var keys []domain.TableKey
	for _, code := range codes {
		if !code.IsDir() {
			continue
		}
		editions, err := afero.ReadDir(s.fs, filepath.Join(s.root, code.Name()))
		if err != nil {
			return nil, zerr.With(zerr.Wrap(errors.Join(domain.ErrTableReadFailed, err), "cannot list editions"), "code", code.Name())
		}
		for _, ed := range editions {
			if ed.IsDir() {
				keys = append(keys, domain.TableKey{Code: code.Name(), Edition: ed.Name()})
			}
		}
	}

	slices.SortFunc(keys, func(a, b domain.TableKey) int {
		return strings.Compare(a.String(), b.String())
	})
	return keys, nil
}

// Tables lists the table names present for key, sorted.
func (s *Storage) Tables(ctx context.Context, key domain.TableKey) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, zerr.Wrap(err, "table listing cancelled")
	}

	dir, err := s.editionDir(key)
	if err != nil {
		return nil, err
	}
	entries, err := afero.ReadDir(s.fs, dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, zerr.With(zerr.Wrap(errors.Join(domain.ErrTableReadFailed, err), "cannot list tables"), "key", key.String())
	}

	var names []string
	for _, e := range entries {
		ext := filepath.Ext(e.Name())
		if e.IsDir() || !slices.Contains(Extensions, ext) {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ext))
	}
	slices.Sort(names)
	return slices.Compact(names), nil
}

// Package integrity canonicalizes plugin manifests, computes their checksums and
// signs and verifies them with Ed25519.
package integrity

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sort"

	"go.trai.ch/watt/internal/core/domain"
	"go.trai.ch/watt/internal/validation"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// setFields are manifest arrays whose order carries no meaning.
var setFields = []string{"standards", "buildingTypes", "requiredTables", "tags"}

// Canonicalize returns the canonical byte form of a manifest.
//
// The manifest is validated first so partial data is never hashed. The canonical form
// is compact JSON with object keys in byte order, set-valued arrays sorted and no HTML
// escaping.
func Canonicalize(m domain.Manifest) ([]byte, error) {
	if errs := validation.Default().Struct(m); len(errs) > 0 {
		return nil, zerr.With(validation.Error(domain.ErrManifestInvalid, errs), "manifest_id", m.ID)
	}

	raw, err := json.Marshal(m)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to encode manifest")
	}
	return canonicalJSON(raw)
}

// ParseManifest decodes a JSON or YAML manifest document. Unknown fields are rejected.
func ParseManifest(raw []byte) (domain.Manifest, error) {
	var m domain.Manifest
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil {
		return domain.Manifest{}, zerr.Wrap(errors.Join(domain.ErrManifestInvalid, err), "failed to parse manifest document")
	}
	return m, nil
}

// CanonicalizeDocument parses a raw manifest document and returns its canonical form,
// so sources that differ only in key order or formatting produce identical bytes.
func CanonicalizeDocument(raw []byte) ([]byte, error) {
	m, err := ParseManifest(raw)
	if err != nil {
		return nil, err
	}
	return Canonicalize(m)
}

func canonicalJSON(raw []byte) ([]byte, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var tree any
	if err := dec.Decode(&tree); err != nil {
		return nil, zerr.Wrap(err, "failed to decode manifest tree")
	}

	if obj, ok := tree.(map[string]any); ok {
		for _, field := range setFields {
			obj[field] = sortedSet(obj[field])
		}
	}

	var buf bytes.Buffer
	if err := writeCanonical(&buf, tree); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// sortedSet sorts an array of strings. A null set is normalised to an empty array.
func sortedSet(v any) any {
	arr, ok := v.([]any)
	if !ok {
		if v == nil {
			return []any{}
		}
		return v
	}

	out := slices.Clone(arr)
	sort.SliceStable(out, func(i, j int) bool {
		a, _ := out[i].(string)
		b, _ := out[j].(string)
		return a < b
	})
	return out
}

func writeCanonical(buf *bytes.Buffer, v any) error {
	switch val := v.(type) {
	case nil:
		buf.WriteString("null")
	case bool:
		if val {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case json.Number:
		buf.WriteString(val.String())
	case string:
		return writeString(buf, val)
	case []any:
		buf.WriteByte('[')
		for i, item := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeCanonical(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeString(buf, k); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := writeCanonical(buf, val[k]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return zerr.With(zerr.New("unexpected value in manifest tree"), "type", fmt.Sprintf("%T", v))
	}
	return nil
}

func writeString(buf *bytes.Buffer, s string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return zerr.Wrap(err, "failed to encode string")
	}
	buf.Write(bytes.TrimSuffix(tmp.Bytes(), []byte("\n")))
	return nil
}

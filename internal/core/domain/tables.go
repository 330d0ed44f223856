package domain

import (
	"encoding/binary"
	"fmt"
	"maps"
	"math"
	"slices"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/zerr"
)

// TableKey identifies one versioned set of reference tables.
type TableKey struct {
	Code    string `json:"code" yaml:"code"`
	Edition string `json:"edition" yaml:"edition"`
}

// String returns the key in "code@edition" form.
func (k TableKey) String() string {
	return k.Code + "@" + k.Edition
}

// Bracket is one band of a stepped demand factor.
// UpTo is the inclusive upper bound of the band; zero marks the open-ended final band.
type Bracket struct {
	UpTo   float64 `json:"upTo" yaml:"upTo" toml:"upTo"`
	Factor float64 `json:"factor" yaml:"factor" toml:"factor"`
}

// TableDocument is the decoded, not yet validated, form of a table file.
type TableDocument struct {
	Description string             `json:"description" yaml:"description" toml:"description"`
	Values      map[string]float64 `json:"values" yaml:"values" toml:"values"`
	Brackets    []Bracket          `json:"brackets" yaml:"brackets" toml:"brackets"`
}

// Table is a single immutable reference table.
type Table struct {
	name        string
	description string
	values      map[string]float64
	brackets    []Bracket
}

// NewTable validates a decoded document and freezes it into a Table.
func NewTable(name string, doc TableDocument) (*Table, error) {
	if name == "" {
		return nil, zerr.Wrap(ErrTableInvalid, "table name is empty")
	}

	for k, v := range doc.Values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, zerr.With(zerr.With(zerr.Wrap(ErrTableInvalid, "value is not finite"), "table", name), "key", k)
		}
	}

	prev := 0.0
	for i, b := range doc.Brackets {
		last := i == len(doc.Brackets)-1
		if b.Factor < 0 || math.IsNaN(b.Factor) || math.IsInf(b.Factor, 0) {
			return nil, zerr.With(zerr.With(zerr.Wrap(ErrTableInvalid, "bracket factor is invalid"), "table", name), "bracket", i)
		}
		if b.UpTo == 0 && !last {
			return nil, zerr.With(zerr.With(zerr.Wrap(ErrTableInvalid, "only the final bracket may be open-ended"), "table", name), "bracket", i)
		}
		if b.UpTo != 0 && b.UpTo <= prev {
			return nil, zerr.With(zerr.With(zerr.Wrap(ErrTableInvalid, "bracket bounds must increase"), "table", name), "bracket", i)
		}
		prev = b.UpTo
	}

	return &Table{
		name:        name,
		description: doc.Description,
		values:      maps.Clone(doc.Values),
		brackets:    slices.Clone(doc.Brackets),
	}, nil
}

// Name returns the table name.
func (t *Table) Name() string {
	return t.name
}

// Description returns the free-form table description.
func (t *Table) Description() string {
	return t.description
}

// Value returns the named scalar.
func (t *Table) Value(key string) (float64, error) {
	v, ok := t.values[key]
	if !ok {
		return 0, zerr.With(zerr.With(zerr.Wrap(ErrTableValueMissing, "no such key"), "table", t.name), "key", key)
	}
	return v, nil
}

// Values returns a copy of all scalars.
func (t *Table) Values() map[string]float64 {
	return maps.Clone(t.values)
}

// Brackets returns a copy of the stepped demand bands.
func (t *Table) Brackets() []Bracket {
	return slices.Clone(t.brackets)
}

// ApplyBrackets applies the stepped demand factors to amount.
// Each band contributes the portion of amount that falls inside it, scaled by its factor.
// Amount above a closed final band is counted at 100%.
func (t *Table) ApplyBrackets(amount float64) float64 {
	if amount <= 0 {
		return 0
	}
	if len(t.brackets) == 0 {
		return amount
	}

	total := 0.0
	lower := 0.0
	for _, b := range t.brackets {
		if b.UpTo == 0 || amount <= b.UpTo {
			return total + (amount-lower)*b.Factor
		}
		total += (b.UpTo - lower) * b.Factor
		lower = b.UpTo
	}
	return total + (amount - lower)
}

// RuleTables is the immutable set of tables loaded for one TableKey.
type RuleTables struct {
	key         TableKey
	tables      map[string]*Table
	fingerprint string
}

// NewRuleTables freezes a set of tables under key and computes its fingerprint.
func NewRuleTables(key TableKey, tables []*Table) *RuleTables {
	byName := make(map[string]*Table, len(tables))
	for _, t := range tables {
		byName[t.name] = t
	}
	rt := &RuleTables{key: key, tables: byName}
	rt.fingerprint = rt.computeFingerprint()
	return rt
}

// Key returns the code and edition the set was loaded for.
func (rt *RuleTables) Key() TableKey {
	return rt.key
}

// Names returns the sorted table names in the set.
func (rt *RuleTables) Names() []string {
	return slices.Sorted(maps.Keys(rt.tables))
}

// Has reports whether the named table is present.
func (rt *RuleTables) Has(name string) bool {
	_, ok := rt.tables[name]
	return ok
}

// Table returns the named table.
func (rt *RuleTables) Table(name string) (*Table, error) {
	t, ok := rt.tables[name]
	if !ok {
		return nil, zerr.With(zerr.With(zerr.Wrap(ErrTableNotFound, "table not loaded"), "table", name), "key", rt.key.String())
	}
	return t, nil
}

// Value is a shortcut for Table(name) followed by Value(key).
func (rt *RuleTables) Value(name, key string) (float64, error) {
	t, err := rt.Table(name)
	if err != nil {
		return 0, err
	}
	return t.Value(key)
}

// Fingerprint returns the hex xxhash digest of the set's canonical content.
func (rt *RuleTables) Fingerprint() string {
	return rt.fingerprint
}

// Version describes the set for inclusion in a bundle.
func (rt *RuleTables) Version() TableVersion {
	return TableVersion{
		Code:        rt.key.Code,
		Edition:     rt.key.Edition,
		Fingerprint: rt.fingerprint,
	}
}

func (rt *RuleTables) computeFingerprint() string {
	h := xxhash.New()
	var buf [8]byte

	write := func(s string) {
		binary.LittleEndian.PutUint64(buf[:], uint64(len(s)))
		_, _ = h.Write(buf[:])
		_, _ = h.WriteString(s)
	}
	writeFloat := func(f float64) {
		write(strconv.FormatFloat(f, 'g', -1, 64))
	}

	write(rt.key.Code)
	write(rt.key.Edition)
	for _, name := range rt.Names() {
		t := rt.tables[name]
		write(name)
		write("values")
		for _, k := range slices.Sorted(maps.Keys(t.values)) {
			write(k)
			writeFloat(t.values[k])
		}
		write("brackets")
		for _, b := range t.brackets {
			writeFloat(b.UpTo)
			writeFloat(b.Factor)
		}
	}

	return fmt.Sprintf("%016x", h.Sum64())
}

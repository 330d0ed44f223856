package domain

import (
	"slices"
	"strings"
)

// Capabilities declares the optional behaviours a plugin supports.
type Capabilities struct {
	Offline bool `json:"offline" yaml:"offline"`
	Audit   bool `json:"audit" yaml:"audit"`
	Signing bool `json:"signing" yaml:"signing"`
	Preview bool `json:"preview" yaml:"preview"`
}

// Manifest is the declarative identity of a plugin.
//
// A Manifest is a value type. Once its checksum has been computed it must not be
// changed; callers that need a modified copy should use Clone.
type Manifest struct {
	ID             string       `json:"id" yaml:"id" validate:"required"`
	Name           string       `json:"name" yaml:"name" validate:"required"`
	Version        string       `json:"version" yaml:"version" validate:"required,semver"`
	Domain         string       `json:"domain" yaml:"domain" validate:"required"`
	Standards      []string     `json:"standards" yaml:"standards" validate:"required,min=1,dive,required"`
	BuildingTypes  []string     `json:"buildingTypes" yaml:"buildingTypes" validate:"required,min=1,dive,required"`
	Capabilities   Capabilities `json:"capabilities" yaml:"capabilities"`
	Entry          string       `json:"entry" yaml:"entry" validate:"required"`
	RequiredTables []string     `json:"requiredTables" yaml:"requiredTables" validate:"dive,required"`
	Tags           []string     `json:"tags" yaml:"tags" validate:"dive,required"`
}

// Clone returns a deep copy of the manifest.
func (m Manifest) Clone() Manifest {
	c := m
	c.Standards = slices.Clone(m.Standards)
	c.BuildingTypes = slices.Clone(m.BuildingTypes)
	c.RequiredTables = slices.Clone(m.RequiredTables)
	c.Tags = slices.Clone(m.Tags)
	return c
}

// SupportsStandard reports whether the manifest lists the given code among its standards.
// The comparison is case-insensitive.
func (m Manifest) SupportsStandard(code string) bool {
	return slices.ContainsFunc(m.Standards, func(s string) bool {
		return strings.EqualFold(s, code)
	})
}

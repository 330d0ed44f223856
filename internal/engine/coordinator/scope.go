package coordinator

import "go.trai.ch/watt/internal/core/domain"

// Scope is what an evaluator sees: the decoded inputs, the table set and the channel
// values accumulated by earlier evaluators.
type Scope[T any] struct {
	Inputs       *T
	Tables       *domain.RuleTables
	Jurisdiction *domain.JurisdictionConfig

	channels map[string]float64
}

// Channel returns the current, unrounded value of a channel.
func (s *Scope[T]) Channel(name string) float64 {
	return s.channels[name]
}

// Value reads a scalar from a table.
func (s *Scope[T]) Value(table, key string) (float64, error) {
	return s.Tables.Value(table, key)
}

// Table returns a table from the set.
func (s *Scope[T]) Table(name string) (*domain.Table, error) {
	return s.Tables.Table(name)
}

package ports

import "go.trai.ch/watt/internal/core/domain"

// ConfigLoader defines the interface for loading the project configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load discovers watt.yaml by walking up from cwd and resolves it.
	// When no file is found the defaults are resolved against cwd.
	Load(cwd string) (*domain.Config, error)
}

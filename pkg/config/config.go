package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/oscremap/pkg/logger"
	"github.com/oscremap/pkg/router"
)

// DefaultPath is where the remapper looks for its configuration when no
// path is given
const DefaultPath = "resources/osc_remapper/remapper_config.yaml"

// Fallback remote used when a configuration cannot be loaded
const (
	FallbackName        = "Failed to load config"
	FallbackSource      = "/"
	FallbackDestination = "/failed/to/load/config"
)

// Model is the set of route tables for one loaded configuration, in
// declaration order. A Model is never modified after it is built.
type Model struct {
	tables []*router.RouteTable
}

// NewModel creates a model from tables
func NewModel(tables ...*router.RouteTable) *Model {
	return &Model{tables: append([]*router.RouteTable(nil), tables...)}
}

// DefaultModel returns the single-table model used when loading fails, so
// there is always at least one route to consult
func DefaultModel() *Model {
	table, _ := router.NewRouteTable(
		router.Remote{Name: FallbackName, Host: DefaultHost, Port: DefaultPort},
		[]router.Mapping{{Source: FallbackSource, Destinations: []string{FallbackDestination}}},
	)
	return NewModel(table)
}

// Tables returns the route tables in declaration order
func (m *Model) Tables() []*router.RouteTable {
	return append([]*router.RouteTable(nil), m.tables...)
}

// Len returns the number of route tables
func (m *Model) Len() int {
	return len(m.tables)
}

// Find returns the first table with the given name
func (m *Model) Find(name string) (*router.RouteTable, bool) {
	for _, t := range m.tables {
		if t.Name() == name {
			return t, true
		}
	}
	return nil, false
}

// IsFallback reports whether m is the model produced by a failed load
func (m *Model) IsFallback() bool {
	return len(m.tables) == 1 && m.tables[0].Name() == FallbackName
}

// LoadFromFile loads a model from a YAML file. It always returns a usable
// model; the error reports why the fallback model was returned instead of
// the file's contents.
func LoadFromFile(path string, log *logger.Logger) (*Model, error) {
	log.Info("Loading config from: %s", path)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			err = fmt.Errorf("config file not found: %s", path)
		} else {
			err = fmt.Errorf("failed to read config file: %w", err)
		}
		log.Error("%v", err)
		return fallback(log), err
	}

	return Load(data, log)
}

// Load parses a YAML document and decodes it into a model
func Load(data []byte, log *logger.Logger) (*Model, error) {
	root, err := ParseYAML(data)
	if err != nil {
		log.Error("Failed to load config: %v", err)
		return fallback(log), err
	}
	return Decode(root, log)
}

func fallback(log *logger.Logger) *Model {
	log.Info("Creating default configuration")
	return DefaultModel()
}

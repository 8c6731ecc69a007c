package config

import (
	"errors"
	"fmt"

	"github.com/oscremap/pkg/logger"
	"github.com/oscremap/pkg/router"
)

// Defaults for remote fields missing from the document
const (
	DefaultName = "Unknown"
	DefaultHost = "127.0.0.1"
	DefaultPort = 7000
)

// Document keys
const (
	keyRemotes  = "remotes"
	keyName     = "name"
	keyIP       = "ip"
	keyPort     = "port"
	keyMappings = "mappings"
)

var (
	// ErrEmptyDocument is returned when there is nothing to decode
	ErrEmptyDocument = errors.New("config document is empty")
	// ErrRootNotMapping is returned when the document root is not a mapping
	ErrRootNotMapping = errors.New("config root must be a mapping")
	// ErrMissingRemotes is returned when the root lacks a remotes sequence
	ErrMissingRemotes = errors.New("config must contain a 'remotes:' sequence")
	// ErrNoRemotes is returned when no remote could be decoded
	ErrNoRemotes = errors.New("config contains no usable remotes")
)

// Decode builds a model from a parsed document. Malformed remotes and
// mappings are skipped. When the document as a whole is unusable the
// fallback model is returned together with the reason.
func Decode(root Value, log *logger.Logger) (model *Model, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("failed to decode config: %v", r)
			log.Error("%v", err)
			model = fallback(log)
		}
	}()

	remotes, err := remotesOf(root)
	if err != nil {
		log.Error("%v", err)
		return fallback(log), err
	}
	log.Debug("Remotes list size: %d", len(remotes))

	var tables []*router.RouteTable
	for i, rv := range remotes {
		table, err := decodeRemote(rv, log)
		if err != nil {
			log.Error("Failed to parse remote %d: %v", i, err)
			continue
		}
		tables = append(tables, table)
		log.Debug("Successfully parsed remote: %s", table.Name())
	}

	if len(tables) == 0 {
		log.Error("%v", ErrNoRemotes)
		return fallback(log), ErrNoRemotes
	}

	log.Info("Loaded %d remote configurations", len(tables))
	for _, t := range tables {
		logTable(log, t)
	}
	return NewModel(tables...), nil
}

func remotesOf(root Value) ([]Value, error) {
	switch root.Kind() {
	case KindNull:
		return nil, ErrEmptyDocument
	case KindMapping:
	default:
		return nil, fmt.Errorf("%w, found %s", ErrRootNotMapping, root.Kind())
	}

	remotes, ok := root.Get(keyRemotes)
	if !ok {
		return nil, fmt.Errorf("%w, found keys %v", ErrMissingRemotes, root.Keys())
	}
	if remotes.Kind() != KindSequence {
		return nil, fmt.Errorf("%w, found %s", ErrMissingRemotes, remotes.Kind())
	}
	return remotes.Items(), nil
}

func decodeRemote(v Value, log *logger.Logger) (*router.RouteTable, error) {
	if v.Kind() != KindMapping {
		return nil, fmt.Errorf("remote must be a mapping, found %s", v.Kind())
	}

	remote := router.Remote{
		Name: textOr(v, keyName, DefaultName, log),
		Host: textOr(v, keyIP, DefaultHost, log),
		Port: portOr(v, DefaultPort, log),
	}
	log.Debug("Remote basic properties: name=%s, ip=%s, port=%d", remote.Name, remote.Host, remote.Port)

	mappings := decodeMappings(v, log)
	table, rejected := router.NewRouteTable(remote, mappings)
	for _, r := range rejected {
		log.Error("Invalid mapping for %q on remote %s - skipping: %v", r.Mapping.Source, remote.Name, r.Err)
	}
	log.Debug("Created remote %s with %d mappings", remote.Name, table.Len())
	return table, nil
}

func decodeMappings(remote Value, log *logger.Logger) []router.Mapping {
	mv, ok := remote.Get(keyMappings)
	if !ok || mv.Kind() != KindMapping {
		log.Debug("No mappings found or mappings not a mapping")
		return nil
	}

	var mappings []router.Mapping
	for _, f := range mv.Fields() {
		if f.Value.Kind() != KindSequence {
			log.Error("Mapping for '%s' must be a sequence, found %s", f.Key, f.Value.Kind())
			log.Error("Use format: '%s: [\"destination\"]' instead of '%s: \"destination\"'", f.Key, f.Key)
			continue
		}

		dests, err := destinationsOf(f.Value)
		if err != nil {
			log.Error("Mapping for '%s' - skipping: %v", f.Key, err)
			continue
		}
		log.Debug("Mapping: %s -> %v", f.Key, dests)
		mappings = append(mappings, router.Mapping{Source: f.Key, Destinations: dests})
	}
	return mappings
}

func destinationsOf(seq Value) ([]string, error) {
	dests := make([]string, 0, len(seq.Items()))
	for i, item := range seq.Items() {
		text, ok := item.Text()
		if !ok {
			return nil, fmt.Errorf("destination %d must be a scalar, found %s", i, item.Kind())
		}
		dests = append(dests, text)
	}
	return dests, nil
}

func textOr(v Value, key, def string, log *logger.Logger) string {
	f, ok := v.Get(key)
	if !ok || f.IsNull() {
		return def
	}
	text, ok := f.Text()
	if !ok {
		log.Warn("Invalid value for %s: expected scalar, found %s", key, f.Kind())
		return def
	}
	return text
}

func portOr(v Value, def int, log *logger.Logger) int {
	f, ok := v.Get(keyPort)
	if !ok || f.IsNull() {
		return def
	}
	port, ok := f.Int()
	if !ok {
		text, _ := f.Text()
		log.Error("Invalid integer value for %s: %s", keyPort, text)
		return def
	}
	if port < 0 || port > 65535 {
		log.Error("Port %d out of range for %s", port, keyPort)
		return def
	}
	return port
}

func logTable(log *logger.Logger, t *router.RouteTable) {
	log.Info("remote: %s (%s)", t.Name(), t.Addr())
	for _, m := range t.Mappings() {
		log.Info("  mappings -> %s", m)
	}
	log.Info("  longest_prefix_filter -> %s", t.FilterPrefix())
	if t.IsPassthrough() {
		log.Info("  remote %s detected as passthrough", t.Name())
	}
}

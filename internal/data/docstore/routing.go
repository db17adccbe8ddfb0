package docstore

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Route declares where one entity type lives in the document store and how
// its partition scheme is satisfied. The partition attribute of a
// container is fixed at creation time and cannot be renamed to match the
// logical field, which is why documents mirror a source field into the
// physical attribute (and into any legacy aliases still being read by
// older containers).
type Route struct {
	// EntityType is the logical name used by the outbox and the seeder.
	EntityType string

	// Table is the container name.
	Table string

	// PartitionAttr is the physical partition attribute of the container.
	PartitionAttr string

	// PartitionSource is the document member whose value feeds the
	// partition attribute and aliases. "id" for identity-partitioned
	// containers; "accountId" for sessions, "axis" for compass tracking.
	PartitionSource string

	// Aliases are additional shadow attributes kept in lockstep with the
	// partition source (legacy container paths that still resolve them).
	Aliases []string
}

// composite reports whether the container key is (partition, id) rather
// than the partition attribute alone.
func (r Route) composite() bool { return r.PartitionSource != "id" }

// Registry maps entity types to routes. Registration happens once at
// startup; lookups are read-only afterwards.
type Registry struct {
	byType map[string]Route
}

func NewRegistry() *Registry {
	return &Registry{byType: map[string]Route{}}
}

func (r *Registry) Register(route Route) error {
	if route.EntityType == "" || route.Table == "" {
		return fmt.Errorf("docstore: route needs entity type and table: %+v", route)
	}
	if route.PartitionAttr == "" {
		return fmt.Errorf("docstore: route %q needs a partition attribute", route.EntityType)
	}
	if route.PartitionSource == "" {
		route.PartitionSource = "id"
	}
	r.byType[route.EntityType] = route
	return nil
}

func (r *Registry) RouteFor(entityType string) (Route, error) {
	route, ok := r.byType[entityType]
	if !ok {
		return Route{}, fmt.Errorf("%w: %q", ErrUnknownEntity, entityType)
	}
	return route, nil
}

func (r *Registry) EntityTypes() []string {
	out := make([]string, 0, len(r.byType))
	for t := range r.byType {
		out = append(out, t)
	}
	return out
}

// Entity type names shared with the outbox ledger.
const (
	EntityAccount         = "account"
	EntityGameSession     = "game-session"
	EntityScenarioScore   = "player-scenario-score"
	EntityCompassTracking = "compass-tracking"
	EntityCompassAxis     = "compass-axis"
	EntityArchetype       = "archetype"
	EntityEchoType        = "echo-type"
	EntityFantasyTheme    = "fantasy-theme"
	EntityAgeGroup        = "age-group"
)

// DefaultRegistry returns the full container map. Legacy containers were
// created with a lowercase "partitionKey" path; newer ones use the
// uppercase "Id" alias, which the reserved lowercase "id" member cannot
// serve. CompassTracking partitions on its Axis field, not its identity.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	routes := []Route{
		{EntityType: EntityAccount, Table: "accounts", PartitionAttr: "partitionKey", PartitionSource: "id", Aliases: []string{"Id"}},
		{EntityType: EntityGameSession, Table: "game-sessions", PartitionAttr: "accountId", PartitionSource: "accountId"},
		{EntityType: EntityScenarioScore, Table: "player-scenario-scores", PartitionAttr: "profileId", PartitionSource: "profileId"},
		{EntityType: EntityCompassTracking, Table: "compass-tracking", PartitionAttr: "PartitionKeyAxis", PartitionSource: "axis"},
		{EntityType: EntityCompassAxis, Table: "compass-axes", PartitionAttr: "Id", PartitionSource: "id"},
		{EntityType: EntityArchetype, Table: "archetypes", PartitionAttr: "Id", PartitionSource: "id"},
		{EntityType: EntityEchoType, Table: "echo-types", PartitionAttr: "Id", PartitionSource: "id"},
		{EntityType: EntityFantasyTheme, Table: "fantasy-themes", PartitionAttr: "Id", PartitionSource: "id"},
		{EntityType: EntityAgeGroup, Table: "age-groups", PartitionAttr: "Id", PartitionSource: "id"},
	}
	for _, route := range routes {
		if err := r.Register(route); err != nil {
			// Static routes; a bad one is a programming error.
			panic(err)
		}
	}
	return r
}

type routingFile struct {
	Containers map[string]string `yaml:"containers"`
}

// ApplyOverrides renames container tables from a YAML file, used to point
// one binary at per-environment container names. Unknown entity types in
// the file are rejected so typos do not silently route nowhere.
func (r *Registry) ApplyOverrides(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("docstore: read routing overrides: %w", err)
	}
	var file routingFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return fmt.Errorf("docstore: parse routing overrides: %w", err)
	}
	for entityType, table := range file.Containers {
		route, ok := r.byType[entityType]
		if !ok {
			return fmt.Errorf("%w: %q (in overrides file %s)", ErrUnknownEntity, entityType, path)
		}
		if table == "" {
			return fmt.Errorf("docstore: empty container name for %q in %s", entityType, path)
		}
		route.Table = table
		r.byType[entityType] = route
	}
	return nil
}

package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/phoenixvc/mystira-backend/internal/data/repos"
	"github.com/phoenixvc/mystira-backend/internal/data/repos/testutil"
	types "github.com/phoenixvc/mystira-backend/internal/domain"
	"github.com/phoenixvc/mystira-backend/internal/ids"
	"github.com/phoenixvc/mystira-backend/internal/pkg/dbctx"
	"github.com/phoenixvc/mystira-backend/internal/seed"
)

type seedFixture struct {
	conn  *gorm.DB
	repos repos.All
	svc   SeedService
}

func newSeedFixture(t *testing.T, loader seed.Loader) seedFixture {
	t.Helper()
	conn := testutil.SQLiteDB(t)
	log := testutil.Logger(t)
	allRepos := repos.New(conn, log)
	classifier, err := seed.NewClassifier()
	if err != nil {
		t.Fatalf("new classifier: %v", err)
	}
	return seedFixture{
		conn:  conn,
		repos: allRepos,
		svc:   NewSeedService(conn, log, allRepos, loader, classifier, nil),
	}
}

func TestSeedAll_PopulatesEveryCatalog(t *testing.T) {
	f := newSeedFixture(t, seed.Loader{})
	ctx := context.Background()
	if err := f.svc.SeedAll(ctx); err != nil {
		t.Fatalf("seed: %v", err)
	}

	dbc := dbctx.Context{Ctx: ctx}
	for catalog, counter := range map[string]func() (int64, error){
		types.CatalogCompassAxis:  func() (int64, error) { return f.repos.CompassAxes.Count(dbc) },
		types.CatalogArchetype:    func() (int64, error) { return f.repos.Archetypes.Count(dbc) },
		types.CatalogEchoType:     func() (int64, error) { return f.repos.EchoTypes.Count(dbc) },
		types.CatalogFantasyTheme: func() (int64, error) { return f.repos.FantasyThemes.Count(dbc) },
		types.CatalogAgeGroup:     func() (int64, error) { return f.repos.AgeGroups.Count(dbc) },
	} {
		count, err := counter()
		if err != nil {
			t.Fatalf("count %s: %v", catalog, err)
		}
		if count == 0 {
			t.Fatalf("catalog %s is empty after seeding", catalog)
		}
		status, err := f.repos.SeedStatus.Get(dbc, catalog)
		if err != nil {
			t.Fatalf("seed status %s: %v", catalog, err)
		}
		if status == nil {
			t.Fatalf("no seed status marker for %s", catalog)
		}
		if int64(status.RecordCount) != count {
			t.Fatalf("%s marker says %d records, table has %d", catalog, status.RecordCount, count)
		}
	}

	axes, err := f.repos.CompassAxes.Count(dbc)
	if err != nil {
		t.Fatalf("count axes: %v", err)
	}
	if axes != 8 {
		t.Fatalf("compass axes = %d, want 8", axes)
	}
}

func TestSeedAll_RunningTwiceChangesNothing(t *testing.T) {
	f := newSeedFixture(t, seed.Loader{})
	ctx := context.Background()
	if err := f.svc.SeedAll(ctx); err != nil {
		t.Fatalf("first seed: %v", err)
	}

	dbc := dbctx.Context{Ctx: ctx}
	before, err := f.repos.SyncLog.CountByStatus(dbc, types.SyncStatusPending)
	if err != nil {
		t.Fatalf("count outbox: %v", err)
	}
	firstSeededAt := seededAt(t, f, types.CatalogCompassAxis)

	time.Sleep(10 * time.Millisecond)
	if err := f.svc.SeedAll(ctx); err != nil {
		t.Fatalf("second seed: %v", err)
	}

	after, err := f.repos.SyncLog.CountByStatus(dbc, types.SyncStatusPending)
	if err != nil {
		t.Fatalf("count outbox: %v", err)
	}
	if after != before {
		t.Fatalf("second run appended outbox rows: %d -> %d", before, after)
	}
	if !seededAt(t, f, types.CatalogCompassAxis).Equal(firstSeededAt) {
		t.Fatalf("second run rewrote the seed marker")
	}
}

func seededAt(t *testing.T, f seedFixture, catalog string) time.Time {
	t.Helper()
	status, err := f.repos.SeedStatus.Get(dbctx.Context{Ctx: context.Background()}, catalog)
	if err != nil || status == nil {
		t.Fatalf("seed status %s: %v %v", catalog, status, err)
	}
	return status.SeededAt
}

func TestSeedAll_AssignsDeterministicIDs(t *testing.T) {
	f := newSeedFixture(t, seed.Loader{})
	ctx := context.Background()
	if err := f.svc.SeedAll(ctx); err != nil {
		t.Fatalf("seed: %v", err)
	}

	axes, err := f.repos.CompassAxes.GetAll(dbctx.Context{Ctx: ctx})
	if err != nil {
		t.Fatalf("get axes: %v", err)
	}
	for _, axis := range axes {
		want := ids.Generate(types.CatalogCompassAxis, axis.Name)
		if axis.ID != want {
			t.Fatalf("axis %q has ID %s, want %s", axis.Name, axis.ID, want)
		}
	}
}

func TestSeedAll_SkipsNonEmptyCatalogWithoutToppingUp(t *testing.T) {
	f := newSeedFixture(t, seed.Loader{})
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx}

	pre := &types.CompassAxis{
		ID:   ids.Generate(types.CatalogCompassAxis, "honesty"),
		Name: "honesty",
	}
	if err := f.conn.WithContext(ctx).Create(pre).Error; err != nil {
		t.Fatalf("pre-insert: %v", err)
	}

	if err := f.svc.SeedAll(ctx); err != nil {
		t.Fatalf("seed: %v", err)
	}

	axes, err := f.repos.CompassAxes.Count(dbc)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if axes != 1 {
		t.Fatalf("partially seeded catalog was topped up: %d rows", axes)
	}

	archetypes, err := f.repos.Archetypes.Count(dbc)
	if err != nil {
		t.Fatalf("count archetypes: %v", err)
	}
	if archetypes != 10 {
		t.Fatalf("other catalogs should still seed, got %d archetypes", archetypes)
	}
}

func TestSeedAll_ClassifiesEchoTypes(t *testing.T) {
	f := newSeedFixture(t, seed.Loader{})
	ctx := context.Background()
	if err := f.svc.SeedAll(ctx); err != nil {
		t.Fatalf("seed: %v", err)
	}

	echoes, err := f.repos.EchoTypes.GetAll(dbctx.Context{Ctx: ctx})
	if err != nil {
		t.Fatalf("get echo types: %v", err)
	}
	if len(echoes) == 0 {
		t.Fatalf("no echo types seeded")
	}
	for _, echo := range echoes {
		if echo.Category == "" || echo.Category == seed.CategoryOther {
			t.Fatalf("echo type %q left unclassified (%q)", echo.Name, echo.Category)
		}
	}
}

func TestSeedAll_BadSourceSkipsOnlyThatCatalog(t *testing.T) {
	dir := t.TempDir()
	dup := `[{"value": "honesty"}, {"value": "Honesty"}]`
	if err := os.WriteFile(filepath.Join(dir, "compass_axes.json"), []byte(dup), 0o600); err != nil {
		t.Fatalf("write bad source: %v", err)
	}

	f := newSeedFixture(t, seed.Loader{DataDir: dir})
	ctx := context.Background()
	if err := f.svc.SeedAll(ctx); err != nil {
		t.Fatalf("seed should warn and continue, got %v", err)
	}

	dbc := dbctx.Context{Ctx: ctx}
	axes, err := f.repos.CompassAxes.Count(dbc)
	if err != nil {
		t.Fatalf("count axes: %v", err)
	}
	if axes != 0 {
		t.Fatalf("rejected source still seeded %d rows", axes)
	}
	archetypes, err := f.repos.Archetypes.Count(dbc)
	if err != nil {
		t.Fatalf("count archetypes: %v", err)
	}
	if archetypes != 10 {
		t.Fatalf("healthy catalogs should seed, got %d archetypes", archetypes)
	}
}

func TestSeedAll_AppendsOutboxIntentPerRecord(t *testing.T) {
	f := newSeedFixture(t, seed.Loader{})
	ctx := context.Background()
	if err := f.svc.SeedAll(ctx); err != nil {
		t.Fatalf("seed: %v", err)
	}

	dbc := dbctx.Context{Ctx: ctx}
	var total int64
	for _, counter := range []func() (int64, error){
		func() (int64, error) { return f.repos.CompassAxes.Count(dbc) },
		func() (int64, error) { return f.repos.Archetypes.Count(dbc) },
		func() (int64, error) { return f.repos.EchoTypes.Count(dbc) },
		func() (int64, error) { return f.repos.FantasyThemes.Count(dbc) },
		func() (int64, error) { return f.repos.AgeGroups.Count(dbc) },
	} {
		n, err := counter()
		if err != nil {
			t.Fatalf("count: %v", err)
		}
		total += n
	}

	pending, err := f.repos.SyncLog.CountByStatus(dbc, types.SyncStatusPending)
	if err != nil {
		t.Fatalf("count outbox: %v", err)
	}
	if pending != total {
		t.Fatalf("outbox has %d intents for %d seeded rows", pending, total)
	}
}

// stubLock implements the seed lock without a backing server.
type stubLock struct {
	acquired bool
	releases int
}

func (l *stubLock) Acquire(context.Context, string, time.Duration) (bool, error) {
	return l.acquired, nil
}
func (l *stubLock) Release(context.Context, string) error {
	l.releases++
	return nil
}
func (l *stubLock) Close() error { return nil }

func TestSeedAll_SkipsWhenLockHeldElsewhere(t *testing.T) {
	conn := testutil.SQLiteDB(t)
	log := testutil.Logger(t)
	allRepos := repos.New(conn, log)
	classifier, err := seed.NewClassifier()
	if err != nil {
		t.Fatalf("new classifier: %v", err)
	}
	lock := &stubLock{acquired: false}
	svc := NewSeedService(conn, log, allRepos, seed.Loader{}, classifier, lock)

	ctx := context.Background()
	if err := svc.SeedAll(ctx); err != nil {
		t.Fatalf("seed: %v", err)
	}
	count, err := allRepos.CompassAxes.Count(dbctx.Context{Ctx: ctx})
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no seeding while lock held elsewhere, got %d rows", count)
	}
	if lock.releases != 0 {
		t.Fatalf("must not release a lock it never acquired")
	}
}

func TestSeedAll_ReleasesAcquiredLock(t *testing.T) {
	conn := testutil.SQLiteDB(t)
	log := testutil.Logger(t)
	allRepos := repos.New(conn, log)
	classifier, err := seed.NewClassifier()
	if err != nil {
		t.Fatalf("new classifier: %v", err)
	}
	lock := &stubLock{acquired: true}
	svc := NewSeedService(conn, log, allRepos, seed.Loader{}, classifier, lock)

	if err := svc.SeedAll(context.Background()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if lock.releases != 1 {
		t.Fatalf("expected one release, got %d", lock.releases)
	}
}

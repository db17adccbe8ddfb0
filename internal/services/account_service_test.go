package services

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"github.com/phoenixvc/mystira-backend/internal/data/convert"
	"github.com/phoenixvc/mystira-backend/internal/data/repos"
	"github.com/phoenixvc/mystira-backend/internal/data/repos/testutil"
	types "github.com/phoenixvc/mystira-backend/internal/domain"
	"github.com/phoenixvc/mystira-backend/internal/pkg/dbctx"
)

type accountFixture struct {
	conn  *gorm.DB
	repos repos.All
	svc   AccountService
}

func newAccountFixture(t *testing.T) accountFixture {
	t.Helper()
	conn := testutil.SQLiteDB(t)
	log := testutil.Logger(t)
	allRepos := repos.New(conn, log)
	return accountFixture{
		conn:  conn,
		repos: allRepos,
		svc:   NewAccountService(conn, log, allRepos),
	}
}

func pendingCount(t *testing.T, allRepos repos.All) int64 {
	t.Helper()
	n, err := allRepos.SyncLog.CountByStatus(dbctx.Context{Ctx: context.Background()}, types.SyncStatusPending)
	if err != nil {
		t.Fatalf("count outbox: %v", err)
	}
	return n
}

func TestAccountRegister_CreatesRowAndIntent(t *testing.T) {
	f := newAccountFixture(t)
	ctx := context.Background()

	acct, err := f.svc.Register(ctx, "ext-1", "a@example.com", "Ada")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	got, err := f.svc.GetByID(ctx, acct.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil || got.Email != "a@example.com" {
		t.Fatalf("unexpected account %+v", got)
	}
	if pendingCount(t, f.repos) != 1 {
		t.Fatalf("expected one outbox intent")
	}
}

func TestAccountRegister_RejectsDuplicateEmail(t *testing.T) {
	f := newAccountFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Register(ctx, "ext-1", "a@example.com", "Ada"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := f.svc.Register(ctx, "ext-2", "a@example.com", "Imposter"); err == nil {
		t.Fatalf("expected duplicate email rejection")
	}
	// The rejected attempt must not leave an intent behind.
	if pendingCount(t, f.repos) != 1 {
		t.Fatalf("failed registration leaked an outbox intent")
	}
}

func TestAccountUpdateSettings_PersistsChange(t *testing.T) {
	f := newAccountFixture(t)
	ctx := context.Background()

	acct, err := f.svc.Register(ctx, "ext-1", "a@example.com", "Ada")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	prefs := convert.NewFoldedStringListMap()
	prefs.Set("Theme", []string{"forest"})
	updated, err := f.svc.UpdateSettings(ctx, acct.ID, types.Settings{Locale: "en-GB", Preferences: prefs})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Settings.Locale != "en-GB" {
		t.Fatalf("locale = %q", updated.Settings.Locale)
	}

	reread, err := f.svc.GetByID(ctx, acct.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got, ok := reread.Settings.Preferences.Get("theme"); !ok || got[0] != "forest" {
		t.Fatalf("preferences did not round-trip: %v %v", got, ok)
	}
	if pendingCount(t, f.repos) != 2 {
		t.Fatalf("expected register + update intents")
	}
}

func TestAccountUpdateSettings_IdenticalSettingsAreANoOp(t *testing.T) {
	f := newAccountFixture(t)
	ctx := context.Background()

	acct, err := f.svc.Register(ctx, "ext-1", "a@example.com", "Ada")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	prefs := convert.NewFoldedStringListMap()
	prefs.Set("Theme", []string{"forest"})
	if _, err := f.svc.UpdateSettings(ctx, acct.ID, types.Settings{Locale: "en-GB", Preferences: prefs}); err != nil {
		t.Fatalf("update: %v", err)
	}
	before := pendingCount(t, f.repos)

	// Same values, different key casing: folded equality must see through it.
	again := convert.NewFoldedStringListMap()
	again.Set("theme", []string{"forest"})
	if _, err := f.svc.UpdateSettings(ctx, acct.ID, types.Settings{Locale: "en-GB", Preferences: again}); err != nil {
		t.Fatalf("re-update: %v", err)
	}

	if got := pendingCount(t, f.repos); got != before {
		t.Fatalf("no-op update appended an intent: %d -> %d", before, got)
	}
}

func TestAccountDelete_AppendsIntentsForSessionsAndAccount(t *testing.T) {
	f := newAccountFixture(t)
	ctx := context.Background()

	acct, err := f.svc.Register(ctx, "ext-1", "a@example.com", "Ada")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	dbc := dbctx.Context{Ctx: ctx}
	testutil.SeedGameSession(t, ctx, f.conn, acct.ID, "profile-1")
	testutil.SeedGameSession(t, ctx, f.conn, acct.ID, "profile-2")
	before := pendingCount(t, f.repos)

	if err := f.svc.Delete(ctx, acct.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	gone, err := f.repos.Accounts.GetByID(dbc, acct.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if gone != nil {
		t.Fatalf("account survived delete")
	}

	// One delete intent per session plus one for the account itself.
	if got := pendingCount(t, f.repos); got != before+3 {
		t.Fatalf("expected %d intents, got %d", before+3, got)
	}
}

func TestAccountDelete_MissingAccountIsANoOp(t *testing.T) {
	f := newAccountFixture(t)
	ctx := context.Background()

	acct, err := f.svc.Register(ctx, "ext-1", "a@example.com", "Ada")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := f.svc.Delete(ctx, acct.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	before := pendingCount(t, f.repos)

	if err := f.svc.Delete(ctx, acct.ID); err != nil {
		t.Fatalf("repeat delete: %v", err)
	}
	if got := pendingCount(t, f.repos); got != before {
		t.Fatalf("repeat delete appended intents")
	}
}

package pages

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"officepages/app/internal/db"
)

func TestNewRepositoryRequiresDatabase(t *testing.T) {
	t.Parallel()

	if _, err := NewRepository(nil, nil); err == nil {
		t.Fatalf("expected error when database is nil")
	}
}

func TestGetByKeyReturnsNilForMissingPage(t *testing.T) {
	t.Parallel()

	repo := setupRepository(t)

	page, err := repo.GetByKey(context.Background(), "tx/houston", "midtown", "care")
	if err != nil {
		t.Fatalf("GetByKey returned error: %v", err)
	}
	if page != nil {
		t.Fatalf("expected nil page for missing key, got %#v", page)
	}
}

func TestCreateAndGetByKeyRoundTrip(t *testing.T) {
	t.Parallel()

	repo := setupRepository(t)
	ctx := context.Background()

	original := testPage("tx/houston", "midtown", "care")
	if err := repo.Create(ctx, original); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if original.ID == 0 {
		t.Fatalf("expected assigned ID after create")
	}

	stored, err := repo.GetByKey(ctx, "tx/houston", "midtown", "care")
	if err != nil {
		t.Fatalf("GetByKey returned error: %v", err)
	}
	if stored == nil {
		t.Fatalf("expected stored page to be present")
	}
	if stored.ID != original.ID {
		t.Fatalf("expected ID %d, got %d", original.ID, stored.ID)
	}
	if stored.PageContent != original.PageContent {
		t.Fatalf("expected page content preserved, got %q", stored.PageContent)
	}
}

func TestCreateDuplicateKeyReturnsDuplicatedKeyError(t *testing.T) {
	t.Parallel()

	repo := setupRepository(t)
	ctx := context.Background()

	if err := repo.Create(ctx, testPage("tx/houston", "midtown", "care")); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	err := repo.Create(ctx, testPage("tx/houston", "midtown", "care"))
	if err == nil {
		t.Fatalf("expected duplicate key error")
	}
	if !eris.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("expected gorm.ErrDuplicatedKey, got %v", err)
	}
}

func TestFindByStatePrefixMatchesSlashSeparatedTokens(t *testing.T) {
	t.Parallel()

	repo := setupRepository(t)
	ctx := context.Background()

	seed := []*OfficePage{
		testPage("tx/houston", "midtown", "care"),
		testPage("tx/dallas", "uptown", "care"),
		testPage("texas/austin", "downtown", "care"),
	}
	for _, page := range seed {
		if err := repo.Create(ctx, page); err != nil {
			t.Fatalf("Create returned error: %v", err)
		}
	}

	matches, err := repo.FindByStatePrefix(ctx, "tx", "midtown", "care")
	if err != nil {
		t.Fatalf("FindByStatePrefix returned error: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	if matches[0].StateOfficeToken != "tx/houston" {
		t.Fatalf("expected tx/houston, got %q", matches[0].StateOfficeToken)
	}

	// "te" must not match "texas/austin"; the prefix has to end at a slash.
	matches, err = repo.FindByStatePrefix(ctx, "te", "downtown", "care")
	if err != nil {
		t.Fatalf("FindByStatePrefix returned error: %v", err)
	}
	if len(matches) != 0 {
		t.Fatalf("expected no matches for partial state token, got %d", len(matches))
	}
}

func TestListSummariesOrdersByServiceToken(t *testing.T) {
	t.Parallel()

	repo := setupRepository(t)
	ctx := context.Background()

	seed := []*OfficePage{
		testPage("tx/houston", "midtown", "respite-care"),
		testPage("tx/houston", "midtown", "care"),
		testPage("tx/houston", "uptown", "care"),
	}
	for _, page := range seed {
		if err := repo.Create(ctx, page); err != nil {
			t.Fatalf("Create returned error: %v", err)
		}
	}

	summaries, err := repo.ListSummaries(ctx, "tx/houston", "midtown")
	if err != nil {
		t.Fatalf("ListSummaries returned error: %v", err)
	}

	expected := []string{"care", "respite-care"}
	if len(summaries) != len(expected) {
		t.Fatalf("expected %d summaries, got %d", len(expected), len(summaries))
	}
	for idx, token := range expected {
		if summaries[idx].ServiceToken != token {
			t.Fatalf("expected service %q at index %d, got %q", token, idx, summaries[idx].ServiceToken)
		}
	}
	if summaries[0].PageTitle == "" {
		t.Fatalf("expected page title in summary")
	}
}

func TestDistinctStateOfficeTokensIsSortedAndUnique(t *testing.T) {
	t.Parallel()

	repo := setupRepository(t)
	ctx := context.Background()

	seed := []*OfficePage{
		testPage("tx/houston", "midtown", "care"),
		testPage("tx/houston", "uptown", "care"),
		testPage("al/birmingham", "homewood", "care"),
	}
	for _, page := range seed {
		if err := repo.Create(ctx, page); err != nil {
			t.Fatalf("Create returned error: %v", err)
		}
	}

	tokens, err := repo.DistinctStateOfficeTokens(ctx)
	if err != nil {
		t.Fatalf("DistinctStateOfficeTokens returned error: %v", err)
	}

	expected := []string{"al/birmingham", "tx/houston"}
	if len(tokens) != len(expected) {
		t.Fatalf("expected %d tokens, got %d: %v", len(expected), len(tokens), tokens)
	}
	for idx, token := range expected {
		if tokens[idx] != token {
			t.Fatalf("expected token %q at index %d, got %q", token, idx, tokens[idx])
		}
	}
}

func TestListKeysReturnsTriplesForOneOffice(t *testing.T) {
	t.Parallel()

	repo := setupRepository(t)
	ctx := context.Background()

	seed := []*OfficePage{
		testPage("tx/houston", "uptown", "care"),
		testPage("tx/houston", "midtown", "care"),
		testPage("al/birmingham", "homewood", "care"),
	}
	for _, page := range seed {
		if err := repo.Create(ctx, page); err != nil {
			t.Fatalf("Create returned error: %v", err)
		}
	}

	keys, err := repo.ListKeys(ctx, "tx/houston")
	if err != nil {
		t.Fatalf("ListKeys returned error: %v", err)
	}

	if len(keys) != 2 {
		t.Fatalf("expected 2 keys, got %d", len(keys))
	}
	if keys[0].AreaServedToken != "midtown" || keys[1].AreaServedToken != "uptown" {
		t.Fatalf("expected keys ordered by area, got %v", keys)
	}
}

func testPage(stateOffice, area, service string) *OfficePage {
	return &OfficePage{
		StateOfficeToken: stateOffice,
		AreaServedToken:  area,
		ServiceToken:     service,
		MetaTitle:        "Meta " + service,
		MetaDescription:  "Description for " + service,
		PageTitle:        "Title " + service,
		PageContent:      "<h1>Content for " + service + "</h1>",
	}
}

func setupRepository(t *testing.T) *GormRepository {
	t.Helper()

	gormDB := setupDatabase(t)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	repo, err := NewRepository(gormDB, logger)
	if err != nil {
		t.Fatalf("NewRepository returned error: %v", err)
	}

	return repo
}

func setupDatabase(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "pages.db")
	gormDB, err := db.Open(db.Options{Path: path})
	if err != nil {
		t.Fatalf("db.Open returned error: %v", err)
	}

	t.Cleanup(func() {
		if closeErr := db.Close(gormDB); closeErr != nil {
			t.Fatalf("closing database failed: %v", closeErr)
		}
	})

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	if err := Migrate(context.Background(), gormDB, logger); err != nil {
		t.Fatalf("Migrate returned error: %v", err)
	}

	return gormDB
}

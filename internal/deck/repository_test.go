package deck

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/cpiyush04/AI-Deck-Generator/internal/db"
)

func setupRepository(t *testing.T) *GormRepository {
	t.Helper()

	path := filepath.Join(t.TempDir(), "decks.db")
	gormDB, err := db.Open(db.Options{Path: path})
	if err != nil {
		t.Fatalf("db.Open returned error: %v", err)
	}

	t.Cleanup(func() {
		if closeErr := db.Close(gormDB); closeErr != nil {
			t.Fatalf("closing database failed: %v", closeErr)
		}
	})

	logger := testLogger()

	if err := Migrate(context.Background(), gormDB, logger); err != nil {
		t.Fatalf("Migrate returned error: %v", err)
	}

	repo, err := NewRepository(gormDB, logger)
	if err != nil {
		t.Fatalf("NewRepository returned error: %v", err)
	}

	return repo
}

func sampleRecord(publicID, topic string) *Record {
	return &Record{
		PublicID:       publicID,
		Topic:          topic,
		SlideCount:     7,
		ArtifactPath:   "/tmp/presentation-" + topic + ".pdf",
		ArtifactSize:   1024,
		GeneratorModel: "qwen/qwen3-30b-a3b",
	}
}

func TestNewRepositoryRequiresDatabase(t *testing.T) {
	t.Parallel()

	if _, err := NewRepository(nil, nil); err == nil {
		t.Fatalf("expected error when database is nil")
	}
}

func TestCreateValidatesRecord(t *testing.T) {
	t.Parallel()

	repo := setupRepository(t)
	ctx := context.Background()

	if err := repo.Create(ctx, nil); err == nil {
		t.Fatalf("expected error for nil record")
	}
	if err := repo.Create(ctx, &Record{Topic: "topic"}); err == nil {
		t.Fatalf("expected error for missing public id")
	}
	if err := repo.Create(ctx, &Record{PublicID: "abc"}); err == nil {
		t.Fatalf("expected error for missing topic")
	}
}

func TestCreateAndGetRoundTrip(t *testing.T) {
	t.Parallel()

	repo := setupRepository(t)
	ctx := context.Background()

	record := sampleRecord("11111111-1111-1111-1111-111111111111", "glaciers")
	if err := repo.Create(ctx, record); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	stored, err := repo.GetByPublicID(ctx, record.PublicID)
	if err != nil {
		t.Fatalf("GetByPublicID returned error: %v", err)
	}
	if stored == nil {
		t.Fatalf("expected stored record to be present")
	}
	if stored.Topic != "glaciers" {
		t.Fatalf("expected topic preserved, got %q", stored.Topic)
	}
	if stored.SlideCount != 7 {
		t.Fatalf("expected slide count preserved, got %d", stored.SlideCount)
	}
	if stored.ArtifactSize != 1024 {
		t.Fatalf("expected artifact size preserved, got %d", stored.ArtifactSize)
	}
	if stored.GeneratorModel != "qwen/qwen3-30b-a3b" {
		t.Fatalf("expected generator model preserved, got %q", stored.GeneratorModel)
	}
}

func TestGetByPublicIDReturnsNilForMissingRecord(t *testing.T) {
	t.Parallel()

	repo := setupRepository(t)

	record, err := repo.GetByPublicID(context.Background(), "missing")
	if err != nil {
		t.Fatalf("GetByPublicID returned error: %v", err)
	}
	if record != nil {
		t.Fatalf("expected nil record for missing id, got %#v", record)
	}
}

func TestListRecentReturnsNewestFirst(t *testing.T) {
	t.Parallel()

	repo := setupRepository(t)
	ctx := context.Background()

	for idx, topic := range []string{"first", "second", "third"} {
		record := sampleRecord(
			"00000000-0000-0000-0000-00000000000"+string(rune('1'+idx)),
			topic,
		)
		if err := repo.Create(ctx, record); err != nil {
			t.Fatalf("Create returned error: %v", err)
		}
	}

	listed, err := repo.ListRecent(ctx, 10)
	if err != nil {
		t.Fatalf("ListRecent returned error: %v", err)
	}

	expectedOrder := []string{"third", "second", "first"}
	if len(listed) != len(expectedOrder) {
		t.Fatalf("expected %d records, got %d", len(expectedOrder), len(listed))
	}
	for idx, topic := range expectedOrder {
		if listed[idx].Topic != topic {
			t.Fatalf("expected topic %q at index %d, got %q", topic, idx, listed[idx].Topic)
		}
	}
}

func TestListRecentHonoursLimit(t *testing.T) {
	t.Parallel()

	repo := setupRepository(t)
	ctx := context.Background()

	for idx, topic := range []string{"first", "second", "third"} {
		record := sampleRecord(
			"00000000-0000-0000-0000-00000000000"+string(rune('1'+idx)),
			topic,
		)
		if err := repo.Create(ctx, record); err != nil {
			t.Fatalf("Create returned error: %v", err)
		}
	}

	listed, err := repo.ListRecent(ctx, 2)
	if err != nil {
		t.Fatalf("ListRecent returned error: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("expected 2 records, got %d", len(listed))
	}
	if listed[0].Topic != "third" {
		t.Fatalf("expected newest record first, got %q", listed[0].Topic)
	}
}

func TestMostRecentReturnsNilWhenEmpty(t *testing.T) {
	t.Parallel()

	repo := setupRepository(t)

	record, err := repo.MostRecent(context.Background())
	if err != nil {
		t.Fatalf("MostRecent returned error: %v", err)
	}
	if record != nil {
		t.Fatalf("expected nil record for empty library, got %#v", record)
	}
}

func TestMostRecentReturnsNewestRecord(t *testing.T) {
	t.Parallel()

	repo := setupRepository(t)
	ctx := context.Background()

	older := sampleRecord("11111111-1111-1111-1111-111111111111", "older")
	newer := sampleRecord("22222222-2222-2222-2222-222222222222", "newer")
	if err := repo.Create(ctx, older); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if err := repo.Create(ctx, newer); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	record, err := repo.MostRecent(ctx)
	if err != nil {
		t.Fatalf("MostRecent returned error: %v", err)
	}
	if record == nil || record.Topic != "newer" {
		t.Fatalf("expected newest record, got %#v", record)
	}
}

func TestCountReportsLibrarySize(t *testing.T) {
	t.Parallel()

	repo := setupRepository(t)
	ctx := context.Background()

	count, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("Count returned error: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected empty library, got %d", count)
	}

	if err := repo.Create(ctx, sampleRecord("11111111-1111-1111-1111-111111111111", "one")); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if err := repo.Create(ctx, sampleRecord("22222222-2222-2222-2222-222222222222", "two")); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	count, err = repo.Count(ctx)
	if err != nil {
		t.Fatalf("Count returned error: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 records, got %d", count)
	}
}

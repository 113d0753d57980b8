package store

import (
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenPath(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestBaselineStorage(t *testing.T) {
	store := openTestStore(t)

	t.Run("empty before onboarding", func(t *testing.T) {
		b, err := store.GetBaseline()
		if err != nil {
			t.Fatalf("GetBaseline: %v", err)
		}
		if b != nil {
			t.Errorf("expected no baseline, got %+v", b)
		}
	})

	t.Run("save and retrieve", func(t *testing.T) {
		game := "Valorant"
		sens := 0.35
		if err := store.SaveBaseline(Baseline{
			MouseTravel:         37.1,
			DPI:                 800,
			FavoriteGame:        &game,
			FavoriteSensitivity: &sens,
		}); err != nil {
			t.Fatalf("SaveBaseline: %v", err)
		}

		b, err := store.GetBaseline()
		if err != nil {
			t.Fatalf("GetBaseline: %v", err)
		}
		if b == nil {
			t.Fatal("baseline not found")
		}
		if b.MouseTravel != 37.1 || b.DPI != 800 {
			t.Errorf("got %v cm @ %d dpi", b.MouseTravel, b.DPI)
		}
		if b.FavoriteGame == nil || *b.FavoriteGame != game {
			t.Errorf("FavoriteGame = %v", b.FavoriteGame)
		}
		if b.FavoriteSensitivity == nil || *b.FavoriteSensitivity != sens {
			t.Errorf("FavoriteSensitivity = %v", b.FavoriteSensitivity)
		}
		if b.UpdatedAt.IsZero() {
			t.Error("UpdatedAt not set")
		}
	})

	t.Run("update replaces the single row", func(t *testing.T) {
		if err := store.SaveBaseline(Baseline{MouseTravel: 25, DPI: 1600}); err != nil {
			t.Fatalf("SaveBaseline: %v", err)
		}
		b, err := store.GetBaseline()
		if err != nil {
			t.Fatalf("GetBaseline: %v", err)
		}
		if b.MouseTravel != 25 || b.DPI != 1600 {
			t.Errorf("got %v cm @ %d dpi", b.MouseTravel, b.DPI)
		}
		if b.FavoriteGame != nil || b.FavoriteSensitivity != nil {
			t.Error("favorites should be cleared")
		}
	})
}

func TestBaselineSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.db")

	s, err := OpenPath(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.SaveBaseline(Baseline{MouseTravel: 42, DPI: 400}); err != nil {
		t.Fatal(err)
	}
	_ = s.Close()

	s, err = OpenPath(path)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = s.Close() }()

	b, err := s.GetBaseline()
	if err != nil || b == nil {
		t.Fatalf("GetBaseline after reopen = %v, %v", b, err)
	}
	if b.MouseTravel != 42 {
		t.Errorf("MouseTravel = %v, want 42", b.MouseTravel)
	}
}

func TestConversionHistory(t *testing.T) {
	store := openTestStore(t)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i, target := range []string{"Apex Legends", "Valorant", "Overwatch 2"} {
		if err := store.SaveConversion(Conversion{
			ID:                target,
			SourceGame:        "Counter-Strike 2",
			SourceSensitivity: 2,
			SourceDPI:         800,
			TargetGame:        target,
			TargetDPI:         800,
			TargetSensitivity: float64(i + 1),
			Cm360:             25.97,
			CreatedAt:         base.Add(time.Duration(i) * time.Minute),
		}); err != nil {
			t.Fatalf("SaveConversion: %v", err)
		}
	}

	got, err := store.ListConversions(2)
	if err != nil {
		t.Fatalf("ListConversions: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d conversions, want 2", len(got))
	}
	if got[0].TargetGame != "Overwatch 2" || got[1].TargetGame != "Valorant" {
		t.Errorf("order = %q, %q; want newest first", got[0].TargetGame, got[1].TargetGame)
	}
	if !got[0].CreatedAt.Equal(base.Add(2 * time.Minute)) {
		t.Errorf("CreatedAt = %v", got[0].CreatedAt)
	}

	if err := store.SaveConversion(Conversion{ID: "Valorant"}); err == nil {
		t.Error("duplicate id should fail")
	}

	n, err := store.ClearConversions()
	if err != nil {
		t.Fatalf("ClearConversions: %v", err)
	}
	if n != 3 {
		t.Errorf("cleared %d, want 3", n)
	}
	if got, _ := store.ListConversions(10); len(got) != 0 {
		t.Errorf("history not cleared: %d left", len(got))
	}
}

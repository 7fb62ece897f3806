package services

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"backend/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{}, &models.Profile{}, &models.Food{}, &models.FoodLog{},
		&models.RecipeSearchHistory{}, &models.FavoriteRecipe{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// newFakeEmbedding returns an EmbeddingService whose backend always answers
// with the given vector.
func newFakeEmbedding(t *testing.T, vec []float64) *EmbeddingService {
	t.Helper()
	t.Setenv("GEMINI_API_KEY", "test-key")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var resp embedContentResponse
		resp.Embedding.Values = vec
		json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)

	svc := NewEmbeddingService()
	svc.baseURL = srv.URL
	return svc
}

func TestFindExact(t *testing.T) {
	db := newTestDB(t)
	svc := NewMatcherService(db, nil)

	first := models.Food{Name: "김치찌개", Nutrients: models.Nutrients{Calories: 120}}
	second := models.Food{Name: "김치찌개", Nutrients: models.Nutrients{Calories: 999}}
	other := models.Food{Name: "된장찌개"}
	for _, f := range []*models.Food{&first, &second, &other} {
		if err := db.Create(f).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	got, err := svc.FindExact("김치찌개")
	if err != nil {
		t.Fatalf("FindExact: %v", err)
	}
	if got.ID != first.ID {
		t.Errorf("duplicate names should resolve to the oldest row: got ID %d, want %d", got.ID, first.ID)
	}

	if _, err := svc.FindExact("비빔밥"); !errors.Is(err, ErrNoMatch) {
		t.Errorf("missing name should return ErrNoMatch, got %v", err)
	}
}

func TestSimilarityScore(t *testing.T) {
	// "김치볶음밥" vs "새우볶음밥": sequence ratio 0.6 plus a 0.1 bonus for
	// each of the two shared keywords (볶음, 밥).
	got := similarityScore("김치볶음밥", "새우볶음밥")
	if math.Abs(got-0.8) > 1e-9 {
		t.Errorf("similarityScore = %v, want 0.8", got)
	}

	// The score is capped at 1.0 even with keyword bonuses.
	if got := similarityScore("김치볶음밥", "김치볶음밥"); got != 1.0 {
		t.Errorf("identical names should score 1.0, got %v", got)
	}

	// Whitespace differences are invisible to the ratio.
	a := similarityScore("김치 찌개", "김치찌개")
	if a != 1.0 {
		t.Errorf("whitespace-only difference should score 1.0, got %v", a)
	}
}

func TestFindByStringSimilarity(t *testing.T) {
	db := newTestDB(t)
	svc := NewMatcherService(db, nil)

	for _, name := range []string{"김치찌개", "된장찌개", "비빔밥", "불고기"} {
		if err := db.Create(&models.Food{Name: name}).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	got, err := svc.FindByStringSimilarity("김치 찌개")
	if err != nil {
		t.Fatalf("FindByStringSimilarity: %v", err)
	}
	if got.Name != "김치찌개" {
		t.Errorf("matched %q, want 김치찌개", got.Name)
	}

	if _, err := svc.FindByStringSimilarity("aaaa"); !errors.Is(err, ErrNoMatch) {
		t.Errorf("unrelated query should return ErrNoMatch, got %v", err)
	}
}

func TestFindByEmbedding(t *testing.T) {
	db := newTestDB(t)
	svc := NewMatcherService(db, newFakeEmbedding(t, []float64{1, 0, 0}))

	match := models.Food{Name: "김치찌개", Embedding: []float64{0.9, 0.1, 0}}
	far := models.Food{Name: "아이스크림", Embedding: []float64{0, 0, 1}}
	noVec := models.Food{Name: "된장찌개"}
	for _, f := range []*models.Food{&match, &far, &noVec} {
		if err := db.Create(f).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	got, err := svc.FindByEmbedding(context.Background(), "김치 스튜")
	if err != nil {
		t.Fatalf("FindByEmbedding: %v", err)
	}
	if got.Name != "김치찌개" {
		t.Errorf("matched %q, want 김치찌개", got.Name)
	}
}

func TestFindByEmbeddingBelowThreshold(t *testing.T) {
	db := newTestDB(t)
	svc := NewMatcherService(db, newFakeEmbedding(t, []float64{1, 0}))

	weak := models.Food{Name: "아이스크림", Embedding: []float64{0.5, 0.87}}
	if err := db.Create(&weak).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	if _, err := svc.FindByEmbedding(context.Background(), "김치찌개"); !errors.Is(err, ErrNoMatch) {
		t.Errorf("cosine below threshold should return ErrNoMatch, got %v", err)
	}
}

func TestFindByEmbeddingUnavailable(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	db := newTestDB(t)
	svc := NewMatcherService(db, NewEmbeddingService())

	if _, err := svc.FindByEmbedding(context.Background(), "김치찌개"); !errors.Is(err, ErrEmbeddingUnavailable) {
		t.Errorf("missing API key should return ErrEmbeddingUnavailable, got %v", err)
	}
}

package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

// newGeminiResponse wraps text the way generateContent returns it.
func newGeminiResponse(text string) []byte {
	body, _ := json.Marshal(geminiResponse{
		Candidates: []struct {
			Content geminiContent `json:"content"`
		}{
			{Content: geminiContent{Parts: []geminiPart{{Text: text}}}},
		},
	})
	return body
}

func newTestGemini(t *testing.T, srv *httptest.Server) *GeminiService {
	t.Helper()
	t.Setenv("GEMINI_API_KEY", "test-key")
	svc, err := NewGeminiService(GeminiModelFlash)
	if err != nil {
		t.Fatalf("NewGeminiService: %v", err)
	}
	svc.baseURL = srv.URL
	svc.retryDelay = time.Millisecond
	return svc
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"raw", `{"a": 1}`, `{"a": 1}`},
		{"json fence", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"bare fence", "```\n[1, 2]\n```", `[1, 2]`},
		{"fence with prose", "Here you go:\n```json\n{\"a\": 1}\n```\nEnjoy!", `{"a": 1}`},
		{"whitespace", "  {\"a\": 1}  ", `{"a": 1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractJSON(tt.in); got != tt.want {
				t.Errorf("extractJSON(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestExtractFoods(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(newGeminiResponse("```json\n[" +
			`{"food_name": "김치찌개", "quantity": 300, "meal_type": "dinner"},` +
			`{"food_name": "계란말이", "quantity": 0, "meal_type": ""}` +
			"]\n```"))
	}))
	defer srv.Close()

	svc := newTestGemini(t, srv)
	got, err := svc.ExtractFoods(context.Background(), "김치찌개랑 계란말이 먹었어", "ko")
	if err != nil {
		t.Fatalf("ExtractFoods: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d extractions, want 2", len(got))
	}
	if got[0].FoodName != "김치찌개" || got[0].Quantity != 300 || got[0].MealType != "dinner" {
		t.Errorf("unexpected first extraction: %+v", got[0])
	}
	if got[1].Quantity != 100 {
		t.Errorf("zero quantity should default to 100, got %v", got[1].Quantity)
	}
	if got[1].MealType != "lunch" {
		t.Errorf("empty meal type should default to lunch, got %q", got[1].MealType)
	}
}

func TestGenerateRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write(newGeminiResponse("ok"))
	}))
	defer srv.Close()

	svc := newTestGemini(t, srv)
	text, err := svc.generate(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if text != "ok" {
		t.Errorf("text = %q, want ok", text)
	}
	if calls.Load() != 3 {
		t.Errorf("calls = %d, want 3", calls.Load())
	}
}

func TestGenerateDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	svc := newTestGemini(t, srv)
	if _, err := svc.generate(context.Background(), "prompt"); err == nil {
		t.Fatal("expected error for 400 response")
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1 (no retry on 4xx)", calls.Load())
	}
}

func TestGenerateGivesUpAfterMaxRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	svc := newTestGemini(t, srv)
	if _, err := svc.generate(context.Background(), "prompt"); err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if calls.Load() != 3 {
		t.Errorf("calls = %d, want 3", calls.Load())
	}
}

func TestEstimateNutritionDefaults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(newGeminiResponse(`{"calories": 250, "protein": -2, "carbs": 30}`))
	}))
	defer srv.Close()

	svc := newTestGemini(t, srv)
	facts, err := svc.EstimateNutrition(context.Background(), "상상의음식")
	if err != nil {
		t.Fatalf("EstimateNutrition: %v", err)
	}
	if facts.Name != "상상의음식" {
		t.Errorf("missing name should default to the query, got %q", facts.Name)
	}
	if facts.Protein != 0 {
		t.Errorf("negative protein should clamp to 0, got %v", facts.Protein)
	}
	if facts.Calories != 250 || facts.Carbs != 30 {
		t.Errorf("unexpected values: %+v", facts.Nutrients)
	}
	if facts.Category != "LLM 생성" || facts.Source != "Gemini LLM" {
		t.Errorf("generative provenance not applied: category=%q source=%q", facts.Category, facts.Source)
	}
}

func TestRecommendMenus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(newGeminiResponse(`{"foods": ["김치찌개", "비빔밥", "불고기", "잡채", "떡볶이"]}`))
	}))
	defer srv.Close()

	svc := newTestGemini(t, srv)
	menus, err := svc.RecommendMenus(context.Background(), "얼큰한 거")
	if err != nil {
		t.Fatalf("RecommendMenus: %v", err)
	}
	if len(menus) != 4 {
		t.Errorf("got %d menus, want 4 (capped)", len(menus))
	}
}

func TestRecommendMenusRejectsTooFew(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(newGeminiResponse(`{"foods": ["김치찌개"]}`))
	}))
	defer srv.Close()

	svc := newTestGemini(t, srv)
	if _, err := svc.RecommendMenus(context.Background(), "얼큰한 거"); err == nil {
		t.Fatal("expected error for under-filled menu list")
	}
}

func TestSummarizeRecipeRejectsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(newGeminiResponse(`{"ingredients": [], "steps": []}`))
	}))
	defer srv.Close()

	svc := newTestGemini(t, srv)
	if _, err := svc.SummarizeRecipe(context.Background(), "abc123", "김치찌개 레시피"); err == nil {
		t.Fatal("expected error for empty summary")
	}
}

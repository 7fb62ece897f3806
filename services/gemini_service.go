package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"backend/models"
	"backend/utils"
)

// Gemini models used by the app: flash for the nutrition pipeline, flash-lite
// for recipe recommendation/summarization.
const (
	GeminiModelFlash     = "gemini-2.0-flash"
	GeminiModelFlashLite = "gemini-2.0-flash-lite"
)

const geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// GeminiService is a REST client for the generateContent endpoint with
// bounded exponential-backoff retry around each call.
type GeminiService struct {
	apiKey     string
	baseURL    string
	model      string
	client     *http.Client
	maxRetries int
	retryDelay time.Duration
}

func NewGeminiService(model string) (*GeminiService, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is not set")
	}
	return &GeminiService{
		apiKey:     apiKey,
		baseURL:    geminiBaseURL,
		model:      model,
		client:     &http.Client{Timeout: 30 * time.Second},
		maxRetries: 3,
		retryDelay: time.Second,
	}, nil
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

func retriableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= 500
}

// generate sends one prompt and returns the raw text of the first candidate.
// Network errors and 429/5xx responses are retried with exponential backoff;
// other HTTP errors fail immediately.
func (s *GeminiService) generate(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("marshal gemini request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", s.baseURL, s.model, s.apiKey)

	var lastErr error
	for attempt := 0; attempt < s.maxRetries; attempt++ {
		if attempt > 0 {
			wait := s.retryDelay * (1 << (attempt - 1))
			utils.Log.Warnw("gemini call failed, retrying", "attempt", attempt, "wait", wait, "error", lastErr)
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
		if err != nil {
			return "", fmt.Errorf("create gemini request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := s.client.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("call gemini API: %w", err)
			continue
		}
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("read gemini response: %w", err)
			continue
		}
		if resp.StatusCode != http.StatusOK {
			lastErr = fmt.Errorf("gemini API error %d: %s", resp.StatusCode, string(body))
			if retriableStatus(resp.StatusCode) {
				continue
			}
			return "", lastErr
		}

		var gr geminiResponse
		if err := json.Unmarshal(body, &gr); err != nil {
			return "", fmt.Errorf("parse gemini response: %w", err)
		}
		if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
			return "", fmt.Errorf("gemini response has no candidates")
		}
		return gr.Candidates[0].Content.Parts[0].Text, nil
	}
	return "", lastErr
}

// extractJSON strips an optional markdown code fence around the JSON payload.
func extractJSON(text string) string {
	text = strings.TrimSpace(text)
	if i := strings.Index(text, "```json"); i >= 0 {
		start := i + len("```json")
		if end := strings.Index(text[start:], "```"); end >= 0 {
			return strings.TrimSpace(text[start : start+end])
		}
	}
	if i := strings.Index(text, "```"); i >= 0 {
		start := i + len("```")
		if end := strings.Index(text[start:], "```"); end >= 0 {
			return strings.TrimSpace(text[start : start+end])
		}
	}
	return text
}

// FoodExtraction is one food mention pulled out of a free-text sentence.
type FoodExtraction struct {
	FoodName string  `json:"food_name"`
	Quantity float64 `json:"quantity"`
	MealType string  `json:"meal_type"`
}

var foodAnalysisPrompts = map[string]string{
	"ko": `너는 한국 음식 영양 분석 AI야. 사용자가 입력한 자연어에서 음식명, 수량, 식사유형을 추출해서 JSON 형식으로 반환해줘.

규칙:
1. 수량이 명확하지 않으면 100으로 간주
2. 한국 음식명을 정확히 인식
3. 단위는 g(그램) 사용
4. 식사유형을 자동으로 분석 (breakfast, lunch, dinner, snack)
5. JSON 형식만 반환

예시 입력: "김치찌개랑 계란말이 먹었어"
예시 출력: [
    {"food_name": "김치찌개", "quantity": 300, "meal_type": "lunch"},
    {"food_name": "계란말이", "quantity": 150, "meal_type": "lunch"}
]

분석할 문장: "%s"`,
	"en": `You are a Korean food nutrition analysis AI. Extract food names, quantities, and meal types from the user's natural language input and return them in JSON format.

Rules:
1. If quantity is not clear, assume 100
2. Recognize Korean food names accurately
3. Use g(grams) as the unit
4. Automatically analyze meal type (breakfast, lunch, dinner, snack)
5. Return ONLY JSON format

Example input: "I had kimchi stew for lunch and samgyeopsal for dinner"
Example output: [
    {"food_name": "kimchi stew", "quantity": 300, "meal_type": "lunch"},
    {"food_name": "samgyeopsal", "quantity": 200, "meal_type": "dinner"}
]

Analyze this sentence: "%s"`,
}

// ExtractFoods asks the model for the ordered (food_name, quantity,
// meal_type) tuples in a sentence. Missing quantities default to 100g and
// missing meal types to lunch.
func (s *GeminiService) ExtractFoods(ctx context.Context, userInput, language string) ([]FoodExtraction, error) {
	tmpl, ok := foodAnalysisPrompts[language]
	if !ok {
		tmpl = foodAnalysisPrompts["ko"]
	}

	text, err := s.generate(ctx, fmt.Sprintf(tmpl, userInput))
	if err != nil {
		return nil, err
	}

	var extractions []FoodExtraction
	if err := json.Unmarshal([]byte(extractJSON(text)), &extractions); err != nil {
		return nil, fmt.Errorf("parse extraction JSON: %w", err)
	}
	for i := range extractions {
		if extractions[i].Quantity <= 0 {
			extractions[i].Quantity = 100
		}
		if extractions[i].MealType == "" {
			extractions[i].MealType = models.MealLunch
		}
	}
	return extractions, nil
}

// NutritionFacts is the model's per-100g estimate for one food, parsed into
// explicit fields at the service boundary; every omitted key stays zero.
type NutritionFacts struct {
	Name             string `json:"name"`
	models.Nutrients        // flattened nutrient keys
	Category         string `json:"category"`
	Subcategory      string `json:"subcategory"`
	FoodCode         string `json:"food_code"`
	Source           string `json:"source"`
}

const nutritionPrompt = `당신은 영양 전문가입니다. 다음 음식의 영양성분을 JSON 형태로 제공해주세요.

음식명: %s

다음 형식으로 응답해주세요:
{
    "name": "%s",
    "calories": 100,
    "protein": 10.0,
    "carbs": 20.0,
    "fat": 5.0,
    "fiber": 2.0,
    "sugar": 3.0,
    "sodium": 500.0,
    "potassium": 300.0,
    "calcium": 50.0,
    "iron": 2.0,
    "magnesium": 25.0,
    "phosphorus": 100.0,
    "zinc": 1.0,
    "copper": 0.1,
    "manganese": 0.5,
    "selenium": 10.0,
    "vitamin_a": 50.0,
    "vitamin_b1": 0.1,
    "vitamin_b2": 0.1,
    "vitamin_b3": 1.0,
    "vitamin_b6": 0.2,
    "vitamin_b12": 1.0,
    "vitamin_c": 10.0,
    "vitamin_d": 2.0,
    "vitamin_e": 1.0,
    "vitamin_k": 5.0,
    "folate": 20.0,
    "choline": 50.0,
    "cholesterol": 0.0,
    "saturated_fat": 1.0,
    "monounsaturated_fat": 2.0,
    "polyunsaturated_fat": 1.0,
    "omega3": 0.1,
    "omega6": 0.5,
    "trans_fat": 0.0,
    "caffeine": 0.0,
    "alcohol": 0.0,
    "water": 70.0,
    "ash": 1.0
}

단위:
- 칼로리: kcal
- 단백질, 탄수화물, 지방, 섬유질, 당분: g
- 나트륨, 칼륨, 칼슘, 철분, 마그네슘, 인, 아연, 구리, 망간, 셀레늄: mg
- 비타민 A, D, K, 엽산, 콜린: μg
- 비타민 B1, B2, B3, B6, C, E: mg
- 비타민 B12: μg
- 콜레스테롤: mg
- 포화지방, 단일불포화지방, 다중불포화지방, 오메가3, 오메가6, 트랜스지방: g
- 카페인: mg
- 알코올: g
- 수분, 회분: g

정확하지 않은 값은 0으로 설정해주세요. 100g 기준으로 계산해주세요.`

// EstimateNutrition asks the model for a complete nutrient estimate assuming
// a 100g serving. Values are best-effort: negatives are clamped to zero and
// the result is tagged with generative provenance, nothing else is verified.
func (s *GeminiService) EstimateNutrition(ctx context.Context, foodName string) (*NutritionFacts, error) {
	text, err := s.generate(ctx, fmt.Sprintf(nutritionPrompt, foodName, foodName))
	if err != nil {
		return nil, err
	}

	var facts NutritionFacts
	if err := json.Unmarshal([]byte(extractJSON(text)), &facts); err != nil {
		return nil, fmt.Errorf("parse nutrition JSON: %w", err)
	}

	facts.Nutrients.ClampNegatives()
	if facts.Name == "" {
		facts.Name = foodName
	}
	if facts.Category == "" {
		facts.Category = models.CategoryLLM
	}
	if facts.Source == "" {
		facts.Source = models.SourceLLM
	}
	return &facts, nil
}

const menuPrompt = `당신은 요리 추천 전문가입니다. 사용자의 요청에 따라 적절한 음식 메뉴를 추천해주세요.

규칙:
1. 정확히 4개의 메뉴를 추천하세요
2. 한국 요리를 우선적으로 추천하되, 다양한 메뉴를 포함하세요
3. 메뉴명은 간결하고 명확하게 작성하세요
4. JSON 형식으로만 응답하세요 (다른 설명은 포함하지 마세요)

응답 형식:
{"foods": ["메뉴1", "메뉴2", "메뉴3", "메뉴4"]}

사용자 요청: %s`

// RecommendMenus returns up to four menu suggestions for a free-text craving.
func (s *GeminiService) RecommendMenus(ctx context.Context, userInput string) ([]string, error) {
	text, err := s.generate(ctx, fmt.Sprintf(menuPrompt, userInput))
	if err != nil {
		return nil, err
	}

	var result struct {
		Foods []string `json:"foods"`
	}
	if err := json.Unmarshal([]byte(extractJSON(text)), &result); err != nil {
		return nil, fmt.Errorf("parse menu JSON: %w", err)
	}
	if len(result.Foods) < 3 {
		return nil, fmt.Errorf("too few recommended menus: %d", len(result.Foods))
	}
	if len(result.Foods) > 4 {
		result.Foods = result.Foods[:4]
	}
	return result.Foods, nil
}

// RecipeSummary is the structured summary of a recipe video.
type RecipeSummary struct {
	Ingredients []string `json:"ingredients"`
	Steps       []string `json:"steps"`
}

const recipeSummaryPrompt = `당신은 요리 레시피 분석 전문가입니다. 이 유튜브 영상을 시청하고 레시피를 요약해주세요.

영상: https://www.youtube.com/watch?v=%s
제목: %s

규칙:
1. 영상에서 사용하는 주요 재료를 모두 추출하세요 (계량 단위 포함)
2. 요리 순서를 시간 순서대로 명확하고 간결하게 정리하세요
3. 중요한 조리 팁이나 주의사항도 단계에 포함하세요
4. JSON 형식으로만 응답하세요 (다른 설명 없이)

응답 형식:
{
  "ingredients": ["재료1 (분량)", "재료2 (분량)", ...],
  "steps": ["단계 1: 설명", "단계 2: 설명", ...]
}`

// SummarizeRecipe extracts ingredients and ordered steps from a recipe video.
func (s *GeminiService) SummarizeRecipe(ctx context.Context, videoID, title string) (*RecipeSummary, error) {
	text, err := s.generate(ctx, fmt.Sprintf(recipeSummaryPrompt, videoID, title))
	if err != nil {
		return nil, err
	}

	var summary RecipeSummary
	if err := json.Unmarshal([]byte(extractJSON(text)), &summary); err != nil {
		return nil, fmt.Errorf("parse recipe summary JSON: %w", err)
	}
	if len(summary.Ingredients) == 0 || len(summary.Steps) == 0 {
		return nil, fmt.Errorf("empty recipe summary")
	}
	return &summary, nil
}

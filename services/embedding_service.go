package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"backend/utils"
)

// ErrEmbeddingUnavailable means the embedding backend could not be set up.
// Once initialization fails it is not retried for the life of the process.
var ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

const embeddingModel = "text-embedding-004"

// EmbeddingService embeds food names via the Gemini embedContent endpoint.
// Initialization is lazy: the first Embed call checks the API key, and a
// failed setup is remembered so later calls fail fast instead of retrying.
type EmbeddingService struct {
	baseURL string
	client  *http.Client

	initOnce sync.Once
	apiKey   string
	initErr  error
}

func NewEmbeddingService() *EmbeddingService {
	return &EmbeddingService{
		baseURL: geminiBaseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

func (s *EmbeddingService) init() {
	s.apiKey = os.Getenv("GEMINI_API_KEY")
	if s.apiKey == "" {
		s.initErr = ErrEmbeddingUnavailable
		utils.Log.Warnw("embedding disabled", "reason", "GEMINI_API_KEY is not set")
	}
}

type embedContentRequest struct {
	Model   string        `json:"model"`
	Content geminiContent `json:"content"`
}

type embedContentResponse struct {
	Embedding struct {
		Values []float64 `json:"values"`
	} `json:"embedding"`
}

// Embed returns the embedding vector for text, or ErrEmbeddingUnavailable
// when the backend never came up.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float64, error) {
	s.initOnce.Do(s.init)
	if s.initErr != nil {
		return nil, s.initErr
	}

	payload, err := json.Marshal(embedContentRequest{
		Model:   "models/" + embeddingModel,
		Content: geminiContent{Parts: []geminiPart{{Text: text}}},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal embed request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:embedContent?key=%s", s.baseURL, embeddingModel, s.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create embed request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call embedding API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read embedding response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("embedding API error %d: %s", resp.StatusCode, string(body))
	}

	var er embedContentResponse
	if err := json.Unmarshal(body, &er); err != nil {
		return nil, fmt.Errorf("parse embedding response: %w", err)
	}
	if len(er.Embedding.Values) == 0 {
		return nil, fmt.Errorf("embedding response is empty")
	}
	return er.Embedding.Values, nil
}

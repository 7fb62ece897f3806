package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"backend/models"
	"backend/utils"
)

// ErrNoMatch means a lookup strategy completed but found nothing above its
// threshold. Callers treat it as "fall through", not as a failure.
var ErrNoMatch = errors.New("no matching food")

// Match acceptance thresholds.
const (
	EmbeddingThreshold = 0.7
	StringSimThreshold = 0.6
	keywordBonusPerHit = 0.1
	matcherBatchSize   = 500
)

// MatcherService runs the catalog lookup strategies in order of confidence:
// exact name, embedding cosine similarity, then string similarity.
type MatcherService struct {
	DB        *gorm.DB
	Embedding *EmbeddingService
}

func NewMatcherService(db *gorm.DB, embedding *EmbeddingService) *MatcherService {
	return &MatcherService{DB: db, Embedding: embedding}
}

// FindExact returns the catalog row whose name equals the query. Ties on
// duplicate names resolve to the oldest row.
func (s *MatcherService) FindExact(name string) (*models.Food, error) {
	var food models.Food
	err := s.DB.Where("name = ?", name).Order("id ASC").First(&food).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoMatch
	}
	if err != nil {
		return nil, fmt.Errorf("exact lookup: %w", err)
	}
	return &food, nil
}

// FindByEmbedding embeds the query and returns the highest-cosine catalog row
// at or above EmbeddingThreshold. Rows without an embedding are skipped.
func (s *MatcherService) FindByEmbedding(ctx context.Context, name string) (*models.Food, error) {
	queryVec, err := s.Embedding.Embed(ctx, name)
	if err != nil {
		return nil, err
	}

	var best *models.Food
	bestScore := 0.0

	var batch []models.Food
	err = s.DB.Where("embedding IS NOT NULL").FindInBatches(&batch, matcherBatchSize, func(tx *gorm.DB, _ int) error {
		for i := range batch {
			score := utils.Cosine(queryVec, batch[i].Embedding)
			if score >= EmbeddingThreshold && score > bestScore {
				f := batch[i]
				best = &f
				bestScore = score
			}
		}
		return nil
	}).Error
	if err != nil {
		return nil, fmt.Errorf("embedding scan: %w", err)
	}
	if best == nil {
		return nil, ErrNoMatch
	}
	utils.Log.Debugw("embedding match", "query", name, "match", best.Name, "score", bestScore)
	return best, nil
}

// similarityScore combines the sequence ratio of the normalized names with a
// small bonus per shared domain keyword, capped at 1.0.
func similarityScore(query, candidate string) float64 {
	score := utils.SequenceRatio(utils.NormalizeName(query), utils.NormalizeName(candidate))
	shared := utils.SharedKeywordCount(utils.ExtractKeywords(query), utils.ExtractKeywords(candidate))
	score += keywordBonusPerHit * float64(shared)
	if score > 1.0 {
		score = 1.0
	}
	return score
}

// FindByStringSimilarity scans the whole catalog and returns the best row at
// or above StringSimThreshold.
func (s *MatcherService) FindByStringSimilarity(name string) (*models.Food, error) {
	var best *models.Food
	bestScore := 0.0

	var batch []models.Food
	err := s.DB.FindInBatches(&batch, matcherBatchSize, func(tx *gorm.DB, _ int) error {
		for i := range batch {
			score := similarityScore(name, batch[i].Name)
			if score >= StringSimThreshold && score > bestScore {
				f := batch[i]
				best = &f
				bestScore = score
			}
		}
		return nil
	}).Error
	if err != nil {
		return nil, fmt.Errorf("similarity scan: %w", err)
	}
	if best == nil {
		return nil, ErrNoMatch
	}
	utils.Log.Debugw("string similarity match", "query", name, "match", best.Name, "score", bestScore)
	return best, nil
}

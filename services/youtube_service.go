package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"backend/utils"
)

const youtubeBaseURL = "https://www.googleapis.com/youtube/v3"

const recipeSearchTTL = 24 * time.Hour

// RecipeVideo is one recipe search hit enriched with video statistics.
type RecipeVideo struct {
	VideoID      string `json:"video_id"`
	Title        string `json:"title"`
	ChannelName  string `json:"channel_name"`
	ThumbnailURL string `json:"thumbnail_url"`
	Description  string `json:"description"`
	ViewCount    int64  `json:"view_count"`
	CommentCount int64  `json:"comment_count"`
	PublishedAt  string `json:"published_at"`
}

// YouTubeService searches recipe videos via the YouTube Data API. Search
// results are cached for a day since recipe rankings move slowly.
type YouTubeService struct {
	apiKey     string
	baseURL    string
	client     *http.Client
	cache      *redis.Client
	maxRetries int
	retryDelay time.Duration
}

func NewYouTubeService(cache *redis.Client) (*YouTubeService, error) {
	apiKey := os.Getenv("YOUTUBE_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("YOUTUBE_API_KEY is not set")
	}
	return &YouTubeService{
		apiKey:     apiKey,
		baseURL:    youtubeBaseURL,
		client:     &http.Client{Timeout: 15 * time.Second},
		cache:      cache,
		maxRetries: 3,
		retryDelay: time.Second,
	}, nil
}

// get performs one API GET with retry on 429/5xx and network errors, and
// decodes the JSON body into out.
func (s *YouTubeService) get(ctx context.Context, endpoint string, params url.Values, out any) error {
	params.Set("key", s.apiKey)
	reqURL := fmt.Sprintf("%s/%s?%s", s.baseURL, endpoint, params.Encode())

	var lastErr error
	for attempt := 0; attempt < s.maxRetries; attempt++ {
		if attempt > 0 {
			wait := s.retryDelay * (1 << (attempt - 1))
			utils.Log.Warnw("youtube call failed, retrying", "endpoint", endpoint, "attempt", attempt, "error", lastErr)
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return fmt.Errorf("create youtube request: %w", err)
		}
		resp, err := s.client.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("call youtube API: %w", err)
			continue
		}
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("read youtube response: %w", err)
			continue
		}
		if resp.StatusCode != http.StatusOK {
			lastErr = fmt.Errorf("youtube API error %d: %s", resp.StatusCode, string(body))
			if retriableStatus(resp.StatusCode) {
				continue
			}
			return lastErr
		}
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("parse youtube response: %w", err)
		}
		return nil
	}
	return lastErr
}

type youtubeSearchResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
		Snippet struct {
			Title        string `json:"title"`
			ChannelTitle string `json:"channelTitle"`
			Description  string `json:"description"`
			PublishedAt  string `json:"publishedAt"`
			Thumbnails   struct {
				High struct {
					URL string `json:"url"`
				} `json:"high"`
			} `json:"thumbnails"`
		} `json:"snippet"`
	} `json:"items"`
}

type youtubeVideosResponse struct {
	Items []struct {
		ID         string `json:"id"`
		Statistics struct {
			ViewCount    string `json:"viewCount"`
			CommentCount string `json:"commentCount"`
		} `json:"statistics"`
	} `json:"items"`
}

// SearchRecipes returns up to maxResults recipe videos for a dish name,
// "레시피" appended to the query to bias results toward cooking videos.
func (s *YouTubeService) SearchRecipes(ctx context.Context, query string, maxResults int) ([]RecipeVideo, error) {
	if maxResults <= 0 || maxResults > 10 {
		maxResults = 5
	}

	cacheKey := fmt.Sprintf("youtube:search:%s:%d", query, maxResults)
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var cached []RecipeVideo
			if err := json.Unmarshal([]byte(raw), &cached); err == nil {
				return cached, nil
			}
		}
	}

	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("q", query+" 레시피")
	params.Set("type", "video")
	params.Set("maxResults", strconv.Itoa(maxResults))
	params.Set("relevanceLanguage", "ko")

	var search youtubeSearchResponse
	if err := s.get(ctx, "search", params, &search); err != nil {
		return nil, err
	}

	videos := make([]RecipeVideo, 0, len(search.Items))
	ids := make([]string, 0, len(search.Items))
	for _, item := range search.Items {
		if item.ID.VideoID == "" {
			continue
		}
		ids = append(ids, item.ID.VideoID)
		videos = append(videos, RecipeVideo{
			VideoID:      item.ID.VideoID,
			Title:        item.Snippet.Title,
			ChannelName:  item.Snippet.ChannelTitle,
			ThumbnailURL: item.Snippet.Thumbnails.High.URL,
			Description:  item.Snippet.Description,
			PublishedAt:  item.Snippet.PublishedAt,
		})
	}
	if len(videos) == 0 {
		return videos, nil
	}

	statsParams := url.Values{}
	statsParams.Set("part", "statistics")
	statsParams.Set("id", strings.Join(ids, ","))

	var stats youtubeVideosResponse
	if err := s.get(ctx, "videos", statsParams, &stats); err != nil {
		// Statistics are decoration; return the hits without counts.
		utils.Log.Warnw("video statistics lookup failed", "error", err)
	} else {
		counts := make(map[string][2]int64, len(stats.Items))
		for _, item := range stats.Items {
			views, _ := strconv.ParseInt(item.Statistics.ViewCount, 10, 64)
			comments, _ := strconv.ParseInt(item.Statistics.CommentCount, 10, 64)
			counts[item.ID] = [2]int64{views, comments}
		}
		for i := range videos {
			if c, ok := counts[videos[i].VideoID]; ok {
				videos[i].ViewCount = c[0]
				videos[i].CommentCount = c[1]
			}
		}
	}

	if s.cache != nil {
		if raw, err := json.Marshal(videos); err == nil {
			if err := s.cache.Set(ctx, cacheKey, raw, recipeSearchTTL).Err(); err != nil {
				utils.Log.Warnw("cache write failed", "key", cacheKey, "error", err)
			}
		}
	}
	return videos, nil
}

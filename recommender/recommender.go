package recommender

import (
	"context"
	"sort"
	"strings"

	"github.com/Luismorlan/newsreader/model"
	"github.com/Luismorlan/newsreader/newsapi"
	"github.com/Luismorlan/newsreader/store"
	"github.com/Luismorlan/newsreader/utils"
	"github.com/pkg/errors"
)

const (
	defaultCategory = "general"

	candidatePageSize  = 30
	maxRecommendations = 20
	topCategoryCount   = 3
	topSourceCount     = 5

	favoriteCategoryBoost = 10
	favoriteSourceBoost   = 15
	historySourceBoost    = 5
)

var ErrFetchFailed = errors.New("recommendation fetch failed")

// Result is the ranked feed plus the signals used to build it, so clients
// can show why they got these articles.
type Result struct {
	Articles    []model.ScoredArticle `json:"articles"`
	Preferences Signals               `json:"preferences"`
}

type Signals struct {
	Categories []string `json:"categories"`
	Sources    []string `json:"sources"`
}

// Engine ranks fresh headlines for a user from explicit favourites and what
// they read before. It keeps no state between calls.
type Engine struct {
	store store.Store
	news  newsapi.HeadlineFetcher
}

func NewEngine(s store.Store, news newsapi.HeadlineFetcher) *Engine {
	return &Engine{store: s, news: news}
}

func (e *Engine) Recommend(ctx context.Context, userID string) (*Result, error) {
	prefs, err := e.store.GetPreferences(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "fail to load preferences")
	}
	history, err := e.store.ListHistory(ctx, userID, 0)
	if err != nil {
		return nil, errors.Wrap(err, "fail to load history")
	}

	categories := []string{}
	sources := []string{}
	readUrls := map[string]bool{}
	// History comes newest first, walk it oldest first so frequency ties are
	// broken by what was read earlier.
	for i := len(history) - 1; i >= 0; i-- {
		h := history[i]
		category := h.Article.Category
		if category == "" {
			category = defaultCategory
		}
		categories = append(categories, category)
		if h.Article.Source.Name != "" {
			sources = append(sources, strings.ToLower(h.Article.Source.Name))
		}
		readUrls[h.Article.Url] = true
	}
	topCategories := mostFrequent(categories, topCategoryCount)
	topSources := mostFrequent(sources, topSourceCount)

	categoriesToFetch := utils.DedupStrings(prefs.FavoriteCategories, topCategories)
	primaryCategory := defaultCategory
	if len(categoriesToFetch) > 0 {
		primaryCategory = categoriesToFetch[0]
	}

	resp, err := e.news.TopHeadlines(ctx, newsapi.TopHeadlinesParams{
		Category: primaryCategory,
		Language: "en",
		PageSize: candidatePageSize,
	})
	if errors.Is(err, newsapi.ErrMissingAPIKey) {
		return nil, err
	}
	if err != nil {
		return nil, errors.Wrapf(ErrFetchFailed, "category %s: %v", primaryCategory, err)
	}

	favoriteSources := make([]string, 0, len(prefs.FavoriteSources))
	for _, s := range prefs.FavoriteSources {
		favoriteSources = append(favoriteSources, strings.ToLower(s))
	}
	categoryBoost := 0
	if utils.ContainsString(prefs.FavoriteCategories, primaryCategory) {
		categoryBoost = favoriteCategoryBoost
	}

	scored := []model.ScoredArticle{}
	for _, article := range resp.Articles {
		if article.Url == "" || readUrls[article.Url] {
			continue
		}
		source := strings.ToLower(article.Source.Name)
		score := categoryBoost
		if utils.ContainsAnySubstring(source, favoriteSources) {
			score += favoriteSourceBoost
		}
		if utils.ContainsAnySubstring(source, topSources) {
			score += historySourceBoost
		}
		scored = append(scored, model.ScoredArticle{Article: article, RecommendationScore: score})
	}

	// Stable, so ties keep the order the gateway returned.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].RecommendationScore > scored[j].RecommendationScore
	})
	if len(scored) > maxRecommendations {
		scored = scored[:maxRecommendations]
	}

	return &Result{
		Articles:    scored,
		Preferences: Signals{Categories: categoriesToFetch, Sources: topSources},
	}, nil
}

// mostFrequent returns up to n distinct values of items ordered by descending
// count. Equal counts keep first-seen order.
func mostFrequent(items []string, n int) []string {
	counts := map[string]int{}
	distinct := []string{}
	for _, item := range items {
		if counts[item] == 0 {
			distinct = append(distinct, item)
		}
		counts[item]++
	}
	sort.SliceStable(distinct, func(i, j int) bool {
		return counts[distinct[i]] > counts[distinct[j]]
	})
	if len(distinct) > n {
		distinct = distinct[:n]
	}
	return distinct
}

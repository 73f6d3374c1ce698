package model

/*

Article is a snapshot of an external news item, captured when a user views or
bookmarks it. It is never re-fetched, so the stored copy is what the user saw.

The shape follows the NewsAPI article object so that gateway responses can be
stored without translation.

Category: not part of upstream payloads, clients attach it when they know which
feed the article came from. Used to infer favourite categories from history.

*/

type Article struct {
	Source      ArticleSource `json:"source" bson:"source"`
	Author      string        `json:"author,omitempty" bson:"author,omitempty"`
	Title       string        `json:"title" bson:"title"`
	Description string        `json:"description,omitempty" bson:"description,omitempty"`
	Url         string        `json:"url" bson:"url"`
	UrlToImage  string        `json:"urlToImage,omitempty" bson:"urlToImage,omitempty"`
	PublishedAt string        `json:"publishedAt,omitempty" bson:"publishedAt,omitempty"`
	Content     string        `json:"content,omitempty" bson:"content,omitempty"`
	Category    string        `json:"category,omitempty" bson:"category,omitempty"`
}

type ArticleSource struct {
	Id   string `json:"id,omitempty" bson:"id,omitempty"`
	Name string `json:"name" bson:"name"`
}

// ScoredArticle is an Article annotated with its recommendation score.
type ScoredArticle struct {
	Article
	RecommendationScore int `json:"recommendationScore"`
}

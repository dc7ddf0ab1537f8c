package newsapi

import (
	"slices"
	"time"

	"github.com/vietddude/headlines/internal/core/domain"
)

// apiKeyErrorCodes are the upstream codes that mean the credential itself is unusable.
var apiKeyErrorCodes = []string{"apiKeyInvalid", "apiKeyDisabled", "apiKeyExhausted"}

// ArticleDTO is the upstream article shape. It is also what the local cache persists.
type ArticleDTO struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	ImageURL    string     `json:"urlToImage"`
	PublishedAt string     `json:"publishedAt"`
	Author      string     `json:"author"`
	URL         string     `json:"url"`
	Source      *SourceDTO `json:"source"`
}

// SourceDTO is the nested source object of an article.
type SourceDTO struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

// ArticlesResponse is the body of the top-headlines endpoint.
type ArticlesResponse struct {
	Status       string       `json:"status"`
	TotalResults *int         `json:"totalResults,omitempty"`
	Articles     []ArticleDTO `json:"articles"`
	Code         string       `json:"code,omitempty"`
	Message      string       `json:"message,omitempty"`
}

// IsSuccess reports an "ok" status.
func (r *ArticlesResponse) IsSuccess() bool {
	return r.Status == "ok"
}

// IsAPIKeyError reports whether the error code denotes an invalid, disabled or exhausted key.
func (r *ArticlesResponse) IsAPIKeyError() bool {
	return slices.Contains(apiKeyErrorCodes, r.Code)
}

// ToDomain normalizes the DTO into a domain article.
func (d ArticleDTO) ToDomain() domain.Article {
	var sourceName string
	if d.Source != nil {
		sourceName = d.Source.Name
	}
	return domain.Article{
		Title:       d.Title,
		Description: d.Description,
		ImageURL:    d.ImageURL,
		PublishedAt: parseTimestamp(d.PublishedAt),
		Author:      d.Author,
		URL:         d.URL,
		SourceName:  sourceName,
	}
}

// FromDomain builds the DTO persisted for a domain article.
func FromDomain(a domain.Article) ArticleDTO {
	return ArticleDTO{
		Title:       a.Title,
		Description: a.Description,
		ImageURL:    a.ImageURL,
		PublishedAt: a.PublishedAt.UTC().Format(time.RFC3339Nano),
		Author:      a.Author,
		URL:         a.URL,
		Source:      &SourceDTO{Name: a.SourceName},
	}
}

// ToDomainList maps a DTO slice, preserving order. The result is never nil.
func ToDomainList(dtos []ArticleDTO) []domain.Article {
	articles := make([]domain.Article, 0, len(dtos))
	for _, d := range dtos {
		articles = append(articles, d.ToDomain())
	}
	return articles
}

func parseTimestamp(s string) time.Time {
	if s == "" {
		return domain.Epoch
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return domain.Epoch
	}
	return t.UTC()
}

package tmdb

import (
	"fmt"
	"strings"
	"time"

	"github.com/mmcdole/movietracker/internal/domain"
)

// MapResults converts a results page to raw domain items, keeping API order
func MapResults(items []ResultItem, imageBaseURL string) []domain.RawItem {
	out := make([]domain.RawItem, 0, len(items))
	for _, item := range items {
		out = append(out, mapResult(item, imageBaseURL))
	}
	return out
}

func mapResult(item ResultItem, imageBaseURL string) domain.RawItem {
	return domain.RawItem{
		ID:           item.ID,
		Title:        item.Title,
		Name:         item.Name,
		PosterURL:    posterURL(imageBaseURL, item.PosterPath),
		ReleaseDate:  item.ReleaseDate,
		FirstAirDate: item.FirstAirDate,
		MediaType:    item.MediaType,
		Popularity:   item.Popularity,
	}
}

// MapMovie converts a movie detail response
func MapMovie(m MovieResponse, imageBaseURL string) *domain.Details {
	return &domain.Details{
		ExternalID:  m.ID,
		Kind:        domain.KindFilm,
		Title:       m.Title,
		Overview:    m.Overview,
		Tagline:     m.Tagline,
		Status:      m.Status,
		ReleaseDate: m.ReleaseDate,
		Genres:      genreNames(m.Genres),
		Runtime:     time.Duration(m.Runtime) * time.Minute,
		VoteAverage: m.VoteAverage,
		VoteCount:   m.VoteCount,
		PosterURL:   posterURL(imageBaseURL, m.PosterPath),
	}
}

// MapTVShow converts a series detail response.
// Runtime is the first listed episode runtime, if any.
func MapTVShow(s TVShowResponse, imageBaseURL string) *domain.Details {
	var runtime time.Duration
	if len(s.EpisodeRunTime) > 0 {
		runtime = time.Duration(s.EpisodeRunTime[0]) * time.Minute
	}
	return &domain.Details{
		ExternalID:   s.ID,
		Kind:         domain.KindSeries,
		Title:        s.Name,
		Overview:     s.Overview,
		Tagline:      s.Tagline,
		Status:       s.Status,
		ReleaseDate:  s.FirstAirDate,
		Genres:       genreNames(s.Genres),
		Runtime:      runtime,
		SeasonCount:  s.NumberOfSeasons,
		EpisodeCount: s.NumberOfEpisodes,
		VoteAverage:  s.VoteAverage,
		VoteCount:    s.VoteCount,
		PosterURL:    posterURL(imageBaseURL, s.PosterPath),
	}
}

func genreNames(genres []Genre) []string {
	names := make([]string, 0, len(genres))
	for _, g := range genres {
		names = append(names, g.Name)
	}
	return names
}

// posterURL joins the image base and a poster path. No path, no URL.
func posterURL(base, path string) string {
	if path == "" {
		return ""
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}

// WebURL returns the public TMDB page of a movie or series
func WebURL(kind domain.MediaKind, id int64) string {
	return fmt.Sprintf("%s/%s/%d", DefaultWebBaseURL, kind, id)
}

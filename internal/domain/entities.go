package domain

import (
	"fmt"
	"strings"
	"time"
)

// MediaKind distinguishes the two record subtypes sharing one catalog shape
type MediaKind string

const (
	KindFilm   MediaKind = "movie"
	KindSeries MediaKind = "tv"
)

// ParseMediaKind accepts the TMDB media type tags plus a few human aliases
func ParseMediaKind(s string) (MediaKind, error) {
	switch s {
	case "movie", "film":
		return KindFilm, nil
	case "tv", "series", "show":
		return KindSeries, nil
	default:
		return "", fmt.Errorf("unknown media kind: %q", s)
	}
}

// IsFilm reports the boolean discriminator for the kind
func (k MediaKind) IsFilm() bool { return k == KindFilm }

// KindOf maps the boolean discriminator back to a MediaKind
func KindOf(isFilm bool) MediaKind {
	if isFilm {
		return KindFilm
	}
	return KindSeries
}

// ReleaseInfoUnavailable is the subtitle used when no usable date is present
const ReleaseInfoUnavailable = "Release info unavailable"

// CatalogRecord is a normalized catalog item (movie or series)
type CatalogRecord struct {
	ExternalID int64  `json:"externalId" db:"external_id"` // TMDB identifier
	Title      string `json:"title" db:"title"`
	Subtitle   string `json:"subtitle" db:"subtitle"` // Usually the release year
	PosterURL  string `json:"posterUrl" db:"poster_url"`
	IsFilm     bool   `json:"isFilm" db:"is_film"`
}

// Kind returns the record's MediaKind
func (r CatalogRecord) Kind() MediaKind { return KindOf(r.IsFilm) }

// RawItem is one result row as returned by the remote catalog, before normalization.
// Empty strings mean the field was absent in the payload.
type RawItem struct {
	ID           int64
	Title        string // Movies
	Name         string // Series
	PosterURL    string // Resolved against the image base, empty if no poster
	ReleaseDate  string // Movies, YYYY-MM-DD
	FirstAirDate string // Series, YYYY-MM-DD
	MediaType    string // "movie", "tv", "person"...
	Popularity   float64
}

// Normalize folds the movie/series payload variants into one CatalogRecord.
// Only the date field matching the media type is consulted.
func (r RawItem) Normalize() CatalogRecord {
	title := r.Title
	if title == "" {
		title = r.Name
	}

	isFilm := r.MediaType == string(KindFilm)
	date := r.FirstAirDate
	if isFilm {
		date = r.ReleaseDate
	}

	subtitle := ReleaseInfoUnavailable
	if len(date) >= 4 {
		subtitle = date[:4]
	}

	return CatalogRecord{
		ExternalID: r.ID,
		Title:      title,
		Subtitle:   subtitle,
		PosterURL:  r.PosterURL,
		IsFilm:     isFilm,
	}
}

// CachedRecord is a CatalogRecord persisted for exactly one query scope.
// Trending rows have Query == nil, search rows have Page == nil.
type CachedRecord struct {
	CatalogRecord
	Page       *int      `json:"page,omitempty" db:"page"`
	Query      *string   `json:"query,omitempty" db:"search_query"`
	Popularity float64   `json:"popularity" db:"popularity"`
	CachedAt   time.Time `json:"cachedAt" db:"cached_at"`
}

// NewTrendingRecord builds a page-scoped cache row
func NewTrendingRecord(rec CatalogRecord, page int, popularity float64, at time.Time) CachedRecord {
	return CachedRecord{CatalogRecord: rec, Page: &page, Popularity: popularity, CachedAt: at}
}

// NewSearchRecord builds a search-scoped cache row
func NewSearchRecord(rec CatalogRecord, term string, popularity float64, at time.Time) CachedRecord {
	return CachedRecord{CatalogRecord: rec, Query: &term, Popularity: popularity, CachedAt: at}
}

// Key returns the scope this row belongs to
func (c CachedRecord) Key() QueryKey {
	if c.Query != nil {
		return SearchKey(*c.Query)
	}
	if c.Page != nil {
		return TrendingKey(*c.Page)
	}
	return QueryKey{}
}

// Validate checks that the row belongs to exactly one scope and that a
// search scope has a term.
func (c CachedRecord) Validate() error {
	switch {
	case c.Page == nil && c.Query == nil:
		return fmt.Errorf("%w: record %d has no scope", ErrInvalidScope, c.ExternalID)
	case c.Page != nil && c.Query != nil:
		return fmt.Errorf("%w: record %d has both a page and a search term", ErrInvalidScope, c.ExternalID)
	case c.Query != nil && strings.TrimSpace(*c.Query) == "":
		return fmt.Errorf("%w: record %d has a blank search term", ErrInvalidScope, c.ExternalID)
	}
	return nil
}

// QueryKey identifies one cache partition: a trending page or a search term.
// Detail lookups are never cached but use a key for error reporting.
type QueryKey struct {
	Search bool
	Page   int
	Term   string

	DetailsID   int64
	DetailsKind MediaKind
}

func TrendingKey(page int) QueryKey { return QueryKey{Page: page} }
func SearchKey(term string) QueryKey { return QueryKey{Search: true, Term: term} }

func DetailsKey(id int64, kind MediaKind) QueryKey {
	return QueryKey{DetailsID: id, DetailsKind: kind}
}

// IsSearch reports whether the key is search-scoped
func (k QueryKey) IsSearch() bool { return k.Search }

func (k QueryKey) String() string {
	switch {
	case k.DetailsKind != "":
		return fmt.Sprintf("details %s %d", k.DetailsKind, k.DetailsID)
	case k.IsSearch():
		return fmt.Sprintf("search %q", k.Term)
	default:
		return fmt.Sprintf("trending page %d", k.Page)
	}
}

// LikedEntity is a catalog record the user chose to keep
type LikedEntity struct {
	ID string `json:"id" db:"id"` // Local surrogate key (UUID)
	CatalogRecord
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Matches reports whether the entity is the liked copy of (externalID, kind)
func (e LikedEntity) Matches(externalID int64, kind MediaKind) bool {
	return e.ExternalID == externalID && e.Kind() == kind
}

// ToggleState is the membership state a toggle applied
type ToggleState int

const (
	ToggleAdded ToggleState = iota
	ToggleRemoved
)

func (s ToggleState) String() string {
	if s == ToggleAdded {
		return "added"
	}
	return "removed"
}

// LikeNotification describes a liked-set change for the notification side effect
type LikeNotification struct {
	Item  CatalogRecord `json:"item"`
	Liked bool          `json:"liked"`
	At    time.Time     `json:"at"`
}

// Message is the user-facing notification text
func (n LikeNotification) Message() string {
	if n.Liked {
		return fmt.Sprintf("Added %q to liked", n.Item.Title)
	}
	return fmt.Sprintf("Removed %q from liked", n.Item.Title)
}

// Details is the network-only detail view of a movie or series
type Details struct {
	ExternalID   int64
	Kind         MediaKind
	Title        string
	Overview     string
	Tagline      string
	Status       string
	ReleaseDate  string
	Genres       []string
	Runtime      time.Duration // Movies
	SeasonCount  int           // Series
	EpisodeCount int           // Series
	VoteAverage  float64
	VoteCount    int
	PosterURL    string
}

// Year returns the four-digit release year or "" when unknown
func (d Details) Year() string {
	if len(d.ReleaseDate) >= 4 {
		return d.ReleaseDate[:4]
	}
	return ""
}

// Record folds the detail view down to the catalog record liked items store
func (d Details) Record() CatalogRecord {
	subtitle := d.Year()
	if subtitle == "" {
		subtitle = ReleaseInfoUnavailable
	}
	return CatalogRecord{
		ExternalID: d.ExternalID,
		Title:      d.Title,
		Subtitle:   subtitle,
		PosterURL:  d.PosterURL,
		IsFilm:     d.Kind.IsFilm(),
	}
}

// FormattedRuntime returns the runtime in a human-readable format
func (d Details) FormattedRuntime() string {
	if d.Runtime <= 0 {
		return ""
	}
	h := int(d.Runtime.Hours())
	mins := int(d.Runtime.Minutes()) % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, mins)
	}
	return fmt.Sprintf("%dm", mins)
}

package tmdb

// ResultsResponse is the paginated envelope shared by trending/all/day and search/multi
type ResultsResponse struct {
	Page         int          `json:"page"`
	Results      []ResultItem `json:"results"`
	TotalPages   int          `json:"total_pages"`
	TotalResults int          `json:"total_results"`
}

// ResultItem is one movie, series or person row in a results page.
// Nullable fields decode to their zero value.
type ResultItem struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title,omitempty"` // Movies
	Name         string  `json:"name,omitempty"`  // Series and people
	Overview     string  `json:"overview,omitempty"`
	PosterPath   string  `json:"poster_path,omitempty"`
	ReleaseDate  string  `json:"release_date,omitempty"`   // Movies
	FirstAirDate string  `json:"first_air_date,omitempty"` // Series
	MediaType    string  `json:"media_type,omitempty"`
	Popularity   float64 `json:"popularity"`
}

// Genre is a named genre tag
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// MovieResponse matches movie/{id}
type MovieResponse struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	Tagline     string  `json:"tagline"`
	Status      string  `json:"status"`
	ReleaseDate string  `json:"release_date"`
	Runtime     int     `json:"runtime"` // Minutes
	Genres      []Genre `json:"genres"`
	PosterPath  string  `json:"poster_path"`
	VoteAverage float64 `json:"vote_average"`
	VoteCount   int     `json:"vote_count"`
	Popularity  float64 `json:"popularity"`
}

// TVShowResponse matches tv/{id}
type TVShowResponse struct {
	ID               int64   `json:"id"`
	Name             string  `json:"name"`
	Overview         string  `json:"overview"`
	Tagline          string  `json:"tagline"`
	Status           string  `json:"status"`
	FirstAirDate     string  `json:"first_air_date"`
	EpisodeRunTime   []int   `json:"episode_run_time"`
	NumberOfSeasons  int     `json:"number_of_seasons"`
	NumberOfEpisodes int     `json:"number_of_episodes"`
	Genres           []Genre `json:"genres"`
	PosterPath       string  `json:"poster_path"`
	VoteAverage      float64 `json:"vote_average"`
	VoteCount        int     `json:"vote_count"`
	Popularity       float64 `json:"popularity"`
}

// ErrorResponse is the body TMDB sends with non-2xx statuses
type ErrorResponse struct {
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
	Success       bool   `json:"success"`
}

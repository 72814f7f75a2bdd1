package tmdb

// Wire shapes of the TMDB v3 responses used here.

type pageDTO[T any] struct {
	Page         int `json:"page"`
	Results      []T `json:"results"`
	TotalPages   int `json:"total_pages"`
	TotalResults int `json:"total_results"`
}

type movieDTO struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	PosterPath  string  `json:"poster_path"`
	ReleaseDate string  `json:"release_date"`
	VoteAverage float64 `json:"vote_average"`
}

type genreDTO struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type movieDetailsDTO struct {
	ID               int        `json:"id"`
	Title            string     `json:"title"`
	Overview         string     `json:"overview"`
	PosterPath       string     `json:"poster_path"`
	BackdropPath     string     `json:"backdrop_path"`
	ReleaseDate      string     `json:"release_date"`
	VoteAverage      float64    `json:"vote_average"`
	VoteCount        int        `json:"vote_count"`
	Runtime          *int       `json:"runtime"`
	Genres           []genreDTO `json:"genres"`
	Status           string     `json:"status"`
	Tagline          string     `json:"tagline"`
	Budget           int64      `json:"budget"`
	Revenue          int64      `json:"revenue"`
	OriginalLanguage string     `json:"original_language"`
}

type authorDetailsDTO struct {
	Name       string   `json:"name"`
	Username   string   `json:"username"`
	AvatarPath *string  `json:"avatar_path"`
	Rating     *float64 `json:"rating"`
}

type reviewDTO struct {
	ID            string            `json:"id"`
	Author        string            `json:"author"`
	AuthorDetails *authorDetailsDTO `json:"author_details"`
	Content       string            `json:"content"`
	CreatedAt     string            `json:"created_at"`
	URL           string            `json:"url"`
}

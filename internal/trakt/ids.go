package trakt

import "strings"

// MovieIDs is the set of identifiers Trakt reports for a movie. A zero field
// means the identifier is absent.
type MovieIDs struct {
	IMDB  string `json:"imdb"`
	Trakt int64  `json:"trakt"`
	TMDB  int64  `json:"tmdb"`
	Slug  string `json:"slug"`
}

// Matches reports whether any identifier present on both sides is equal.
// Fields are compared in the order imdb, trakt, tmdb, slug; absent fields
// never match each other.
func (m MovieIDs) Matches(other MovieIDs) bool {
	if a, b := strings.TrimSpace(m.IMDB), strings.TrimSpace(other.IMDB); a != "" && a == b {
		return true
	}
	if m.Trakt != 0 && m.Trakt == other.Trakt {
		return true
	}
	if m.TMDB != 0 && m.TMDB == other.TMDB {
		return true
	}
	if a, b := strings.TrimSpace(m.Slug), strings.TrimSpace(other.Slug); a != "" && a == b {
		return true
	}
	return false
}

// Rating is one of the user's movie ratings, 1 to 10.
type Rating struct {
	IDs    MovieIDs
	Rating int
}

// Review is the user's comment on a movie. Text already carries the spoiler
// marker when Spoiler is set.
type Review struct {
	Text    string
	Spoiler bool
}

// SpoilerPrefix marks review text flagged as a spoiler.
const SpoilerPrefix = "[SPOILER] "

// ListEntry is one movie in a sync list. WatchedAt is empty for watchlist entries.
type ListEntry struct {
	WatchedAt string
	IDs       MovieIDs
	Title     string
	Year      int
}

type movieSummary struct {
	Title string   `json:"title"`
	Year  int      `json:"year"`
	IDs   MovieIDs `json:"ids"`
}

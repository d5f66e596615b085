package export

import (
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"trakt2letterboxd/internal/trakt"
)

// Record is one Letterboxd import row. Zero numeric fields are written empty.
type Record struct {
	WatchedDate string
	TMDBID      int64
	IMDBID      string
	Title       string
	Year        int
	Rating10    int
	Review      string
}

var header = []string{"WatchedDate", "tmdbID", "imdbID", "Title", "Year", "Rating10", "Review"}

// Header returns the CSV column names in output order.
func Header() []string {
	return append([]string(nil), header...)
}

// Row renders the record in Header order.
func (r Record) Row() []string {
	return []string{
		r.WatchedDate,
		formatInt(r.TMDBID),
		r.IMDBID,
		r.Title,
		formatInt(int64(r.Year)),
		formatInt(int64(r.Rating10)),
		r.Review,
	}
}

func formatInt(v int64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatInt(v, 10)
}

// Extract joins list entries with ratings and reviews, one record per entry
// in input order. Ratings match loosely on any shared identifier and the first
// matching rating wins; reviews match on tmdb id only.
func Extract(entries []trakt.ListEntry, ratings []trakt.Rating, reviews map[int64]trakt.Review) []Record {
	records := make([]Record, 0, len(entries))
	for _, entry := range entries {
		record := Record{
			WatchedDate: watchedDate(entry.WatchedAt),
			TMDBID:      entry.IDs.TMDB,
			IMDBID:      strings.TrimSpace(entry.IDs.IMDB),
			Title:       entry.Title,
			Year:        entry.Year,
			Rating10:    findRating(ratings, entry.IDs),
		}
		if entry.IDs.TMDB != 0 {
			if review, ok := reviews[entry.IDs.TMDB]; ok {
				record.Review = review.Text
			}
		}
		records = append(records, record)
	}
	return records
}

func findRating(ratings []trakt.Rating, ids trakt.MovieIDs) int {
	for _, rating := range ratings {
		if rating.IDs.Matches(ids) {
			return rating.Rating
		}
	}
	return 0
}

var watchedLayouts = []string{time.RFC3339Nano, time.DateTime, time.DateOnly}

// watchedDate renders a Trakt timestamp as YYYY-MM-DD in the timestamp's own
// offset, passing through values it cannot parse.
func watchedDate(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	for _, layout := range watchedLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts.Format(time.DateOnly)
		}
	}
	return value
}

// Recent returns at most the first n records. n <= 0 yields nil.
func Recent(records []Record, n int) []Record {
	if n <= 0 {
		return nil
	}
	if len(records) <= n {
		return records
	}
	return records[:n]
}

// Label returns a display name for a Trakt list, e.g. "Watchlist".
func Label(list string) string {
	return cases.Title(language.English).String(strings.TrimSpace(list))
}

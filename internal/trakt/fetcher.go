package trakt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"trakt2letterboxd/internal/logging"
)

const (
	ratingsPath  = "/sync/ratings/movies"
	commentsPath = "/users/me/comments/all/movies"
)

// Fetcher reads the user's data from Trakt with an authenticated Session.
type Fetcher struct {
	client *Client
	store  TokenStore
	logger *slog.Logger
}

// NewFetcher builds a Fetcher. store is cleared when Trakt rejects the session.
func NewFetcher(client *Client, store TokenStore, logger *slog.Logger) *Fetcher {
	return &Fetcher{
		client: client,
		store:  store,
		logger: logger,
	}
}

type ratingItem struct {
	Rating int          `json:"rating"`
	Movie  movieSummary `json:"movie"`
}

type commentItem struct {
	Comment json.RawMessage `json:"comment"`
	Spoiler bool            `json:"spoiler"`
	Movie   movieSummary    `json:"movie"`
}

type commentBody struct {
	Comment string `json:"comment"`
	Spoiler bool   `json:"spoiler"`
}

type listItem struct {
	WatchedAt string       `json:"watched_at"`
	Movie     movieSummary `json:"movie"`
}

// Ratings returns every movie rating in the order Trakt reports them.
func (f *Fetcher) Ratings(ctx context.Context, sess *Session) ([]Rating, error) {
	logger := f.log(ctx)

	var items []ratingItem
	if _, err := f.client.do(ctx, apiRequest{
		method: http.MethodGet,
		path:   ratingsPath,
		token:  sess.accessToken(),
	}, &items); err != nil {
		return nil, f.authenticatedFailure(ctx, fmt.Errorf("fetch ratings: %w", err))
	}

	ratings := make([]Rating, 0, len(items))
	for _, item := range items {
		ratings = append(ratings, Rating{IDs: item.Movie.IDs, Rating: item.Rating})
	}
	logger.Info("ratings fetched", logging.Int("count", len(ratings)))
	return ratings, nil
}

// Reviews collects the user's movie comments keyed by tmdb id. Pagination
// stops at an empty page or a 404; any other failure ends collection early and
// returns what was gathered.
func (f *Fetcher) Reviews(ctx context.Context, sess *Session) map[int64]Review {
	logger := f.log(ctx)
	reviews := make(map[int64]Review)

	for page := 1; ; page++ {
		var items []commentItem
		count, err := f.client.getPage(ctx, sess, commentsPath, page, &items)
		if err != nil {
			if StatusCode(err) == http.StatusNotFound {
				logger.Debug("comments exhausted", logging.Int(logging.FieldPage, page))
				break
			}
			logger.Warn("comment fetch stopped early; continuing with partial reviews",
				logging.Int(logging.FieldPage, page),
				logging.Int(logging.FieldStatus, StatusCode(err)),
				logging.Int("collected", len(reviews)),
				logging.Error(err),
			)
			break
		}
		if len(items) == 0 {
			break
		}

		for _, item := range items {
			tmdb := item.Movie.IDs.TMDB
			if tmdb == 0 {
				continue
			}
			reviews[tmdb] = item.review()
		}
		logger.Info("comments page fetched",
			logging.Int(logging.FieldPage, page),
			logging.Int("page_count", count),
			logging.Int("items", len(items)),
		)
		if count > 0 && page >= count {
			break
		}
	}
	return reviews
}

// List returns every movie entry of the named sync list ("history" or
// "watchlist"). Any failure is returned; a 401 or 403 also clears the cache.
func (f *Fetcher) List(ctx context.Context, sess *Session, name string) ([]ListEntry, error) {
	logger := f.log(ctx).With(logging.String(logging.FieldList, name))
	path := "/sync/" + name + "/movies"

	var entries []ListEntry
	for page := 1; ; page++ {
		var items []listItem
		count, err := f.client.getPage(ctx, sess, path, page, &items)
		if err != nil {
			err = fmt.Errorf("fetch %s page %d: %w", name, page, err)
			if !isAuthRejection(err) && ctx.Err() == nil {
				err = fmt.Errorf("%w; re-run, and run 'trakt2letterboxd auth login' if it persists", err)
			}
			return nil, f.authenticatedFailure(ctx, err)
		}
		if len(items) == 0 {
			break
		}

		for _, item := range items {
			entries = append(entries, ListEntry{
				WatchedAt: strings.TrimSpace(item.WatchedAt),
				IDs:       item.Movie.IDs,
				Title:     item.Movie.Title,
				Year:      item.Movie.Year,
			})
		}
		logger.Info("list page fetched",
			logging.Int(logging.FieldPage, page),
			logging.Int("page_count", count),
			logging.Int("items", len(items)),
		)
		if count > 0 && page >= count {
			break
		}
	}
	return entries, nil
}

// authenticatedFailure clears the credential cache when Trakt rejected the
// access token and tags err accordingly.
func (f *Fetcher) authenticatedFailure(ctx context.Context, err error) error {
	if !isAuthRejection(err) {
		return err
	}
	logger := f.log(ctx)
	logger.Warn("access token rejected; clearing cached credential", logging.Int(logging.FieldStatus, StatusCode(err)))
	if f.store != nil {
		if clearErr := f.store.Clear(); clearErr != nil {
			logger.Warn("failed to clear cached credential", logging.Error(clearErr))
		}
	}
	return fmt.Errorf("%w: %w", ErrCredentialRevoked, err)
}

func (f *Fetcher) log(ctx context.Context) *slog.Logger {
	return logging.WithContext(ctx, logging.NewComponentLogger(f.logger, "fetcher"))
}

// review reads the comment payload, which is either an object carrying its own
// text and spoiler flag or a bare string with the flag beside it.
// A null, absent or otherwise malformed comment yields empty text.
func (c commentItem) review() Review {
	raw := bytes.TrimSpace(c.Comment)
	switch {
	case len(raw) == 0 || bytes.Equal(raw, []byte("null")):
		return newReview("", c.Spoiler)
	case raw[0] == '{':
		var body commentBody
		if err := json.Unmarshal(raw, &body); err == nil {
			return newReview(body.Comment, body.Spoiler || c.Spoiler)
		}
	case raw[0] == '"':
		var text string
		if err := json.Unmarshal(raw, &text); err == nil {
			return newReview(text, c.Spoiler)
		}
	}
	return newReview("", c.Spoiler)
}

func newReview(text string, spoiler bool) Review {
	if spoiler {
		text = SpoilerPrefix + text
	}
	return Review{Text: text, Spoiler: spoiler}
}

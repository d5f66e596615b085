package export

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"trakt2letterboxd/internal/config"
	"trakt2letterboxd/internal/logging"
	"trakt2letterboxd/internal/trakt"
)

// Source is the read side of Trakt the exporter needs.
type Source interface {
	Ratings(ctx context.Context, sess *trakt.Session) ([]trakt.Rating, error)
	Reviews(ctx context.Context, sess *trakt.Session) map[int64]trakt.Review
	List(ctx context.Context, sess *trakt.Session, name string) ([]trakt.ListEntry, error)
}

// Options controls what a Runner writes.
type Options struct {
	OutputDir      string
	Lists          []string
	RecentLimit    int
	IncludeReviews bool
}

// Result describes one output file.
type Result struct {
	List    string
	Label   string
	Path    string
	Records int
	Written bool
}

// Runner fetches the configured lists and writes one CSV per list.
type Runner struct {
	source Source
	opts   Options
	logger *slog.Logger
}

// NewRunner builds a Runner reading from source.
func NewRunner(source Source, opts Options, logger *slog.Logger) *Runner {
	if opts.OutputDir == "" {
		opts.OutputDir = "."
	}
	return &Runner{
		source: source,
		opts:   opts,
		logger: logger,
	}
}

type fetchedList struct {
	name    string
	records []Record
}

// Run fetches ratings, reviews and every list before writing anything, so a
// fatal fetch error leaves no output behind.
func (r *Runner) Run(ctx context.Context, sess *trakt.Session) ([]Result, error) {
	logger := logging.WithContext(ctx, logging.NewComponentLogger(r.logger, "export"))

	ratings, err := r.source.Ratings(ctx, sess)
	if err != nil {
		return nil, err
	}

	var reviews map[int64]trakt.Review
	if r.opts.IncludeReviews {
		reviews = r.source.Reviews(ctx, sess)
		logger.Info("reviews collected", logging.Int("count", len(reviews)))
	}

	fetched := make([]fetchedList, 0, len(r.opts.Lists))
	for _, name := range r.opts.Lists {
		entries, err := r.source.List(ctx, sess, name)
		if err != nil {
			return nil, err
		}
		fetched = append(fetched, fetchedList{name: name, records: Extract(entries, ratings, reviews)})
	}

	results := make([]Result, 0, len(fetched)+1)
	for _, list := range fetched {
		result, err := r.write(list.name, Label(list.name), Path(r.opts.OutputDir, list.name), list.records)
		if err != nil {
			return results, err
		}
		results = append(results, result)
		logger.Info("list exported",
			logging.String(logging.FieldList, list.name),
			logging.Int("records", result.Records),
			logging.String("path", result.Path),
		)

		if list.name == config.ListHistory && r.opts.RecentLimit > 0 {
			recent := Recent(list.records, r.opts.RecentLimit)
			name := fmt.Sprintf("%s-last%d", list.name, r.opts.RecentLimit)
			label := fmt.Sprintf("%s (last %d)", Label(list.name), r.opts.RecentLimit)
			result, err := r.write(name, label, filepath.Join(r.opts.OutputDir, RecentFileName(r.opts.RecentLimit)), recent)
			if err != nil {
				return results, err
			}
			results = append(results, result)
		}
	}
	return results, nil
}

func (r *Runner) write(list, label, path string, records []Record) (Result, error) {
	written, err := WriteCSV(path, records)
	if err != nil {
		return Result{}, err
	}
	return Result{
		List:    list,
		Label:   label,
		Path:    path,
		Records: len(records),
		Written: written,
	}, nil
}

package trakt

import "testing"

func TestMovieIDsMatches(t *testing.T) {
	tests := []struct {
		name string
		a, b MovieIDs
		want bool
	}{
		{"tmdb only", MovieIDs{TMDB: 42}, MovieIDs{TMDB: 42, IMDB: "tt1", Trakt: 7, Slug: "x"}, true},
		{"tmdb despite other mismatches", MovieIDs{TMDB: 42, IMDB: "tt1", Trakt: 1, Slug: "a"}, MovieIDs{TMDB: 42, IMDB: "tt2", Trakt: 2, Slug: "b"}, true},
		{"imdb", MovieIDs{IMDB: "tt0113277"}, MovieIDs{IMDB: "tt0113277", TMDB: 1}, true},
		{"trakt", MovieIDs{Trakt: 9}, MovieIDs{Trakt: 9}, true},
		{"slug", MovieIDs{Slug: "heat-1995"}, MovieIDs{Slug: "heat-1995"}, true},
		{"absent fields never match", MovieIDs{}, MovieIDs{}, false},
		{"blank imdb never matches", MovieIDs{IMDB: " ", TMDB: 1}, MovieIDs{IMDB: "", TMDB: 2}, false},
		{"all different", MovieIDs{IMDB: "tt1", Trakt: 1, TMDB: 1, Slug: "a"}, MovieIDs{IMDB: "tt2", Trakt: 2, TMDB: 2, Slug: "b"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Matches(tt.b); got != tt.want {
				t.Fatalf("Matches = %v, want %v", got, tt.want)
			}
			if got := tt.b.Matches(tt.a); got != tt.want {
				t.Fatalf("Matches is not symmetric for %+v / %+v", tt.a, tt.b)
			}
		})
	}
}

// Package export turns Trakt list entries, ratings and reviews into
// Letterboxd-compatible CSV files.
//
// Extract is a pure join; WriteCSV and the file naming helpers are the only
// parts that touch the filesystem.
package export

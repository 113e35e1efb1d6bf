package cache

import (
	"fmt"
	"time"
)

// key names definition
const (
	MovieShowtimesKey = "movie:%s:showtimes"    // future showtimes of a movie, '%s' is the catalog movie id
	ShowtimeSeatsKey  = "showtime:%d:seats"     // seat map of a showtime, '%d' is showtime id
	MovieDetailsKey   = "tmdb:movie:%s:details" // catalog payload of a movie, '%s' is the catalog movie id
	ShowDetailsKey    = "tmdb:tv:%s:details"    // catalog payload of a TV show, '%s' is the catalog show id
)

// The cache is a display projection over the database; short TTLs keep
// a dropped invalidation from lingering.
const (
	ShowtimeTTL = 1 * time.Minute
	CatalogTTL  = 10 * time.Minute
)

func MakeMovieShowtimesKey(movieID string) string {
	return fmt.Sprintf(MovieShowtimesKey, movieID)
}

func MakeShowtimeSeatsKey(showtimeID uint) string {
	return fmt.Sprintf(ShowtimeSeatsKey, showtimeID)
}

func MakeMovieDetailsKey(movieID string) string {
	return fmt.Sprintf(MovieDetailsKey, movieID)
}

func MakeShowDetailsKey(showID string) string {
	return fmt.Sprintf(ShowDetailsKey, showID)
}

package model

import "time"

// MediaType discriminates the two payload shapes a catalog item can have.
type MediaType string

const (
	MediaTypeMovie = MediaType("movie")
	MediaTypeTV    = MediaType("tv")
)

// FavoriteItem is one entry in a user's favorites list. The payload
// mirrors the catalog item it was created from: movie-shaped items carry
// Title/ReleaseDate, show-shaped items carry Name/FirstAirDate.
// Entries are never mutated in place; replacing one means remove + add.
type FavoriteItem struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title,omitempty"`
	Name         string    `json:"name,omitempty"`
	Overview     string    `json:"overview,omitempty"`
	PosterPath   string    `json:"poster_path,omitempty"`
	BackdropPath string    `json:"backdrop_path,omitempty"`
	ReleaseDate  string    `json:"release_date,omitempty"`
	FirstAirDate string    `json:"first_air_date,omitempty"`
	VoteAverage  float64   `json:"vote_average,omitempty"`
	VoteCount    int       `json:"vote_count,omitempty"`
	GenreIDs     []int     `json:"genre_ids,omitempty"`
	Popularity   float64   `json:"popularity,omitempty"`
	MediaType    MediaType `json:"media_type"`
	AddedAt      time.Time `json:"addedAt"`
}

// ResolveMediaType returns the item's media type tag, inferring it from
// the payload shape when the tag is missing: a movie-only field present
// means movie, anything else is a TV show.
func ResolveMediaType(item FavoriteItem) MediaType {
	switch item.MediaType {
	case MediaTypeMovie, MediaTypeTV:
		return item.MediaType
	}
	if item.Title != "" || item.ReleaseDate != "" {
		return MediaTypeMovie
	}
	return MediaTypeTV
}

// ExportSnapshot is a point-in-time backup of a user's favorites list.
type ExportSnapshot struct {
	UserID     string         `json:"userId"`
	ExportDate time.Time      `json:"exportDate"`
	Favorites  []FavoriteItem `json:"favorites"`
	Count      int            `json:"count"`
}

// Package catalog holds the marketplace records the intelligence layer
// ranks: artworks, artists, and catalogues. The records themselves are owned
// by the persistence layer; this package only defines their read shape.
package catalog

import "time"

// EntityType discriminates the three searchable record kinds.
type EntityType string

const (
	TypeArtwork   EntityType = "artwork"
	TypeArtist    EntityType = "artist"
	TypeCatalogue EntityType = "catalogue"
)

// Dimensions are physical artwork dimensions in centimeters.
type Dimensions struct {
	WidthCM  float64 `json:"width_cm"`
	HeightCM float64 `json:"height_cm"`
}

// Artwork is a sellable piece.
type Artwork struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	ArtistID    string     `json:"artist_id"`
	ArtistName  string     `json:"artist_name"`
	Medium      string     `json:"medium"`
	Genre       string     `json:"genre"`
	Subjects    []string   `json:"subjects,omitempty"`
	Colors      []string   `json:"colors,omitempty"` // dominant palette, hex
	Price       float64    `json:"price"`
	Year        int        `json:"year"`
	Dimensions  Dimensions `json:"dimensions"`
	ImageURL    string     `json:"image_url,omitempty"`
	Views       int        `json:"views"`
	Likes       int        `json:"likes"`
	Saves       int        `json:"saves"`
	Edition     string     `json:"edition,omitempty"` // e.g. "3/10" for scarce editions
	SaleEndsAt  *time.Time `json:"sale_ends_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Artist is a creator profile.
type Artist struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Bio       string    `json:"bio"`
	Mediums   []string  `json:"mediums,omitempty"`
	Genres    []string  `json:"genres,omitempty"`
	ImageURL  string    `json:"image_url,omitempty"`
	Followers int       `json:"followers"`
	CreatedAt time.Time `json:"created_at"`
}

// Catalogue is a curated collection of artworks.
type Catalogue struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Themes      []string  `json:"themes,omitempty"`
	ArtworkIDs  []string  `json:"artwork_ids,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

package models

import (
	"time"

	"gorm.io/gorm"
)

// Song statuses
const (
	SongStatusDemo       = "demo"
	SongStatusRegistered = "registered"
	SongStatusReleased   = "released"
)

// Song is a catalog entry owned by exactly one user. Ownership gates writes;
// delegated contexts may only read, subject to the granted permission set.
type Song struct {
	gorm.Model
	OwnerID uint `gorm:"not null;index" json:"owner_id"`

	Title        string     `gorm:"not null" json:"title"`
	Status       string     `gorm:"not null;default:'demo'" json:"status"` // demo, registered, released
	ISRC         *string    `json:"isrc,omitempty"`
	ISWC         *string    `json:"iswc,omitempty"`
	UPC          *string    `json:"upc,omitempty"`
	Genre        *string    `json:"genre,omitempty"`
	Subgenre     *string    `json:"subgenre,omitempty"`
	Duration     *string    `json:"duration,omitempty"`
	CreationDate *time.Time `json:"creation_date,omitempty"`
	ReleaseDate  *time.Time `json:"release_date,omitempty"`
	Lyrics       *string    `gorm:"type:text" json:"lyrics,omitempty"`
	CoverURL     *string    `json:"cover_url,omitempty"`

	// Relations
	Owner User `json:"-"`
}

package models

import (
	"time"

	"gorm.io/gorm"
)

// User roles. The set is closed and the role is fixed at registration.
const (
	RoleArtist  = "artist"
	RoleManager = "manager"
)

// User represents an account in the system
type User struct {
	gorm.Model

	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	Name         string `gorm:"not null" json:"name"`
	Role         string `gorm:"not null;default:'artist'" json:"role"` // artist, manager

	// Relations
	Profile *ArtistProfile `gorm:"foreignKey:UserID" json:"profile,omitempty"`
	Songs   []Song         `gorm:"foreignKey:OwnerID" json:"songs,omitempty"`
}

// ArtistProfile holds the extended attributes of a user acting as artist.
// One-to-one with User; created at registration for artists or lazily on the
// first profile save / photo upload.
type ArtistProfile struct {
	gorm.Model
	UserID uint `gorm:"uniqueIndex;not null" json:"user_id"`

	ArtistName      *string    `json:"artist_name,omitempty"`
	RealName        *string    `json:"real_name,omitempty"`
	Age             *int       `json:"age,omitempty"`
	SPAMemberNumber *string    `json:"spa_member_number,omitempty"`
	SPACoopNumber   *string    `json:"spa_coop_number,omitempty"`
	IPINumber       *string    `json:"ipi_number,omitempty"`
	AliasIPINumber  *string    `json:"alias_ipi_number,omitempty"`
	Label           *string    `json:"label,omitempty"`
	Distributor     *string    `json:"distributor,omitempty"`
	EmailAlt        *string    `json:"email_alt,omitempty"`
	PhoneNumber     *string    `json:"phone_number,omitempty"`
	SpotifyArtistID *string    `json:"spotify_artist_id,omitempty"`
	IDCardNumber    *string    `json:"id_card_number,omitempty"`
	NIF             *string    `json:"nif,omitempty"`
	IDCardExpiry    *time.Time `json:"id_card_expiry,omitempty"`
	Address         *string    `json:"address,omitempty"`
	PostalCode      *string    `json:"postal_code,omitempty"`
	Birthday        *time.Time `json:"birthday,omitempty"`
	PhotoURL        *string    `json:"photo_url,omitempty"`

	// Relations
	User User `json:"-"`
}

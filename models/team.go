package models

import (
	"errors"

	"gorm.io/gorm"
)

// Permission names one delegated capability. The vocabulary is closed and
// validated whenever a grant is written; everywhere else the tags are stored
// and compared, never interpreted.
type Permission string

const (
	PermViewCatalog  Permission = "view_catalog"
	PermEditCatalog  Permission = "edit_catalog"
	PermViewProfile  Permission = "view_profile"
	PermEditProfile  Permission = "edit_profile"
	PermViewConcerts Permission = "view_concerts"
	PermEditConcerts Permission = "edit_concerts"
	PermViewTeam     Permission = "view_team"
)

// PermissionLabels maps permission tags to display labels. Kept apart from
// the authorization data on purpose; the registry never reads it.
var PermissionLabels = map[Permission]string{
	PermViewCatalog:  "View catalog",
	PermEditCatalog:  "Edit catalog",
	PermViewProfile:  "View profile",
	PermEditProfile:  "Edit profile",
	PermViewConcerts: "View concerts",
	PermEditConcerts: "Edit concerts",
	PermViewTeam:     "View team",
}

// Valid reports whether p belongs to the closed vocabulary.
func (p Permission) Valid() bool {
	switch p {
	case PermViewCatalog, PermEditCatalog, PermViewProfile, PermEditProfile,
		PermViewConcerts, PermEditConcerts, PermViewTeam:
		return true
	}
	return false
}

// PermissionSet is the set of capabilities granted to one delegate.
type PermissionSet []Permission

// Has reports whether the set contains p.
func (s PermissionSet) Has(p Permission) bool {
	for _, granted := range s {
		if granted == p {
			return true
		}
	}
	return false
}

// TeamRoleManager is the only membership role in use.
const TeamRoleManager = "manager"

var (
	ErrMemberExists      = errors.New("membership already exists for this pair")
	ErrNoPermissions     = errors.New("at least one permission is required")
	ErrUnknownPermission = errors.New("unknown permission tag")
	ErrNotDelegate       = errors.New("no delegation exists for this pair")
)

// TeamMember is the durable (artist, manager) delegation record and the
// authorization source of truth for context switches. This layer is
// deliberately friendship-agnostic; the accepted-friendship precondition is
// enforced by the team workflow, not here.
type TeamMember struct {
	gorm.Model
	ArtistID uint `gorm:"not null;index;uniqueIndex:idx_artist_member" json:"artist_id"`
	MemberID uint `gorm:"not null;index;uniqueIndex:idx_artist_member" json:"member_id"`

	Role        string        `gorm:"not null;default:'manager'" json:"role"`
	Permissions PermissionSet `gorm:"serializer:json" json:"permissions"`

	// Relations
	Artist User `json:"-"`
	Member User `json:"-"`
}

// GrantTeamMember creates a delegation with the given permission set. There
// is no upsert: changing permissions means revoke then grant again. The set
// must be non-empty and drawn from the closed vocabulary. A concurrent
// duplicate grant loses on the unique index and surfaces as ErrMemberExists.
func GrantTeamMember(db *gorm.DB, artistID, memberID uint, permissions PermissionSet) (*TeamMember, error) {
	if len(permissions) == 0 {
		return nil, ErrNoPermissions
	}
	for _, p := range permissions {
		if !p.Valid() {
			return nil, ErrUnknownPermission
		}
	}

	var count int64
	if err := db.Model(&TeamMember{}).
		Where("artist_id = ? AND member_id = ?", artistID, memberID).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrMemberExists
	}

	member := TeamMember{
		ArtistID:    artistID,
		MemberID:    memberID,
		Role:        TeamRoleManager,
		Permissions: permissions,
	}
	if err := db.Create(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrMemberExists
		}
		return nil, err
	}
	return &member, nil
}

// RevokeTeamMember deletes the delegation. Unconditionally idempotent:
// absence is success. Hard delete, so the pair can be granted again.
func RevokeTeamMember(db *gorm.DB, artistID, memberID uint) error {
	return db.Unscoped().
		Where("artist_id = ? AND member_id = ?", artistID, memberID).
		Delete(&TeamMember{}).Error
}

// AuthorizeTeamMember is the single check gating context switches. It reads
// current truth on every call so a revoked manager loses access on their next
// context switch even while their identity token is still valid.
func AuthorizeTeamMember(db *gorm.DB, artistID, memberID uint) (PermissionSet, error) {
	var member TeamMember
	err := db.Where("artist_id = ? AND member_id = ?", artistID, memberID).First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotDelegate
		}
		return nil, err
	}
	return member.Permissions, nil
}

// ListTeamByArtist returns the memberships of everyone managing the artist.
func ListTeamByArtist(db *gorm.DB, artistID uint) ([]TeamMember, error) {
	var members []TeamMember
	err := db.Where("artist_id = ?", artistID).
		Order("created_at DESC").
		Find(&members).Error
	return members, err
}

// ListTeamsByManager returns the memberships of every artist the manager
// belongs to.
func ListTeamsByManager(db *gorm.DB, memberID uint) ([]TeamMember, error) {
	var members []TeamMember
	err := db.Where("member_id = ?", memberID).
		Order("created_at DESC").
		Find(&members).Error
	return members, err
}

package models

import (
	"errors"

	"gorm.io/gorm"
)

// Friendship statuses
const (
	FriendshipPending  = "pending"
	FriendshipAccepted = "accepted"
)

var (
	ErrSelfFriend       = errors.New("cannot send a friend request to yourself")
	ErrFriendshipExists = errors.New("a friendship already exists for this pair")
	ErrRequestNotFound  = errors.New("pending friend request not found")
)

// Friendship is a directed request edge between two users, undirected once
// accepted. At most one row exists per unordered pair; rejection deletes the
// row so the same pair can be re-requested later.
//
// The unique index lives on the normalized pair columns, not on the directed
// edge, so mirror-image inserts collide at the database no matter which side
// raced first. RequesterID/ReceiverID keep the orientation.
type Friendship struct {
	gorm.Model
	RequesterID uint `gorm:"not null;index" json:"requester_id"`
	ReceiverID  uint `gorm:"not null;index" json:"receiver_id"`
	PairLowID   uint `gorm:"not null;uniqueIndex:idx_friendship_pair" json:"-"`
	PairHighID  uint `gorm:"not null;uniqueIndex:idx_friendship_pair" json:"-"`

	Status string `gorm:"not null;default:'pending'" json:"status"` // pending, accepted

	// Relations
	Requester User `json:"-"`
	Receiver  User `json:"-"`
}

// BeforeCreate fills the normalized pair columns from the directed edge.
func (f *Friendship) BeforeCreate(*gorm.DB) error {
	f.PairLowID, f.PairHighID = f.RequesterID, f.ReceiverID
	if f.PairLowID > f.PairHighID {
		f.PairLowID, f.PairHighID = f.PairHighID, f.PairLowID
	}
	return nil
}

// RequestFriendship creates a pending edge oriented requester->receiver.
// It fails on self-requests and when any row already exists for the unordered
// pair, in either direction or state. A concurrent duplicate loses on the
// unique index and is reported as ErrFriendshipExists, not a crash.
func RequestFriendship(db *gorm.DB, requesterID, receiverID uint) (*Friendship, error) {
	if requesterID == receiverID {
		return nil, ErrSelfFriend
	}

	var count int64
	if err := db.Model(&Friendship{}).
		Where("(requester_id = ? AND receiver_id = ?) OR (requester_id = ? AND receiver_id = ?)",
			requesterID, receiverID, receiverID, requesterID).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrFriendshipExists
	}

	friendship := Friendship{
		RequesterID: requesterID,
		ReceiverID:  receiverID,
		Status:      FriendshipPending,
	}
	if err := db.Create(&friendship).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrFriendshipExists
		}
		return nil, err
	}
	return &friendship, nil
}

// AcceptFriendship flips a pending request to accepted. Only the receiver may
// accept; a requester trying to accept their own request reads as not found.
func AcceptFriendship(db *gorm.DB, friendshipID, byUserID uint) (*Friendship, error) {
	var friendship Friendship
	err := db.Where("id = ? AND receiver_id = ? AND status = ?",
		friendshipID, byUserID, FriendshipPending).First(&friendship).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}

	friendship.Status = FriendshipAccepted
	if err := db.Save(&friendship).Error; err != nil {
		return nil, err
	}
	return &friendship, nil
}

// RejectFriendship removes the pending row entirely. The hard delete matters:
// a soft-deleted row would still occupy the pair's unique index and block a
// later re-request.
func RejectFriendship(db *gorm.DB, friendshipID, byUserID uint) error {
	res := db.Unscoped().
		Where("id = ? AND receiver_id = ? AND status = ?", friendshipID, byUserID, FriendshipPending).
		Delete(&Friendship{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrRequestNotFound
	}
	return nil
}

// HasAcceptedFriendship reports whether the unordered pair is friends.
func HasAcceptedFriendship(db *gorm.DB, userA, userB uint) (bool, error) {
	var count int64
	err := db.Model(&Friendship{}).
		Where("status = ?", FriendshipAccepted).
		Where("(requester_id = ? AND receiver_id = ?) OR (requester_id = ? AND receiver_id = ?)",
			userA, userB, userB, userA).
		Count(&count).Error
	return count > 0, err
}

// ListFriendships returns every friendship involving the user, newest first.
func ListFriendships(db *gorm.DB, userID uint) ([]Friendship, error) {
	var friendships []Friendship
	err := db.Where("requester_id = ? OR receiver_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&friendships).Error
	return friendships, err
}

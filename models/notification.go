package models

import "gorm.io/gorm"

// Notification types
const (
	NotificationFriendRequest  = "friend_request"
	NotificationFriendAccepted = "friend_accepted"
	NotificationTeamAdded      = "team_added"
)

// Notification is addressed to one user as a side effect of friend-request
// and team-add actions. Delivery and read tracking are not modeled.
type Notification struct {
	gorm.Model
	UserID  uint   `gorm:"not null;index" json:"user_id"`
	Type    string `gorm:"not null" json:"type"`
	Title   string `gorm:"not null" json:"title"`
	Message string `json:"message"`
	Link    string `json:"link"`

	// Relations
	User User `json:"-"`
}

// Notify writes a notification row. Callers run it inside the transaction of
// the action that triggered it so the workflow either completes or fails as
// a whole.
func Notify(db *gorm.DB, userID uint, ntype, title, message, link string) error {
	return db.Create(&Notification{
		UserID:  userID,
		Type:    ntype,
		Title:   title,
		Message: message,
		Link:    link,
	}).Error
}

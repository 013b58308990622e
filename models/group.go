package models

import "time"

// Group is an editorial collection posts can optionally be published into.
// Groups are created by administrators; deleting one detaches its posts
// instead of deleting them.
type Group struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Slug        string    `gorm:"size:200;uniqueIndex;not null" json:"slug"`
	Description string    `gorm:"size:400" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

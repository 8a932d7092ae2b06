package models

import "time"

// VoteWindow is the minimum interval between successive votes on the same post.
const VoteWindow = 24 * time.Hour

// VoteDirection selects which counter a vote increments.
type VoteDirection int

const (
	VoteUp VoteDirection = iota
	VoteDown
)

// Post represents a blog post created by a user. Author carries the username
// denormalized so ownership can be checked against both cookie values.
type Post struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	Author    string     `gorm:"size:64;not null" json:"author"`
	Title     string     `gorm:"size:255;not null" json:"title"`
	Content   string     `gorm:"type:text;not null" json:"content"`
	UpVotes   int        `gorm:"not null;default:0" json:"up_votes"`
	DownVotes int        `gorm:"not null;default:0" json:"down_votes"`
	LastVote  *time.Time `json:"last_vote"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	Comments  []Comment  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"comments"`
}

// VoteEligible reports whether a vote may be cast at the given instant.
// A post that was never voted on is always eligible; otherwise the window
// must have fully elapsed. Up- and down-votes share the same transition.
func (p *Post) VoteEligible(now time.Time) bool {
	if p.LastVote == nil {
		return true
	}
	return now.Sub(*p.LastVote) > VoteWindow
}

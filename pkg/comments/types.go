package comments

import (
	"math"
	"time"
)

type Mode int

const (
	ModeAccepted Mode = 1
	ModePending  Mode = 2
	ModeDeleted  Mode = 4
)

func (m Mode) String() string {
	switch m {
	case ModeAccepted:
		return "accepted"
	case ModePending:
		return "pending"
	case ModeDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// Comment is a comment record as served by the comment service.
type Comment struct {
	ID       int64    `json:"id"`
	Parent   *int64   `json:"parent"`
	Text     string   `json:"text"`
	Mode     Mode     `json:"mode"`
	Hash     string   `json:"hash,omitempty"`
	Author   *string  `json:"author"`
	Website  *string  `json:"website"`
	Likes    int      `json:"likes"`
	Dislikes int      `json:"dislikes"`
	Created  float64  `json:"created"`
	Modified *float64 `json:"modified"`
}

func (c *Comment) IsDeleted() bool {
	if c == nil {
		return false
	}
	return c.Mode == ModeDeleted
}

func (c *Comment) IsPending() bool {
	if c == nil {
		return false
	}
	return c.Mode == ModePending
}

func (c *Comment) CreatedAt() time.Time {
	return unixSeconds(c.Created)
}

// ModifiedAt returns nil for comments that were never edited.
func (c *Comment) ModifiedAt() *time.Time {
	if c.Modified == nil {
		return nil
	}
	t := unixSeconds(*c.Modified)
	return &t
}

// Draft is the payload for a new comment.
type Draft struct {
	Text         string `json:"text"`
	Author       string `json:"author,omitempty"`
	Email        string `json:"email,omitempty"`
	Website      string `json:"website,omitempty"`
	Parent       *int64 `json:"parent,omitempty"`
	Notification int    `json:"notification,omitempty"`
}

// Edit is the payload for modifying an existing comment.
type Edit struct {
	Text    string `json:"text"`
	Author  string `json:"author,omitempty"`
	Website string `json:"website,omitempty"`
}

// Votes is the tally returned after a like or dislike.
type Votes struct {
	Likes    int `json:"likes"`
	Dislikes int `json:"dislikes"`
}

func unixSeconds(ts float64) time.Time {
	sec, frac := math.Modf(ts)
	return time.Unix(int64(sec), int64(frac*float64(time.Second)))
}

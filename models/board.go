package models

import "time"

// BoardStatus separates published boards from drafts.
type BoardStatus string

const (
	BoardStatusActive BoardStatus = "ACTIVE"
	BoardStatusTemp   BoardStatus = "TEMP"
)

// Board is a content article published by a PB.
type Board struct {
	ID         uint        `gorm:"primaryKey" json:"id"`
	PBID       uint        `gorm:"column:pb_id;index;not null" json:"pb_id"`
	Title      string      `gorm:"size:255;not null" json:"title"`
	Content    string      `gorm:"type:text;not null" json:"content"`
	Thumbnail  string      `gorm:"size:1024" json:"thumbnail"`
	Tag1       string      `gorm:"size:64" json:"tag1"`
	Tag2       string      `gorm:"size:64" json:"tag2"`
	ClickCount int64       `gorm:"not null;default:0" json:"click_count"`
	Status     BoardStatus `gorm:"size:16;index;not null" json:"status"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

func (Board) TableName() string { return "boards" }

// BoardBookmark records that a member saved a board. Duplicates per (bookmarker, board) are not prevented.
type BoardBookmark struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	BookmarkerID   uint      `gorm:"index:idx_bookmark_member;not null" json:"bookmarker_id"`
	BookmarkerRole Role      `gorm:"size:8;index:idx_bookmark_member;not null" json:"bookmarker_role"`
	BoardID        uint      `gorm:"index;not null" json:"board_id"`
	CreatedAt      time.Time `json:"created_at"`
}

func (BoardBookmark) TableName() string { return "board_bookmarks" }

// Reply is a comment on a board.
type Reply struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	AuthorID   uint      `gorm:"not null" json:"author_id"`
	AuthorRole Role      `gorm:"size:8;not null" json:"author_role"`
	BoardID    uint      `gorm:"index;not null" json:"board_id"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (Reply) TableName() string { return "replies" }

func (r Reply) Author() (uint, Role) { return r.AuthorID, r.AuthorRole }

// ReReply is a comment on a reply.
type ReReply struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	AuthorID   uint      `gorm:"not null" json:"author_id"`
	AuthorRole Role      `gorm:"size:8;not null" json:"author_role"`
	ReplyID    uint      `gorm:"index;not null" json:"reply_id"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (ReReply) TableName() string { return "re_replies" }

func (r ReReply) Author() (uint, Role) { return r.AuthorID, r.AuthorRole }

package models

import (
	"time"
)

// UserPropensity is an investor's declared risk profile.
type UserPropensity string

const (
	PropensityConservative   UserPropensity = "CONSERVATIVE"
	PropensityCautious       UserPropensity = "CAUTIOUS"
	PropensityBalanced       UserPropensity = "BALANCED"
	PropensityAggressive     UserPropensity = "AGGRESSIVE"
	PropensityVeryAggressive UserPropensity = "VERY_AGGRESSIVE"
)

// User represents an investor account.
type User struct {
	ID                   uint            `gorm:"primaryKey" json:"id"`
	Email                string          `gorm:"size:255;not null" json:"email"`
	Name                 string          `gorm:"size:64;not null" json:"name"`
	PhoneNumber          string          `gorm:"size:32" json:"phone_number"`
	Propensity           *UserPropensity `gorm:"size:32" json:"propensity"`
	HasDoneBoardBookmark bool            `gorm:"not null;default:false" json:"has_done_board_bookmark"`
	Admin                bool            `gorm:"not null;default:false" json:"admin"`
	Profile              string          `gorm:"size:512" json:"profile"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

func (User) TableName() string { return "users" }

func (u User) MemberID() uint   { return u.ID }
func (u User) MemberRole() Role { return RoleUser }

package models

import "time"

// Notice is an announcement managed from the back office.
type Notice struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Notice) TableName() string { return "notices" }

// FrequentQuestion is an FAQ entry.
type FrequentQuestion struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Label     string    `gorm:"size:64;not null" json:"label"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (FrequentQuestion) TableName() string { return "frequent_questions" }

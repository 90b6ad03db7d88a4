package models

import "time"

type ReservationType string

const (
	ReservationVisit ReservationType = "VISIT"
	ReservationCall  ReservationType = "CALL"
)

type LocationType string

const (
	LocationBranch LocationType = "BRANCH"
	LocationCall   LocationType = "CALL"
)

type ReservationGoal string

const (
	GoalProfit  ReservationGoal = "PROFIT"
	GoalRisk    ReservationGoal = "RISK"
	GoalTax     ReservationGoal = "TAX"
	GoalPension ReservationGoal = "PENSION"
	GoalEtc     ReservationGoal = "ETC"
)

// ReservationProcess is the consultation lifecycle stage.
type ReservationProcess string

const (
	ProcessApply    ReservationProcess = "APPLY"
	ProcessConfirm  ReservationProcess = "CONFIRM"
	ProcessComplete ReservationProcess = "COMPLETE"
	ProcessCancel   ReservationProcess = "CANCEL"
)

// Reservation is a consultation request from a user to a PB.
type Reservation struct {
	ID              uint               `gorm:"primaryKey" json:"id"`
	UserID          uint               `gorm:"index;not null" json:"user_id"`
	PBID            uint               `gorm:"column:pb_id;index;not null" json:"pb_id"`
	Type            ReservationType    `gorm:"size:16;not null" json:"type"`
	LocationType    LocationType       `gorm:"size:16" json:"location_type"`
	LocationName    string             `gorm:"size:255" json:"location_name"`
	LocationAddress string             `gorm:"size:255" json:"location_address"`
	CandidateTime1  time.Time          `json:"candidate_time1"`
	CandidateTime2  time.Time          `json:"candidate_time2"`
	Time            *time.Time         `json:"time"`
	Question        string             `gorm:"size:1000" json:"question"`
	Goal1           ReservationGoal    `gorm:"size:16;not null" json:"goal1"`
	Goal2           ReservationGoal    `gorm:"size:16" json:"goal2"`
	Process         ReservationProcess `gorm:"size:16;index;not null" json:"process"`
	UserName        string             `gorm:"size:64" json:"user_name"`
	UserPhoneNumber string             `gorm:"size:32" json:"user_phone_number"`
	UserEmail       string             `gorm:"size:255" json:"user_email"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

func (Reservation) TableName() string { return "reservations" }

// Review is a user's rating of a completed consultation.
type Review struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	ReservationID uint      `gorm:"uniqueIndex;not null" json:"reservation_id"`
	Adherence     string    `gorm:"size:16" json:"adherence"`
	Content       string    `gorm:"type:text" json:"content"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (Review) TableName() string { return "reviews" }

// Style is a tag a reviewer attaches to a review.
type Style struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	ReviewID uint   `gorm:"index;not null" json:"review_id"`
	Style    string `gorm:"size:32;not null" json:"style"`
}

func (Style) TableName() string { return "styles" }

package models

import "time"

// PBStatus tracks the approval state of a PB account.
type PBStatus string

const (
	PBStatusPending PBStatus = "PENDING"
	PBStatusActive  PBStatus = "ACTIVE"
)

// PBSpeciality is an investment area a PB advertises.
type PBSpeciality string

const (
	SpecialityBond        PBSpeciality = "BOND"
	SpecialityUSStock     PBSpeciality = "US_STOCK"
	SpecialityKoreanStock PBSpeciality = "KOREAN_STOCK"
	SpecialityFund        PBSpeciality = "FUND"
	SpecialityDerivative  PBSpeciality = "DERIVATIVE"
	SpecialityETF         PBSpeciality = "ETF"
	SpecialityWrap        PBSpeciality = "WRAP"
	SpecialityEtc         PBSpeciality = "ETC"
)

// PB is a private banker (financial advisor) account.
type PB struct {
	ID            uint          `gorm:"primaryKey" json:"id"`
	Email         string        `gorm:"size:255;not null" json:"email"`
	Name          string        `gorm:"size:64;not null" json:"name"`
	PhoneNumber   string        `gorm:"size:32" json:"phone_number"`
	Profile       string        `gorm:"size:512" json:"profile"`
	BranchID      uint          `gorm:"index;not null" json:"branch_id"`
	Speciality1   PBSpeciality  `gorm:"size:32;not null" json:"speciality1"`
	Speciality2   *PBSpeciality `gorm:"size:32" json:"speciality2"`
	Career        int           `json:"career"`
	Intro         string        `gorm:"size:1000" json:"intro"`
	ConsultStart  string        `gorm:"size:5" json:"consult_start"` // HH:MM
	ConsultEnd    string        `gorm:"size:5" json:"consult_end"`
	ConsultNotice string        `gorm:"size:1000" json:"consult_notice"`
	Status        PBStatus      `gorm:"size:16;index;not null" json:"status"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

func (PB) TableName() string { return "pbs" }

func (p PB) MemberID() uint   { return p.ID }
func (p PB) MemberRole() Role { return RolePB }

// Approve moves a pending PB to active.
func (p *PB) Approve() {
	p.Status = PBStatusActive
}

// Company is a securities firm PBs belong to.
type Company struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:128;not null" json:"name"`
	Logo      string    `gorm:"size:512" json:"logo"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Company) TableName() string { return "companies" }

// Branch is an office of a company. Online-only branches have no address or coordinates.
type Branch struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	CompanyID     uint      `gorm:"index;not null" json:"company_id"`
	Name          string    `gorm:"size:128;not null" json:"name"`
	RoadAddress   string    `gorm:"size:255" json:"road_address"`
	StreetAddress string    `gorm:"size:255" json:"street_address"`
	Latitude      string    `gorm:"size:32" json:"latitude"`
	Longitude     string    `gorm:"size:32" json:"longitude"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (Branch) TableName() string { return "branches" }

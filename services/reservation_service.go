package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/moneybridge/moneybridge/models"
	"github.com/moneybridge/moneybridge/utils"
)

// candidateTimeLayout is the local date-time format clients send candidate times in.
const candidateTimeLayout = "2006-01-02T15:04:05"

type ApplyReservationInput struct {
	Goal1           models.ReservationGoal `json:"goal1" validate:"required,oneof=PROFIT RISK TAX PENSION ETC"`
	Goal2           models.ReservationGoal `json:"goal2" validate:"omitempty,oneof=PROFIT RISK TAX PENSION ETC"`
	ReservationType models.ReservationType `json:"reservationType" validate:"required,oneof=VISIT CALL"`
	LocationType    models.LocationType    `json:"locationType" validate:"omitempty,oneof=BRANCH CALL"`
	LocationName    string                 `json:"locationName" validate:"max=255"`
	LocationAddress string                 `json:"locationAddress" validate:"max=255"`
	CandidateTime1  string                 `json:"candidateTime1" validate:"required,datetime=2006-01-02T15:04:05"`
	CandidateTime2  string                 `json:"candidateTime2" validate:"required,datetime=2006-01-02T15:04:05"`
	Question        string                 `json:"question" validate:"max=1000"`
	UserName        string                 `json:"userName" validate:"required,max=64"`
	UserPhoneNumber string                 `json:"userPhoneNumber" validate:"required,numeric,max=32"`
	UserEmail       string                 `json:"userEmail" validate:"required,email"`
}

type PBInfo struct {
	PBName          string `json:"pbName"`
	BranchName      string `json:"branchName"`
	BranchAddress   string `json:"branchAddress"`
	BranchLatitude  string `json:"branchLatitude"`
	BranchLongitude string `json:"branchLongitude"`
}

type ConsultInfo struct {
	ConsultStart string `json:"consultStart"`
	ConsultEnd   string `json:"consultEnd"`
	Notice       string `json:"notice"`
}

type UserInfo struct {
	UserName        string `json:"userName"`
	UserPhoneNumber string `json:"userPhoneNumber"`
	UserEmail       string `json:"userEmail"`
}

// ReservationBase pre-fills the reservation form.
type ReservationBase struct {
	PBInfo      PBInfo      `json:"pbInfo"`
	ConsultInfo ConsultInfo `json:"consultInfo"`
	UserInfo    UserInfo    `json:"userInfo"`
}

// ReservationService lets users request consultations with PBs.
type ReservationService struct {
	db *gorm.DB
}

func NewReservationService(db *gorm.DB) *ReservationService {
	return &ReservationService{db: db}
}

func activePB(tx *gorm.DB, pbID uint) (*models.PB, error) {
	var pb models.PB
	if err := tx.Where("id = ? AND status = ?", pbID, models.PBStatusActive).Take(&pb).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("존재하지 않는 PB입니다.")
		}
		return nil, internal("PB 조회 실패", err)
	}
	return &pb, nil
}

func requireUser(tx *gorm.DB, m models.Member) (*models.User, error) {
	var user models.User
	if m == nil || m.MemberRole() != models.RoleUser {
		return nil, notFound("존재하지 않는 유저입니다.")
	}
	if err := tx.Take(&user, m.MemberID()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("존재하지 않는 유저입니다.")
		}
		return nil, internal("유저 조회 실패", err)
	}
	return &user, nil
}

func (s *ReservationService) GetReservationBase(ctx context.Context, pbID uint, m models.Member) (*ReservationBase, error) {
	db := s.db.WithContext(ctx)
	pb, err := activePB(db, pbID)
	if err != nil {
		return nil, err
	}
	user, err := requireUser(db, m)
	if err != nil {
		return nil, err
	}
	var branch models.Branch
	if err := db.Take(&branch, pb.BranchID).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, internal("지점 조회 실패", err)
	}
	return &ReservationBase{
		PBInfo: PBInfo{
			PBName:          pb.Name,
			BranchName:      branch.Name,
			BranchAddress:   branch.RoadAddress,
			BranchLatitude:  branch.Latitude,
			BranchLongitude: branch.Longitude,
		},
		ConsultInfo: ConsultInfo{
			ConsultStart: pb.ConsultStart,
			ConsultEnd:   pb.ConsultEnd,
			Notice:       pb.ConsultNotice,
		},
		UserInfo: UserInfo{
			UserName:        user.Name,
			UserPhoneNumber: user.PhoneNumber,
			UserEmail:       user.Email,
		},
	}, nil
}

// ApplyReservation files a consultation request in the APPLY stage.
func (s *ReservationService) ApplyReservation(ctx context.Context, pbID uint, m models.Member, in ApplyReservationInput) (uint, error) {
	if err := validateInput(in); err != nil {
		return 0, err
	}
	t1, err := time.ParseInLocation(candidateTimeLayout, in.CandidateTime1, time.Local)
	if err != nil {
		return 0, badRequest("candidateTime1", "잘못된 시간 형식입니다.")
	}
	t2, err := time.ParseInLocation(candidateTimeLayout, in.CandidateTime2, time.Local)
	if err != nil {
		return 0, badRequest("candidateTime2", "잘못된 시간 형식입니다.")
	}

	var reservation models.Reservation
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		pb, err := activePB(tx, pbID)
		if err != nil {
			return err
		}
		user, err := requireUser(tx, m)
		if err != nil {
			return err
		}
		reservation = models.Reservation{
			UserID:          user.ID,
			PBID:            pb.ID,
			Type:            in.ReservationType,
			LocationType:    in.LocationType,
			LocationName:    in.LocationName,
			LocationAddress: in.LocationAddress,
			CandidateTime1:  t1,
			CandidateTime2:  t2,
			Question:        utils.SanitizeText(in.Question),
			Goal1:           in.Goal1,
			Goal2:           in.Goal2,
			Process:         models.ProcessApply,
			UserName:        in.UserName,
			UserPhoneNumber: in.UserPhoneNumber,
			UserEmail:       in.UserEmail,
		}
		if err := tx.Create(&reservation).Error; err != nil {
			return internal("상담 예약 실패", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return reservation.ID, nil
}

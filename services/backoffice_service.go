package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/moneybridge/moneybridge/models"
	"github.com/moneybridge/moneybridge/utils"
)

const (
	noticeCachePrefix = "notice:"
	faqCachePrefix    = "faq:"
	// list pages expire sooner than details
	listCacheTTL = time.Minute
)

// MailTemplates holds the subjects and bodies of PB approval mails.
type MailTemplates struct {
	SubjectApprove string
	MsgApprove     string
	SubjectReject  string
	MsgReject      string
}

// BranchInput registers a branch. An empty address means the branch operates online only.
type BranchInput struct {
	CompanyID uint   `json:"companyId" validate:"required"`
	Name      string `json:"name" validate:"required,max=128"`
	Address   string `json:"address" validate:"max=255"`
}

type NoticeInput struct {
	Title   string `json:"title" validate:"required,max=255"`
	Content string `json:"content" validate:"required"`
}

type FAQInput struct {
	Label   string `json:"label" validate:"required,max=64"`
	Title   string `json:"title" validate:"required,max=255"`
	Content string `json:"content" validate:"required"`
}

type MemberOut struct {
	ID          uint        `json:"id"`
	Email       string      `json:"email"`
	Name        string      `json:"name"`
	PhoneNumber string      `json:"phoneNumber"`
	Role        models.Role `json:"role"`
	IsAdmin     bool        `json:"isAdmin"`
}

type NoticeView struct {
	ID      uint      `json:"id"`
	Title   string    `json:"title"`
	Content string    `json:"content"`
	Date    time.Time `json:"date"`
}

type FAQView struct {
	ID      uint   `json:"id"`
	Label   string `json:"label"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

type PBPendingItem struct {
	ID          uint                 `json:"id" gorm:"column:id"`
	Email       string               `json:"email" gorm:"column:email"`
	Name        string               `json:"name" gorm:"column:name"`
	PhoneNumber string               `json:"phoneNumber" gorm:"column:phone_number"`
	Career      int                  `json:"career" gorm:"column:career"`
	Speciality1 models.PBSpeciality  `json:"speciality1" gorm:"column:speciality1"`
	Speciality2 *models.PBSpeciality `json:"speciality2" gorm:"column:speciality2"`
	BranchName  string               `json:"branchName" gorm:"column:branch_name"`
	CreatedAt   time.Time            `json:"createdAt" gorm:"column:created_at"`
}

type ReservationMember struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
}

type ReviewTotal struct {
	ID        uint     `json:"id"`
	Adherence string   `json:"adherence"`
	Content   string   `json:"content"`
	Styles    []string `json:"styles"`
}

type ReservationTotal struct {
	ID             uint                      `json:"id"`
	Type           models.ReservationType    `json:"type"`
	Process        models.ReservationProcess `json:"process"`
	LocationName   string                    `json:"locationName"`
	CandidateTime1 time.Time                 `json:"candidateTime1"`
	CandidateTime2 time.Time                 `json:"candidateTime2"`
	Time           *time.Time                `json:"time"`
	Goal1          models.ReservationGoal    `json:"goal1"`
	Goal2          models.ReservationGoal    `json:"goal2"`
	Question       string                    `json:"question"`
	User           ReservationMember         `json:"user"`
	PB             ReservationMember         `json:"pb"`
	Review         *ReviewTotal              `json:"review"`
}

type ReservationsCount struct {
	Apply     int64 `json:"apply"`
	Confirm   int64 `json:"confirm"`
	Complete  int64 `json:"complete"`
	Review    int64 `json:"review"`
	PBPending int64 `json:"pbPending"`
}

type MembersCount struct {
	User int64 `json:"user"`
	PB   int64 `json:"pb"`
}

// BackOfficeService is the administrator surface.
type BackOfficeService struct {
	db               *gorm.DB
	storage          utils.Storage
	geocoder         utils.Geocoder
	mailer           utils.Mailer
	cache            *utils.Cache
	templates        MailTemplates
	defaultThumbnail string
}

func NewBackOfficeService(db *gorm.DB, storage utils.Storage, geocoder utils.Geocoder, mailer utils.Mailer,
	cache *utils.Cache, templates MailTemplates, defaultThumbnail string) *BackOfficeService {
	return &BackOfficeService{
		db:               db,
		storage:          storage,
		geocoder:         geocoder,
		mailer:           mailer,
		cache:            cache,
		templates:        templates,
		defaultThumbnail: defaultThumbnail,
	}
}

// AddBranch stores a branch, geocoding its address when one is given.
func (s *BackOfficeService) AddBranch(ctx context.Context, in BranchInput) error {
	if err := validateInput(in); err != nil {
		return err
	}
	db := s.db.WithContext(ctx)
	if err := db.Select("id").Take(&models.Company{}, in.CompanyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return badRequest("companyId", "없는 증권회사의 id입니다")
		}
		return internal("지점 저장 실패", err)
	}

	branch := models.Branch{CompanyID: in.CompanyID, Name: in.Name}
	if in.Address != "" {
		addr, err := s.geocoder.FullAddress(ctx, in.Address)
		if err != nil {
			return internal("지점 저장 실패", err)
		}
		branch.RoadAddress = addr.RoadAddress
		branch.StreetAddress = addr.StreetAddress
		branch.Latitude = addr.Latitude
		branch.Longitude = addr.Longitude
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&branch).Error
	})
	if err != nil {
		return internal("지점 저장 실패", err)
	}
	return nil
}

// ApprovePB settles a pending PB. Rejection deletes the PB like a withdrawal.
// The decision is committed before the notification mail is sent; a mail failure does not undo it.
func (s *BackOfficeService) ApprovePB(ctx context.Context, pbID uint, approve bool) error {
	var pb models.PB
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Take(&pb, pbID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("존재하지 않는 PB입니다.")
			}
			return internal("PB 조회 실패", err)
		}
		if pb.Status != models.PBStatusPending {
			return badRequest("pbId", "이미 승인 완료된 PB입니다.")
		}
		if !approve {
			if err := purgePB(tx, pb.ID); err != nil {
				return internal("PB 삭제 실패", err)
			}
			return nil
		}
		pb.Approve()
		if err := tx.Model(&models.PB{}).Where("id = ?", pb.ID).Update("status", pb.Status).Error; err != nil {
			return internal("PB 승인 실패", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	subject, body := s.templates.SubjectApprove, s.templates.MsgApprove
	if !approve {
		subject, body = s.templates.SubjectReject, s.templates.MsgReject
	}
	msg, err := s.mailer.CreateMessage(pb.Email, subject, body)
	if err == nil {
		err = s.mailer.Send(msg)
	}
	if err != nil {
		return &Error{Kind: KindInternal, Message: "이메일 알림 전송 실패 " + err.Error(), Err: err}
	}
	return nil
}

// DeleteBoard removes any board with its dependents, then its stored thumbnail.
func (s *BackOfficeService) DeleteBoard(ctx context.Context, id uint) error {
	var board models.Board
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id", "thumbnail").Take(&board, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("존재하지 않는 컨텐츠입니다.")
			}
			return internal("컨텐츠 삭제 실패", err)
		}
		if err := deleteBoardTree(tx, []uint{id}); err != nil {
			return internal("컨텐츠 삭제 실패", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if board.Thumbnail != "" && board.Thumbnail != s.defaultThumbnail {
		if err := s.storage.Delete(ctx, board.Thumbnail); err != nil {
			return internal("썸네일 삭제 실패", err)
		}
	}
	return nil
}

// DeleteReply removes any reply with its re-replies.
func (s *BackOfficeService) DeleteReply(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").Take(&models.Reply{}, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("해당 댓글 찾을 수 없습니다.")
			}
			return internal("댓글 삭제 실패", err)
		}
		if err := deleteReplyTree(tx, []uint{id}); err != nil {
			return internal("댓글 삭제 실패", err)
		}
		return nil
	})
}

func (s *BackOfficeService) DeleteReReply(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.ReReply{}, id)
		if res.Error != nil {
			return internal("대댓글 삭제 실패", res.Error)
		}
		if res.RowsAffected == 0 {
			return notFound("해당 대댓글 찾을 수 없습니다.")
		}
		return nil
	})
}

// ForceWithdraw deletes a member and everything that references them.
func (s *BackOfficeService) ForceWithdraw(ctx context.Context, memberID uint, role models.Role) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		kind, err := requireMember(tx, models.Principal{ID: memberID, Role: role})
		if err != nil {
			return err
		}
		if err := kind.purge(tx, memberID); err != nil {
			return internal("회원 탈퇴 실패", err)
		}
		return nil
	})
}

func (s *BackOfficeService) AuthorizeAdmin(ctx context.Context, userID uint, admin bool) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").Take(&models.User{}, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("존재하지 않는 투자자입니다.")
			}
			return internal("권한 변경 실패", err)
		}
		if err := tx.Model(&models.User{}).Where("id = ?", userID).Update("admin", admin).Error; err != nil {
			return internal("권한 변경 실패", err)
		}
		return nil
	})
}

// GetMembers lists users when kind is "user", otherwise active PBs.
func (s *BackOfficeService) GetMembers(ctx context.Context, kind string, p PageRequest) (Page[MemberOut], error) {
	p = p.normalize()
	db := s.db.WithContext(ctx)
	var total int64
	items := []MemberOut{}

	if kind == "user" {
		var users []models.User
		if err := db.Model(&models.User{}).Count(&total).Error; err != nil {
			return Page[MemberOut]{}, listFailed(err)
		}
		if err := db.Order("id DESC").Offset(p.offset()).Limit(p.Size).Find(&users).Error; err != nil {
			return Page[MemberOut]{}, listFailed(err)
		}
		for _, u := range users {
			items = append(items, MemberOut{ID: u.ID, Email: u.Email, Name: u.Name, PhoneNumber: u.PhoneNumber, Role: models.RoleUser, IsAdmin: u.Admin})
		}
		return newPage(items, p, total), nil
	}

	var pbs []models.PB
	q := func() *gorm.DB { return db.Model(&models.PB{}).Where("status = ?", models.PBStatusActive) }
	if err := q().Count(&total).Error; err != nil {
		return Page[MemberOut]{}, listFailed(err)
	}
	if err := q().Order("id DESC").Offset(p.offset()).Limit(p.Size).Find(&pbs).Error; err != nil {
		return Page[MemberOut]{}, listFailed(err)
	}
	for _, pb := range pbs {
		items = append(items, MemberOut{ID: pb.ID, Email: pb.Email, Name: pb.Name, PhoneNumber: pb.PhoneNumber, Role: models.RolePB})
	}
	return newPage(items, p, total), nil
}

func (s *BackOfficeService) GetMembersCount(ctx context.Context) (*MembersCount, error) {
	db := s.db.WithContext(ctx)
	var out MembersCount
	if err := db.Model(&models.User{}).Count(&out.User).Error; err != nil {
		return nil, listFailed(err)
	}
	if err := db.Model(&models.PB{}).Where("status = ?", models.PBStatusActive).Count(&out.PB).Error; err != nil {
		return nil, listFailed(err)
	}
	return &out, nil
}

// GetPBPending lists PBs waiting for approval with their branch name.
func (s *BackOfficeService) GetPBPending(ctx context.Context, p PageRequest) (Page[PBPendingItem], error) {
	p = p.normalize()
	q := func() *gorm.DB {
		return s.db.WithContext(ctx).Table("pbs").
			Joins("LEFT JOIN branches ON branches.id = pbs.branch_id").
			Where("pbs.status = ?", models.PBStatusPending)
	}
	var total int64
	if err := q().Count(&total).Error; err != nil {
		return Page[PBPendingItem]{}, listFailed(err)
	}
	var items []PBPendingItem
	err := q().Select("pbs.id, pbs.email, pbs.name, pbs.phone_number, pbs.career, pbs.speciality1, pbs.speciality2, " +
		"pbs.created_at, branches.name AS branch_name").
		Order("pbs.id DESC").Offset(p.offset()).Limit(p.Size).Scan(&items).Error
	if err != nil {
		return Page[PBPendingItem]{}, listFailed(err)
	}
	return newPage(items, p, total), nil
}

func (s *BackOfficeService) GetReservationsCount(ctx context.Context) (*ReservationsCount, error) {
	db := s.db.WithContext(ctx)
	var out ReservationsCount
	for process, dst := range map[models.ReservationProcess]*int64{
		models.ProcessApply:    &out.Apply,
		models.ProcessConfirm:  &out.Confirm,
		models.ProcessComplete: &out.Complete,
	} {
		if err := db.Model(&models.Reservation{}).Where("process = ?", process).Count(dst).Error; err != nil {
			return nil, listFailed(err)
		}
	}
	if err := db.Model(&models.Review{}).Count(&out.Review).Error; err != nil {
		return nil, listFailed(err)
	}
	if err := db.Model(&models.PB{}).Where("status = ?", models.PBStatusPending).Count(&out.PBPending).Error; err != nil {
		return nil, listFailed(err)
	}
	return &out, nil
}

// GetReservations pages through every reservation with its user, PB and review.
func (s *BackOfficeService) GetReservations(ctx context.Context, p PageRequest) (Page[ReservationTotal], error) {
	p = p.normalize()
	db := s.db.WithContext(ctx)
	var total int64
	if err := db.Model(&models.Reservation{}).Count(&total).Error; err != nil {
		return Page[ReservationTotal]{}, listFailed(err)
	}
	var reservations []models.Reservation
	if err := db.Order("id DESC").Offset(p.offset()).Limit(p.Size).Find(&reservations).Error; err != nil {
		return Page[ReservationTotal]{}, listFailed(err)
	}
	if len(reservations) == 0 {
		return newPage([]ReservationTotal{}, p, total), nil
	}

	var userIDs, pbIDs, reservationIDs []uint
	for _, r := range reservations {
		userIDs = append(userIDs, r.UserID)
		pbIDs = append(pbIDs, r.PBID)
		reservationIDs = append(reservationIDs, r.ID)
	}
	var users []models.User
	if err := db.Where("id IN ?", utils.UniqueUint(userIDs)).Find(&users).Error; err != nil {
		return Page[ReservationTotal]{}, listFailed(err)
	}
	var pbs []models.PB
	if err := db.Where("id IN ?", utils.UniqueUint(pbIDs)).Find(&pbs).Error; err != nil {
		return Page[ReservationTotal]{}, listFailed(err)
	}
	var reviews []models.Review
	if err := db.Where("reservation_id IN ?", reservationIDs).Find(&reviews).Error; err != nil {
		return Page[ReservationTotal]{}, listFailed(err)
	}
	reviewIDs := make([]uint, 0, len(reviews))
	for _, rv := range reviews {
		reviewIDs = append(reviewIDs, rv.ID)
	}
	var styles []models.Style
	if len(reviewIDs) > 0 {
		if err := db.Where("review_id IN ?", reviewIDs).Order("id ASC").Find(&styles).Error; err != nil {
			return Page[ReservationTotal]{}, listFailed(err)
		}
	}

	userByID := make(map[uint]models.User, len(users))
	for _, u := range users {
		userByID[u.ID] = u
	}
	pbByID := make(map[uint]models.PB, len(pbs))
	for _, pb := range pbs {
		pbByID[pb.ID] = pb
	}
	stylesByReview := map[uint][]string{}
	for _, st := range styles {
		stylesByReview[st.ReviewID] = append(stylesByReview[st.ReviewID], st.Style)
	}
	reviewByReservation := make(map[uint]*ReviewTotal, len(reviews))
	for _, rv := range reviews {
		st := stylesByReview[rv.ID]
		if st == nil {
			st = []string{}
		}
		reviewByReservation[rv.ReservationID] = &ReviewTotal{ID: rv.ID, Adherence: rv.Adherence, Content: rv.Content, Styles: st}
	}

	items := make([]ReservationTotal, 0, len(reservations))
	for _, r := range reservations {
		u := userByID[r.UserID]
		pb := pbByID[r.PBID]
		items = append(items, ReservationTotal{
			ID:             r.ID,
			Type:           r.Type,
			Process:        r.Process,
			LocationName:   r.LocationName,
			CandidateTime1: r.CandidateTime1,
			CandidateTime2: r.CandidateTime2,
			Time:           r.Time,
			Goal1:          r.Goal1,
			Goal2:          r.Goal2,
			Question:       r.Question,
			User:           ReservationMember{ID: u.ID, Name: u.Name, Email: u.Email, PhoneNumber: u.PhoneNumber},
			PB:             ReservationMember{ID: pb.ID, Name: pb.Name, Email: pb.Email, PhoneNumber: pb.PhoneNumber},
			Review:         reviewByReservation[r.ID],
		})
	}
	return newPage(items, p, total), nil
}

func noticeView(n models.Notice) NoticeView {
	return NoticeView{ID: n.ID, Title: n.Title, Content: n.Content, Date: n.CreatedAt}
}

func faqView(f models.FrequentQuestion) FAQView {
	return FAQView{ID: f.ID, Label: f.Label, Title: f.Title, Content: f.Content}
}

func listKey(prefix string, p PageRequest) string {
	return fmt.Sprintf("%slist:%d:%d", prefix, p.Page, p.Size)
}

func detailKey(prefix string, id uint) string {
	return fmt.Sprintf("%sdetail:%d", prefix, id)
}

func (s *BackOfficeService) GetNotices(ctx context.Context, p PageRequest) (Page[NoticeView], error) {
	p = p.normalize()
	key := listKey(noticeCachePrefix, p)
	var page Page[NoticeView]
	if s.cache.GetJSON(ctx, key, &page) {
		return page, nil
	}

	db := s.db.WithContext(ctx)
	var total int64
	if err := db.Model(&models.Notice{}).Count(&total).Error; err != nil {
		return page, listFailed(err)
	}
	var notices []models.Notice
	if err := db.Order("id DESC").Offset(p.offset()).Limit(p.Size).Find(&notices).Error; err != nil {
		return page, listFailed(err)
	}
	items := make([]NoticeView, 0, len(notices))
	for _, n := range notices {
		items = append(items, noticeView(n))
	}
	page = newPage(items, p, total)
	s.cache.SetJSONFor(ctx, key, page, listCacheTTL)
	return page, nil
}

func (s *BackOfficeService) GetNotice(ctx context.Context, id uint) (*NoticeView, error) {
	key := detailKey(noticeCachePrefix, id)
	var view NoticeView
	if s.cache.GetJSON(ctx, key, &view) {
		return &view, nil
	}
	var n models.Notice
	if err := s.db.WithContext(ctx).Take(&n, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("존재하지 않는 공지사항입니다.")
		}
		return nil, listFailed(err)
	}
	view = noticeView(n)
	s.cache.SetJSON(ctx, key, view)
	return &view, nil
}

func (s *BackOfficeService) AddNotice(ctx context.Context, in NoticeInput) error {
	if err := validateInput(in); err != nil {
		return err
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&models.Notice{Title: in.Title, Content: utils.Sanitize(in.Content)}).Error
	})
	if err != nil {
		return internal("공지사항 저장 실패", err)
	}
	s.cache.InvalidateByPrefix(ctx, noticeCachePrefix)
	return nil
}

func (s *BackOfficeService) UpdateNotice(ctx context.Context, id uint, in NoticeInput) error {
	if err := validateInput(in); err != nil {
		return err
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").Take(&models.Notice{}, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("존재하지 않는 공지사항입니다.")
			}
			return internal("공지사항 수정 실패", err)
		}
		err := tx.Model(&models.Notice{}).Where("id = ?", id).
			Updates(map[string]interface{}{"title": in.Title, "content": utils.Sanitize(in.Content)}).Error
		if err != nil {
			return internal("공지사항 수정 실패", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.cache.InvalidateByPrefix(ctx, noticeCachePrefix)
	return nil
}

func (s *BackOfficeService) DeleteNotice(ctx context.Context, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").Take(&models.Notice{}, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("존재하지 않는 공지사항입니다.")
			}
			return internal("공지사항 삭제 실패", err)
		}
		if err := tx.Delete(&models.Notice{}, id).Error; err != nil {
			return internal("공지사항 삭제 실패", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.cache.InvalidateByPrefix(ctx, noticeCachePrefix)
	return nil
}

func (s *BackOfficeService) GetFAQs(ctx context.Context, p PageRequest) (Page[FAQView], error) {
	p = p.normalize()
	key := listKey(faqCachePrefix, p)
	var page Page[FAQView]
	if s.cache.GetJSON(ctx, key, &page) {
		return page, nil
	}

	db := s.db.WithContext(ctx)
	var total int64
	if err := db.Model(&models.FrequentQuestion{}).Count(&total).Error; err != nil {
		return page, listFailed(err)
	}
	var faqs []models.FrequentQuestion
	if err := db.Order("id DESC").Offset(p.offset()).Limit(p.Size).Find(&faqs).Error; err != nil {
		return page, listFailed(err)
	}
	items := make([]FAQView, 0, len(faqs))
	for _, f := range faqs {
		items = append(items, faqView(f))
	}
	page = newPage(items, p, total)
	s.cache.SetJSONFor(ctx, key, page, listCacheTTL)
	return page, nil
}

func (s *BackOfficeService) GetFAQ(ctx context.Context, id uint) (*FAQView, error) {
	key := detailKey(faqCachePrefix, id)
	var view FAQView
	if s.cache.GetJSON(ctx, key, &view) {
		return &view, nil
	}
	var f models.FrequentQuestion
	if err := s.db.WithContext(ctx).Take(&f, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("존재하지 않는 FAQ입니다.")
		}
		return nil, listFailed(err)
	}
	view = faqView(f)
	s.cache.SetJSON(ctx, key, view)
	return &view, nil
}

func (s *BackOfficeService) AddFAQ(ctx context.Context, in FAQInput) error {
	if err := validateInput(in); err != nil {
		return err
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&models.FrequentQuestion{Label: in.Label, Title: in.Title, Content: utils.Sanitize(in.Content)}).Error
	})
	if err != nil {
		return internal("FAQ 저장 실패", err)
	}
	s.cache.InvalidateByPrefix(ctx, faqCachePrefix)
	return nil
}

func (s *BackOfficeService) UpdateFAQ(ctx context.Context, id uint, in FAQInput) error {
	if err := validateInput(in); err != nil {
		return err
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").Take(&models.FrequentQuestion{}, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("존재하지 않는 FAQ입니다.")
			}
			return internal("FAQ 수정 실패", err)
		}
		err := tx.Model(&models.FrequentQuestion{}).Where("id = ?", id).
			Updates(map[string]interface{}{"label": in.Label, "title": in.Title, "content": utils.Sanitize(in.Content)}).Error
		if err != nil {
			return internal("FAQ 수정 실패", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.cache.InvalidateByPrefix(ctx, faqCachePrefix)
	return nil
}

func (s *BackOfficeService) DeleteFAQ(ctx context.Context, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").Take(&models.FrequentQuestion{}, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("존재하지 않는 FAQ입니다.")
			}
			return internal("FAQ 삭제 실패", err)
		}
		if err := tx.Delete(&models.FrequentQuestion{}, id).Error; err != nil {
			return internal("FAQ 삭제 실패", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.cache.InvalidateByPrefix(ctx, faqCachePrefix)
	return nil
}

package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/moneybridge/moneybridge/models"
	"github.com/moneybridge/moneybridge/utils"
)

const (
	thumbnailFolder = "thumbnail"
	thumbnailSize   = 500
)

// Speciality sets used to recommend boards for an investor propensity.
var (
	conservativeSpecialities = []models.PBSpeciality{
		models.SpecialityBond, models.SpecialityUSStock, models.SpecialityKoreanStock,
		models.SpecialityFund, models.SpecialityDerivative, models.SpecialityETF, models.SpecialityWrap,
	}
	cautiousSpecialities = []models.PBSpeciality{
		models.SpecialityBond, models.SpecialityUSStock, models.SpecialityKoreanStock,
		models.SpecialityFund, models.SpecialityETF, models.SpecialityWrap,
	}
	defaultSpecialities = []models.PBSpeciality{
		models.SpecialityBond, models.SpecialityFund, models.SpecialityWrap,
	}
)

// specialitiesFor returns nil when the user has not declared a propensity.
func specialitiesFor(p *models.UserPropensity) []models.PBSpeciality {
	if p == nil {
		return nil
	}
	switch *p {
	case models.PropensityConservative:
		return conservativeSpecialities
	case models.PropensityCautious:
		return cautiousSpecialities
	default:
		return defaultSpecialities
	}
}

// BoardInput is the body of a new board.
type BoardInput struct {
	Title   string `json:"title" validate:"required,max=255"`
	Content string `json:"content" validate:"required"`
	Tag1    string `json:"tag1" validate:"max=64"`
	Tag2    string `json:"tag2" validate:"max=64"`
}

// BoardUpdateInput edits a board. Status moves a draft to published or back.
type BoardUpdateInput struct {
	Title           string             `json:"title" validate:"required,max=255"`
	Content         string             `json:"content" validate:"required"`
	Tag1            string             `json:"tag1" validate:"max=64"`
	Tag2            string             `json:"tag2" validate:"max=64"`
	DeleteThumbnail bool               `json:"deleteThumbnail"`
	Status          models.BoardStatus `json:"boardStatus" validate:"required,oneof=ACTIVE TEMP"`
}

// ReplyInput is the body of a reply or re-reply.
type ReplyInput struct {
	Content string `json:"content" validate:"required,max=1000"`
}

// BoardPageItem is a board row in listings.
type BoardPageItem struct {
	ID           uint      `json:"id" gorm:"column:id"`
	Title        string    `json:"title" gorm:"column:title"`
	Thumbnail    string    `json:"thumbnail" gorm:"column:thumbnail"`
	Tag1         string    `json:"tag1" gorm:"column:tag1"`
	Tag2         string    `json:"tag2" gorm:"column:tag2"`
	ClickCount   int64     `json:"clickCount" gorm:"column:click_count"`
	CreatedAt    time.Time `json:"createdAt" gorm:"column:created_at"`
	PBID         uint      `json:"pbId" gorm:"column:pb_id"`
	PBName       string    `json:"pbName" gorm:"column:pb_name"`
	CompanyName  string    `json:"companyName" gorm:"column:company_name"`
	CompanyLogo  string    `json:"companyLogo" gorm:"column:company_logo"`
	IsBookmarked bool      `json:"isBookmarked" gorm:"-"`
}

// BoardDetail is the full view of a published board.
type BoardDetail struct {
	ID           uint        `json:"id" gorm:"column:id"`
	Title        string      `json:"title" gorm:"column:title"`
	Content      string      `json:"content" gorm:"column:content"`
	Thumbnail    string      `json:"thumbnail" gorm:"column:thumbnail"`
	Tag1         string      `json:"tag1" gorm:"column:tag1"`
	Tag2         string      `json:"tag2" gorm:"column:tag2"`
	ClickCount   int64       `json:"clickCount" gorm:"column:click_count"`
	CreatedAt    time.Time   `json:"createdAt" gorm:"column:created_at"`
	PBID         uint        `json:"pbId" gorm:"column:pb_id"`
	PBName       string      `json:"pbName" gorm:"column:pb_name"`
	PBProfile    string      `json:"pbProfile" gorm:"column:pb_profile"`
	CompanyName  string      `json:"companyName" gorm:"column:company_name"`
	CompanyLogo  string      `json:"companyLogo" gorm:"column:company_logo"`
	IsBookmarked bool        `json:"isBookmarked" gorm:"-"`
	Replies      []ReplyView `json:"reply" gorm:"-"`
}

// ReplyView is a reply with its author and re-replies.
type ReplyView struct {
	ID            uint          `json:"id"`
	AuthorID      uint          `json:"authorId"`
	AuthorRole    models.Role   `json:"authorRole"`
	AuthorName    string        `json:"name"`
	AuthorProfile string        `json:"profile"`
	Content       string        `json:"content"`
	CreatedAt     time.Time     `json:"createdAt"`
	ReReplies     []ReReplyView `json:"reReply"`
}

type ReReplyView struct {
	ID            uint        `json:"id"`
	AuthorID      uint        `json:"authorId"`
	AuthorRole    models.Role `json:"authorRole"`
	AuthorName    string      `json:"name"`
	AuthorProfile string      `json:"profile"`
	Content       string      `json:"content"`
	CreatedAt     time.Time   `json:"createdAt"`
}

// BoardThumbnail is what anonymous visitors see of a board.
type BoardThumbnail struct {
	Thumbnail string `json:"thumbnail"`
}

// BoardTempItem is a draft in the PB's draft list.
type BoardTempItem struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// BoardEditView loads a board into the editor.
type BoardEditView struct {
	Title     string             `json:"title"`
	Content   string             `json:"content"`
	Tag1      string             `json:"tag1"`
	Tag2      string             `json:"tag2"`
	Thumbnail string             `json:"thumbnail"`
	Status    models.BoardStatus `json:"status"`
}

// BoardService publishes and serves PB content.
type BoardService struct {
	db               *gorm.DB
	storage          utils.Storage
	defaultThumbnail string
}

func NewBoardService(db *gorm.DB, storage utils.Storage, defaultThumbnail string) *BoardService {
	return &BoardService{db: db, storage: storage, defaultThumbnail: defaultThumbnail}
}

const boardListColumns = "boards.id, boards.title, boards.thumbnail, boards.tag1, boards.tag2, " +
	"boards.click_count, boards.created_at, boards.pb_id, pbs.name AS pb_name, " +
	"companies.name AS company_name, companies.logo AS company_logo"

// boardsFrom starts a query over boards joined with their PB, branch and company.
func boardsFrom(db *gorm.DB) *gorm.DB {
	return db.Table("boards").
		Joins("JOIN pbs ON pbs.id = boards.pb_id").
		Joins("LEFT JOIN branches ON branches.id = pbs.branch_id").
		Joins("LEFT JOIN companies ON companies.id = branches.company_id")
}

func (s *BoardService) activeBoards(ctx context.Context) *gorm.DB {
	return boardsFrom(s.db.WithContext(ctx)).Where("boards.status = ?", models.BoardStatusActive)
}

// pageBoards counts and fetches one page. build must return a fresh query each call.
func pageBoards(build func() *gorm.DB, order string, p PageRequest) (Page[BoardPageItem], error) {
	p = p.normalize()
	var total int64
	if err := build().Count(&total).Error; err != nil {
		return Page[BoardPageItem]{}, err
	}
	var items []BoardPageItem
	err := build().Select(boardListColumns).Order(order).Offset(p.offset()).Limit(p.Size).Scan(&items).Error
	if err != nil {
		return Page[BoardPageItem]{}, err
	}
	return newPage(items, p, total), nil
}

func topBoards(q *gorm.DB, order string, n int) ([]BoardPageItem, error) {
	items := []BoardPageItem{}
	err := q.Select(boardListColumns).Order(order).Limit(n).Scan(&items).Error
	return items, err
}

const (
	orderNew = "boards.id DESC"
	orderHot = "boards.click_count DESC, boards.id DESC"
)

// markBookmarked sets IsBookmarked on the items the member has bookmarked.
func (s *BoardService) markBookmarked(ctx context.Context, m models.Member, items []BoardPageItem) error {
	if m == nil || len(items) == 0 {
		return nil
	}
	ids := make([]uint, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID)
	}
	var marked []uint
	err := s.db.WithContext(ctx).Model(&models.BoardBookmark{}).
		Where("bookmarker_id = ? AND bookmarker_role = ? AND board_id IN ?", m.MemberID(), m.MemberRole(), utils.UniqueUint(ids)).
		Pluck("board_id", &marked).Error
	if err != nil {
		return err
	}
	set := utils.UintSet(marked)
	for i := range items {
		_, items[i].IsBookmarked = set[items[i].ID]
	}
	return nil
}

func isBookmarked(tx *gorm.DB, m models.Member, boardID uint) (bool, error) {
	var n int64
	err := tx.Model(&models.BoardBookmark{}).
		Where("bookmarker_id = ? AND bookmarker_role = ? AND board_id = ?", m.MemberID(), m.MemberRole(), boardID).
		Count(&n).Error
	return n > 0, err
}

func listFailed(err error) error {
	return internal("컨텐츠 조회 실패", err)
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// containsPattern builds a LIKE pattern matching text literally; '!' is the escape character.
func containsPattern(text string) string {
	return "%" + likeEscaper.Replace(text) + "%"
}

// SearchBoards matches the search text against board titles and PB names.
func (s *BoardService) SearchBoards(ctx context.Context, search string, p PageRequest) (Page[BoardPageItem], error) {
	pattern := containsPattern(search)
	page, err := pageBoards(func() *gorm.DB {
		return s.activeBoards(ctx).Where("(boards.title LIKE ? ESCAPE '!' OR pbs.name LIKE ? ESCAPE '!')", pattern, pattern)
	}, orderNew, p)
	if err != nil {
		return page, listFailed(err)
	}
	return page, nil
}

func (s *BoardService) SearchBoardsByPBName(ctx context.Context, name string, p PageRequest) (Page[BoardPageItem], error) {
	pattern := containsPattern(name)
	page, err := pageBoards(func() *gorm.DB {
		return s.activeBoards(ctx).Where("pbs.name LIKE ? ESCAPE '!'", pattern)
	}, orderNew, p)
	if err != nil {
		return page, listFailed(err)
	}
	return page, nil
}

func (s *BoardService) GetNewBoards(ctx context.Context, p PageRequest) (Page[BoardPageItem], error) {
	page, err := pageBoards(func() *gorm.DB { return s.activeBoards(ctx) }, orderNew, p)
	if err != nil {
		return page, listFailed(err)
	}
	return page, nil
}

func (s *BoardService) GetHotBoards(ctx context.Context, p PageRequest) (Page[BoardPageItem], error) {
	page, err := pageBoards(func() *gorm.DB { return s.activeBoards(ctx) }, orderHot, p)
	if err != nil {
		return page, listFailed(err)
	}
	return page, nil
}

// GetNewHotContents returns the 2 newest boards followed by the 2 most clicked. The halves may overlap.
func (s *BoardService) GetNewHotContents(ctx context.Context) ([]BoardPageItem, error) {
	newest, err := topBoards(s.activeBoards(ctx), orderNew, 2)
	if err != nil {
		return nil, listFailed(err)
	}
	hottest, err := topBoards(s.activeBoards(ctx), orderHot, 2)
	if err != nil {
		return nil, listFailed(err)
	}
	return append(newest, hottest...), nil
}

// GetLogInNewHotContents is GetNewHotContents with bookmark flags for the member.
func (s *BoardService) GetLogInNewHotContents(ctx context.Context, m models.Member) ([]BoardPageItem, error) {
	items, err := s.GetNewHotContents(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.markBookmarked(ctx, m, items); err != nil {
		return nil, listFailed(err)
	}
	return items, nil
}

// GetTwoBoards returns the 2 newest published boards.
func (s *BoardService) GetTwoBoards(ctx context.Context) ([]BoardPageItem, error) {
	items, err := topBoards(s.activeBoards(ctx), orderNew, 2)
	if err != nil {
		return nil, listFailed(err)
	}
	return items, nil
}

// GetRecommendedBoards picks 2 boards whose PB specialities suit the user's propensity.
func (s *BoardService) GetRecommendedBoards(ctx context.Context, m models.Member) ([]BoardPageItem, error) {
	db := s.db.WithContext(ctx)
	var user models.User
	if err := db.Take(&user, m.MemberID()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("존재하지 않는 유저입니다.")
		}
		return nil, listFailed(err)
	}

	q := s.activeBoards(ctx)
	if set := specialitiesFor(user.Propensity); set != nil {
		q = q.Where("(pbs.speciality1 IN ? OR pbs.speciality2 IN ?)", set, set)
	}
	items, err := topBoards(q, orderNew, 2)
	if err != nil {
		return nil, listFailed(err)
	}
	if err := s.markBookmarked(ctx, user, items); err != nil {
		return nil, listFailed(err)
	}
	return items, nil
}

// GetBoardDetail loads a published board, counts the view and resolves the caller's bookmark.
func (s *BoardService) GetBoardDetail(ctx context.Context, m models.Member, id uint) (*BoardDetail, error) {
	var detail BoardDetail
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := boardsFrom(tx).
			Select("boards.id, boards.title, boards.content, boards.thumbnail, boards.tag1, boards.tag2, "+
				"boards.click_count, boards.created_at, boards.pb_id, pbs.name AS pb_name, pbs.profile AS pb_profile, "+
				"companies.name AS company_name, companies.logo AS company_logo").
			Where("boards.id = ? AND boards.status = ?", id, models.BoardStatusActive).
			Limit(1).
			Scan(&detail)
		if res.Error != nil {
			return internal("컨텐츠 조회 실패", res.Error)
		}
		if res.RowsAffected == 0 {
			return notFound("존재하지 않는 컨텐츠입니다.")
		}

		err := tx.Model(&models.Board{}).Where("id = ?", id).
			UpdateColumn("click_count", gorm.Expr("click_count + ?", 1)).Error
		if err != nil {
			return &Error{Kind: KindInternal, Message: "클릭수 증가 에러", Err: err}
		}
		detail.ClickCount++

		if m != nil {
			if detail.IsBookmarked, err = isBookmarked(tx, m, id); err != nil {
				return internal("컨텐츠 조회 실패", err)
			}
		}
		if detail.Replies, err = loadReplies(tx, id); err != nil {
			return internal("댓글 조회 실패", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &detail, nil
}

// GetBoardThumbnail serves anonymous visitors, who only see the thumbnail.
func (s *BoardService) GetBoardThumbnail(ctx context.Context, id uint) (*BoardThumbnail, error) {
	var board models.Board
	if err := s.db.WithContext(ctx).Select("id", "thumbnail").Take(&board, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("존재하지 않는 컨텐츠입니다.")
		}
		return nil, listFailed(err)
	}
	return &BoardThumbnail{Thumbnail: board.Thumbnail}, nil
}

// GetReplies lists a board's replies, oldest first, each with its re-replies.
func (s *BoardService) GetReplies(ctx context.Context, boardID uint) ([]ReplyView, error) {
	replies, err := loadReplies(s.db.WithContext(ctx), boardID)
	if err != nil {
		return nil, internal("댓글 조회 실패", err)
	}
	return replies, nil
}

type authorInfo struct {
	name    string
	profile string
}

type authorKey struct {
	id   uint
	role models.Role
}

// loadAuthors batch loads names and profiles of users and PBs.
func loadAuthors(tx *gorm.DB, userIDs, pbIDs []uint) (map[authorKey]authorInfo, error) {
	out := map[authorKey]authorInfo{}
	if len(userIDs) > 0 {
		var users []models.User
		if err := tx.Select("id", "name", "profile").Where("id IN ?", utils.UniqueUint(userIDs)).Find(&users).Error; err != nil {
			return nil, err
		}
		for _, u := range users {
			out[authorKey{u.ID, models.RoleUser}] = authorInfo{u.Name, u.Profile}
		}
	}
	if len(pbIDs) > 0 {
		var pbs []models.PB
		if err := tx.Select("id", "name", "profile").Where("id IN ?", utils.UniqueUint(pbIDs)).Find(&pbs).Error; err != nil {
			return nil, err
		}
		for _, p := range pbs {
			out[authorKey{p.ID, models.RolePB}] = authorInfo{p.Name, p.Profile}
		}
	}
	return out, nil
}

func collectAuthor(id uint, role models.Role, userIDs, pbIDs *[]uint) {
	if role == models.RolePB {
		*pbIDs = append(*pbIDs, id)
		return
	}
	*userIDs = append(*userIDs, id)
}

func loadReplies(tx *gorm.DB, boardID uint) ([]ReplyView, error) {
	var replies []models.Reply
	if err := tx.Where("board_id = ?", boardID).Order("id ASC").Find(&replies).Error; err != nil {
		return nil, err
	}
	out := make([]ReplyView, 0, len(replies))
	if len(replies) == 0 {
		return out, nil
	}

	replyIDs := make([]uint, 0, len(replies))
	var userIDs, pbIDs []uint
	for _, r := range replies {
		replyIDs = append(replyIDs, r.ID)
		collectAuthor(r.AuthorID, r.AuthorRole, &userIDs, &pbIDs)
	}
	var reReplies []models.ReReply
	if err := tx.Where("reply_id IN ?", replyIDs).Order("id ASC").Find(&reReplies).Error; err != nil {
		return nil, err
	}
	for _, rr := range reReplies {
		collectAuthor(rr.AuthorID, rr.AuthorRole, &userIDs, &pbIDs)
	}
	authors, err := loadAuthors(tx, userIDs, pbIDs)
	if err != nil {
		return nil, err
	}

	byReply := map[uint][]ReReplyView{}
	for _, rr := range reReplies {
		a := authors[authorKey{rr.AuthorID, rr.AuthorRole}]
		byReply[rr.ReplyID] = append(byReply[rr.ReplyID], ReReplyView{
			ID: rr.ID, AuthorID: rr.AuthorID, AuthorRole: rr.AuthorRole,
			AuthorName: a.name, AuthorProfile: a.profile,
			Content: rr.Content, CreatedAt: rr.CreatedAt,
		})
	}
	for _, r := range replies {
		a := authors[authorKey{r.AuthorID, r.AuthorRole}]
		rrs := byReply[r.ID]
		if rrs == nil {
			rrs = []ReReplyView{}
		}
		out = append(out, ReplyView{
			ID: r.ID, AuthorID: r.AuthorID, AuthorRole: r.AuthorRole,
			AuthorName: a.name, AuthorProfile: a.profile,
			Content: r.Content, CreatedAt: r.CreatedAt, ReReplies: rrs,
		})
	}
	return out, nil
}

// BookmarkBoard records a bookmark. Repeated calls add repeated rows.
func (s *BoardService) BookmarkBoard(ctx context.Context, m models.Member, boardID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").Take(&models.Board{}, boardID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("해당 컨텐츠는 존재하지 않습니다.")
			}
			return internal("북마크 실패", err)
		}
		kind, err := requireMember(tx, m)
		if err != nil {
			return err
		}
		if kind.afterBookmark != nil {
			if err := kind.afterBookmark(tx, m.MemberID()); err != nil {
				return internal("북마크 실패", err)
			}
		}
		bookmark := models.BoardBookmark{
			BookmarkerID:   m.MemberID(),
			BookmarkerRole: m.MemberRole(),
			BoardID:        boardID,
		}
		if err := tx.Create(&bookmark).Error; err != nil {
			return internal("북마크 실패", err)
		}
		return nil
	})
}

// DeleteBookmarkBoard removes one of the member's bookmarks on the board.
func (s *BoardService) DeleteBookmarkBoard(ctx context.Context, m models.Member, boardID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var bookmark models.BoardBookmark
		err := tx.Where("bookmarker_id = ? AND bookmarker_role = ? AND board_id = ?", m.MemberID(), m.MemberRole(), boardID).
			Order("id ASC").Take(&bookmark).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("북마크 되지 않은 컨텐츠입니다")
			}
			return internal("북마크 취소 실패", err)
		}
		if err := tx.Delete(&models.BoardBookmark{}, bookmark.ID).Error; err != nil {
			return internal("북마크 취소 실패", err)
		}
		return nil
	})
}

// GetBookmarkBoards pages through the published boards the member bookmarked.
func (s *BoardService) GetBookmarkBoards(ctx context.Context, m models.Member, p PageRequest) (Page[BoardPageItem], error) {
	if _, err := requireMember(s.db.WithContext(ctx), m); err != nil {
		return Page[BoardPageItem]{}, err
	}
	page, err := pageBoards(func() *gorm.DB {
		bookmarked := s.db.WithContext(ctx).Model(&models.BoardBookmark{}).Select("board_id").
			Where("bookmarker_id = ? AND bookmarker_role = ?", m.MemberID(), m.MemberRole())
		return s.activeBoards(ctx).Where("boards.id IN (?)", bookmarked)
	}, orderNew, p)
	if err != nil {
		return page, listFailed(err)
	}
	for i := range page.Items {
		page.Items[i].IsBookmarked = true
	}
	return page, nil
}

// GetPBBoards pages through one PB's published boards.
func (s *BoardService) GetPBBoards(ctx context.Context, m models.Member, pbID uint, p PageRequest) (Page[BoardPageItem], error) {
	page, err := pageBoards(func() *gorm.DB {
		return s.activeBoards(ctx).Where("boards.pb_id = ?", pbID)
	}, orderNew, p)
	if err != nil {
		return page, listFailed(err)
	}
	if err := s.markBookmarked(ctx, m, page.Items); err != nil {
		return page, listFailed(err)
	}
	return page, nil
}

func (s *BoardService) uploadThumbnail(ctx context.Context, r io.Reader) (string, error) {
	resized, err := utils.ResizeImage(r, thumbnailSize, thumbnailSize)
	if err != nil {
		return "", err
	}
	return s.storage.Upload(ctx, resized, thumbnailFolder)
}

// discardUpload removes an object no board points at. Failures are only logged.
func (s *BoardService) discardUpload(ctx context.Context, url string) {
	if err := s.storage.Delete(ctx, url); err != nil {
		utils.Sugar.Warnf("orphan thumbnail %s: %v", url, err)
	}
}

func requirePB(tx *gorm.DB, m models.Member) (*models.PB, error) {
	var pb models.PB
	if m == nil || m.MemberRole() != models.RolePB {
		return nil, notFound("존재하지 않는 PB 입니다")
	}
	if err := tx.Take(&pb, m.MemberID()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("존재하지 않는 PB 입니다")
		}
		return nil, internal("PB 조회 실패", err)
	}
	return &pb, nil
}

func ownBoard(tx *gorm.DB, pbID, boardID uint) (*models.Board, error) {
	var board models.Board
	if err := tx.Where("id = ? AND pb_id = ?", boardID, pbID).Take(&board).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("존재하지 않는 컨텐츠입니다")
		}
		return nil, internal("컨텐츠 조회 실패", err)
	}
	return &board, nil
}

// SaveBoard creates a board with the given status. A nil thumbnail stores the default image.
func (s *BoardService) SaveBoard(ctx context.Context, m models.Member, in BoardInput, thumbnail io.Reader, status models.BoardStatus) (uint, error) {
	if err := validateInput(in); err != nil {
		return 0, err
	}
	pb, err := requirePB(s.db.WithContext(ctx), m)
	if err != nil {
		return 0, err
	}

	board := models.Board{
		PBID:      pb.ID,
		Title:     utils.SanitizeText(in.Title),
		Content:   utils.Sanitize(in.Content),
		Thumbnail: s.defaultThumbnail,
		Tag1:      utils.SanitizeText(in.Tag1),
		Tag2:      utils.SanitizeText(in.Tag2),
		Status:    status,
	}
	uploaded := false
	if thumbnail != nil {
		url, err := s.uploadThumbnail(ctx, thumbnail)
		if err != nil {
			return 0, internal("컨텐츠 저장 실패", err)
		}
		board.Thumbnail = url
		uploaded = true
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&board).Error
	})
	if err != nil {
		if uploaded {
			s.discardUpload(ctx, board.Thumbnail)
		}
		return 0, internal("컨텐츠 저장 실패", err)
	}
	return board.ID, nil
}

// GetTempBoards lists the PB's drafts, newest first.
func (s *BoardService) GetTempBoards(ctx context.Context, m models.Member) ([]BoardTempItem, error) {
	db := s.db.WithContext(ctx)
	pb, err := requirePB(db, m)
	if err != nil {
		return nil, err
	}
	var boards []models.Board
	if err := db.Where("pb_id = ? AND status = ?", pb.ID, models.BoardStatusTemp).Order("id DESC").Find(&boards).Error; err != nil {
		return nil, listFailed(err)
	}
	out := make([]BoardTempItem, 0, len(boards))
	for _, b := range boards {
		out = append(out, BoardTempItem{ID: b.ID, Title: b.Title, Content: b.Content, CreatedAt: b.CreatedAt})
	}
	return out, nil
}

// GetBoard loads one of the PB's boards, published or draft, for editing.
func (s *BoardService) GetBoard(ctx context.Context, m models.Member, boardID uint) (*BoardEditView, error) {
	db := s.db.WithContext(ctx)
	pb, err := requirePB(db, m)
	if err != nil {
		return nil, err
	}
	board, err := ownBoard(db, pb.ID, boardID)
	if err != nil {
		return nil, err
	}
	return &BoardEditView{
		Title:     board.Title,
		Content:   board.Content,
		Tag1:      board.Tag1,
		Tag2:      board.Tag2,
		Thumbnail: board.Thumbnail,
		Status:    board.Status,
	}, nil
}

// PutBoard edits one of the PB's boards. A new thumbnail wins over DeleteThumbnail.
func (s *BoardService) PutBoard(ctx context.Context, m models.Member, boardID uint, in BoardUpdateInput, thumbnail io.Reader) error {
	if err := validateInput(in); err != nil {
		return err
	}
	db := s.db.WithContext(ctx)
	pb, err := requirePB(db, m)
	if err != nil {
		return err
	}
	board, err := ownBoard(db, pb.ID, boardID)
	if err != nil {
		return err
	}

	// the replaced object is removed only after the row stops pointing at it
	previous := board.Thumbnail
	newThumbnail := previous
	uploaded := false
	switch {
	case thumbnail != nil:
		url, err := s.uploadThumbnail(ctx, thumbnail)
		if err != nil {
			return internal("컨텐츠 업데이트 실패", err)
		}
		newThumbnail = url
		uploaded = true
	case in.DeleteThumbnail:
		newThumbnail = s.defaultThumbnail
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		return tx.Model(&models.Board{}).Where("id = ?", board.ID).Updates(map[string]interface{}{
			"title":     utils.SanitizeText(in.Title),
			"content":   utils.Sanitize(in.Content),
			"tag1":      utils.SanitizeText(in.Tag1),
			"tag2":      utils.SanitizeText(in.Tag2),
			"status":    in.Status,
			"thumbnail": newThumbnail,
		}).Error
	})
	if err != nil {
		if uploaded {
			s.discardUpload(ctx, newThumbnail)
		}
		return internal("컨텐츠 업데이트 실패", err)
	}
	if newThumbnail != previous && previous != s.defaultThumbnail {
		s.discardUpload(ctx, previous)
	}
	return nil
}

// DeleteBoard removes one of the PB's boards with its replies, re-replies and bookmarks.
func (s *BoardService) DeleteBoard(ctx context.Context, m models.Member, boardID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		pb, err := requirePB(tx, m)
		if err != nil {
			return err
		}
		board, err := ownBoard(tx, pb.ID, boardID)
		if err != nil {
			return err
		}
		if err := deleteBoardTree(tx, []uint{board.ID}); err != nil {
			return internal("컨텐츠 삭제 실패", err)
		}
		return nil
	})
}

// SaveReply adds a reply to a published board.
func (s *BoardService) SaveReply(ctx context.Context, m models.Member, boardID uint, in ReplyInput) (uint, error) {
	if err := validateInput(in); err != nil {
		return 0, err
	}
	var reply models.Reply
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := requireMember(tx, m); err != nil {
			return err
		}
		err := tx.Select("id").Where("id = ? AND status = ?", boardID, models.BoardStatusActive).Take(&models.Board{}).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("존재하지 않는 컨텐츠입니다.")
			}
			return internal("댓글 저장 실패", err)
		}
		reply = models.Reply{
			AuthorID:   m.MemberID(),
			AuthorRole: m.MemberRole(),
			BoardID:    boardID,
			Content:    utils.Sanitize(in.Content),
		}
		if err := tx.Create(&reply).Error; err != nil {
			return internal("댓글 저장 실패", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return reply.ID, nil
}

// SaveReReply answers a reply.
func (s *BoardService) SaveReReply(ctx context.Context, m models.Member, replyID uint, in ReplyInput) (uint, error) {
	if err := validateInput(in); err != nil {
		return 0, err
	}
	var reReply models.ReReply
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := requireMember(tx, m); err != nil {
			return err
		}
		if err := tx.Select("id").Take(&models.Reply{}, replyID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("해당 댓글 찾을 수 없습니다.")
			}
			return internal("대댓글 저장 실패", err)
		}
		reReply = models.ReReply{
			AuthorID:   m.MemberID(),
			AuthorRole: m.MemberRole(),
			ReplyID:    replyID,
			Content:    utils.Sanitize(in.Content),
		}
		if err := tx.Create(&reReply).Error; err != nil {
			return internal("대댓글 저장 실패", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return reReply.ID, nil
}

// authoredBy loads the row into dst and checks that m wrote it.
// A foreign author yields NotFound with denyMsg so the row's existence is not confirmed.
func authoredBy(tx *gorm.DB, m models.Member, dst models.Authored, id uint, missingMsg, denyMsg string) error {
	if err := tx.Take(dst, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(missingMsg)
		}
		return internal("조회 실패", err)
	}
	if _, err := requireMember(tx, m); err != nil {
		return err
	}
	if !models.IsAuthor(m, dst) {
		return notFound(denyMsg)
	}
	return nil
}

func (s *BoardService) UpdateReply(ctx context.Context, m models.Member, replyID uint, in ReplyInput) error {
	if err := validateInput(in); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		reply := &models.Reply{}
		if err := authoredBy(tx, m, reply, replyID, "해당 댓글 찾을 수 없습니다.", "잘못된 요청입니다."); err != nil {
			return err
		}
		if err := tx.Model(reply).Update("content", utils.Sanitize(in.Content)).Error; err != nil {
			return internal("댓글 수정 실패", err)
		}
		return nil
	})
}

// DeleteReply removes the caller's reply together with its re-replies.
func (s *BoardService) DeleteReply(ctx context.Context, m models.Member, replyID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		reply := &models.Reply{}
		if err := authoredBy(tx, m, reply, replyID, "해당 댓글 찾을 수 없습니다.", "삭제 권한 없습니다."); err != nil {
			return err
		}
		if err := deleteReplyTree(tx, []uint{reply.ID}); err != nil {
			return internal("댓글 삭제 실패", err)
		}
		return nil
	})
}

func (s *BoardService) UpdateReReply(ctx context.Context, m models.Member, reReplyID uint, in ReplyInput) error {
	if err := validateInput(in); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		reReply := &models.ReReply{}
		if err := authoredBy(tx, m, reReply, reReplyID, "해당 대댓글 찾을 수 없습니다.", "잘못된 요청입니다."); err != nil {
			return err
		}
		if err := tx.Model(reReply).Update("content", utils.Sanitize(in.Content)).Error; err != nil {
			return internal("대댓글 수정 실패", err)
		}
		return nil
	})
}

func (s *BoardService) DeleteReReply(ctx context.Context, m models.Member, reReplyID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		reReply := &models.ReReply{}
		if err := authoredBy(tx, m, reReply, reReplyID, "해당 댓글 찾을 수 없습니다.", "삭제 권한 없습니다."); err != nil {
			return err
		}
		if err := tx.Delete(&models.ReReply{}, reReply.ID).Error; err != nil {
			return internal("대댓글 삭제 실패", err)
		}
		return nil
	})
}

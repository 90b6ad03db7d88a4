package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/moneybridge/moneybridge/models"
	"github.com/moneybridge/moneybridge/utils"
)

const testDefaultThumbnail = "/static/default/thumbnail.png"

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// one connection keeps the in-memory database alive and shared
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

type fakeStorage struct {
	mu        sync.Mutex
	n         int
	uploads   []string
	deleted   []string
	uploadErr error
	deleteErr error
}

func (f *fakeStorage) Upload(_ context.Context, data []byte, folder string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	if len(data) == 0 {
		return "", errors.New("empty upload")
	}
	f.n++
	url := fmt.Sprintf("https://cdn.test/%s/%d.jpg", folder, f.n)
	f.uploads = append(f.uploads, url)
	return url, nil
}

func (f *fakeStorage) Delete(_ context.Context, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, url)
	return nil
}

type fakeMailer struct {
	sent    []*utils.MailMessage
	sendErr error
}

func (f *fakeMailer) CreateMessage(to, subject, body string) (*utils.MailMessage, error) {
	return &utils.MailMessage{From: "noreply@test", To: to, Subject: subject, Body: body}, nil
}

func (f *fakeMailer) Send(msg *utils.MailMessage) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, msg)
	return nil
}

type fakeGeocoder struct {
	calls []string
	addr  *utils.FullAddress
	err   error
}

func (f *fakeGeocoder) FullAddress(_ context.Context, address string) (*utils.FullAddress, error) {
	f.calls = append(f.calls, address)
	if f.err != nil {
		return nil, f.err
	}
	return f.addr, nil
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 40, 30))))
	return buf.Bytes()
}

func seedBranch(t *testing.T, db *gorm.DB) models.Branch {
	t.Helper()
	company := models.Company{Name: "미래에셋", Logo: "https://cdn.test/logo.png"}
	require.NoError(t, db.Create(&company).Error)
	branch := models.Branch{CompanyID: company.ID, Name: "용산WM점", RoadAddress: "서울특별시 용산구 한강대로 92", Latitude: "37.53", Longitude: "126.97"}
	require.NoError(t, db.Create(&branch).Error)
	return branch
}

func seedPB(t *testing.T, db *gorm.DB, branchID uint, name string, status models.PBStatus, spec1 models.PBSpeciality, spec2 *models.PBSpeciality) models.PB {
	t.Helper()
	pb := models.PB{
		Email:        name + "@pb.test",
		Name:         name,
		BranchID:     branchID,
		Speciality1:  spec1,
		Speciality2:  spec2,
		ConsultStart: "09:00",
		ConsultEnd:   "18:00",
		Status:       status,
	}
	require.NoError(t, db.Create(&pb).Error)
	return pb
}

func seedUser(t *testing.T, db *gorm.DB, name string, propensity *models.UserPropensity) models.User {
	t.Helper()
	u := models.User{Email: name + "@user.test", Name: name, PhoneNumber: "01012345678", Propensity: propensity}
	require.NoError(t, db.Create(&u).Error)
	return u
}

func seedBoard(t *testing.T, db *gorm.DB, pbID uint, title string, status models.BoardStatus) models.Board {
	t.Helper()
	b := models.Board{PBID: pbID, Title: title, Content: "본문", Thumbnail: testDefaultThumbnail, Status: status}
	require.NoError(t, db.Create(&b).Error)
	return b
}

func seedReply(t *testing.T, db *gorm.DB, m models.Member, boardID uint) models.Reply {
	t.Helper()
	r := models.Reply{AuthorID: m.MemberID(), AuthorRole: m.MemberRole(), BoardID: boardID, Content: "댓글"}
	require.NoError(t, db.Create(&r).Error)
	return r
}

func seedReReply(t *testing.T, db *gorm.DB, m models.Member, replyID uint) models.ReReply {
	t.Helper()
	rr := models.ReReply{AuthorID: m.MemberID(), AuthorRole: m.MemberRole(), ReplyID: replyID, Content: "대댓글"}
	require.NoError(t, db.Create(&rr).Error)
	return rr
}

func seedBookmark(t *testing.T, db *gorm.DB, m models.Member, boardID uint) {
	t.Helper()
	require.NoError(t, db.Create(&models.BoardBookmark{BookmarkerID: m.MemberID(), BookmarkerRole: m.MemberRole(), BoardID: boardID}).Error)
}

func count(t *testing.T, db *gorm.DB, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	q := db.Model(model)
	if query != "" {
		q = q.Where(query, args...)
	}
	require.NoError(t, q.Count(&n).Error)
	return n
}

func propensity(p models.UserPropensity) *models.UserPropensity { return &p }

func speciality(s models.PBSpeciality) *models.PBSpeciality { return &s }

func requireKind(t *testing.T, err error, kind Kind) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, kind, KindOf(err), "unexpected error: %v", err)
}

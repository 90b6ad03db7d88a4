package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/moneybridge/moneybridge/config"
	"github.com/moneybridge/moneybridge/controllers"
	"github.com/moneybridge/moneybridge/models"
	"github.com/moneybridge/moneybridge/services"
	"github.com/moneybridge/moneybridge/utils"
)

type stubGeocoder struct{}

func (stubGeocoder) FullAddress(_ context.Context, address string) (*utils.FullAddress, error) {
	return &utils.FullAddress{RoadAddress: address, StreetAddress: address, Latitude: "37.5", Longitude: "127.0"}, nil
}

type stubMailer struct{ sent int }

func (m *stubMailer) CreateMessage(to, subject, body string) (*utils.MailMessage, error) {
	return &utils.MailMessage{To: to, Subject: subject, Body: body}, nil
}

func (m *stubMailer) Send(*utils.MailMessage) error {
	m.sent++
	return nil
}

type testServer struct {
	t      *testing.T
	db     *gorm.DB
	engine *gin.Engine
	mailer *stubMailer
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	dir := t.TempDir()
	cfg := config.AppConfig{
		JWTSecret:        "router-test-secret",
		GinMode:          "test",
		GinPath:          filepath.Join(dir, "gin.log"),
		LogLevel:         "error",
		AllowedOrigins:   []string{"*"},
		DBDriver:         "sqlite",
		StorageDriver:    "local",
		LocalUploadDir:   filepath.Join(dir, "uploads"),
		LocalUploadURL:   "/static/uploads",
		DefaultThumbnail: "/static/default/thumbnail.png",
		ServiceName:      "moneybridge-test",
	}
	config.Set(cfg)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(models.All()...))

	storage := utils.NewLocalStorage(cfg.LocalUploadDir, cfg.LocalUploadURL)
	mailer := &stubMailer{}
	engine := SetupRouter(cfg, Controllers{
		Board: controllers.NewBoardController(services.NewBoardService(db, storage, cfg.DefaultThumbnail)),
		BackOffice: controllers.NewBackOfficeController(services.NewBackOfficeService(
			db, storage, stubGeocoder{}, mailer, nil, services.MailTemplates{SubjectApprove: "ok", SubjectReject: "no"}, cfg.DefaultThumbnail)),
		Reservation: controllers.NewReservationController(services.NewReservationService(db)),
	})
	return &testServer{t: t, db: db, engine: engine, mailer: mailer}
}

func (s *testServer) token(p models.Principal) string {
	s.t.Helper()
	tok, err := utils.GenerateToken(p, time.Hour)
	require.NoError(s.t, err)
	return tok
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (s *testServer) do(method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	s.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return s.send(req, token)
}

func (s *testServer) send(req *http.Request, token string) (*httptest.ResponseRecorder, envelope) {
	s.t.Helper()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

func (s *testServer) seed() (models.User, models.User, models.PB, models.Board) {
	s.t.Helper()
	company := models.Company{Name: "미래에셋"}
	require.NoError(s.t, s.db.Create(&company).Error)
	branch := models.Branch{CompanyID: company.ID, Name: "용산WM점"}
	require.NoError(s.t, s.db.Create(&branch).Error)
	pb := models.PB{Email: "kim@pb.test", Name: "kim", BranchID: branch.ID, Speciality1: models.SpecialityBond, Status: models.PBStatusActive}
	require.NoError(s.t, s.db.Create(&pb).Error)
	user := models.User{Email: "lee@user.test", Name: "lee", PhoneNumber: "01012345678"}
	require.NoError(s.t, s.db.Create(&user).Error)
	admin := models.User{Email: "root@user.test", Name: "root", PhoneNumber: "01000000000", Admin: true}
	require.NoError(s.t, s.db.Create(&admin).Error)
	board := models.Board{PBID: pb.ID, Title: "채권 입문", Content: "본문", Thumbnail: "/static/default/thumbnail.png", Status: models.BoardStatusActive}
	require.NoError(s.t, s.db.Create(&board).Error)
	return user, admin, pb, board
}

func TestHealthAndNoRoute(t *testing.T) {
	s := newTestServer(t)
	w, env := s.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, env.Code)

	w, env = s.do(http.MethodGet, "/api/v1/nothing", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, 40400, env.Code)
}

func TestBoardDetailVisibility(t *testing.T) {
	s := newTestServer(t)
	user, _, _, board := s.seed()
	path := "/api/v1/boards/" + itoa(board.ID)

	w, env := s.do(http.MethodGet, path, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var thumb map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &thumb))
	assert.Equal(t, map[string]interface{}{"thumbnail": "/static/default/thumbnail.png"}, thumb)

	tok := s.token(models.Principal{ID: user.ID, Role: models.RoleUser})
	w, env = s.do(http.MethodGet, path, tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var detail services.BoardDetail
	require.NoError(t, json.Unmarshal(env.Data, &detail))
	assert.Equal(t, "채권 입문", detail.Title)
	assert.Equal(t, "kim", detail.PBName)
	assert.Equal(t, int64(1), detail.ClickCount)
	assert.NotNil(t, detail.Replies)

	w, env = s.do(http.MethodGet, "/api/v1/boards/abc", tok, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w, env = s.do(http.MethodGet, "/api/v1/boards/999", tok, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "존재하지 않는 컨텐츠입니다.", env.Message)
}

func TestListingEnvelope(t *testing.T) {
	s := newTestServer(t)
	_, _, pb, _ := s.seed()
	require.NoError(t, s.db.Create(&models.Board{PBID: pb.ID, Title: "두번째", Content: "c", Status: models.BoardStatusActive}).Error)

	w, env := s.do(http.MethodGet, "/api/v1/boards/new?page=2&size=1", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page struct {
		Items      []map[string]interface{} `json:"items"`
		Pagination map[string]interface{}   `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &page))
	require.Len(t, page.Items, 1)
	assert.Equal(t, "채권 입문", page.Items[0]["title"])
	assert.Equal(t, false, page.Items[0]["isBookmarked"])
	assert.EqualValues(t, 1, page.Pagination["page_size"])
	assert.EqualValues(t, 2, page.Pagination["total_pages"])
}

func TestPBBoardLifecycle(t *testing.T) {
	s := newTestServer(t)
	user, _, pb, _ := s.seed()
	pbTok := s.token(models.Principal{ID: pb.ID, Role: models.RolePB})
	userTok := s.token(models.Principal{ID: user.ID, Role: models.RoleUser})

	body := map[string]string{"title": "새 글", "content": "<b>본문</b>", "tag1": "채권"}
	w, _ := s.do(http.MethodPost, "/api/v1/pb/boards", userTok, body)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w, _ = s.do(http.MethodPost, "/api/v1/pb/boards", "", body)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, env := s.do(http.MethodPost, "/api/v1/pb/boards", pbTok, body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var created struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	var board models.Board
	require.NoError(t, s.db.First(&board, created.ID).Error)
	assert.Equal(t, "/static/default/thumbnail.png", board.Thumbnail)

	w, env = s.do(http.MethodPost, "/api/v1/pb/boards", pbTok, map[string]string{"content": "no title"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 40000, env.Code)

	update := map[string]interface{}{"title": "고친 글", "content": "c", "boardStatus": "TEMP"}
	w, _ = s.do(http.MethodPut, "/api/v1/pb/boards/"+itoa(created.ID), pbTok, update)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NoError(t, s.db.First(&board, created.ID).Error)
	assert.Equal(t, models.BoardStatusTemp, board.Status)

	w, env = s.do(http.MethodGet, "/api/v1/pb/boards/temp", pbTok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), "고친 글")

	w, _ = s.do(http.MethodDelete, "/api/v1/pb/boards/"+itoa(created.ID), pbTok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Zero(t, countRows(t, s.db, &models.Board{}, "id = ?", created.ID))
}

func TestSaveBoardWithThumbnail(t *testing.T) {
	s := newTestServer(t)
	_, _, pb, _ := s.seed()
	pbTok := s.token(models.Principal{ID: pb.ID, Role: models.RolePB})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("board", `{"title":"사진 글","content":"본문"}`))
	fw, err := mw.CreateFormFile("thumbnail", "cover.png")
	require.NoError(t, err)
	require.NoError(t, png.Encode(fw, image.NewRGBA(image.Rect(0, 0, 64, 48))))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/pb/boards/temp", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w, env := s.send(req, pbTok)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var created struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	var board models.Board
	require.NoError(t, s.db.First(&board, created.ID).Error)
	assert.True(t, strings.HasPrefix(board.Thumbnail, "/static/uploads/thumbnail/"), board.Thumbnail)
	assert.Equal(t, models.BoardStatusTemp, board.Status)

	w, _ = s.do(http.MethodGet, board.Thumbnail, "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestReplyOwnershipOverHTTP(t *testing.T) {
	s := newTestServer(t)
	user, admin, pb, board := s.seed()
	userTok := s.token(models.Principal{ID: user.ID, Role: models.RoleUser})
	otherTok := s.token(models.Principal{ID: admin.ID, Role: models.RoleUser, Admin: true})
	pbTok := s.token(models.Principal{ID: pb.ID, Role: models.RolePB})

	w, env := s.do(http.MethodPost, "/api/v1/boards/"+itoa(board.ID)+"/replies", userTok, map[string]string{"content": "질문 있습니다"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var created struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))

	w, env = s.do(http.MethodPatch, "/api/v1/replies/"+itoa(created.ID), otherTok, map[string]string{"content": "변조"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "잘못된 요청입니다.", env.Message)
	// same id space, different role
	w, _ = s.do(http.MethodDelete, "/api/v1/replies/"+itoa(created.ID), pbTok, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = s.do(http.MethodPost, "/api/v1/replies/"+itoa(created.ID)+"/rereplies", pbTok, map[string]string{"content": "답변드립니다"})
	require.Equal(t, http.StatusOK, w.Code)

	w, env = s.do(http.MethodGet, "/api/v1/boards/"+itoa(board.ID)+"/replies", userTok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), "답변드립니다")

	w, _ = s.do(http.MethodDelete, "/api/v1/replies/"+itoa(created.ID), userTok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Zero(t, countRows(t, s.db, &models.ReReply{}, ""))
}

func TestBookmarkFlow(t *testing.T) {
	s := newTestServer(t)
	user, _, _, board := s.seed()
	tok := s.token(models.Principal{ID: user.ID, Role: models.RoleUser})
	path := "/api/v1/boards/" + itoa(board.ID) + "/bookmark"

	w, _ := s.do(http.MethodPost, path, tok, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, env := s.do(http.MethodGet, "/api/v1/bookmarks/boards", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"isBookmarked":true`)

	w, _ = s.do(http.MethodDelete, path, tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w, env = s.do(http.MethodDelete, path, tok, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "북마크 되지 않은 컨텐츠입니다", env.Message)
}

func TestAdminRoutes(t *testing.T) {
	s := newTestServer(t)
	user, admin, _, _ := s.seed()
	pending := models.PB{Email: "new@pb.test", Name: "new", Speciality1: models.SpecialityFund, Status: models.PBStatusPending}
	require.NoError(t, s.db.Create(&pending).Error)
	userTok := s.token(models.Principal{ID: user.ID, Role: models.RoleUser})
	adminTok := s.token(models.Principal{ID: admin.ID, Role: models.RoleUser, Admin: true})
	approvePath := "/api/v1/admin/pbs/" + itoa(pending.ID) + "/approve"

	w, _ := s.do(http.MethodPost, approvePath+"?approve=true", userTok, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w, _ = s.do(http.MethodPost, approvePath+"?approve=maybe", adminTok, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = s.do(http.MethodPost, approvePath+"?approve=true", adminTok, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 1, s.mailer.sent)

	w, env := s.do(http.MethodPost, approvePath+"?approve=true", adminTok, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "이미 승인 완료된 PB입니다.", env.Message)
	assert.Equal(t, 1, s.mailer.sent)

	w, env = s.do(http.MethodGet, "/api/v1/admin/members/count", adminTok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user":2,"pb":2}`, string(env.Data))

	w, _ = s.do(http.MethodPost, "/api/v1/admin/notices", adminTok, map[string]string{"title": "공지", "content": "내용"})
	require.Equal(t, http.StatusOK, w.Code)
	w, env = s.do(http.MethodGet, "/api/v1/notices", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), "공지")

	w, env = s.do(http.MethodPost, "/api/v1/admin/branches", adminTok, map[string]interface{}{"companyId": 999, "name": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "없는 증권회사의 id입니다", env.Message)

	w, _ = s.do(http.MethodDelete, "/api/v1/admin/members/"+itoa(user.ID)+"?role=user", adminTok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Zero(t, countRows(t, s.db, &models.User{}, "id = ?", user.ID))
}

func TestReservationRoutes(t *testing.T) {
	s := newTestServer(t)
	user, _, pb, _ := s.seed()
	userTok := s.token(models.Principal{ID: user.ID, Role: models.RoleUser})
	pbTok := s.token(models.Principal{ID: pb.ID, Role: models.RolePB})
	path := "/api/v1/user/reservations/pbs/" + itoa(pb.ID)

	w, _ := s.do(http.MethodGet, path, pbTok, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, env := s.do(http.MethodGet, path, userTok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"pbName":"kim"`)

	body := map[string]string{
		"goal1":           "PROFIT",
		"reservationType": "CALL",
		"candidateTime1":  "2026-11-02T10:00:00",
		"candidateTime2":  "2026-11-02T14:00:00",
		"userName":        "lee",
		"userPhoneNumber": "01012345678",
		"userEmail":       "lee@user.test",
	}
	w, _ = s.do(http.MethodPost, path, userTok, body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, int64(1), countRows(t, s.db, &models.Reservation{}, "process = ?", models.ProcessApply))
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func countRows(t *testing.T, db *gorm.DB, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	q := db.Model(model)
	if query != "" {
		q = q.Where(query, args...)
	}
	require.NoError(t, q.Count(&n).Error)
	return n
}

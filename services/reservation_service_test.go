package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moneybridge/moneybridge/models"
)

func validReservationInput() ApplyReservationInput {
	return ApplyReservationInput{
		Goal1:           models.GoalProfit,
		Goal2:           models.GoalTax,
		ReservationType: models.ReservationVisit,
		LocationType:    models.LocationBranch,
		LocationName:    "용산WM점",
		LocationAddress: "서울특별시 용산구 한강대로 92",
		CandidateTime1:  "2026-11-02T10:00:00",
		CandidateTime2:  "2026-11-03T15:30:00",
		Question:        "  채권 비중을 늘리고 싶습니다  ",
		UserName:        "lee",
		UserPhoneNumber: "01012345678",
		UserEmail:       "lee@user.test",
	}
}

func TestGetReservationBase(t *testing.T) {
	db := newTestDB(t)
	svc := NewReservationService(db)
	ctx := context.Background()
	branch := seedBranch(t, db)
	pb := seedPB(t, db, branch.ID, "kim", models.PBStatusActive, models.SpecialityBond, nil)
	pending := seedPB(t, db, branch.ID, "park", models.PBStatusPending, models.SpecialityBond, nil)
	user := seedUser(t, db, "lee", nil)

	base, err := svc.GetReservationBase(ctx, pb.ID, user)
	require.NoError(t, err)
	assert.Equal(t, "kim", base.PBInfo.PBName)
	assert.Equal(t, "용산WM점", base.PBInfo.BranchName)
	assert.Equal(t, "서울특별시 용산구 한강대로 92", base.PBInfo.BranchAddress)
	assert.Equal(t, "37.53", base.PBInfo.BranchLatitude)
	assert.Equal(t, "09:00", base.ConsultInfo.ConsultStart)
	assert.Equal(t, "18:00", base.ConsultInfo.ConsultEnd)
	assert.Equal(t, "lee", base.UserInfo.UserName)
	assert.Equal(t, "01012345678", base.UserInfo.UserPhoneNumber)

	_, err = svc.GetReservationBase(ctx, pending.ID, user)
	requireKind(t, err, KindNotFound)
	_, err = svc.GetReservationBase(ctx, pb.ID, pb)
	requireKind(t, err, KindNotFound)
}

func TestApplyReservation(t *testing.T) {
	db := newTestDB(t)
	svc := NewReservationService(db)
	ctx := context.Background()
	branch := seedBranch(t, db)
	pb := seedPB(t, db, branch.ID, "kim", models.PBStatusActive, models.SpecialityBond, nil)
	user := seedUser(t, db, "lee", nil)

	id, err := svc.ApplyReservation(ctx, pb.ID, user, validReservationInput())
	require.NoError(t, err)

	var r models.Reservation
	require.NoError(t, db.First(&r, id).Error)
	assert.Equal(t, user.ID, r.UserID)
	assert.Equal(t, pb.ID, r.PBID)
	assert.Equal(t, models.ProcessApply, r.Process)
	assert.Equal(t, models.ReservationVisit, r.Type)
	assert.Equal(t, "채권 비중을 늘리고 싶습니다", r.Question)
	assert.Nil(t, r.Time)
	want := time.Date(2026, 11, 2, 10, 0, 0, 0, time.Local)
	assert.True(t, want.Equal(r.CandidateTime1), "got %v", r.CandidateTime1)
}

func TestApplyReservationRejects(t *testing.T) {
	db := newTestDB(t)
	svc := NewReservationService(db)
	ctx := context.Background()
	branch := seedBranch(t, db)
	pb := seedPB(t, db, branch.ID, "kim", models.PBStatusActive, models.SpecialityBond, nil)
	pending := seedPB(t, db, branch.ID, "park", models.PBStatusPending, models.SpecialityBond, nil)
	user := seedUser(t, db, "lee", nil)

	cases := map[string]struct {
		mutate func(in *ApplyReservationInput)
		key    string
	}{
		"missing goal":     {func(in *ApplyReservationInput) { in.Goal1 = "" }, "goal1"},
		"unknown goal":     {func(in *ApplyReservationInput) { in.Goal2 = "LOTTERY" }, "goal2"},
		"bad type":         {func(in *ApplyReservationInput) { in.ReservationType = "VIDEO" }, "reservationType"},
		"date only":        {func(in *ApplyReservationInput) { in.CandidateTime1 = "2026-11-02" }, "candidateTime1"},
		"letters in phone": {func(in *ApplyReservationInput) { in.UserPhoneNumber = "010-1234-5678" }, "userPhoneNumber"},
		"bad email":        {func(in *ApplyReservationInput) { in.UserEmail = "lee" }, "userEmail"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			in := validReservationInput()
			tc.mutate(&in)
			_, err := svc.ApplyReservation(ctx, pb.ID, user, in)
			requireKind(t, err, KindBadRequest)
			var se *Error
			require.ErrorAs(t, err, &se)
			assert.Equal(t, tc.key, se.Key)
		})
	}

	_, err := svc.ApplyReservation(ctx, pending.ID, user, validReservationInput())
	requireKind(t, err, KindNotFound)
	_, err = svc.ApplyReservation(ctx, pb.ID, pb, validReservationInput())
	requireKind(t, err, KindNotFound)
	_, err = svc.ApplyReservation(ctx, pb.ID, models.Principal{ID: 999, Role: models.RoleUser}, validReservationInput())
	requireKind(t, err, KindNotFound)
	assert.Zero(t, count(t, db, &models.Reservation{}, ""))
}

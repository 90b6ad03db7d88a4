package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/moneybridge/moneybridge/models"
	"github.com/moneybridge/moneybridge/services"
	"github.com/moneybridge/moneybridge/utils"
)

// BackOfficeController serves the administrator pages.
type BackOfficeController struct {
	office *services.BackOfficeService
}

// NewBackOfficeController creates a new BackOfficeController instance.
func NewBackOfficeController(office *services.BackOfficeService) *BackOfficeController {
	return &BackOfficeController{office: office}
}

func (b *BackOfficeController) AddBranch(ctx *gin.Context) {
	var in services.BranchInput
	if !bindJSON(ctx, &in) {
		return
	}
	if err := b.office.AddBranch(ctx.Request.Context(), in); err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, nil)
}

// ApprovePB settles a pending PB. The decision comes from ?approve=true|false.
func (b *BackOfficeController) ApprovePB(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	approve, ok := boolQuery(ctx, "approve")
	if !ok {
		return
	}
	if err := b.office.ApprovePB(ctx.Request.Context(), id, approve); err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, nil)
}

func (b *BackOfficeController) DeleteBoard(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	if err := b.office.DeleteBoard(ctx.Request.Context(), id); err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, nil)
}

func (b *BackOfficeController) DeleteReply(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	if err := b.office.DeleteReply(ctx.Request.Context(), id); err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, nil)
}

func (b *BackOfficeController) DeleteReReply(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	if err := b.office.DeleteReReply(ctx.Request.Context(), id); err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, nil)
}

// ForceWithdraw removes a member. ?role= is USER or PB.
func (b *BackOfficeController) ForceWithdraw(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	role := models.Role(strings.ToUpper(ctx.Query("role")))
	if err := b.office.ForceWithdraw(ctx.Request.Context(), id, role); err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, nil)
}

func (b *BackOfficeController) AuthorizeAdmin(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	admin, ok := boolQuery(ctx, "admin")
	if !ok {
		return
	}
	if err := b.office.AuthorizeAdmin(ctx.Request.Context(), id, admin); err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, nil)
}

func (b *BackOfficeController) GetMembers(ctx *gin.Context) {
	page, err := b.office.GetMembers(ctx.Request.Context(), strings.ToLower(ctx.Query("type")), parsePagination(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, page)
}

func (b *BackOfficeController) GetMembersCount(ctx *gin.Context) {
	out, err := b.office.GetMembersCount(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, out)
}

func (b *BackOfficeController) GetPBPending(ctx *gin.Context) {
	page, err := b.office.GetPBPending(ctx.Request.Context(), parsePagination(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, page)
}

func (b *BackOfficeController) GetReservations(ctx *gin.Context) {
	page, err := b.office.GetReservations(ctx.Request.Context(), parsePagination(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, page)
}

func (b *BackOfficeController) GetReservationsCount(ctx *gin.Context) {
	out, err := b.office.GetReservationsCount(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, out)
}

func (b *BackOfficeController) GetNotices(ctx *gin.Context) {
	page, err := b.office.GetNotices(ctx.Request.Context(), parsePagination(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, page)
}

func (b *BackOfficeController) GetNotice(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	notice, err := b.office.GetNotice(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, notice)
}

func (b *BackOfficeController) AddNotice(ctx *gin.Context) {
	var in services.NoticeInput
	if !bindJSON(ctx, &in) {
		return
	}
	if err := b.office.AddNotice(ctx.Request.Context(), in); err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, nil)
}

func (b *BackOfficeController) UpdateNotice(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	var in services.NoticeInput
	if !bindJSON(ctx, &in) {
		return
	}
	if err := b.office.UpdateNotice(ctx.Request.Context(), id, in); err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, nil)
}

func (b *BackOfficeController) DeleteNotice(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	if err := b.office.DeleteNotice(ctx.Request.Context(), id); err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, nil)
}

func (b *BackOfficeController) GetFAQs(ctx *gin.Context) {
	page, err := b.office.GetFAQs(ctx.Request.Context(), parsePagination(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, page)
}

func (b *BackOfficeController) GetFAQ(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	faq, err := b.office.GetFAQ(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, faq)
}

func (b *BackOfficeController) AddFAQ(ctx *gin.Context) {
	var in services.FAQInput
	if !bindJSON(ctx, &in) {
		return
	}
	if err := b.office.AddFAQ(ctx.Request.Context(), in); err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, nil)
}

func (b *BackOfficeController) UpdateFAQ(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	var in services.FAQInput
	if !bindJSON(ctx, &in) {
		return
	}
	if err := b.office.UpdateFAQ(ctx.Request.Context(), id, in); err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, nil)
}

func (b *BackOfficeController) DeleteFAQ(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	if err := b.office.DeleteFAQ(ctx.Request.Context(), id); err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, nil)
}

func boolQuery(ctx *gin.Context, name string) (bool, bool) {
	v, err := strconv.ParseBool(ctx.Query(name))
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40005, name+" must be true or false")
		return false, false
	}
	return v, true
}

package controllers

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/moneybridge/moneybridge/models"
	"github.com/moneybridge/moneybridge/services"
	"github.com/moneybridge/moneybridge/utils"
)

// BoardController exposes PB content, bookmarks and replies.
type BoardController struct {
	boards *services.BoardService
}

// NewBoardController creates a new BoardController instance.
func NewBoardController(boards *services.BoardService) *BoardController {
	return &BoardController{boards: boards}
}

// SearchBoards lists published boards, optionally filtered by title or PB name.
func (b *BoardController) SearchBoards(ctx *gin.Context) {
	page, err := b.boards.SearchBoards(ctx.Request.Context(), strings.TrimSpace(ctx.Query("search")), parsePagination(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, page)
}

func (b *BoardController) SearchBoardsByPBName(ctx *gin.Context) {
	page, err := b.boards.SearchBoardsByPBName(ctx.Request.Context(), strings.TrimSpace(ctx.Query("name")), parsePagination(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, page)
}

func (b *BoardController) GetNewBoards(ctx *gin.Context) {
	page, err := b.boards.GetNewBoards(ctx.Request.Context(), parsePagination(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, page)
}

func (b *BoardController) GetHotBoards(ctx *gin.Context) {
	page, err := b.boards.GetHotBoards(ctx.Request.Context(), parsePagination(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, page)
}

// GetMainContents returns the newest and hottest boards, with bookmark flags for signed-in members.
func (b *BoardController) GetMainContents(ctx *gin.Context) {
	var (
		items []services.BoardPageItem
		err   error
	)
	if m := optionalMember(ctx); m != nil {
		items, err = b.boards.GetLogInNewHotContents(ctx.Request.Context(), m)
	} else {
		items, err = b.boards.GetNewHotContents(ctx.Request.Context())
	}
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"items": items})
}

func (b *BoardController) GetTwoBoards(ctx *gin.Context) {
	items, err := b.boards.GetTwoBoards(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"items": items})
}

func (b *BoardController) GetRecommendedBoards(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	items, err := b.boards.GetRecommendedBoards(ctx.Request.Context(), p)
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"items": items})
}

// GetBoardDetail serves the full board to members and only the thumbnail to anonymous visitors.
func (b *BoardController) GetBoardDetail(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	m := optionalMember(ctx)
	if m == nil {
		thumb, err := b.boards.GetBoardThumbnail(ctx.Request.Context(), id)
		if err != nil {
			respondError(ctx, err)
			return
		}
		utils.Success(ctx, thumb)
		return
	}
	detail, err := b.boards.GetBoardDetail(ctx.Request.Context(), m, id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, detail)
}

func (b *BoardController) GetReplies(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	replies, err := b.boards.GetReplies(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"items": replies})
}

func (b *BoardController) BookmarkBoard(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	if err := b.boards.BookmarkBoard(ctx.Request.Context(), p, id); err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, nil)
}

func (b *BoardController) DeleteBookmarkBoard(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	if err := b.boards.DeleteBookmarkBoard(ctx.Request.Context(), p, id); err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, nil)
}

func (b *BoardController) GetBookmarkBoards(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	page, err := b.boards.GetBookmarkBoards(ctx.Request.Context(), p, parsePagination(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, page)
}

func (b *BoardController) GetPBBoards(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	page, err := b.boards.GetPBBoards(ctx.Request.Context(), optionalMember(ctx), id, parsePagination(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, page)
}

// SaveBoard publishes a board.
func (b *BoardController) SaveBoard(ctx *gin.Context) {
	b.saveBoard(ctx, models.BoardStatusActive)
}

// SaveTempBoard stores a draft.
func (b *BoardController) SaveTempBoard(ctx *gin.Context) {
	b.saveBoard(ctx, models.BoardStatusTemp)
}

func (b *BoardController) saveBoard(ctx *gin.Context, status models.BoardStatus) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	var in services.BoardInput
	if !bindBoardForm(ctx, &in) {
		return
	}
	thumb, ok := thumbnailFile(ctx)
	if !ok {
		return
	}
	var r io.Reader
	if thumb != nil {
		defer thumb.Close()
		r = thumb
	}
	id, err := b.boards.SaveBoard(ctx.Request.Context(), p, in, r, status)
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"id": id})
}

func (b *BoardController) GetTempBoards(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	items, err := b.boards.GetTempBoards(ctx.Request.Context(), p)
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"items": items})
}

func (b *BoardController) GetBoard(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	view, err := b.boards.GetBoard(ctx.Request.Context(), p, id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, view)
}

func (b *BoardController) PutBoard(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	var in services.BoardUpdateInput
	if !bindBoardForm(ctx, &in) {
		return
	}
	thumb, ok := thumbnailFile(ctx)
	if !ok {
		return
	}
	var r io.Reader
	if thumb != nil {
		defer thumb.Close()
		r = thumb
	}
	if err := b.boards.PutBoard(ctx.Request.Context(), p, id, in, r); err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, nil)
}

func (b *BoardController) DeleteBoard(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	if err := b.boards.DeleteBoard(ctx.Request.Context(), p, id); err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, nil)
}

func (b *BoardController) SaveReply(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	var in services.ReplyInput
	if !bindJSON(ctx, &in) {
		return
	}
	replyID, err := b.boards.SaveReply(ctx.Request.Context(), p, id, in)
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"id": replyID})
}

func (b *BoardController) SaveReReply(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	var in services.ReplyInput
	if !bindJSON(ctx, &in) {
		return
	}
	reReplyID, err := b.boards.SaveReReply(ctx.Request.Context(), p, id, in)
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"id": reReplyID})
}

func (b *BoardController) UpdateReply(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	var in services.ReplyInput
	if !bindJSON(ctx, &in) {
		return
	}
	if err := b.boards.UpdateReply(ctx.Request.Context(), p, id, in); err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, nil)
}

func (b *BoardController) DeleteReply(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	if err := b.boards.DeleteReply(ctx.Request.Context(), p, id); err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, nil)
}

func (b *BoardController) UpdateReReply(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	var in services.ReplyInput
	if !bindJSON(ctx, &in) {
		return
	}
	if err := b.boards.UpdateReReply(ctx.Request.Context(), p, id, in); err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, nil)
}

func (b *BoardController) DeleteReReply(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	if err := b.boards.DeleteReReply(ctx.Request.Context(), p, id); err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, nil)
}

// bindBoardForm reads the board fields from a JSON body, or from the "board" part of a multipart form.
func bindBoardForm(ctx *gin.Context, dst interface{}) bool {
	if ctx.ContentType() != gin.MIMEMultipartPOSTForm {
		return bindJSON(ctx, dst)
	}
	raw := ctx.PostForm("board")
	if raw == "" || json.Unmarshal([]byte(raw), dst) != nil {
		utils.Error(ctx, http.StatusBadRequest, 40002, "invalid request payload")
		return false
	}
	return true
}

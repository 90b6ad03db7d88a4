package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/moneybridge/moneybridge/models"
)

// memberKind holds the persistence behaviour that differs between member roles.
type memberKind struct {
	model       func() interface{}
	notFoundMsg string
	purge       func(tx *gorm.DB, id uint) error
	// afterBookmark runs inside the bookmark transaction; nil when the role has nothing to record.
	afterBookmark func(tx *gorm.DB, id uint) error
}

var memberKinds = map[models.Role]memberKind{
	models.RoleUser: {
		model:       func() interface{} { return &models.User{} },
		notFoundMsg: "존재하지 않는 유저입니다.",
		purge:       purgeUser,
		afterBookmark: func(tx *gorm.DB, id uint) error {
			return tx.Model(&models.User{}).
				Where("id = ? AND has_done_board_bookmark = ?", id, false).
				Update("has_done_board_bookmark", true).Error
		},
	},
	models.RolePB: {
		model:       func() interface{} { return &models.PB{} },
		notFoundMsg: "존재하지 않는 PB 입니다",
		purge:       purgePB,
	},
}

func kindOf(role models.Role) (memberKind, error) {
	k, ok := memberKinds[role]
	if !ok {
		return memberKind{}, badRequest("role", "권한이 없습니다.")
	}
	return k, nil
}

// requireMember fails with NotFound unless the member's row exists.
func requireMember(tx *gorm.DB, m models.Member) (memberKind, error) {
	if m == nil {
		return memberKind{}, badRequest("member", "권한이 없습니다.")
	}
	k, err := kindOf(m.MemberRole())
	if err != nil {
		return k, err
	}
	if err := tx.Select("id").Take(k.model(), m.MemberID()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return k, notFound(k.notFoundMsg)
		}
		return k, internal("회원 조회 실패", err)
	}
	return k, nil
}

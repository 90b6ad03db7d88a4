package services

import (
	"gorm.io/gorm"

	"github.com/moneybridge/moneybridge/models"
)

// The helpers below delete rows children first so that no foreign reference is left behind.
// They must be called with the transaction handle.

func deleteReReplies(tx *gorm.DB, replyIDs []uint) error {
	if len(replyIDs) == 0 {
		return nil
	}
	return tx.Where("reply_id IN ?", replyIDs).Delete(&models.ReReply{}).Error
}

func deleteReplyTree(tx *gorm.DB, replyIDs []uint) error {
	if len(replyIDs) == 0 {
		return nil
	}
	if err := deleteReReplies(tx, replyIDs); err != nil {
		return err
	}
	return tx.Where("id IN ?", replyIDs).Delete(&models.Reply{}).Error
}

func deleteBoardTree(tx *gorm.DB, boardIDs []uint) error {
	if len(boardIDs) == 0 {
		return nil
	}
	var replyIDs []uint
	if err := tx.Model(&models.Reply{}).Where("board_id IN ?", boardIDs).Pluck("id", &replyIDs).Error; err != nil {
		return err
	}
	if err := deleteReplyTree(tx, replyIDs); err != nil {
		return err
	}
	if err := tx.Where("board_id IN ?", boardIDs).Delete(&models.BoardBookmark{}).Error; err != nil {
		return err
	}
	return tx.Where("id IN ?", boardIDs).Delete(&models.Board{}).Error
}

func deleteReservationTree(tx *gorm.DB, reservationIDs []uint) error {
	if len(reservationIDs) == 0 {
		return nil
	}
	var reviewIDs []uint
	if err := tx.Model(&models.Review{}).Where("reservation_id IN ?", reservationIDs).Pluck("id", &reviewIDs).Error; err != nil {
		return err
	}
	if len(reviewIDs) > 0 {
		if err := tx.Where("review_id IN ?", reviewIDs).Delete(&models.Style{}).Error; err != nil {
			return err
		}
		if err := tx.Where("id IN ?", reviewIDs).Delete(&models.Review{}).Error; err != nil {
			return err
		}
	}
	return tx.Where("id IN ?", reservationIDs).Delete(&models.Reservation{}).Error
}

// deleteAuthoredContent removes bookmarks, replies and re-replies written by the member.
func deleteAuthoredContent(tx *gorm.DB, id uint, role models.Role) error {
	if err := tx.Where("bookmarker_id = ? AND bookmarker_role = ?", id, role).Delete(&models.BoardBookmark{}).Error; err != nil {
		return err
	}
	var replyIDs []uint
	if err := tx.Model(&models.Reply{}).Where("author_id = ? AND author_role = ?", id, role).Pluck("id", &replyIDs).Error; err != nil {
		return err
	}
	if err := deleteReplyTree(tx, replyIDs); err != nil {
		return err
	}
	return tx.Where("author_id = ? AND author_role = ?", id, role).Delete(&models.ReReply{}).Error
}

func purgeUser(tx *gorm.DB, id uint) error {
	if err := deleteAuthoredContent(tx, id, models.RoleUser); err != nil {
		return err
	}
	var reservationIDs []uint
	if err := tx.Model(&models.Reservation{}).Where("user_id = ?", id).Pluck("id", &reservationIDs).Error; err != nil {
		return err
	}
	if err := deleteReservationTree(tx, reservationIDs); err != nil {
		return err
	}
	return tx.Delete(&models.User{}, id).Error
}

func purgePB(tx *gorm.DB, id uint) error {
	var boardIDs []uint
	if err := tx.Model(&models.Board{}).Where("pb_id = ?", id).Pluck("id", &boardIDs).Error; err != nil {
		return err
	}
	if err := deleteBoardTree(tx, boardIDs); err != nil {
		return err
	}
	if err := deleteAuthoredContent(tx, id, models.RolePB); err != nil {
		return err
	}
	var reservationIDs []uint
	if err := tx.Model(&models.Reservation{}).Where("pb_id = ?", id).Pluck("id", &reservationIDs).Error; err != nil {
		return err
	}
	if err := deleteReservationTree(tx, reservationIDs); err != nil {
		return err
	}
	return tx.Delete(&models.PB{}, id).Error
}

package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/moneybridge/moneybridge/services"
	"github.com/moneybridge/moneybridge/utils"
)

// ReservationController lets users book consultations.
type ReservationController struct {
	reservations *services.ReservationService
}

func NewReservationController(reservations *services.ReservationService) *ReservationController {
	return &ReservationController{reservations: reservations}
}

// GetReservationBase pre-fills the form for the PB in the path.
func (r *ReservationController) GetReservationBase(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	pbID, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	base, err := r.reservations.GetReservationBase(ctx.Request.Context(), pbID, p)
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, base)
}

func (r *ReservationController) ApplyReservation(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	pbID, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	var in services.ApplyReservationInput
	if !bindJSON(ctx, &in) {
		return
	}
	id, err := r.reservations.ApplyReservation(ctx.Request.Context(), pbID, p, in)
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"id": id})
}

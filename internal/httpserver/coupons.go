package httpserver

import (
	"petshop-commerce/internal/domain"

	"github.com/gin-gonic/gin"
)

func (h *handlers) listMyCoupons(c *gin.Context) {
	list, err := h.coupons.ListMine(c.Request.Context(), projectFrom(c).ID, accountFrom(c), c.Query("status"))
	if err != nil {
		writeError(c, err)
		return
	}
	views := make([]userCouponView, 0, len(list))
	for _, uc := range list {
		views = append(views, toUserCouponView(uc))
	}
	writeOK(c, views)
}

func (h *handlers) listAvailableCoupons(c *gin.Context) {
	offers, err := h.coupons.ListAvailable(c.Request.Context(), projectFrom(c).ID, accountFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	writeOK(c, toOfferViews(offers))
}

func (h *handlers) receiveCoupon(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		writeError(c, err)
		return
	}
	uc, err := h.coupons.Receive(c.Request.Context(), projectFrom(c).ID, accountFrom(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	writeOKMessage(c, "coupon received", toUserCouponView(*uc))
}

func (h *handlers) useCoupon(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		writeError(c, err)
		return
	}
	amount, err := h.coupons.Use(c.Request.Context(), projectFrom(c).ID, accountFrom(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	writeOKMessage(c, "coupon used", gin.H{"amount": domain.FormatCents(amount)})
}

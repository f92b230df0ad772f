package httpserver

import (
	"petshop-commerce/internal/domain"
	ordersvc "petshop-commerce/internal/service/order"

	"github.com/gin-gonic/gin"
)

type orderActionRequest struct {
	OrderID       int64  `json:"orderId" binding:"required,gt=0"`
	PaymentMethod string `json:"paymentMethod"`
}

func (h *handlers) listOrders(c *gin.Context) {
	page, err := queryInt(c, "page")
	if err != nil {
		writeError(c, err)
		return
	}
	size, err := queryInt(c, "pageSize")
	if err != nil {
		writeError(c, err)
		return
	}
	res, err := h.orders.List(c.Request.Context(), projectFrom(c).ID, accountFrom(c), ordersvc.Filter{
		Status:   c.Query("status"),
		Page:     page,
		PageSize: size,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	views := make([]orderView, 0, len(res.Orders))
	for _, o := range res.Orders {
		views = append(views, toOrderView(o))
	}
	writeOK(c, orderPageView{List: views, Total: res.Total, Page: res.Page, PageSize: res.PageSize})
}

func (h *handlers) orderDetail(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		writeError(c, err)
		return
	}
	o, err := h.orders.Detail(c.Request.Context(), projectFrom(c).ID, accountFrom(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	writeOK(c, toOrderView(*o))
}

func (h *handlers) createOrder(c *gin.Context) {
	var in ordersvc.CreateInput
	if err := bindJSON(c, &in); err != nil {
		writeError(c, err)
		return
	}
	o, err := h.orders.Create(c.Request.Context(), projectFrom(c).ID, accountFrom(c), in)
	if err != nil {
		writeError(c, err)
		return
	}
	writeOKMessage(c, "order created", toOrderView(*o))
}

func (h *handlers) payOrder(c *gin.Context) {
	h.orderAction(c, "paid", func(c *gin.Context, req orderActionRequest) (*domain.Order, error) {
		return h.orders.Pay(c.Request.Context(), projectFrom(c).ID, accountFrom(c), req.OrderID, req.PaymentMethod)
	})
}

func (h *handlers) cancelOrder(c *gin.Context) {
	h.orderAction(c, "canceled", func(c *gin.Context, req orderActionRequest) (*domain.Order, error) {
		return h.orders.Cancel(c.Request.Context(), projectFrom(c).ID, accountFrom(c), req.OrderID)
	})
}

func (h *handlers) confirmOrder(c *gin.Context) {
	h.orderAction(c, "confirmed", func(c *gin.Context, req orderActionRequest) (*domain.Order, error) {
		return h.orders.Confirm(c.Request.Context(), projectFrom(c).ID, accountFrom(c), req.OrderID)
	})
}

func (h *handlers) orderAction(c *gin.Context, done string, fn func(*gin.Context, orderActionRequest) (*domain.Order, error)) {
	var req orderActionRequest
	if err := bindJSON(c, &req); err != nil {
		writeError(c, err)
		return
	}
	o, err := fn(c, req)
	if err != nil {
		writeError(c, err)
		return
	}
	writeOKMessage(c, "order "+done, toOrderView(*o))
}

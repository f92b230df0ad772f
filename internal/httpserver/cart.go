package httpserver

import (
	cartsvc "petshop-commerce/internal/service/cart"

	"github.com/gin-gonic/gin"
)

func (h *handlers) listCart(c *gin.Context) {
	items, err := h.cart.List(c.Request.Context(), projectFrom(c).ID, accountFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	writeOK(c, toCartView(items))
}

func (h *handlers) countCart(c *gin.Context) {
	n, err := h.cart.Count(c.Request.Context(), projectFrom(c).ID, accountFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	writeOK(c, gin.H{"count": n})
}

func (h *handlers) addToCart(c *gin.Context) {
	var in cartsvc.AddInput
	if err := bindJSON(c, &in); err != nil {
		writeError(c, err)
		return
	}
	total, err := h.cart.AddLine(c.Request.Context(), projectFrom(c).ID, accountFrom(c), in)
	if err != nil {
		writeError(c, err)
		return
	}
	writeOKMessage(c, "added to cart", gin.H{"cartTotal": total})
}

func (h *handlers) updateCartLine(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		writeError(c, err)
		return
	}
	var in cartsvc.UpdateInput
	if err := bindJSON(c, &in); err != nil {
		writeError(c, err)
		return
	}
	if err := h.cart.UpdateLine(c.Request.Context(), projectFrom(c).ID, accountFrom(c), id, in); err != nil {
		writeError(c, err)
		return
	}
	writeOKMessage(c, "updated", nil)
}

func (h *handlers) removeCartLine(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		writeError(c, err)
		return
	}
	if err := h.cart.RemoveLine(c.Request.Context(), projectFrom(c).ID, accountFrom(c), id); err != nil {
		writeError(c, err)
		return
	}
	writeOKMessage(c, "removed", nil)
}

func (h *handlers) clearCart(c *gin.Context) {
	if err := h.cart.Clear(c.Request.Context(), projectFrom(c).ID, accountFrom(c)); err != nil {
		writeError(c, err)
		return
	}
	writeOKMessage(c, "cleared", nil)
}

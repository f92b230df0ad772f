package httpserver

import (
	addresssvc "petshop-commerce/internal/service/address"

	"github.com/gin-gonic/gin"
)

func (h *handlers) listAddresses(c *gin.Context) {
	list, err := h.addresses.List(c.Request.Context(), projectFrom(c).ID, accountFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	writeOK(c, list)
}

func (h *handlers) getAddress(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		writeError(c, err)
		return
	}
	a, err := h.addresses.Get(c.Request.Context(), projectFrom(c).ID, accountFrom(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	writeOK(c, a)
}

func (h *handlers) addAddress(c *gin.Context) {
	var in addresssvc.Input
	if err := bindJSON(c, &in); err != nil {
		writeError(c, err)
		return
	}
	a, err := h.addresses.Add(c.Request.Context(), projectFrom(c).ID, accountFrom(c), in)
	if err != nil {
		writeError(c, err)
		return
	}
	writeOKMessage(c, "address added", a)
}

func (h *handlers) updateAddress(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		writeError(c, err)
		return
	}
	var in addresssvc.Input
	if err := bindJSON(c, &in); err != nil {
		writeError(c, err)
		return
	}
	a, err := h.addresses.Update(c.Request.Context(), projectFrom(c).ID, accountFrom(c), id, in)
	if err != nil {
		writeError(c, err)
		return
	}
	writeOKMessage(c, "address updated", a)
}

func (h *handlers) setDefaultAddress(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		writeError(c, err)
		return
	}
	if err := h.addresses.SetDefault(c.Request.Context(), projectFrom(c).ID, accountFrom(c), id); err != nil {
		writeError(c, err)
		return
	}
	writeOKMessage(c, "default address set", nil)
}

func (h *handlers) removeAddress(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		writeError(c, err)
		return
	}
	if err := h.addresses.Remove(c.Request.Context(), projectFrom(c).ID, accountFrom(c), id); err != nil {
		writeError(c, err)
		return
	}
	writeOKMessage(c, "address removed", nil)
}

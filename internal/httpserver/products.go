package httpserver

import (
	catalogsvc "petshop-commerce/internal/service/catalog"

	"github.com/gin-gonic/gin"
)

func (h *handlers) getProduct(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		writeError(c, err)
		return
	}
	p, err := h.catalog.Get(c.Request.Context(), projectFrom(c).ID, id)
	if err != nil {
		writeError(c, err)
		return
	}
	writeOK(c, toProductView(*p))
}

func (h *handlers) listProducts(c *gin.Context) {
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
	res, err := h.catalog.List(c.Request.Context(), projectFrom(c).ID, catalogsvc.ListQuery{
		Category: c.Query("category"),
		Sort:     c.Query("sortType"),
		Page:     page,
		PageSize: size,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	views := make([]productView, 0, len(res.Products))
	for _, p := range res.Products {
		views = append(views, toProductView(p))
	}
	writeOK(c, productPageView{List: views, Total: res.Total, Page: res.Page, PageSize: res.PageSize})
}

func (h *handlers) listCategories(c *gin.Context) {
	list, err := h.categories.List(c.Request.Context(), projectFrom(c).ID)
	if err != nil {
		writeError(c, err)
		return
	}
	writeOK(c, list)
}

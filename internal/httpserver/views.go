package httpserver

import (
	"time"

	"petshop-commerce/internal/domain"
)

type productView struct {
	ID            int64  `json:"id"`
	Key           string `json:"key"`
	SKU           string `json:"sku"`
	Name          string `json:"name"`
	Spec          string `json:"spec"`
	Category      string `json:"category"`
	Description   string `json:"description"`
	Price         string `json:"price"`
	OriginalPrice string `json:"originalPrice"`
	Image         string `json:"image"`
	Stock         int    `json:"stock"`
	Status        int    `json:"status"`
}

func toProductView(p domain.Product) productView {
	return productView{
		ID:            p.ID,
		Key:           p.Key,
		SKU:           p.SKU,
		Name:          p.Name,
		Spec:          p.Spec,
		Category:      p.Category,
		Description:   p.Description,
		Price:         domain.FormatCents(p.PriceCents),
		OriginalPrice: domain.FormatCents(p.OriginalPriceCents),
		Image:         p.ImageURL,
		Stock:         p.Stock,
		Status:        p.Status,
	}
}

type productPageView struct {
	List     []productView `json:"list"`
	Total    int           `json:"total"`
	Page     int           `json:"page"`
	PageSize int           `json:"pageSize"`
}

type cartItemView struct {
	ID            int64  `json:"id"`
	ProductID     int64  `json:"productId"`
	Quantity      int    `json:"quantity"`
	Selected      bool   `json:"selected"`
	Name          string `json:"name"`
	Price         string `json:"price"`
	OriginalPrice string `json:"originalPrice"`
	Category      string `json:"category"`
	Image         string `json:"image"`
	Stock         int    `json:"stock"`
	Status        int    `json:"status"`
}

func toCartView(items []domain.CartItem) []cartItemView {
	out := make([]cartItemView, 0, len(items))
	for _, it := range items {
		out = append(out, cartItemView{
			ID:            it.ID,
			ProductID:     it.ProductID,
			Quantity:      it.Quantity,
			Selected:      it.Selected,
			Name:          it.Name,
			Price:         domain.FormatCents(it.PriceCents),
			OriginalPrice: domain.FormatCents(it.OriginalPriceCents),
			Category:      it.Category,
			Image:         it.ImageURL,
			Stock:         it.Stock,
			Status:        it.Status,
		})
	}
	return out
}

type orderItemView struct {
	ID        int64  `json:"id"`
	ProductID int64  `json:"productId"`
	Name      string `json:"name"`
	Spec      string `json:"spec"`
	Price     string `json:"price"`
	Quantity  int    `json:"quantity"`
	Image     string `json:"image"`
}

type orderView struct {
	ID             int64                  `json:"id"`
	OrderNo        string                 `json:"orderNo"`
	TotalAmount    string                 `json:"totalAmount"`
	DiscountAmount string                 `json:"discountAmount"`
	CouponID       *int64                 `json:"couponId,omitempty"`
	Status         domain.OrderStatus     `json:"status"`
	PaymentMethod  string                 `json:"paymentMethod"`
	PaymentStatus  int                    `json:"paymentStatus"`
	Address        domain.AddressSnapshot `json:"address"`
	Remark         string                 `json:"remark"`
	CreatedAt      time.Time              `json:"createdAt"`
	PaidAt         *time.Time             `json:"paidAt,omitempty"`
	Items          []orderItemView        `json:"items"`
}

func toOrderView(o domain.Order) orderView {
	items := make([]orderItemView, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, orderItemView{
			ID:        it.ID,
			ProductID: it.ProductID,
			Name:      it.ProductName,
			Spec:      it.Spec,
			Price:     domain.FormatCents(it.PriceCents),
			Quantity:  it.Quantity,
			Image:     it.ImageURL,
		})
	}
	return orderView{
		ID:             o.ID,
		OrderNo:        o.OrderNumber,
		TotalAmount:    domain.FormatCents(o.TotalCents),
		DiscountAmount: domain.FormatCents(o.DiscountCents),
		CouponID:       o.CouponID,
		Status:         o.Status,
		PaymentMethod:  o.PaymentMethod,
		PaymentStatus:  o.PaymentStatus,
		Address:        o.Address,
		Remark:         o.Remark,
		CreatedAt:      o.CreatedAt,
		PaidAt:         o.PaidAt,
		Items:          items,
	}
}

type orderPageView struct {
	List     []orderView `json:"list"`
	Total    int         `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"pageSize"`
}

type couponOfferView struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Amount     string    `json:"amount"`
	MinAmount  string    `json:"minAmount"`
	ExpireTime time.Time `json:"expireTime"`
	Received   bool      `json:"received"`
}

func toOfferViews(offers []domain.CouponOffer) []couponOfferView {
	out := make([]couponOfferView, 0, len(offers))
	for _, o := range offers {
		out = append(out, couponOfferView{
			ID:         o.ID,
			Name:       o.Name,
			Amount:     domain.FormatCents(o.AmountCents),
			MinAmount:  domain.FormatCents(o.MinAmountCents),
			ExpireTime: o.ExpiresAt,
			Received:   o.Received,
		})
	}
	return out
}

type userCouponView struct {
	ID         int64      `json:"id"`
	CouponID   int64      `json:"couponId"`
	Name       string     `json:"name"`
	Amount     string     `json:"amount"`
	MinAmount  string     `json:"minAmount"`
	ExpireTime time.Time  `json:"expireTime"`
	Status     string     `json:"status"`
	ReceivedAt time.Time  `json:"receivedAt"`
	UsedAt     *time.Time `json:"usedAt,omitempty"`
}

func toUserCouponView(uc domain.UserCoupon) userCouponView {
	return userCouponView{
		ID:         uc.ID,
		CouponID:   uc.CouponID,
		Name:       uc.Name,
		Amount:     domain.FormatCents(uc.AmountCents),
		MinAmount:  domain.FormatCents(uc.MinAmountCents),
		ExpireTime: uc.ExpiresAt,
		Status:     uc.Status,
		ReceivedAt: uc.ReceivedAt,
		UsedAt:     uc.UsedAt,
	}
}

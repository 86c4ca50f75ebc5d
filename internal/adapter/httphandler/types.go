package httphandler

import (
	"time"

	"github.com/botifalho/storefront/internal/core/domain"
)

type (
	Product struct {
		ProductID     string `json:"product_id"`
		Name          string `json:"name"`
		Category      string `json:"category"`
		UnitPrice     string `json:"unit_price"`
		StockQuantity int    `json:"stock_quantity"`
		Status        string `json:"status"`
	}

	StoreProductRequest struct {
		ProductID     string `json:"product_id"`
		Name          string `json:"name"`
		Category      string `json:"category"`
		UnitPrice     string `json:"unit_price"`
		StockQuantity int    `json:"stock_quantity"`
		Status        string `json:"status"`
	}

	AdjustStockRequest struct {
		Delta int `json:"delta"`
	}
)

type (
	AddCartItemRequest struct {
		ProductID string `json:"product_id"`
		Quantity  int    `json:"quantity"`
	}

	CartLine struct {
		ProductID string `json:"product_id"`
		Name      string `json:"name"`
		UnitPrice string `json:"unit_price"`
		Quantity  int    `json:"quantity"`
	}

	CartResponse struct {
		Lines []CartLine `json:"lines"`
		Total string     `json:"total"`
	}
)

type (
	CardFields struct {
		Number string `json:"number"`
		Holder string `json:"holder"`
		Expiry string `json:"expiry"`
		CVC    string `json:"cvc"`
	}

	CheckoutRequest struct {
		PaymentMethod string     `json:"payment_method"`
		Card          CardFields `json:"card"`
	}

	OrderLine struct {
		ProductID string `json:"product_id"`
		Name      string `json:"name"`
		UnitPrice string `json:"unit_price"`
		Quantity  int    `json:"quantity"`
	}

	OrderResponse struct {
		OrderID       string      `json:"order_id"`
		Lines         []OrderLine `json:"lines"`
		Total         string      `json:"total"`
		PaymentMethod string      `json:"payment_method"`
		CreatedAt     time.Time   `json:"created_at"`
	}

	LineError struct {
		ProductID string `json:"product_id"`
		Reason    string `json:"reason"`
	}

	ErrorResponse struct {
		Error string      `json:"error"`
		Field string      `json:"field,omitempty"`
		Lines []LineError `json:"lines,omitempty"`
	}
)

func toProductResponse(p domain.Product) Product {
	return Product{
		ProductID:     p.ProductID,
		Name:          p.Name,
		Category:      p.Category,
		UnitPrice:     p.UnitPrice.StringFixed(2),
		StockQuantity: p.StockQuantity,
		Status:        string(p.Status),
	}
}

func toCartLineResponse(l domain.CartLine) CartLine {
	return CartLine{
		ProductID: l.ProductID,
		Name:      l.Name,
		UnitPrice: l.UnitPrice.StringFixed(2),
		Quantity:  l.Quantity,
	}
}

func toOrderResponse(o domain.Order) OrderResponse {
	lines := make([]OrderLine, len(o.Lines))
	for i, l := range o.Lines {
		lines[i] = OrderLine{
			ProductID: l.ProductID,
			Name:      l.Name,
			UnitPrice: l.UnitPrice.StringFixed(2),
			Quantity:  l.Quantity,
		}
	}
	return OrderResponse{
		OrderID:       o.OrderID,
		Lines:         lines,
		Total:         o.Total.StringFixed(2),
		PaymentMethod: string(o.PaymentMethod),
		CreatedAt:     o.CreatedAt,
	}
}

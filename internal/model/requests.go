package model

import "github.com/shopspring/decimal"

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse mirrors the panel's legacy auth contract: success plus
// user_id, or success=false plus a message.
type AuthResponse struct {
	Success bool   `json:"success"`
	UserID  int    `json:"user_id,omitempty"`
	Message string `json:"message,omitempty"`
}

type NewOrderRequest struct {
	ServiceID string `json:"service_id"`
	Link      string `json:"link"`
	Quantity  int    `json:"quantity"`
}

type DepositRequest struct {
	Method string          `json:"method"`
	Amount decimal.Decimal `json:"amount"`
}

type NewTicketRequest struct {
	Subject string `json:"subject"`
	Message string `json:"message"`
}

type TicketReplyRequest struct {
	Message string `json:"message"`
}

type OrderStatusRequest struct {
	Status OrderStatus `json:"status"`
}

type CreditRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

package http

import (
	"github.com/tuanvumaihuynh/catalog-pricing/internal/model"
)

type ProductResponse struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	Image  string `json:"image"`
	Price  string `json:"price"`
	Status string `json:"status"`
}

func toProductResponse(p model.Product) ProductResponse {
	return ProductResponse{
		ID:     p.ID(),
		Title:  p.Title(),
		Image:  p.Image(),
		Price:  p.Price().String(),
		Status: string(p.Status()),
	}
}

// PriceRequest carries the raw text typed by the user. It has no validation
// tags: the price rules alone judge the text, and a missing price is the empty
// string, which they reject as malformed.
type PriceRequest struct {
	Price string `json:"price"`
}

type UpdatePriceResponse struct {
	Product ProductResponse `json:"product"`
	Message string          `json:"message"`
}

type ValidatePriceResponse struct {
	Valid   bool    `json:"valid"`
	Message *string `json:"message,omitempty"`
}

type UserResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	IsAdmin bool   `json:"is_admin"`
}

func toUserResponse(u model.User) UserResponse {
	return UserResponse{
		ID:      u.ID,
		Name:    u.Name,
		IsAdmin: u.IsAdmin,
	}
}

type SelectUserRequest struct {
	UserID string `json:"user_id" validate:"notblank"`
}

type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

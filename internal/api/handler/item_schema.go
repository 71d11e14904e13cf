package handler

import (
	"time"

	"github.com/reclaimhq/lostfound-system/internal/core/domain"
	"github.com/reclaimhq/lostfound-system/internal/core/ports"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request types ---

type postItemRequest struct {
	Type          string `json:"type"           validate:"required,oneof=lost found"`
	Title         string `json:"title"          validate:"required,max=200"`
	Description   string `json:"description"    validate:"required,min=10"`
	Category      string `json:"category"       validate:"required"`
	Location      string `json:"location"       validate:"required,max=200"`
	DateOccurred  string `json:"date_occurred,omitempty"` // YYYY-MM-DD
	ImageFilename string `json:"image_filename,omitempty"`
}

// updateItemRequest names the only fields a PATCH may touch. Absent fields
// are left unchanged.
type updateItemRequest struct {
	Status        *string `json:"status,omitempty"`
	Description   *string `json:"description,omitempty"`
	ImageFilename *string `json:"image_filename,omitempty"`
}

// --- Response types ---
// Owned by the transport layer so the JSON contract is not coupled to
// internal service changes.

type itemResponse struct {
	ID            string     `json:"id"`
	Type          string     `json:"type"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Category      string     `json:"category"`
	Location      string     `json:"location"`
	DateOccurred  *time.Time `json:"date_occurred,omitempty"`
	ImageFilename string     `json:"image_filename,omitempty"`
	OwnerID       string     `json:"owner_id"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
}

// postItemResponse reports the created item; fanout_failures surfaces the
// best-effort notification fan-out as a non-fatal warning.
type postItemResponse struct {
	Item           itemResponse `json:"item"`
	FanoutFailures int          `json:"fanout_failures,omitempty"`
}

type paginationResponse struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

type listItemsResponse struct {
	Data       []itemResponse     `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}

func toItemResponse(item *domain.Item) itemResponse {
	return itemResponse{
		ID:            item.ID,
		Type:          string(item.Type),
		Title:         item.Title,
		Description:   item.Description,
		Category:      item.Category,
		Location:      item.Location,
		DateOccurred:  item.DateOccurred,
		ImageFilename: item.ImageFilename,
		OwnerID:       item.OwnerID,
		Status:        string(item.Status),
		CreatedAt:     item.CreatedAt,
	}
}

func toListResponse(r *ports.SearchItemsResult) listItemsResponse {
	data := make([]itemResponse, 0, len(r.Items))
	for _, item := range r.Items {
		data = append(data, toItemResponse(item))
	}
	return listItemsResponse{
		Data: data,
		Pagination: paginationResponse{
			Total:      r.Total,
			Page:       r.Page,
			Limit:      r.Limit,
			TotalPages: r.TotalPages,
		},
	}
}

package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/reclaimhq/lostfound-system/internal/core/ports"
)

// ItemHandler handles HTTP requests for listings.
type ItemHandler struct {
	service ports.ItemService
}

func NewItemHandler(service ports.ItemService) *ItemHandler {
	return &ItemHandler{service: service}
}

// Create handles POST /v1/items.
//
// @Summary      Post a lost or found item
// @Tags         items
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      postItemRequest  true  "Item details"
// @Success      201   {object}  postItemResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/items [post]
func (h *ItemHandler) Create(c echo.Context) error {
	var req postItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var dateOccurred *time.Time
	if req.DateOccurred != "" {
		d, err := time.Parse("2006-01-02", req.DateOccurred)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnprocessableEntity, "date_occurred must be YYYY-MM-DD")
		}
		dateOccurred = &d
	}

	result, err := h.service.PostItem(c.Request().Context(), ports.ItemDraft{
		Type:          req.Type,
		Title:         req.Title,
		Description:   req.Description,
		Category:      req.Category,
		Location:      req.Location,
		DateOccurred:  dateOccurred,
		ImageFilename: req.ImageFilename,
		OwnerID:       userID,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, postItemResponse{
		Item:           toItemResponse(result.Item),
		FanoutFailures: result.FanoutFailures,
	})
}

// Get handles GET /v1/items/:id.
//
// @Summary      Get a single item
// @Tags         items
// @Produce      json
// @Param        id   path      string  true  "Item id (e.g. 3f9c01ab)"
// @Success      200  {object}  itemResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/items/{id} [get]
func (h *ItemHandler) Get(c echo.Context) error {
	item, err := h.service.GetItem(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toItemResponse(item))
}

// List handles GET /v1/items — the public browse/search endpoint.
//
// @Summary      Browse and search items
// @Tags         items
// @Produce      json
// @Param        type      query     string  false  "lost or found"
// @Param        category  query     string  false  "Category filter"
// @Param        status    query     string  false  "active or resolved"
// @Param        q         query     string  false  "Substring search over title, description, location"
// @Param        page      query     int     false  "Page (1-based)"
// @Param        limit     query     int     false  "Page size (max 100)"
// @Success      200  {object}  listItemsResponse
// @Router       /v1/items [get]
func (h *ItemHandler) List(c echo.Context) error {
	result, err := h.service.SearchItems(c.Request().Context(), ports.SearchItemsInput{
		Type:     c.QueryParam("type"),
		Category: c.QueryParam("category"),
		Status:   c.QueryParam("status"),
		Query:    c.QueryParam("q"),
		Page:     intQueryParam(c, "page"),
		Limit:    intQueryParam(c, "limit"),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListResponse(result))
}

// ListMine handles GET /v1/items/mine — the owner's dashboard listing.
//
// @Summary      List the authenticated user's items
// @Tags         items
// @Produce      json
// @Security     BearerAuth
// @Param        type    query     string  false  "lost or found"
// @Param        status  query     string  false  "active or resolved"
// @Success      200  {object}  listItemsResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/items/mine [get]
func (h *ItemHandler) ListMine(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	result, err := h.service.SearchItems(c.Request().Context(), ports.SearchItemsInput{
		Type:    c.QueryParam("type"),
		Status:  c.QueryParam("status"),
		OwnerID: userID,
		Page:    intQueryParam(c, "page"),
		Limit:   intQueryParam(c, "limit"),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListResponse(result))
}

// Update handles PATCH /v1/items/:id.
//
// @Summary      Update an item's mutable fields
// @Tags         items
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Item id"
// @Param        body  body      updateItemRequest  true  "Fields to change"
// @Success      200   {object}  itemResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/items/{id} [patch]
func (h *ItemHandler) Update(c echo.Context) error {
	var req updateItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	item, err := h.service.UpdateItem(c.Request().Context(), c.Param("id"), ports.UpdateItemInput{
		Status:        req.Status,
		Description:   req.Description,
		ImageFilename: req.ImageFilename,
	}, userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toItemResponse(item))
}

// Delete handles DELETE /v1/items/:id.
//
// @Summary      Delete an item
// @Tags         items
// @Security     BearerAuth
// @Param        id  path  string  true  "Item id"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/items/{id} [delete]
func (h *ItemHandler) Delete(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	if err := h.service.DeleteItem(c.Request().Context(), c.Param("id"), userID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func intQueryParam(c echo.Context, name string) int {
	n, err := strconv.Atoi(c.QueryParam(name))
	if err != nil {
		return 0
	}
	return n
}

package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/reclaimhq/lostfound-system/internal/infrastructure/storage"
)

// UploadHandler accepts item photos. The stored filename it returns is the
// opaque string the item endpoints carry around; the bytes never enter the core.
type UploadHandler struct {
	store *storage.LocalStore
}

func NewUploadHandler(store *storage.LocalStore) *UploadHandler {
	return &UploadHandler{store: store}
}

type uploadResponse struct {
	Filename string `json:"filename"`
}

// Upload handles POST /v1/uploads (multipart form, field "image").
//
// @Summary      Upload an item photo
// @Tags         uploads
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        image  formData  file  true  "Image file (png, jpg, jpeg, gif, webp; max 16 MiB)"
// @Success      201  {object}  uploadResponse
// @Failure      400  {object}  errorResponse
// @Failure      413  {object}  errorResponse
// @Failure      422  {object}  errorResponse
// @Router       /v1/uploads [post]
func (h *UploadHandler) Upload(c echo.Context) error {
	fh, err := c.FormFile("image")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "image file is required")
	}

	src, err := fh.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "cannot read uploaded file")
	}
	defer src.Close()

	name, err := h.store.Save(fh.Filename, src)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrDisallowedExtension):
			return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, storage.ErrTooLarge):
			return echo.NewHTTPError(http.StatusRequestEntityTooLarge, err.Error())
		}
		return err
	}

	return c.JSON(http.StatusCreated, uploadResponse{Filename: name})
}

package handler

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/ewaste/internal/cache"
	"github.com/GTDGit/ewaste/internal/middleware"
	"github.com/GTDGit/ewaste/internal/service"
	"github.com/GTDGit/ewaste/internal/utils"
	"github.com/GTDGit/ewaste/internal/view"
)

func init() {
	// Report validation failures by form field name rather than Go field name.
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	}
}

// InventoryHandler serves the listing page and its form actions.
type InventoryHandler struct {
	inventory *service.InventoryService
	flashes   *cache.FlashStore
}

// NewInventoryHandler constructs an InventoryHandler.
func NewInventoryHandler(inventory *service.InventoryService, flashes *cache.FlashStore) *InventoryHandler {
	return &InventoryHandler{inventory: inventory, flashes: flashes}
}

// Index handles GET /
func (h *InventoryHandler) Index(c *gin.Context) {
	products, err := h.inventory.List(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Str("request_id", utils.RequestID(c)).Msg("Failed to list products")
		utils.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to retrieve products")
		return
	}

	// Flashes are consumed only once the page is certain to render.
	var flashes []cache.Flash
	if sid := middleware.SessionID(c); sid != "" {
		flashes, err = h.flashes.Pop(c.Request.Context(), sid)
		if err != nil {
			log.Warn().Err(err).Str("session_id", sid).Msg("Failed to read flash messages")
		}
	}

	c.HTML(http.StatusOK, view.IndexTemplate, gin.H{
		"Products": products,
		"Flashes":  flashes,
	})
}

// Insert handles POST /insert
func (h *InventoryHandler) Insert(c *gin.Context) {
	var form service.ProductForm
	if err := c.ShouldBind(&form); err != nil {
		bindingError(c, err)
		return
	}

	if _, err := h.inventory.Create(c.Request.Context(), &form); err != nil {
		if errors.Is(err, utils.ErrInvalidRequest) {
			utils.Error(c, http.StatusBadRequest, "INVALID_REQUEST", reason(err, utils.ErrInvalidRequest))
			return
		}
		log.Error().Err(err).Str("request_id", utils.RequestID(c)).Msg("Failed to insert product")
		h.flash(c, cache.FlashError, "Failed to insert data")
	} else {
		h.flash(c, cache.FlashSuccess, "Data Inserted Successfully")
	}

	c.Redirect(http.StatusSeeOther, "/")
}

// Update handles GET|POST /update
func (h *InventoryHandler) Update(c *gin.Context) {
	var form service.UpdateProductForm
	if err := c.ShouldBind(&form); err != nil {
		bindingError(c, err)
		return
	}

	p, found, err := h.inventory.Update(c.Request.Context(), &form)
	switch {
	case errors.Is(err, utils.ErrInvalidID):
		utils.Error(c, http.StatusBadRequest, "INVALID_ID", reason(err, utils.ErrInvalidID))
		return
	case errors.Is(err, utils.ErrInvalidRequest):
		utils.Error(c, http.StatusBadRequest, "INVALID_REQUEST", reason(err, utils.ErrInvalidRequest))
		return
	case err != nil:
		log.Error().Err(err).Str("request_id", utils.RequestID(c)).Str("id", form.ID).Msg("Failed to update product")
		h.flash(c, cache.FlashError, "Failed to update data")
	case !found:
		h.flash(c, cache.FlashInfo, fmt.Sprintf("No record found with id %d", p.ID))
	default:
		h.flash(c, cache.FlashSuccess, "Data Updated Successfully")
	}

	c.Redirect(http.StatusSeeOther, "/")
}

// Delete handles GET|POST /delete/:id
func (h *InventoryHandler) Delete(c *gin.Context) {
	id, err := service.ParseID(c.Param("id"))
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID")
		return
	}

	deleted, err := h.inventory.Delete(c.Request.Context(), id)
	switch {
	case err != nil:
		log.Error().Err(err).Str("request_id", utils.RequestID(c)).Int64("id", id).Msg("Failed to delete product")
		h.flash(c, cache.FlashError, "Failed to delete data")
	case !deleted:
		h.flash(c, cache.FlashInfo, fmt.Sprintf("No record found with id %d", id))
	default:
		h.flash(c, cache.FlashSuccess, "Data Deleted Successfully")
	}

	c.Redirect(http.StatusSeeOther, "/")
}

// flash queues a message for the next render. Losing it is logged but does
// not fail the request: the write it describes has already happened.
func (h *InventoryHandler) flash(c *gin.Context, category cache.FlashCategory, message string) {
	sid := middleware.SessionID(c)
	if sid == "" {
		return
	}
	if err := h.flashes.Add(c.Request.Context(), sid, cache.Flash{Category: category, Message: message}); err != nil {
		log.Warn().Err(err).Str("session_id", sid).Str("message", message).Msg("Failed to store flash message")
	}
}

// bindingError writes a 400 naming the first offending form field.
func bindingError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		utils.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}

	fe := verrs[0]
	code := "INVALID_REQUEST"
	if fe.Field() == "id" && fe.Tag() != "required" {
		code = "INVALID_ID"
	}

	var msg string
	switch fe.Tag() {
	case "required":
		msg = fmt.Sprintf("%s is required", fe.Field())
	case "number":
		msg = fmt.Sprintf("%s must be a non-negative whole number", fe.Field())
	case "datetime":
		msg = fmt.Sprintf("%s must be a date (YYYY-MM-DD)", fe.Field())
	default:
		msg = fmt.Sprintf("%s is invalid", fe.Field())
	}
	utils.Error(c, http.StatusBadRequest, code, msg)
}

func reason(err, sentinel error) string {
	return strings.TrimPrefix(err.Error(), sentinel.Error()+": ")
}

package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/mood-tracker/internal/api/dto"
	"github.com/spec-kit/mood-tracker/internal/auth"
	"github.com/spec-kit/mood-tracker/internal/service"
	apperrors "github.com/spec-kit/mood-tracker/pkg/util/errorutil"
)

// MoodsHandler manages mood entry endpoints. The acting user id always comes
// from the authenticated principal, never from the request.
type MoodsHandler struct {
	entries *service.EntryService
}

// NewMoodsHandler constructs handler.
func NewMoodsHandler(entryService *service.EntryService) *MoodsHandler {
	return &MoodsHandler{entries: entryService}
}

// Create POST /moods.
func (h *MoodsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.EntryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	entry, err := h.entries.Create(c.Context(), principal.User.ID, req.Mood, req.Note)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.EntryMutationResponse{
		Message: "mood entry created successfully",
		Entry:   dto.NewEntryResponse(entry),
	})
}

// List GET /moods.
func (h *MoodsHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)

	result, err := h.entries.List(c.Context(), principal.User.ID, page, limit)
	if err != nil {
		return err
	}

	items := make([]dto.EntryResponse, 0, len(result.Entries))
	for i := range result.Entries {
		items = append(items, dto.NewEntryResponse(&result.Entries[i]))
	}
	return c.JSON(dto.EntryListResponse{
		Entries:     items,
		TotalCount:  result.TotalCount,
		CurrentPage: result.CurrentPage,
		TotalPages:  result.TotalPages,
		Today:       result.Today,
	})
}

// Update PUT /moods/:id.
func (h *MoodsHandler) Update(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.EntryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	entry, err := h.entries.Update(c.Context(), principal.User.ID, c.Params("id"), req.Mood, req.Note)
	if err != nil {
		return err
	}
	return c.JSON(dto.EntryMutationResponse{
		Message: "mood entry updated successfully",
		Entry:   dto.NewEntryResponse(entry),
	})
}

// Delete DELETE /moods/:id.
func (h *MoodsHandler) Delete(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}

	if err := h.entries.Delete(c.Context(), principal.User.ID, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "mood entry deleted successfully"})
}

// Analytics GET /moods/analytics.
func (h *MoodsHandler) Analytics(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}

	analytics, err := h.entries.Analytics(c.Context(), principal.User.ID)
	if err != nil {
		return err
	}
	return c.JSON(dto.AnalyticsResponse{
		MoodCounts: analytics.MoodCounts,
		Today:      analytics.Today,
	})
}

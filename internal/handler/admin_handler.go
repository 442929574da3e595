package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"gatehouse/internal/errors"
	"gatehouse/internal/service"
)

// AdminHandler handles admin approval endpoints.
type AdminHandler struct {
	adminService service.AdminService
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(adminService service.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// RejectRequest carries the optional rejection reason.
type RejectRequest struct {
	Reason string `json:"reason"`
}

// PendingUsers godoc
// @Summary List users awaiting approval, oldest first
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /admin/pending-users [get]
func (h *AdminHandler) PendingUsers(c echo.Context) error {
	users, err := h.adminService.ListPending(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, errors.ErrorResponse{
			Error: "failed to list pending users",
			Code:  "LIST_PENDING_FAILED",
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"total": len(users),
		"users": users,
	})
}

// Approve godoc
// @Summary Approve a pending user
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/approve/{id} [put]
func (h *AdminHandler) Approve(c echo.Context) error {
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}

	claims, ok := CurrentClaims(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	user, err := h.adminService.Approve(c.Request().Context(), uint(userID), claims.UserID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "User approved successfully",
		"user": UserSummary{
			ID:     user.ID,
			Email:  user.Email,
			Status: user.Status,
		},
	})
}

// Reject godoc
// @Summary Reject a pending user
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param request body RejectRequest false "Rejection reason"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/reject/{id} [put]
func (h *AdminHandler) Reject(c echo.Context) error {
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}

	claims, ok := CurrentClaims(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	var req RejectRequest
	_ = c.Bind(&req) // reason is optional

	user, err := h.adminService.Reject(c.Request().Context(), uint(userID), claims.UserID, req.Reason)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "User rejected",
		"user": UserSummary{
			ID:     user.ID,
			Email:  user.Email,
			Status: user.Status,
		},
	})
}

// Stats godoc
// @Summary Approval pipeline statistics
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /admin/stats [get]
func (h *AdminHandler) Stats(c echo.Context) error {
	stats, err := h.adminService.Stats(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, errors.ErrorResponse{
			Error: "failed to load stats",
			Code:  "STATS_FAILED",
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"stats": stats})
}

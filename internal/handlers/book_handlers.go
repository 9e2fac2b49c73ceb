package handlers

import (
	"net/http"
	"strconv"
	"time"

	"bookmart/internal/models"
	"bookmart/internal/repositories"
	"bookmart/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const downloadURLExpiry = 15 * time.Minute

// BookHandlers serves catalog reads and entitlement-gated PDF downloads.
type BookHandlers struct {
	bookRepo       repositories.BookRepository
	entitlementSvc services.EntitlementService
	storageSvc     services.BookStorageService
}

// NewBookHandlers creates a new book handlers instance
func NewBookHandlers(bookRepo repositories.BookRepository, entitlementSvc services.EntitlementService, storageSvc services.BookStorageService) *BookHandlers {
	return &BookHandlers{
		bookRepo:       bookRepo,
		entitlementSvc: entitlementSvc,
		storageSvc:     storageSvc,
	}
}

// ListBooks handles GET /v1/books
func (h *BookHandlers) ListBooks(c echo.Context) error {
	limit := 50
	if limitStr := c.QueryParam("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			limit = l
		}
	}
	offset := 0
	if offsetStr := c.QueryParam("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			offset = o
		}
	}

	books, err := h.bookRepo.List(c.Request().Context(), limit, offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list books")
	}
	if books == nil {
		books = []*models.Book{}
	}
	return c.JSON(http.StatusOK, books)
}

// GetBook handles GET /v1/books/:id
func (h *BookHandlers) GetBook(c echo.Context) error {
	bookID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid book ID")
	}

	book, err := h.bookRepo.GetByID(c.Request().Context(), bookID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load book")
	}
	if book == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Book not found")
	}
	return c.JSON(http.StatusOK, book)
}

// DownloadBook handles GET /v1/books/:id/download?user_id=...
//
// Access requires an active subscription or a recorded purchase of the
// book. The response is a short-lived presigned URL; the API never proxies
// the file itself.
func (h *BookHandlers) DownloadBook(c echo.Context) error {
	bookID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid book ID")
	}
	userID, err := uuid.Parse(c.QueryParam("user_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	ctx := c.Request().Context()

	book, err := h.bookRepo.GetByID(ctx, bookID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load book")
	}
	if book == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Book not found")
	}
	if book.PDFObjectKey == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Book has no downloadable file")
	}

	allowed, err := h.entitlementSvc.HasBookAccess(ctx, userID, bookID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to check entitlement")
	}
	if !allowed {
		return echo.NewHTTPError(http.StatusForbidden, "No active subscription or purchase for this book")
	}

	url, err := h.storageSvc.PresignedDownloadURL(ctx, *book.PDFObjectKey, downloadURLExpiry)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate download URL")
	}

	return c.JSON(http.StatusOK, map[string]string{"url": url})
}

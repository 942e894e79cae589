package documents

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"docsummary-backend/internal/shared/server/middleware"
	"docsummary-backend/internal/shared/server/respond"
	"docsummary-backend/internal/shared/storage/blob"
	"docsummary-backend/internal/users"
)

// Handler serves document listing and file download endpoints.
type Handler struct {
	Users *users.Service
	Repo  Repo
	Blob  blob.Store
}

// NewHandler constructs a Handler.
func NewHandler(usersSvc *users.Service, repo Repo, store blob.Store) *Handler {
	return &Handler{Users: usersSvc, Repo: repo, Blob: store}
}

// RegisterRoutes attaches document routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/documents", h.list)
	rg.GET("/documents/:id/file", h.downloadFile)
}

// resolveUser maps the session identity to an account. Sessions carry the
// provider subject; documents are keyed by the account id.
func (h *Handler) resolveUser(c *gin.Context) (users.User, bool) {
	email := middleware.UserEmailFromContext(c)
	if email == "" {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "authentication required", nil)
		return users.User{}, false
	}
	user, err := h.Users.GetByEmail(c.Request.Context(), email)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "no account for this session", nil)
			return users.User{}, false
		}
		respond.Error(c, http.StatusInternalServerError, "lookup_failed", "failed to load user", nil)
		return users.User{}, false
	}
	return user, true
}

func (h *Handler) list(c *gin.Context) {
	user, ok := h.resolveUser(c)
	if !ok {
		return
	}

	docs, err := h.Repo.ListByUser(c.Request.Context(), user.ID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "list_failed", "failed to list documents", nil)
		return
	}
	respond.OK(c, gin.H{"documents": docs})
}

func (h *Handler) downloadFile(c *gin.Context) {
	user, ok := h.resolveUser(c)
	if !ok {
		return
	}

	doc, err := h.Repo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "lookup_failed", "failed to load document", nil)
		return
	}
	if doc.UserID != user.ID {
		// Ownership mismatch reads the same as a missing document.
		respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
		return
	}

	body, err := h.Blob.Open(c.Request.Context(), doc.FilePath)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "read_failed", "failed to open stored file", nil)
		return
	}
	defer body.Close()

	contentType := contentTypeForExt(doc.FileType)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filepath.Base(doc.FileName)))
	c.DataFromReader(http.StatusOK, doc.SizeBytes, contentType, body, nil)
}

func contentTypeForExt(fileType string) string {
	switch fileType {
	case "pdf":
		return "application/pdf"
	case "docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case "doc":
		return "application/msword"
	case "txt":
		return "text/plain; charset=utf-8"
	default:
		return "application/octet-stream"
	}
}

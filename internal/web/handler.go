package web

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"docsummary-backend/internal/documents"
	"docsummary-backend/internal/shared/server/middleware"
	"docsummary-backend/internal/shared/server/respond"
	"docsummary-backend/internal/users"
)

// Handler serves the landing and home pages as JSON.
type Handler struct {
	Users *users.Service
	Docs  documents.Repo
}

func NewHandler(usersSvc *users.Service, docs documents.Repo) *Handler {
	return &Handler{Users: usersSvc, Docs: docs}
}

// RegisterRoutes attaches the web routes to the engine root.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/", h.index)
	r.GET("/home", h.home)
}

func (h *Handler) index(c *gin.Context) {
	respond.OK(c, gin.H{
		"name":  "docsummary",
		"login": "/api/auth/google/login",
	})
}

// home shows the signed-in user's profile and document history. Anonymous
// visitors are sent back to the landing page.
func (h *Handler) home(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	email := middleware.UserEmailFromContext(c)
	if userID == "" || email == "" {
		c.Redirect(http.StatusFound, "/")
		return
	}

	profile := gin.H{
		"email":      email,
		"name":       middleware.UserNameFromContext(c),
		"pictureUrl": middleware.UserPictureFromContext(c),
	}

	user, err := h.Users.GetByEmail(c.Request.Context(), email)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			// First visit before any upload: show the claims profile
			// with an empty history.
			respond.OK(c, gin.H{"user": profile, "documents": []documents.Document{}})
			return
		}
		respond.Error(c, http.StatusInternalServerError, "lookup_failed", "failed to load user", nil)
		return
	}

	docs, err := h.Docs.ListByUser(c.Request.Context(), user.ID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "list_failed", "failed to list documents", nil)
		return
	}

	profile["id"] = user.ID
	if user.Name != "" {
		profile["name"] = user.Name
	}
	if user.PictureURL != "" {
		profile["pictureUrl"] = user.PictureURL
	}
	respond.OK(c, gin.H{"user": profile, "documents": docs})
}

package summaries

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"docsummary-backend/internal/shared/metrics"
	"docsummary-backend/internal/shared/server/middleware"
	"docsummary-backend/internal/shared/server/respond"
	"docsummary-backend/internal/users"
)

// readLimit leaves headroom over the 50MB document cap for multipart
// framing so the size check fires before the body reader does.
const readLimit = maxUploadBytes + 1<<20

// Handler serves the upload-and-summarize endpoint. Responses are plain
// text, including the error bodies.
type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches the summary route to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/summary", h.summarize)
}

func (h *Handler) summarize(c *gin.Context) {
	started := time.Now()
	metrics.IncUploadStarted()

	sub := middleware.UserIDFromContext(c)
	if sub == "" {
		metrics.IncUploadRejected()
		respond.Text(c, http.StatusUnauthorized, MsgNotAuthenticated)
		return
	}
	email := middleware.UserEmailFromContext(c)
	if email == "" {
		metrics.IncUploadRejected()
		respond.Text(c, http.StatusUnauthorized, MsgUnableToIdentify)
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, readLimit)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		metrics.IncUploadRejected()
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond.Text(c, http.StatusBadRequest, ErrFileTooLarge.Error())
			return
		}
		respond.Text(c, http.StatusBadRequest, ErrEmptyFile.Error())
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		metrics.IncUploadRejected()
		respond.Text(c, http.StatusBadRequest, ErrEmptyFile.Error())
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		metrics.IncUploadFailed()
		respond.Text(c, http.StatusInternalServerError, "Error while processing document: "+err.Error())
		return
	}

	claims := users.Claims{
		Subject: strings.TrimPrefix(sub, "google:"),
		Email:   email,
		Name:    middleware.UserNameFromContext(c),
		Picture: middleware.UserPictureFromContext(c),
	}
	in := UploadInput{
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Size:        fileHeader.Size,
		Data:        data,
	}

	outcome, err := h.Svc.Ingest(c.Request.Context(), claims, in)
	if err != nil {
		if isValidationError(err) {
			metrics.IncUploadRejected()
			respond.Text(c, http.StatusBadRequest, err.Error())
			return
		}
		metrics.IncUploadFailed()
		respond.Text(c, http.StatusInternalServerError, "Error while processing document: "+err.Error())
		return
	}
	if outcome.Notice != "" {
		respond.Text(c, http.StatusOK, outcome.Notice)
		return
	}

	metrics.IncUploadSaved()
	metrics.ObserveUploadDurationMs(float64(time.Since(started).Milliseconds()))

	body := fmt.Sprintf("Document Saved Successfully!\n\nFile: %s\nSize: %.2f KB\nDocument ID: %s\nUser: %s\n\nAI-Generated Summary:\n%s\n",
		outcome.Document.FileName,
		float64(fileHeader.Size)/1024.0,
		outcome.Document.ID,
		outcome.UserName,
		outcome.Summary,
	)
	respond.Text(c, http.StatusOK, body)
}

func isValidationError(err error) bool {
	return errors.Is(err, ErrEmptyFile) ||
		errors.Is(err, ErrInvalidFileType) ||
		errors.Is(err, ErrFileTooLarge)
}

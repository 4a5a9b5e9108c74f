package handler

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"billdex/internal/service"
)

// FileHandler exposes upload and management of bill files.
type FileHandler struct {
	files *service.FileService
}

func NewFileHandler(files *service.FileService) *FileHandler {
	return &FileHandler{files: files}
}

// Upload accepts one multipart file under the "file" field.
func (h *FileHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "multipart field 'file' is required")
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "UNREADABLE_FILE", "could not read uploaded file")
		return
	}
	defer src.Close()

	content, err := io.ReadAll(src)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "UNREADABLE_FILE", "could not read uploaded file")
		return
	}

	meta, err := h.files.Upload(c.Request.Context(), fileHeader.Filename, content, nil)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, meta)
}

// List returns file metadata, newest first.
func (h *FileHandler) List(c *gin.Context) {
	limit, offset := pagination(c)

	files, err := h.files.List(c.Request.Context(), limit, offset)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondPaginated(c, files, PagMeta{Offset: offset, Limit: limit})
}

// Get returns one file's metadata.
func (h *FileHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid file id")
		return
	}

	meta, err := h.files.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, meta)
}

// Download returns a presigned link to the stored file.
func (h *FileHandler) Download(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid file id")
		return
	}

	url, err := h.files.GetDownloadURL(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"url": url})
}

// Delete removes the file and everything its extraction indexed.
func (h *FileHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid file id")
		return
	}

	if err := h.files.Delete(c.Request.Context(), id); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"deleted": id})
}

func pagination(c *gin.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	return limit, offset
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"billdex/internal/service"
)

// ExtractionHandler exposes the OCR extraction flow.
type ExtractionHandler struct {
	extraction *service.ExtractionService
}

func NewExtractionHandler(extraction *service.ExtractionService) *ExtractionHandler {
	return &ExtractionHandler{extraction: extraction}
}

// Extract runs extraction on an uploaded file. Images answer inline with
// the parsed bills; PDFs answer 202 with a job to poll.
func (h *ExtractionHandler) Extract(c *gin.Context) {
	fileID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid file id")
		return
	}

	result, err := h.extraction.Extract(c.Request.Context(), fileID)
	if err != nil {
		HandleError(c, err)
		return
	}

	if result.Async {
		RespondAccepted(c, result)
		return
	}
	RespondOK(c, result)
}

// GetJob returns the state of an asynchronous extraction job.
func (h *ExtractionHandler) GetJob(c *gin.Context) {
	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid job id")
		return
	}

	job, err := h.extraction.GetJob(c.Request.Context(), jobID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, job)
}

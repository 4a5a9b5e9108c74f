package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"billdex/internal/billexport"
	"billdex/internal/service"
)

// BillHandler exposes the indexed bills and their export.
type BillHandler struct {
	bills *service.BillIndexService
}

func NewBillHandler(bills *service.BillIndexService) *BillHandler {
	return &BillHandler{bills: bills}
}

// List returns indexed bills, newest first.
func (h *BillHandler) List(c *gin.Context) {
	limit, offset := pagination(c)

	entries, err := h.bills.List(c.Request.Context(), limit, offset)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondPaginated(c, entries, PagMeta{Offset: offset, Limit: limit})
}

// Export streams the whole index as CSV (default) or XLSX.
func (h *BillHandler) Export(c *gin.Context) {
	entries, err := h.bills.ListAll(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}

	stamp := time.Now().UTC().Format("2006-01-02")
	switch c.DefaultQuery("format", "csv") {
	case "csv":
		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="bills-%s.csv"`, stamp))
		c.Header("Content-Type", "text/csv; charset=utf-8")
		if err := billexport.WriteCSV(c.Writer, entries); err != nil {
			HandleError(c, err)
		}
	case "xlsx":
		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="bills-%s.xlsx"`, stamp))
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		if err := billexport.WriteXLSX(c.Writer, entries); err != nil {
			HandleError(c, err)
		}
	default:
		RespondError(c, http.StatusBadRequest, "INVALID_FORMAT", "format must be csv or xlsx")
	}
}

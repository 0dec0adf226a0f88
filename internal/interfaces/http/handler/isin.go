package handler

import (
	"context"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	applisting "github.com/obpp/dashboard/internal/application/listing"
	"github.com/obpp/dashboard/internal/domain/listing"
	"github.com/obpp/dashboard/internal/domain/shared"
	"github.com/obpp/dashboard/internal/infrastructure/spreadsheet"
	"github.com/obpp/dashboard/internal/interfaces/http/dto"
	"github.com/obpp/dashboard/internal/interfaces/http/middleware"
)

// UploadField is the multipart field carrying the workbook
const UploadField = "file"

// ListingProcessor augments uploaded workbooks and resolves bare ISIN lists
type ListingProcessor interface {
	Process(ctx context.Context, upload io.Reader) ([]byte, error)
	Resolve(ctx context.Context, isins []string) map[string]listing.Record
}

// ISINHandler serves the ISIN listing status view
type ISINHandler struct {
	BaseHandler
	processor ListingProcessor
}

// NewISINHandler creates a new ISINHandler
func NewISINHandler(processor ListingProcessor) *ISINHandler {
	return &ISINHandler{processor: processor}
}

// ProcessUpload godoc
// @ID           processIsinUpload
// @Summary      Add company name and listing status to an uploaded workbook
// @Tags         pages
// @Accept       multipart/form-data
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        file formData file true "Workbook with an ISIN column"
// @Success      200 {file} file
// @Failure      400 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Router       /pages/isin-listing-status [post]
func (h *ISINHandler) ProcessUpload(c *gin.Context) {
	header, err := c.FormFile(UploadField)
	if err != nil {
		if middleware.IsBodyTooLarge(err) {
			h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodeRequestTooLarge, "Uploaded file exceeds maximum allowed size")
			return
		}
		h.BadRequest(c, "Choose an Excel file to upload in the '"+UploadField+"' field")
		return
	}
	if !strings.EqualFold(filepath.Ext(header.Filename), ".xlsx") {
		h.HandleError(c, shared.NewValidationError("Only .xlsx files are accepted"))
		return
	}

	file, err := header.Open()
	if err != nil {
		h.HandleError(c, shared.NewParseError("Could not read the uploaded file", err))
		return
	}
	defer file.Close()

	out, err := h.processor.Process(c.Request.Context(), file)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+applisting.OutputFilename+`"`)
	c.Data(http.StatusOK, spreadsheet.XLSXContentType, out)
}

// ResolveRequest is the body of POST /isin/resolve
type ResolveRequest struct {
	ISINs []string `json:"isins" binding:"required,min=1,max=10000,dive,max=64"`
}

// Resolve godoc
// @ID           resolveIsins
// @Summary      Look up company name and listing status for ISINs
// @Tags         isin
// @Accept       json
// @Produce      json
// @Param        request body ResolveRequest true "ISINs to look up"
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Router       /isin/resolve [post]
func (h *ISINHandler) Resolve(c *gin.Context) {
	var req ResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	results := h.processor.Resolve(c.Request.Context(), req.ISINs)

	// one record per distinct ISIN, in request order
	records := make([]listing.Record, 0, len(results))
	seen := make(map[string]struct{}, len(results))
	for _, isin := range req.ISINs {
		isin = strings.TrimSpace(isin)
		if _, dup := seen[isin]; dup {
			continue
		}
		seen[isin] = struct{}{}
		if rec, ok := results[isin]; ok {
			records = append(records, rec)
		}
	}
	h.SuccessWithTotal(c, records, len(records))
}

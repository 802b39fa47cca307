package handler

import (
	"io"
	"net/http"

	"github.com/RozhkovN/inventory-api/internal/apierror"
	"github.com/RozhkovN/inventory-api/internal/service"

	"github.com/gin-gonic/gin"
)

// maxImportSize caps uploaded workbooks at 20 MiB.
const maxImportSize = 20 << 20

type ImportHandler struct{ svc service.ImportService }

func NewImportHandler(svc service.ImportService) *ImportHandler { return &ImportHandler{svc: svc} }

func (h *ImportHandler) Warehouse(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Missing file upload"))
		return
	}
	if fileHeader.Size > maxImportSize {
		c.JSON(http.StatusBadRequest, apierror.New("File too large"))
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Could not read uploaded file"))
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Could not read uploaded file"))
		return
	}

	resp, err := h.svc.ImportWarehouse(c.Request.Context(), data)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

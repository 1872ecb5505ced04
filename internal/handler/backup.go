package handler

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/muanproworks-spec/hf-frozen-food-pos/internal/apierror"
	"github.com/muanproworks-spec/hf-frozen-food-pos/internal/service"
)

// maxBackupSize caps an uploaded backup; product images are embedded in it.
const maxBackupSize = 32 << 20

type BackupHandler struct{ svc service.BackupService }

func NewBackupHandler(svc service.BackupService) *BackupHandler {
	return &BackupHandler{svc: svc}
}

// Export downloads the backup document as a JSON attachment.
func (h *BackupHandler) Export(c *gin.Context) {
	filename, data, err := h.svc.ExportFile(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	setDisposition(c, "attachment", filename)
	c.Data(http.StatusOK, "application/json", data)
}

// Import accepts the document as the raw request body or as the "file" field
// of a multipart form. ?confirm=true is required.
func (h *BackupHandler) Import(c *gin.Context) {
	raw, err := readBackupBody(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	if err := h.svc.Import(c.Request.Context(), raw, c.Query("confirm") == "true"); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func readBackupBody(c *gin.Context) ([]byte, error) {
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		fh, err := c.FormFile("file")
		if err != nil {
			return nil, fmt.Errorf("missing backup file: %w", err)
		}
		if fh.Size > maxBackupSize {
			return nil, fmt.Errorf("backup file too large")
		}
		f, err := fh.Open()
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return io.ReadAll(f)
	}
	return io.ReadAll(io.LimitReader(c.Request.Body, maxBackupSize))
}

func (h *BackupHandler) Archive(c *gin.Context) {
	resp, err := h.svc.Archive(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

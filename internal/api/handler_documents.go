package api

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UploadsRoute is the public URL prefix stored files are served under.
const UploadsRoute = "/uploads/documents"

var allowedDocumentTypes = []string{"application/pdf", "image/jpeg", "image/png"}

// UploadDocument handles POST /api/documents/upload. The file type is decided by
// content sniffing, not by the client's filename or header.
func (h *Handler) UploadDocument(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.uploads.MaxBytes+1<<20)

	fh, err := c.FormFile("file")
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "file exceeds the upload limit", "code": codeValidation})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file was sent in field \"file\"", "code": codeValidation})
		return
	}
	if fh.Size > h.uploads.MaxBytes {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("file exceeds the %d byte limit", h.uploads.MaxBytes),
			"code":  codeValidation,
		})
		return
	}

	f, err := fh.Open()
	if err != nil {
		respondError(c, fmt.Errorf("failed to open upload: %w", err))
		return
	}
	mtype, err := mimetype.DetectReader(f)
	f.Close()
	if err != nil {
		respondError(c, fmt.Errorf("failed to detect upload type: %w", err))
		return
	}
	if !mimetype.EqualsAny(mtype.String(), allowedDocumentTypes...) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "only PDF, JPEG or PNG files are accepted", "code": codeValidation})
		return
	}

	if err := os.MkdirAll(h.uploads.Dir, 0o755); err != nil {
		respondError(c, fmt.Errorf("failed to create uploads dir: %w", err))
		return
	}
	name := "doc_" + uuid.NewString() + mtype.Extension()
	if err := c.SaveUploadedFile(fh, filepath.Join(h.uploads.Dir, name)); err != nil {
		respondError(c, fmt.Errorf("failed to store upload: %w", err))
		return
	}

	publicPath := UploadsRoute + "/" + name
	h.record(c, "documents", "upload", 0, "uploaded "+name)
	c.JSON(http.StatusOK, gin.H{
		"message":   "file uploaded",
		"file_name": name,
		"file_path": publicPath,
	})
}

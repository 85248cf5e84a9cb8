package handler

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/robbertvdzon/webdemo/internal/errs"
	"github.com/robbertvdzon/webdemo/internal/middleware"
	"github.com/robbertvdzon/webdemo/internal/server"
)

const (
	uploadSuccess = "redirect:uploadSuccess"
	uploadFailure = "redirect:uploadFailure"
)

// UploadHandler accepts multipart uploads. The bytes are read and dropped.
type UploadHandler struct {
	Handler
}

func NewUploadHandler(s *server.Server) *UploadHandler {
	return &UploadHandler{
		Handler: NewHandler(s),
	}
}

// Upload handles POST /upload with form fields name and file.
func (h *UploadHandler) Upload(c echo.Context) error {
	req := c.Request()

	if err := req.ParseMultipartForm(h.server.Config.Demo.UploadMaxMemory); err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			return errs.NewUnsupportedMediaTypeError("expected multipart/form-data")
		}
		return errs.NewMalformedRequestError("invalid multipart form")
	}
	defer func() {
		_ = req.MultipartForm.RemoveAll()
	}()

	name := req.FormValue("name")
	if name == "" {
		return echo.NewBindingError("name", nil, "required field value is empty", nil)
	}

	logger := middleware.GetLogger(c).With().Str("name", name).Logger()

	fh, err := c.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			logger.Info().Msg("upload without file")
			return c.String(http.StatusOK, uploadFailure)
		}
		return errs.NewMalformedRequestError("invalid file part")
	}

	if fh.Size == 0 {
		logger.Info().Str("filename", fh.Filename).Msg("upload with empty file")
		return c.String(http.StatusOK, uploadFailure)
	}

	f, err := fh.Open()
	if err != nil {
		return errors.Wrap(err, "open uploaded file")
	}
	defer f.Close()

	n, err := io.Copy(io.Discard, f)
	if err != nil {
		return errors.Wrap(err, "read uploaded file")
	}

	logger.Info().
		Str("filename", fh.Filename).
		Int64("size_bytes", n).
		Msg("file uploaded")

	return c.String(http.StatusOK, uploadSuccess)
}

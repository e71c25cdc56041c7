package v1

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/hrygo/thinktank/server/service/docs"
	"github.com/hrygo/thinktank/store"
)

// ListDocsResponse wraps a thread's document list.
type ListDocsResponse struct {
	Docs []store.Doc `json:"docs"`
}

// PatchDocRequest toggles one document's enabled flag.
type PatchDocRequest struct {
	ID      string `json:"id"`
	Enabled *bool  `json:"enabled"`
}

// ListDocs returns the thread's documents.
func (s *APIV1Service) ListDocs(c echo.Context) error {
	threadID := threadIDParam(c)
	list, err := s.Docs.List(c.Request().Context(), threadID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list docs")
	}
	if list == nil {
		list = []store.Doc{}
	}
	return c.JSON(http.StatusOK, ListDocsResponse{Docs: list})
}

// UploadDoc ingests one multipart file upload as a thread document.
func (s *APIV1Service) UploadDoc(c echo.Context) error {
	threadID := threadIDParam(c)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "file required")
	}
	file, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "failed to open uploaded file")
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "failed to read uploaded file")
	}

	doc, err := s.Docs.Ingest(c.Request().Context(), threadID, fileHeader.Filename, data)
	if err != nil {
		if errors.Is(err, docs.ErrPDFUnsupported) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		s.Logger.Error("doc ingestion failed",
			slog.String("thread_id", threadID),
			slog.String("error", err.Error()))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to ingest document")
	}
	return c.JSON(http.StatusOK, map[string]any{"ok": true, "doc": doc})
}

// PatchDoc toggles one document's enabled flag.
func (s *APIV1Service) PatchDoc(c echo.Context) error {
	threadID := threadIDParam(c)

	var req PatchDocRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.ID == "" || req.Enabled == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "id and enabled required")
	}

	if err := s.Docs.SetEnabled(c.Request().Context(), threadID, req.ID, *req.Enabled); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to update document")
	}
	return c.JSON(http.StatusOK, map[string]any{"ok": true})
}

// ClearDocs removes all documents from the thread.
func (s *APIV1Service) ClearDocs(c echo.Context) error {
	threadID := threadIDParam(c)
	if err := s.Docs.Clear(c.Request().Context(), threadID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to clear documents")
	}
	return c.JSON(http.StatusOK, map[string]any{"ok": true})
}

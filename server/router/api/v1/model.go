package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hrygo/thinktank/plugin/llm"
)

// ListModelsResponse carries the gateway's model catalog. A failed upstream
// listing degrades to an empty list with an error string rather than a
// non-200 status, so clients can fall back to their built-in defaults.
type ListModelsResponse struct {
	Models []llm.ModelInfo `json:"models"`
	Error  string          `json:"error,omitempty"`
}

// ListModels returns the models available through the gateway.
func (s *APIV1Service) ListModels(c echo.Context) error {
	models, err := s.Gateway.ListModels(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusOK, ListModelsResponse{Models: []llm.ModelInfo{}, Error: err.Error()})
	}
	if models == nil {
		models = []llm.ModelInfo{}
	}
	return c.JSON(http.StatusOK, ListModelsResponse{Models: models})
}

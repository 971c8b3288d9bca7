package api

import (
	"log/slog"
	"net/http"

	"github.com/graphql-go/graphql"
	"github.com/labstack/echo/v4"
)

// Handler serves the GraphQL endpoint. All domain failures come back
// inside the envelope with HTTP 200; only internal faults and malformed
// requests surface as non-200 statuses.
type Handler struct {
	schema graphql.Schema
	log    *slog.Logger
}

func NewHandler(schema graphql.Schema, log *slog.Logger) *Handler {
	return &Handler{schema: schema, log: log}
}

// Register mounts the API routes.
func (h *Handler) Register(e *echo.Echo) {
	e.POST("/graphql", h.GraphQL)
	e.GET("/health", h.Health)
}

type graphqlRequest struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

func (h *Handler) GraphQL(c echo.Context) error {
	var body graphqlRequest
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}
	if body.Query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query must not be empty")
	}

	result := graphql.Do(graphql.Params{
		Schema:         h.schema,
		RequestString:  body.Query,
		OperationName:  body.OperationName,
		VariableValues: body.Variables,
		Context:        c.Request().Context(),
	})

	status := http.StatusOK
	for _, gqlErr := range result.Errors {
		if gqlErr.Message == errInternal.Error() {
			status = http.StatusInternalServerError
			break
		}
	}
	return c.JSON(status, result)
}

func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

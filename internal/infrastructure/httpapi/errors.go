package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/felixgeelhaar/expenseflow/internal/domain/workflow"
)

// statusForError maps the workflow error taxonomy onto HTTP status codes.
// Business-rule rejections keep their deterministic codes; only store
// failures surface as 503 so the boundary may retry them.
func statusForError(err error) int {
	switch {
	case errors.Is(err, workflow.ErrInvalidDecision):
		return http.StatusBadRequest
	case errors.Is(err, workflow.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, workflow.ErrInvalidState):
		return http.StatusConflict
	case errors.Is(err, workflow.ErrExpenseNotFound), errors.Is(err, workflow.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, workflow.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, err error) {
	status := statusForError(err)
	body := gin.H{"error": err.Error()}
	if status == http.StatusInternalServerError {
		// Do not leak internals on unexpected failures.
		body = gin.H{"error": "internal error"}
	}
	c.JSON(status, body)
}

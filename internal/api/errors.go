package api

import (
	"context"
	"net/http"

	"github.com/example/admin-dashboard/internal/controller"
	"github.com/example/admin-dashboard/internal/query"
	"github.com/example/admin-dashboard/internal/resource"
	"github.com/example/admin-dashboard/internal/view"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type ErrorResponse struct {
	Error    string             `json:"error"`
	Kind     resource.ErrorKind `json:"kind,omitempty"`
	Resource string             `json:"resource,omitempty"`
}

func respondError(c *gin.Context, log logrus.FieldLogger, err error) {
	var fe *resource.FetchError
	switch {
	case errors.As(err, &fe):
		log.WithError(err).Warn("Upstream fetch failed")
		c.JSON(http.StatusBadGateway, ErrorResponse{
			Error:    fe.UserMessage(),
			Kind:     fe.Kind,
			Resource: fe.Resource,
		})
	case errors.Is(err, controller.ErrViewNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, controller.ErrUnknownResource),
		errors.Is(err, query.ErrUnknownResource),
		errors.Is(err, controller.ErrInvalidPageSize),
		errors.Is(err, controller.ErrInvalidPage),
		errors.Is(err, controller.ErrInvalidPrice),
		errors.Is(err, view.ErrUnknownSortKey),
		errors.Is(err, errProductsOnly):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusGatewayTimeout, ErrorResponse{Error: "Request timed out"})
	default:
		log.WithError(err).Error("Unhandled error")
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
	}
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message})
}

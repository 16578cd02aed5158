package api

import (
	"net/http"

	"github.com/example/admin-dashboard/internal/controller"
	"github.com/example/admin-dashboard/internal/query"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type Handlers struct {
	queryHandler *query.Handler
	views        *controller.Registry
	log          *logrus.Entry
}

func NewHandlers(queryHandler *query.Handler, views *controller.Registry, logger *logrus.Logger) *Handlers {
	return &Handlers{
		queryHandler: queryHandler,
		views:        views,
		log:          logger.WithField("component", "api"),
	}
}

type viewResponse struct {
	ID       string `json:"id,omitempty"`
	Resource string `json:"resource"`
	State    any    `json:"state"`
	Result   any    `json:"result"`
}

type createViewRequest struct {
	Resource string `json:"resource" binding:"required"`
}

func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Resource Handlers

func (h *Handlers) ListResources(c *gin.Context) {
	c.JSON(http.StatusOK, h.queryHandler.Resources())
}

func (h *Handlers) RefreshResource(c *gin.Context) {
	name := c.Param("name")
	if err := h.queryHandler.Refresh(c.Request.Context(), name); err != nil {
		respondError(c, h.log.WithField("resource", name), err)
		return
	}
	h.log.Infof("Resource %s refreshed", name)
	c.JSON(http.StatusOK, h.summary(name))
}

// Collection returns a stateless view of one resource: the query string is
// applied to a fresh controller and the result is discarded afterwards.
func (h *Handlers) Collection(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var patch viewPatch
		if err := c.ShouldBindQuery(&patch); err != nil {
			badRequest(c, "Invalid query parameters: "+err.Error())
			return
		}

		v, err := controller.NewView(name)
		if err != nil {
			respondError(c, h.log, err)
			return
		}

		// mount first so the first-load price ceiling is settled before
		// the query string is applied
		ctx := c.Request.Context()
		if _, err := h.queryHandler.View(ctx, v); err != nil {
			respondError(c, h.log.WithField("resource", name), err)
			return
		}
		if err := patch.apply(ctx, v, h.queryHandler.MaxPrice, true); err != nil {
			respondError(c, h.log.WithField("resource", name), err)
			return
		}
		result, err := h.queryHandler.View(ctx, v)
		if err != nil {
			respondError(c, h.log.WithField("resource", name), err)
			return
		}
		c.JSON(http.StatusOK, viewResponse{Resource: name, State: viewState(v), Result: result})
	}
}

// View session Handlers

func (h *Handlers) CreateView(c *gin.Context) {
	var req createViewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}

	v, err := h.views.Create(req.Resource)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	v.Lock()
	defer v.Unlock()
	result, err := h.queryHandler.View(c.Request.Context(), v)
	if err != nil {
		// a view that never rendered is not kept
		_ = h.views.Delete(v.ID)
		respondError(c, h.log.WithField("resource", v.Resource), err)
		return
	}

	h.log.Infof("View %s created for %s", v.ID, v.Resource)
	c.JSON(http.StatusCreated, viewResponse{ID: v.ID, Resource: v.Resource, State: viewState(v), Result: result})
}

func (h *Handlers) GetView(c *gin.Context) {
	v, err := h.views.Get(c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	v.Lock()
	defer v.Unlock()
	h.render(c, v)
}

func (h *Handlers) UpdateView(c *gin.Context) {
	v, err := h.views.Get(c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	var patch viewPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}

	v.Lock()
	defer v.Unlock()
	if err := patch.apply(c.Request.Context(), v, h.queryHandler.MaxPrice, false); err != nil {
		respondError(c, h.log.WithField("view_id", v.ID), err)
		return
	}
	h.render(c, v)
}

func (h *Handlers) DeleteView(c *gin.Context) {
	id := c.Param("id")
	if err := h.views.Delete(id); err != nil {
		respondError(c, h.log, err)
		return
	}
	h.log.Infof("View %s deleted", id)
	c.Status(http.StatusNoContent)
}

// Helper functions

func (h *Handlers) render(c *gin.Context, v *controller.View) {
	result, err := h.queryHandler.View(c.Request.Context(), v)
	if err != nil {
		respondError(c, h.log.WithField("view_id", v.ID), err)
		return
	}
	c.JSON(http.StatusOK, viewResponse{ID: v.ID, Resource: v.Resource, State: viewState(v), Result: result})
}

func (h *Handlers) summary(name string) any {
	for _, s := range h.queryHandler.Resources() {
		if s.Name == name {
			return s
		}
	}
	return nil
}

func viewState(v *controller.View) any {
	if p := v.Products(); p != nil {
		return p.State()
	}
	return v.List().State()
}

package handlers

import (
	"errors"
	"net/http"

	"github.com/dropDatabas3/maildesk/internal/app"
	httperrors "github.com/dropDatabas3/maildesk/internal/http/errors"
	"github.com/dropDatabas3/maildesk/internal/http/helpers"
	"github.com/dropDatabas3/maildesk/internal/observability/logger"
	"github.com/dropDatabas3/maildesk/internal/store"
)

type CreateTemplateRequest struct {
	Name    string `json:"name"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// NewListTemplatesHandler lista la colección en orden de inserción.
func NewListTemplatesHandler(c *app.Container) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tpls := c.Store.Templates()
		if tpls == nil {
			tpls = []store.Template{}
		}
		helpers.WriteJSON(w, http.StatusOK, map[string][]store.Template{"templates": tpls})
	}
}

// NewCreateTemplateHandler agrega un template al final de la colección.
func NewCreateTemplateHandler(c *app.Container) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateTemplateRequest
		if !helpers.ReadJSON(w, r, &req) {
			return
		}
		if req.Name == "" || req.Subject == "" || req.Body == "" {
			httperrors.WriteError(w, httperrors.ErrMissingFields.WithDetail("name, subject and body are required"))
			return
		}

		tpl, err := c.Store.CreateTemplate(req.Name, req.Subject, req.Body)
		if err != nil {
			httperrors.WriteError(w, err)
			return
		}

		logger.From(r.Context()).Info("template created", logger.ID(tpl.ID))
		helpers.WriteJSON(w, http.StatusCreated, map[string]store.Template{"template": tpl})
	}
}

// NewDeleteTemplateHandler remueve un template por id (query parameter).
func NewDeleteTemplateHandler(c *app.Container) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Query().Get("id")
		if id == "" {
			httperrors.WriteError(w, httperrors.ErrMissingFields.WithDetail("template id is required"))
			return
		}

		if err := c.Store.DeleteTemplate(id); err != nil {
			if errors.Is(err, store.ErrTemplateNotFound) {
				httperrors.WriteError(w, httperrors.ErrTemplateNotFound)
				return
			}
			httperrors.WriteError(w, err)
			return
		}

		logger.From(r.Context()).Info("template deleted", logger.ID(id))
		helpers.WriteJSON(w, http.StatusOK, map[string]string{
			"message": "Template deleted successfully",
		})
	}
}

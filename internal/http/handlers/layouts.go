package handlers

import (
	"net/http"

	"server/internal/template"
)

// LayoutsList returns the fixed layout catalog.
func (a *App) LayoutsList(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]any{"layouts": template.Catalog()})
}

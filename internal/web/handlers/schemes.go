package handlers

import (
	"net/http"

	"github.com/NaanProphet/sanscript/internal/scheme"
	"github.com/NaanProphet/sanscript/internal/transliteration"
	"github.com/samber/lo"
)

type SchemesHandler struct {
	tr *transliteration.Transliterator
}

func NewSchemesHandler(tr *transliteration.Transliterator) *SchemesHandler {
	return &SchemesHandler{tr: tr}
}

type schemeResponse struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
}

func (h *SchemesHandler) List(w http.ResponseWriter, r *http.Request) {
	data := lo.Map(h.tr.Schemes(), func(name string, _ int) schemeResponse {
		kind := scheme.Brahmic
		if h.tr.IsRomanScheme(name) {
			kind = scheme.Roman
		}
		return schemeResponse{Name: name, Kind: kind.String()}
	})

	if q := r.URL.Query().Get("kind"); q != "" {
		kind, err := scheme.ParseKind(q)
		if err != nil {
			writeError(w, http.StatusBadRequest, "kind must be roman or brahmic")
			return
		}
		data = lo.Filter(data, func(s schemeResponse, _ int) bool {
			return s.Kind == kind.String()
		})
	}

	writeJSON(w, http.StatusOK, data)
}

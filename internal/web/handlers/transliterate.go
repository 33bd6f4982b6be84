package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/NaanProphet/sanscript/internal/metrics"
	"github.com/NaanProphet/sanscript/internal/transliteration"
)

type TransliterateHandler struct {
	tr       *transliteration.Transliterator
	log      *slog.Logger
	maxBatch int
}

func NewTransliterateHandler(tr *transliteration.Transliterator, log *slog.Logger, maxBatch int) *TransliterateHandler {
	return &TransliterateHandler{tr: tr, log: log, maxBatch: maxBatch}
}

type conversionFields struct {
	From     string `json:"from"`
	To       string `json:"to"`
	SkipSGML bool   `json:"skip_sgml"`
	Syncope  bool   `json:"syncope"`
}

func (c conversionFields) options() transliteration.Options {
	return transliteration.Options{SkipSGML: c.SkipSGML, Syncope: c.Syncope}
}

type transliterateRequest struct {
	Text string `json:"text"`
	conversionFields
}

type transliterateResponse struct {
	Result string `json:"result"`
}

type batchRequest struct {
	Texts []string `json:"texts"`
	conversionFields
}

type batchResponse struct {
	Results []string `json:"results"`
}

func (h *TransliterateHandler) Transliterate(w http.ResponseWriter, r *http.Request) {
	var req transliterateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.From == "" || req.To == "" {
		writeError(w, http.StatusBadRequest, "from and to are required")
		return
	}

	result, err := h.tr.Transliterate(req.Text, req.From, req.To, req.options())
	if err != nil {
		h.writeConversionError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, transliterateResponse{Result: result})
}

func (h *TransliterateHandler) Batch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.From == "" || req.To == "" {
		writeError(w, http.StatusBadRequest, "from and to are required")
		return
	}
	if len(req.Texts) == 0 {
		writeError(w, http.StatusBadRequest, "texts must not be empty")
		return
	}
	if len(req.Texts) > h.maxBatch {
		writeError(w, http.StatusRequestEntityTooLarge, "too many texts in batch")
		return
	}
	metrics.BatchSize.Observe(float64(len(req.Texts)))

	results, err := h.tr.TransliterateBatch(r.Context(), req.Texts, req.From, req.To, req.options())
	if err != nil {
		h.writeConversionError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, batchResponse{Results: results})
}

func (h *TransliterateHandler) writeConversionError(w http.ResponseWriter, r *http.Request, err error) {
	var notSupported *transliteration.SchemeNotSupportedError
	if errors.As(err, &notSupported) {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	h.log.ErrorContext(r.Context(), "transliterating", "error", err)
	writeError(w, http.StatusInternalServerError, "internal error")
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

package api

import (
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"

	"github.com/fhuszti/athlete-portfolio-go/internal/logger"
	"github.com/go-chi/chi/v5"
)

// ContentSections lists the static JSON documents served from the content directory.
var ContentSections = map[string]struct{}{
	"biography": {},
	"palmares":  {},
	"press":     {},
	"agenda":    {},
}

var emptyContent = []byte("{}\n")

// ContentHandler serves <dir>/<section>.json. Missing or unreadable documents yield {}.
func ContentHandler(dir string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		section := chi.URLParam(r, "section")
		if _, ok := ContentSections[section]; !ok {
			WriteError(w, http.StatusNotFound, "Unknown content section", nil)
			return
		}

		w.Header().Set("Cache-Control", "public, max-age=300")

		raw, err := os.ReadFile(filepath.Join(dir, section+".json"))
		switch {
		case errors.Is(err, fs.ErrNotExist):
			RespondRawJSON(w, http.StatusOK, emptyContent)
			return
		case err != nil:
			logger.Errorf(r.Context(), "❌  could not read content %q: %v", section, err)
			RespondRawJSON(w, http.StatusOK, emptyContent)
			return
		case !json.Valid(raw):
			logger.Errorf(r.Context(), "❌  content %q is not valid JSON", section)
			RespondRawJSON(w, http.StatusOK, emptyContent)
			return
		}

		RespondRawJSON(w, http.StatusOK, raw)
	}
}

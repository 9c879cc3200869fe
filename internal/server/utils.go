package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"roomclimate/internal/models"
	"roomclimate/internal/region"
)

// errBadRequest marks errors caused by invalid request parameters
var errBadRequest = errors.New("bad request")

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, region.ErrUnknownRegion):
		status = http.StatusNotFound
	case errors.Is(err, models.ErrInvalidMode), errors.Is(err, errBadRequest):
		status = http.StatusBadRequest
	}
	writeJSON(w, status, map[string]string{
		"error":  err.Error(),
		"status": http.StatusText(status),
	})
}

// regionFromPath resolves the {region} route variable
func (s *Server) regionFromPath(r *http.Request) (*region.Region, error) {
	return s.Regions.Get(mux.Vars(r)["region"])
}

// modeParam reads ?mode=, defaulting to the region's active mode
func modeParam(r *http.Request, reg *region.Region) (models.Mode, error) {
	raw := r.URL.Query().Get("mode")
	if raw == "" {
		return reg.Mode(), nil
	}
	return models.ParseMode(raw)
}

// indexParam reads ?index= or ?position=. Index wins when both are set.
func indexParam(r *http.Request, reg *region.Region, mode models.Mode) (int, error) {
	q := r.URL.Query()
	if raw := q.Get("index"); raw != "" {
		idx, err := strconv.Atoi(raw)
		if err != nil {
			return 0, fmt.Errorf("%w: invalid index %q", errBadRequest, raw)
		}
		return idx, nil
	}
	if raw := q.Get("position"); raw != "" {
		pos, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: invalid position %q", errBadRequest, raw)
		}
		return reg.IndexFromSlider(mode, pos), nil
	}
	return 0, nil
}

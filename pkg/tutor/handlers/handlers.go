// Package handlers implements the REST endpoints next to the websocket.
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/andre-ai/tutor/pkg/tutor/exercises"
)

// HealthHandler reports liveness.
type HealthHandler struct{}

func (HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "andre-tutor",
	})
}

// ExercisesByAgeHandler serves the practice catalog for one age.
type ExercisesByAgeHandler struct{}

func (ExercisesByAgeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	age, err := strconv.Atoi(r.PathValue("age"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "age must be a number"})
		return
	}
	writeJSON(w, http.StatusOK, exercises.ByAge(age))
}

// ExerciseByIDHandler serves one exercise.
type ExerciseByIDHandler struct{}

func (ExerciseByIDHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ex, ok := exercises.ByID(r.PathValue("id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "exercise not found"})
		return
	}
	writeJSON(w, http.StatusOK, ex)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

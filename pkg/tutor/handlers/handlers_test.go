package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func testMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("GET /api/health", HealthHandler{})
	mux.Handle("GET /api/exercises/by-age/{age}", ExercisesByAgeHandler{})
	mux.Handle("GET /api/exercises/{id}", ExerciseByIDHandler{})
	return mux
}

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	testMux().ServeHTTP(rec, httptest.NewRequest("GET", "/api/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["status"] != "healthy" {
		t.Fatalf("body = %+v", body)
	}
}

func TestExercisesByAge(t *testing.T) {
	rec := httptest.NewRecorder()
	testMux().ServeHTTP(rec, httptest.NewRequest("GET", "/api/exercises/by-age/8", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var list []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(list) != 3 || list[0]["id"] != "colors" {
		t.Fatalf("list = %+v", list)
	}
}

func TestExercisesByAge_BadAge(t *testing.T) {
	rec := httptest.NewRecorder()
	testMux().ServeHTTP(rec, httptest.NewRequest("GET", "/api/exercises/by-age/eight", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestExercisesByAge_Uncurated(t *testing.T) {
	rec := httptest.NewRecorder()
	testMux().ServeHTTP(rec, httptest.NewRequest("GET", "/api/exercises/by-age/70", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec.Body.String() != "[]\n" {
		t.Fatalf("body = %q, want empty array", rec.Body.String())
	}
}

func TestExerciseByID(t *testing.T) {
	rec := httptest.NewRecorder()
	testMux().ServeHTTP(rec, httptest.NewRequest("GET", "/api/exercises/travel", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var ex map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &ex); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if ex["title"] != "Voyager en France" {
		t.Fatalf("exercise = %+v", ex)
	}
}

func TestExerciseByID_NotFound(t *testing.T) {
	rec := httptest.NewRecorder()
	testMux().ServeHTTP(rec, httptest.NewRequest("GET", "/api/exercises/bogus", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
}

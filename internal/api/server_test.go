package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"holdco/internal/config"
	"holdco/internal/game"
	"holdco/internal/store"
)

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"", ""},
		{"Bearer abc123", "abc123"},
		{"bearer abc123", "abc123"},
		{"Bearer   abc123  ", "abc123"},
		{"Basic abc123", ""},
		{"abc123", ""},
	}
	for _, tt := range tests {
		if got := bearerToken(tt.header); got != tt.want {
			t.Fatalf("bearerToken(%q) = %q, want %q", tt.header, got, tt.want)
		}
	}
}

func TestAuthMiddleware(t *testing.T) {
	s := &Server{cfg: config.APIConfig{APIToken: "sekrit"}}
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pc, err := playerFromContext(r.Context())
		if err != nil {
			t.Fatalf("player context missing: %v", err)
		}
		if pc.Player != "alice" {
			t.Fatalf("player = %q, want alice", pc.Player)
		}
		w.WriteHeader(http.StatusNoContent)
	})
	handler := s.authMiddleware(next)

	tests := []struct {
		name   string
		auth   string
		player string
		want   int
	}{
		{"valid", "Bearer sekrit", "alice", http.StatusNoContent},
		{"missing token", "", "alice", http.StatusUnauthorized},
		{"wrong token", "Bearer nope", "alice", http.StatusUnauthorized},
		{"missing player", "Bearer sekrit", "", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/v1/games", nil)
			if tt.auth != "" {
				req.Header.Set("Authorization", tt.auth)
			}
			if tt.player != "" {
				req.Header.Set("X-Player", tt.player)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestWriteDomainErrorStatusMapping(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{store.ErrNotFound, http.StatusNotFound},
		{game.ErrUnknownBusiness, http.StatusNotFound},
		{store.ErrForbidden, http.StatusForbidden},
		{game.ErrGameOver, http.StatusConflict},
		{game.ErrInsufficientCash, http.StatusBadRequest},
		{game.ErrIneligible, http.StatusBadRequest},
		{game.ErrOwnershipFloor, http.StatusBadRequest},
		{game.ErrSchemaVersion, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		writeDomainError(rec, tt.err)
		if rec.Code != tt.want {
			t.Fatalf("writeDomainError(%v) status = %d, want %d", tt.err, rec.Code, tt.want)
		}
	}
}

func TestDecodeJSONRejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/v1/games", strings.NewReader(`{"mode":"standard_10","bogus":1}`))
	var in struct {
		Mode string `json:"mode"`
	}
	if err := decodeJSON(req, &in); err == nil {
		t.Fatal("expected unknown field error")
	}
}

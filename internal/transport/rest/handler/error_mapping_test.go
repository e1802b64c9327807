package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"walkrisk/internal/cache"
	"walkrisk/internal/service"
)

func TestWriteServiceErrorStatusCodes(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"puzzle not found", service.ErrPuzzleNotFound, http.StatusNotFound},
		{"clue not found", service.ErrClueNotFound, http.StatusNotFound},
		{"mentor not found", service.ErrMentorNotFound, http.StatusNotFound},
		{"insufficient energy", &cache.ErrInsufficientEnergy{Balance: 5, Required: 10}, http.StatusPaymentRequired},
		{"attempt closed", service.ErrAttemptClosed, http.StatusConflict},
		{"puzzle expired", service.ErrPuzzleExpired, http.StatusConflict},
		{"hypothesis too short", service.ErrHypothesisTooShort, http.StatusUnprocessableEntity},
		{"invalid confidence", service.ErrInvalidConfidence, http.StatusUnprocessableEntity},
		{"unexpected", errors.New("mongo timeout"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeServiceError(rec, tc.err)
			assert.Equal(t, tc.status, rec.Code)
		})
	}
}

func TestWriteServiceErrorWrappedErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	writeServiceError(rec, fmt.Errorf("load attempt: %w", service.ErrPuzzleExpired))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestWriteServiceErrorEnergyPayload(t *testing.T) {
	rec := httptest.NewRecorder()
	writeServiceError(rec, &cache.ErrInsufficientEnergy{Balance: 5, Required: 15})

	var body struct {
		Error          string `json:"error"`
		EnergyBalance  int    `json:"energyBalance"`
		EnergyRequired int    `json:"energyRequired"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.Equal(t, "insufficient energy", body.Error)
	assert.Equal(t, 5, body.EnergyBalance)
	assert.Equal(t, 15, body.EnergyRequired)
}

func TestGuestEndpoint(t *testing.T) {
	h := NewAuthHandler(service.NewAuthService())

	req := httptest.NewRequest(http.MethodPost, "/v1/auth/guest", strings.NewReader(`{"nickname":"tester"}`))
	rec := httptest.NewRecorder()
	h.Guest(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		PlayerID string `json:"playerId"`
		Token    string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body.PlayerID)
	assert.NotEmpty(t, body.Token)
}

func TestGuestEndpointBadBody(t *testing.T) {
	h := NewAuthHandler(service.NewAuthService())

	req := httptest.NewRequest(http.MethodPost, "/v1/auth/guest", strings.NewReader(`{garbage`))
	rec := httptest.NewRecorder()
	h.Guest(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

package app

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"bizdev/api/internal/checklist"
	"bizdev/api/internal/identity"
	"bizdev/api/internal/kvstore"
	"bizdev/api/internal/llm"

	"go.uber.org/zap"
)

type HTTPServer struct {
	service    *Service
	corsOrigin string
	logger     *zap.Logger
}

func NewHTTPServer(service *Service, corsOrigin string, logger *zap.Logger) *HTTPServer {
	return &HTTPServer{service: service, corsOrigin: corsOrigin, logger: logger}
}

func (s *HTTPServer) Handler() http.Handler {
	return s.withMiddleware(http.HandlerFunc(s.handle))
}

func (s *HTTPServer) handle(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		writeJSON(w, http.StatusNoContent, map[string]any{})
		return
	}

	if (r.Method == http.MethodGet || r.Method == http.MethodHead) && r.URL.Path == "/api/health" {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		return
	}

	if (r.Method == http.MethodGet || r.Method == http.MethodHead) && r.URL.Path == "/api/ready" {
		// Check record store connectivity
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		status := "ready"
		statusCode := http.StatusOK
		checks := map[string]any{
			"store": map[string]any{"status": "ok"},
		}

		if err := s.service.Ping(ctx); err != nil {
			status = "not_ready"
			statusCode = http.StatusServiceUnavailable
			checks["store"] = map[string]any{
				"status": "error",
				"error":  err.Error(),
			}
		}

		writeJSON(w, statusCode, map[string]any{
			"ok":     status == "ready",
			"status": status,
			"checks": checks,
		})
		return
	}

	// Chat is the one surface usable before sign-in finishes.
	if r.Method == http.MethodPost && r.URL.Path == "/api/chat" {
		s.handleChat(w, r)
		return
	}

	principal, ok := s.requirePrincipal(w, r)
	if !ok {
		return
	}

	if r.Method == http.MethodGet && r.URL.Path == "/api/checklist" {
		writeJSON(w, http.StatusOK, checklist.All())
		return
	}

	if r.URL.Path == "/api/journeys" {
		switch r.Method {
		case http.MethodPost:
			s.handleCreateJourney(w, r, principal)
		case http.MethodGet:
			s.handleListJourneys(w, r, principal)
		default:
			writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
		}
		return
	}

	if r.URL.Path == "/api/steps" {
		switch r.Method {
		case http.MethodPost:
			s.handleUpsertStep(w, r, principal)
		case http.MethodGet:
			s.handleListSteps(w, r, principal)
		default:
			writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
		}
		return
	}

	if r.URL.Path == "/api/conversations" {
		switch r.Method {
		case http.MethodPost:
			s.handleCreateConversation(w, r, principal)
		case http.MethodGet:
			s.handleListConversations(w, r, principal)
		default:
			writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
		}
		return
	}

	parts := splitPath(r.URL.Path)

	if len(parts) == 3 && parts[0] == "api" && parts[1] == "journeys" {
		s.handleJourney(w, r, principal, parts[2])
		return
	}

	if len(parts) == 3 && parts[0] == "api" && parts[1] == "steps" {
		s.handleStep(w, r, principal, parts[2])
		return
	}

	if len(parts) == 3 && parts[0] == "api" && parts[1] == "conversations" {
		s.handleConversation(w, r, principal, parts[2])
		return
	}

	writeError(w, http.StatusNotFound, "NOT_FOUND", "Not found", nil)
}

func (s *HTTPServer) handleCreateJourney(w http.ResponseWriter, r *http.Request, principal identity.Principal) {
	var body JourneyInput
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
		return
	}
	journey, err := s.service.CreateJourney(r.Context(), principal, body)
	if err != nil {
		s.writeMapped(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, journey)
}

func (s *HTTPServer) handleListJourneys(w http.ResponseWriter, r *http.Request, principal identity.Principal) {
	journeys, err := s.service.ListJourneys(r.Context(), principal)
	if err != nil {
		s.writeMapped(w, err)
		return
	}
	writeJSON(w, http.StatusOK, journeys)
}

func (s *HTTPServer) handleJourney(w http.ResponseWriter, r *http.Request, principal identity.Principal, journeyID string) {
	switch r.Method {
	case http.MethodGet:
		journey, err := s.service.GetJourney(r.Context(), principal, journeyID)
		if err != nil {
			s.writeMapped(w, err)
			return
		}
		writeJSON(w, http.StatusOK, journey)

	case http.MethodPut:
		var body JourneyInput
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		journey, err := s.service.UpdateJourney(r.Context(), principal, journeyID, body)
		if err != nil {
			s.writeMapped(w, err)
			return
		}
		writeJSON(w, http.StatusOK, journey)

	case http.MethodDelete:
		if err := s.service.DeleteJourney(r.Context(), principal, journeyID); err != nil {
			s.writeMapped(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
	}
}

func (s *HTTPServer) handleUpsertStep(w http.ResponseWriter, r *http.Request, principal identity.Principal) {
	var body struct {
		JourneyID string  `json:"journey_id"`
		StepID    string  `json:"step_id"`
		Completed *bool   `json:"completed"`
		Notes     *string `json:"notes"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
		return
	}
	if strings.TrimSpace(body.JourneyID) == "" {
		writeError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "journey_id is required", nil)
		return
	}
	if strings.TrimSpace(body.StepID) == "" {
		writeError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "step_id is required", nil)
		return
	}
	step, err := s.service.UpsertStep(r.Context(), principal, body.JourneyID, body.StepID, body.Completed, body.Notes)
	if err != nil {
		s.writeMapped(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, step)
}

func (s *HTTPServer) handleListSteps(w http.ResponseWriter, r *http.Request, principal identity.Principal) {
	journeyID := strings.TrimSpace(r.URL.Query().Get("journey_id"))
	steps, err := s.service.ListStepsByJourney(r.Context(), principal, journeyID)
	if err != nil {
		s.writeMapped(w, err)
		return
	}
	writeJSON(w, http.StatusOK, steps)
}

func (s *HTTPServer) handleStep(w http.ResponseWriter, r *http.Request, principal identity.Principal, stepID string) {
	if r.Method != http.MethodPut {
		writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
		return
	}
	var body struct {
		Completed *bool   `json:"completed"`
		Notes     *string `json:"notes"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
		return
	}
	step, err := s.service.UpdateStep(r.Context(), principal, stepID, body.Completed, body.Notes)
	if err != nil {
		s.writeMapped(w, err)
		return
	}
	writeJSON(w, http.StatusOK, step)
}

func (s *HTTPServer) handleCreateConversation(w http.ResponseWriter, r *http.Request, principal identity.Principal) {
	var body struct {
		Title    string        `json:"title"`
		Messages []llm.Message `json:"messages"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
		return
	}
	conversation, err := s.service.CreateConversation(r.Context(), principal, body.Title, body.Messages)
	if err != nil {
		s.writeMapped(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, conversation)
}

func (s *HTTPServer) handleListConversations(w http.ResponseWriter, r *http.Request, principal identity.Principal) {
	conversations, err := s.service.ListConversations(r.Context(), principal)
	if err != nil {
		s.writeMapped(w, err)
		return
	}
	writeJSON(w, http.StatusOK, conversations)
}

func (s *HTTPServer) handleConversation(w http.ResponseWriter, r *http.Request, principal identity.Principal, conversationID string) {
	switch r.Method {
	case http.MethodGet:
		conversation, err := s.service.GetConversation(r.Context(), principal, conversationID)
		if err != nil {
			s.writeMapped(w, err)
			return
		}
		writeJSON(w, http.StatusOK, conversation)

	case http.MethodPut:
		var body struct {
			Title    string        `json:"title"`
			Messages []llm.Message `json:"messages"`
		}
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		conversation, err := s.service.UpdateConversation(r.Context(), principal, conversationID, body.Title, body.Messages)
		if err != nil {
			s.writeMapped(w, err)
			return
		}
		writeJSON(w, http.StatusOK, conversation)

	case http.MethodDelete:
		if err := s.service.DeleteConversation(r.Context(), principal, conversationID); err != nil {
			s.writeMapped(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
	}
}

func (s *HTTPServer) handleChat(w http.ResponseWriter, r *http.Request) {
	var body struct {
		History []llm.Message `json:"history"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
		return
	}
	text, err := s.service.Converse(r.Context(), body.History)
	if err != nil {
		s.writeMapped(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"text": text})
}

func (s *HTTPServer) requirePrincipal(w http.ResponseWriter, r *http.Request) (identity.Principal, bool) {
	token := bearerToken(r)
	if token == "" {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
		return identity.Principal{}, false
	}
	principal, err := s.service.PrincipalFromToken(token)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
		return identity.Principal{}, false
	}
	return principal, true
}

func (s *HTTPServer) writeMapped(w http.ResponseWriter, err error) {
	status, code, message, details := mapError(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", zap.Error(err))
	}
	writeError(w, status, code, message, details)
}

func (s *HTTPServer) withMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = randomRequestID()
		}
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		started := time.Now()
		writer := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		setCORSHeaders(writer.Header(), s.corsOrigin)
		writer.Header().Set("X-Request-ID", requestID)

		next.ServeHTTP(writer, r)

		s.logger.Info("http request",
			zap.String("request_id", requestID),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", writer.status),
			zap.Duration("duration", time.Since(started)),
		)
	})
}

type requestIDKey struct{}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func randomRequestID() string {
	buf := make([]byte, 8)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}

func setCORSHeaders(header http.Header, corsOrigin string) {
	header.Set("Access-Control-Allow-Origin", corsOrigin)
	header.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
	header.Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
	header.Set("Cache-Control", "no-store")
	header.Set("Content-Type", "application/json")
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code, message string, details any) {
	response := map[string]any{
		"code":  code,
		"error": message,
	}
	if details != nil {
		response["details"] = details
	}
	writeJSON(w, status, response)
}

func decodeBody(r *http.Request, target any) error {
	if r.Body == nil {
		return nil
	}
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(target); err != nil {
		if errors.Is(err, http.ErrBodyReadAfterClose) {
			return nil
		}
		return fmt.Errorf("invalid JSON body")
	}
	return nil
}

func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

func splitPath(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

func mapError(err error) (status int, code, message string, details any) {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Status, domainErr.Code, domainErr.Message, domainErr.Details
	}
	if errors.Is(err, kvstore.ErrNotFound) {
		return http.StatusNotFound, "NOT_FOUND", "Not found", nil
	}
	if errors.Is(err, identity.ErrInvalidToken) || errors.Is(err, identity.ErrExpiredToken) {
		return http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil
	}
	return http.StatusInternalServerError, "SERVER_ERROR", "Server error", nil
}

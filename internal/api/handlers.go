package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"github.com/baxromumarov/campus-faq/internal/observability"
)

const (
	statusSuccess = "success"
	statusError   = "error"

	errorReply = "Sorry, I encountered an error. Please try again."
)

type ChatRequest struct {
	Message string `json:"message" validate:"required"`
}

type ChatResponse struct {
	Response string `json:"response"`
	Status   string `json:"status"`
}

type TopicInfo struct {
	ID       string   `json:"id"`
	Keywords []string `json:"keywords"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	observability.IncRequest()

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.requestFailed(r, err)
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := s.validateChat(req); err != nil {
		s.requestFailed(r, err)
		var ve *observability.ValidationError
		if errors.As(err, &ve) && ve.Reason == reasonTooLong {
			respondError(w, http.StatusBadRequest, "Message too long")
			return
		}
		respondError(w, http.StatusBadRequest, "No message provided")
		return
	}

	start := time.Now()
	answer := s.responder.Answer(req.Message)
	observability.ObserveAnswerDuration(time.Since(start).Seconds())
	observability.IncAnswer(answer.Topic)

	s.logger.Debug("chat answered",
		"request_id", middleware.GetReqID(r.Context()),
		"topic", answer.Topic,
		"score", answer.Score,
		"fallback", answer.Fallback(),
	)

	respondJSON(w, http.StatusOK, ChatResponse{Response: answer.Reply, Status: statusSuccess})
}

const (
	reasonRequired = "required"
	reasonTooLong  = "too long"
)

func (s *Server) validateChat(req ChatRequest) error {
	if err := s.validate.Struct(req); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			return &observability.ValidationError{Field: "message", Reason: reasonRequired}
		}
		return fmt.Errorf("validate chat request: %w", err)
	}
	if s.opts.MaxMessageLength > 0 && len(req.Message) > s.opts.MaxMessageLength {
		return &observability.ValidationError{Field: "message", Reason: reasonTooLong}
	}
	return nil
}

func (s *Server) requestFailed(r *http.Request, err error) {
	kind := observability.ClassifyRequestError(err)
	observability.IncError(kind, "api")
	s.logger.Warn("chat request rejected",
		"request_id", middleware.GetReqID(r.Context()),
		"kind", kind,
		"error", err,
	)
}

// recoverChat turns a panic while answering into the chat error envelope.
func (s *Server) recoverChat(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			observability.IncError(observability.ErrorInternal, "api")
			s.logger.Error("chat handler panicked",
				"request_id", middleware.GetReqID(r.Context()),
				"panic", fmt.Sprint(rec),
			)
			respondJSON(w, http.StatusInternalServerError, ChatResponse{Response: errorReply, Status: statusError})
		}()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"message": "Chatbot is running!",
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, observability.Snapshot())
}

func (s *Server) handleListTopics(w http.ResponseWriter, r *http.Request) {
	topics := s.base.Topics()
	items := make([]TopicInfo, 0, len(topics))
	for _, t := range topics {
		items = append(items, TopicInfo{ID: t.ID, Keywords: t.Keywords})
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"items": items,
		"total": len(items),
	})
}

package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/dvloznov/family-budget/internal/advisor"
	"github.com/dvloznov/family-budget/internal/api/middleware"
	"github.com/dvloznov/family-budget/internal/budget"
)

const supersededMessage = "Superseded by a newer message"

type chatRequest struct {
	Message string `json:"message"`
}

// AdviceHandler runs the advice chat. The conversation lives on the server;
// when two messages overlap only the reply to the newer one is kept.
type AdviceHandler struct {
	store   RecordStore
	advisor Advisor
	goals   budget.Goals
	conv    advisor.Conversation
	log     zerolog.Logger
	now     func() time.Time
}

// NewAdviceHandler creates a new advice handler. adv may be nil when no
// advice service is configured.
func NewAdviceHandler(store RecordStore, adv Advisor, goals budget.Goals, log zerolog.Logger) *AdviceHandler {
	return &AdviceHandler{
		store:   store,
		advisor: adv,
		goals:   goals,
		log:     log,
		now:     time.Now,
	}
}

// History handles GET /api/advice
func (h *AdviceHandler) History(w http.ResponseWriter, r *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"messages": h.conv.History(),
	})
}

// Reset handles DELETE /api/advice
func (h *AdviceHandler) Reset(w http.ResponseWriter, r *http.Request) {
	h.conv.Reset()
	w.WriteHeader(http.StatusNoContent)
}

// Ask handles POST /api/advice?year=&month=
func (h *AdviceHandler) Ask(w http.ResponseWriter, r *http.Request) {
	if h.advisor == nil {
		middleware.WriteError(w, http.StatusServiceUnavailable, "Advice service not configured")
		return
	}

	var req chatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	message := strings.TrimSpace(req.Message)
	if message == "" {
		middleware.WriteError(w, http.StatusBadRequest, "Message is required")
		return
	}

	year, month, err := yearMonth(r, h.now())
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	settings := h.store.Settings()
	summary := budget.Summarize(h.store.Transactions(), year, month, settings, h.goals)

	ticket, history := h.conv.Begin(message)
	reply := h.advisor.RequestAdvice(r.Context(), history, settings, summary)

	if !h.conv.Finish(ticket, reply) {
		h.log.Debug().Msg("Discarding stale advice reply")
		middleware.WriteError(w, http.StatusConflict, supersededMessage)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]string{"reply": reply})
}

// OnboardingHandler runs the onboarding conversation.
type OnboardingHandler struct {
	store   RecordStore
	advisor Advisor
	conv    advisor.Conversation
	log     zerolog.Logger
}

// NewOnboardingHandler creates a new onboarding handler. adv may be nil when
// no advice service is configured.
func NewOnboardingHandler(store RecordStore, adv Advisor, log zerolog.Logger) *OnboardingHandler {
	return &OnboardingHandler{
		store:   store,
		advisor: adv,
		log:     log,
	}
}

// Status handles GET /api/onboarding
func (h *OnboardingHandler) Status(w http.ResponseWriter, r *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"completed": h.store.OnboardingCompleted(),
		"messages":  h.conv.History(),
	})
}

// Chat handles POST /api/onboarding/chat. An empty message starts the
// conversation.
func (h *OnboardingHandler) Chat(w http.ResponseWriter, r *http.Request) {
	if h.advisor == nil {
		middleware.WriteError(w, http.StatusServiceUnavailable, "Advice service not configured")
		return
	}

	var req chatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	message := strings.TrimSpace(req.Message)
	if message == "" {
		if len(h.conv.History()) > 0 {
			middleware.WriteError(w, http.StatusBadRequest, "Message is required")
			return
		}
		message = "Start"
	}

	ticket, history := h.conv.Begin(message)
	reply := h.advisor.RequestOnboarding(r.Context(), history)

	if reply.Complete && (reply.Settings == nil || reply.Settings.Validate() != nil) {
		h.log.Warn().Msg("Discarding invalid onboarding settings")
		reply = advisor.OnboardingReply{Text: advisor.OnboardingFallback}
	}

	if reply.Complete {
		if !h.conv.Current(ticket) {
			middleware.WriteError(w, http.StatusConflict, supersededMessage)
			return
		}
		h.store.CompleteOnboarding(r.Context(), *reply.Settings)
		h.conv.Reset()
		middleware.WriteJSON(w, http.StatusOK, reply)
		return
	}

	if !h.conv.Finish(ticket, reply.Text) {
		middleware.WriteError(w, http.StatusConflict, supersededMessage)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, reply)
}

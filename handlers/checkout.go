package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"

	"dropin-checkout-api/config"
	"dropin-checkout-api/database"
	"dropin-checkout-api/models"
	"dropin-checkout-api/queue"
	"dropin-checkout-api/services/auth"
	"dropin-checkout-api/services/dropin"
	"dropin-checkout-api/utils"
)

const widgetCookieName = "checkout_widget"

type CheckoutHandler struct {
	db         *database.Connection
	queue      *queue.Queue
	jwtService *auth.JWTService
	store      *sessions.CookieStore
	registry   *dropin.Registry
}

func NewCheckoutHandler(db *database.Connection, q *queue.Queue, jwtService *auth.JWTService, cfg *config.Config) *CheckoutHandler {
	store := sessions.NewCookieStore([]byte(cfg.Session.Secret))
	store.Options = &sessions.Options{
		Path:     "/",
		Domain:   cfg.Session.Domain,
		MaxAge:   cfg.Session.MaxAge,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	h := &CheckoutHandler{
		db:         db,
		queue:      q,
		jwtService: jwtService,
		store:      store,
	}
	h.registry = dropin.NewRegistry(h.newRunner, h.newSink)
	return h
}

// Registry exposes the lifecycle bridge registry so the worker's execution
// tracker can be wired to it.
func (h *CheckoutHandler) Registry() *dropin.Registry {
	return h.registry
}

type createSessionRequest struct {
	Snapshot     *models.Snapshot         `json:"snapshot"`
	Hooks        models.ActionHooks       `json:"hooks"`
	SubmitButton models.SubmitButtonStyle `json:"submitButton"`
}

// CreateCheckoutSession registers a new checkout and returns the session
// token the host passes to all later calls.
func (h *CheckoutHandler) CreateCheckoutSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "Invalid request format")
		return
	}

	if req.Snapshot == nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "Snapshot is required")
		return
	}
	if err := req.Snapshot.Validate(); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	now := time.Now().UTC()
	session := &models.CheckoutSession{
		ID:           uuid.NewString(),
		Snapshot:     req.Snapshot,
		Hooks:        req.Hooks,
		SubmitButton: req.SubmitButton,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := h.db.CreateSession(session); err != nil {
		log.Printf("Failed to create checkout session: %v", err)
		utils.SendErrorResponse(w, http.StatusInternalServerError, "Failed to create checkout session")
		return
	}

	token, err := h.jwtService.GenerateSessionToken(session.ID)
	if err != nil {
		log.Printf("Failed to generate session token: %v", err)
		utils.SendErrorResponse(w, http.StatusInternalServerError, "Failed to generate session token")
		return
	}

	log.Printf("Created checkout session %s", session.ID)

	utils.SendSuccessResponse(w, models.APIResponse{
		Status:  "success",
		Message: "Checkout session created",
		Data: map[string]interface{}{
			"sessionId": session.ID,
			"token":     token,
		},
	})
}

type updateSnapshotRequest struct {
	Snapshot *models.Snapshot `json:"snapshot"`
}

// UpdateSnapshot replaces the session's field snapshot. The host pushes the
// whole snapshot every time any field settles; the stored state is always
// the latest full picture, never a merge.
func (h *CheckoutHandler) UpdateSnapshot(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req updateSnapshotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "Invalid request format")
		return
	}
	if req.Snapshot == nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "Snapshot is required")
		return
	}
	if err := req.Snapshot.Validate(); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.db.UpdateSnapshot(sessionID, req.Snapshot); err != nil {
		if err == database.ErrSessionNotFound {
			utils.SendErrorResponse(w, http.StatusNotFound, "Checkout session not found")
			return
		}
		log.Printf("Failed to update snapshot for session %s: %v", sessionID, err)
		utils.SendErrorResponse(w, http.StatusInternalServerError, "Failed to update snapshot")
		return
	}

	utils.SendSuccessResponse(w, models.APIResponse{
		Status:  "success",
		Message: "Snapshot updated",
	})
}

// GetDropinConfig assembles the widget configuration from the current
// snapshot. While any required field is still loading the response is
// pending and the client should poll again after the next snapshot push.
func (h *CheckoutHandler) GetDropinConfig(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	session, err := h.db.GetSession(sessionID)
	if err != nil {
		if err == database.ErrSessionNotFound {
			utils.SendErrorResponse(w, http.StatusNotFound, "Checkout session not found")
			return
		}
		log.Printf("Failed to load session %s: %v", sessionID, err)
		utils.SendErrorResponse(w, http.StatusInternalServerError, "Failed to load checkout session")
		return
	}

	if !dropin.Ready(session.Snapshot) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		json.NewEncoder(w).Encode(models.APIResponse{
			Status:  "pending",
			Message: "Configuration is waiting for host data",
		})
		return
	}

	options, err := dropin.Assemble(session.Snapshot)
	if err != nil {
		if err == dropin.ErrAuthorizationMissing {
			utils.SendErrorResponse(w, http.StatusUnprocessableEntity, "No authorization provided")
			return
		}
		log.Printf("Failed to assemble configuration for session %s: %v", sessionID, err)
		utils.SendErrorResponse(w, http.StatusInternalServerError, "Failed to assemble configuration")
		return
	}

	entry := h.registry.For(session)

	data := map[string]interface{}{
		"options":      options,
		"submitButton": session.SubmitButton,
		"state":        entry.Bridge.State(),
		"progress":     entry.Indicator.Status(),
	}
	if pmo := dropin.BuildPaymentMethodOptions(session.Snapshot); pmo != nil {
		data["paymentMethodOptions"] = pmo
	}

	utils.SendSuccessResponse(w, models.APIResponse{
		Status: "success",
		Data:   data,
	})
}

// Submit begins a host-initiated submission. The widget client observes the
// submitting state on its next poll and requests a payment method.
func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	session, err := h.db.GetSession(sessionID)
	if err != nil {
		if err == database.ErrSessionNotFound {
			utils.SendErrorResponse(w, http.StatusNotFound, "Checkout session not found")
			return
		}
		log.Printf("Failed to load session %s: %v", sessionID, err)
		utils.SendErrorResponse(w, http.StatusInternalServerError, "Failed to load checkout session")
		return
	}

	entry := h.registry.For(session)
	entry.Bridge.BeginSubmit()

	utils.SendSuccessResponse(w, models.APIResponse{
		Status:  "success",
		Message: "Submission started",
		Data: map[string]interface{}{
			"state": entry.Bridge.State(),
		},
	})
}

// HandleWidgetEvent consumes one lifecycle event from the widget client and
// advances the session's bridge.
func (h *CheckoutHandler) HandleWidgetEvent(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	if !h.bindWidgetCookie(w, r, sessionID) {
		return
	}

	var event models.WidgetEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "Invalid request format")
		return
	}

	session, err := h.db.GetSession(sessionID)
	if err != nil {
		if err == database.ErrSessionNotFound {
			utils.SendErrorResponse(w, http.StatusNotFound, "Checkout session not found")
			return
		}
		log.Printf("Failed to load session %s: %v", sessionID, err)
		utils.SendErrorResponse(w, http.StatusInternalServerError, "Failed to load checkout session")
		return
	}

	entry := h.registry.For(session)

	switch event.Type {
	case models.EventCreated:
		entry.Bridge.HandleCreated()
	case models.EventDestroyStart:
		entry.Bridge.HandleDestroyStart()
	case models.EventDestroyEnd:
		entry.Bridge.HandleDestroyEnd()
		h.registry.Drop(sessionID)
	case models.EventError:
		entry.Bridge.HandleError(event.Error)
	case models.EventPaymentMethod:
		if event.Nonce == "" {
			utils.SendErrorResponse(w, http.StatusBadRequest, "Payment method event requires a nonce")
			return
		}
		if err := entry.Bridge.HandlePaymentMethod(event.Nonce, event.DeviceData); err != nil {
			utils.SendErrorResponse(w, http.StatusInternalServerError, "Failed to record submission result")
			return
		}
	default:
		utils.SendErrorResponse(w, http.StatusBadRequest, "Unknown event type")
		return
	}

	utils.SendSuccessResponse(w, models.APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"state": entry.Bridge.State(),
		},
	})
}

// GetResult returns the stored submission result for the host to charge
// with.
func (h *CheckoutHandler) GetResult(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	result, err := h.db.GetSubmissionResult(sessionID)
	if err != nil {
		if err == database.ErrResultNotFound {
			utils.SendErrorResponse(w, http.StatusNotFound, "No submission result yet")
			return
		}
		log.Printf("Failed to load submission result for session %s: %v", sessionID, err)
		utils.SendErrorResponse(w, http.StatusInternalServerError, "Failed to load submission result")
		return
	}

	utils.SendSuccessResponse(w, models.APIResponse{
		Status: "success",
		Data:   result,
	})
}

// bindWidgetCookie pins the browser to the first checkout session it posts
// events for. A cookie bound to another session is rejected rather than
// rebound.
func (h *CheckoutHandler) bindWidgetCookie(w http.ResponseWriter, r *http.Request, sessionID string) bool {
	cookie, err := h.store.Get(r, widgetCookieName)
	if err != nil {
		log.Printf("Resetting invalid widget cookie: %v", err)
		cookie, _ = h.store.New(r, widgetCookieName)
	}

	if bound, ok := cookie.Values["session_id"].(string); ok && bound != "" {
		if bound != sessionID {
			utils.SendErrorResponse(w, http.StatusForbidden, "Widget is bound to another checkout session")
			return false
		}
		return true
	}

	cookie.Values["session_id"] = sessionID
	if err := cookie.Save(r, w); err != nil {
		log.Printf("Failed to save widget cookie: %v", err)
	}
	return true
}

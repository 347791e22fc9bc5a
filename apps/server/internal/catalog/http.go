package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"gift-village/apps/server/internal/auth"
	"gift-village/gift"
	"gift-village/village"
)

const requestTimeout = 5 * time.Second

type HTTPHandler struct {
	catalog Service
	admin   *auth.AdminVerifier
}

type errorResponse struct {
	Error      string `json:"error"`
	Suggestion string `json:"suggestion,omitempty"`
}

type evaluateRequest struct {
	GiftID      string `json:"giftId"`
	CharacterID string `json:"characterId"`
}

type completeQuestRequest struct {
	GiftID string `json:"giftId"`
}

type completedQuest struct {
	ID              string              `json:"id"`
	CharacterID     string              `json:"characterId"`
	Status          village.QuestStatus `json:"status"`
	CompletedGiftID string              `json:"completedGiftId"`
}

func NewHTTPHandler(catalog Service, admin *auth.AdminVerifier) *HTTPHandler {
	return &HTTPHandler{catalog: catalog, admin: admin}
}

func (h *HTTPHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/shops", h.handleShops)
	mux.HandleFunc("/api/shops/", h.handleShopGifts)
	mux.HandleFunc("/api/gifts", h.handleGifts)
	mux.HandleFunc("/api/characters", h.handleCharacters)
	mux.HandleFunc("/api/characters/", h.handleCharacter)
	mux.HandleFunc("/api/evaluate", h.handleEvaluate)
	mux.HandleFunc("/api/admin/gifts", h.handleAdminGifts)
}

func (h *HTTPHandler) handleShops(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	shops, err := h.catalog.ListShops(ctx)
	if err != nil {
		log.Printf("[Catalog] list shops failed: %v", err)
		writeError(w, http.StatusInternalServerError, "list shops failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"shops": shops})
}

func (h *HTTPHandler) handleGifts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	gifts, err := h.catalog.ListGifts(ctx)
	if err != nil {
		log.Printf("[Catalog] list gifts failed: %v", err)
		writeError(w, http.StatusInternalServerError, "list gifts failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"gifts": gifts})
}

// handleShopGifts serves /api/shops/{shopId}/gifts. An unknown shop has no
// gifts rather than being an error.
func (h *HTTPHandler) handleShopGifts(w http.ResponseWriter, r *http.Request) {
	parts := splitPath(r.URL.Path, "/api/shops/")
	if len(parts) != 2 || parts[1] != "gifts" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	gifts, err := h.catalog.ListGiftsByShop(ctx, gift.ShopID(parts[0]))
	if err != nil {
		log.Printf("[Catalog] list gifts of shop %s failed: %v", parts[0], err)
		writeError(w, http.StatusInternalServerError, "list gifts failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"gifts": gifts})
}

func (h *HTTPHandler) handleCharacters(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	characters, err := h.catalog.ListCharacters(ctx)
	if err != nil {
		log.Printf("[Catalog] list characters failed: %v", err)
		writeError(w, http.StatusInternalServerError, "list characters failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"characters": characters})
}

func (h *HTTPHandler) handleCharacter(w http.ResponseWriter, r *http.Request) {
	parts := splitPath(r.URL.Path, "/api/characters/")
	if len(parts) == 0 || len(parts) > 2 {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	characterID := parts[0]

	if len(parts) == 2 && parts[1] == "complete-quest" {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		h.handleCompleteQuest(w, r, characterID)
		return
	}
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	c, ok := h.lookupCharacter(ctx, w, characterID)
	if !ok {
		return
	}

	if len(parts) == 1 {
		writeJSON(w, http.StatusOK, map[string]any{"character": c})
		return
	}
	switch parts[1] {
	case "quest":
		if c.Quest == nil {
			writeError(w, http.StatusNotFound, "character has no quest")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"quest": c.Quest})
	case "matching-gifts":
		if c.Quest == nil {
			writeJSON(w, http.StatusOK, map[string]any{"gifts": []gift.Gift{}})
			return
		}
		h.writeFilteredGifts(ctx, w, func(gifts []gift.Gift) []gift.Gift {
			return village.FindMatchingGifts(gifts, *c.Quest)
		})
	case "recommendations":
		h.writeFilteredGifts(ctx, w, func(gifts []gift.Gift) []gift.Gift {
			return village.RecommendGifts(gifts, c.Preferences)
		})
	default:
		writeError(w, http.StatusNotFound, "not found")
	}
}

// handleCompleteQuest acknowledges a completion without checking or storing
// anything. Gameplay completion happens in the per-session world.
func (h *HTTPHandler) handleCompleteQuest(w http.ResponseWriter, r *http.Request, characterID string) {
	var req completeQuestRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"quest": completedQuest{
			ID:              fmt.Sprintf("quest-%s-1", characterID),
			CharacterID:     characterID,
			Status:          village.QuestStatusCompleted,
			CompletedGiftID: req.GiftID,
		},
	})
}

func (h *HTTPHandler) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req evaluateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.GiftID = strings.TrimSpace(req.GiftID)
	req.CharacterID = strings.TrimSpace(req.CharacterID)
	if req.GiftID == "" || req.CharacterID == "" {
		writeError(w, http.StatusBadRequest, "giftId and characterId are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	c, ok := h.lookupCharacter(ctx, w, req.CharacterID)
	if !ok {
		return
	}
	g, err := h.catalog.GetGift(ctx, req.GiftID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			h.writeNotFound(ctx, w, "gift not found", req.GiftID, h.giftIDs)
			return
		}
		log.Printf("[Catalog] get gift %s failed: %v", req.GiftID, err)
		writeError(w, http.StatusInternalServerError, "get gift failed")
		return
	}
	writeJSON(w, http.StatusOK, village.Evaluate(g, c))
}

func (h *HTTPHandler) handleAdminGifts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if err := h.admin.Authorize(r); err != nil {
		switch {
		case errors.Is(err, auth.ErrAdminDisabled):
			writeError(w, http.StatusForbidden, err.Error())
		default:
			writeError(w, http.StatusUnauthorized, err.Error())
		}
		return
	}

	var g gift.Gift
	if err := decodeJSON(r, &g); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	if err := h.catalog.UpsertGift(ctx, g); err != nil {
		if errors.Is(err, ErrInvalidGift) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("[Catalog] upsert gift %s failed: %v", g.ID, err)
		writeError(w, http.StatusInternalServerError, "upsert gift failed")
		return
	}
	log.Printf("[Catalog] gift %s upserted", g.ID)
	writeJSON(w, http.StatusOK, map[string]any{"gift": g})
}

func (h *HTTPHandler) lookupCharacter(ctx context.Context, w http.ResponseWriter, id string) (village.Character, bool) {
	c, err := h.catalog.GetCharacter(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			h.writeNotFound(ctx, w, "character not found", id, h.characterIDs)
			return village.Character{}, false
		}
		log.Printf("[Catalog] get character %s failed: %v", id, err)
		writeError(w, http.StatusInternalServerError, "get character failed")
		return village.Character{}, false
	}
	return c, true
}

func (h *HTTPHandler) writeFilteredGifts(ctx context.Context, w http.ResponseWriter, filter func([]gift.Gift) []gift.Gift) {
	gifts, err := h.catalog.ListGifts(ctx)
	if err != nil {
		log.Printf("[Catalog] list gifts failed: %v", err)
		writeError(w, http.StatusInternalServerError, "list gifts failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"gifts": filter(gifts)})
}

func (h *HTTPHandler) writeNotFound(ctx context.Context, w http.ResponseWriter, msg, id string, candidates func(context.Context) []string) {
	resp := errorResponse{Error: msg}
	if suggestion, ok := Suggest(id, candidates(ctx)); ok {
		resp.Suggestion = suggestion
	}
	writeJSON(w, http.StatusNotFound, resp)
}

func (h *HTTPHandler) characterIDs(ctx context.Context) []string {
	characters, err := h.catalog.ListCharacters(ctx)
	if err != nil {
		return nil
	}
	ids := make([]string, 0, len(characters))
	for _, c := range characters {
		ids = append(ids, c.ID)
	}
	return ids
}

func (h *HTTPHandler) giftIDs(ctx context.Context) []string {
	gifts, err := h.catalog.ListGifts(ctx)
	if err != nil {
		return nil
	}
	ids := make([]string, 0, len(gifts))
	for _, g := range gifts {
		ids = append(ids, g.ID)
	}
	return ids
}

func splitPath(path, prefix string) []string {
	path = strings.Trim(strings.TrimPrefix(path, prefix), "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

func decodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

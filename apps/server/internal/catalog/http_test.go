package catalog

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gift-village/apps/server/internal/auth"
	"gift-village/gift"
	"gift-village/village"
)

const testAdminKey = "north-pole-secret"

func newTestServer(t *testing.T) *http.ServeMux {
	t.Helper()
	hash, err := auth.HashKey(testAdminKey)
	if err != nil {
		t.Fatalf("HashKey: %v", err)
	}
	mux := http.NewServeMux()
	NewHTTPHandler(newSeededMemory(t), auth.NewAdminVerifier(hash)).RegisterRoutes(mux)
	return mux
}

func doRequest(t *testing.T, mux *http.ServeMux, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(dst); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
}

func TestHTTP_ListEndpoints(t *testing.T) {
	mux := newTestServer(t)

	rec := doRequest(t, mux, http.MethodGet, "/api/shops", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("shops: expected 200, got %d", rec.Code)
	}
	var shops struct {
		Shops []gift.Shop `json:"shops"`
	}
	decodeBody(t, rec, &shops)
	if len(shops.Shops) != 3 {
		t.Fatalf("expected 3 shops, got %d", len(shops.Shops))
	}

	rec = doRequest(t, mux, http.MethodGet, "/api/shops/nflshop/gifts", "", nil)
	var gifts struct {
		Gifts []gift.Gift `json:"gifts"`
	}
	decodeBody(t, rec, &gifts)
	if len(gifts.Gifts) != 3 {
		t.Fatalf("expected 3 nfl gifts, got %d", len(gifts.Gifts))
	}

	rec = doRequest(t, mux, http.MethodGet, "/api/shops/etsy/gifts", "", nil)
	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != `{"gifts":[]}` {
		t.Fatalf("unknown shop should list no gifts, got %d %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, mux, http.MethodPost, "/api/gifts", "", nil)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}

func TestHTTP_Character(t *testing.T) {
	mux := newTestServer(t)

	rec := doRequest(t, mux, http.MethodGet, "/api/characters/elf", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body struct {
		Character village.Character `json:"character"`
	}
	decodeBody(t, rec, &body)
	if body.Character.Name != "Jingle the Elf" || body.Character.Quest == nil {
		t.Fatalf("unexpected character: %+v", body.Character)
	}

	rec = doRequest(t, mux, http.MethodGet, "/api/characters/snata", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	var notFound errorResponse
	decodeBody(t, rec, &notFound)
	if notFound.Suggestion != "santa" {
		t.Fatalf("expected suggestion santa, got %+v", notFound)
	}

	rec = doRequest(t, mux, http.MethodGet, "/api/characters/elf/quest", "", nil)
	var quest struct {
		Quest village.Quest `json:"quest"`
	}
	decodeBody(t, rec, &quest)
	if quest.Quest.ID != "quest-elf-1" || quest.Quest.Status != village.QuestStatusActive {
		t.Fatalf("unexpected quest: %+v", quest.Quest)
	}
}

func TestHTTP_MatchingAndRecommendations(t *testing.T) {
	mux := newTestServer(t)

	ids := func(path string) []string {
		rec := doRequest(t, mux, http.MethodGet, path, "", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, rec.Code)
		}
		var body struct {
			Gifts []gift.Gift `json:"gifts"`
		}
		decodeBody(t, rec, &body)
		out := make([]string, 0, len(body.Gifts))
		for _, g := range body.Gifts {
			out = append(out, g.ID)
		}
		return out
	}

	got := ids("/api/characters/elf/matching-gifts")
	if strings.Join(got, ",") != "packers-hoodie,bears-mug,game-day-jersey" {
		t.Fatalf("unexpected matching gifts: %v", got)
	}
	got = ids("/api/characters/elf/recommendations")
	if strings.Join(got, ",") != "packers-hoodie,bears-mug" {
		t.Fatalf("unexpected recommendations: %v", got)
	}
	got = ids("/api/characters/melissa/matching-gifts")
	if strings.Join(got, ",") != "carved-bird-feeder,bird-field-guide" {
		t.Fatalf("unexpected matching gifts for melissa: %v", got)
	}
}

func TestHTTP_Evaluate(t *testing.T) {
	mux := newTestServer(t)

	rec := doRequest(t, mux, http.MethodPost, "/api/evaluate", `{"giftId":"packers-hoodie","characterId":"elf"}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var eval struct {
		Rating       string `json:"rating"`
		Message      string `json:"message"`
		MatchesQuest bool   `json:"matchesQuest"`
	}
	decodeBody(t, rec, &eval)
	if eval.Rating != "excellent" || !eval.MatchesQuest || eval.Message != village.MessageExcellent {
		t.Fatalf("unexpected evaluation: %+v", eval)
	}

	rec = doRequest(t, mux, http.MethodPost, "/api/evaluate", `{"giftId":"bears-mug","characterId":"phil"}`, nil)
	decodeBody(t, rec, &eval)
	if eval.Rating != "poor" || !strings.Contains(eval.Message, "bears") {
		t.Fatalf("expected bears rejection, got %+v", eval)
	}

	rec = doRequest(t, mux, http.MethodPost, "/api/evaluate", `{"giftId":"packers-hodie","characterId":"elf"}`, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	var notFound errorResponse
	decodeBody(t, rec, &notFound)
	if notFound.Suggestion != "packers-hoodie" {
		t.Fatalf("expected suggestion, got %+v", notFound)
	}

	rec = doRequest(t, mux, http.MethodPost, "/api/evaluate", `{"giftId":"packers-hoodie"}`, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	rec = doRequest(t, mux, http.MethodPost, "/api/evaluate", `{"gift":"x"}`, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown field, got %d", rec.Code)
	}
}

func TestHTTP_CompleteQuestEcho(t *testing.T) {
	mux := newTestServer(t)

	rec := doRequest(t, mux, http.MethodPost, "/api/characters/santa/complete-quest", `{"giftId":"knit-stocking"}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	want := `{"quest":{"id":"quest-santa-1","characterId":"santa","status":"completed","completedGiftId":"knit-stocking"},"success":true}`
	if strings.TrimSpace(rec.Body.String()) != want {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}

	rec = doRequest(t, mux, http.MethodGet, "/api/characters/santa/quest", "", nil)
	var quest struct {
		Quest village.Quest `json:"quest"`
	}
	decodeBody(t, rec, &quest)
	if quest.Quest.Status != village.QuestStatusActive {
		t.Fatalf("complete-quest must not change stored state, got %s", quest.Quest.Status)
	}
}

func TestHTTP_AdminUpsertGift(t *testing.T) {
	mux := newTestServer(t)
	body := `{"id":"wool-scarf","title":"Wool Scarf","shopId":"amazon","priceUsd":18,"tags":["winter","clothing"]}`

	rec := doRequest(t, mux, http.MethodPost, "/api/admin/gifts", body, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without key, got %d", rec.Code)
	}
	rec = doRequest(t, mux, http.MethodPost, "/api/admin/gifts", body, map[string]string{"Authorization": "Bearer wrong-key-value"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with wrong key, got %d", rec.Code)
	}

	authHeader := map[string]string{"Authorization": "Bearer " + testAdminKey}
	rec = doRequest(t, mux, http.MethodPost, "/api/admin/gifts", body, authHeader)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	rec = doRequest(t, mux, http.MethodGet, "/api/shops/amazon/gifts", "", nil)
	if !strings.Contains(rec.Body.String(), "wool-scarf") {
		t.Fatalf("upserted gift missing from shop listing: %s", rec.Body.String())
	}

	rec = doRequest(t, mux, http.MethodPost, "/api/admin/gifts", `{"id":"x","title":"X","shopId":"etsy"}`, authHeader)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown shop, got %d", rec.Code)
	}
}

func TestHTTP_AdminDisabled(t *testing.T) {
	mux := http.NewServeMux()
	NewHTTPHandler(newSeededMemory(t), auth.NewAdminVerifier("")).RegisterRoutes(mux)

	rec := doRequest(t, mux, http.MethodPost, "/api/admin/gifts", `{}`, map[string]string{"Authorization": "Bearer " + testAdminKey})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

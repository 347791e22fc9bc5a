package gateway

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"gift-village/apps/server/internal/catalog"
	"gift-village/apps/server/internal/codec"
	"gift-village/apps/server/internal/lobby"
	"gift-village/gift"
	"gift-village/village"
)

type testClient struct {
	t    *testing.T
	conn *websocket.Conn
	seq  uint64
}

func dial(t *testing.T) (*testClient, *Gateway) {
	t.Helper()
	seed, err := village.LoadSeed(filepath.Join("..", "..", "..", "..", "data", "village.yaml"))
	if err != nil {
		t.Fatalf("LoadSeed: %v", err)
	}
	svc := catalog.NewMemoryService()
	if err := svc.Import(context.Background(), seed); err != nil {
		t.Fatalf("Import: %v", err)
	}
	gw := New(lobby.New(svc, village.DefaultConfig()), "*")

	srv := httptest.NewServer(http.HandlerFunc(gw.HandleWebSocket))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return &testClient{t: t, conn: conn}, gw
}

func (c *testClient) send(env codec.ClientEnvelope) {
	c.t.Helper()
	c.seq++
	env.Seq = c.seq
	data, err := codec.EncodeClient(env)
	if err != nil {
		c.t.Fatalf("EncodeClient: %v", err)
	}
	if err := c.conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
		c.t.Fatalf("WriteMessage: %v", err)
	}
}

func (c *testClient) read() (codec.ServerEnvelope, map[string]any) {
	c.t.Helper()
	_ = c.conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, data, err := c.conn.ReadMessage()
	if err != nil {
		c.t.Fatalf("ReadMessage: %v", err)
	}
	env, err := codec.DecodeServer(data)
	if err != nil {
		c.t.Fatalf("DecodeServer: %v", err)
	}
	payload, _ := env.Payload.(map[string]any)
	return env, payload
}

func (c *testClient) expect(msgType string) map[string]any {
	c.t.Helper()
	env, payload := c.read()
	if env.Type != msgType {
		c.t.Fatalf("expected %s frame, got %s: %+v", msgType, env.Type, payload)
	}
	if env.Seq != c.seq {
		c.t.Fatalf("expected seq %d, got %d", c.seq, env.Seq)
	}
	return payload
}

func TestGateway_ShopAndGiveGift(t *testing.T) {
	c, _ := dial(t)

	initial := c.expect(codec.TypeSnapshot)
	if initial["mode"] != "world" {
		t.Fatalf("expected world mode, got %+v", initial["mode"])
	}

	c.send(codec.ClientEnvelope{Type: codec.TypeEnterShop, ShopID: gift.ShopNFL})
	if p := c.expect(codec.TypeError); p["code"] != "too_far" {
		t.Fatalf("expected too_far, got %+v", p)
	}

	c.send(codec.ClientEnvelope{Type: codec.TypeMove, X: 240, Y: 70})
	if p := c.expect(codec.TypeSnapshot); p["nearbyShopId"] != string(gift.ShopNFL) {
		t.Fatalf("expected nfl shop nearby, got %+v", p)
	}
	c.send(codec.ClientEnvelope{Type: codec.TypeEnterShop, ShopID: gift.ShopNFL})
	if p := c.expect(codec.TypeSnapshot); p["mode"] != "shop" {
		t.Fatalf("expected shop mode, got %+v", p)
	}
	c.send(codec.ClientEnvelope{Type: codec.TypeAddToBag, GiftID: "packers-hoodie"})
	if p := c.expect(codec.TypeSnapshot); p["bagCount"] != float64(1) {
		t.Fatalf("expected one item in bag, got %+v", p["bagCount"])
	}
	c.send(codec.ClientEnvelope{Type: codec.TypeExitShop})
	c.expect(codec.TypeSnapshot)
	c.send(codec.ClientEnvelope{Type: codec.TypeMove, X: 390, Y: 200})
	c.expect(codec.TypeSnapshot)

	c.send(codec.ClientEnvelope{Type: codec.TypeGiveGift, CharacterID: "elf", GiftID: "packers-hoodie"})
	result := c.expect(codec.TypeGiftResult)
	eval, _ := result["evaluation"].(map[string]any)
	if eval["rating"] != "excellent" || result["questCompleted"] != true {
		t.Fatalf("unexpected gift result: %+v", result)
	}
	c.expect(codec.TypeSnapshot)

	c.send(codec.ClientEnvelope{Type: codec.TypeGiveGift, CharacterID: "elf", GiftID: "packers-hoodie"})
	result = c.expect(codec.TypeGiftResult)
	if result["questCompleted"] != false {
		t.Fatalf("quest must complete only once: %+v", result)
	}
	c.expect(codec.TypeSnapshot)
}

func TestGateway_RejectsUnknownType(t *testing.T) {
	c, _ := dial(t)
	c.expect(codec.TypeSnapshot)

	if err := c.conn.WriteMessage(websocket.BinaryMessage, []byte{0xff, 0x01}); err != nil {
		t.Fatalf("WriteMessage: %v", err)
	}
	env, payload := c.read()
	if env.Type != codec.TypeError || payload["code"] != "bad_request" {
		t.Fatalf("expected bad_request error, got %s %+v", env.Type, payload)
	}
}

func TestGateway_ConnectionLifecycle(t *testing.T) {
	c, gw := dial(t)
	c.expect(codec.TypeSnapshot)
	if gw.ConnectionCount() != 1 {
		t.Fatalf("expected 1 connection, got %d", gw.ConnectionCount())
	}
	if gw.lobby.Count() != 1 {
		t.Fatalf("expected 1 session, got %d", gw.lobby.Count())
	}

	_ = c.conn.Close()
	deadline := time.Now().Add(5 * time.Second)
	for gw.ConnectionCount() != 0 || gw.lobby.Count() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("connection not cleaned up: conns=%d sessions=%d", gw.ConnectionCount(), gw.lobby.Count())
		}
		time.Sleep(10 * time.Millisecond)
	}
}

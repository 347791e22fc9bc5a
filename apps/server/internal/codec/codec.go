package codec

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"gift-village/gift"
)

// Client message types.
const (
	TypeMove          = "move"
	TypeMoveBy        = "move_by"
	TypeEnterShop     = "enter_shop"
	TypeExitShop      = "exit_shop"
	TypeAddToBag      = "add_to_bag"
	TypeRemoveFromBag = "remove_from_bag"
	TypeGiveGift      = "give_gift"
	TypeSnapshot      = "snapshot"
)

// Server message types.
const (
	TypeGiftResult = "gift_result"
	TypeError      = "error"
)

var (
	ErrUnknownType  = errors.New("unknown message type")
	ErrMissingField = errors.New("missing field")
)

// ClientEnvelope is a decoded client frame. Only the fields relevant to Type
// are set.
type ClientEnvelope struct {
	Type        string
	Seq         uint64
	X, Y        float64
	DX, DY      float64
	ShopID      gift.ShopID
	GiftID      string
	CharacterID string
}

// ServerEnvelope is a server frame. Payload is any JSON-encodable value.
type ServerEnvelope struct {
	Type       string
	Seq        uint64
	ServerTsMs int64
	Payload    any
}

// ErrorPayload is the payload of an error frame.
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// requiredFields lists, per client type, the fields that must be present.
var requiredFields = map[string][]string{
	TypeMove:          {"x", "y"},
	TypeMoveBy:        {"dx", "dy"},
	TypeEnterShop:     {"shop_id"},
	TypeExitShop:      nil,
	TypeAddToBag:      {"gift_id"},
	TypeRemoveFromBag: {"gift_id"},
	TypeGiveGift:      {"character_id", "gift_id"},
	TypeSnapshot:      nil,
}

// WrapServerEnvelope stamps a payload with seq and the current server time.
func WrapServerEnvelope(msgType string, seq uint64, payload any) ServerEnvelope {
	return ServerEnvelope{
		Type:       msgType,
		Seq:        seq,
		ServerTsMs: time.Now().UnixMilli(),
		Payload:    payload,
	}
}

func EncodeServer(env ServerEnvelope) ([]byte, error) {
	payload, err := toValue(env.Payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", env.Type, err)
	}
	st := &structpb.Struct{Fields: map[string]*structpb.Value{
		"type":         structpb.NewStringValue(env.Type),
		"seq":          structpb.NewNumberValue(float64(env.Seq)),
		"server_ts_ms": structpb.NewNumberValue(float64(env.ServerTsMs)),
		"payload":      payload,
	}}
	return proto.Marshal(st)
}

// DecodeServer parses a server frame. Payload comes back as generic JSON
// values (map[string]any, []any, float64, string, bool, nil).
func DecodeServer(data []byte) (ServerEnvelope, error) {
	st, err := unmarshalStruct(data)
	if err != nil {
		return ServerEnvelope{}, err
	}
	env := ServerEnvelope{
		Type:       stringField(st, "type"),
		Seq:        uint64(numberField(st, "seq")),
		ServerTsMs: int64(numberField(st, "server_ts_ms")),
	}
	if v, ok := st.Fields["payload"]; ok {
		env.Payload = v.AsInterface()
	}
	return env, nil
}

func EncodeClient(env ClientEnvelope) ([]byte, error) {
	fields, ok := requiredFields[env.Type]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownType, env.Type)
	}
	st := &structpb.Struct{Fields: map[string]*structpb.Value{
		"type": structpb.NewStringValue(env.Type),
		"seq":  structpb.NewNumberValue(float64(env.Seq)),
	}}
	for _, name := range fields {
		switch name {
		case "x":
			st.Fields[name] = structpb.NewNumberValue(env.X)
		case "y":
			st.Fields[name] = structpb.NewNumberValue(env.Y)
		case "dx":
			st.Fields[name] = structpb.NewNumberValue(env.DX)
		case "dy":
			st.Fields[name] = structpb.NewNumberValue(env.DY)
		case "shop_id":
			st.Fields[name] = structpb.NewStringValue(string(env.ShopID))
		case "gift_id":
			st.Fields[name] = structpb.NewStringValue(env.GiftID)
		case "character_id":
			st.Fields[name] = structpb.NewStringValue(env.CharacterID)
		}
	}
	return proto.Marshal(st)
}

func DecodeClient(data []byte) (ClientEnvelope, error) {
	st, err := unmarshalStruct(data)
	if err != nil {
		return ClientEnvelope{}, err
	}
	env := ClientEnvelope{
		Type: stringField(st, "type"),
		Seq:  uint64(numberField(st, "seq")),
	}
	fields, ok := requiredFields[env.Type]
	if !ok {
		return env, fmt.Errorf("%w %q", ErrUnknownType, env.Type)
	}
	for _, name := range fields {
		if _, present := st.Fields[name]; !present {
			return env, fmt.Errorf("%w %q for %s", ErrMissingField, name, env.Type)
		}
	}

	env.X = numberField(st, "x")
	env.Y = numberField(st, "y")
	env.DX = numberField(st, "dx")
	env.DY = numberField(st, "dy")
	env.ShopID = gift.ShopID(stringField(st, "shop_id"))
	env.GiftID = stringField(st, "gift_id")
	env.CharacterID = stringField(st, "character_id")
	return env, nil
}

func unmarshalStruct(data []byte) (*structpb.Struct, error) {
	st := &structpb.Struct{}
	if err := proto.Unmarshal(data, st); err != nil {
		return nil, fmt.Errorf("unmarshal envelope: %w", err)
	}
	return st, nil
}

// toValue converts payload through its JSON form so struct tags and
// MarshalText implementations decide the wire shape.
func toValue(payload any) (*structpb.Value, error) {
	if payload == nil {
		return structpb.NewNullValue(), nil
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, err
	}
	return structpb.NewValue(generic)
}

func stringField(st *structpb.Struct, name string) string {
	if v, ok := st.Fields[name]; ok {
		return v.GetStringValue()
	}
	return ""
}

func numberField(st *structpb.Struct, name string) float64 {
	if v, ok := st.Fields[name]; ok {
		return v.GetNumberValue()
	}
	return 0
}

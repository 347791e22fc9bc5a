//go:build js && wasm

package main

import (
	"encoding/json"
	"syscall/js"

	"gift-village/gift"
	"gift-village/village"
)

type evaluateRequest struct {
	Gift      gift.Gift         `json:"gift"`
	Character village.Character `json:"character"`
}

type matchRequest struct {
	Gifts []gift.Gift   `json:"gifts"`
	Quest village.Quest `json:"quest"`
}

type wasmError struct {
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

type evaluateResponse struct {
	OK         bool                    `json:"ok"`
	Evaluation *village.GiftEvaluation `json:"evaluation,omitempty"`
	Error      *wasmError              `json:"error,omitempty"`
}

type matchResponse struct {
	OK    bool        `json:"ok"`
	Gifts []gift.Gift `json:"gifts,omitempty"`
	Error *wasmError  `json:"error,omitempty"`
}

func main() {
	js.Global().Set("__evaluateGift", js.FuncOf(func(this js.Value, args []js.Value) any {
		if len(args) < 1 {
			return mustJSON(evaluateResponse{Error: &wasmError{Reason: "invalid_request", Message: "missing request payload"}})
		}
		return mustJSON(handleEvaluate(args[0].String()))
	}))
	js.Global().Set("__findMatchingGifts", js.FuncOf(func(this js.Value, args []js.Value) any {
		if len(args) < 1 {
			return mustJSON(matchResponse{Error: &wasmError{Reason: "invalid_request", Message: "missing request payload"}})
		}
		return mustJSON(handleMatch(args[0].String()))
	}))

	select {}
}

func handleEvaluate(raw string) evaluateResponse {
	var req evaluateRequest
	if err := json.Unmarshal([]byte(raw), &req); err != nil {
		return evaluateResponse{Error: &wasmError{Reason: "invalid_json", Message: err.Error()}}
	}
	eval := village.Evaluate(req.Gift, req.Character)
	return evaluateResponse{OK: true, Evaluation: &eval}
}

func handleMatch(raw string) matchResponse {
	var req matchRequest
	if err := json.Unmarshal([]byte(raw), &req); err != nil {
		return matchResponse{Error: &wasmError{Reason: "invalid_json", Message: err.Error()}}
	}
	return matchResponse{OK: true, Gifts: village.FindMatchingGifts(req.Gifts, req.Quest)}
}

func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		b, _ = json.Marshal(evaluateResponse{Error: &wasmError{Reason: "marshal_failed", Message: err.Error()}})
	}
	return string(b)
}

package httputil

import (
	"encoding/json"
	"errors"
	"net/http"
)

// Response is the envelope returned by every endpoint. Clients branch on
// Success, never on the HTTP status text.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
	Help    string `json:"help,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func OK(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusOK, Response{Success: true, Data: data})
}

func Created(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusCreated, Response{Success: true, Data: data})
}

func Fail(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, Response{Error: msg})
}

func FailCode(w http.ResponseWriter, status int, msg, code, help string) {
	WriteJSON(w, status, Response{Error: msg, Code: code, Help: help})
}

func ReadJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return errors.New("empty request body")
	}
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return errors.New("invalid JSON body")
	}
	return nil
}

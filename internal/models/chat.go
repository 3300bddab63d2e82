package models

import "fmt"

// Role identifies the speaker of a conversation turn.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleModel
}

func (r Role) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("invalid turn role %q", string(r))
	}
	return []byte(r), nil
}

func (r *Role) UnmarshalText(text []byte) error {
	role := Role(text)
	if !role.Valid() {
		return fmt.Errorf("invalid turn role %q", string(text))
	}
	*r = role
	return nil
}

// Turn is one message unit in the conversation, tagged by speaker role.
type Turn struct {
	Role  Role     `json:"role"`
	Parts []string `json:"parts"`
}

func NewTurn(role Role, text string) Turn {
	return Turn{Role: role, Parts: []string{text}}
}

// CloneTurns returns a deep copy so callers never share part slices with the live history.
func CloneTurns(turns []Turn) []Turn {
	out := make([]Turn, len(turns))
	for i, t := range turns {
		parts := make([]string, len(t.Parts))
		copy(parts, t.Parts)
		out[i] = Turn{Role: t.Role, Parts: parts}
	}
	return out
}

// ChatRequest is the payload sent to POST /chat.
type ChatRequest struct {
	Message *string `json:"message"`
}

type ChatResponse struct {
	Response string `json:"response"`
	History  []Turn `json:"history"`
	Status   string `json:"status"`
}

type HistoryResponse struct {
	History []Turn `json:"history"`
	Status  string `json:"status"`
}

type MessageResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}

type StatusResponse struct {
	Status string `json:"status"`
}

// ErrorResponse is the envelope for every failed request.
type ErrorResponse struct {
	Error  string `json:"error"`
	Status string `json:"status"`
}

const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

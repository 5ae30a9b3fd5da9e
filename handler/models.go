package handler

import (
	"github.com/YCHuang2112sub/deep-researcher-a2a-purple-agent/payload"
)

// RequestPayload represents the expected JSON structure in the request body.
type RequestPayload struct {
	Input *GenerateInput `json:"input"`
}

// GenerateInput accepts both request forms: a structured deck or a bare query.
type GenerateInput struct {
	Title  string          `json:"title,omitempty"`
	Query  string          `json:"query,omitempty"`
	Slides []payload.Slide `json:"slides,omitempty"`
}

// researchOnly reports whether the input asks for deep research rather than
// rendering slides it already carries.
func (in *GenerateInput) researchOnly() bool {
	return in.Query != "" && len(in.Slides) == 0
}

// AgentCard describes the service on its discovery endpoints.
type AgentCard struct {
	Name         string            `json:"name"`
	Description  string            `json:"description"`
	Version      string            `json:"version"`
	Type         string            `json:"type"`
	Capabilities []string          `json:"capabilities"`
	Skills       []string          `json:"skills"`
	Endpoints    map[string]string `json:"endpoints"`
}

type errorResponse struct {
	Status string `json:"status,omitempty"`
	Error  string `json:"error"`
}

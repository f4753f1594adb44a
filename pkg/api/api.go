// Package api содержит типы запросов и ответов HTTP API issuekeeper.
// Используется и сервером, и клиентом.
package api

import "encoding/json"

// Envelope оборачивает каждый ответ API
type Envelope[T any] struct {
	Data    T      `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
	Success bool   `json:"success"`
}

// Response is an envelope with undecoded data.
type Response = Envelope[json.RawMessage]

// MessageResponse is the data of endpoints that only report an outcome.
type MessageResponse struct {
	Message string `json:"message"`
}

// HealthResponse представляет ответ health check
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

package errors

import (
	"encoding/json"
	"net/http"
)

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// LimitError carries the freemium quota payload alongside the upgrade
// prompt so clients can render the paywall with exact numbers.
type LimitError struct {
	Code              string `json:"code"`
	Message           string `json:"message"`
	IsPremiumRequired bool   `json:"is_premium_required"`
	Limit             int    `json:"limit,omitempty"`
	Used              int    `json:"used,omitempty"`
}

type RateLimitError struct {
	Code          string `json:"code"`
	Message       string `json:"message"`
	RetryAfterSec int64  `json:"retry_after_sec"`
}

func Write(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

package api

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Number of times a nested JSON error body is unwrapped before giving up.
const maxUnwrapDepth = 3

// timeNow is swapped out in tests that exercise date-form Retry-After.
var timeNow = time.Now

// ResolveMessage turns a raw request failure into a single human-readable
// string. Rate limiting short-circuits everything else; other errors have
// their message extracted, unwrapped from nested JSON bodies, and finally
// remapped for a couple of known backend failure modes. The resolver never
// panics on malformed bodies and never returns an empty string as long as
// fallback is non-empty.
func ResolveMessage(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusTooManyRequests {
		return rateLimitMessage(apiErr.RetryAfter)
	}

	message := extractMessage(err, apiErr)
	message = unwrapNested(message)

	return remapDomainErrors(message, fallback)
}

// rateLimitMessage renders the 429 countdown message from a Retry-After
// header, which may be delay seconds or an HTTP date.
func rateLimitMessage(retryAfter string) string {
	retryAfter = strings.TrimSpace(retryAfter)
	if retryAfter != "" {
		if seconds, err := strconv.ParseFloat(retryAfter, 64); err == nil {
			if seconds >= 0 && !math.IsInf(seconds, 0) && !math.IsNaN(seconds) {
				return retryInMessage(int64(math.Round(seconds)))
			}
		} else if at, err := http.ParseTime(retryAfter); err == nil {
			seconds := int64(math.Ceil(at.Sub(timeNow()).Seconds()))
			if seconds < 0 {
				seconds = 0
			}
			return retryInMessage(seconds)
		}
	}
	return "Too many requests. Please try again shortly."
}

func retryInMessage(seconds int64) string {
	return "Too many requests. Please try again in " + strconv.FormatInt(seconds, 10) + " seconds."
}

// extractMessage pulls the first available message: a structured message
// field, then a structured detail field, then the generic error text.
func extractMessage(err error, apiErr *Error) string {
	if apiErr != nil && len(apiErr.Body) > 0 {
		var envelope struct {
			Message string `json:"message"`
			Detail  string `json:"detail"`
		}
		if json.Unmarshal(apiErr.Body, &envelope) == nil {
			if envelope.Message != "" {
				return envelope.Message
			}
			if envelope.Detail != "" {
				return envelope.Detail
			}
		}
	}
	if err != nil {
		return err.Error()
	}
	return ""
}

// unwrapNested peels backend bodies that arrive as JSON-encoded strings or
// objects nested inside an error message, e.g.
// "{\"detail\":\"{\\\"message\\\":\\\"...\\\"}\"}". Unwrapping is bounded
// and stops at the last successfully extracted string.
func unwrapNested(message string) string {
	for i := 0; i < maxUnwrapDepth; i++ {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			return message
		}
		var parsed any
		if err := json.Unmarshal([]byte(trimmed), &parsed); err != nil {
			return message
		}
		switch v := parsed.(type) {
		case string:
			message = v
		case map[string]any:
			if detail, ok := v["detail"].(string); ok && detail != "" {
				message = detail
			} else if msg, ok := v["message"].(string); ok && msg != "" {
				message = msg
			} else {
				return message
			}
		default:
			return message
		}
	}
	return message
}

// remapDomainErrors replaces a couple of opaque backend errors with
// actionable guidance; anything else passes through unchanged.
func remapDomainErrors(message, fallback string) string {
	if strings.TrimSpace(message) == "" {
		return fallback
	}
	lower := strings.ToLower(message)
	if strings.Contains(lower, "aspect ratio") && strings.Contains(lower, "20:1") {
		return "This image is too narrow/wide for AI parsing. Please upload a clearer PDF or a normal screenshot/photo."
	}
	if strings.Contains(lower, "required key [messages] not found") {
		return "Recommendation service is temporarily misconfigured. Please retry in a moment."
	}
	return message
}

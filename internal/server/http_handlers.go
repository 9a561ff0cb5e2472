package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
)

// healthHandler provides a health check endpoint including font status
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]any{
		"status":  "healthy",
		"service": "hirescan",
		"version": s.Version,
	}

	// Report font configuration and hot-reload status
	fontStatus := s.checkFontHealth()
	response["fonts"] = fontStatus

	if healthy, ok := fontStatus["healthy"].(bool); ok && !healthy {
		response["status"] = "degraded"
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(response)
	if err != nil {
		log.Printf("Failed to encode health response: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// checkFontHealth reports whether the engine has usable font faces
// and whether the font watcher (if configured) is running.
func (s *Server) checkFontHealth() map[string]any {
	fontStatus := map[string]any{
		"healthy": s.Engine != nil && s.Engine.Ready(),
	}

	if s.AppConfig != nil {
		fonts := s.AppConfig.Export.Fonts
		fontStatus["regular"] = fontSource(fonts.Regular)
		fontStatus["bold"] = fontSource(fonts.Bold)
	}

	if s.FontWatcher != nil {
		fontStatus["auto_reload"] = map[string]any{
			"enabled":       true,
			"running":       s.FontWatcher.IsRunning(),
			"watched_files": s.FontWatcher.GetWatchedFiles(),
		}
	} else {
		fontStatus["auto_reload"] = map[string]any{
			"enabled": false,
		}
	}

	return fontStatus
}

// fontSource describes where a font face comes from for health reporting
func fontSource(path string) string {
	if path == "" {
		return "builtin"
	}
	return path
}

// statsHandler provides server statistics including rate limiting info
func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]any{
		"service": "hirescan",
		"version": s.Version,
		"server": map[string]any{
			"max_request_size_bytes": s.MaxRequestSize,
		},
	}

	if s.AppConfig != nil {
		page := s.AppConfig.Export.Page
		response["page"] = map[string]any{
			"width_mm":         page.WidthMm,
			"height_mm":        page.HeightMm,
			"content_width_px": page.ContentWidthPx,
			"scale":            page.Scale,
		}
	}

	// Add rate limiting stats if enabled
	if s.RateLimiter != nil {
		response["rate_limiting"] = s.RateLimiter.GetStats()
	} else {
		response["rate_limiting"] = map[string]any{
			"enabled": false,
		}
	}

	// Add configuration info
	if s.RateLimit != nil {
		response["rate_limit_config"] = map[string]any{
			"enabled":          s.RateLimit.Enabled,
			"requests_per_min": s.RateLimit.RequestsPerMin,
			"burst_capacity":   s.RateLimit.BurstCapacity,
			"by_ip":            s.RateLimit.ByIP,
			"by_api_key":       s.RateLimit.ByAPIKey,
		}
	}

	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(response)
	if err != nil {
		log.Printf("Failed to encode stats response: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// parseJSONRequest parses JSON request body into the provided struct
func parseJSONRequest(r *http.Request, v any) error {
	if r.Header.Get("Content-Type") != "application/json" {
		return fmt.Errorf("content-type must be application/json")
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return fmt.Errorf("request body too large (limit is %d bytes)", maxBytesErr.Limit)
		}
		return fmt.Errorf("failed to read request body: %w", err)
	}
	defer func() {
		if err := r.Body.Close(); err != nil {
			log.Printf("Failed to close request body: %v", err)
		}
	}()

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to parse JSON: %w", err)
	}

	return nil
}

// writeErrorResponse writes a standardized error response
func writeErrorResponse(w http.ResponseWriter, error, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := ErrorResponse{
		Error:   error,
		Message: message,
	}

	err := json.NewEncoder(w).Encode(response)
	if err != nil {
		log.Printf("Failed to encode error response: %v", err)
		http.Error(w, "Failed to encode error response", http.StatusInternalServerError)
	}
}

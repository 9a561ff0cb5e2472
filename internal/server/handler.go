package server

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	hirescanErrors "hirescan/internal/errors"
	"hirescan/internal/observability"
	"hirescan/internal/types"

	"go.opentelemetry.io/otel/attribute"
)

// createExportHandler wraps the export pipeline with observability.
// The endpoint fixes the document kind; a kind field in the body is ignored.
func (s *Server) createExportHandler(om *observability.ObservabilityManager, kind types.DocumentKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("hirescan.api")
		ctx, span := tracer.Start(ctx, "api.export."+string(kind))
		defer span.End()

		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		// Parse request
		var req types.ExportRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}
		req.Kind = kind

		// Validation. Guides only need text; the candidate falls back to
		// placeholders in the header and file name.
		if kind == types.KindReport &&
			strings.TrimSpace(req.Candidate.Name) == "" && req.Candidate.TotalScore == 0 && len(req.Candidate.Metrics) == 0 {
			err := fmt.Errorf("missing candidate profile")
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Missing candidate profile", "candidate field is required", http.StatusBadRequest)
			return
		}
		if kind == types.KindGuide && strings.TrimSpace(req.GuideText) == "" {
			err := fmt.Errorf("missing guide text")
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Missing guide text", "guideText field is required", http.StatusBadRequest)
			return
		}

		// Add request attributes to span
		span.SetAttributes(
			attribute.String("operation", "export"),
			attribute.String("export.kind", string(kind)),
			attribute.String("request.job_title", req.Job.Title),
		)

		// Track export operation with observability
		metrics := om.GetMetrics()
		var result *types.ExportResult
		err := metrics.TrackExportOperation(ctx, string(kind), func(ctx context.Context) *observability.ExportOperationResult {
			res, exportErr := s.Engine.Export(ctx, req)
			result = res
			opResult := &observability.ExportOperationResult{Error: exportErr}
			if res != nil {
				opResult.Pages = res.Pages
				opResult.OverflowPages = res.OverflowPages
				opResult.DocumentBytes = len(res.PDF)
			}
			return opResult
		}, om)

		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "export_processing"))
			metrics.RecordBusinessMetric(ctx, businessMetricType(kind), false, om,
				attribute.String("error", err.Error()))
			writeExportError(w, err)
			return
		}

		// Record success metrics
		metrics.RecordBusinessMetric(ctx, businessMetricType(kind), true, om,
			attribute.Int("pages", result.Pages),
			attribute.Int("document_bytes", len(result.PDF)))

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Int("response.pages", result.Pages),
			attribute.Int("response.document_bytes", len(result.PDF)),
		)

		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", contentDisposition(result.FileName))
		w.Header().Set("Content-Length", strconv.Itoa(len(result.PDF)))
		w.Header().Set("X-Document-Pages", strconv.Itoa(result.Pages))
		if _, err := w.Write(result.PDF); err != nil {
			span.RecordError(err)
			s.Logger.Debug("Failed to write PDF response", "error", err)
		}
	}
}

// businessMetricType maps a document kind to its business metric name
func businessMetricType(kind types.DocumentKind) string {
	if kind == types.KindGuide {
		return "guide_exported"
	}
	return "report_exported"
}

// writeExportError maps pipeline errors to HTTP status codes
func writeExportError(w http.ResponseWriter, err error) {
	var appErr *hirescanErrors.AppError
	if stderrors.As(err, &appErr) {
		switch appErr.Code {
		case hirescanErrors.ErrCodeExportInFlight:
			writeErrorResponse(w, "Export already in progress", appErr.Message, http.StatusConflict)
			return
		case hirescanErrors.ErrCodeEmptyDocument, hirescanErrors.ErrCodeInvalidRequest, hirescanErrors.ErrCodeInvalidFormat:
			writeErrorResponse(w, "Invalid export request", appErr.Message, http.StatusBadRequest)
			return
		}
	}
	writeErrorResponse(w, "Failed to export document", err.Error(), http.StatusInternalServerError)
}

// contentDisposition builds an attachment header. File names can carry
// localized labels and candidate names, so a percent-encoded UTF-8 form
// rides alongside an ASCII fallback.
func contentDisposition(fileName string) string {
	ascii := make([]rune, 0, len(fileName))
	for _, r := range fileName {
		if r < 0x20 || r > 0x7e || r == '"' || r == '\\' {
			ascii = append(ascii, '_')
			continue
		}
		ascii = append(ascii, r)
	}
	return fmt.Sprintf(`attachment; filename="%s"; filename*=UTF-8''%s`,
		string(ascii), url.PathEscape(fileName))
}

// createRateLimitMiddleware adds observability to rate limiting
func (s *Server) createRateLimitMiddleware(om *observability.ObservabilityManager) func(http.HandlerFunc) http.HandlerFunc {
	originalMiddleware := s.rateLimitMiddleware()

	return func(next http.HandlerFunc) http.HandlerFunc {
		return originalMiddleware(func(w http.ResponseWriter, r *http.Request) {
			// Wrap the ResponseWriter to detect rate limit responses
			wrapper := &responseWrapper{ResponseWriter: w, statusCode: 200}

			next(wrapper, r)

			// If rate limited, record metric
			if wrapper.statusCode == http.StatusTooManyRequests {
				metrics := om.GetMetrics()
				metrics.RecordBusinessMetric(r.Context(), "rate_limit_hit", true, om,
					attribute.String("endpoint", r.URL.Path),
					attribute.String("method", r.Method))
			}
		})
	}
}

// responseWrapper wraps http.ResponseWriter to capture status code
type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWrapper) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/nijaru/yt-transcript/config"
	"github.com/nijaru/yt-transcript/db"
	apperrors "github.com/nijaru/yt-transcript/errors"
	"github.com/nijaru/yt-transcript/logger"
	"github.com/nijaru/yt-transcript/middleware"
	"github.com/nijaru/yt-transcript/transcription"
	"github.com/nijaru/yt-transcript/utils"
	"github.com/nijaru/yt-transcript/validation"
	"github.com/nijaru/yt-transcript/vtt"
	"golang.org/x/time/rate"
)

const (
	defaultFetchLimit = 50
	maxFetchLimit     = 500
	maxBodySize       = 64 << 10
)

var (
	cfg         *config.Config
	rateLimiter *rate.Limiter
	service     *transcription.TranscriptionService
)

type transcriptRequest struct {
	VideoURL string `json:"videoUrl"`
}

type transcriptResponse struct {
	Success    bool          `json:"success"`
	VideoID    string        `json:"videoId"`
	Transcript []vtt.Segment `json:"transcript"`
}

type fetchesResponse struct {
	Success bool             `json:"success"`
	Fetches []db.FetchRecord `json:"fetches"`
}

func InitHandlers(config *config.Config, svc *transcription.TranscriptionService) {
	cfg = config
	rateLimiter = rate.NewLimiter(rate.Every(cfg.RateLimitInterval), cfg.RateLimit)
	service = svc
}

// Routes returns the API mux wrapped in the logging and CORS middleware.
func Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/transcript", TranscriptHandler)
	mux.HandleFunc("/api/transcript/text", TranscriptTextHandler)
	mux.HandleFunc("/api/fetches", FetchesHandler)
	mux.HandleFunc("/api/health", HealthHandler)

	var handler http.Handler = mux
	handler = middleware.CORSMiddleware(cfg.CORSAllowedOrigins)(handler)
	handler = middleware.LoggingMiddleware(handler)
	return handler
}

// TranscriptHandler accepts a JSON body {"videoUrl": ...} or a form value
// videoUrl (or url) and responds with the timed transcript.
func TranscriptHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.HandleError(w, "Invalid request method", http.StatusMethodNotAllowed)
		return
	}

	input, err := readVideoInput(w, r)
	if err != nil {
		utils.HandleError(w, "Invalid request body", http.StatusBadRequest)
		logger.FromContext(r.Context()).WithError(err).Warn("Failed to read request body")
		return
	}

	transcript, ok := fetchTranscript(w, r, input)
	if !ok {
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, transcriptResponse{
		Success:    true,
		VideoID:    transcript.VideoID,
		Transcript: transcript.Segments,
	})
}

// TranscriptTextHandler renders the transcript as plain "m:SS text" lines.
func TranscriptTextHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.HandleError(w, "Invalid request method", http.StatusMethodNotAllowed)
		return
	}

	input := r.URL.Query().Get("videoUrl")
	if input == "" {
		input = r.URL.Query().Get("url")
	}

	transcript, ok := fetchTranscript(w, r, input)
	if !ok {
		return
	}

	var b strings.Builder
	for _, seg := range transcript.Segments {
		fmt.Fprintf(&b, "%s %s\n", vtt.FormatClock(seg.Start), seg.Text)
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(b.String())); err != nil {
		logger.FromContext(r.Context()).WithError(err).Error("Failed to write text response")
	}
}

func FetchesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.HandleError(w, "Invalid request method", http.StatusMethodNotAllowed)
		return
	}
	if !db.Enabled() {
		utils.HandleError(w, "Fetch log is disabled", http.StatusNotFound)
		return
	}

	limit := defaultFetchLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			utils.HandleError(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = min(n, maxFetchLimit)
	}

	records, err := db.RecentFetches(r.Context(), limit)
	if err != nil {
		utils.HandleError(w, "Failed to read fetch log", http.StatusInternalServerError)
		logger.FromContext(r.Context()).WithError(err).Error("Failed to read fetch log")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, fetchesResponse{Success: true, Fetches: records})
}

func HealthHandler(w http.ResponseWriter, r *http.Request) {
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"message":   "Server is running",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// fetchTranscript validates, rate limits and fetches. It writes the error
// response itself and reports false when the caller should stop.
func fetchTranscript(w http.ResponseWriter, r *http.Request, input string) (*transcription.Transcript, bool) {
	const op = "handlers.fetchTranscript"
	log := logger.FromContext(r.Context())

	if err := validation.ValidateVideoInput(input); err != nil {
		utils.RespondWithError(w, apperrors.MissingInput(op, err, err.Error()))
		log.WithError(err).WithField("input", input).Warn("Input validation failed")
		return nil, false
	}

	if !rateLimiter.Allow() {
		utils.HandleError(w, "Rate limit exceeded", http.StatusTooManyRequests)
		log.WithField("input", input).Warn("Rate limit exceeded")
		return nil, false
	}

	transcript, err := service.Fetch(r.Context(), input)
	if err != nil {
		utils.RespondWithError(w, err)
		return nil, false
	}

	return transcript, true
}

func readVideoInput(w http.ResponseWriter, r *http.Request) (string, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var req transcriptRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&req); err != nil {
			return "", err
		}
		return req.VideoURL, nil
	}

	if v := r.FormValue("videoUrl"); v != "" {
		return v, nil
	}
	return r.FormValue("url"), nil
}

package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"gamelxrd/internal/logging"
	"gamelxrd/internal/media"
	"gamelxrd/internal/pricing"
	"gamelxrd/internal/services"
)

const maxQuoteBody = 1 << 20

// QuoteRequest is the POST /api/quote payload. Media carries a descriptor
// with its kind discriminator.
type QuoteRequest struct {
	Media  json.RawMessage `json:"media"`
	Params pricing.Params  `json:"params"`
}

// QuoteResponse pairs a quote with the checkout summary line.
type QuoteResponse struct {
	Result      pricing.Result `json:"result"`
	Summary     string         `json:"summary"`
	CheckoutURL string         `json:"checkoutUrl"`
}

// StatusResponse is served by /api/status.
type StatusResponse struct {
	Status          string    `json:"status"`
	Version         string    `json:"version,omitempty"`
	StartedAt       time.Time `json:"startedAt"`
	UptimeSeconds   int64     `json:"uptimeSeconds"`
	KeywordsVersion string    `json:"keywordsVersion"`
	CatalogEnabled  bool      `json:"catalogEnabled"`
	CacheEntries    *int      `json:"cacheEntries,omitempty"`
}

// StreamResponse is served by /api/stream.
type StreamResponse struct {
	Channel  string `json:"channel"`
	IsOnline bool   `json:"isOnline"`
}

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"requestId,omitempty"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	payload := StatusResponse{
		Status:          "ok",
		Version:         s.opts.Version,
		StartedAt:       s.started.UTC(),
		UptimeSeconds:   int64(time.Since(s.started).Seconds()),
		KeywordsVersion: s.engine.KeywordsVersion(),
		CatalogEnabled:  s.opts.Catalog != nil,
	}
	if s.opts.Cache != nil {
		if count, err := s.opts.Cache.Count(r.Context()); err == nil {
			payload.CacheEntries = &count
		} else {
			logging.WarnWithContext(logging.WithContext(r.Context(), s.logger), "cache count failed", "cache_count_failed",
				logging.Error(err),
				logging.Impact("status omits cache size"),
			)
		}
	}
	s.writeJSON(w, http.StatusOK, payload)
}

// handleStream never fails: a missing checker or an upstream error is
// reported as offline so the page keeps rendering.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	payload := StreamResponse{Channel: s.opts.Channel}
	if s.opts.Stream != nil {
		live, err := s.opts.Stream.Live(r.Context(), s.opts.Channel)
		if err != nil {
			logging.WarnWithContext(logging.WithContext(r.Context(), s.logger), "stream check failed", "stream_check_failed",
				logging.String("channel", s.opts.Channel),
				logging.Error(err),
				logging.Hint("check twitch.client_id and twitch.client_secret"),
				logging.Impact("channel reported offline"),
			)
		}
		payload.IsOnline = live && err == nil
	}
	s.writeJSON(w, http.StatusOK, payload)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if s.opts.Catalog == nil {
		s.writeError(w, r, catalogDisabled())
		return
	}
	query := r.URL.Query()
	kind, err := media.ParseKind(query.Get("kind"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	suggestions, err := s.opts.Catalog.Search(r.Context(), kind, query.Get("query"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, suggestions)
}

func (s *Server) handleDescriptor(kind media.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.opts.Catalog == nil {
			s.writeError(w, r, catalogDisabled())
			return
		}
		d, err := s.opts.Catalog.Lookup(r.Context(), kind, r.PathValue("id"))
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		s.writeDescriptor(w, r, d)
	}
}

func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxQuoteBody+1))
	if err != nil {
		s.writeError(w, r, services.Wrap(services.ErrValidation, "http-api", "quote", "read body", err))
		return
	}
	if len(body) > maxQuoteBody {
		s.writeError(w, r, services.Wrap(services.ErrValidation, "http-api", "quote", "request body too large", nil))
		return
	}
	var req QuoteRequest
	if err := json.Unmarshal(body, &req); err != nil {
		s.writeError(w, r, services.Wrap(services.ErrValidation, "http-api", "quote", "decode request", err))
		return
	}
	if len(req.Media) == 0 || string(req.Media) == "null" {
		s.writeError(w, r, services.Wrap(services.ErrValidation, "http-api", "quote", "media is required", nil))
		return
	}
	d, err := media.Decode(req.Media)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeQuote(w, r, d, req.Params)
}

func (s *Server) handleQuoteLookup(w http.ResponseWriter, r *http.Request) {
	if s.opts.Catalog == nil {
		s.writeError(w, r, catalogDisabled())
		return
	}
	kind, err := media.ParseKind(r.PathValue("kind"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	query := r.URL.Query()
	params, episodeChoice, err := parseQuoteQuery(query.Get("priority"), query.Get("hours"), query.Get("episodes"), query.Get("includeGameCost"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	d, err := s.opts.Catalog.Lookup(r.Context(), kind, r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if tv, ok := d.(media.TV); ok {
		switch episodeChoice {
		case "season":
			params.Episodes = tv.FirstSeasonEpisodes()
		case "all":
			params.Episodes = tv.AllEpisodes()
		}
	}
	s.writeQuote(w, r, d, params)
}

// parseQuoteQuery reads quote parameters from query-string values. Episodes
// accepts a count or the words "season" and "all", which are resolved once
// the series is known.
func parseQuoteQuery(priority, hours, episodes, includeCost string) (pricing.Params, string, error) {
	var params pricing.Params
	var err error
	if params.Priority, err = parseFlag("priority", priority); err != nil {
		return params, "", err
	}
	if params.IncludeGameCost, err = parseFlag("includeGameCost", includeCost); err != nil {
		return params, "", err
	}
	if value := strings.TrimSpace(hours); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return params, "", invalidParam("hours", value)
		}
		params = params.WithHours(parsed)
	}
	choice := strings.ToLower(strings.TrimSpace(episodes))
	switch choice {
	case "", "season", "all":
	default:
		parsed, err := strconv.Atoi(choice)
		if err != nil {
			return params, "", invalidParam("episodes", episodes)
		}
		params.Episodes = parsed
		choice = ""
	}
	return params, choice, nil
}

func parseFlag(name, value string) (bool, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return false, nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return false, invalidParam(name, value)
	}
	return parsed, nil
}

func invalidParam(name, value string) error {
	return services.Wrap(services.ErrValidation, "http-api", "quote", fmt.Sprintf("invalid %s %q", name, value), nil)
}

func catalogDisabled() error {
	return services.Wrap(services.ErrConfiguration, "http-api", "catalog", "catalog lookups are not configured", nil)
}

func (s *Server) writeQuote(w http.ResponseWriter, r *http.Request, d media.Descriptor, params pricing.Params) {
	params = pricing.WithDefaults(d, params)
	result := s.engine.Quote(d, params)
	s.opts.Metrics.ObserveQuote(string(d.Kind()))
	s.writeJSON(w, http.StatusOK, QuoteResponse{
		Result:      result,
		Summary:     pricing.Summary(d, params),
		CheckoutURL: s.opts.CheckoutURL,
	})
}

func (s *Server) writeDescriptor(w http.ResponseWriter, r *http.Request, d media.Descriptor) {
	payload, err := media.Encode(d)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(append(payload, '\n'))
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", logging.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := services.HTTPStatus(err)
	if errors.Is(err, media.ErrInvalid) {
		status = http.StatusBadRequest
	}
	requestID, _ := services.RequestIDFromContext(r.Context())
	if status >= http.StatusInternalServerError {
		logging.WarnWithContext(logging.WithContext(r.Context(), s.logger), "request error", "api_request_failed",
			logging.Error(err),
			logging.String("path", r.URL.Path),
			logging.Hint("check catalog credentials and upstream availability"),
			logging.Impact("client received an error response"),
		)
	}
	s.writeJSON(w, status, errorResponse{Error: err.Error(), RequestID: requestID})
}

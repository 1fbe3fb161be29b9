package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strconv"

	"github.com/gofrs/uuid"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"moderation/pkg/audit"
	"moderation/pkg/censor"
	"moderation/pkg/models"
	"moderation/pkg/storage"
)

const (
	defaultFlaggedLimit = 10
	maxFlaggedLimit     = 100
)

type API struct {
	ServiceName string

	r   *mux.Router
	c   *censor.Censor
	db  storage.Storage
	pub *audit.Publisher
}

// New wires the handlers. pub may be nil when Kafka is not configured.
func New(name string, c *censor.Censor, db storage.Storage, pub *audit.Publisher) (*API, error) {
	if c == nil {
		return nil, errors.New("censor is not provided")
	}
	if db == nil {
		return nil, errors.New("storage is not provided")
	}

	api := API{
		ServiceName: name,
		r:           mux.NewRouter(),
		c:           c,
		db:          db,
		pub:         pub,
	}
	api.endpoints()

	return &api, nil
}

func (api *API) Router() *mux.Router {
	return api.r
}

func (api *API) endpoints() {
	api.r.Use(api.requestIDMiddleware)
	api.r.Use(api.headerMiddleware)

	if api.pub.Logs() {
		api.r.Use(api.loggingMiddleware)
	}

	api.r.HandleFunc("/detect", api.detectHandler).Methods(http.MethodPost)
	api.r.HandleFunc("/contains", api.containsHandler).Methods(http.MethodPost)
	api.r.HandleFunc("/matches", api.matchesHandler).Methods(http.MethodPost)
	api.r.HandleFunc("/mask", api.maskHandler).Methods(http.MethodPost)
	api.r.HandleFunc("/markup", api.markupHandler).Methods(http.MethodPost)
	api.r.HandleFunc("/severity", api.severityHandler).Methods(http.MethodPost)

	api.r.HandleFunc("/check", api.checkCommentHandler).Methods(http.MethodPost)
	api.r.HandleFunc("/validate", api.validateHandler).Methods(http.MethodPost)

	api.r.HandleFunc("/flagged", api.flaggedListHandler).Methods(http.MethodGet)
	api.r.HandleFunc("/flagged/{id:[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$}", api.flaggedHandler).Methods(http.MethodGet)
}

func (api *API) detectHandler(w http.ResponseWriter, r *http.Request) {
	sID := shorten(GetRequestID(r.Context()))

	var req TextRequest
	if !decode(w, r, &req, "detectHandler", sID) {
		return
	}

	res := censor.Result{Matches: []string{}, Severity: censor.LevelNone}
	if text, ok := req.Text.(string); ok {
		res = api.c.Detect(text)
	}

	respond(w, http.StatusOK, DetectResponse{Result: res, Suggestions: api.c.Suggest(res.Matches)}, "detectHandler", sID)
}

func (api *API) containsHandler(w http.ResponseWriter, r *http.Request) {
	sID := shorten(GetRequestID(r.Context()))

	var req TextRequest
	if !decode(w, r, &req, "containsHandler", sID) {
		return
	}

	text, ok := req.Text.(string)
	respond(w, http.StatusOK, ContainsResponse{Contains: ok && api.c.Contains(text)}, "containsHandler", sID)
}

func (api *API) matchesHandler(w http.ResponseWriter, r *http.Request) {
	sID := shorten(GetRequestID(r.Context()))

	var req TextRequest
	if !decode(w, r, &req, "matchesHandler", sID) {
		return
	}

	matches := []string{}
	if text, ok := req.Text.(string); ok {
		matches = api.c.Matches(text)
	}

	respond(w, http.StatusOK, MatchesResponse{Matches: matches}, "matchesHandler", sID)
}

func (api *API) maskHandler(w http.ResponseWriter, r *http.Request) {
	api.transform(w, r, api.c.Mask, "maskHandler")
}

func (api *API) markupHandler(w http.ResponseWriter, r *http.Request) {
	api.transform(w, r, api.c.Markup, "markupHandler")
}

// transform applies fn to string input and echoes any other value as is.
func (api *API) transform(w http.ResponseWriter, r *http.Request, fn func(string) string, handler string) {
	sID := shorten(GetRequestID(r.Context()))

	var req TextRequest
	if !decode(w, r, &req, handler, sID) {
		return
	}

	out := req.Text
	if text, ok := req.Text.(string); ok {
		out = fn(text)
	}

	respond(w, http.StatusOK, TextResponse{Text: out}, handler, sID)
}

func (api *API) severityHandler(w http.ResponseWriter, r *http.Request) {
	sID := shorten(GetRequestID(r.Context()))

	var req TermsRequest
	if !decode(w, r, &req, "severityHandler", sID) {
		return
	}

	respond(w, http.StatusOK, SeverityResponse{Severity: api.c.Severity(req.Terms)}, "severityHandler", sID)
}

// checkCommentHandler answers 200 for clean comments and 422 for comments
// with banned vocabulary. Rejected comments are stored masked.
func (api *API) checkCommentHandler(w http.ResponseWriter, r *http.Request) {
	reqID := GetRequestID(r.Context())
	sID := shorten(reqID)

	var comment models.Comment
	if !decode(w, r, &comment, "checkCommentHandler", sID) {
		return
	}

	// Non-text comments are treated as clean.
	text, _ := comment.Text.(string)
	res := api.c.Detect(text)
	if !res.HasMatch {
		respond(w, http.StatusOK, res, "checkCommentHandler", sID)
		return
	}

	err := api.flag(r.Context(), reqID, "comment", comment.Author, text, res)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		log.Errorf("[checkCommentHandler][%s] failed to store flagged comment: %v", sID, err)
		return
	}

	log.Infof("[checkCommentHandler][%s] comment rejected, severity: %s", sID, res.Severity)
	respond(w, http.StatusUnprocessableEntity, res, "checkCommentHandler", sID)
}

// validateHandler checks every text field of a submission. Any flagged
// field makes the whole submission invalid; non-text fields are clean.
func (api *API) validateHandler(w http.ResponseWriter, r *http.Request) {
	reqID := GetRequestID(r.Context())
	sID := shorten(reqID)

	var sub models.Submission
	if !decode(w, r, &sub, "validateHandler", sID) {
		return
	}
	if len(sub.Fields) == 0 {
		http.Error(w, "Bad Request: no fields to validate", http.StatusBadRequest)
		log.Debugf("[validateHandler][%s] submission without fields", sID)
		return
	}

	texts := sub.TextFields()
	verdict := api.c.Validate(texts)
	if verdict.Valid {
		respond(w, http.StatusOK, verdict, "validateHandler", sID)
		return
	}

	names := make([]string, 0, len(verdict.Fields))
	for name := range verdict.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		err := api.flag(r.Context(), reqID, name, sub.Author, texts[name], verdict.Fields[name])
		if err != nil {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			log.Errorf("[validateHandler][%s] failed to store flagged field %q: %v", sID, name, err)
			return
		}
	}

	log.Infof("[validateHandler][%s] submission rejected, flagged fields: %d, severity: %s", sID, len(names), verdict.Severity)
	respond(w, http.StatusUnprocessableEntity, verdict, "validateHandler", sID)
}

// flag stores the masked text and publishes a moderation event. Publishing
// failures are logged only.
func (api *API) flag(ctx context.Context, reqID, source, author, text string, res censor.Result) error {
	f, err := api.db.AddFlagged(ctx, models.Flagged{
		RequestID: reqID,
		Source:    source,
		Author:    author,
		Masked:    api.c.Mask(text),
		Matches:   res.Matches,
		Severity:  res.Severity,
	})
	if err != nil {
		return err
	}

	err = api.pub.PublishEvent(ctx, audit.Event{
		RequestID: reqID,
		Service:   api.ServiceName,
		FlaggedID: f.ID.String(),
		Source:    source,
		Author:    author,
		Matches:   res.Matches,
		Severity:  res.Severity,
	})
	if err != nil {
		log.Errorf("[flag][%s] failed to publish moderation event: %v", shorten(reqID), err)
	}

	return nil
}

func (api *API) flaggedListHandler(w http.ResponseWriter, r *http.Request) {
	sID := shorten(GetRequestID(r.Context()))

	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit < 1 {
		limit = defaultFlaggedLimit
	}
	if limit > maxFlaggedLimit {
		http.Error(w, "Limit parameter is too big", http.StatusBadRequest)
		log.Debugf("[flaggedListHandler][%s] request with too big limit parameter", sID)
		return
	}

	flagged, err := api.db.Flagged(r.Context(), limit)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		log.Errorf("[flaggedListHandler][%s] Flagged() returned error: %v", sID, err)
		return
	}

	respond(w, http.StatusOK, flagged, "flaggedListHandler", sID)
}

func (api *API) flaggedHandler(w http.ResponseWriter, r *http.Request) {
	sID := shorten(GetRequestID(r.Context()))

	id, err := uuid.FromString(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid UUID parameter", http.StatusBadRequest)
		log.Debugf("[flaggedHandler][%s] failed to parse flagged ID: %v", sID, err)
		return
	}

	f, err := api.db.FlaggedByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			http.Error(w, "Flagged submission not found", http.StatusNotFound)
			log.Debugf("[flaggedHandler][%s] failed to retrieve flagged submission: %v", sID, err)
			return
		}
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		log.Errorf("[flaggedHandler][%s] flagged ID:%v: %v", sID, id, err)
		return
	}

	respond(w, http.StatusOK, f, "flaggedHandler", sID)
}

func decode(w http.ResponseWriter, r *http.Request, v any, handler, sID string) bool {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "Bad Request: invalid JSON", http.StatusBadRequest)
		log.Debugf("[%s][%s] failed to decode request body: %v", handler, sID, err)
		return false
	}
	return true
}

func respond(w http.ResponseWriter, status int, v any, handler, sID string) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Errorf("[%s][%s] failed to encode response data: %v", handler, sID, err)
		return
	}
	log.Debugf("[%s][%s] response sent with status %d", handler, sID, status)
}

// GetRequestID extracts the request ID from the context.
// It returns the request ID as a string if present, otherwise returns an empty string.
func GetRequestID(ctx context.Context) string {
	if v, ok := ctx.Value(RequestIDKey).(string); ok {
		return v
	}
	return ""
}

// shorten truncates a string to 6 characters if it is longer than 6, appends '...' at the end,
// otherwise it returns the string unchanged.
func shorten(s string) string {
	if len(s) > 6 {
		return s[:6] + "..."
	}
	return s
}

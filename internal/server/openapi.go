package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"

	"github.com/playperu/picmatch/internal/handler/health"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

type sessionPath struct {
	SessionID string `path:"sessionID"`
}

type selectInput struct {
	sessionPath
	SelectRequest
}

type scorePath struct {
	ScoreID string `path:"scoreID"`
}

type scoreListQuery struct {
	Limit int `query:"limit" minimum:"1" maximum:"500" description:"Maximum number of records, newest first."`
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "Picture Match API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Assets, play sessions and scores for the picture matching game.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Returns the status of the score database and the assets directory.")
	getHealthz.AddRespStructure(health.Report{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(health.Report{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	// GET /assets
	listAssets, _ := r.NewOperationContext(http.MethodGet, "/assets")
	listAssets.SetSummary("List assets")
	listAssets.SetDescription("Returns the absolute URL of every file in the assets directory.")
	listAssets.AddRespStructure([]string{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(listAssets)

	// GET /api/pairs
	listPairs, _ := r.NewOperationContext(http.MethodGet, "/api/pairs")
	listPairs.SetSummary("List pairs")
	listPairs.SetDescription("Returns the pool of image/word pairs rounds are drawn from.")
	listPairs.AddRespStructure([]PairResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(listPairs)

	// POST /api/sessions
	createSession, _ := r.NewOperationContext(http.MethodPost, "/api/sessions")
	createSession.SetSummary("Start session")
	createSession.SetDescription("Deals the first round and starts its countdown. Empty fields use the server defaults.")
	createSession.AddReqStructure(CreateSessionRequest{})
	createSession.AddRespStructure(SessionResponse{}, openapi.WithHTTPStatus(http.StatusCreated))
	createSession.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	createSession.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(createSession)

	// GET /api/sessions/{sessionID}
	getSession, _ := r.NewOperationContext(http.MethodGet, "/api/sessions/{sessionID}")
	getSession.SetSummary("Get session")
	getSession.SetDescription("Returns the board, score, countdown and round history.")
	getSession.AddReqStructure(sessionPath{})
	getSession.AddRespStructure(SessionResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getSession.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getSession)

	// DELETE /api/sessions/{sessionID}
	deleteSession, _ := r.NewOperationContext(http.MethodDelete, "/api/sessions/{sessionID}")
	deleteSession.SetSummary("Abandon session")
	deleteSession.SetDescription("Stops the countdown and discards the session without saving a score.")
	deleteSession.AddReqStructure(sessionPath{})
	deleteSession.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusNoContent))
	deleteSession.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(deleteSession)

	// POST /api/sessions/{sessionID}/select
	postSelect, _ := r.NewOperationContext(http.MethodPost, "/api/sessions/{sessionID}/select")
	postSelect.SetSummary("Select image or word")
	postSelect.SetDescription("An image tap becomes the pending selection; a word tap resolves it into a match.")
	postSelect.AddReqStructure(selectInput{})
	postSelect.AddRespStructure(SelectResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postSelect.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postSelect.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	postSelect.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postSelect)

	// GET /api/sessions/{sessionID}/events
	getEvents, _ := r.NewOperationContext(http.MethodGet, "/api/sessions/{sessionID}/events")
	getEvents.SetSummary("SSE event stream")
	getEvents.SetDescription("Server-Sent Events: a snapshot, then round_started, tick, match, round_sealed and session_complete events.")
	getEvents.AddReqStructure(sessionPath{})
	getEvents.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("text/event-stream"))
	_ = r.AddOperation(getEvents)

	// GET /api/sessions/{sessionID}/ws
	getWS, _ := r.NewOperationContext(http.MethodGet, "/api/sessions/{sessionID}/ws")
	getWS.SetSummary("WebSocket play channel")
	getWS.SetDescription("Send {kind, id} selections; receive replies and the session's events.")
	getWS.AddReqStructure(sessionPath{})
	getWS.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusSwitchingProtocols),
		openapi.WithContentType("text/plain"))
	_ = r.AddOperation(getWS)

	// GET /api/scores
	listScores, _ := r.NewOperationContext(http.MethodGet, "/api/scores")
	listScores.SetSummary("List scores")
	listScores.SetDescription("Returns saved session results, newest first. Basic auth when a password is configured.")
	listScores.AddReqStructure(scoreListQuery{})
	listScores.AddRespStructure([]ScoreRecord{}, openapi.WithHTTPStatus(http.StatusOK))
	listScores.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(listScores)

	// GET /api/scores/{scoreID}
	getScore, _ := r.NewOperationContext(http.MethodGet, "/api/scores/{scoreID}")
	getScore.SetSummary("Get score")
	getScore.AddReqStructure(scorePath{})
	getScore.AddRespStructure(ScoreRecord{}, openapi.WithHTTPStatus(http.StatusOK))
	getScore.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	getScore.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(getScore)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}

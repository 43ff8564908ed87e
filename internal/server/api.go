package server

import (
	"time"

	"github.com/playperu/picmatch/internal/engine"
	"github.com/playperu/picmatch/internal/picmatch"
)

// PairResponse is one entry of GET /api/pairs.
type PairResponse struct {
	ID    string `json:"id"`
	Image string `json:"image"`
	Label string `json:"label"`
}

// CreateSessionRequest is the optional body of POST /api/sessions. Zero
// fields fall back to the server defaults.
type CreateSessionRequest struct {
	PairsPerRound int `json:"pairsPerRound,omitempty"`
	TotalRounds   int `json:"totalRounds,omitempty"`
	RoundSeconds  int `json:"roundSeconds,omitempty"`
}

// SelectRequest is one tap: kind is "image" or "word".
type SelectRequest struct {
	Kind string `json:"kind"`
	ID   string `json:"id"`
}

type SelectResponse struct {
	Outcome *MatchOutcomeResponse `json:"outcome,omitempty"`
	Session SessionResponse       `json:"session"`
}

type MatchOutcomeResponse struct {
	ImageID string `json:"imageId"`
	WordID  string `json:"wordId"`
	Correct bool   `json:"correct"`
}

type SelectionResponse struct {
	Kind string `json:"kind"`
	ID   string `json:"id,omitempty"`
}

type WordResponse struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// BoardResponse is the active round as the player sees it: images and
// words in their own shuffled orders.
type BoardResponse struct {
	Number    int                    `json:"number"`
	Images    []PairResponse         `json:"images"`
	Words     []WordResponse         `json:"words"`
	Matches   []MatchOutcomeResponse `json:"matches"`
	Selection SelectionResponse      `json:"selection"`
	Deadline  time.Time              `json:"deadline"`
	Sealed    bool                   `json:"sealed"`
}

type RoundSummary struct {
	Number    int       `json:"number"`
	Correct   int       `json:"correct"`
	Incorrect int       `json:"incorrect"`
	Reason    string    `json:"reason"`
	StartedAt time.Time `json:"startedAt"`
	EndedAt   time.Time `json:"endedAt"`
}

type SessionResultResponse struct {
	SessionID      string    `json:"sessionId"`
	TotalTimeMs    int64     `json:"totalTimeMs"`
	TotalCorrect   int       `json:"totalCorrect"`
	TotalIncorrect int       `json:"totalIncorrect"`
	Score          int       `json:"score"`
	Rounds         int       `json:"rounds"`
	CompletedAt    time.Time `json:"completedAt"`
}

type SessionResponse struct {
	ID               string                 `json:"id"`
	Phase            string                 `json:"phase"`
	Round            int                    `json:"round"`
	TotalRounds      int                    `json:"totalRounds"`
	Score            int                    `json:"score"`
	RemainingSeconds int                    `json:"remainingSeconds"`
	Board            *BoardResponse         `json:"board,omitempty"`
	History          []RoundSummary         `json:"history"`
	Result           *SessionResultResponse `json:"result,omitempty"`
	Saved            bool                   `json:"saved"`
	SaveError        string                 `json:"saveError,omitempty"`
}

// EventMessage is a controller event as pushed over SSE and WebSocket.
type EventMessage struct {
	Type             string                 `json:"type"`
	SessionID        string                 `json:"sessionId"`
	Round            int                    `json:"round"`
	Score            int                    `json:"score"`
	RemainingSeconds int                    `json:"remainingSeconds,omitempty"`
	Outcome          *MatchOutcomeResponse  `json:"outcome,omitempty"`
	Reason           string                 `json:"reason,omitempty"`
	Result           *SessionResultResponse `json:"result,omitempty"`
	Error            string                 `json:"error,omitempty"`
}

// seconds rounds up so a countdown shows 1 until the deadline passes.
func seconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int((d + time.Second - 1) / time.Second)
}

func pairResponse(p picmatch.Pair) PairResponse {
	return PairResponse{ID: p.ID, Image: p.VisualRef, Label: p.Label}
}

func outcomeResponse(o *picmatch.MatchOutcome) *MatchOutcomeResponse {
	if o == nil {
		return nil
	}
	return &MatchOutcomeResponse{ImageID: o.ImageID, WordID: o.WordID, Correct: o.Correct}
}

func resultResponse(r *picmatch.SessionResult) *SessionResultResponse {
	if r == nil {
		return nil
	}
	return &SessionResultResponse{
		SessionID:      r.SessionID,
		TotalTimeMs:    r.TotalTime.Milliseconds(),
		TotalCorrect:   r.TotalCorrect,
		TotalIncorrect: r.TotalIncorrect,
		Score:          r.Score,
		Rounds:         r.Rounds,
		CompletedAt:    r.CompletedAt,
	}
}

func boardResponse(r *engine.Round) *BoardResponse {
	byID := make(map[string]picmatch.Pair, len(r.Pairs))
	for _, p := range r.Pairs {
		byID[p.ID] = p
	}

	b := &BoardResponse{
		Number:    r.Number,
		Images:    make([]PairResponse, 0, len(r.ImageOrder)),
		Words:     make([]WordResponse, 0, len(r.WordOrder)),
		Matches:   make([]MatchOutcomeResponse, 0, len(r.Matches)),
		Selection: SelectionResponse{Kind: r.Selection.Kind.String(), ID: r.Selection.ID},
		Deadline:  r.Deadline,
		Sealed:    r.Sealed(),
	}
	for _, id := range r.ImageOrder {
		b.Images = append(b.Images, pairResponse(byID[id]))
	}
	for _, id := range r.WordOrder {
		b.Words = append(b.Words, WordResponse{ID: id, Label: byID[id].Label})
	}
	for _, m := range r.Matches {
		b.Matches = append(b.Matches, *outcomeResponse(&m))
	}
	return b
}

func sessionResponse(s engine.Snapshot) SessionResponse {
	resp := SessionResponse{
		ID:               s.SessionID,
		Phase:            string(s.Phase),
		Round:            s.RoundIndex,
		TotalRounds:      s.TotalRounds,
		Score:            s.Score,
		RemainingSeconds: seconds(s.Remaining),
		History:          make([]RoundSummary, 0, len(s.History)),
		Result:           resultResponse(s.Result),
		Saved:            s.Saved,
		SaveError:        s.SaveErr,
	}
	if s.Round != nil && s.Phase == picmatch.PhaseRoundActive {
		resp.Board = boardResponse(s.Round)
	}
	for _, r := range s.History {
		correct, incorrect := r.Counts()
		resp.History = append(resp.History, RoundSummary{
			Number:    r.Number,
			Correct:   correct,
			Incorrect: incorrect,
			Reason:    string(r.Reason),
			StartedAt: r.StartedAt,
			EndedAt:   r.EndedAt,
		})
	}
	return resp
}

func eventMessage(e engine.Event) EventMessage {
	return EventMessage{
		Type:             string(e.Type),
		SessionID:        e.SessionID,
		Round:            e.Round,
		Score:            e.Score,
		RemainingSeconds: seconds(e.Remaining),
		Outcome:          outcomeResponse(e.Outcome),
		Reason:           string(e.Reason),
		Result:           resultResponse(e.Result),
		Error:            e.Err,
	}
}

package web

import (
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"strings"
	"time"

	"trip-planner/internal/domain/entity"
)

const (
	warnDestination = "Please enter a destination."
	warnCredentials = "Please provide both GPT and Serper API keys."
)

type pageData struct {
	Destination  string
	Budget       int
	BudgetMin    int
	BudgetMax    int
	BudgetStep   int
	OperatorMode bool
	Warning      string
	Error        string
	Itinerary    template.HTML
	RunID        string
	Duration     string
}

func (s *Server) newPage(req entity.TripRequest) pageData {
	return pageData{
		Destination:  req.Destination,
		Budget:       req.Budget,
		BudgetMin:    entity.BudgetMin,
		BudgetMax:    entity.BudgetMax,
		BudgetStep:   entity.BudgetStep,
		OperatorMode: s.operatorMode(),
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	req := entity.TripRequest{Destination: entity.DefaultDestination, Budget: entity.BudgetDefault}
	s.renderPage(w, http.StatusOK, s.newPage(req))
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	req, creds, err := parseForm(r)
	if err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	creds = creds.Merge(s.cfg.Operator)
	data := s.newPage(req)

	if warning := precheck(req, creds); warning != "" {
		data.Warning = warning
		s.renderPage(w, http.StatusBadRequest, data)
		return
	}

	itinerary, err := s.planner.Plan(r.Context(), req, creds)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusBadRequest {
			data.Warning = warningFor(err)
		} else {
			s.logger.Error("Plan request failed", "error", err)
			data.Error = "Trip planning failed: " + err.Error()
		}
		s.renderPage(w, status, data)
		return
	}

	data.Itinerary = s.renderer.Render(itinerary.Text)
	data.RunID = itinerary.RunID
	data.Duration = itinerary.Duration.Round(time.Second).String()
	s.renderPage(w, http.StatusOK, data)
}

func (s *Server) renderPage(w http.ResponseWriter, status int, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.page.Execute(w, data); err != nil {
		s.logger.Error("Failed to render page", "error", err)
	}
}

type planRequest struct {
	Destination  string `json:"destination"`
	Budget       *int   `json:"budget"`
	LLMAPIKey    string `json:"llm_api_key"`
	SearchAPIKey string `json:"search_api_key"`
}

type stageResponse struct {
	Stage      string `json:"stage"`
	Role       string `json:"role"`
	Output     string `json:"output"`
	Iterations int    `json:"iterations"`
}

type planResponse struct {
	RunID       string          `json:"run_id"`
	Destination string          `json:"destination"`
	Budget      int             `json:"budget"`
	Itinerary   string          `json:"itinerary"`
	Stages      []stageResponse `json:"stages"`
	DurationMS  int64           `json:"duration_ms"`
}

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

func (s *Server) handleAPIPlan(w http.ResponseWriter, r *http.Request) {
	var body planRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body: " + err.Error(), Kind: "invalid_request"})
		return
	}

	budget := entity.BudgetDefault
	if body.Budget != nil {
		budget = *body.Budget
	}
	req := entity.TripRequest{Destination: body.Destination, Budget: budget}.Normalize()
	creds := entity.Credentials{
		LLMAPIKey:    strings.TrimSpace(body.LLMAPIKey),
		SearchAPIKey: strings.TrimSpace(body.SearchAPIKey),
	}.Merge(s.cfg.Operator)

	if warning := precheck(req, creds); warning != "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: warning, Kind: "missing_input"})
		return
	}

	itinerary, err := s.planner.Plan(r.Context(), req, creds)
	if err != nil {
		status := statusFor(err)
		if status != http.StatusBadRequest {
			s.logger.Error("API plan request failed", "error", err)
		}
		writeJSON(w, status, errorResponse{Error: err.Error(), Kind: errorKind(err)})
		return
	}

	resp := planResponse{
		RunID:       itinerary.RunID,
		Destination: itinerary.Destination,
		Budget:      itinerary.Budget,
		Itinerary:   itinerary.Text,
		Stages:      make([]stageResponse, 0, len(itinerary.Stages)),
		DurationMS:  itinerary.Duration.Milliseconds(),
	}
	for _, st := range itinerary.Stages {
		resp.Stages = append(resp.Stages, stageResponse{
			Stage:      string(st.Stage),
			Role:       st.Role,
			Output:     st.Output,
			Iterations: st.Iterations,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// precheck returns a warning for input the planner must never see.
func precheck(req entity.TripRequest, creds entity.Credentials) string {
	if req.Destination == "" {
		return warnDestination
	}
	if creds.Validate() != nil {
		return warnCredentials
	}
	return ""
}

func statusFor(err error) int {
	if errors.Is(err, entity.ErrMissingInput) || errors.Is(err, entity.ErrMissingCredentials) {
		return http.StatusBadRequest
	}
	return http.StatusBadGateway
}

func warningFor(err error) string {
	if errors.Is(err, entity.ErrMissingCredentials) {
		return warnCredentials
	}
	return "Please check your input: " + err.Error()
}

func errorKind(err error) string {
	if errors.Is(err, entity.ErrMissingInput) || errors.Is(err, entity.ErrMissingCredentials) {
		return "missing_input"
	}
	if kind, ok := entity.FailureKindOf(err); ok {
		return string(kind)
	}
	return "error"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/alexshd/markovbench"
)

var validate = validator.New()

// RunRequest is the body of POST /api/run. Both fields may be empty.
type RunRequest struct {
	Rules string `json:"rules"`
	Word  string `json:"word"`
}

// EstimateRequest is the body of POST /api/time and /api/space.
type EstimateRequest struct {
	Rules string `json:"rules" validate:"required"`
	Word  string `json:"word" validate:"required"`
}

// RunResponse mirrors markovbench.RunResult for the wire.
type RunResponse struct {
	Output string                  `json:"output"`
	Steps  int                     `json:"steps"`
	Trace  []markovbench.TraceStep `json:"trace"`
}

// EstimateResponse carries a growth class and its samples. Words is only
// filled for space estimations.
type EstimateResponse struct {
	BigO    string               `json:"big_o"`
	Samples []markovbench.Sample `json:"samples"`
	Words   map[int]string       `json:"words,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	var req RunRequest
	if !decode(w, r, &req) {
		return
	}

	res, err := markovbench.Interpret(req.Rules, req.Word, markovbench.WithStepBudget(s.cfg.StepBudget))
	runsTotal.WithLabelValues(outcome(err)).Inc()
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	runSteps.Observe(float64(res.Steps()))

	writeJSON(w, http.StatusOK, RunResponse{
		Output: res.FinalWord,
		Steps:  res.Steps(),
		Trace:  res.Trace,
	})
}

func (s *Server) handleTime(w http.ResponseWriter, r *http.Request) {
	s.handleEstimate(w, r, markovbench.KindTime)
}

func (s *Server) handleSpace(w http.ResponseWriter, r *http.Request) {
	s.handleEstimate(w, r, markovbench.KindSpace)
}

func (s *Server) handleEstimate(w http.ResponseWriter, r *http.Request, kind markovbench.Kind) {
	var req EstimateRequest
	if !decode(w, r, &req) {
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, markovbench.ErrMissingInput)
		return
	}

	est, err := s.estimate(r.Context(), kind, req)
	if err != nil {
		estimationsTotal.WithLabelValues(string(kind), "error").Inc()
		writeError(w, http.StatusBadRequest, err)
		return
	}
	estimationsTotal.WithLabelValues(string(kind), metricLabel(est.Label)).Inc()

	resp := EstimateResponse{BigO: est.Label, Samples: est.Samples}
	if kind == markovbench.KindSpace {
		resp.Words = est.Words
	}
	writeJSON(w, http.StatusOK, resp)
}

// estimate runs one estimation per distinct (kind, rules, word) at a time;
// identical concurrent requests share the result. The shared call is detached
// from any single caller's cancellation.
func (s *Server) estimate(ctx context.Context, kind markovbench.Kind, req EstimateRequest) (markovbench.Estimate, error) {
	key := string(kind) + "\x00" + req.Rules + "\x00" + req.Word
	v, err, shared := s.flight.Do(key, func() (any, error) {
		ctx := context.WithoutCancel(ctx)
		if kind == markovbench.KindSpace {
			return markovbench.EstimateSpaceText(ctx, req.Rules, req.Word, s.cfg)
		}
		return markovbench.EstimateTimeText(ctx, req.Rules, req.Word, s.cfg)
	})
	if shared {
		estimationsShared.Inc()
	}
	if err != nil {
		return markovbench.Estimate{}, err
	}
	return v.(markovbench.Estimate), nil
}

// metricLabel maps labels outside the fixed class set (odd exponents and
// bases) to "other".
func metricLabel(label string) string {
	switch label {
	case markovbench.ClassConstant, markovbench.ClassLogarithmic, markovbench.ClassLinearithmic,
		markovbench.ClassLinear, markovbench.ClassQuadratic, markovbench.ClassCubic,
		markovbench.ClassExponential2, markovbench.ClassUnknown:
		return label
	}
	return "other"
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "halted"
	case errors.Is(err, markovbench.ErrStepLimitExceeded):
		return "step_limit"
	case errors.Is(err, markovbench.ErrValidation):
		return "invalid"
	default:
		return "error"
	}
}

// decode reads a JSON body, writing a 400 on failure.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body: " + err.Error()})
		return false
	}
	return true
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

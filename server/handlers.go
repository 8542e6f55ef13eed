package server

import (
	"net/http"
	"strings"

	"github.com/teranos/verdict/critic"
	"github.com/teranos/verdict/errors"
	"github.com/teranos/verdict/template"
	"github.com/teranos/verdict/version"
)

// HandleHealth serves the health check endpoint with version info
func (s *VerdictServer) HandleHealth(w http.ResponseWriter, r *http.Request) {
	versionInfo := version.Get()
	reg := s.store.Registry()

	providerName := "none"
	if s.client != nil {
		providerName = s.client.Name()
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":     "ok",
		"version":    versionInfo.Version,
		"commit":     versionInfo.CommitHash,
		"build_time": versionInfo.BuildTime,
		"critics":    reg.Len(),
		"provider":   providerName,
	})
}

// CriticInfo is the listing view of a critic; the template body stays
// server-side.
type CriticInfo struct {
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Weight      float64      `json:"weight"`
	Scale       critic.Scale `json:"scale"`
}

// HandleCritics handles GET /api/v1/critics
func (s *VerdictServer) HandleCritics(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	reg := s.store.Registry()
	infos := make([]CriticInfo, 0, reg.Len())
	for _, c := range reg.Critics() {
		infos = append(infos, CriticInfo{
			Name:        c.Name,
			Description: c.Description,
			Weight:      c.Weight,
			Scale:       c.Scale,
		})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"critics": infos})
}

// RenderRequest asks for one template expansion. Inline partials are
// merged over the registry's shared partials, so a caller can try out a
// partial edit without touching the critic directory.
type RenderRequest struct {
	Template string            `json:"template"`
	Context  template.Context  `json:"context,omitempty"`
	Partials map[string]string `json:"partials,omitempty"`
}

// RenderResponse carries the rendered output.
type RenderResponse struct {
	Output string `json:"output"`
}

// HandleRender handles POST /api/v1/render
func (s *VerdictServer) HandleRender(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var req RenderRequest
	if !s.readJSON(w, r, &req) {
		return
	}
	if req.Template == "" {
		writeError(w, http.StatusBadRequest, "template is required")
		return
	}

	output, err := s.engine.Render(req.Template, req.Context, s.mergedPartials(req.Partials))
	if err != nil {
		writeWrappedError(w, s.logger, err, "render failed")
		return
	}

	writeJSON(w, http.StatusOK, RenderResponse{Output: output})
}

// ValidateRequest asks for a syntax check of one template.
type ValidateRequest struct {
	Template string `json:"template"`
}

// HandleValidate handles POST /api/v1/validate. The response is 200
// whether or not the template is valid; validity is in the body.
func (s *VerdictServer) HandleValidate(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var req ValidateRequest
	if !s.readJSON(w, r, &req) {
		return
	}

	writeJSON(w, http.StatusOK, template.Validate(req.Template))
}

// EvaluateRequest runs critics over a context. An empty critic list
// means every critic in the registry.
type EvaluateRequest struct {
	Critics []string         `json:"critics,omitempty"`
	Context template.Context `json:"context"`
}

// HandleEvaluate handles POST /api/v1/evaluate
func (s *VerdictServer) HandleEvaluate(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	if s.evaluator == nil {
		writeWrappedError(w, s.logger,
			errors.Wrap(errors.ErrServiceUnavailable, "no AI provider configured"),
			"evaluate unavailable")
		return
	}

	var req EvaluateRequest
	if !s.readJSON(w, r, &req) {
		return
	}
	if len(req.Context) == 0 {
		writeError(w, http.StatusBadRequest, "context is required")
		return
	}

	s.logger.Infow("evaluate request",
		"critics", strings.Join(req.Critics, ","),
		"request_id", requestID(r),
	)

	report, err := s.evaluator.Evaluate(r.Context(), s.store.Registry(), req.Critics, req.Context)
	if err != nil {
		writeWrappedError(w, s.logger, err, "evaluate failed")
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// mergedPartials overlays request partials on the registry's shared
// ones without mutating either.
func (s *VerdictServer) mergedPartials(inline map[string]string) template.Partials {
	shared := s.store.Registry().Partials()
	if len(inline) == 0 {
		return shared
	}

	merged := make(template.Partials, len(shared)+len(inline))
	for name, body := range shared {
		merged[name] = body
	}
	for name, body := range inline {
		merged[name] = body
	}
	return merged
}

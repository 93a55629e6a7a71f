package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ludwigkubler/cognitive-os/pkg/agent"
	"github.com/ludwigkubler/cognitive-os/pkg/models"
)

// DefaultDiagnosticsLookback bounds how many recent agent runs one
// diagnostics pass inspects, absent an explicit "lookback" input.
const DefaultDiagnosticsLookback = 200

// slowAgentThreshold flags an agent as an inefficiency outlier once its
// average duration exceeds the global average by this factor.
const slowAgentThreshold = 1.8

// DiagnosticsAgent aggregates recent agent runs into a per-agent failure
// and performance report, writes it as the canonical diagnostic_alert
// memory item, and is the sole producer of the payload
// store.Store.GetAgentMetricsFromDiagnostics projects governance-mode
// detection from. Grounded on original_source/agents/diagnostics_agent.py.
type DiagnosticsAgent struct{}

func (a *DiagnosticsAgent) Run(ctx context.Context, req agent.RunRequest) *models.AgentRun {
	started := time.Now()
	if req.Memory == nil {
		return failure(req, started, fmt.Errorf("diagnostics_agent: no memory store configured"))
	}

	lookback := DefaultDiagnosticsLookback
	if v, ok := req.InputPayload["lookback"].(int); ok && v > 0 {
		lookback = v
	}

	runs, err := req.Memory.GetRecentAgentRuns(ctx, lookback)
	if err != nil {
		return failure(req, started, fmt.Errorf("diagnostics_agent: loading recent runs: %w", err))
	}

	if len(runs) == 0 {
		return &models.AgentRun{
			AgentName:     req.AgentName,
			InputPayload:  req.InputPayload,
			OutputPayload: models.JSON{models.OutputKeyUserVisibleMessage: "Not enough run history yet to produce a diagnostic report."},
			Status:        models.RunStatusSuccess,
			StartedAt:     started,
			FinishedAt:    time.Now(),
		}
	}

	byAgent, globalAvg := summarizeRuns(runs)
	emotionalIssues := emotionalAnomalies(req.EmotionalState)

	report := renderDiagnosticReport(byAgent, globalAvg, emotionalIssues)
	perAgent := make(map[string]any, len(byAgent))
	for name, s := range byAgent {
		perAgent[name] = map[string]any{
			"total_runs":   s.totalRuns,
			"failure_rate": s.failureRate(),
			"avg_duration": s.avgDuration(),
		}
	}

	payload := models.JSON{"per_agent": perAgent, "global_avg_duration": globalAvg}
	content, err := json.Marshal(payload)
	if err != nil {
		return failure(req, started, fmt.Errorf("diagnostics_agent: encoding payload: %w", err))
	}

	if _, err := req.Memory.StoreItem(ctx, models.ScopeGlobal, models.TypeProcedural, models.MemoryKeyDiagnosticAlert,
		string(content), models.JSON{"severity": "warning"}); err != nil {
		return failure(req, started, fmt.Errorf("diagnostics_agent: storing report: %w", err))
	}

	return &models.AgentRun{
		AgentName:    req.AgentName,
		InputPayload: req.InputPayload,
		OutputPayload: models.JSON{
			models.OutputKeyUserVisibleMessage: report,
		},
		Status:     models.RunStatusSuccess,
		StartedAt:  started,
		FinishedAt: time.Now(),
	}
}

type agentRunStats struct {
	totalRuns int
	failures  int
	lastError string
	durations []float64
}

func (s agentRunStats) failureRate() float64 {
	if s.totalRuns == 0 {
		return 0
	}
	return float64(s.failures) / float64(s.totalRuns)
}

func (s agentRunStats) avgDuration() float64 {
	return mean(s.durations)
}

func summarizeRuns(runs []*models.AgentRun) (map[string]*agentRunStats, float64) {
	byAgent := make(map[string]*agentRunStats)
	var allDurations []float64

	for _, r := range runs {
		s, ok := byAgent[r.AgentName]
		if !ok {
			s = &agentRunStats{}
			byAgent[r.AgentName] = s
		}
		s.totalRuns++
		if r.Status == models.RunStatusFailure {
			s.failures++
			s.lastError = r.OutputPayload.String(models.OutputKeyError)
		}
		if !r.FinishedAt.IsZero() && !r.StartedAt.IsZero() {
			d := r.FinishedAt.Sub(r.StartedAt).Seconds()
			s.durations = append(s.durations, d)
			allDurations = append(allDurations, d)
		}
	}
	return byAgent, mean(allDurations)
}

func mean(vs []float64) float64 {
	if len(vs) == 0 {
		return 0
	}
	var sum float64
	for _, v := range vs {
		sum += v
	}
	return sum / float64(len(vs))
}

// emotionalAnomalies flags the same fixed thresholds the original
// diagnostics agent checks: very high fatigue/frustration, very low
// confidence, runaway curiosity.
func emotionalAnomalies(emo models.EmotionalState) []string {
	var issues []string
	if emo.Fatigue > 0.75 {
		issues = append(issues, "fatigue is very high — possible cognitive degradation")
	}
	if emo.Frustration > 0.7 {
		issues = append(issues, "frustration is elevated — several pipelines are likely struggling")
	}
	if emo.Confidence < 0.2 {
		issues = append(issues, "confidence is very low — the system is doubting itself")
	}
	if emo.Curiosity > 0.85 {
		issues = append(issues, "curiosity is very high — risk of unproductive exploration loops")
	}
	return issues
}

func renderDiagnosticReport(byAgent map[string]*agentRunStats, globalAvg float64, emotionalIssues []string) string {
	names := make([]string, 0, len(byAgent))
	for name := range byAgent {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return byAgent[names[i]].failureRate() > byAgent[names[j]].failureRate()
	})

	var b strings.Builder
	b.WriteString("Diagnostic report\n\nMost problematic agents:\n")
	for i, name := range names {
		if i >= 5 {
			break
		}
		s := byAgent[name]
		fmt.Fprintf(&b, "- %s -> %d/%d failures (%.0f%%)\n", name, s.failures, s.totalRuns, s.failureRate()*100)
		if s.lastError != "" {
			fmt.Fprintf(&b, "    last error: %s\n", s.lastError)
		}
	}

	b.WriteString("\nInefficiencies:\n")
	slowFound := false
	for _, name := range names {
		s := byAgent[name]
		if avg := s.avgDuration(); globalAvg > 0 && avg > globalAvg*slowAgentThreshold {
			fmt.Fprintf(&b, "- %s -> avg %.2fs (global avg %.2fs)\n", name, avg, globalAvg)
			slowFound = true
		}
	}
	if !slowFound {
		b.WriteString("- none detected\n")
	}

	if len(emotionalIssues) > 0 {
		b.WriteString("\nEmotional anomalies:\n")
		for _, issue := range emotionalIssues {
			fmt.Fprintf(&b, "- %s\n", issue)
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

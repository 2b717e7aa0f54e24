package health

import (
	"context"
	"sort"
	"time"
)

const (
	Version      = "1.0.0"
	checkTimeout = 2 * time.Second
)

// Checker verifies one backing dependency.
type Checker func(ctx context.Context) error

// Report is the health payload.
type Report struct {
	OK           bool              `json:"ok"`
	Message      string            `json:"message"`
	Timestamp    time.Time         `json:"timestamp"`
	Environment  string            `json:"environment"`
	Version      string            `json:"version"`
	Dependencies map[string]string `json:"dependencies,omitempty"`
}

// Service encapsulates health-related checks.
type Service struct {
	env      string
	checkers map[string]Checker
	now      func() time.Time
}

// NewService constructs a new health service.
func NewService(env string) *Service {
	return &Service{env: env, checkers: make(map[string]Checker), now: time.Now}
}

// Register adds a named dependency check. A nil checker is ignored.
func (s *Service) Register(name string, check Checker) {
	if check == nil {
		return
	}
	s.checkers[name] = check
}

// Status runs every check. The report is not OK when any check fails.
func (s *Service) Status(ctx context.Context) Report {
	report := Report{
		OK:          true,
		Message:     "Harbor API is running",
		Timestamp:   s.now().UTC(),
		Environment: s.env,
		Version:     Version,
	}
	if len(s.checkers) == 0 {
		return report
	}

	names := make([]string, 0, len(s.checkers))
	for name := range s.checkers {
		names = append(names, name)
	}
	sort.Strings(names)

	report.Dependencies = make(map[string]string, len(names))
	for _, name := range names {
		checkCtx, cancel := context.WithTimeout(ctx, checkTimeout)
		err := s.checkers[name](checkCtx)
		cancel()
		if err != nil {
			report.OK = false
			report.Dependencies[name] = "down"
			continue
		}
		report.Dependencies[name] = "up"
	}
	if !report.OK {
		report.Message = "Harbor API is degraded"
	}
	return report
}

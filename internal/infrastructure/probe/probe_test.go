package probe

import (
	"context"
	"errors"
	"strings"
	"time"

	"cliscope/internal/ports"
)

// fakeRunner serves canned responses keyed by the full argv string.
type fakeRunner struct {
	responses map[string]ports.RunResult
	calls     []string
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{responses: map[string]ports.RunResult{}}
}

func (f *fakeRunner) on(argv string, result ports.RunResult) {
	f.responses[argv] = result
}

func (f *fakeRunner) Run(ctx context.Context, timeout time.Duration, name string, args ...string) (ports.RunResult, error) {
	key := strings.Join(append([]string{name}, args...), " ")
	f.calls = append(f.calls, key)
	if result, ok := f.responses[key]; ok {
		return result, nil
	}
	return ports.RunResult{ExitCode: 127}, errors.New("command failed: " + key)
}

var _ ports.CommandRunner = (*fakeRunner)(nil)

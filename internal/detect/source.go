// Package detect watches for running games and reports them by catalog profile.
package detect

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/shirou/gopsutil/v4/process"
)

// Source reports the external ids of games that are currently running.
type Source interface {
	Running(ctx context.Context) ([]string, error)
}

// ProcessSource finds games by process name in the operating system's
// process table.
type ProcessSource struct {
	// processes maps normalized process names to external ids.
	processes map[string]string
	// names lists running process names; replaced in tests.
	names func(ctx context.Context) ([]string, error)
}

// NewProcessSource creates a ProcessSource for a map of process names to
// external ids. Names match case-insensitively, with or without ".exe".
func NewProcessSource(processes map[string]string) *ProcessSource {
	normalized := make(map[string]string, len(processes))
	for name, id := range processes {
		normalized[normalizeProcessName(name)] = id
	}
	return &ProcessSource{processes: normalized, names: processNames}
}

// Running implements Source.
func (s *ProcessSource) Running(ctx context.Context) ([]string, error) {
	if len(s.processes) == 0 {
		return nil, nil
	}

	names, err := s.names(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	for _, name := range names {
		if id, ok := s.processes[normalizeProcessName(name)]; ok {
			seen[id] = struct{}{}
		}
	}

	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// processNames returns the names of all running processes.
func processNames(ctx context.Context) ([]string, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("list processes: %w", err)
	}

	names := make([]string, 0, len(procs))
	for _, p := range procs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		// Processes exit between listing and reading; skip them.
		name, err := p.NameWithContext(ctx)
		if err != nil {
			continue
		}
		names = append(names, name)
	}
	return names, nil
}

func normalizeProcessName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.TrimSuffix(name, ".exe")
}

// StaticSource reports a fixed set of ids, replaceable with Set.
type StaticSource struct {
	mu  sync.Mutex
	ids []string
	err error
}

// NewStaticSource creates a StaticSource reporting ids.
func NewStaticSource(ids ...string) *StaticSource {
	return &StaticSource{ids: ids}
}

// Set replaces the reported ids and error.
func (s *StaticSource) Set(err error, ids ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids = ids
	s.err = err
}

// Running implements Source.
func (s *StaticSource) Running(context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return append([]string(nil), s.ids...), nil
}

package sampler

import (
	"fmt"
	"os"
	"sync"

	"github.com/shirou/gopsutil/v4/process"
)

// ProcessProbe reads CPU and resident memory of the running process.
type ProcessProbe struct {
	mu   sync.Mutex
	proc *process.Process
}

func NewProcessProbe() (*ProcessProbe, error) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, fmt.Errorf("open process handle: %w", err)
	}

	// the first non-blocking Percent call only records a baseline
	if _, err := proc.Percent(0); err != nil {
		return nil, fmt.Errorf("prime cpu counters: %w", err)
	}

	return &ProcessProbe{proc: proc}, nil
}

// CPUPercent returns CPU utilization since the previous call.
func (p *ProcessProbe) CPUPercent() (float64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.proc.Percent(0)
}

func (p *ProcessProbe) RSS() (uint64, error) {
	info, err := p.proc.MemoryInfo()
	if err != nil {
		return 0, err
	}
	return info.RSS, nil
}

var _ Probe = (*ProcessProbe)(nil)

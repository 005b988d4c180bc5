// Package sysmon wraps gopsutil for host-wide context shown next to the
// per-process measurements: total CPU and memory use, load average and
// process names.
package sysmon

import (
	"strconv"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/load"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/process"
)

// Stats holds a single snapshot of system-wide resource usage.
type Stats struct {
	CPUPercent float64 // 0.0 .. 100.0
	MemPercent float64 // 0.0 .. 100.0
	Load1      float64
	NumCPU     int
}

// Sample collects a single system-wide snapshot. CPU uses interval=0, i.e.
// the delta since the previous call. Fields that cannot be read stay zero.
func Sample() Stats {
	var s Stats
	cpuPcts, err := cpu.Percent(0, false)
	if err == nil && len(cpuPcts) > 0 {
		s.CPUPercent = cpuPcts[0]
	}
	vmem, err := mem.VirtualMemory()
	if err == nil && vmem != nil {
		s.MemPercent = vmem.UsedPercent
	}
	if avg, err := load.Avg(); err == nil && avg != nil {
		s.Load1 = avg.Load1
	}
	if n, err := cpu.Counts(true); err == nil {
		s.NumCPU = n
	}
	return s
}

// ProcessName returns the command name of pid.
func ProcessName(pid int) (string, error) {
	p, err := process.NewProcess(int32(pid))
	if err != nil {
		return "", err
	}
	return p.Name()
}

// DisplayName returns "<name> (<pid>)", or the bare pid when the name cannot
// be resolved.
func DisplayName(pid int) string {
	name, err := ProcessName(pid)
	if err != nil || name == "" {
		return strconv.Itoa(pid)
	}
	return name + " (" + strconv.Itoa(pid) + ")"
}

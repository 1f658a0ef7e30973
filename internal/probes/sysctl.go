package probes

import (
	"sort"
	"strings"
	"time"

	"github.com/rileyhilliard/fwdash/internal/errors"
	"github.com/rileyhilliard/fwdash/internal/remote"
	"github.com/rileyhilliard/fwdash/internal/sysctl"
)

const (
	sysBoottime  = "kern.boottime"
	sysPhysmem   = "hw.physmem"
	sysPageCount = "vm.stats.vm.v_page_count"
	sysInactive  = "vm.stats.vm.v_inactive_count"
	sysCache     = "vm.stats.vm.v_cache_count"
	sysFree      = "vm.stats.vm.v_free_count"
	sysCPTime    = "kern.cp_time"
)

// StartupSample holds the values read once at startup.
type StartupSample struct {
	BootTime  time.Time
	PhysMem   uint64
	PageCount uint64
}

// StartupSysctls reads boot time and memory size in one batch.
type StartupSysctls struct {
	abi   sysctl.ABI
	batch *sysctl.Batch
}

// NewStartupSysctls builds the startup batch for the given ABI.
func NewStartupSysctls(abi sysctl.ABI) *StartupSysctls {
	return &StartupSysctls{
		abi: abi,
		batch: sysctl.MustBatch(
			sysctl.LongField(sysBoottime, 2), // struct timeval
			sysctl.LongField(sysPhysmem, 1),
			sysctl.UintField(sysPageCount),
		),
	}
}

func (p *StartupSysctls) Command() string { return p.batch.Command() }

func (p *StartupSysctls) Invoke(s Session) (StartupSample, error) {
	data, err := remote.ReadAll(s, p.Command())
	if err != nil {
		return StartupSample{}, err
	}
	v, err := p.batch.Decode(data, p.abi)
	if err != nil {
		return StartupSample{}, err
	}
	return StartupSample{
		BootTime:  time.Unix(int64(v.Get(sysBoottime, 0)), int64(v.Get(sysBoottime, 1))*1000),
		PhysMem:   v.Get(sysPhysmem, 0),
		PageCount: v.Get(sysPageCount, 0),
	}, nil
}

// CycleSample holds the values read every polling cycle.
type CycleSample struct {
	InactivePages uint64
	CachePages    uint64
	FreePages     uint64
	// Temperatures are raw sensor readings in deci-Kelvin, in sensor order.
	Temperatures []uint64
	// CPTime is kern.cp_time: user, nice, system, interrupt and idle ticks.
	CPTime []uint64
}

// CycleSysctls reads free memory, temperature sensors and CPU ticks in one batch.
// kern.cp_time is variable-length on the appliance, so it is the last field;
// the sensor list, which is only known after discovery, sits before it.
type CycleSysctls struct {
	abi     sysctl.ABI
	sensors []string
	batch   *sysctl.Batch
}

// NewCycleSysctls builds the per-cycle batch for the discovered sensors.
func NewCycleSysctls(abi sysctl.ABI, sensors []string) (*CycleSysctls, error) {
	fields := []sysctl.Field{
		sysctl.UintField(sysInactive),
		sysctl.UintField(sysCache),
		sysctl.UintField(sysFree),
	}
	for _, name := range sensors {
		fields = append(fields, sysctl.UintField(name))
	}
	fields = append(fields, sysctl.VariableLongs(sysCPTime))

	batch, err := sysctl.NewBatch(fields...)
	if err != nil {
		return nil, err
	}
	return &CycleSysctls{abi: abi, sensors: sensors, batch: batch}, nil
}

func (p *CycleSysctls) Command() string { return p.batch.Command() }

func (p *CycleSysctls) Invoke(s Session) (CycleSample, error) {
	data, err := remote.ReadAll(s, p.Command())
	if err != nil {
		return CycleSample{}, err
	}
	v, err := p.batch.Decode(data, p.abi)
	if err != nil {
		return CycleSample{}, err
	}

	cp := v[sysCPTime]
	if len(cp)%5 != 0 {
		return CycleSample{}, errors.Decodef(nil, "kern.cp_time has %d values, want a multiple of 5", len(cp))
	}

	temps := make([]uint64, len(p.sensors))
	for i, name := range p.sensors {
		temps[i] = v.Get(name, 0)
	}

	return CycleSample{
		InactivePages: v.Get(sysInactive, 0),
		CachePages:    v.Get(sysCache, 0),
		FreePages:     v.Get(sysFree, 0),
		Temperatures:  temps,
		CPTime:        cp,
	}, nil
}

// SensorList discovers temperature sysctls (names ending in ".temperature").
type SensorList struct{}

func (SensorList) Command() string { return "/sbin/sysctl -aN" }

func (p SensorList) Invoke(s Session) ([]string, error) {
	lines, err := remote.Lines(s, p.Command())
	if err != nil {
		return nil, err
	}
	defer lines.Close()

	var sensors []string
	for lines.Next() {
		name := strings.TrimSpace(lines.Text())
		if strings.HasSuffix(name, ".temperature") {
			sensors = append(sensors, name)
		}
	}
	return sensors, lines.Err()
}

// DiskList discovers physical disks from kern.disks. Optical drives are
// skipped since they report no SMART data.
type DiskList struct{}

func (DiskList) Command() string { return "/sbin/sysctl -n kern.disks" }

func (p DiskList) Invoke(s Session) ([]string, error) {
	line, err := remote.ReadLine(s, p.Command())
	if err != nil {
		return nil, err
	}

	var disks []string
	for _, name := range strings.Fields(line) {
		if strings.HasPrefix(name, "cd") {
			continue
		}
		disks = append(disks, name)
	}
	sort.Strings(disks)
	return disks, nil
}

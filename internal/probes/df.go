package probes

import (
	"github.com/rileyhilliard/fwdash/internal/errors"
	"github.com/rileyhilliard/fwdash/internal/remote"
)

// Filesystem is one mounted filesystem. Block counts are in KiB.
type Filesystem struct {
	MountedOn   string `json:"mounted-on"`
	TotalBlocks uint64 `json:"total-blocks"`
	UsedBlocks  uint64 `json:"used-blocks"`
}

// UsagePercent returns used/total as a percentage.
func (f Filesystem) UsagePercent() float64 {
	if f.TotalBlocks == 0 {
		return 0
	}
	return float64(f.UsedBlocks) * 100 / float64(f.TotalBlocks)
}

// DiskUsage lists UFS and tmpfs mounts.
type DiskUsage struct{}

func (DiskUsage) Command() string { return "/bin/df -kt tmpfs,ufs --libxo json" }

func (p DiskUsage) Invoke(s Session) ([]Filesystem, error) {
	out, err := remote.DecodeJSON[struct {
		Info *struct {
			Filesystem []Filesystem `json:"filesystem"`
		} `json:"storage-system-information"`
	}](s, p.Command())
	if err != nil {
		return nil, err
	}
	if out.Info == nil {
		return nil, errors.Decodef(nil, "df output has no storage-system-information")
	}
	return out.Info.Filesystem, nil
}

package monitor

import "github.com/rileyhilliard/fwdash/internal/probes"

// Disk is a physical disk with its latest SMART reading.
type Disk struct {
	Name   string
	Serial string
	Latest probes.SmartSample

	health probes.SmartHealth
}

// NewDisk creates the per-cycle state for a discovered disk.
func NewDisk(id DiskIdentity) *Disk {
	return &Disk{Name: id.Name, Serial: id.Serial, health: probes.NewSmartHealth(id.Name)}
}

// Update reads the SMART verdict and temperature.
func (d *Disk) Update(s probes.Session) error {
	sample, err := d.health.Invoke(s)
	if err != nil {
		return err
	}
	d.Latest = sample
	return nil
}

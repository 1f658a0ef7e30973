package monitor

import (
	"github.com/rileyhilliard/fwdash/internal/opnconfig"
	"github.com/rileyhilliard/fwdash/internal/probes"
	"github.com/rileyhilliard/fwdash/internal/sysctl"
)

// Inventory is what is discovered once at startup and never re-polled.
type Inventory struct {
	Topology *opnconfig.Topology
	Product  probes.Product
	OS       string
	Startup  probes.StartupSample
	Disks    []DiskIdentity
	Sensors  []string
}

// DiskIdentity names a physical disk.
type DiskIdentity struct {
	Name   string
	Serial string
}

// Discover reads the appliance configuration and identity, then finds disks
// and temperature sensors.
func Discover(s probes.Session, abi sysctl.ABI) (*Inventory, error) {
	topo, err := opnconfig.Discover(s)
	if err != nil {
		return nil, err
	}

	product, err := probes.ProductVersion{}.Invoke(s)
	if err != nil {
		return nil, err
	}
	osVersion, err := probes.OSVersion{}.Invoke(s)
	if err != nil {
		return nil, err
	}

	startup, err := probes.NewStartupSysctls(abi).Invoke(s)
	if err != nil {
		return nil, err
	}

	names, err := probes.DiskList{}.Invoke(s)
	if err != nil {
		return nil, err
	}
	disks := make([]DiskIdentity, 0, len(names))
	for _, name := range names {
		serial, err := probes.NewSmartIdentity(name).Invoke(s)
		if err != nil {
			return nil, err
		}
		disks = append(disks, DiskIdentity{Name: name, Serial: serial})
	}

	sensors, err := probes.SensorList{}.Invoke(s)
	if err != nil {
		return nil, err
	}

	return &Inventory{
		Topology: topo,
		Product:  product,
		OS:       osVersion,
		Startup:  startup,
		Disks:    disks,
		Sensors:  sensors,
	}, nil
}

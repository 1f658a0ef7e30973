package probes

import (
	"github.com/rileyhilliard/fwdash/internal/errors"
	"github.com/rileyhilliard/fwdash/internal/remote"
	"github.com/rileyhilliard/fwdash/internal/util"
)

const smartctl = "/usr/local/sbin/smartctl"

// SmartIdentity reads a disk's serial number.
type SmartIdentity struct {
	cmd string
}

// NewSmartIdentity builds the identity probe for a device name such as "ada0".
func NewSmartIdentity(device string) SmartIdentity {
	return SmartIdentity{cmd: util.ShellCommand(smartctl, "-i", "--json=c", "/dev/"+device)}
}

func (p SmartIdentity) Command() string { return p.cmd }

func (p SmartIdentity) Invoke(s Session) (string, error) {
	out, err := remote.DecodeJSON[struct {
		Serial *string `json:"serial_number"`
	}](s, p.cmd)
	if err != nil {
		return "", err
	}
	if out.Serial == nil {
		return "", errors.Decodef(nil, "smartctl output for '%s' has no serial_number", p.cmd)
	}
	return *out.Serial, nil
}

// SmartSample is a disk's health verdict and temperature. Both default to
// false/zero when smartctl omits them.
type SmartSample struct {
	Passed      bool
	Temperature uint64
}

// SmartHealth reads a disk's SMART status and temperature.
type SmartHealth struct {
	cmd string
}

// NewSmartHealth builds the health probe for a device name.
func NewSmartHealth(device string) SmartHealth {
	return SmartHealth{cmd: util.ShellCommand(smartctl, "-a", "--json=c", "/dev/"+device)}
}

func (p SmartHealth) Command() string { return p.cmd }

func (p SmartHealth) Invoke(s Session) (SmartSample, error) {
	out, err := remote.DecodeJSON[struct {
		Status struct {
			Passed bool `json:"passed"`
		} `json:"smart_status"`
		Temperature struct {
			Current uint64 `json:"current"`
		} `json:"temperature"`
	}](s, p.cmd)
	if err != nil {
		return SmartSample{}, err
	}
	return SmartSample{Passed: out.Status.Passed, Temperature: out.Temperature.Current}, nil
}

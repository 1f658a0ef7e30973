package monitor

import (
	"github.com/rileyhilliard/fwdash/internal/config"
	"github.com/rileyhilliard/fwdash/internal/probes"
)

// Service is a monitored process.
type Service struct {
	Name    string
	Running bool

	check probes.ProcessCheck
}

// NewServices builds one check per configured service, keeping their order.
func NewServices(specs []config.Service) []*Service {
	out := make([]*Service, 0, len(specs))
	for _, spec := range specs {
		check := probes.NewCmdlineCheck(spec.Cmdline)
		if spec.PidFile != "" {
			check = probes.NewPidFileCheck(spec.PidFile)
		}
		out = append(out, &Service{Name: spec.Name, check: check})
	}
	return out
}

// Update runs pgrep for the service.
func (svc *Service) Update(s probes.Session) error {
	running, err := svc.check.Invoke(s)
	if err != nil {
		return err
	}
	svc.Running = running
	return nil
}

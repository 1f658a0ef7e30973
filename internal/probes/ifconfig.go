package probes

import (
	"strings"

	"github.com/rileyhilliard/fwdash/internal/remote"
	"github.com/rileyhilliard/fwdash/internal/util"
)

// LinkStatus reads the "status:" line of ifconfig. It yields "" when the link
// is active or reports no status, and the status text otherwise
// (e.g. "no carrier").
type LinkStatus struct {
	cmd string
}

// NewLinkStatus builds the probe for a physical interface such as "igb0".
func NewLinkStatus(iface string) LinkStatus {
	return LinkStatus{cmd: util.ShellCommand("/sbin/ifconfig", iface)}
}

func (p LinkStatus) Command() string { return p.cmd }

func (p LinkStatus) Invoke(s Session) (string, error) {
	const label = "status:"

	lines, err := remote.Lines(s, p.cmd)
	if err != nil {
		return "", err
	}
	defer lines.Close()

	for lines.Next() {
		line := lines.Text()
		idx := strings.Index(line, label)
		if idx < 0 {
			continue
		}
		status := strings.TrimSpace(line[idx+len(label):])
		if status == "active" {
			return "", nil
		}
		return status, nil
	}
	return "", lines.Err()
}

package probes

import (
	"strconv"
	"strings"

	"github.com/rileyhilliard/fwdash/internal/errors"
	"github.com/rileyhilliard/fwdash/internal/remote"
)

// PFStates reads the number of entries in the packet filter state table.
type PFStates struct{}

func (PFStates) Command() string { return "/sbin/pfctl -s info" }

func (p PFStates) Invoke(s Session) (uint64, error) {
	const label = "current entries"

	lines, err := remote.Lines(s, p.Command())
	if err != nil {
		return 0, err
	}
	defer lines.Close()

	for lines.Next() {
		line := lines.Text()
		idx := strings.Index(line, label)
		if idx < 0 {
			continue
		}
		value := strings.TrimSpace(line[idx+len(label):])
		n, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return 0, errors.Decodef(err, "pfctl state count %q is not a number", value)
		}
		return n, nil
	}
	if err := lines.Err(); err != nil {
		return 0, err
	}
	return 0, errors.Decodef(nil, "could not read state table size: no %q line in pfctl output", label)
}

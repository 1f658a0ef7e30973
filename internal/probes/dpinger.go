package probes

import (
	"strconv"
	"strings"
	"time"

	"github.com/rileyhilliard/fwdash/internal/errors"
	"github.com/rileyhilliard/fwdash/internal/remote"
)

// GatewaySample is dpinger's view of one gateway.
type GatewaySample struct {
	Name          string
	LatencyAvg    time.Duration
	LatencyStdDev time.Duration
	LossPercent   uint64
}

// GatewayLatency reads every dpinger status socket. Each socket answers with
// one line: "<name> <avg µs> <stddev µs> <loss %>".
type GatewayLatency struct{}

func (GatewayLatency) Command() string {
	return `sh -c 'for f in /var/run/dpinger_*.sock; do /usr/bin/nc -U "$f" 2>/dev/null || :; done'`
}

func (p GatewayLatency) Invoke(s Session) ([]GatewaySample, error) {
	lines, err := remote.Lines(s, p.Command())
	if err != nil {
		return nil, err
	}
	defer lines.Close()

	var samples []GatewaySample
	for lines.Next() {
		line := lines.Text()
		if line == "" {
			continue
		}
		sample, err := parseDpingerLine(line)
		if err != nil {
			return nil, err
		}
		samples = append(samples, sample)
	}
	return samples, lines.Err()
}

func parseDpingerLine(line string) (GatewaySample, error) {
	fields := strings.Split(line, " ")
	if len(fields) < 4 {
		return GatewaySample{}, errors.Decodef(nil, "dpinger output %q is malformed", line)
	}

	var nums [3]uint64
	for i := range nums {
		n, err := strconv.ParseUint(fields[i+1], 10, 64)
		if err != nil {
			return GatewaySample{}, errors.Decodef(err, "dpinger output %q is malformed", line)
		}
		nums[i] = n
	}

	return GatewaySample{
		Name:          fields[0],
		LatencyAvg:    time.Duration(nums[0]) * time.Microsecond,
		LatencyStdDev: time.Duration(nums[1]) * time.Microsecond,
		LossPercent:   nums[2],
	}, nil
}

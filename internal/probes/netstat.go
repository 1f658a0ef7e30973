package probes

import (
	"github.com/rileyhilliard/fwdash/internal/errors"
	"github.com/rileyhilliard/fwdash/internal/remote"
)

// MbufSample is the mbuf cluster usage.
type MbufSample struct {
	ClusterTotal uint64 `json:"cluster-total"`
	ClusterMax   uint64 `json:"cluster-max"`
}

// Mbufs reads mbuf cluster usage from netstat -m.
type Mbufs struct{}

func (Mbufs) Command() string { return "/usr/bin/netstat -m --libxo json" }

func (p Mbufs) Invoke(s Session) (MbufSample, error) {
	out, err := remote.DecodeJSON[struct {
		Stats *MbufSample `json:"mbuf-statistics"`
	}](s, p.Command())
	if err != nil {
		return MbufSample{}, err
	}
	if out.Stats == nil {
		return MbufSample{}, errors.Decodef(nil, "netstat -m output has no mbuf-statistics")
	}
	return *out.Stats, nil
}

// InterfaceRow is one row of netstat -bin. An interface has one row for its
// link layer plus one per bound address.
type InterfaceRow struct {
	Name          string `json:"name"`
	Network       string `json:"network"`
	Address       string `json:"address"`
	ReceivedBytes uint64 `json:"received-bytes"`
	SentBytes     uint64 `json:"sent-bytes"`
}

// InterfaceCounters reads byte counters and addresses of every interface.
type InterfaceCounters struct{}

func (InterfaceCounters) Command() string { return "/usr/bin/netstat -bin --libxo json" }

func (p InterfaceCounters) Invoke(s Session) ([]InterfaceRow, error) {
	out, err := remote.DecodeJSON[struct {
		Statistics *struct {
			Interface []InterfaceRow `json:"interface"`
		} `json:"statistics"`
	}](s, p.Command())
	if err != nil {
		return nil, err
	}
	if out.Statistics == nil {
		return nil, errors.Decodef(nil, "netstat -bin output has no statistics")
	}
	return out.Statistics.Interface, nil
}

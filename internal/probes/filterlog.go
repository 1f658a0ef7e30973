package probes

import (
	"strconv"

	"github.com/rileyhilliard/fwdash/internal/remote"
	"github.com/rileyhilliard/fwdash/internal/util"
)

// FilterLogBatchSize is how many records one fetch asks for.
const FilterLogBatchSize = 100

// LogRecord is one packet filter log entry as configctl reports it. All
// values are strings on the wire, numbers included.
type LogRecord struct {
	Digest    string `json:"__digest__"`
	Timestamp string `json:"__timestamp__"`
	Action    string `json:"action"`
	Direction string `json:"dir"`
	Interface string `json:"interface"`
	Reason    string `json:"reason"`
	IPVersion string `json:"ipversion"`
	Protocol  string `json:"protonum"`
	Src       string `json:"src"`
	Dst       string `json:"dst"`
	SrcPort   string `json:"srcport"`
	DstPort   string `json:"dstport"`
}

// FilterLog fetches the newest packet filter log records, newest first.
// With a cursor, the appliance only returns records from that digest on.
type FilterLog struct {
	Cursor string
}

func (p FilterLog) Command() string {
	cmd := "/usr/local/sbin/configctl filter read log " + strconv.Itoa(FilterLogBatchSize)
	if p.Cursor != "" {
		cmd += " " + util.ShellWord(p.Cursor)
	}
	return cmd
}

func (p FilterLog) Invoke(s Session) ([]LogRecord, error) {
	return remote.DecodeJSON[[]LogRecord](s, p.Command())
}

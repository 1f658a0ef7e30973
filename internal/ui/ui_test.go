package ui

import (
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rileyhilliard/fwdash/pkg/sshutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	DisableColors()
}

func captureSpinner(label string) (*Spinner, func() string) {
	var buf strings.Builder
	var mu sync.Mutex

	s := NewSpinner(label)
	s.SetOutput(func(str string) {
		mu.Lock()
		buf.WriteString(str)
		mu.Unlock()
	})
	return s, func() string {
		mu.Lock()
		defer mu.Unlock()
		return buf.String()
	}
}

func TestSpinner_Success(t *testing.T) {
	s, output := captureSpinner("Connecting to fw")
	assert.Equal(t, SpinnerPending, s.State())

	s.Start()
	assert.Equal(t, SpinnerInProgress, s.State())
	time.Sleep(20 * time.Millisecond)
	s.Success()

	assert.Equal(t, SpinnerSuccess, s.State())
	out := output()
	assert.Contains(t, out, "Connecting to fw...")
	assert.Contains(t, out, SymbolSuccess+" Connecting to fw ")
	assert.True(t, strings.HasSuffix(out, "s\n"))
}

func TestSpinner_Fail(t *testing.T) {
	s, output := captureSpinner("Reading config.xml")
	s.Start()
	s.Fail()

	assert.Equal(t, SpinnerFailed, s.State())
	assert.Contains(t, output(), SymbolFail)
}

func TestSpinner_StartTwice(t *testing.T) {
	s, _ := captureSpinner("x")
	s.Start()
	s.Start()
	s.Success()
	assert.Equal(t, "x", s.Label())
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "0.05s", formatDuration(50*time.Millisecond))
	assert.Equal(t, "1.2s", formatDuration(1200*time.Millisecond))
}

var pickerHosts = []sshutil.HostEntry{
	{Alias: "fw", Hostname: "192.168.1.1", User: "root", Port: "22"},
	{Alias: "backup", Hostname: "backup", Port: "2222"},
}

func TestHostItem(t *testing.T) {
	item := hostItem{host: pickerHosts[0]}
	assert.Equal(t, "fw", item.Title())
	assert.Equal(t, "192.168.1.1 | user: root", item.Description())
	assert.Contains(t, item.FilterValue(), "192.168.1.1")

	assert.Equal(t, "port: 2222", hostItem{host: pickerHosts[1]}.Description())
}

func TestHostPickerModel_Select(t *testing.T) {
	m := NewHostPickerModel(pickerHosts)
	assert.Nil(t, m.Selected())

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	picked := next.(HostPickerModel)
	require.NotNil(t, picked.Selected())
	assert.Equal(t, "fw", picked.Selected().Alias)
	assert.False(t, picked.ManualEntry())
	assert.Empty(t, picked.View())
}

func TestHostPickerModel_Manual(t *testing.T) {
	m := NewHostPickerModel(pickerHosts)
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'m'}})
	picked := next.(HostPickerModel)
	assert.True(t, picked.ManualEntry())
	assert.Nil(t, picked.Selected())
}

func TestHostPickerModel_Cancel(t *testing.T) {
	m := NewHostPickerModel(pickerHosts)
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	picked := next.(HostPickerModel)
	assert.Nil(t, picked.Selected())
	assert.False(t, picked.ManualEntry())
}

func TestPickHost_NoHosts(t *testing.T) {
	host, cancelled, err := PickHost(nil, &strings.Builder{}, strings.NewReader(""))
	require.NoError(t, err)
	assert.Nil(t, host)
	assert.False(t, cancelled)
}

func TestReport_Render(t *testing.T) {
	r := Report{
		Title: "OPNsense 24.7.1 on fw",
		Sections: []Section{
			{
				Heading: "Interfaces",
				Rows: []Row{
					{Key: "igb0", Value: "gateway", Status: StatusOK},
					{Key: "igb10", Value: "", Status: StatusFail},
				},
			},
			{Heading: "Disks", Empty: "none found"},
		},
	}

	out := r.Render()
	assert.Contains(t, out, "OPNsense 24.7.1 on fw")
	assert.Contains(t, out, "  "+SymbolSuccess+" igb0   gateway\n")
	assert.Contains(t, out, "  "+SymbolFail+" igb10\n")
	assert.Contains(t, out, "Disks\n  none found\n")
}

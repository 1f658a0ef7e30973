package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rileyhilliard/fwdash/pkg/sshutil"
)

// hostItem implements list.Item for the Bubbles list component.
type hostItem struct {
	host sshutil.HostEntry
}

func (i hostItem) Title() string {
	return i.host.Alias
}

func (i hostItem) Description() string {
	var parts []string
	if i.host.Hostname != "" && i.host.Hostname != i.host.Alias {
		parts = append(parts, i.host.Hostname)
	}
	if i.host.User != "" {
		parts = append(parts, "user: "+i.host.User)
	}
	if i.host.Port != "" && i.host.Port != "22" {
		parts = append(parts, "port: "+i.host.Port)
	}
	return strings.Join(parts, " | ")
}

func (i hostItem) FilterValue() string {
	return strings.Join([]string{i.host.Alias, i.host.Hostname, i.host.User}, " ")
}

// HostPickerModel is a Bubble Tea model for choosing the appliance from the
// hosts in ~/.ssh/config.
type HostPickerModel struct {
	list        list.Model
	hosts       []sshutil.HostEntry
	selected    *sshutil.HostEntry
	manualEntry bool
	quitting    bool
}

type hostPickerKeyMap struct {
	Enter  key.Binding
	Manual key.Binding
	Quit   key.Binding
}

var hostPickerKeys = hostPickerKeyMap{
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "select"),
	),
	Manual: key.NewBinding(
		key.WithKeys("m"),
		key.WithHelp("m", "manual entry"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "esc", "ctrl+c"),
		key.WithHelp("q/esc", "cancel"),
	),
}

// NewHostPickerModel creates a picker over hosts.
func NewHostPickerModel(hosts []sshutil.HostEntry) HostPickerModel {
	items := make([]list.Item, len(hosts))
	for i, h := range hosts {
		items[i] = hostItem{host: h}
	}

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(ColorPrimary).
		BorderForeground(ColorSecondary)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(ColorMuted)

	l := list.New(items, delegate, 80, 15)
	l.Title = "Which host is the firewall?"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true).
		Padding(0, 0, 1, 0)
	l.Styles.HelpStyle = lipgloss.NewStyle().Foreground(ColorMuted)
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{hostPickerKeys.Manual}
	}

	return HostPickerModel{list: l, hosts: hosts}
}

// Init implements tea.Model.
func (m HostPickerModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m HostPickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Keys belong to the filter input while filtering
		if m.list.FilterState() == list.Filtering {
			break
		}

		switch {
		case key.Matches(msg, hostPickerKeys.Enter):
			if item, ok := m.list.SelectedItem().(hostItem); ok {
				m.selected = &item.host
			}
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, hostPickerKeys.Manual):
			m.manualEntry = true
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, hostPickerKeys.Quit):
			m.quitting = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, msg.Height-2)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m HostPickerModel) View() string {
	if m.quitting {
		return ""
	}
	hint := lipgloss.NewStyle().
		Foreground(ColorMuted).
		Render("\n  Press 'm' to type the host instead")
	return m.list.View() + hint
}

// Selected returns the chosen host, or nil if none was chosen.
func (m HostPickerModel) Selected() *sshutil.HostEntry {
	return m.selected
}

// ManualEntry reports whether the user asked to type the host.
func (m HostPickerModel) ManualEntry() bool {
	return m.manualEntry
}

// PickHost runs the picker. It returns the chosen host; a nil host with
// cancelled false means the user wants to type one, and with cancelled true
// means they gave up. No hosts goes straight to manual entry.
func PickHost(hosts []sshutil.HostEntry, output io.Writer, input io.Reader) (host *sshutil.HostEntry, cancelled bool, err error) {
	if len(hosts) == 0 {
		return nil, false, nil
	}

	p := tea.NewProgram(NewHostPickerModel(hosts), tea.WithOutput(output), tea.WithInput(input))
	final, err := p.Run()
	if err != nil {
		return nil, false, fmt.Errorf("host picker: %w", err)
	}

	m, ok := final.(HostPickerModel)
	if !ok {
		return nil, true, nil
	}
	if m.ManualEntry() {
		return nil, false, nil
	}
	if m.Selected() == nil {
		return nil, true, nil
	}
	return m.Selected(), false, nil
}

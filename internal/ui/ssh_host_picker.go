package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rileyhilliard/hostprep/pkg/sshutil"
)

// sshHostItem adapts one ~/.ssh/config host to the Bubbles list.
type sshHostItem struct {
	host sshutil.SSHHostEntry
}

func (i sshHostItem) Title() string       { return i.host.Alias }
func (i sshHostItem) Description() string { return i.host.Description() }

// FilterValue lets "/" match against alias, hostname, and user.
func (i sshHostItem) FilterValue() string {
	fields := strings.Fields(i.host.Alias + " " + i.host.Hostname + " " + i.host.User)
	return strings.Join(fields, " ")
}

// Bindings layered on top of the list's stock navigation.
var (
	pickerSelectKey = key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select"))
	pickerManualKey = key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "manual entry"))
	pickerQuitKey   = key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q/esc", "cancel"))
)

// SSHHostPickerModel picks a push target from the hosts in ~/.ssh/config.
type SSHHostPickerModel struct {
	list        list.Model
	hosts       []sshutil.SSHHostEntry
	selected    *sshutil.SSHHostEntry
	manualEntry bool
	quitting    bool
}

// NewSSHHostPickerModel builds the picker over the given hosts.
func NewSSHHostPickerModel(hosts []sshutil.SSHHostEntry) SSHHostPickerModel {
	items := make([]list.Item, len(hosts))
	for i, h := range hosts {
		items[i] = sshHostItem{host: h}
	}

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(ColorPrimary).
		BorderForeground(ColorSecondary)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(ColorMuted)

	// Seed a usable size up front; the first WindowSizeMsg corrects it.
	l := list.New(items, delegate, 80, 15)
	l.Title = "Select a host to push keys to"
	l.SetFilteringEnabled(true)
	l.Styles.Title = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true).Padding(0, 0, 1, 0)
	l.Styles.HelpStyle = MutedStyle()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{pickerManualKey}
	}

	return SSHHostPickerModel{list: l, hosts: hosts}
}

func (m SSHHostPickerModel) Init() tea.Cmd {
	return nil
}

func (m SSHHostPickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.list.SetSize(size.Width, size.Height-2)
	}

	// While the filter input is focused, every keystroke belongs to it.
	if keyMsg, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		switch {
		case key.Matches(keyMsg, pickerSelectKey):
			if item, ok := m.list.SelectedItem().(sshHostItem); ok {
				m.selected = &item.host
			}
			m.quitting = true
			return m, tea.Quit

		case key.Matches(keyMsg, pickerManualKey):
			m.manualEntry = true
			m.quitting = true
			return m, tea.Quit

		case key.Matches(keyMsg, pickerQuitKey):
			m.quitting = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m SSHHostPickerModel) View() string {
	if m.quitting {
		return ""
	}
	hint := MutedStyle().Render("\n  Press 'm' to type a target instead")
	return m.list.View() + hint
}

// Selected reports the chosen host, nil when the picker was cancelled or
// manual entry was requested.
func (m SSHHostPickerModel) Selected() *sshutil.SSHHostEntry {
	return m.selected
}

// ManualEntry reports whether the user asked to type a target by hand.
func (m SSHHostPickerModel) ManualEntry() bool {
	return m.manualEntry
}

// PickSSHHost runs the picker on the terminal. The bool result reports
// cancellation; a nil entry without cancellation means manual entry.
func PickSSHHost(hosts []sshutil.SSHHostEntry) (*sshutil.SSHHostEntry, bool, error) {
	return PickSSHHostWithOutput(hosts, os.Stdout, os.Stdin)
}

// PickSSHHostWithOutput is PickSSHHost with the program's I/O swapped out.
func PickSSHHostWithOutput(hosts []sshutil.SSHHostEntry, output io.Writer, input io.Reader) (*sshutil.SSHHostEntry, bool, error) {
	if len(hosts) == 0 {
		return nil, false, nil
	}

	p := tea.NewProgram(NewSSHHostPickerModel(hosts), tea.WithOutput(output), tea.WithInput(input))
	final, err := p.Run()
	if err != nil {
		return nil, false, fmt.Errorf("host picker: %w", err)
	}

	m, ok := final.(SSHHostPickerModel)
	if !ok {
		return nil, true, nil
	}
	if m.ManualEntry() {
		return nil, false, nil
	}
	if entry := m.Selected(); entry != nil {
		return entry, false, nil
	}
	return nil, true, nil
}

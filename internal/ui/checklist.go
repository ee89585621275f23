package ui

import (
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// ChecklistOutcome is the final state reported for one checklist entry.
type ChecklistOutcome int

const (
	ChecklistPassed ChecklistOutcome = iota
	ChecklistWarned
	ChecklistFailed
	ChecklistSkipped
)

type checklistStartMsg struct {
	index int
}

type checklistDoneMsg struct {
	index   int
	outcome ChecklistOutcome
}

// ChecklistModel renders a fixed set of concurrent tasks, one spinner line
// per task, and quits once every task has reported an outcome.
type ChecklistModel struct {
	items     []SpinnerComponent
	remaining int
	aborted   bool
}

// NewChecklistModel creates a checklist with every entry pending.
func NewChecklistModel(labels []string) ChecklistModel {
	items := make([]SpinnerComponent, len(labels))
	for i, label := range labels {
		items[i] = NewSpinnerComponent(label)
	}
	return ChecklistModel{
		items:     items,
		remaining: len(labels),
	}
}

// Init implements tea.Model.
func (m ChecklistModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m ChecklistModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc", "q":
			m.aborted = true
			return m, tea.Quit
		}
		return m, nil

	case checklistStartMsg:
		if msg.index < 0 || msg.index >= len(m.items) {
			return m, nil
		}
		return m, m.items[msg.index].Start()

	case checklistDoneMsg:
		if msg.index < 0 || msg.index >= len(m.items) {
			return m, nil
		}
		switch msg.outcome {
		case ChecklistWarned:
			m.items[msg.index].Warn()
		case ChecklistFailed:
			m.items[msg.index].Fail()
		case ChecklistSkipped:
			m.items[msg.index].Skip()
		default:
			m.items[msg.index].Success()
		}
		m.remaining--
		if m.remaining <= 0 {
			return m, tea.Quit
		}
		return m, nil

	case spinner.TickMsg:
		// Each embedded spinner filters ticks by its own ID, so the
		// message can be fanned out to every item.
		var cmds []tea.Cmd
		for i := range m.items {
			var cmd tea.Cmd
			m.items[i], cmd = m.items[i].Update(msg)
			if cmd != nil {
				cmds = append(cmds, cmd)
			}
		}
		return m, tea.Batch(cmds...)
	}

	return m, nil
}

// View implements tea.Model.
func (m ChecklistModel) View() string {
	var sb strings.Builder
	for _, item := range m.items {
		sb.WriteString(item.View())
		sb.WriteString("\n")
	}
	return sb.String()
}

// Aborted returns true if the user quit before all tasks finished.
func (m ChecklistModel) Aborted() bool {
	return m.aborted
}

// RunChecklist displays a live checklist while run executes once per label.
// All entries run concurrently; run receives the entry's index and returns
// its outcome. Returns true if the user aborted before completion.
func RunChecklist(labels []string, run func(index int) ChecklistOutcome) (bool, error) {
	model := NewChecklistModel(labels)
	p := tea.NewProgram(model)

	go func() {
		var wg sync.WaitGroup
		for i := range labels {
			wg.Add(1)
			go func(idx int) {
				defer wg.Done()
				p.Send(checklistStartMsg{index: idx})
				outcome := run(idx)
				p.Send(checklistDoneMsg{index: idx, outcome: outcome})
			}(i)
		}
		wg.Wait()
	}()

	final, err := p.Run()
	if err != nil {
		return false, err
	}

	if m, ok := final.(ChecklistModel); ok {
		return m.Aborted(), nil
	}
	return false, nil
}

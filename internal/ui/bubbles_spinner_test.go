package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpinnerFramesCycle(t *testing.T) {
	require.Len(t, SpinnerFrames.Frames, 8, "braille scan uses all eight cells")
	assert.Equal(t, time.Second/16, SpinnerFrames.FPS)
}

func TestSpinnerComponentStartsPending(t *testing.T) {
	row := NewSpinnerComponent("os-release family")

	assert.Equal(t, SpinnerComponentPending, row.State)
	assert.Equal(t, "os-release family", row.Label)
	assert.True(t, row.StartTime.IsZero())
	assert.Zero(t, row.Elapsed())
}

func TestSpinnerComponentStart(t *testing.T) {
	row := NewSpinnerComponent("config schema")

	cmd := row.Start()

	require.NotNil(t, cmd, "Start hands back the animating tick")
	assert.Equal(t, SpinnerComponentInProgress, row.State)

	time.Sleep(5 * time.Millisecond)
	assert.Greater(t, row.Elapsed(), time.Duration(0))
}

func TestSpinnerComponentSettles(t *testing.T) {
	tests := []struct {
		name   string
		settle func(*SpinnerComponent)
		state  SpinnerComponentState
		symbol string
	}{
		{"success", (*SpinnerComponent).Success, SpinnerComponentSuccess, SymbolComplete},
		{"warn", (*SpinnerComponent).Warn, SpinnerComponentWarned, SymbolWarning},
		{"fail", (*SpinnerComponent).Fail, SpinnerComponentFailed, SymbolFail},
		{"skip", (*SpinnerComponent).Skip, SpinnerComponentSkipped, SymbolSkipped},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := NewSpinnerComponent("ssh agent")
			row.Start()
			tt.settle(&row)

			assert.Equal(t, tt.state, row.State)

			view := row.View()
			assert.Contains(t, view, tt.symbol)
			assert.Contains(t, view, "ssh agent")
			assert.Regexp(t, `\d+\.\d+s`, view, "a row that ran shows its elapsed time")
		})
	}
}

func TestSpinnerComponentPendingViewHasNoTiming(t *testing.T) {
	view := NewSpinnerComponent("hosts file").View()

	assert.Contains(t, view, SymbolPending)
	assert.Contains(t, view, "hosts file")
	assert.NotRegexp(t, `\d+\.\d+s`, view, "never ran, nothing to time")
}

func TestSpinnerComponentSkippedWithoutStartHasNoTiming(t *testing.T) {
	row := NewSpinnerComponent("cloud-init")
	row.Skip()

	view := row.View()
	assert.Contains(t, view, SymbolSkipped)
	assert.NotRegexp(t, `\d+\.\d+s`, view, "skipped before starting, nothing to time")
}

func TestSpinnerComponentRunningView(t *testing.T) {
	row := NewSpinnerComponent("privilege")
	row.Start()

	view := row.View()
	assert.Contains(t, view, "privilege...")

	var animated bool
	for _, frame := range SpinnerFrames.Frames {
		if strings.Contains(view, frame) {
			animated = true
			break
		}
	}
	assert.True(t, animated, "running rows show a braille frame")
}

func TestSpinnerComponentUpdate(t *testing.T) {
	t.Run("running rows tick", func(t *testing.T) {
		row := NewSpinnerComponent("key url")
		row.Start()

		row, cmd := row.Update(spinner.TickMsg{})
		assert.NotNil(t, cmd)
		assert.Equal(t, SpinnerComponentInProgress, row.State)
	})

	t.Run("settled rows ignore ticks", func(t *testing.T) {
		row := NewSpinnerComponent("key url")

		row, cmd := row.Update(spinner.TickMsg{})
		assert.Nil(t, cmd)
		assert.Equal(t, SpinnerComponentPending, row.State)
	})

	t.Run("other messages pass through", func(t *testing.T) {
		row := NewSpinnerComponent("key url")
		row.Start()

		_, cmd := row.Update("not a tick")
		assert.Nil(t, cmd)
	})
}

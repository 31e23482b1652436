package testing

import (
	"reflect"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// DefaultCommandTimeout bounds how long Driver waits for one command.
const DefaultCommandTimeout = 2 * time.Second

// Driver feeds messages to a Bubble Tea model without a terminal and runs
// the commands it returns, so asynchronous work completes inside the test.
type Driver struct {
	Model   tea.Model
	ignore  map[reflect.Type]bool
	Output  string
	Timeout time.Duration
	Updates int
}

// NewDriver wraps model. Messages whose types match ignore are dropped
// instead of fed back, which keeps tickers and listeners from looping.
func NewDriver(model tea.Model, ignore ...tea.Msg) *Driver {
	d := &Driver{
		Model:   model,
		Timeout: DefaultCommandTimeout,
		ignore:  make(map[reflect.Type]bool),
	}
	for _, msg := range ignore {
		d.ignore[reflect.TypeOf(msg)] = true
	}
	d.Output = model.View()
	return d
}

// Send delivers msg and then drains every command it produces.
func (d *Driver) Send(msgs ...tea.Msg) *Driver {
	for _, msg := range msgs {
		d.drain(d.update(msg))
	}
	return d
}

// Run drains cmds as if the model had returned them.
func (d *Driver) Run(cmds ...tea.Cmd) *Driver {
	for _, cmd := range cmds {
		d.drain(cmd)
	}
	return d
}

// Plain returns the last rendered view without ANSI codes.
func (d *Driver) Plain() string {
	return StripANSI(d.Output)
}

// Lines returns the plain output split by newlines.
func (d *Driver) Lines() []string {
	return strings.Split(d.Plain(), "\n")
}

func (d *Driver) update(msg tea.Msg) tea.Cmd {
	model, cmd := d.Model.Update(msg)
	d.Model = model
	d.Updates++
	d.Output = model.View()
	return cmd
}

func (d *Driver) drain(cmd tea.Cmd) {
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}

		msg, ok := d.run(next)
		if !ok || msg == nil {
			continue
		}
		switch msg := msg.(type) {
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case tea.QuitMsg:
			return
		default:
			if d.ignore[reflect.TypeOf(msg)] {
				continue
			}
			queue = append(queue, d.update(msg))
		}
	}
}

// run executes cmd, giving up after the timeout so that commands blocked on
// listeners do not hang the test.
func (d *Driver) run(cmd tea.Cmd) (tea.Msg, bool) {
	done := make(chan tea.Msg, 1)
	go func() {
		done <- cmd()
	}()
	select {
	case msg := <-done:
		return msg, true
	case <-time.After(d.Timeout):
		return nil, false
	}
}

package testutil

import (
	tea "github.com/charmbracelet/bubbletea"
)

const maxPumpSteps = 10000

// Collect runs cmd and returns the messages it produces, flattening batches.
// Nil commands and nil messages are skipped.
func Collect(cmd tea.Cmd) []tea.Msg {
	var msgs []tea.Msg
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		msg := next()
		if batch, ok := msg.(tea.BatchMsg); ok {
			queue = append(queue, batch...)
			continue
		}
		if msg != nil {
			msgs = append(msgs, msg)
		}
	}
	return msgs
}

// Drain runs cmd, feeds every resulting message to update and keeps going
// with the commands update returns until nothing is left. It returns every
// message that was delivered, in order.
func Drain(cmd tea.Cmd, update func(tea.Msg) tea.Cmd) []tea.Msg {
	var delivered []tea.Msg
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		if steps > maxPumpSteps {
			panic("testutil: command pump did not settle")
		}
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		msg := next()
		if batch, ok := msg.(tea.BatchMsg); ok {
			queue = append(queue, batch...)
			continue
		}
		if msg == nil {
			continue
		}
		delivered = append(delivered, msg)
		queue = append(queue, update(msg))
	}
	return delivered
}

// Feed delivers msgs to update and drains whatever they trigger
func Feed(msgs []tea.Msg, update func(tea.Msg) tea.Cmd) []tea.Msg {
	var delivered []tea.Msg
	for _, msg := range msgs {
		delivered = append(delivered, msg)
		delivered = append(delivered, Drain(update(msg), update)...)
	}
	return delivered
}

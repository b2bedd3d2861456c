package prompt

import (
	"io"

	"github.com/manifoldco/promptui"
)

// Terminal is the interactive Prompter backed by promptui. Nil streams fall
// back to the process stdin/stdout.
type Terminal struct {
	Stdin  io.ReadCloser
	Stdout io.WriteCloser
}

func NewTerminal(stdin io.ReadCloser, stdout io.WriteCloser) *Terminal {
	return &Terminal{Stdin: stdin, Stdout: stdout}
}

func (t *Terminal) Select(label string, items []string) (string, error) {
	sel := promptui.Select{
		Label:    label,
		Items:    items,
		HideHelp: true,
		Stdin:    t.Stdin,
		Stdout:   t.Stdout,
	}
	_, choice, err := sel.Run()
	return choice, err
}

func (t *Terminal) Input(label string) (string, error) {
	p := promptui.Prompt{
		Label:  label,
		Stdin:  t.Stdin,
		Stdout: t.Stdout,
	}
	return p.Run()
}

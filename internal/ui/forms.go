package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const formFieldWidth = 40

// Field indexes of the login and registration forms.
const (
	loginUsername = iota
	loginPassword
)

const (
	registerUsername = iota
	registerEmail
	registerPassword
	registerConfirm
)

// form is a vertical stack of text inputs with one focused field.
type form struct {
	labels []string
	inputs []textinput.Model
	focus  int
}

type fieldSpec struct {
	label   string
	hint    string
	secret  bool
	initial string
}

func newForm(fields ...fieldSpec) form {
	f := form{
		labels: make([]string, len(fields)),
		inputs: make([]textinput.Model, len(fields)),
	}
	for i, field := range fields {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = field.hint
		in.CharLimit = 128
		in.Width = formFieldWidth
		if field.secret {
			in.EchoMode = textinput.EchoPassword
			in.EchoCharacter = '•'
		}
		in.SetValue(field.initial)
		f.labels[i] = field.label
		f.inputs[i] = in
	}
	return f
}

func newLoginForm(lastUsername string) form {
	f := newForm(
		fieldSpec{label: "Username", hint: "your username", initial: lastUsername},
		fieldSpec{label: "Password", hint: "password", secret: true},
	)
	if strings.TrimSpace(lastUsername) != "" {
		f.focus = loginPassword
	}
	return f
}

func newRegisterForm() form {
	return newForm(
		fieldSpec{label: "Username", hint: "pick a username"},
		fieldSpec{label: "Email", hint: "you@example.com"},
		fieldSpec{label: "Password", hint: "password", secret: true},
		fieldSpec{label: "Confirm", hint: "repeat password", secret: true},
	)
}

func newIngredientInput() textinput.Model {
	in := textinput.New()
	in.Prompt = "+ "
	in.Placeholder = "add an ingredient, enter to search"
	in.CharLimit = 64
	in.Width = 30
	return in
}

func (f *form) value(i int) string {
	return f.inputs[i].Value()
}

func (f *form) onLast() bool {
	return f.focus == len(f.inputs)-1
}

func (f *form) next() tea.Cmd {
	f.focus = (f.focus + 1) % len(f.inputs)
	return f.focusCurrent()
}

func (f *form) prev() tea.Cmd {
	f.focus = (f.focus + len(f.inputs) - 1) % len(f.inputs)
	return f.focusCurrent()
}

func (f *form) focusCurrent() tea.Cmd {
	var cmd tea.Cmd
	for i := range f.inputs {
		if i == f.focus {
			cmd = f.inputs[i].Focus()
			continue
		}
		f.inputs[i].Blur()
	}
	return cmd
}

func (f *form) blur() {
	for i := range f.inputs {
		f.inputs[i].Blur()
	}
}

// reset clears one field.
func (f *form) reset(i int) {
	f.inputs[i].Reset()
}

func (f *form) resetAll() {
	for i := range f.inputs {
		f.inputs[i].Reset()
	}
	f.focus = 0
}

func (f *form) setWidth(w int) {
	if w < 10 {
		w = 10
	}
	for i := range f.inputs {
		f.inputs[i].Width = w
	}
}

func (f *form) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

// view renders the form with aligned labels; the focused label is accented.
func (f *form) view(styles Styles) string {
	width := 0
	for _, l := range f.labels {
		width = max(width, len(l))
	}
	var b strings.Builder
	for i, in := range f.inputs {
		label := padRight(f.labels[i], width)
		if i == f.focus {
			b.WriteString(styles.AccentText.Bold(true).Render("› " + label))
		} else {
			b.WriteString(styles.MutedText.Render("  " + label))
		}
		b.WriteString("  ")
		b.WriteString(in.View())
		b.WriteString("\n\n")
	}
	return b.String()
}

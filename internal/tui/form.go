package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/decora-ai/decora/pkg/models"
)

// form field indices, in display order.
const (
	fieldRoomType = iota
	fieldLength
	fieldWidth
	fieldHeight
	fieldWindows
	fieldDoors
	fieldStyle
	fieldColors
	fieldMustHaves
	fieldAvoid
	fieldBudget
	fieldCount
)

// formField pairs a label with its text input.
type formField struct {
	label string
	input textinput.Model
}

// FormApp is the interactive intake form. It collects a consultation
// request field by field; the caller reads Request() after the program
// exits.
type FormApp struct {
	fields  []formField
	focused int
	errMsg  string

	submitted bool
	request   models.ConsultationRequest
	quitting  bool
}

// NewFormApp creates the intake form pre-filled with the given request
// (typically the sample defaults, so enter-through works).
func NewFormApp(defaults models.ConsultationRequest) *FormApp {
	labels := [fieldCount]string{
		fieldRoomType:  "Room type",
		fieldLength:    "Length (ft)",
		fieldWidth:     "Width (ft)",
		fieldHeight:    "Height (ft)",
		fieldWindows:   "Windows",
		fieldDoors:     "Doors",
		fieldStyle:     "Style",
		fieldColors:    "Color preference",
		fieldMustHaves: "Must-haves",
		fieldAvoid:     "Avoid",
		fieldBudget:    "Budget ($)",
	}
	values := [fieldCount]string{
		fieldRoomType:  string(defaults.RoomType),
		fieldLength:    formatFloat(defaults.RoomLength),
		fieldWidth:     formatFloat(defaults.RoomWidth),
		fieldHeight:    formatFloat(defaults.RoomHeight),
		fieldWindows:   defaults.Windows,
		fieldDoors:     defaults.Doors,
		fieldStyle:     defaults.StylePreference,
		fieldColors:    defaults.ColorPreference,
		fieldMustHaves: defaults.MustHaves,
		fieldAvoid:     defaults.Avoid,
		fieldBudget:    strconv.Itoa(defaults.Budget),
	}

	fields := make([]formField, fieldCount)
	for i := 0; i < fieldCount; i++ {
		ti := textinput.New()
		ti.SetValue(values[i])
		ti.CharLimit = 200
		ti.Width = 48
		fields[i] = formField{label: labels[i], input: ti}
	}
	fields[fieldRoomType].input.Focus()

	return &FormApp{fields: fields}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Request returns the submitted request and whether the form was
// completed rather than cancelled.
func (f *FormApp) Request() (models.ConsultationRequest, bool) {
	return f.request, f.submitted
}

// Init implements tea.Model.
func (f *FormApp) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (f *FormApp) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			f.quitting = true
			return f, tea.Quit

		case "enter", "tab", "down":
			if msg.String() == "enter" && f.focused == fieldCount-1 {
				return f.submit()
			}
			f.focus(f.focused + 1)
			return f, nil

		case "shift+tab", "up":
			f.focus(f.focused - 1)
			return f, nil

		case "ctrl+s":
			return f.submit()
		}
	}

	var cmd tea.Cmd
	f.fields[f.focused].input, cmd = f.fields[f.focused].input.Update(msg)
	return f, cmd
}

// focus moves input focus to the field at index, wrapping around.
func (f *FormApp) focus(index int) {
	f.fields[f.focused].input.Blur()
	f.focused = (index + fieldCount) % fieldCount
	f.fields[f.focused].input.Focus()
}

// submit parses and validates the form, quitting on success.
func (f *FormApp) submit() (tea.Model, tea.Cmd) {
	req, err := f.parse()
	if err != nil {
		f.errMsg = err.Error()
		return f, nil
	}
	if err := req.Validate(); err != nil {
		f.errMsg = err.Error()
		return f, nil
	}
	f.request = req
	f.submitted = true
	return f, tea.Quit
}

// parse converts the field values into a request.
func (f *FormApp) parse() (models.ConsultationRequest, error) {
	var req models.ConsultationRequest

	req.RoomType = models.NormalizeRoomType(f.value(fieldRoomType))

	var err error
	if req.RoomLength, err = parseFloatField("length", f.value(fieldLength)); err != nil {
		return req, err
	}
	if req.RoomWidth, err = parseFloatField("width", f.value(fieldWidth)); err != nil {
		return req, err
	}
	if req.RoomHeight, err = parseFloatField("height", f.value(fieldHeight)); err != nil {
		return req, err
	}

	budget, err := strconv.Atoi(f.value(fieldBudget))
	if err != nil {
		return req, fmt.Errorf("budget must be a whole dollar amount")
	}
	req.Budget = budget

	req.Windows = f.value(fieldWindows)
	req.Doors = f.value(fieldDoors)
	req.StylePreference = f.value(fieldStyle)
	req.ColorPreference = f.value(fieldColors)
	req.MustHaves = f.value(fieldMustHaves)
	req.Avoid = f.value(fieldAvoid)
	return req, nil
}

func (f *FormApp) value(index int) string {
	return strings.TrimSpace(f.fields[index].input.Value())
}

func parseFloatField(name, s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number in feet", name)
	}
	return v, nil
}

// View implements tea.Model.
func (f *FormApp) View() string {
	if f.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("decora"))
	b.WriteString(headerStyle.Render("  new consultation"))
	b.WriteString("\n\n")

	for i, field := range f.fields {
		label := field.label
		if i == f.focused {
			label = labelStyle.Render(label)
		} else {
			label = dimStyle.Render(label)
		}
		b.WriteString(fmt.Sprintf("  %-28s %s\n", label, field.input.View()))
	}

	b.WriteString("\n")
	if f.errMsg != "" {
		b.WriteString("  " + errorStyle.Render(f.errMsg) + "\n\n")
	}
	b.WriteString("  " + dimStyle.Render("tab/enter next field · ctrl+s submit · esc cancel") + "\n")
	return b.String()
}

// RunForm shows the intake form and returns the request the user
// submitted. ok is false when the form was cancelled.
func RunForm(defaults models.ConsultationRequest) (models.ConsultationRequest, bool, error) {
	app := NewFormApp(defaults)
	if _, err := tea.NewProgram(app).Run(); err != nil {
		return models.ConsultationRequest{}, false, err
	}
	req, ok := app.Request()
	return req, ok, nil
}

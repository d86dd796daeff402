package ui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/wayfarer/internal/destination"
)

// formField describes one input of the add/edit form. Keys match
// destination.ValidationError.Field so store errors land on the right input.
type formField struct {
	key         string
	label       string
	placeholder string
}

var formFields = []formField{
	{destination.FieldCountry, "Country", "Japan"},
	{destination.FieldCity, "City", "Kyoto"},
	{"description", "Description", "Temples, gardens and tea houses"},
	{"whyVisit", "Why visit", "See the maples in November"},
	{"tags", "Tags", "culture, food"},
	{destination.FieldLat, "Latitude", "35.0116 (optional)"},
	{destination.FieldLng, "Longitude", "135.7681 (optional)"},
	{"imageUrl", "Image", "https://… or ~/photos/kyoto.jpg (optional)"},
}

const (
	idxCountry = iota
	idxCity
	idxDescription
	idxWhyVisit
	idxTags
	idxLat
	idxLng
	idxImageURL
)

// formState holds the add/edit form. editingID is empty when adding.
type formState struct {
	inputs    []textinput.Model
	focus     int
	editingID string
	errs      map[string]string
	err       string
	saving    bool
	// keptImage is an embedded image shown as uploadedImageLabel.
	keptImage string
}

func newForm(theme Theme) formState {
	inputs := make([]textinput.Model, len(formFields))
	for i, f := range formFields {
		ti := textinput.New()
		ti.Placeholder = f.placeholder
		ti.Prompt = ""
		ti.CharLimit = 512
		ti.Width = 48
		ti.PlaceholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Faint))
		ti.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Text))
		inputs[i] = ti
	}
	inputs[0].Focus()
	return formState{inputs: inputs, errs: map[string]string{}}
}

// newEditForm pre-fills the form from d.
func newEditForm(theme Theme, d destination.Destination) formState {
	f := newForm(theme)
	f.editingID = d.ID
	f.inputs[idxCountry].SetValue(d.Country)
	f.inputs[idxCity].SetValue(d.City)
	f.inputs[idxDescription].SetValue(d.Description)
	f.inputs[idxWhyVisit].SetValue(d.WhyVisit)
	f.inputs[idxTags].SetValue(strings.Join(d.Tags, ", "))
	if d.Lat != nil {
		f.inputs[idxLat].SetValue(strconv.FormatFloat(*d.Lat, 'f', -1, 64))
	}
	if d.Lng != nil {
		f.inputs[idxLng].SetValue(strconv.FormatFloat(*d.Lng, 'f', -1, 64))
	}
	if strings.HasPrefix(d.ImageURL, "data:") {
		f.keptImage = d.ImageURL
		f.inputs[idxImageURL].SetValue(uploadedImageLabel)
	} else {
		f.inputs[idxImageURL].SetValue(d.ImageURL)
	}
	return f
}

func (f formState) values() []string {
	out := make([]string, len(f.inputs))
	for i, in := range f.inputs {
		out[i] = in.Value()
	}
	return out
}

func (f *formState) setFocus(i int) {
	n := len(f.inputs)
	f.focus = ((i % n) + n) % n
	for j := range f.inputs {
		if j == f.focus {
			f.inputs[j].Focus()
		} else {
			f.inputs[j].Blur()
		}
	}
}

func (f formState) onLastField() bool {
	return f.focus == len(f.inputs)-1
}

// setError places err on the matching field, or as a form-level message.
func (f *formState) setError(err error) {
	f.errs = map[string]string{}
	f.err = ""
	var verr *destination.ValidationError
	if errors.As(err, &verr) {
		f.errs[verr.Field] = verr.Message
		for i, field := range formFields {
			if field.key == verr.Field {
				f.setFocus(i)
				break
			}
		}
		return
	}
	if err != nil {
		f.err = err.Error()
	}
}

func (f formState) update(msg tea.Msg) (formState, tea.Cmd) {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd
}

// parse reads the form into an Input, keeping an embedded image the user
// left untouched.
func (f formState) parse() (destination.Input, map[string]string) {
	values := f.values()
	keep := f.keptImage != "" && strings.TrimSpace(values[idxImageURL]) == uploadedImageLabel
	if keep {
		values[idxImageURL] = ""
	}
	in, errs := parseForm(values)
	if keep {
		in.ImageURL = f.keptImage
	}
	return in, errs
}

// parseForm turns raw form values into an Input. Coordinates that are not
// numbers and unreadable image files are reported per field; everything else
// is left to Input.Validate. A local image path is embedded as a data URI.
func parseForm(values []string) (destination.Input, map[string]string) {
	errs := map[string]string{}
	get := func(i int) string {
		if i < len(values) {
			return strings.TrimSpace(values[i])
		}
		return ""
	}

	in := destination.Input{
		Country:     get(idxCountry),
		City:        get(idxCity),
		Description: get(idxDescription),
		WhyVisit:    get(idxWhyVisit),
		Tags:        destination.ParseTags(get(idxTags)),
		ImageURL:    get(idxImageURL),
	}
	in.Lat = parseCoordinate(get(idxLat), destination.FieldLat, "latitude", errs)
	in.Lng = parseCoordinate(get(idxLng), destination.FieldLng, "longitude", errs)
	if isLocalPath(in.ImageURL) {
		uri, err := readImageFile(in.ImageURL)
		if err != nil {
			errs[formFields[idxImageURL].key] = err.Error()
		} else {
			in.ImageURL = uri
		}
	}
	if len(errs) > 0 {
		return in, errs
	}

	if err := in.Validate(); err != nil {
		var verr *destination.ValidationError
		if errors.As(err, &verr) {
			errs[verr.Field] = verr.Message
		}
	}
	return in, errs
}

func parseCoordinate(raw, field, name string, errs map[string]string) *float64 {
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		errs[field] = fmt.Sprintf("%s must be a number", name)
		return nil
	}
	return &v
}

// patchFromInput builds a full-replacement patch for an edit. Clearing both
// coordinate inputs removes the coordinates.
func patchFromInput(in destination.Input) destination.Patch {
	p := destination.Patch{
		Country:     &in.Country,
		City:        &in.City,
		Description: &in.Description,
		WhyVisit:    &in.WhyVisit,
		ImageURL:    &in.ImageURL,
	}
	tags := in.Tags
	p.Tags = &tags
	switch {
	case in.Lat != nil && in.Lng != nil:
		p.Coordinates = &destination.Coordinates{Lat: *in.Lat, Lng: *in.Lng}
	default:
		p.ClearCoordinates = true
	}
	return p
}

func (m Model) renderForm() string {
	styles := m.theme.Styles()
	f := m.form

	var b strings.Builder
	title := "Add destination"
	if f.editingID != "" {
		title = "Edit destination"
	}
	b.WriteString(styles.AccentText.Bold(true).Render(title))
	b.WriteString("\n\n")

	for i, field := range formFields {
		labelStyle := styles.MutedText
		if i == f.focus {
			labelStyle = styles.AccentText.Bold(true)
		}
		label := labelStyle.Width(14).Render(field.label)
		b.WriteString(label)
		b.WriteString(f.inputs[i].View())
		b.WriteString("\n")
		if msg, ok := f.errs[field.key]; ok {
			b.WriteString(lipgloss.NewStyle().PaddingLeft(14).Render(styles.DangerText.Render(msg)))
			b.WriteString("\n")
		}
	}

	if f.err != "" {
		b.WriteString("\n")
		b.WriteString(styles.DangerText.Render(f.err))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	if f.saving {
		b.WriteString(styles.WarningText.Render("Saving…"))
	} else {
		b.WriteString(styles.FaintText.Render("tab/shift+tab move · ctrl+s or enter on last field save · esc cancel"))
	}

	return m.renderTitledBox(b.String(), m.width)
}

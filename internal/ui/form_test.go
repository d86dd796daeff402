package ui

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/five82/wayfarer/internal/destination"
)

func formValues(country, city, lat, lng string) []string {
	values := make([]string, len(formFields))
	values[idxCountry] = country
	values[idxCity] = city
	values[idxLat] = lat
	values[idxLng] = lng
	return values
}

func TestParseForm_Valid(t *testing.T) {
	values := formValues(" Japan ", "Kyoto", "35.0116", " 135.7681 ")
	values[idxTags] = "culture, , food "
	values[idxDescription] = "  temples "

	in, errs := parseForm(values)
	if len(errs) != 0 {
		t.Fatalf("parseForm errs = %v, want none", errs)
	}
	if in.Country != "Japan" || in.City != "Kyoto" || in.Description != "temples" {
		t.Fatalf("parseForm = %+v, want trimmed text fields", in)
	}
	if len(in.Tags) != 2 || in.Tags[0] != "culture" || in.Tags[1] != "food" {
		t.Fatalf("Tags = %#v, want [culture food]", in.Tags)
	}
	if in.Lat == nil || *in.Lat != 35.0116 || in.Lng == nil || *in.Lng != 135.7681 {
		t.Fatalf("coordinates = %v,%v, want 35.0116,135.7681", in.Lat, in.Lng)
	}
}

func TestParseForm_FieldErrors(t *testing.T) {
	cases := []struct {
		name   string
		values []string
		field  string
	}{
		{"missing country", formValues("", "Kyoto", "", ""), destination.FieldCountry},
		{"missing city", formValues("Japan", "  ", "", ""), destination.FieldCity},
		{"lat not a number", formValues("Japan", "Kyoto", "north", "1"), destination.FieldLat},
		{"lng not a number", formValues("Japan", "Kyoto", "1", "east"), destination.FieldLng},
		{"lat out of range", formValues("Japan", "Kyoto", "91", "0"), destination.FieldLat},
		{"lng out of range", formValues("Japan", "Kyoto", "0", "-180.5"), destination.FieldLng},
		{"lat without lng", formValues("Japan", "Kyoto", "10", ""), destination.FieldLng},
		{"lng without lat", formValues("Japan", "Kyoto", "", "10"), destination.FieldLat},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, errs := parseForm(tc.values)
			if _, ok := errs[tc.field]; !ok {
				t.Fatalf("parseForm errs = %v, want an error on %q", errs, tc.field)
			}
		})
	}
}

func TestParseForm_ShortValuesTreatedAsEmpty(t *testing.T) {
	_, errs := parseForm([]string{"Japan"})
	if _, ok := errs[destination.FieldCity]; !ok {
		t.Fatalf("parseForm errs = %v, want city error", errs)
	}
}

func TestPatchFromInput(t *testing.T) {
	lat, lng := 1.5, 2.5
	p := patchFromInput(destination.Input{Country: "A", City: "B", Lat: &lat, Lng: &lng, Tags: []string{"x"}})
	if p.Coordinates == nil || p.Coordinates.Lat != 1.5 || p.Coordinates.Lng != 2.5 || p.ClearCoordinates {
		t.Fatalf("patch coordinates = %+v clear=%v, want 1.5,2.5", p.Coordinates, p.ClearCoordinates)
	}
	if p.Tags == nil || len(*p.Tags) != 1 {
		t.Fatalf("patch tags = %v, want [x]", p.Tags)
	}

	p = patchFromInput(destination.Input{Country: "A", City: "B"})
	if !p.ClearCoordinates {
		t.Fatalf("patch without coordinates should clear them")
	}
	if err := p.Validate(); err != nil {
		t.Fatalf("patch Validate = %v, want nil", err)
	}
}

func TestNewEditForm_Prefills(t *testing.T) {
	lat, lng := 48.8566, 2.3522
	d := destination.Destination{
		ID:        "id-1",
		Country:   "France",
		City:      "Paris",
		Tags:      []string{"food", "art"},
		Lat:       &lat,
		Lng:       &lng,
		ImageURL:  "https://img",
		DateAdded: time.Now(),
	}
	f := newEditForm(GetTheme(""), d)
	values := f.values()
	if f.editingID != "id-1" {
		t.Fatalf("editingID = %q, want id-1", f.editingID)
	}
	if values[idxCountry] != "France" || values[idxCity] != "Paris" || values[idxTags] != "food, art" {
		t.Fatalf("values = %#v, want prefilled fields", values)
	}
	if values[idxLat] != "48.8566" || values[idxLng] != "2.3522" || values[idxImageURL] != "https://img" {
		t.Fatalf("values = %#v, want prefilled coordinates and image", values)
	}

	in, errs := parseForm(values)
	if len(errs) != 0 {
		t.Fatalf("round trip errs = %v", errs)
	}
	if *in.Lat != lat || *in.Lng != lng {
		t.Fatalf("round trip coordinates = %v,%v", *in.Lat, *in.Lng)
	}
}

func TestFormState_FocusWraps(t *testing.T) {
	f := newForm(GetTheme(""))
	f.setFocus(-1)
	if f.focus != len(formFields)-1 || !f.onLastField() {
		t.Fatalf("focus = %d, want last field", f.focus)
	}
	f.setFocus(f.focus + 1)
	if f.focus != 0 {
		t.Fatalf("focus = %d, want 0 after wrapping", f.focus)
	}
	if !f.inputs[0].Focused() || f.inputs[1].Focused() {
		t.Fatalf("only the first input should be focused")
	}
}

func TestFormState_SetError(t *testing.T) {
	f := newForm(GetTheme(""))
	f.setError(&destination.ValidationError{Field: destination.FieldCity, Message: "city is required"})
	if f.errs[destination.FieldCity] != "city is required" {
		t.Fatalf("errs = %v, want city message", f.errs)
	}
	if f.focus != idxCity {
		t.Fatalf("focus = %d, want city field", f.focus)
	}

	f.setError(errTest)
	if f.err != errTest.Error() || len(f.errs) != 0 {
		t.Fatalf("form-level error not recorded: err=%q errs=%v", f.err, f.errs)
	}
}

// pngHeader is enough for content sniffing to report image/png.
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

func TestParseForm_LocalImage(t *testing.T) {
	dir := t.TempDir()
	photo := filepath.Join(dir, "kyoto.png")
	if err := os.WriteFile(photo, pngHeader, 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	notes := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(notes, []byte("just text"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	huge := filepath.Join(dir, "huge.png")
	f, err := os.Create(huge)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := f.Truncate(maxImageBytes + 1); err != nil {
		t.Fatalf("Truncate: %v", err)
	}
	f.Close()

	t.Run("valid file becomes a data URI", func(t *testing.T) {
		values := formValues("Japan", "Kyoto", "", "")
		values[idxImageURL] = photo
		in, errs := parseForm(values)
		if len(errs) != 0 {
			t.Fatalf("parseForm errs = %v, want none", errs)
		}
		want := "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngHeader)
		if in.ImageURL != want {
			t.Fatalf("ImageURL = %q, want %q", in.ImageURL, want)
		}
	})

	t.Run("home relative path", func(t *testing.T) {
		t.Setenv("HOME", dir)
		values := formValues("Japan", "Kyoto", "", "")
		values[idxImageURL] = "~/kyoto.png"
		in, errs := parseForm(values)
		if len(errs) != 0 || !strings.HasPrefix(in.ImageURL, "data:image/png;base64,") {
			t.Fatalf("parseForm = %q, %v; want embedded png", in.ImageURL, errs)
		}
	})

	cases := []struct {
		name string
		path string
		want string
	}{
		{"oversized file", huge, "5 MB"},
		{"missing file", filepath.Join(dir, "nope.jpg"), "not found"},
		{"not an image", notes, "not an image"},
		{"directory", dir + "/", "directory"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			values := formValues("Japan", "Kyoto", "", "")
			values[idxImageURL] = tc.path
			_, errs := parseForm(values)
			if msg := errs["imageUrl"]; !strings.Contains(msg, tc.want) {
				t.Fatalf("image error = %q, want it to mention %q (errs %v)", msg, tc.want, errs)
			}
		})
	}

	t.Run("urls are left alone", func(t *testing.T) {
		values := formValues("Japan", "Kyoto", "", "")
		values[idxImageURL] = "https://img/kyoto.jpg"
		in, errs := parseForm(values)
		if len(errs) != 0 || in.ImageURL != "https://img/kyoto.jpg" {
			t.Fatalf("parseForm = %q, %v; want the URL unchanged", in.ImageURL, errs)
		}
	})
}

func TestEditForm_KeepsEmbeddedImage(t *testing.T) {
	uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngHeader)
	d := destination.Destination{ID: "id-1", Country: "Japan", City: "Kyoto", ImageURL: uri}

	f := newEditForm(GetTheme(""), d)
	if got := f.values()[idxImageURL]; got != uploadedImageLabel {
		t.Fatalf("image input = %q, want placeholder label", got)
	}
	in, errs := f.parse()
	if len(errs) != 0 || in.ImageURL != uri {
		t.Fatalf("parse = %q, %v; want the embedded image kept", in.ImageURL, errs)
	}

	f.inputs[idxImageURL].SetValue("")
	in, _ = f.parse()
	if in.ImageURL != "" {
		t.Fatalf("cleared image = %q, want empty", in.ImageURL)
	}
}

func TestDescribeImage(t *testing.T) {
	if got := describeImage("https://img/x.jpg"); got != "https://img/x.jpg" {
		t.Fatalf("describeImage(url) = %q", got)
	}
	uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString(make([]byte, 3000))
	if got := describeImage(uri); got != "uploaded image/png, 3 KB" {
		t.Fatalf("describeImage(data) = %q", got)
	}
}

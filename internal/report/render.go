package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Format selects a rendering.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatText Format = "text"
)

// Formats lists every supported format.
func Formats() []Format { return []Format{FormatJSON, FormatCSV, FormatText} }

// ParseFormat resolves a format name case-insensitively.
func ParseFormat(raw string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(raw)))
	switch f {
	case FormatJSON, FormatCSV, FormatText:
		return f, nil
	case "txt":
		return FormatText, nil
	}
	return "", fmt.Errorf("unknown report format %q", raw)
}

// ContentType is the MIME type for f.
func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatCSV:
		return "text/csv"
	default:
		return "text/plain; charset=utf-8"
	}
}

// Extension is the file extension used when publishing f.
func (f Format) Extension() string {
	if f == FormatText {
		return "txt"
	}
	return string(f)
}

// Render writes c to w in format f.
func Render(w io.Writer, c Census, f Format) error {
	switch f {
	case FormatJSON:
		return RenderJSON(w, c)
	case FormatCSV:
		return RenderCSV(w, c)
	case FormatText:
		return RenderText(w, c)
	}
	return fmt.Errorf("unknown report format %q", f)
}

// RenderJSON writes indented JSON.
func RenderJSON(w io.Writer, c Census) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}

var csvHeader = []string{
	"housing", "kind", "designation", "name", "species", "sex", "size",
	"weight", "age_months", "food", "footprint", "daily_ration_g",
}

// RenderCSV writes one row per housed animal.
func RenderCSV(w io.Writer, c Census) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, h := range c.units() {
		for _, o := range h.Occupants {
			row := []string{
				h.Name, h.Kind, h.Designation, o.Name, o.Species, o.Sex, o.Size,
				formatFloat(o.Weight), formatFloat(o.AgeInMonths), o.Food,
				strconv.Itoa(o.Footprint), strconv.Itoa(o.DailyRation),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// RenderText writes the notice-board layout: each unit's figures and
// occupants followed by the shopping list.
func RenderText(w io.Writer, c Census) error {
	var b strings.Builder
	if c.Isolation != nil {
		iso := c.Isolation
		fmt.Fprintf(&b, "<---- %s ---->\n", iso.Name)
		fmt.Fprintf(&b, "Capacity = %d, Available = %d, Occupied = %d\n", iso.Capacity, iso.Available, len(iso.Occupants))
		fmt.Fprintf(&b, "Species: [%s]\n", strings.Join(iso.Species, ", "))
		writeOccupants(&b, iso.Occupants, "No Monkey in Isolation")
		b.WriteString("\n")
	}
	for _, enc := range c.Enclosures {
		fmt.Fprintf(&b, "<---- %s Sign Board (%s) ---->\n", enc.Name, enc.Designation)
		fmt.Fprintf(&b, "Capacity = %d, Available = %d\n", enc.Capacity, enc.Available)
		fmt.Fprintf(&b, "Species: [%s]\n", strings.Join(enc.Species, ", "))
		writeOccupants(&b, enc.Occupants, "No Monkey in Enclosure")
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "Shopping List (in gms): %s\n", c.shoppingString())
	_, err := io.WriteString(w, b.String())
	return err
}

func writeOccupants(b *strings.Builder, occupants []Occupant, empty string) {
	if len(occupants) == 0 {
		b.WriteString(empty + "\n")
		return
	}
	for _, o := range occupants {
		b.WriteString(o.Summary + "\n")
	}
}

func (c Census) units() []Housing {
	var out []Housing
	if c.Isolation != nil {
		out = append(out, *c.Isolation)
	}
	return append(out, c.Enclosures...)
}

func (c Census) shoppingString() string {
	parts := make([]string, len(c.ShoppingList))
	for i, r := range c.ShoppingList {
		parts[i] = fmt.Sprintf("%s=%d", r.Food, r.Grams)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

package shell

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"argshell/internal/arguments"
)

// TypeRow describes one argument type for listings.
type TypeRow struct {
	Suffix   string
	Origin   string
	Kind     string
	Matching bool
	Examples []string
	Details  string
}

// DescribeType summarizes t for listing under origin.
func DescribeType(t arguments.ArgumentType, origin arguments.Origin) TypeRow {
	row := TypeRow{
		Suffix:   t.Suffix(),
		Origin:   origin.String(),
		Matching: t.NeedsMatching(),
		Examples: t.Examples(),
	}
	var details []string
	switch v := t.(type) {
	case *arguments.StringType:
		row.Kind = "string"
		if opts := v.Options(); len(opts) > 0 {
			details = append(details, "options: "+strings.Join(opts, ", "))
		}
		if v.CaseSensitive() {
			details = append(details, "case sensitive")
		}
	case *arguments.FloatType:
		row.Kind = "float"
		lo, hasLo := v.Min()
		hi, hasHi := v.Max()
		details = appendRange(details, strconv.FormatFloat(lo, 'g', -1, 64), hasLo, strconv.FormatFloat(hi, 'g', -1, 64), hasHi)
	case *arguments.IntType:
		row.Kind = "int"
		lo, hasLo := v.Min()
		hi, hasHi := v.Max()
		details = appendRange(details, strconv.FormatInt(lo, 10), hasLo, strconv.FormatInt(hi, 10), hasHi)
	case *arguments.BlockPosType:
		row.Kind = "pos"
		if v.MustBeLoaded() {
			details = append(details, "must be loaded")
		}
	case *arguments.LocationType:
		row.Kind = "location"
		if v.BlockCentered() {
			details = append(details, "block centered")
		}
	case *arguments.EntityType:
		row.Kind = "entity"
		if v.Single() {
			details = append(details, "single")
		}
		if v.PlayersOnly() {
			details = append(details, "players only")
		}
	default:
		row.Kind = "vanilla"
	}
	row.Details = strings.Join(details, "; ")
	return row
}

func appendRange(details []string, lo string, hasLo bool, hi string, hasHi bool) []string {
	switch {
	case hasLo && hasHi:
		return append(details, fmt.Sprintf("%s..%s", lo, hi))
	case hasLo:
		return append(details, ">= "+lo)
	}
	return details
}

func examplesCell(examples []string) string {
	if len(examples) > 3 {
		examples = append(examples[:3:3], "…")
	}
	return strings.Join(examples, " ")
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	customStyle = cellStyle.Foreground(lipgloss.Color("10"))
)

// TypesTable renders rows as a bordered terminal table.
func TypesTable(rows []TypeRow) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers("SUFFIX", "ORIGIN", "KIND", "MATCHING", "EXAMPLES", "DETAILS").
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0 && row >= 0 && row < len(rows) && rows[row].Origin == "custom":
				return customStyle
			default:
				return cellStyle
			}
		})
	for _, r := range rows {
		t.Row(r.Suffix, r.Origin, r.Kind, strconv.FormatBool(r.Matching), examplesCell(r.Examples), r.Details)
	}
	return t.String()
}

// TypesMarkdown renders rows as a markdown document.
func TypesMarkdown(app string, rows []TypeRow) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Argument types of `%s`\n\n", app)
	sb.WriteString("| Suffix | Origin | Kind | Matching | Examples | Details |\n")
	sb.WriteString("|---|---|---|---|---|---|\n")
	for _, r := range rows {
		examples := make([]string, 0, len(r.Examples))
		for _, e := range r.Examples {
			examples = append(examples, "`"+e+"`")
		}
		fmt.Fprintf(&sb, "| `%s` | %s | %s | %t | %s | %s |\n",
			r.Suffix, r.Origin, r.Kind, r.Matching, strings.Join(examples, " "), r.Details)
	}
	return sb.String()
}

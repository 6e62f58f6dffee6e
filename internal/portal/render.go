package portal

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/saajha/bloodlink/internal/models"
)

const timeLayout = "2006-01-02 15:04"

func heading(w io.Writer, title string) {
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, strings.Repeat("─", len([]rune(title))))
}

func renderLoading(w io.Writer) {
	fmt.Fprintln(w, "Loading...")
}

func newTable(w io.Writer, header ...string) *tabwriter.Writer {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	return tw
}

func row(tw *tabwriter.Writer, cols ...string) {
	fmt.Fprintln(tw, strings.Join(cols, "\t"))
}

func opt(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func when(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(timeLayout)
}

var roleLabels = map[string]string{
	models.RoleDonor:           "Blood Donor",
	models.RoleBeneficiary:     "Beneficiary",
	models.RoleMedicalFacility: "Medical Facility",
	models.RoleAdmin:           "Administrator",
}

// roleLabel falls back to the beneficiary badge, as the web portal does.
func roleLabel(role string) string {
	if l, ok := roleLabels[role]; ok {
		return l
	}
	return roleLabels[models.RoleBeneficiary]
}

func urgencyLabel(urgency string) string {
	switch urgency {
	case models.UrgencyCritical:
		return "CRITICAL"
	case models.UrgencyHigh:
		return "High"
	case models.UrgencyLow:
		return "Low"
	default:
		return "Medium"
	}
}

func listOrDash(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	return strings.Join(items, ", ")
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

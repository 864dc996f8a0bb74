// Package jobbar displays media scan progress at the bottom of the screen.
package jobbar

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/clipline/internal/catalog"
	"github.com/llehouerou/clipline/internal/ui/render"
	"github.com/llehouerou/clipline/internal/ui/styles"
)

// HeightPerJob is the height per job line.
const HeightPerJob = 1

// BorderHeight is the height of borders around the job bar.
const BorderHeight = 2

// Height returns the total height for the given number of active jobs.
func Height(activeCount int) int {
	if activeCount == 0 {
		return 0
	}
	return activeCount + BorderHeight
}

// Job represents a single long-running job.
type Job struct {
	ID      string
	Label   string
	Current int
	Total   int  // 0 if unknown
	Done    bool // true if job completed
}

// FromScan describes a catalog scan of root at progress p.
func FromScan(root string, p catalog.ScanProgress) Job {
	job := Job{
		ID:      "scan:" + root,
		Current: p.Current,
		Total:   p.Total,
	}
	name := filepath.Base(root)
	switch p.Phase {
	case catalog.PhaseScanning:
		job.Label = "Scanning " + name
		job.Total = 0
	case catalog.PhaseProbing:
		job.Label = "Probing " + name
		if p.CurrentFile != "" {
			job.Label += ": " + filepath.Base(p.CurrentFile)
		}
	case catalog.PhaseCleaning:
		job.Label = "Cleaning catalog"
		job.Current, job.Total = 0, 0
	default:
		job.Label = "Scan of " + name
		job.Done = true
	}
	return job
}

// HasProgress returns true if the job has known progress (Total > 0).
func (j Job) HasProgress() bool {
	return j.Total > 0
}

// State holds the jobs to display.
type State struct {
	Jobs []Job
}

// Set adds job or replaces the job with the same ID. Finished jobs are
// dropped.
func (s *State) Set(job Job) {
	for i := range s.Jobs {
		if s.Jobs[i].ID == job.ID {
			if job.Done {
				s.Jobs = append(s.Jobs[:i], s.Jobs[i+1:]...)
			} else {
				s.Jobs[i] = job
			}
			return
		}
	}
	if !job.Done {
		s.Jobs = append(s.Jobs, job)
	}
}

// HasActiveJobs returns true if there are any non-completed jobs.
func (s State) HasActiveJobs() bool {
	return s.ActiveCount() > 0
}

// ActiveCount returns the number of non-completed jobs.
func (s State) ActiveCount() int {
	count := 0
	for _, j := range s.Jobs {
		if !j.Done {
			count++
		}
	}
	return count
}

func labelStyle() lipgloss.Style {
	return styles.T().S().Title
}

func progressStyle() lipgloss.Style {
	return styles.T().S().Muted
}

func barFilledStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(styles.T().Primary)
}

func barEmptyStyle() lipgloss.Style {
	return styles.T().S().Subtle
}

// Render renders the job bar with the given width.
// Returns empty string if there are no active jobs.
func Render(state State, width int) string {
	if !state.HasActiveJobs() {
		return ""
	}

	innerWidth := width - 2 // account for borders

	// Render all active jobs
	var lines []string
	for i := range state.Jobs {
		if !state.Jobs[i].Done {
			lines = append(lines, renderJobLine(state.Jobs[i], innerWidth))
		}
	}

	content := strings.Join(lines, "\n")

	return styles.PanelStyle(false).
		Width(innerWidth).
		Render(content)
}

// renderJobLine renders a single job as one line, with a bar when the
// total is known.
func renderJobLine(job Job, width int) string {
	if job.HasProgress() {
		return renderWithProgressBar(job, width)
	}
	return renderWithCount(job, width)
}

// renderWithProgressBar renders: "◦ Label  [━━━━────] 42/100"
func renderWithProgressBar(job Job, width int) string {
	count := fmt.Sprintf("%d/%d", job.Current, job.Total)

	const (
		indicator  = 2 // "◦ "
		minBar     = 10
		minLabel   = 10
		decoration = 5 // "  [" + "] "
	)
	fixed := indicator + decoration + lipgloss.Width(count)
	labelWidth := max(width-fixed-minBar, minLabel)
	barWidth := max(width-labelWidth-fixed, minBar)

	ratio := min(float64(job.Current)/float64(job.Total), 1)
	filled := int(float64(barWidth) * ratio)

	var b strings.Builder
	b.WriteString(barFilledStyle().Render("◦"))
	b.WriteString(" ")
	b.WriteString(labelStyle().Render(render.TruncateAndPad(job.Label, labelWidth)))
	b.WriteString("  [")
	b.WriteString(barFilledStyle().Render(strings.Repeat("━", filled)))
	b.WriteString(barEmptyStyle().Render(strings.Repeat("─", barWidth-filled)))
	b.WriteString("] ")
	b.WriteString(progressStyle().Render(count))
	return b.String()
}

// renderWithCount renders: "◦ Label                    123 files found"
func renderWithCount(job Job, width int) string {
	var count string
	if job.Current > 0 {
		count = fmt.Sprintf("%d files found", job.Current)
	}
	labelWidth := max(width-4-lipgloss.Width(count), 10)

	var b strings.Builder
	b.WriteString(barFilledStyle().Render("◦"))
	b.WriteString(" ")
	b.WriteString(labelStyle().Render(render.TruncateAndPad(job.Label, labelWidth)))
	if count != "" {
		b.WriteString("  ")
		b.WriteString(progressStyle().Render(count))
	}
	return b.String()
}

package controllers

import (
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/rios0rios0/supermanifest/internal/domain/entities"
)

func renderRules(w io.Writer, set *entities.RuleSet) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"SOURCE", "TOOL", "DESTINATION", "EXCLUDE"})
	for _, rule := range set.Rules() {
		t.AppendRow(table.Row{
			rule.Source(), rule.ToolKind(), rule.Destination(),
			strings.Join(rule.ExcludedRefPatterns(), ","),
		})
	}
	t.Render()
}

func renderReports(w io.Writer, reports []entities.TriggerReport) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"DECISION", "RULE", "TARGET", "OVERLAPS WITH"})
	for _, report := range reports {
		overlap := ""
		if report.OverlapsWith != nil {
			overlap = report.OverlapsWith.String()
		}
		t.AppendRow(table.Row{
			report.Decision, report.Trigger.Rule, report.Trigger.Key(), overlap,
		})
	}
	t.Render()
}

func renderResult(w io.Writer, result *entities.SyncResult) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("%s:%s %s (%s)", result.DestRepo, result.TargetRef, result.Commit, result.Outcome)
	t.AppendHeader(table.Row{"PATH", "COMMIT", "BRANCH", "URL"})
	for _, entry := range result.Submodules {
		t.AppendRow(table.Row{entry.Path, entry.Commit, entry.Branch, entry.URL})
	}
	if len(result.Skipped) > 0 {
		t.AppendSeparator()
		for _, skipped := range result.Skipped {
			t.AppendRow(table.Row{skipped.Project.Path, "skipped", skipped.Project.Ref(), skipped.Reason})
		}
	}
	t.Render()
}

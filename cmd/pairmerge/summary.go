package main

import (
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"pairmerge/internal/merge"
)

func renderSummary(summary merge.Summary, firstLabel, secondLabel string) string {
	headers := []string{"#", firstLabel, secondLabel, "State", "Output", "Size", "Detail"}
	aligns := []columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft}

	rows := make([][]string, 0, len(summary.Results))
	for _, res := range summary.Results {
		output, size := "", ""
		if res.State == merge.StateWritten {
			output = filepath.Base(res.Output)
			size = humanize.Bytes(uint64(res.Bytes))
		}
		rows = append(rows, []string{
			strconv.Itoa(res.Pair.Index),
			res.Pair.First.Name,
			res.Pair.Second.Name,
			string(res.State),
			output,
			size,
			resultDetail(res),
		})
	}

	var b strings.Builder
	if len(rows) > 0 {
		b.WriteString(renderTable(headers, rows, aligns))
		b.WriteByte('\n')
	}
	b.WriteString(summaryTotals(summary))
	b.WriteByte('\n')
	return b.String()
}

func resultDetail(res merge.Result) string {
	switch res.State {
	case merge.StateFailed:
		if res.Err == nil {
			return res.Kind()
		}
		return res.Kind() + ": " + rootCause(res.Err)
	case merge.StateWritten:
		parts := []string{humanizeDuration(res.Duration)}
		if res.FirstGainDB != 0 || res.SecondGainDB != 0 {
			parts = append(parts, fmt.Sprintf("gain %+.2f/%+.2f dB", res.FirstGainDB, res.SecondGainDB))
		}
		if n := len(res.NormalizeErrs); n > 0 {
			parts = append(parts, fmt.Sprintf("%d clip(s) not normalized", n))
		}
		return strings.Join(parts, ", ")
	default:
		return ""
	}
}

// rootCause drops the StageError prefix, which the table already shows as
// separate columns.
func rootCause(err error) string {
	if stageErr, ok := err.(*merge.StageError); ok && stageErr.Err != nil {
		return stageErr.Err.Error()
	}
	return err.Error()
}

func summaryTotals(summary merge.Summary) string {
	total := len(summary.Results)
	line := fmt.Sprintf("Merged %d of %d pairs (%d failed, %d skipped), %s written in %s",
		summary.Written(), total, summary.Failed(), summary.Skipped(),
		humanize.Bytes(uint64(summary.BytesWritten())), humanizeDuration(summary.Elapsed))

	if failures := summary.FailuresByKind(); len(failures) > 0 {
		kinds := make([]string, 0, len(failures))
		for kind := range failures {
			kinds = append(kinds, kind)
		}
		sort.Strings(kinds)
		parts := make([]string, 0, len(kinds))
		for _, kind := range kinds {
			parts = append(parts, fmt.Sprintf("%s=%d", kind, failures[kind]))
		}
		line += "\nFailures by kind: " + strings.Join(parts, ", ")
	}
	if summary.Mismatch.Truncated() {
		line += fmt.Sprintf("\nIgnored %d unpaired clip(s) (%d vs %d files)",
			summary.Mismatch.Dropped(), summary.Mismatch.First, summary.Mismatch.Second)
	}
	return line
}

func humanizeDuration(d time.Duration) string {
	switch {
	case d <= 0:
		return "0s"
	case d < time.Second:
		return d.Round(time.Millisecond).String()
	default:
		return d.Round(100 * time.Millisecond).String()
	}
}

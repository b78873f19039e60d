package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"
)

func WriteTable(r *Report, w io.Writer) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	mode := "sequential"
	if r.Request.Parallel {
		mode = fmt.Sprintf("parallel x%d", r.Request.Concurrency)
	}
	fmt.Fprintf(tw, "\n=== Cross-backend Benchmark ===\n")
	fmt.Fprintf(tw, "source: %s  query: %s  mode: %s  sampler: %s\n\n",
		r.Request.Dialect, r.Request.Query, mode, r.Meta.SamplerMode)

	if r.Error != "" {
		fmt.Fprintf(tw, "%s\n", r.Error)
		tw.Flush()
		return
	}

	writeMetricsTable(tw, r)
	if r.Request.Parallel {
		writeLatencyTable(tw, r)
	}
	writeQueryTable(tw, r)

	tw.Flush()
}

func writeMetricsTable(tw *tabwriter.Writer, r *Report) {
	header := []string{"Backend", "Time (s)", "CPU Δ (%)", "Mem Δ", "OK/Total", "Hits", "Status"}
	writeHeader(tw, header)

	for _, b := range r.Backends {
		if b.Error != "" {
			row := []string{b.Backend, "-", "-", "-", fmt.Sprintf("%d/%d", b.Succeeded, b.Attempts), "-", b.Error}
			fmt.Fprintln(tw, strings.Join(row, "\t"))
			continue
		}
		row := []string{
			b.Backend,
			fmt.Sprintf("%.4f", b.ExecutionTime),
			fmt.Sprintf("%.2f", b.CPUUsage),
			fmtBytes(b.MemoryUsage),
			fmt.Sprintf("%d/%d", b.Succeeded, b.Attempts),
			fmt.Sprintf("%d", b.Hits),
			"OK",
		}
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}

	fmt.Fprintln(tw)
}

func writeLatencyTable(tw *tabwriter.Writer, r *Report) {
	fmt.Fprintf(tw, "Latency (successful attempts)\n\n")

	header := []string{"Backend", "Min", "p50", "p90", "p95", "p99", "Max", "Mean", "Stddev", "Samples"}
	writeHeader(tw, header)

	for _, b := range r.Backends {
		if b.Latency == nil {
			continue
		}
		s := b.Latency
		row := []string{
			b.Backend,
			fmtDuration(s.Min),
			fmtDuration(s.P(50)),
			fmtDuration(s.P(90)),
			fmtDuration(s.P(95)),
			fmtDuration(s.P(99)),
			fmtDuration(s.Max),
			fmtDuration(s.Mean),
			fmtDuration(s.Stddev),
			fmt.Sprintf("%d", s.SampleCount),
		}
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}

	fmt.Fprintln(tw)
}

func writeQueryTable(tw *tabwriter.Writer, r *Report) {
	fmt.Fprintf(tw, "Translated queries\n\n")
	writeHeader(tw, []string{"Backend", "Query"})
	for _, b := range r.Backends {
		fmt.Fprintf(tw, "%s\t%s\n", b.Backend, b.Query)
	}
	fmt.Fprintln(tw)
}

func writeHeader(tw *tabwriter.Writer, header []string) {
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	sep := make([]string, len(header))
	for i := range sep {
		sep[i] = "---"
	}
	fmt.Fprintln(tw, strings.Join(sep, "\t"))
}

func fmtDuration(d time.Duration) string {
	if d == 0 {
		return "-"
	}
	if d < time.Millisecond {
		return fmt.Sprintf("%.1fµs", float64(d.Nanoseconds())/1000)
	}
	if d < time.Second {
		return fmt.Sprintf("%.2fms", float64(d.Microseconds())/1000)
	}
	return fmt.Sprintf("%.2fs", d.Seconds())
}

func fmtBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

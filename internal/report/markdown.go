package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nao1215/procgen/internal/model"
)

// MarkdownWriter outputs a Markdown summary of a generation run.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the run summary in Markdown format.
func (w *MarkdownWriter) Write(run *model.Run) (int, error) {
	if run == nil || run.Config == nil {
		return 0, ErrNoConfig
	}

	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, run)
	w.writeDomains(md, run)
	w.writeStorage(md, run)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the run overview table.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, run *model.Run) {
	md.H1("procgen Summary")
	md.PlainText("")

	rows := [][]string{
		{"Input", "`" + run.InputPath + "`"},
		{"Output", "`" + run.OutputPath + "`"},
		{"Destination", "`" + run.Destination.String() + "`"},
		{"URLs Discovered", strconv.Itoa(len(run.Discovered))},
		{"URLs Selected", strconv.Itoa(len(run.Selected))},
		{"Generated At", run.StartedAt.Format("2006-01-02 15:04:05 MST")},
	}
	if run.ID != "" {
		rows = append(rows, []string{"Run ID", "`" + run.ID + "`"})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")

	if len(run.Selected) < len(run.Discovered) {
		md.Note(fmt.Sprintf("Randomly sampled %d of %d discovered subscriptions.",
			len(run.Selected), len(run.Discovered)))
		md.PlainText("")
	}
}

// writeDomains lists the generated domain entries.
func (w *MarkdownWriter) writeDomains(md *markdown.Markdown, run *model.Run) {
	md.H2("Domains")
	md.PlainText("")

	rows := make([][]string, 0, len(run.Config.Domains))
	for _, d := range run.Config.Domains {
		sub := ""
		if len(d.Sub) > 0 {
			sub = "`" + d.Sub[0] + "`"
		}
		rows = append(rows, []string{d.Name, sub, strconv.FormatBool(d.Enable)})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Name", "Subscription", "Enabled"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeStorage writes the target to gist file bindings.
func (w *MarkdownWriter) writeStorage(md *markdown.Markdown, run *model.Run) {
	md.H2("Storage")
	md.PlainText("")

	group, ok := run.Config.Groups.Get(model.MainGroup)
	if !ok {
		md.PlainText("No storage targets configured.")
		md.PlainText("")
		return
	}

	title := cases.Title(language.English)
	targets := []struct{ name, itemID string }{
		{"clash", group.Targets.Clash},
		{"singbox", group.Targets.Singbox},
		{"v2ray", group.Targets.V2ray},
	}

	rows := make([][]string, 0, len(targets))
	for _, t := range targets {
		item, ok := run.Config.Storage.Items.Get(t.itemID)
		if !ok {
			continue
		}
		rows = append(rows, []string{
			title.String(t.name),
			"`" + t.itemID + "`",
			item.Username + "/" + item.GistID,
			"`" + item.Filename + "`",
		})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Target", "Item", "Gist", "File"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Storage engine: %s*", model.StorageEngineGist)
}

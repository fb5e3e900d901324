// Package templates holds the HTML components of the web UI.
package templates

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/JonMunkholm/consumo/internal/core"
	"github.com/a-h/templ"
)

const styles = `body{font-family:system-ui,sans-serif;max-width:60rem;margin:2rem auto;padding:0 1rem;color:#1f2937}
table{border-collapse:collapse;width:100%}th,td{border:1px solid #d1d5db;padding:.35rem .6rem;text-align:left}
td.num{text-align:right;font-variant-numeric:tabular-nums}.alert{border:1px solid #fca5a5;background:#fef2f2;padding:1rem;border-radius:.4rem}
.muted{color:#6b7280;font-size:.9rem}label{display:block;margin:.6rem 0 .2rem}`

// write renders a sequence of already-escaped HTML fragments.
func write(w io.Writer, parts ...string) error {
	for _, p := range parts {
		if _, err := io.WriteString(w, p); err != nil {
			return err
		}
	}
	return nil
}

func esc(s string) string {
	return templ.EscapeString(s)
}

// Page wraps body in the common document shell.
func Page(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := write(w,
			`<!DOCTYPE html><html lang="es"><head><meta charset="utf-8"><title>`, esc(title),
			`</title><style>`, styles, `</style></head><body><h1>`, esc(title), `</h1>`,
		); err != nil {
			return err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		return write(w, `</body></html>`)
	})
}

// UploadForm is the form that posts the three workbooks for a run.
func UploadForm(threshold int) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return write(w,
			`<form method="post" action="/api/consumption" enctype="multipart/form-data">`,
			`<label for="recipes">Recipes workbook</label><input id="recipes" type="file" name="recipes" accept=".xlsx,.xlsm,.csv" required>`,
			`<label for="sales">Sales workbook</label><input id="sales" type="file" name="sales" accept=".xlsx,.xlsm,.csv" required>`,
			`<label for="promotions">Promotions workbook</label><input id="promotions" type="file" name="promotions" accept=".xlsx,.xlsm,.csv" required>`,
			`<label for="threshold">Match threshold (0-100)</label><input id="threshold" type="number" name="threshold" min="0" max="100" value="`,
			strconv.Itoa(threshold), `">`,
			`<label for="format">Output</label><select id="format" name="format">`,
			`<option value="xlsx">Excel (.xlsx)</option><option value="csv">CSV</option>`,
			`<option value="html">Show on page</option><option value="json">JSON</option></select>`,
			`<p><button type="submit">Compute consumption</button></p></form>`,
		)
	})
}

// Index is the landing page.
func Index(threshold int) templ.Component {
	return Page("Consumo de insumos", UploadForm(threshold))
}

// ReportTable renders the consumption rows.
func ReportTable(rows []core.ReportRow) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if len(rows) == 0 {
			return write(w, `<p class="muted">No ingredient consumption was computed.</p>`)
		}
		if err := write(w, `<table><thead><tr>`); err != nil {
			return err
		}
		for _, col := range core.ReportColumns {
			if err := write(w, `<th>`, esc(col), `</th>`); err != nil {
				return err
			}
		}
		if err := write(w, `</tr></thead><tbody>`); err != nil {
			return err
		}
		for _, r := range rows {
			if err := write(w,
				`<tr><td>`, esc(r.Ingredient),
				`</td><td class="num">`, esc(r.Quantity.String()),
				`</td><td>`, esc(r.Unit), `</td></tr>`,
			); err != nil {
				return err
			}
		}
		return write(w, `</tbody></table>`)
	})
}

// Warnings lists skipped or partly applied rows.
func Warnings(title string, warnings []core.RecordWarning) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if len(warnings) == 0 {
			return nil
		}
		if err := write(w, `<h3>`, esc(title), ` (`, strconv.Itoa(len(warnings)), `)</h3><ul class="muted">`); err != nil {
			return err
		}
		for _, wn := range warnings {
			line := ""
			if wn.Line > 0 {
				line = fmt.Sprintf("row %d: ", wn.Line)
			}
			if err := write(w, `<li>`, esc(line), esc(wn.Item), ` - `, esc(wn.Message), `</li>`); err != nil {
				return err
			}
		}
		return write(w, `</ul>`)
	})
}

// Summary shows the run counters.
func Summary(res *core.RunResult) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		st := res.Stats
		return write(w, `<p class="muted">`,
			fmt.Sprintf("Run %s at threshold %d: %d sales records, %d via promotions, %d direct, %d unmatched, %d invalid quantities. %d menu items, %d promotions.",
				esc(res.RunID), res.Threshold, st.Records, st.AppliedPromotion, st.AppliedDirect,
				st.Unmatched, st.InvalidQuantity, res.Items, res.Promotions),
			`</p>`)
	})
}

// Result is the page shown for format=html runs.
func Result(res *core.RunResult) templ.Component {
	body := templ.Join(
		Summary(res),
		ReportTable(res.Rows),
		Warnings("Sales warnings", res.Warnings),
		Warnings("Recipe sheet warnings", res.CatalogWarnings),
		templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
			return write(w, `<p><a href="/">New run</a></p>`)
		}),
	)
	return Page("Consumo Insumos", body)
}

// ErrorAlert renders a user-facing error with its support code.
func ErrorAlert(message, action, code string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := write(w, `<div class="alert" role="alert"><strong>`, esc(message), `</strong>`); err != nil {
			return err
		}
		if action != "" {
			if err := write(w, `<p>`, esc(action), `</p>`); err != nil {
				return err
			}
		}
		return write(w, `<p class="muted">Code: `, esc(code), `</p><p><a href="/">Back</a></p></div>`)
	})
}

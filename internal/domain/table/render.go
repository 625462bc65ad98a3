package table

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"gopkg.in/yaml.v3"

	"tourdesk/internal/domain/record"
)

const (
	MsgNoData  = "No data found."
	MsgLoading = "Loading..."

	ColActions = "actions"
)

type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatCSV   Format = "csv"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatTable, FormatJSON, FormatYAML, FormatCSV:
		return f, nil
	case "":
		return FormatTable, nil
	default:
		return "", fmt.Errorf("неизвестный формат вывода: %s", s)
	}
}

var headerLabels = map[string]string{
	"createdAt": "date of create",
	"peopleNum": "num of people",
	"tourId":    "tour",
}

// Header возвращает подпись колонки.
func Header(col string) string {
	if label, ok := headerLabels[col]; ok {
		return label
	}
	return col
}

var badgeColumns = map[string]bool{
	"status":     true,
	"bestOffer":  true,
	"experience": true,
	"adventures": true,
}

// Render выводит таблицу в заданном формате.
func (t *Table) Render(w io.Writer, f Format) error {
	rows := t.Rows()

	if t.Loading() {
		_, err := fmt.Fprintln(w, MsgLoading)
		return err
	}
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, MsgNoData)
		return err
	}

	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	case FormatYAML:
		return renderYAML(w, rows)
	case FormatCSV:
		return t.renderCSV(w, rows)
	default:
		return t.renderTable(w, rows)
	}
}

func (t *Table) renderTable(w io.Writer, rows []*record.Record) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	headers := make([]string, 0, len(t.cfg.Columns)+1)
	headers = append(headers, "")
	for _, col := range t.cfg.Columns {
		headers = append(headers, strings.ToUpper(Header(col)))
	}
	fmt.Fprintln(tw, strings.Join(headers, "\t"))

	for _, r := range rows {
		cells := make([]string, 0, len(t.cfg.Columns)+1)

		marker := ""
		if id, err := r.ID(); err == nil && t.Highlighted(id) {
			marker = "»"
		}
		cells = append(cells, marker)

		for _, col := range t.cfg.Columns {
			cells = append(cells, t.cell(r, col))
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}

	return tw.Flush()
}

func (t *Table) renderCSV(w io.Writer, rows []*record.Record) error {
	cw := csv.NewWriter(w)

	cols := make([]string, 0, len(t.cfg.Columns)+1)
	cols = append(cols, record.FieldID)
	for _, col := range t.cfg.Columns {
		if col != ColActions && col != record.FieldID {
			cols = append(cols, col)
		}
	}

	if err := cw.Write(cols); err != nil {
		return err
	}
	for _, r := range rows {
		line := make([]string, 0, len(cols))
		for _, col := range cols {
			v, _ := r.Get(col)
			line = append(line, record.Text(v))
		}
		if err := cw.Write(line); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func (t *Table) cell(r *record.Record, col string) string {
	if col == ColActions {
		return t.actions(r)
	}

	v, _ := r.Get(col)
	text := record.Text(v)

	switch {
	case col == "createdAt" || col == "created_at":
		if s, ok := v.(string); ok {
			if ts, err := record.ParseTime(s); err == nil {
				return ts.In(time.Local).Format("2006-01-02")
			}
		}
		return text
	case col == "tourId":
		return "see tour"
	case badgeColumns[col]:
		if text == "active" || text == "true" {
			return "● " + text
		}
		return "○ " + text
	default:
		return text
	}
}

func (t *Table) actions(r *record.Record) string {
	var acts []string
	if t.cfg.Edit {
		if t.cfg.Save {
			acts = append(acts, "edit")
		} else {
			acts = append(acts, "view")
		}
	}
	if t.cfg.Deletable {
		acts = append(acts, "delete")
	}
	if t.SelectMode() {
		mark := "[ ]"
		if id, err := r.ID(); err == nil && t.isSelected(id) {
			mark = "[x]"
		}
		acts = append(acts, mark)
	}
	return strings.Join(acts, ",")
}

func (t *Table) isSelected(id int) bool {
	for _, sid := range t.Selected() {
		if sid == id {
			return true
		}
	}
	return false
}

func renderYAML(w io.Writer, rows []*record.Record) error {
	doc := &yaml.Node{Kind: yaml.SequenceNode}
	for _, r := range rows {
		node, err := yamlRecord(r)
		if err != nil {
			return err
		}
		doc.Content = append(doc.Content, node)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}

// yamlRecord строит узел с тем же порядком полей, что и в записи.
func yamlRecord(r *record.Record) (*yaml.Node, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, key := range r.Keys() {
		v, _ := r.Get(key)

		val := &yaml.Node{}
		if err := val.Encode(yamlValue(v)); err != nil {
			return nil, fmt.Errorf("поле %s: %w", key, err)
		}

		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: key},
			val,
		)
	}
	return node, nil
}

func yamlValue(v any) any {
	switch val := v.(type) {
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return i
		}
		if f, err := val.Float64(); err == nil {
			return f
		}
		return val.String()
	case []any:
		out := make([]any, len(val))
		for i, el := range val {
			out[i] = yamlValue(el)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, el := range val {
			out[k] = yamlValue(el)
		}
		return out
	case *record.File, []record.GalleryItem:
		return record.Text(val)
	default:
		return v
	}
}

package main

import (
	"errors"
	"io"

	"github.com/jedib0t/go-pretty/table"
	"github.com/jedib0t/go-pretty/text"
	"github.com/poiesic/uidmap/config"
	"github.com/poiesic/uidmap/lookup"
)

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	// Don't uppercase the header values.
	t.Style().Format.Header = text.FormatDefault
	return t
}

func writeLookupTable(w io.Writer, resolver *lookup.Resolver, results []*lookup.Result) {
	t := newTable(w)
	t.AppendHeader(table.Row{"query", "status", "uid", "phone"})
	for _, res := range results {
		if res.Err != nil {
			t.AppendRow(table.Row{res.Query, resultStatus(res), "", ""})
			continue
		}
		for _, m := range res.Mappings {
			t.AppendRow(table.Row{res.Query, res.Kind, m.PrimaryKey, resolver.FormatPhone(m.AttributeValue)})
		}
	}
	t.Render()
}

func writeStatusTable(w io.Writer, results []*lookup.Result) {
	t := newTable(w)
	t.AppendHeader(table.Row{"id", "status", "exists"})
	for _, res := range results {
		exists := res.Err == nil && res.Found()
		t.AppendRow(table.Row{res.Query, existsLabel(res), exists})
	}
	t.Render()
}

func writeStatsTable(w io.Writer, cfg *config.Config, count int) {
	t := newTable(w)
	t.AppendHeader(table.Row{"store", "backend", "mappings"})
	t.AppendRow(table.Row{cfg.StorePath, cfg.Backend, count})
	t.Render()
}

func resultStatus(res *lookup.Result) string {
	switch {
	case res.Err == nil:
		return res.Kind.String()
	case errors.Is(res.Err, lookup.ErrNotFound):
		return "not_found"
	case errors.Is(res.Err, lookup.ErrInvalidID):
		return "invalid_id"
	default:
		return "error: " + res.Err.Error()
	}
}

func existsLabel(res *lookup.Result) string {
	switch {
	case res.Err == nil && res.Found():
		return "found"
	case res.Err == nil || errors.Is(res.Err, lookup.ErrNotFound):
		return "not_found"
	default:
		return resultStatus(res)
	}
}

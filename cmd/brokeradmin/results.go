package main

import (
	"fmt"
	"net/url"
	"path"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/ottermq/brokeradmin/internal/core/models"
	"github.com/ottermq/brokeradmin/internal/output"
	"github.com/ottermq/brokeradmin/pkg/admin"
)

// resultOf summarises a management response. Nil responses were never sent.
func resultOf(res *admin.Response) (models.OperationResult, bool) {
	if res == nil {
		return models.OperationResult{}, false
	}
	r := models.OperationResult{
		Target: targetOf(res),
		Status: res.StatusCode,
		OK:     res.OK(),
	}
	if !r.OK {
		r.Detail = res.Text()
	}
	return r, true
}

// targetOf names the object a response is about: the last path segment.
func targetOf(res *admin.Response) string {
	u, err := url.Parse(res.URL)
	if err != nil {
		return res.URL
	}
	return fmt.Sprintf("%s %s", res.Method, path.Base(u.Path))
}

func printResults(p *output.Printer, responses []*admin.Response) (failed int, err error) {
	results := make([]models.OperationResult, 0, len(responses))
	rows := make([]table.Row, 0, len(responses))
	for _, res := range responses {
		r, ok := resultOf(res)
		if !ok {
			continue
		}
		if !r.OK {
			failed++
		}
		results = append(results, r)
		rows = append(rows, table.Row{r.Target, r.Status, r.OK, r.Detail})
	}
	err = p.Print(results, table.Row{"Target", "Status", "OK", "Detail"}, rows)
	return failed, err
}

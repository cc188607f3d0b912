package production

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/comalice/transitionx"
)

// Row is one move of an exported action table.
type Row struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Kind      string `json:"kind"`
	Label     string `json:"label"`
	Frequency int    `json:"frequency"`
}

// Rows lists the moves of sys in ID order.
func Rows[S transitionx.State, G any](sys *transitionx.System[S, G]) []Row {
	table := sys.Table()
	kinds := sys.KindNames()
	rows := make([]Row, 0, table.Len())
	for _, m := range table.Moves() {
		rows = append(rows, Row{
			ID:        m.ID,
			Name:      sys.DescribeMove(m.ID),
			Kind:      kinds[m.Kind],
			Label:     table.LabelText(m),
			Frequency: table.Frequency(m.ID),
		})
	}
	return rows
}

// ExportText writes rows as aligned columns.
func ExportText(w io.Writer, rows []Row) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tMOVE\tFREQ")
	for _, r := range rows {
		fmt.Fprintf(tw, "%d\t%s\t%d\n", r.ID, r.Name, r.Frequency)
	}
	return tw.Flush()
}

// ExportJSON serializes rows to indented JSON.
func ExportJSON(rows []Row) ([]byte, error) {
	if rows == nil {
		rows = []Row{}
	}
	return json.MarshalIndent(rows, "", "  ")
}

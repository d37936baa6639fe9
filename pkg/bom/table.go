package bom

import (
	"fmt"
	"io"
)

// Table writes rows as an aligned text table with a header line.
func Table(w io.Writer, title string, rows []Row) error {
	valueW, fpW := len("Value"), len("Footprint")
	for _, r := range rows {
		valueW = max(valueW, len(r.Value))
		fpW = max(fpW, len(r.Footprint))
	}

	if _, err := fmt.Fprintf(w, "%s (%d rows)\n", title, len(rows)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "  %4s  %-*s  %-*s  %s\n", "Qty", valueW, "Value", fpW, "Footprint", "References"); err != nil {
		return err
	}
	for _, r := range rows {
		if _, err := fmt.Fprintf(w, "  %4d  %-*s  %-*s  %s\n", r.Quantity, valueW, r.Value, fpW, r.Footprint, r.RefList()); err != nil {
			return err
		}
	}
	return nil
}

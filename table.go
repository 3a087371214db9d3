// PowerSNMP - SNMP library for Go
// Автор: Волков Олег, ООО "Пауэр Си"
// Author: Volkov Oleg, PowerC LLC
// License: MIT (commercial version with support available)
// Лицензия: MIT (доступна коммерческая версия с поддержкой)
package PowerSNMP

import (
	"context"
	"fmt"
	"slices"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// tableEntryArc is the conceptual row arc: cells live at table.1.column.index.
const tableEntryArc = 1

// splitCell returns the column and row index of a table cell OID.
func splitCell(table, oid OID) (column int, index OID, err error) {
	if len(oid) < len(table) || !OID(oid[:len(table)]).Equal(table) {
		return 0, nil, fmt.Errorf("%w: %s is outside table %s", ErrTableBoundary, oid, table)
	}
	rest := oid[len(table):]
	if len(rest) < 3 || rest[0] != tableEntryArc {
		return 0, nil, fmt.Errorf("%w: %s is not a cell of table %s", ErrTableBoundary, oid, table)
	}
	return rest[1], rest[2:].Clone(), nil
}

// WalkTable walks a conceptual table and returns only its cells
// (table.1.column.index). Other OIDs in the subtree are skipped, or fail the
// walk with ErrTableBoundary under WithStrictTable.
func (c *Client) WalkTable(ctx context.Context, target Target, table OID, opts ...WalkOption) ([]VarBind, error) {
	return c.walkCells(ctx, target, table, table, opts)
}

// walkCells walks root, a subtree of table, keeping the cells of table.
func (c *Client) walkCells(ctx context.Context, target Target, table, root OID, opts []WalkOption) ([]VarBind, error) {
	cfg := newWalkConfig(opts)
	var out []VarBind
	err := c.walk(ctx, target, root, cfg, func(vb VarBind) error {
		if _, _, err := splitCell(table, vb.OID); err != nil {
			if cfg.strictTable {
				return err
			}
			c.logger.Debug("skipping non-cell OID", zap.Stringer("oid", vb.OID), zap.Stringer("table", table))
			return nil
		}
		out = append(out, vb)
		return nil
	})
	if err != nil {
		if cfg.partial {
			return out, err
		}
		return nil, err
	}
	return out, nil
}

// Table is a conceptual table reassembled from a column-major walk.
//
// Rows are keyed by the dotted row index ("1", "10.0.0.1", ...);
// Order lists those keys sorted as OIDs, Columns the column numbers seen.
type Table struct {
	OID     OID
	Columns []int
	Rows    map[string]map[int]SNMPVar
	Order   []string
}

// Cell returns the value at row index and column.
func (t *Table) Cell(index string, column int) (SNMPVar, bool) {
	row, ok := t.Rows[index]
	if !ok {
		return SNMPVar{}, false
	}
	v, ok := row[column]
	return v, ok
}

// GetTable walks table and groups the cells by row index.
//
// Example (ifTable):
//
//	tbl, err := client.GetTable(ctx, target, MustParseOID("1.3.6.1.2.1.2.2"))
//	for _, idx := range tbl.Order {
//	    descr, _ := tbl.Cell(idx, 2)
//	    fmt.Println(idx, descr)
//	}
func (c *Client) GetTable(ctx context.Context, target Target, table OID, opts ...WalkOption) (*Table, error) {
	vbs, err := c.WalkTable(ctx, target, table, opts...)
	if err != nil && vbs == nil {
		return nil, err
	}
	tbl := &Table{
		OID:  table.Clone(),
		Rows: make(map[string]map[int]SNMPVar),
	}
	indexes := make(map[string]OID)
	for _, vb := range vbs {
		column, index, serr := splitCell(table, vb.OID)
		if serr != nil {
			continue
		}
		key := index.String()
		row, ok := tbl.Rows[key]
		if !ok {
			row = make(map[int]SNMPVar)
			tbl.Rows[key] = row
			indexes[key] = index
		}
		if !slices.Contains(tbl.Columns, column) {
			tbl.Columns = append(tbl.Columns, column)
		}
		row[column] = vb.Value
	}
	slices.Sort(tbl.Columns)
	for key := range indexes {
		tbl.Order = append(tbl.Order, key)
	}
	slices.SortFunc(tbl.Order, func(a, b string) int {
		return CompareOIDs(indexes[a], indexes[b])
	})
	return tbl, err
}

// GetColumn walks one column (table.1.column) of a table with the same cell
// check and options as WalkTable.
func (c *Client) GetColumn(ctx context.Context, target Target, table OID, column int, opts ...WalkOption) ([]VarBind, error) {
	if column < 1 {
		return nil, &ArgumentError{Field: "column", Reason: fmt.Sprintf("%d, columns start at 1", column)}
	}
	return c.walkCells(ctx, target, table, table.Append(tableEntryArc, column), opts)
}

// WalkResult is the outcome of one target in WalkTargets.
type WalkResult struct {
	Target   Target
	VarBinds []VarBind
	Err      error
}

// WalkTargets walks root on every target with at most concurrency walks in
// flight (0 means one per target). A failing target does not stop the
// others; the returned error combines all per-target errors.
func (c *Client) WalkTargets(ctx context.Context, targets []Target, root OID, concurrency int, opts ...WalkOption) ([]WalkResult, error) {
	results := make([]WalkResult, len(targets))
	var g errgroup.Group
	if concurrency > 0 {
		g.SetLimit(concurrency)
	}
	for i, t := range targets {
		g.Go(func() error {
			vbs, err := c.Walk(ctx, t, root, opts...)
			results[i] = WalkResult{Target: t, VarBinds: vbs, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	var errs error
	for _, r := range results {
		if r.Err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", r.Target.Address, r.Err))
		}
	}
	return results, errs
}

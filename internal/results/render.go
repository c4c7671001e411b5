package results

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/AdvikSudM12/scan-key/internal/types"
)

// RenderSummary prints a per-provider summary table of the ledgers.
// Keys are always masked.
func (s *Store) RenderSummary(w io.Writer) error {
	t := tablewriter.NewTable(w)
	t.Header("Provider", "Live keys", "Tested", "Last scan")
	for _, p := range types.AllProviders() {
		l := s.Load(p)
		if err := t.Append([]string{
			p.String(),
			fmt.Sprintf("%d", len(l.ValidKeys)),
			fmt.Sprintf("%d", l.ScanInfo.TotalTested),
			l.ScanInfo.Timestamp,
		}); err != nil {
			return err
		}
	}
	return t.Render()
}

// RenderFindings prints the findings of one provider's ledger with
// masked keys.
func (s *Store) RenderFindings(w io.Writer, p types.Provider) error {
	l := s.Load(p)
	if len(l.ValidKeys) == 0 {
		fmt.Fprintf(w, "no live keys recorded for %s\n", p)
		return nil
	}
	t := tablewriter.NewTable(w)
	t.Header("Key", "Repository", "File", "Found at")
	for _, f := range l.ValidKeys {
		if err := t.Append([]string{
			types.MaskKey(f.Key),
			f.Repository,
			f.FilePath,
			f.FoundAt,
		}); err != nil {
			return err
		}
	}
	return t.Render()
}

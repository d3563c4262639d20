package sink

import (
	"fmt"

	"github.com/salescope/salescope-cli/internal/aggregate"
	"github.com/salescope/salescope-cli/internal/dataset"
	"github.com/salescope/salescope-cli/internal/report"
	"github.com/salescope/salescope-cli/internal/stats"
	"github.com/salescope/salescope-cli/internal/utils"
)

// ResultsDocument is the machine-readable artifact of a run: summary tables
// and statistics as structured data rather than console text.
type ResultsDocument struct {
	Summary   *report.Summary       `json:"summary"`
	Quality   QualityDocument       `json:"data_quality"`
	Summaries *aggregate.Summaries  `json:"summaries"`
	Stats     *stats.Results        `json:"statistics"`
	Describe  []stats.ColumnDescribe `json:"column_statistics"`
}

// QualityDocument reports the coercion findings of the load.
type QualityDocument struct {
	Rows         int            `json:"rows"`
	InvalidCells map[string]int `json:"invalid_cells,omitempty"`
	IgnoredCols  []string       `json:"ignored_columns,omitempty"`
}

// WriteResultsJSON writes the structured results artifact atomically.
func WriteResultsJSON(path string, t *dataset.Table, sum *report.Summary, s *aggregate.Summaries, res *stats.Results) error {
	doc := ResultsDocument{
		Summary: sum,
		Quality: QualityDocument{
			Rows:         t.Quality.Rows,
			InvalidCells: t.Quality.Invalid,
			IgnoredCols:  t.Quality.Ignored,
		},
		Summaries: s,
		Stats:     res,
		Describe:  stats.Describe(t),
	}
	b, err := utils.PrettyJSON(doc)
	if err != nil {
		return fmt.Errorf("encode results: %w", err)
	}
	return utils.SafeWriteFile(path, b)
}

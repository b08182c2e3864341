// Package export builds the semicolon-delimited CSV shipped by the export
// pipeline. The format is fixed: header row ID;Title;Description;
// ReleaseDate;Director, free-text columns wrapped in double quotes with
// embedded quotes doubled, dates as YYYY-MM-DD (empty when absent).
package export

import (
	"strconv"
	"strings"

	"github.com/iliyamo/movie-catalog/internal/model"
)

var header = strings.Join([]string{"ID", "Title", "Description", "ReleaseDate", "Director"}, ";")

// BuildCSV renders the movie list into the export CSV. Rows are joined
// with "\n" and there is no trailing newline.
func BuildCSV(movies []model.Movie) string {
	lines := make([]string, 0, len(movies)+1)
	lines = append(lines, header)
	for _, m := range movies {
		release := ""
		if m.ReleaseDate != nil {
			release = m.ReleaseDate.Format("2006-01-02")
		}
		lines = append(lines, strings.Join([]string{
			strconv.FormatUint(m.ID, 10),
			quote(m.Title),
			quote(m.Description),
			release,
			quote(m.Director),
		}, ";"))
	}
	return strings.Join(lines, "\n")
}

// quote wraps a free-text field in double quotes, doubling any embedded
// quote characters.
func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

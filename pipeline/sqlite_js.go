//go:build js

package pipeline

import "errors"

func exportSQLite(path string, summary SummaryFile, daily []DailyTotalRow, profiles []IntervalProfileRow, imputed []ImputedRecordRow) error {
	return errors.New("sqlite export is not available in js builds")
}

package balance

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/flexkonto/flexkonto/pkg/worktime"
	log "github.com/sirupsen/logrus"
)

type LedgerRenderer interface {
	RenderLedger(rows []worktime.LedgerRow) (string, error)
}

type CsvLedgerRendererImpl struct {
}

func NewCsvLedgerRenderer() *CsvLedgerRendererImpl {
	return &CsvLedgerRendererImpl{}
}

var ledgerHeader = []string{"Date", "Weekday", "Target", "Work", "Absence", "Delta", "Running", "Missing"}

// RenderLedger writes one line per day, durations as HH:MM.
func (t *CsvLedgerRendererImpl) RenderLedger(rows []worktime.LedgerRow) (string, error) {
	data := make([][]string, 0, len(rows)+1)
	data = append(data, ledgerHeader)
	for _, row := range rows {
		data = append(data, []string{
			row.Date.Format(worktime.DateLayout),
			row.Date.Weekday().String()[:3],
			worktime.FormatDuration(row.Target),
			worktime.FormatDuration(row.WorkNet),
			worktime.FormatDuration(row.AbsenceCredit),
			worktime.FormatDuration(row.Delta),
			worktime.FormatDuration(row.Running),
			strconv.FormatBool(row.Missing()),
		})
	}

	var b bytes.Buffer
	writer := csv.NewWriter(&b)
	for _, row := range data {
		err := writer.Write(row)
		if err != nil {
			log.Errorf("Error writing to csv: %v", err)
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		log.Errorf("Error writing to csv: %v", err)
		return "", err
	}

	return b.String(), nil
}

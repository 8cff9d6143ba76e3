package datasource

import (
	"os"

	"github.com/gocarina/gocsv"
	"github.com/quantlab-oss/stratdsl/internal/logger"
	"github.com/quantlab-oss/stratdsl/internal/types"
	"github.com/quantlab-oss/stratdsl/pkg/errors"
	"go.uber.org/zap"
)

// CSVSource reads a table from a CSV file with time,open,high,low,close,
// volume columns. Timestamps are RFC3339.
type CSVSource struct {
	path   string
	logger *logger.Logger
}

// NewCSVSource creates a CSV source for the given file path. A nil logger
// falls back to a no-op logger.
func NewCSVSource(path string, log *logger.Logger) *CSVSource {
	if log == nil {
		log = logger.NewNopLogger()
	}

	return &CSVSource{path: path, logger: log}
}

// Load implements Source.
func (s *CSVSource) Load() ([]types.MarketData, error) {
	file, err := os.Open(s.path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeDataNotFound, err, "cannot open %s", s.path)
	}
	defer file.Close()

	var rows []types.MarketData

	if err := gocsv.UnmarshalFile(file, &rows); err != nil {
		return nil, errors.Wrapf(errors.ErrCodeDataLoadFailed, err, "cannot parse %s", s.path)
	}

	if err := validateRows(rows); err != nil {
		return nil, err
	}

	s.logger.Debug("loaded CSV table", zap.String("path", s.path), zap.Int("rows", len(rows)))

	return rows, nil
}

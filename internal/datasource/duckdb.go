package datasource

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/moznion/go-optional"
	"github.com/quantlab-oss/stratdsl/internal/logger"
	"github.com/quantlab-oss/stratdsl/internal/types"
	"github.com/quantlab-oss/stratdsl/pkg/errors"
	"go.uber.org/zap"
)

// DuckDBSource reads a table through an in-memory DuckDB instance, scanning
// a CSV or Parquet file via a view. Optional time bounds restrict the scan.
type DuckDBSource struct {
	db     *sql.DB
	logger *logger.Logger
	sq     squirrel.StatementBuilderType
	start  optional.Option[time.Time]
	end    optional.Option[time.Time]
}

// NewDuckDBSource opens an in-memory DuckDB and points a view at the data
// file. Files ending in .parquet are read with read_parquet, everything
// else with read_csv_auto.
func NewDuckDBSource(path string, log *logger.Logger) (*DuckDBSource, error) {
	if log == nil {
		log = logger.NewNopLogger()
	}

	db, err := sql.Open("duckdb", ":memory:")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDataLoadFailed, "cannot open duckdb", err)
	}

	reader := "read_csv_auto"
	if strings.HasSuffix(path, ".parquet") {
		reader = "read_parquet"
	}

	// Squirrel does not support CREATE VIEW; raw SQL here.
	query := fmt.Sprintf(`CREATE VIEW market_data AS SELECT * FROM %s('%s');`, reader, path)

	if _, err := db.Exec(query); err != nil {
		db.Close()

		return nil, errors.Wrapf(errors.ErrCodeDataLoadFailed, err, "cannot create view over %s", path)
	}

	log.Debug("opened duckdb source", zap.String("path", path), zap.String("reader", reader))

	return &DuckDBSource{
		db:     db,
		logger: log,
		sq:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}, nil
}

// SetTimeRange restricts Load to rows within the given bounds (inclusive).
func (s *DuckDBSource) SetTimeRange(start, end optional.Option[time.Time]) {
	s.start = start
	s.end = end
}

// Load implements Source.
func (s *DuckDBSource) Load() ([]types.MarketData, error) {
	builder := s.sq.
		Select("time", "open", "high", "low", "close", "volume").
		From("market_data").
		OrderBy("time ASC")

	if s.start.IsSome() {
		builder = builder.Where(squirrel.GtOrEq{"time": s.start.Unwrap()})
	}

	if s.end.IsSome() {
		builder = builder.Where(squirrel.LtOrEq{"time": s.end.Unwrap()})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "cannot build query", err)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "query failed", err)
	}
	defer rows.Close()

	var data []types.MarketData

	for rows.Next() {
		var row types.MarketData

		if err := rows.Scan(&row.Time, &row.Open, &row.High, &row.Low, &row.Close, &row.Volume); err != nil {
			return nil, errors.Wrap(errors.ErrCodeQueryFailed, "scan failed", err)
		}

		data = append(data, row)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "row iteration failed", err)
	}

	if err := validateRows(data); err != nil {
		return nil, err
	}

	s.logger.Debug("loaded duckdb table", zap.Int("rows", len(data)))

	return data, nil
}

// Close releases the underlying database handle.
func (s *DuckDBSource) Close() error {
	return s.db.Close()
}

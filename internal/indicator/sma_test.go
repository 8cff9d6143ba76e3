package indicator

import (
	"testing"

	"github.com/quantlab-oss/stratdsl/internal/series"
	"github.com/quantlab-oss/stratdsl/internal/types"
	"github.com/quantlab-oss/stratdsl/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type SMATestSuite struct {
	suite.Suite
}

func TestSMASuite(t *testing.T) {
	suite.Run(t, new(SMATestSuite))
}

func (suite *SMATestSuite) TestName() {
	suite.Equal(types.IndicatorTypeSMA, NewSMA().Name())
}

func (suite *SMATestSuite) TestCompute() {
	x := series.NewFloat([]float64{1, 2, 3, 4, 5})

	out, err := NewSMA().Compute(x, 3)
	suite.NoError(err)
	suite.Equal(5, out.Len())

	// Exactly period-1 leading rows are undefined.
	suite.False(out.Defined(0))
	suite.False(out.Defined(1))

	v, ok := out.At(2)
	suite.True(ok)
	suite.InDelta(2.0, v, 1e-12)

	v, ok = out.At(3)
	suite.True(ok)
	suite.InDelta(3.0, v, 1e-12)

	v, ok = out.At(4)
	suite.True(ok)
	suite.InDelta(4.0, v, 1e-12)
}

func (suite *SMATestSuite) TestComputePeriodOne() {
	x := series.NewFloat([]float64{7, 8})

	out, err := NewSMA().Compute(x, 1)
	suite.NoError(err)

	v, ok := out.At(0)
	suite.True(ok)
	suite.Equal(7.0, v)
}

func (suite *SMATestSuite) TestComputeShortInput() {
	// Fewer rows than the period yields an all-undefined sequence, not an error.
	x := series.NewFloat([]float64{1, 2, 3, 4, 5})

	out, err := NewSMA().Compute(x, 20)
	suite.NoError(err)

	for i := 0; i < out.Len(); i++ {
		suite.False(out.Defined(i))
	}
}

func (suite *SMATestSuite) TestComputeUndefinedInputRows() {
	x, err := series.NewFloatWithMask(
		[]float64{0, 2, 3, 4},
		[]bool{false, true, true, true},
	)
	suite.NoError(err)

	out, err := NewSMA().Compute(x, 2)
	suite.NoError(err)

	// Row 1's window includes the undefined row 0.
	suite.False(out.Defined(1))

	v, ok := out.At(2)
	suite.True(ok)
	suite.InDelta(2.5, v, 1e-12)
}

func (suite *SMATestSuite) TestComputeInvalidPeriod() {
	x := series.NewFloat([]float64{1, 2})

	_, err := NewSMA().Compute(x, 0)
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidPeriod))
}

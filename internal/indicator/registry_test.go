package indicator

import (
	"testing"

	"github.com/quantlab-oss/stratdsl/internal/types"
	"github.com/quantlab-oss/stratdsl/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type RegistryTestSuite struct {
	suite.Suite
	registry Registry
}

func TestRegistrySuite(t *testing.T) {
	suite.Run(t, new(RegistryTestSuite))
}

func (suite *RegistryTestSuite) SetupTest() {
	suite.registry = NewRegistry()
}

func (suite *RegistryTestSuite) TestDefaultIndicators() {
	for _, name := range []types.IndicatorType{
		types.IndicatorTypeSMA,
		types.IndicatorTypeEMA,
		types.IndicatorTypeRSI,
	} {
		ind, err := suite.registry.GetIndicator(name)
		suite.NoError(err)
		suite.Equal(name, ind.Name())
	}

	suite.Len(suite.registry.ListIndicators(), 3)
}

func (suite *RegistryTestSuite) TestGetUnknown() {
	_, err := suite.registry.GetIndicator(types.IndicatorType("macd"))
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeIndicatorNotFound))
}

func (suite *RegistryTestSuite) TestRegisterDuplicate() {
	err := suite.registry.RegisterIndicator(NewSMA())
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeIndicatorAlreadyExists))
}

func (suite *RegistryTestSuite) TestRemove() {
	err := suite.registry.RemoveIndicator(types.IndicatorTypeRSI)
	suite.NoError(err)

	_, err = suite.registry.GetIndicator(types.IndicatorTypeRSI)
	suite.Error(err)

	err = suite.registry.RemoveIndicator(types.IndicatorTypeRSI)
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeIndicatorNotFound))
}

func (suite *RegistryTestSuite) TestEmptyRegistry() {
	registry := NewEmptyRegistry()
	suite.Empty(registry.ListIndicators())

	suite.NoError(registry.RegisterIndicator(NewEMA()))

	ind, err := registry.GetIndicator(types.IndicatorTypeEMA)
	suite.NoError(err)
	suite.Equal(types.IndicatorTypeEMA, ind.Name())
}

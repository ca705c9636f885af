package matrix_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/katalvlaran/permanent/internal/matrix"
)

type DenseSuite struct {
	suite.Suite
}

func (s *DenseSuite) TestGetSetRoundTrip() {
	m := matrix.NewDense(4, 0)
	m.Set(1, 2, 3.5)
	require.Equal(s.T(), 3.5, m.Get(1, 2))
	require.Equal(s.T(), 0.0, m.Get(0, 0))
}

func (s *DenseSuite) TestNewDenseInitialValue() {
	m := matrix.NewDense(3, 7)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			require.Equal(s.T(), 7.0, m.Get(i, j))
		}
	}
}

func (s *DenseSuite) TestAddAccumulates() {
	m := matrix.NewDense(2, 1)
	m.Add(0, 0, 4)
	require.Equal(s.T(), 5.0, m.Get(0, 0))
}

func (s *DenseSuite) TestTransformAppliesToEveryEntryAcrossRowChunks() {
	const n = 37 // deliberately not a multiple of any small worker count
	m := matrix.NewDense(n, 2)
	m.Transform(func(x float64) float64 { return x * x })
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			require.Equal(s.T(), 4.0, m.Get(i, j))
		}
	}
}

func (s *DenseSuite) TestScale() {
	m := matrix.NewDense(2, 3)
	m.Scale(2)
	require.Equal(s.T(), 6.0, m.Get(0, 0))
}

func TestDenseSuite(t *testing.T) {
	suite.Run(t, new(DenseSuite))
}

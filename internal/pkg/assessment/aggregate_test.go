package assessment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSectionAggregate_RollsUpCounts(t *testing.T) {
	agg := SectionAggregate([]SectionCounts{
		{StudentsAssessed: 30, StudentsPassed: 27},
		{StudentsAssessed: 20, StudentsPassed: 13},
	})

	assert.Equal(t, 50, agg.StudentsAssessed)
	assert.Equal(t, 40, agg.StudentsPassed)
	assert.Equal(t, 2, agg.SectionCount)
	require.NotNil(t, agg.PassRate)
	assert.InDelta(t, 80, *agg.PassRate, 1e-9)
}

func TestSectionAggregate_EmptyMeansNoData(t *testing.T) {
	agg := SectionAggregate(nil)
	assert.Equal(t, 0, agg.StudentsAssessed)
	assert.Nil(t, agg.PassRate)
}

func TestRollup_ParentMatchesSingleChild(t *testing.T) {
	// A PLO containing a single CLO carries an identical aggregate.
	clo := SectionAggregate([]SectionCounts{
		{StudentsAssessed: 30, StudentsPassed: 27},
		{StudentsAssessed: 20, StudentsPassed: 13},
	})
	plo := Rollup(clo)
	assert.Equal(t, clo, plo)
}

func TestRollup_WeightsBySectionSize(t *testing.T) {
	// 100% of 10 students and 0% of 90 students is 10%, not 50%.
	a := SectionAggregate([]SectionCounts{{StudentsAssessed: 10, StudentsPassed: 10}})
	b := SectionAggregate([]SectionCounts{{StudentsAssessed: 90, StudentsPassed: 0}})
	agg := Rollup(a, b)
	require.NotNil(t, agg.PassRate)
	assert.InDelta(t, 10, *agg.PassRate, 1e-9)
	assert.Equal(t, 2, agg.SectionCount)
}

func TestRollup_NoChildren(t *testing.T) {
	agg := Rollup()
	assert.Nil(t, agg.PassRate)
	assert.Equal(t, 0, agg.SectionCount)
}

func TestRollup_ZeroRateIsNotNoData(t *testing.T) {
	agg := Rollup(SectionAggregate([]SectionCounts{{StudentsAssessed: 5, StudentsPassed: 0}}))
	require.NotNil(t, agg.PassRate)
	assert.Equal(t, float64(0), *agg.PassRate)
}

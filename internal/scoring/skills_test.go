package scoring

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSkillSet_Dedup(t *testing.T) {
	s := NewSkillSet()
	require.NoError(t, s.Add("Data  Analysis"))
	assert.ErrorIs(t, s.Add(" data analysis "), ErrDuplicateSkill)
	assert.Equal(t, []string{"Data Analysis"}, s.Items())
}

func TestSkillSet_Bounds(t *testing.T) {
	s := NewSkillSet()
	for i := range MaxSkills {
		require.NoError(t, s.Add(fmt.Sprintf("skill %d", i)))
	}
	assert.ErrorIs(t, s.Add("one too many"), ErrTooManySkills)
	assert.Equal(t, MaxSkills, s.Len())
}

func TestSkillSet_EmptyRejected(t *testing.T) {
	s := NewSkillSet()
	assert.ErrorIs(t, s.Add("   "), ErrEmptySkill)
	assert.Equal(t, 0, s.Len())
}

func TestSkillSet_Ready(t *testing.T) {
	s := NewSkillSet("go", "sql")
	assert.False(t, s.Ready())
	require.NoError(t, s.Add("excel"))
	assert.True(t, s.Ready())
}

func TestSkillSet_Remove(t *testing.T) {
	s := NewSkillSet("Go", "SQL", "Excel")
	assert.True(t, s.Remove("sql"))
	assert.False(t, s.Remove("sql"))
	assert.False(t, s.Contains("SQL"))
	assert.Equal(t, []string{"Go", "Excel"}, s.Items())
}

func TestNewSkillSet_TruncatesAtMax(t *testing.T) {
	var in []string
	for i := range MaxSkills + 5 {
		in = append(in, fmt.Sprintf("s%d", i))
	}
	assert.Equal(t, MaxSkills, NewSkillSet(in...).Len())
}

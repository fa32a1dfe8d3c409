package solver

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTrainingBufferFillsAndWraps(t *testing.T) {
	buf := newTrainingBuffer(3)
	require.Equal(t, 0, buf.Len())

	for i := 1; i <= 3; i++ {
		buf.Add(TrainingExample{Question: fmt.Sprintf("q%d", i)})
	}
	require.Equal(t, 3, buf.Len())

	buf.Add(TrainingExample{Question: "q4"})
	buf.Add(TrainingExample{Question: "q5"})

	require.Equal(t, 3, buf.Len())

	examples := buf.Examples()
	require.Len(t, examples, 3)
	require.Equal(t, "q3", examples[0].Question)
	require.Equal(t, "q4", examples[1].Question)
	require.Equal(t, "q5", examples[2].Question)
}

func TestTrainingBufferPartial(t *testing.T) {
	buf := newTrainingBuffer(5)
	buf.Add(TrainingExample{Question: "a"})
	buf.Add(TrainingExample{Question: "b"})

	require.Equal(t, 2, buf.Len())
	examples := buf.Examples()
	require.Equal(t, "a", examples[0].Question)
	require.Equal(t, "b", examples[1].Question)
}

func TestTrainingBufferDefaultCapacity(t *testing.T) {
	buf := newTrainingBuffer(0)
	for i := 0; i < 150; i++ {
		buf.Add(TrainingExample{Question: fmt.Sprintf("q%d", i)})
	}
	require.Equal(t, 100, buf.Len())
}

package signature

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// sha256 of zero bytes; the digest of an empty outlier set.
const emptyDigest = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"

func sampleRows() [][]string {
	return [][]string{
		{"TX-1001", "Finance", "10250.00", "-1", "Critical"},
		{"TX-1002", "Logistics", "9800.50", "-1", "Critical"},
	}
}

func TestSumDeterministic(t *testing.T) {
	first := Sum(sampleRows())
	for n := 0; n < 10; n++ {
		require.Equal(t, first, Sum(sampleRows()))
	}
	require.Len(t, first, 64)
}

func TestSumDetectsPerturbation(t *testing.T) {
	base := Sum(sampleRows())

	perturbed := sampleRows()
	perturbed[1][2] = "9800.51"
	require.NotEqual(t, base, Sum(perturbed))
}

func TestSumOrderSensitive(t *testing.T) {
	rows := sampleRows()
	swapped := [][]string{rows[1], rows[0]}
	require.NotEqual(t, Sum(rows), Sum(swapped))
}

func TestSumEmptySet(t *testing.T) {
	require.Equal(t, emptyDigest, Sum(nil))
	require.Equal(t, emptyDigest, Sum([][]string{}))
}

// Cell content must not be able to fake row or column boundaries: a
// separator character inside a cell is data, not framing.
func TestSumFramingCollision(t *testing.T) {
	a := Sum([][]string{{"a,b", "c"}})
	b := Sum([][]string{{"a", "b,c"}})
	require.NotEqual(t, a, b)

	c := Sum([][]string{{"x"}, {"y"}})
	d := Sum([][]string{{"x\ny"}})
	require.NotEqual(t, c, d)
}

package similarity

import (
	"context"
	"fmt"
	"math/rand"
	"testing"

	"github.com/isseis/go-lzjd/internal/common"
	"github.com/isseis/go-lzjd/internal/digestfile"
	"github.com/isseis/go-lzjd/internal/lzjd"
	"github.com/isseis/go-lzjd/internal/workerpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPool(t testing.TB, workers int) *workerpool.Pool {
	t.Helper()
	p, err := workerpool.New(workers)
	require.NoError(t, err)
	return p
}

// makeRecords builds n records in a few families of related content so that
// scores spread across the whole 0..100 range.
func makeRecords(t testing.TB, prefix string, n int) []digestfile.Record {
	t.Helper()
	records := make([]digestfile.Record, n)
	for i := range records {
		r := rand.New(rand.NewSource(int64(i % 4))) // #nosec G404 - test data only
		data := make([]byte, 4096)
		_, _ = r.Read(data)
		mut := rand.New(rand.NewSource(int64(1000 + i))) // #nosec G404 - test data only
		for k := 0; k < i*40; k++ {
			data[mut.Intn(len(data))] = byte(mut.Intn(256))
		}
		d, err := lzjd.BuildK(bytesReader(data), &lzjd.Murmur3{}, 256)
		require.NoError(t, err)
		records[i] = digestfile.Record{Digest: d, Name: fmt.Sprintf("%s%02d", prefix, i)}
	}
	return records
}

func TestCompare_SelfSkipsDiagonalAndMirror(t *testing.T) {
	records := makeRecords(t, "f", 12)

	results, err := CompareSelf(context.Background(), newPool(t, 3), records, 0)
	require.NoError(t, err)
	assert.Len(t, results, PairCount(12, 12, true))

	seen := map[[2]string]bool{}
	for _, r := range results {
		assert.NotEqual(t, r.NameA, r.NameB, "no self pairs")
		assert.False(t, seen[[2]string{r.NameB, r.NameA}], "no mirrored pairs")
		seen[[2]string{r.NameA, r.NameB}] = true
	}
}

func TestCompare_CrossEvaluatesFullProduct(t *testing.T) {
	a := makeRecords(t, "a", 7)
	b := makeRecords(t, "b", 5)

	results, err := Compare(context.Background(), newPool(t, 4), a, b, Options{Threshold: 0})
	require.NoError(t, err)
	require.Len(t, results, 7*5)

	k := 0
	for i := range a {
		for j := range b {
			assert.Equal(t, a[i].Name, results[k].NameA)
			assert.Equal(t, b[j].Name, results[k].NameB)
			k++
		}
	}
}

func TestCompare_CrossWithSameContentIsNotTriangular(t *testing.T) {
	records := makeRecords(t, "f", 4)
	copied := append([]digestfile.Record(nil), records...)

	results, err := Compare(context.Background(), newPool(t, 2), records, copied, Options{Threshold: 0})
	require.NoError(t, err)
	assert.Len(t, results, 16, "only the Self flag enables the triangular skip")
}

func TestCompare_OrderIndependentOfWorkers(t *testing.T) {
	records := makeRecords(t, "f", 30)

	want, err := CompareSelf(context.Background(), newPool(t, 1), records, 1)
	require.NoError(t, err)

	for _, workers := range []int{2, 3, 8, 32} {
		got, err := CompareSelf(context.Background(), newPool(t, workers), records, 1)
		require.NoError(t, err)
		assert.Equal(t, want, got, "workers=%d", workers)
	}
}

func TestCompare_AscendingIndexOrder(t *testing.T) {
	records := makeRecords(t, "f", 10)
	index := map[string]int{}
	for i, r := range records {
		index[r.Name] = i
	}

	results, err := CompareSelf(context.Background(), newPool(t, 4), records, 0)
	require.NoError(t, err)
	for k := 1; k < len(results); k++ {
		prev := [2]int{index[results[k-1].NameA], index[results[k-1].NameB]}
		cur := [2]int{index[results[k].NameA], index[results[k].NameB]}
		assert.True(t, prev[0] < cur[0] || (prev[0] == cur[0] && prev[1] < cur[1]),
			"%v must come before %v", prev, cur)
	}
}

func TestCompare_ThresholdMonotonic(t *testing.T) {
	records := makeRecords(t, "f", 16)
	pool := newPool(t, 4)

	prev, err := CompareSelf(context.Background(), pool, records, 0)
	require.NoError(t, err)
	for threshold := 1; threshold <= 100; threshold++ {
		cur, err := CompareSelf(context.Background(), pool, records, threshold)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(cur), len(prev))
		assert.Subset(t, prev, cur, "threshold %d", threshold)
		for _, r := range cur {
			assert.GreaterOrEqual(t, r.Score, threshold)
		}
		prev = cur
	}
}

func TestCompare_IdenticalDigestsScore100(t *testing.T) {
	d, err := lzjd.Build(bytesReader([]byte("same bytes, same sketch")), &lzjd.Murmur3{})
	require.NoError(t, err)
	records := []digestfile.Record{{Digest: d, Name: "f1"}, {Digest: d, Name: "f2"}}

	results, err := CompareSelf(context.Background(), newPool(t, 1), records, 100)
	require.NoError(t, err)
	assert.Equal(t, []Result{{NameA: "f1", NameB: "f2", Score: 100}}, results)
	assert.Equal(t, "f1|f2|100", results[0].String())
}

func TestCompare_SingleAndEmpty(t *testing.T) {
	pool := newPool(t, 2)
	one := makeRecords(t, "f", 1)

	results, err := CompareSelf(context.Background(), pool, one, 0)
	require.NoError(t, err)
	assert.Empty(t, results)

	results, err = Compare(context.Background(), pool, nil, one, Options{})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestCompare_InvalidThreshold(t *testing.T) {
	for _, threshold := range []int{-1, 101} {
		_, err := CompareSelf(context.Background(), newPool(t, 1), nil, threshold)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrThresholdOutOfRange)
		assert.ErrorIs(t, err, common.ErrUsage)
	}
}

func TestResult_String(t *testing.T) {
	tests := []struct {
		result Result
		want   string
	}{
		{Result{NameA: "a", NameB: "b", Score: 87}, "a|b|087"},
		{Result{NameA: "a", NameB: "b", Score: 5}, "a|b|005"},
		{Result{NameA: "x:y", NameB: "z", Score: 100}, "x:y|z|100"},
		{Result{NameA: "a", NameB: "b", Score: 0}, "a|b|000"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.result.String())
	}
}

func TestPairCount(t *testing.T) {
	assert.Equal(t, 0, PairCount(0, 0, true))
	assert.Equal(t, 0, PairCount(1, 1, true))
	assert.Equal(t, 45, PairCount(10, 10, true))
	assert.Equal(t, 35, PairCount(7, 5, false))
}

package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"github.com/stretchr/testify/require"
)

// fakeCloudWatch returns canned responses and records the query inputs.
type fakeCloudWatch struct {
	// metrics is the list returned from ListMetrics.
	metrics []types.Metric
	// values is the series returned from GetMetricData.
	values []float64
	// lastQuery records the most recent GetMetricData input.
	lastQuery *cloudwatch.GetMetricDataInput
}

func (f *fakeCloudWatch) ListMetrics(_ context.Context, _ *cloudwatch.ListMetricsInput,
	_ ...func(*cloudwatch.Options)) (*cloudwatch.ListMetricsOutput, error) {
	return &cloudwatch.ListMetricsOutput{Metrics: f.metrics}, nil
}

func (f *fakeCloudWatch) GetMetricData(_ context.Context, params *cloudwatch.GetMetricDataInput,
	_ ...func(*cloudwatch.Options)) (*cloudwatch.GetMetricDataOutput, error) {
	f.lastQuery = params

	return &cloudwatch.GetMetricDataOutput{
		MetricDataResults: []types.MetricDataResult{{Values: f.values}},
	}, nil
}

// TestCloudWatch_LastKnownValue verifies the last series value is returned.
func TestCloudWatch_LastKnownValue(t *testing.T) {
	t.Parallel()

	fake := &fakeCloudWatch{
		metrics: []types.Metric{{}},
		values:  []float64{0, 1, 2, 3},
	}
	store := NewCloudWatch(fake, "test_namespace", "test_metric_name")

	value, err := store.LastKnownValue(context.Background())
	require.NoError(t, err)
	require.InDelta(t, 3, value, 0)
}

// TestCloudWatch_MissingSeriesReadsZero verifies an unpublished series
// reads as zero without querying data.
func TestCloudWatch_MissingSeriesReadsZero(t *testing.T) {
	t.Parallel()

	fake := &fakeCloudWatch{}
	store := NewCloudWatch(fake, "test_namespace", "test_metric_name")

	value, err := store.LastKnownValue(context.Background())
	require.NoError(t, err)
	require.Zero(t, value)
	require.Nil(t, fake.lastQuery)
}

// TestCloudWatch_QueryShape checks the 24-hour window, one-minute period
// and fill-forward expression of the series query.
func TestCloudWatch_QueryShape(t *testing.T) {
	t.Parallel()

	fake := &fakeCloudWatch{
		metrics: []types.Metric{{}},
		values:  []float64{1},
	}
	store := NewCloudWatch(fake, "test_namespace", "test_metric_name")

	now := time.Date(2022, 8, 1, 15, 31, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	_, err := store.LastKnownValue(context.Background())
	require.NoError(t, err)

	query := fake.lastQuery
	require.Equal(t, now, *query.EndTime)
	require.Equal(t, now.Add(-24*time.Hour), *query.StartTime)
	require.Len(t, query.MetricDataQueries, 2)
	require.EqualValues(t, 60, *query.MetricDataQueries[0].MetricStat.Period)
	require.Equal(t, "Sum", *query.MetricDataQueries[0].MetricStat.Stat)
	require.Equal(t, "FILL(m1, REPEAT)", *query.MetricDataQueries[1].Expression)
}

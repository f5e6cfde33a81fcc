package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"

	"github.com/oshokin/minecraft-switchboard/internal/logger"
)

const (
	// lookbackWindow is how far back the series is queried.
	lookbackWindow = 24 * time.Hour
	// seriesPeriod is the resolution of the queried series in seconds.
	seriesPeriod = 60
)

// SeriesStore reads the last known value of the connected-count series.
type SeriesStore interface {
	// LastKnownValue returns the most recent fill-forward value of the
	// series, or zero if the series does not exist yet.
	LastKnownValue(ctx context.Context) (float64, error)
}

// CloudWatchAPI is the subset of the metrics client the store uses.
type CloudWatchAPI interface {
	ListMetrics(ctx context.Context, params *cloudwatch.ListMetricsInput,
		optFns ...func(*cloudwatch.Options)) (*cloudwatch.ListMetricsOutput, error)
	GetMetricData(ctx context.Context, params *cloudwatch.GetMetricDataInput,
		optFns ...func(*cloudwatch.Options)) (*cloudwatch.GetMetricDataOutput, error)
}

// CloudWatch reads the connected-count time series from the metrics store.
type CloudWatch struct {
	// client performs the metric queries.
	client CloudWatchAPI
	// namespace of the connected-count metric.
	namespace string
	// metricName of the connected-count metric.
	metricName string
	// now returns the current time; injected for tests.
	now func() time.Time
}

// NewCloudWatch creates a series store bound to the provided metric.
func NewCloudWatch(client CloudWatchAPI, namespace, metricName string) *CloudWatch {
	return &CloudWatch{
		client:     client,
		namespace:  namespace,
		metricName: metricName,
		now:        time.Now,
	}
}

// LastKnownValue returns the last value of the previous 24 hours of the
// series at one-minute resolution with fill-forward gap filling. A series
// that does not exist yet reads as zero.
func (s *CloudWatch) LastKnownValue(ctx context.Context) (float64, error) {
	exists, err := s.exists(ctx)
	if err != nil {
		return 0, err
	}

	if !exists {
		logger.InfoKV(ctx, "Metric series not found",
			"namespace", s.namespace, "metric_name", s.metricName)

		return 0, nil
	}

	endTime := s.now()
	startTime := endTime.Add(-lookbackWindow)

	out, err := s.client.GetMetricData(ctx, &cloudwatch.GetMetricDataInput{
		StartTime: aws.Time(startTime),
		EndTime:   aws.Time(endTime),
		MetricDataQueries: []types.MetricDataQuery{
			{
				Id: aws.String("m1"),
				MetricStat: &types.MetricStat{
					Metric: &types.Metric{
						Namespace:  aws.String(s.namespace),
						MetricName: aws.String(s.metricName),
					},
					Period: aws.Int32(seriesPeriod),
					Stat:   aws.String("Sum"),
				},
			},
			{
				Id:         aws.String("e1"),
				Expression: aws.String("FILL(m1, REPEAT)"),
			},
		},
	})
	if err != nil {
		return 0, fmt.Errorf("query metric series: %w", err)
	}

	if len(out.MetricDataResults) == 0 || len(out.MetricDataResults[0].Values) == 0 {
		return 0, nil
	}

	values := out.MetricDataResults[0].Values

	return values[len(values)-1], nil
}

// exists reports whether the series has ever been published.
func (s *CloudWatch) exists(ctx context.Context) (bool, error) {
	out, err := s.client.ListMetrics(ctx, &cloudwatch.ListMetricsInput{
		Namespace:  aws.String(s.namespace),
		MetricName: aws.String(s.metricName),
	})
	if err != nil {
		return false, fmt.Errorf("list metric series: %w", err)
	}

	return len(out.Metrics) > 0, nil
}

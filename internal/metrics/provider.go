package metrics

import (
	"fmt"
	"io"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
)

const (
	ExporterNone   = "none"
	ExporterStdout = "stdout"
)

// NewMeterProvider builds the SDK provider for the given exporter. "none"
// still aggregates in process but never exports. "stdout" writes a JSON
// snapshot to w every interval and once more on Shutdown.
func NewMeterProvider(exporter string, w io.Writer, interval time.Duration) (*sdkmetric.MeterProvider, error) {
	res := resource.NewSchemaless(attribute.String("service.name", MeterName))

	switch exporter {
	case ExporterNone, "":
		return sdkmetric.NewMeterProvider(sdkmetric.WithResource(res)), nil
	case ExporterStdout:
		exp, err := stdoutmetric.New(stdoutmetric.WithWriter(w))
		if err != nil {
			return nil, fmt.Errorf("failed to create stdout exporter: %w", err)
		}
		reader := sdkmetric.NewPeriodicReader(exp, sdkmetric.WithInterval(interval))
		return sdkmetric.NewMeterProvider(sdkmetric.WithResource(res), sdkmetric.WithReader(reader)), nil
	default:
		return nil, fmt.Errorf("unsupported metrics exporter: %s", exporter)
	}
}

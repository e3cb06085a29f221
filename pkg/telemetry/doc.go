// Package telemetry provides element.Observer implementations that report
// element activity to Prometheus, OpenTelemetry and log/slog.
//
// Observers are attached to a registry and see every element it upgrades:
//
//	reg := element.NewRegistry(
//	    element.WithObserver(telemetry.NewMetrics(telemetry.WithNamespace("app"))),
//	    element.WithObserver(telemetry.NewTracing()),
//	)
//
// Several observers can also be combined with Multi.
package telemetry

package utils

import (
	"github.com/Luismorlan/newsreader/utils/dotenv"
	"github.com/Luismorlan/newsreader/utils/flag"
	. "github.com/Luismorlan/newsreader/utils/log"
	"github.com/sirupsen/logrus"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"
)

// StartTracer starts the Datadog tracer. It is a no-op outside of production.
func StartTracer() {
	if !dotenv.IsProdEnv() {
		return
	}

	tracer.Start(
		tracer.WithService(flag.ServiceName),
		tracer.WithEnv(dotenv.CurrentEnv()),
	)

	Log.WithFields(
		logrus.Fields{"service": flag.ServiceName},
	).Info("tracer initialized")
}

// Stop tracer, OK to be closed multiple times
func CloseTracer() {
	// Datadog tracer
	tracer.Stop()
}

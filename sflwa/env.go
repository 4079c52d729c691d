package sflwa

import (
	"github.com/caarlos0/env/v11"
	"github.com/cockroachdb/errors"
	"go.uber.org/zap/zapcore"
)

// Environment is implemented by service environment structs. Embed
// BaseEnvironment to satisfy it.
type Environment interface {
	port() int
	serviceName() string
	readinessCheckPath() string
	logLevel() zapcore.Level
	primaryRegion() string
	otelExporter() string
}

// BaseEnvironment holds the variables every LWA service receives. The
// AWS_LWA_* values come from the Lambda Web Adapter configuration, the SF_*
// values from the sfcdklwalambda construct.
type BaseEnvironment struct {
	Port               int           `env:"AWS_LWA_PORT,required"`
	ReadinessCheckPath string        `env:"AWS_LWA_READINESS_CHECK_PATH,required"`
	ServiceName        string        `env:"SF_SERVICE_NAME,required"`
	PrimaryRegion      string        `env:"SF_PRIMARY_REGION,required"`
	LogLevel           zapcore.Level `env:"SF_LOG_LEVEL" envDefault:"info"`
	OtelExporter       string        `env:"SF_OTEL_EXPORTER" envDefault:"stdout"`
}

func (e BaseEnvironment) port() int                  { return e.Port }
func (e BaseEnvironment) serviceName() string        { return e.ServiceName }
func (e BaseEnvironment) readinessCheckPath() string { return e.ReadinessCheckPath }
func (e BaseEnvironment) logLevel() zapcore.Level    { return e.LogLevel }
func (e BaseEnvironment) primaryRegion() string      { return e.PrimaryRegion }
func (e BaseEnvironment) otelExporter() string       { return e.OtelExporter }

var _ Environment = BaseEnvironment{}

// ParseEnv returns a factory that parses the process environment into the
// given Environment type. The factory shape makes it usable as an fx
// provider.
func ParseEnv[E Environment]() func() (E, error) {
	return func() (e E, err error) {
		if err := env.Parse(&e); err != nil {
			return e, errors.Wrap(err, "parsing environment")
		}
		return e, nil
	}
}

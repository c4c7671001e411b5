package validate

import (
	"fmt"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-hclog"
)

// restyLogger forwards resty's internal logging to hclog.
type restyLogger struct {
	log hclog.Logger
}

func newRestyLogger(log hclog.Logger) resty.Logger {
	return &restyLogger{log: log}
}

func (l *restyLogger) Errorf(format string, v ...interface{}) {
	l.log.Error(fmt.Sprintf(format, v...))
}

func (l *restyLogger) Warnf(format string, v ...interface{}) {
	l.log.Warn(fmt.Sprintf(format, v...))
}

func (l *restyLogger) Debugf(format string, v ...interface{}) {
	l.log.Debug(fmt.Sprintf(format, v...))
}

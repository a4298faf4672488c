//go:build windows || plan9

package logwriter

import "errors"

var errSyslogUnsupported = errors.New("syslog недоступен на этой платформе")

type syslogWriter struct{}

func dialSyslog(dest, _ string) (*syslogWriter, string, error) {
	return nil, dest, errSyslogUnsupported
}

func (s *syslogWriter) writeRecord(_ Level, _ string) error { return errSyslogUnsupported }

func (s *syslogWriter) Close() error { return nil }

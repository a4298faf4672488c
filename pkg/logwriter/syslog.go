//go:build !windows && !plan9

package logwriter

import (
	"log/syslog"
	"os"
	"strings"
)

// syslogSocketPaths — локальные сокеты syslog в порядке проверки.
var syslogSocketPaths = []string{"/dev/log", "/var/run/syslog", "/var/run/log"}

// defaultSyslogAddress используется, если ни один локальный сокет не найден.
const defaultSyslogAddress = "localhost:514"

// resolveSyslogAddress определяет сеть и адрес syslog.
//
// Пустой dest: первый существующий UNIX сокет из syslogSocketPaths,
// иначе UDP localhost:514. Явный dest: "/path", "host:port",
// "udp://host:port" или "tcp://host:port".
func resolveSyslogAddress(dest string) (network, addr string) {
	switch {
	case dest == "":
		for _, path := range syslogSocketPaths {
			info, err := os.Stat(path)
			if err != nil {
				continue
			}
			if info.Mode()&os.ModeSocket != 0 {
				return "unixgram", path
			}
		}
		return "udp", defaultSyslogAddress
	case strings.HasPrefix(dest, "udp://"):
		return "udp", strings.TrimPrefix(dest, "udp://")
	case strings.HasPrefix(dest, "tcp://"):
		return "tcp", strings.TrimPrefix(dest, "tcp://")
	case strings.HasPrefix(dest, "/"):
		return "unixgram", dest
	default:
		return "udp", dest
	}
}

// syslogWriter отправляет записи в syslog с приоритетом по уровню.
type syslogWriter struct {
	w *syslog.Writer
}

func dialSyslog(dest, tag string) (*syslogWriter, string, error) {
	network, addr := resolveSyslogAddress(dest)
	w, err := syslog.Dial(network, addr, syslog.LOG_USER|syslog.LOG_INFO, tag)
	if err != nil && network == "unixgram" {
		network = "unix"
		w, err = syslog.Dial(network, addr, syslog.LOG_USER|syslog.LOG_INFO, tag)
	}
	if err != nil {
		return nil, network + "://" + addr, err
	}
	return &syslogWriter{w: w}, network + "://" + addr, nil
}

func (s *syslogWriter) writeRecord(level Level, line string) error {
	switch {
	case level >= LevelCritical:
		return s.w.Crit(line)
	case level >= LevelError:
		return s.w.Err(line)
	case level >= LevelWarning:
		return s.w.Warning(line)
	case level >= LevelInfo:
		return s.w.Info(line)
	default:
		return s.w.Debug(line)
	}
}

func (s *syslogWriter) Close() error {
	return s.w.Close()
}

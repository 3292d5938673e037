//go:build !windows && !plan9

package common

import (
	"io"
	"log/syslog"
)

// openSyslog connects to the local system log. A nil writer means the
// error channel is skipped.
func openSyslog() io.Writer {
	w, err := syslog.New(syslog.LOG_ERR|syslog.LOG_LOCAL0, SyslogTag)
	if err != nil {
		return nil
	}
	return w
}

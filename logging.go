package snappy

import "github.com/sirupsen/logrus"

// pkgLogger is the package-wide diagnostic logger. The codec's hot paths
// and the stream layer never call it — it backs only the one-time
// diagnostic in crc.go. It defaults to a logrus logger set to PanicLevel,
// so nothing is emitted unless the embedding application calls SetLogger,
// and importing this package is silent by default the way the teacher
// library is.
var pkgLogger = logrus.New()

func init() {
	pkgLogger.SetLevel(logrus.PanicLevel)
}

// SetLogger installs l as the destination for this package's internal
// diagnostics. Passing nil restores the silent default. Typical callers
// wire in their application's own *logrus.Logger so snappy's diagnostics
// carry the same fields and output format as the rest of the program.
func SetLogger(l *logrus.Logger) {
	if l == nil {
		l = logrus.New()
		l.SetLevel(logrus.PanicLevel)
	}
	pkgLogger = l
}

func logger() *logrus.Logger {
	return pkgLogger
}

package log

import (
	"log"
	"os"

	"github.com/fatih/color"
)

var (
	info *log.Logger
	warn *log.Logger
	err  *log.Logger
)

func init() {
	info = log.New(os.Stdout,
		color.GreenString("[INFO] "),
		log.LstdFlags)
	warn = log.New(os.Stdout,
		color.YellowString("[WARN] "),
		log.LstdFlags)
	err = log.New(os.Stderr,
		color.RedString("[ERROR] "),
		log.LstdFlags)
}

// Info logs a formatted message at info level.
func Info(format string, args ...interface{}) {
	info.Printf(format, args...)
}

// Warn logs a formatted message at warn level.
func Warn(format string, args ...interface{}) {
	warn.Printf(format, args...)
}

// Error logs a formatted message at error level.
func Error(format string, args ...interface{}) {
	err.Printf(format, args...)
}

// Fatal logs a formatted message at error level and exits.
func Fatal(format string, args ...interface{}) {
	err.Printf(format, args...)
	os.Exit(1)
}

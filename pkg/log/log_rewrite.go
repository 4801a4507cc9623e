package log

func Info(args ...any) {
	global().Info(args...)
}

func Infow(msg string, keysAndValues ...any) {
	global().Infow(msg, keysAndValues...)
}

func Debugw(msg string, keysAndValues ...any) {
	global().Debugw(msg, keysAndValues...)
}

func Warnw(msg string, keysAndValues ...any) {
	global().Warnw(msg, keysAndValues...)
}

func Errorw(msg string, keysAndValues ...any) {
	global().Errorw(msg, keysAndValues...)
}

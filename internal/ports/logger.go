package ports

// Logger is the logging sink shared by the core packages.
// *log.Logger satisfies it.
type Logger interface {
	Printf(format string, args ...any)
}

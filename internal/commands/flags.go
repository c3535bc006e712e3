package commands

// Flags holds the global flag values. Empty strings mean "use the config file".
type Flags struct {
	ConfigPath string
	DBPath     string
	SeedPath   string
	IDScheme   string
	LogLevel   string
	LogFile    string

	// TUI and web flags, registered on the root command.
	Web     bool
	WebOnly bool
	Port    int
}

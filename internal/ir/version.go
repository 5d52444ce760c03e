package ir

// Version is recorded on every run so a replay can tell which build wrote
// the log.
const Version = "0.1.0"

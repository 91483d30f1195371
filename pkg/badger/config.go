package badger

import "time"

// Config describes the embedded session database.
type Config struct {
	Dir            string        `env:"BADGER_DIR" envDefault:"data/sessions"`        // Dir holds the LSM tree and value log.
	InMemory       bool          `env:"BADGER_IN_MEMORY" envDefault:"false"`          // InMemory keeps everything in RAM; Dir is ignored.
	SyncWrites     bool          `env:"BADGER_SYNC_WRITES" envDefault:"false"`        // SyncWrites fsyncs every write.
	GCInterval     time.Duration `env:"BADGER_GC_INTERVAL" envDefault:"10m"`          // GCInterval between value log GC runs; 0 disables it.
	GCDiscardRatio float64       `env:"BADGER_GC_DISCARD_RATIO" envDefault:"0.5"`     // GCDiscardRatio passed to RunValueLogGC.
	KeyPrefix      string        `env:"BADGER_SESSION_PREFIX" envDefault:"session:"` // KeyPrefix namespaces session keys.
}

// DefaultConfig returns the settings used when no environment is loaded.
func DefaultConfig() Config {
	return Config{
		Dir:            "data/sessions",
		GCInterval:     10 * time.Minute,
		GCDiscardRatio: 0.5,
		KeyPrefix:      "session:",
	}
}

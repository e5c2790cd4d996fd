package snapshot

// WriteMode The snapshot write mode
type WriteMode uint

const (
	// Sync Writes files synchronously, calling [os.File.Sync] on the temporary file and on
	// the parent directory, it is slower, but survives power loss. It is the default write mode
	Sync WriteMode = iota

	// Buffered Writes files using the operating system default buffer, it is faster but
	// a crash may lose the last writes. The rename is still atomic for concurrent readers
	Buffered
)

// ParseWriteMode Converts "sync" or "buffered" into a [WriteMode]
func ParseWriteMode(s string) (WriteMode, bool) {
	switch s {
	case "", "sync":
		return Sync, true
	case "buffered":
		return Buffered, true
	default:
		return Sync, false
	}
}

func (m WriteMode) String() string {
	if m == Buffered {
		return "buffered"
	}

	return "sync"
}

package dedupe

// Option configures the in-memory deduper.
type Option func(*window)

// WithMaxSize bounds the number of remembered keys. When full, the oldest
// key is forgotten. maxSize <= 0 keeps every key.
func WithMaxSize(maxSize int) Option {
	return func(d *window) {
		d.maxSize = maxSize
	}
}

package dbf

// Option configures Open.
type Option func(*openConfig)

type openConfig struct {
	encoding Encoding
}

// WithEncoding overrides the default strict-UTF-8 text Encoding, e.g. with
// Windows1250Encoding for tables written in a legacy code page.
func WithEncoding(enc Encoding) Option {
	return func(c *openConfig) { c.encoding = enc }
}

package config

const (
	// MaxFileNameBytes is NAME_MAX on common filesystems: the longest single
	// path component, in bytes.
	MaxFileNameBytes = 255

	// SnapshotPrefixBytes is the "(<timestamp>)" a snapshot adds in front of
	// its document's name.
	SnapshotPrefixBytes = len("(2006-01-02T15:04:05.000000000Z)")

	// MaxDocumentNameLength leaves room for the snapshot prefix, so every
	// accepted name can also be snapshotted.
	MaxDocumentNameLength = MaxFileNameBytes - SnapshotPrefixBytes

	// MaxPasswordLength is bcrypt's input limit; longer passwords are
	// rejected rather than silently truncated.
	MaxPasswordLength = 72

	// DefaultMaxUploadBytes bounds form and multipart request bodies.
	DefaultMaxUploadBytes = 10 << 20
)

package core

// StorageCredentials identifies the remote object holding the document and
// carries the symmetric key pair the signer uses. The secret never leaves
// this process; signing is deliberately client-side (this is a personal,
// password-gated tool with no trusted backend).
type StorageCredentials struct {
	AccessKey string `json:"accessKey"`
	SecretKey string `json:"secretKey"`
	Bucket    string `json:"bucket"`
	Domain    string `json:"domain"`
	Region    string `json:"region"`
	Filename  string `json:"filename"`
}

// Validate checks that every field needed to build requests is present.
// The signer and stores do not re-check; callers validate before configuring.
func (c StorageCredentials) Validate() error {
	fields := []struct {
		name  string
		value string
	}{
		{"accessKey", c.AccessKey},
		{"secretKey", c.SecretKey},
		{"bucket", c.Bucket},
		{"domain", c.Domain},
		{"region", c.Region},
		{"filename", c.Filename},
	}
	for _, f := range fields {
		if f.value == "" {
			return &ConfigError{Field: f.name}
		}
	}
	return nil
}

package config

import (
	"fmt"
	"os"
)

func WriteTemplate(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(oscctlTemplate), 0o600)
}

const oscctlTemplate = `# oscctl configuration
max_packet_bytes = 65536
max_bundle_depth = 8
encode_buffer_bytes = 1024
log_level = "info"
metrics = false
`

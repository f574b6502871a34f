package uid

import (
	"crypto/sha256"
	"os"
	"strings"

	"github.com/bwmarrin/snowflake"
)

// Snowflake generates time-ordered int64 IDs.
type Snowflake struct {
	node *snowflake.Node
}

// NewSnowflake creates a Snowflake generator whose node number is derived
// from the machine identity, so distinct hosts get distinct node numbers
// without coordination.
func NewSnowflake() (*Snowflake, error) {
	node, err := snowflake.NewNode(nodeNumber())
	if err != nil {
		return nil, err
	}

	return &Snowflake{node: node}, nil
}

// nodeNumber derives a node number in [0, 1023] from /etc/machine-id or
// the hostname, falling back to the pid when neither is available.
func nodeNumber() int64 {
	src := ""
	if b, err := os.ReadFile("/etc/machine-id"); err == nil {
		src = strings.TrimSpace(string(b))
	}
	if src == "" {
		if h, err := os.Hostname(); err == nil {
			src = strings.TrimSpace(h)
		}
	}
	if src == "" {
		return int64(os.Getpid()) % 1024
	}

	sum := sha256.Sum256([]byte(src))
	return int64(uint16(sum[0])<<8|uint16(sum[1])) % 1024
}

// Generate returns a new snowflake ID.
func (s *Snowflake) Generate() int64 {
	return s.node.Generate().Int64()
}

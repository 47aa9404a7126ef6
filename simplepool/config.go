package simplepool

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strconv"
	"time"

	"github.com/jackc/pgpassfile"
	"github.com/jackc/pgservicefile"
)

var (
	defaultMaxConnsPerNode   = int32(4)
	defaultMaxConnLifetime   = time.Hour
	defaultMaxConnIdleTime   = time.Minute * 30
	defaultHealthCheckPeriod = time.Minute
)

// Config configures a Pool. The zero value is usable: it falls back to
// the OS user name and opens at most defaultMaxConnsPerNode sessions to
// any one node.
type Config struct {
	// User is the session user new sessions authenticate as. Empty means
	// the current OS user.
	User string

	// Passfile, if set, is consulted by ResolvePassword the way libpq
	// consults ~/.pgpass.
	Passfile string

	MaxConnsPerNode   int32
	MaxConnLifetime   time.Duration
	MaxConnIdleTime   time.Duration
	HealthCheckPeriod time.Duration
}

func (c *Config) currentUserName() string {
	if c.User != "" {
		return c.User
	}
	if u, err := user.Current(); err == nil {
		return u.Username
	}
	return ""
}

func (c *Config) maxConnsPerNode() int32 {
	if c.MaxConnsPerNode <= 0 {
		return defaultMaxConnsPerNode
	}
	return c.MaxConnsPerNode
}

func (c *Config) maxConnLifetime() time.Duration {
	if c.MaxConnLifetime <= 0 {
		return defaultMaxConnLifetime
	}
	return c.MaxConnLifetime
}

func (c *Config) maxConnIdleTime() time.Duration {
	if c.MaxConnIdleTime <= 0 {
		return defaultMaxConnIdleTime
	}
	return c.MaxConnIdleTime
}

func (c *Config) healthCheckPeriod() time.Duration {
	if c.HealthCheckPeriod <= 0 {
		return defaultHealthCheckPeriod
	}
	return c.HealthCheckPeriod
}

// ResolvePassword looks up a password for (nodeName, nodePort) in
// Passfile, mirroring pgconn's use of pgpassfile.ReadPassfile and
// Passfile.FindPassword. database is matched against the passfile's
// database field; "*" in the file matches any value. An empty string is
// returned, without error, if nothing matches.
func (c *Config) ResolvePassword(nodeName string, nodePort uint16, database string) (string, error) {
	if c.Passfile == "" {
		return "", nil
	}

	passfile, err := pgpassfile.ReadPassfile(c.Passfile)
	if err != nil {
		return "", fmt.Errorf("simplepool: read passfile: %w", err)
	}

	return passfile.FindPassword(nodeName, strconv.Itoa(int(nodePort)), database, c.currentUserName()), nil
}

// DefaultTarget resolves a (nodeName, nodePort) pair from serviceName in
// servicefile, the pgservicefile equivalent of ResolvePassword's pgpass
// lookup, letting callers name a node instead of hardcoding host:port.
func DefaultTarget(servicefile, serviceName string) (nodeName string, nodePort uint16, err error) {
	f, err := pgservicefile.ReadServicefile(servicefile)
	if err != nil {
		return "", 0, fmt.Errorf("simplepool: read servicefile: %w", err)
	}

	service, err := f.GetService(serviceName)
	if err != nil {
		return "", 0, fmt.Errorf("simplepool: service %q: %w", serviceName, err)
	}

	port := uint16(5432)
	if service.Port != "" {
		p, err := strconv.ParseUint(service.Port, 10, 16)
		if err != nil {
			return "", 0, fmt.Errorf("simplepool: invalid port in service %q: %w", serviceName, err)
		}
		port = uint16(p)
	}

	return service.Host, port, nil
}

// defaultPassfilePath mirrors pgconn's defaultSettings: ~/.pgpass if the
// current user and their home directory can be determined.
func defaultPassfilePath() string {
	u, err := user.Current()
	if err != nil || u.HomeDir == "" {
		return ""
	}
	path := filepath.Join(u.HomeDir, ".pgpass")
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/joelgerard/healthsync/pkg/utils"
)

// SyncPair describes one mirroring task: a source directory that is the
// authoritative copy of the data, and a destination directory that must
// become its exact replica.
type SyncPair struct {
	Name   string `mapstructure:"name"`
	Source string `mapstructure:"source"`
	Dest   string `mapstructure:"dest"`
}

// SnapshotConfig controls the optional timestamped copies taken of each
// destination right before it gets mirrored.
type SnapshotConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Dir     string `mapstructure:"dir"`
	Keep    int    `mapstructure:"keep"`
}

// Config holds all the settings of a sync run.
type Config struct {
	// BackupRoot is the directory that relative destinations are resolved
	// against.
	BackupRoot string `mapstructure:"backupRoot"`
	// RsyncPath is the file transfer tool to invoke.
	RsyncPath string `mapstructure:"rsyncPath"`
	// Quiet suppresses the per-file progress output of the transfer tool.
	Quiet bool `mapstructure:"quiet"`
	// Snapshots configures pre-sync copies of the destinations.
	Snapshots SnapshotConfig `mapstructure:"snapshots"`
	// Pairs are the directories to mirror, processed in order.
	Pairs []SyncPair `mapstructure:"pairs"`
}

const (
	defaultBackupRoot   = "/backup/joel"
	defaultRsyncPath    = "rsync"
	defaultSnapshotKeep = 3
	snapshotsDirName    = ".snapshots"
)

// EnvPrefix is the prefix of the environment variables that override
// configuration values.
var EnvPrefix = strings.ToUpper(utils.ProjectName)

// Default returns the built-in configuration, which reproduces the
// historical backup layout of the health exports. Pair destinations are
// kept relative so that they follow the backup root when it gets
// overridden.
func Default() *Config {
	return &Config{
		BackupRoot: defaultBackupRoot,
		RsyncPath:  defaultRsyncPath,
		Snapshots: SnapshotConfig{
			Enabled: false,
			Keep:    defaultSnapshotKeep,
		},
		Pairs: []SyncPair{
			{Name: "HealthData", Source: "/data/health/HealthData", Dest: "HealthData"},
			{Name: "DBs", Source: "/data/health/DBs", Dest: "DBs"},
		},
	}
}

// Load reads the configuration from the file at path, or from
// ~/.healthsync.yaml when path is empty. A missing default file is not an
// error: the built-in defaults apply. Environment variables prefixed with
// HEALTHSYNC_ override file values. Returns a non-nil error in case of
// failure.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetFs(fs)

	defaults := Default()
	v.SetDefault("backupRoot", defaults.BackupRoot)
	v.SetDefault("rsyncPath", defaults.RsyncPath)
	v.SetDefault("quiet", defaults.Quiet)
	v.SetDefault("snapshots.enabled", defaults.Snapshots.Enabled)
	v.SetDefault("snapshots.dir", "")
	v.SetDefault("snapshots.keep", defaults.Snapshots.Keep)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := readConfigFile(v, path); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("can't parse configuration: %w", err)
	}
	if len(cfg.Pairs) == 0 {
		logrus.Debug("no sync pairs configured, using the built-in ones")
		cfg.Pairs = defaults.Pairs
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func readConfigFile(v *viper.Viper, path string) error {
	if len(path) > 0 {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("can't read configuration file %q: %w", path, err)
		}
		logrus.Debugf("loaded configuration from %s", path)
		return nil
	}

	home, err := homedir.Dir()
	if err != nil {
		logrus.Debug("can't locate home directory, using built-in defaults")
		return nil
	}
	v.AddConfigPath(home)
	v.SetConfigName("." + utils.ProjectName)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			logrus.Debug("no configuration file found, using built-in defaults")
			return nil
		}
		return fmt.Errorf("can't read configuration file: %w", err)
	}
	logrus.Debugf("loaded configuration from %s", v.ConfigFileUsed())
	return nil
}

// normalize expands ~ prefixes, cleans every path, and resolves relative
// destinations against the backup root. Empty fields are left for validate
// to report.
func (c *Config) normalize() error {
	root, err := expandPath(c.BackupRoot)
	if err != nil {
		return err
	}
	c.BackupRoot = root

	if c.Snapshots.Keep < 1 {
		c.Snapshots.Keep = defaultSnapshotKeep
	}
	if len(c.Snapshots.Dir) == 0 && len(root) > 0 {
		c.Snapshots.Dir = filepath.Join(root, snapshotsDirName)
	} else if len(c.Snapshots.Dir) > 0 {
		dir, err := expandPath(c.Snapshots.Dir)
		if err != nil {
			return err
		}
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(root, dir)
		}
		c.Snapshots.Dir = dir
	}

	for i := range c.Pairs {
		p := &c.Pairs[i]
		if p.Source, err = expandPath(p.Source); err != nil {
			return err
		}
		if p.Dest, err = expandPath(p.Dest); err != nil {
			return err
		}
		if len(p.Dest) > 0 && !filepath.IsAbs(p.Dest) {
			p.Dest = filepath.Join(root, p.Dest)
		}
	}
	return nil
}

func expandPath(path string) (string, error) {
	if len(path) == 0 {
		return path, nil
	}
	expanded, err := homedir.Expand(path)
	if err != nil {
		return "", fmt.Errorf("can't expand path %q: %w", path, err)
	}
	return filepath.Clean(expanded), nil
}

// validate returns a non-nil error in case something is wrong with the
// configuration.
func (c *Config) validate() error {
	var err error
	if len(c.BackupRoot) == 0 {
		err = multierror.Append(fmt.Errorf("must define a backup root"), err)
	} else if !filepath.IsAbs(c.BackupRoot) {
		err = multierror.Append(fmt.Errorf("backup root %q must be an absolute path", c.BackupRoot), err)
	}
	if len(c.RsyncPath) == 0 {
		err = multierror.Append(fmt.Errorf("must define a transfer tool path"), err)
	}

	names := make(map[string]bool)
	dests := make(map[string]bool)
	for i, p := range c.Pairs {
		if len(p.Name) == 0 {
			err = multierror.Append(fmt.Errorf("must define a name for sync pair #%d", i+1), err)
		} else if names[p.Name] {
			err = multierror.Append(fmt.Errorf("sync pair name %q is defined more than once", p.Name), err)
		} else {
			names[p.Name] = true
		}

		if len(p.Source) == 0 {
			err = multierror.Append(fmt.Errorf("must define a source for sync pair #%d", i+1), err)
		} else if !filepath.IsAbs(p.Source) {
			err = multierror.Append(fmt.Errorf("source %q of sync pair #%d must be an absolute path", p.Source, i+1), err)
		}

		if len(p.Dest) == 0 {
			err = multierror.Append(fmt.Errorf("must define a destination for sync pair #%d", i+1), err)
		} else if dests[p.Dest] {
			err = multierror.Append(fmt.Errorf("destination %q is defined more than once", p.Dest), err)
		} else {
			dests[p.Dest] = true
		}
	}
	return err
}

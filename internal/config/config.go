// Copyright 2026 The namedbloom Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package config loads namedbloom settings.  Values come from an optional
// TOML file, then the environment, then command line flags, with later
// sources overriding earlier ones.
package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/pflag"

	"github.com/bpowers/namedbloom"
	"github.com/bpowers/namedbloom/internal/align"
	"github.com/bpowers/namedbloom/internal/archive"
	"github.com/bpowers/namedbloom/internal/fieldhash"
)

// Environment variables consulted by ApplyEnv.
const (
	EnvKey         = "ENV_BLOOM_TARGET_KEY"
	EnvFormat      = "NAMEDBLOOM_FORMAT"
	EnvDigest      = "NAMEDBLOOM_DIGEST"
	EnvAlign       = "NAMEDBLOOM_ALIGN"
	EnvBufferSize  = "NAMEDBLOOM_BUFFER_SIZE"
	EnvS3Endpoint  = "NAMEDBLOOM_S3_ENDPOINT"
	EnvS3Region    = "NAMEDBLOOM_S3_REGION"
	EnvS3AccessKey = "NAMEDBLOOM_S3_ACCESS_KEY"
	EnvS3SecretKey = "NAMEDBLOOM_S3_SECRET_KEY"
	EnvS3Insecure  = "NAMEDBLOOM_S3_INSECURE"
)

// ErrMissingKey means no source supplied the JSON field to fingerprint.
var ErrMissingKey = errors.New("no target key configured (set key, " + EnvKey + " or --key)")

// S3 holds the object store settings.  An empty Endpoint disables s3://
// archive names.
type S3 struct {
	Endpoint  string `toml:"endpoint"`
	Region    string `toml:"region"`
	AccessKey string `toml:"access_key"`
	SecretKey string `toml:"secret_key"`
	Insecure  bool   `toml:"insecure"`
}

func (s S3) Enabled() bool {
	return s.Endpoint != ""
}

// Archive converts s to the opener's configuration.
func (s S3) Archive() archive.S3Config {
	return archive.S3Config{
		Endpoint:  s.Endpoint,
		Region:    s.Region,
		AccessKey: s.AccessKey,
		SecretKey: s.SecretKey,
		Insecure:  s.Insecure,
	}
}

// Config is the complete set of namedbloom settings.  The enumerated
// fields hold the string forms accepted by the matching Parse functions.
type Config struct {
	Key        string `toml:"key"`
	Format     string `toml:"format"`
	Digest     string `toml:"digest"`
	Align      string `toml:"align"`
	BufferSize int    `toml:"buffer_size"`
	S3         S3     `toml:"s3"`
}

// Default returns the settings used when nothing else is configured.
func Default() Config {
	return Config{
		Format: namedbloom.FormatGeneric.String(),
		Digest: "sha256",
		Align:  align.Truncate.String(),
	}
}

// LoadFile overlays the TOML file at path onto c.  Unknown keys are an
// error, since a misspelled key would otherwise be silently ignored.
func (c *Config) LoadFile(path string) error {
	md, err := toml.DecodeFile(path, c)
	if err != nil {
		return fmt.Errorf("toml.DecodeFile(%s): %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return fmt.Errorf("config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return nil
}

// ApplyEnv overlays any variables set in the environment onto c.  getenv
// is normally os.Getenv.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	setString := func(dst *string, name string) {
		if v := getenv(name); v != "" {
			*dst = v
		}
	}
	setString(&c.Key, EnvKey)
	setString(&c.Format, EnvFormat)
	setString(&c.Digest, EnvDigest)
	setString(&c.Align, EnvAlign)
	setString(&c.S3.Endpoint, EnvS3Endpoint)
	setString(&c.S3.Region, EnvS3Region)
	setString(&c.S3.AccessKey, EnvS3AccessKey)
	setString(&c.S3.SecretKey, EnvS3SecretKey)

	if v := getenv(EnvBufferSize); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvBufferSize, err)
		}
		c.BufferSize = n
	}
	if v := getenv(EnvS3Insecure); v != "" {
		insecure, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvS3Insecure, err)
		}
		c.S3.Insecure = insecure
	}
	return nil
}

// Flags holds the command line overrides.  Only flags the user actually
// passed are applied.
type Flags struct {
	fs         *pflag.FlagSet
	key        string
	format     string
	digest     string
	align      string
	bufferSize int
}

// AddFlags registers the override flags on fs.
func AddFlags(fs *pflag.FlagSet) *Flags {
	f := &Flags{fs: fs}
	fs.StringVarP(&f.key, "key", "k", "", "JSON field to fingerprint (overrides "+EnvKey+")")
	fs.StringVarP(&f.format, "format", "f", "", "output format: generic, fixed, der or cbor")
	fs.StringVar(&f.digest, "digest", "", "value digest: sha256 or farm")
	fs.StringVar(&f.align, "align", "", "name/record count mismatch handling: truncate or strict")
	fs.IntVar(&f.bufferSize, "buffer-size", 0, "output buffer size in bytes")
	return f
}

// Apply overlays the flags that were set onto c.
func (f *Flags) Apply(c *Config) {
	if f.fs.Changed("key") {
		c.Key = f.key
	}
	if f.fs.Changed("format") {
		c.Format = f.format
	}
	if f.fs.Changed("digest") {
		c.Digest = f.digest
	}
	if f.fs.Changed("align") {
		c.Align = f.align
	}
	if f.fs.Changed("buffer-size") {
		c.BufferSize = f.bufferSize
	}
}

// Validate checks that c names a key and that every enumerated setting
// is known.
func (c *Config) Validate() error {
	if c.Key == "" {
		return ErrMissingKey
	}
	if _, err := c.OutputFormat(); err != nil {
		return err
	}
	if _, err := c.DigestFunc(); err != nil {
		return err
	}
	if _, err := c.AlignMode(); err != nil {
		return err
	}
	if c.BufferSize < 0 {
		return fmt.Errorf("buffer_size must not be negative, got %d", c.BufferSize)
	}
	return nil
}

func (c *Config) OutputFormat() (namedbloom.Format, error) {
	return namedbloom.ParseFormat(c.Format)
}

func (c *Config) DigestFunc() (fieldhash.Digest, error) {
	return fieldhash.ParseDigest(c.Digest)
}

func (c *Config) AlignMode() (align.Mode, error) {
	return align.ParseMode(c.Align)
}

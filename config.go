package docdelve

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/c2h5oh/datasize"
	"github.com/creasty/defaults"
	"github.com/pelletier/go-toml/v2"
)

// Config is the operator-tunable configuration for a ChestDatabase,
// the docdelve analog of the teacher's Config: loaded the same way
// (github.com/pelletier/go-toml/v2 onto a defaults.MustSet-populated
// struct), but trimmed to the fields a chest database actually needs.
// There is no server/wildcard/storage-backend section here: a chest
// database has one on-disk root and no network surface of its own.
type Config struct {
	// DataDir is the directory scanned for installed *.ddchest files
	// (spec §7).
	DataDir string `toml:"data-dir" default:"./data"`

	Limits LimitsConfig `toml:"limits"`
}

// LimitsConfig bounds the sizes and counts a database operator would
// need to tune, mirroring the teacher's LimitsConfig field-for-field in
// style (github.com/c2h5oh/datasize for byte sizes).
type LimitsConfig struct {
	// DefaultResultCount is the number of results Search returns when the
	// caller does not specify one (spec §4.3).
	DefaultResultCount uint `toml:"default-result-count" default:"20"`
	// MaxManifestSize is a configurable limit for the decompressed size
	// of a chest's _chest_contents.json. The database does not consult
	// it: a manifest is read like any other member, under
	// MaxArchiveMemberSize.
	MaxManifestSize datasize.ByteSize `toml:"max-manifest-size" default:"16M"`
	// MaxArchiveMemberSize bounds the decompressed size of any single
	// archive member read into memory by Chest.Read.
	MaxArchiveMemberSize datasize.ByteSize `toml:"max-archive-member-size" default:"64M"`
	// SearchCacheSize is the maximum total weight of the search-result
	// cache shared across chests, where each cached result set weighs its
	// number of results plus one (spec §4.3 "repeated queries against an
	// unchanged chest should be cheap").
	SearchCacheSize uint `toml:"search-cache-size" default:"256"`
}

// DebugJSON renders config as indented JSON for diagnostics, mirroring
// the teacher's Config.DebugJSON.
func (config *Config) DebugJSON() string {
	result, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		panic(err)
	}
	return string(result)
}

// Configure loads a Config from tomlPath, applying defaults first via
// github.com/creasty/defaults and then decoding the TOML file over them,
// the same two-step shape as the teacher's Configure. Unlike the
// teacher, there is no environment-variable override pass: a library
// embedded into a generator or server has no business reading process
// environment on its own, so that concern is left to the embedder.
func Configure(tomlPath string) (*Config, error) {
	config := new(Config)
	defaults.MustSet(config)

	if tomlPath == "" {
		return config, nil
	}

	file, err := os.Open(tomlPath)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	decoder := toml.NewDecoder(file)
	decoder.DisallowUnknownFields()
	decoder.EnableUnmarshalerInterface()
	if err := decoder.Decode(config); err != nil {
		return nil, newErr(KindConfigError, tomlPath, err)
	}

	return config, nil
}

package main

import (
	"os"
	"strconv"

	"github.com/cwbudde/anicons"
	"github.com/joho/godotenv"
	"github.com/ossrs/go-oryx-lib/errors"
)

const (
	envOutputDir       = "ANICONS_OUTPUT_DIR"
	envMaxChunkSize    = "ANICONS_MAX_CHUNK_SIZE"
	envSkipWriteErrors = "ANICONS_SKIP_WRITE_ERRORS"
	envLeaf            = "ANICONS_LEAF"
)

type config struct {
	OutputDir       string
	MaxChunkSize    uint32
	SkipWriteErrors bool
	Leaf            [4]byte
}

func defaultConfig() config {
	return config{
		MaxChunkSize: anicons.DefaultMaxPayloadSize,
		Leaf:         anicons.CIDIcon,
	}
}

// loadConfig layers the dotenv file, then the process environment, over the
// defaults. A missing env file is not an error.
func loadConfig(envFile string) (config, error) {
	conf := defaultConfig()

	envs := map[string]string{}
	if envFile != "" {
		fileEnvs, err := godotenv.Read(envFile)
		if err != nil && !os.IsNotExist(err) {
			return conf, errors.Wrapf(err, "load %v", envFile)
		}

		for k, v := range fileEnvs {
			envs[k] = v
		}
	}

	for _, k := range []string{envOutputDir, envMaxChunkSize, envSkipWriteErrors, envLeaf} {
		if v, ok := os.LookupEnv(k); ok {
			envs[k] = v
		}
	}

	if v, ok := envs[envOutputDir]; ok {
		conf.OutputDir = v
	}

	if v, ok := envs[envMaxChunkSize]; ok {
		n, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return conf, errors.Wrapf(err, "parse %v=%v", envMaxChunkSize, v)
		}

		conf.MaxChunkSize = uint32(n)
	}

	if v, ok := envs[envSkipWriteErrors]; ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return conf, errors.Wrapf(err, "parse %v=%v", envSkipWriteErrors, v)
		}

		conf.SkipWriteErrors = b
	}

	if v, ok := envs[envLeaf]; ok {
		id, err := parseFourCC(v)
		if err != nil {
			return conf, errors.Wrapf(err, "parse %v", envLeaf)
		}

		conf.Leaf = id
	}

	return conf, nil
}

func parseFourCC(s string) ([4]byte, error) {
	var id [4]byte
	if len(s) != len(id) {
		return id, errors.Errorf("chunk id %q must be 4 bytes", s)
	}

	copy(id[:], s)

	return id, nil
}

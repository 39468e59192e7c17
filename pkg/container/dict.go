package container

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/klauspost/compress/zstd"

	cfg "github.com/1F47E/go-dotreel/pkg/config"
)

// RawDictID tags frames compressed with a raw content dictionary.
const RawDictID = 0x0d07ee1

var zstdDictMagic = []byte{0x37, 0xa4, 0x30, 0xec}

var ErrNoDictionary = errors.New("container: dictionary not found")

// LoadDictionary reads the shared dictionary. Encoder and decoder must load
// byte-identical copies.
func LoadDictionary(path string) ([]byte, error) {
	dict, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNoDictionary, path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading dictionary %s: %w", path, err)
	}
	if len(dict) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", ErrNoDictionary, path)
	}
	return dict, nil
}

// IsTrained reports whether dict is a zstd dictionary rather than raw content.
func IsTrained(dict []byte) bool {
	return bytes.HasPrefix(dict, zstdDictMagic)
}

func encoderOptions(dict []byte) []zstd.EOption {
	opts := []zstd.EOption{
		zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(cfg.CompressionLevel)),
	}
	if IsTrained(dict) {
		return append(opts, zstd.WithEncoderDict(dict))
	}
	return append(opts, zstd.WithEncoderDictRaw(RawDictID, dict))
}

func decoderOptions(dict []byte) []zstd.DOption {
	if IsTrained(dict) {
		return []zstd.DOption{zstd.WithDecoderDicts(dict)}
	}
	return []zstd.DOption{zstd.WithDecoderDictRaw(RawDictID, dict)}
}

package cli

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/tcfw/forkchain/pkg/chain"
	"gopkg.in/yaml.v3"
)

// chainFile is the on disk form of a header list. The first header is the
// ancestor every following header extends.
type chainFile struct {
	Hasher  string         `yaml:"hasher,omitempty"`
	Headers []chain.Header `yaml:"headers"`
}

func writeChainFile(path string, f *chainFile) error {
	var w io.Writer = os.Stdout
	if path != "" && path != "-" {
		fd, err := os.Create(path)
		if err != nil {
			return errors.Wrap(err, "creating chain file")
		}
		defer fd.Close()
		w = fd
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return errors.Wrap(err, "encoding chain file")
	}

	return enc.Close()
}

func readChainFile(path string) (*chainFile, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		fd, err := os.Open(path)
		if err != nil {
			return nil, errors.Wrap(err, "opening chain file")
		}
		defer fd.Close()
		r = fd
	}

	f := &chainFile{}
	if err := yaml.NewDecoder(r).Decode(f); err != nil {
		return nil, errors.Wrap(err, "decoding chain file")
	}

	if len(f.Headers) == 0 {
		return nil, errors.New("chain file has no headers")
	}

	return f, nil
}

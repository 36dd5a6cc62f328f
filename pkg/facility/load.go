package facility

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/golang/snappy"
	"gopkg.in/yaml.v3"
)

// Format identifies the encoding of a facility description.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

// String returns the string representation of a format
func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	default:
		return "unknown"
	}
}

// ErrUnsupportedFormat is returned for sources whose extension is not recognised.
var ErrUnsupportedFormat = errors.New("unsupported facility format")

//go:embed data/campus.json
var sampleCampus []byte

// Sample returns the built-in four-floor campus description.
func Sample() (*Description, error) {
	return Decode(bytes.NewReader(sampleCampus), FormatJSON)
}

// Source describes where a description lives and how it is encoded.
type Source struct {
	Location   string
	Format     Format
	Compressed bool
	Bucket     string
	Key        string
}

// IsS3 reports whether the source points at an S3 object.
func (s Source) IsS3() bool {
	return s.Bucket != ""
}

// ParseSource interprets a path or s3://bucket/key URL.
// A trailing ".sz" marks snappy block compression; the extension before it selects the format.
func ParseSource(location string) (Source, error) {
	src := Source{Location: location}
	name := location

	if rest, ok := strings.CutPrefix(location, "s3://"); ok {
		bucket, key, found := strings.Cut(rest, "/")
		if !found || bucket == "" || key == "" {
			return Source{}, fmt.Errorf("invalid S3 location %q: want s3://bucket/key", location)
		}
		src.Bucket, src.Key = bucket, key
		name = key
	}

	lower := strings.ToLower(name)
	if trimmed, ok := strings.CutSuffix(lower, ".sz"); ok {
		src.Compressed = true
		lower = trimmed
	}

	switch path.Ext(lower) {
	case ".json":
		src.Format = FormatJSON
	case ".yaml", ".yml":
		src.Format = FormatYAML
	default:
		return Source{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, location)
	}
	return src, nil
}

// Decode parses and validates a description from r.
func Decode(r io.Reader, format Format) (*Description, error) {
	var d Description

	switch format {
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&d); err != nil {
			return nil, fmt.Errorf("%w: decode json: %v", ErrInvalidFacility, err)
		}
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&d); err != nil {
			return nil, fmt.Errorf("%w: decode yaml: %v", ErrInvalidFacility, err)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}

	if err := Validate(&d); err != nil {
		return nil, err
	}
	return &d, nil
}

// Load reads a description from a local file or S3 object. Any failure is
// fatal for the caller; no partially decoded description is ever returned.
func Load(ctx context.Context, location string, opts ...LoadOption) (*Description, error) {
	cfg := loadOptions{}
	for _, opt := range opts {
		opt(&cfg)
	}

	src, err := ParseSource(location)
	if err != nil {
		return nil, err
	}

	var raw []byte
	if src.IsS3() {
		raw, err = fetchS3(ctx, src, cfg)
	} else {
		raw, err = os.ReadFile(src.Location)
	}
	if err != nil {
		return nil, fmt.Errorf("read facility %s: %w", location, err)
	}

	if src.Compressed {
		raw, err = snappy.Decode(nil, raw)
		if err != nil {
			return nil, fmt.Errorf("%w: snappy decode %s: %v", ErrInvalidFacility, location, err)
		}
	}

	return Decode(bytes.NewReader(raw), src.Format)
}

// Encode writes d in the given format, snappy-compressing the result when compress is set.
func Encode(w io.Writer, d *Description, format Format, compress bool) error {
	var (
		data []byte
		err  error
	)
	switch format {
	case FormatJSON:
		data, err = json.MarshalIndent(d, "", "  ")
	case FormatYAML:
		data, err = yaml.Marshal(d)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return fmt.Errorf("encode facility: %w", err)
	}

	if compress {
		data = snappy.Encode(nil, data)
	}
	_, err = w.Write(data)
	return err
}

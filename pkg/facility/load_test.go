package facility

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/golang/snappy"
)

func TestSample(t *testing.T) {
	d, err := Sample()
	if err != nil {
		t.Fatalf("Sample() failed: %v", err)
	}

	if len(d.Floors) != 4 {
		t.Errorf("Expected 4 floors, got %d", len(d.Floors))
	}

	keys := d.FloorKeys()
	want := []string{"groundFloor", "firstFloor", "secondFloor", "thirdFloor"}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("FloorKeys()[%d] = %q, want %q", i, keys[i], want[i])
		}
	}

	if _, ok := d.QuickAccess["printing"]; !ok {
		t.Error("Expected printing quick access entry")
	}
}

func TestParseSource(t *testing.T) {
	tests := []struct {
		location   string
		format     Format
		compressed bool
		bucket     string
		key        string
		wantErr    bool
	}{
		{"campus.json", FormatJSON, false, "", "", false},
		{"/etc/wayfinder/campus.YAML", FormatYAML, false, "", "", false},
		{"campus.yml.sz", FormatYAML, true, "", "", false},
		{"s3://maps/main/campus.json.sz", FormatJSON, true, "maps", "main/campus.json.sz", false},
		{"s3://maps", 0, false, "", "", true},
		{"campus.toml", 0, false, "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.location, func(t *testing.T) {
			src, err := ParseSource(tt.location)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseSource(%q) expected error", tt.location)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseSource(%q) failed: %v", tt.location, err)
			}
			if src.Format != tt.format || src.Compressed != tt.compressed || src.Bucket != tt.bucket || src.Key != tt.key {
				t.Errorf("ParseSource(%q) = %+v", tt.location, src)
			}
		})
	}
}

func TestLoad_RoundTripFormats(t *testing.T) {
	d, err := Sample()
	if err != nil {
		t.Fatalf("Sample() failed: %v", err)
	}

	dir := t.TempDir()
	cases := []struct {
		name     string
		format   Format
		compress bool
	}{
		{"campus.json", FormatJSON, false},
		{"campus.yaml", FormatYAML, false},
		{"campus.json.sz", FormatJSON, true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := Encode(&buf, d, c.format, c.compress); err != nil {
				t.Fatalf("Encode failed: %v", err)
			}
			p := filepath.Join(dir, c.name)
			if err := os.WriteFile(p, buf.Bytes(), 0o600); err != nil {
				t.Fatalf("WriteFile failed: %v", err)
			}

			loaded, err := Load(context.Background(), p)
			if err != nil {
				t.Fatalf("Load(%s) failed: %v", c.name, err)
			}
			if len(loaded.Floors) != len(d.Floors) {
				t.Errorf("Expected %d floors, got %d", len(d.Floors), len(loaded.Floors))
			}
			if len(loaded.Faculty) != len(d.Faculty) {
				t.Errorf("Expected %d faculty, got %d", len(d.Faculty), len(loaded.Faculty))
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "nope.json"))
	if err == nil {
		t.Fatal("Expected error for missing file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected os.ErrNotExist, got %v", err)
	}
}

func TestLoad_CorruptSnappy(t *testing.T) {
	p := filepath.Join(t.TempDir(), "campus.json.sz")
	if err := os.WriteFile(p, []byte("definitely not snappy"), 0o600); err != nil {
		t.Fatal(err)
	}
	_, err := Load(context.Background(), p)
	if !errors.Is(err, ErrInvalidFacility) {
		t.Errorf("Expected ErrInvalidFacility, got %v", err)
	}
}

type fakeS3 struct {
	objects map[string][]byte
	calls   int
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.calls++
	data, ok := f.objects[*in.Bucket+"/"+*in.Key]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func TestLoad_S3(t *testing.T) {
	compressed := snappy.Encode(nil, sampleCampus)
	client := &fakeS3{objects: map[string][]byte{
		"maps/campus.json.sz": compressed,
	}}

	d, err := Load(context.Background(), "s3://maps/campus.json.sz", WithS3Client(client))
	if err != nil {
		t.Fatalf("Load from S3 failed: %v", err)
	}
	if client.calls != 1 {
		t.Errorf("Expected 1 GetObject call, got %d", client.calls)
	}
	if len(d.Floors) != 4 {
		t.Errorf("Expected 4 floors, got %d", len(d.Floors))
	}

	_, err = Load(context.Background(), "s3://maps/missing.json", WithS3Client(client))
	if err == nil || !strings.Contains(err.Error(), "s3://maps/missing.json") {
		t.Errorf("Expected wrapped S3 error, got %v", err)
	}
}

func TestDecode_UnknownField(t *testing.T) {
	doc := `{"floors": {"g": {"name": "G", "level": 0, "locations": [{"id": "a", "name": "A", "type": "room"}]}}, "bogus": 1}`
	_, err := Decode(strings.NewReader(doc), FormatJSON)
	if !errors.Is(err, ErrInvalidFacility) {
		t.Errorf("Expected ErrInvalidFacility, got %v", err)
	}
}

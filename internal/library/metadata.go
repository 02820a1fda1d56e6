package library

import (
	"fmt"
	"os"
	"time"

	"github.com/barasher/go-exiftool"
	"k8s.io/klog/v2"
)

const exifDate = "2006:01:02 15:04:05"

// Metadata is what the scanner needs from a file beyond its path.
type Metadata struct {
	TakenAt time.Time
	Make    string
	Model   string
	Width   int64
	Height  int64
}

// MetadataReader extracts capture metadata from one file.
type MetadataReader interface {
	Read(path string) (Metadata, error)
	Close() error
}

// ExiftoolReader reads metadata through a long-running exiftool process.
type ExiftoolReader struct {
	et *exiftool.Exiftool
}

func NewExiftoolReader() (*ExiftoolReader, error) {
	et, err := exiftool.NewExiftool()
	if err != nil {
		return nil, fmt.Errorf("start exiftool: %w", err)
	}
	return &ExiftoolReader{et: et}, nil
}

func (r *ExiftoolReader) Read(path string) (Metadata, error) {
	fis := r.et.ExtractMetadata(path)
	if len(fis) == 0 {
		return Metadata{}, fmt.Errorf("no metadata for %q", path)
	}
	fi := fis[0]
	if fi.Err != nil {
		return Metadata{}, fmt.Errorf("extract fail for %q: %w", path, fi.Err)
	}

	var m Metadata
	var err error
	m.Make, err = fi.GetString("Make")
	if err != nil {
		klog.V(2).Infof("unable to get make for %s: %v", path, err)
	}
	m.Model, err = fi.GetString("Model")
	if err != nil {
		klog.V(2).Infof("unable to get model for %s: %v", path, err)
	}
	m.Width, err = fi.GetInt("ImageWidth")
	if err != nil {
		klog.V(2).Infof("unable to get width for %s: %v", path, err)
	}
	m.Height, err = fi.GetInt("ImageHeight")
	if err != nil {
		klog.V(2).Infof("unable to get height for %s: %v", path, err)
	}

	ds, err := fi.GetString("DateTimeOriginal")
	if err != nil {
		ds, err = fi.GetString("CreateDate")
	}
	if err != nil {
		klog.V(1).Infof("unable to get date time for %s: %v", path, err)
		return m, nil
	}
	m.TakenAt, err = time.ParseInLocation(exifDate, ds, time.Local)
	if err != nil {
		return m, fmt.Errorf("parse time %q: %w", ds, err)
	}
	return m, nil
}

func (r *ExiftoolReader) Close() error {
	return r.et.Close()
}

// StatReader falls back to the file's modification time when exiftool is not
// installed. It never reports a camera, so no bursts are detected.
type StatReader struct{}

func (StatReader) Read(path string) (Metadata, error) {
	st, err := os.Stat(path)
	if err != nil {
		return Metadata{}, err
	}
	return Metadata{TakenAt: st.ModTime()}, nil
}

func (StatReader) Close() error { return nil }

// DefaultReader prefers exiftool and falls back to StatReader.
func DefaultReader(useExiftool bool) MetadataReader {
	if !useExiftool {
		return StatReader{}
	}
	r, err := NewExiftoolReader()
	if err != nil {
		klog.Warningf("%v; falling back to file times", err)
		return StatReader{}
	}
	return r
}

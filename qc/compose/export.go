package compose

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ankurkotwal/quotecard/qc/common"
)

// ExportedFile is an encoded image ready to be saved
type ExportedFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// Sink delivers an exported file to the user
type Sink interface {
	Save(file ExportedFile) error
}

// SinkFunc adapts a function to a Sink
type SinkFunc func(file ExportedFile) error

// Save calls f(file)
func (f SinkFunc) Save(file ExportedFile) error { return f(file) }

// FileSink writes exported files into Dir
type FileSink struct {
	Dir string
}

// Save writes file to Dir, replacing any previous export
func (s FileSink) Save(file ExportedFile) error {
	if err := os.MkdirAll(s.Dir, os.ModePerm); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.Dir, file.Name), file.Data, 0644)
}

var errAlreadyExported = errors.New("composition already exported")

// Export encodes result as PNG and hands it to sink. A result can only be
// exported once.
func Export(result *CompositionResult, sink Sink) (ExportedFile, error) {
	if result == nil || result.Surface == nil {
		return ExportedFile{}, &common.ExportError{Op: "encode", Err: errors.New("no surface")}
	}
	if result.exported {
		return ExportedFile{}, &common.ExportError{Op: "encode", Err: errAlreadyExported}
	}
	result.exported = true

	var imgBytes bytes.Buffer
	if err := result.Surface.Encode(&imgBytes); err != nil {
		return ExportedFile{}, &common.ExportError{Op: "encode", Err: err}
	}
	file := ExportedFile{
		Name:        common.ExportFilename,
		ContentType: common.ExportContentType,
		Data:        imgBytes.Bytes(),
	}
	// Release the raster, it is not needed once encoded
	result.Surface = nil

	if sink != nil {
		if err := sink.Save(file); err != nil {
			return ExportedFile{}, &common.ExportError{Op: fmt.Sprintf("save %s", file.Name), Err: err}
		}
	}
	return file, nil
}

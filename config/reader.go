package config

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"go.viam.com/swerve/utils"
)

// Format is the encoding of a configuration file.
type Format int

// Supported formats.
const (
	FormatJSON Format = iota
	FormatYAML
)

// FormatFromPath picks the format from a file extension. Anything but .yaml and .yml is JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

func readAttributes(r io.Reader, format Format) (utils.AttributeMap, error) {
	attrs := utils.AttributeMap{}
	var err error
	switch format {
	case FormatYAML:
		err = yaml.NewDecoder(r).Decode(&attrs)
	default:
		err = json.NewDecoder(r).Decode(&attrs)
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return attrs, nil
}

// DriveFromReader decodes a drive file. Module files are not followed.
func DriveFromReader(r io.Reader, format Format) (*Drive, error) {
	attrs, err := readAttributes(r, format)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode drive config")
	}
	return utils.TransformAttributeMap[*Drive](attrs)
}

// ModuleFromReader decodes a module file.
func ModuleFromReader(r io.Reader, format Format) (*Module, error) {
	attrs, err := readAttributes(r, format)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode module config")
	}
	return utils.TransformAttributeMap[*Module](attrs)
}

func readFile[T any](path string, decode func(io.Reader, Format) (T, error)) (T, error) {
	//nolint:gosec
	f, err := os.Open(path)
	if err != nil {
		var zero T
		return zero, err
	}
	defer func() {
		_ = f.Close()
	}()
	out, err := decode(f, FormatFromPath(path))
	if err != nil {
		return out, errors.Wrapf(err, "reading %s", path)
	}
	return out, nil
}

// Read loads the drive file at path, every module file it lists, and validates the result.
// Module paths are relative to the drive file's directory.
func Read(path string) (*Drive, error) {
	drive, err := readFile(path, DriveFromReader)
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(path)
	drive.Modules = make([]Module, 0, len(drive.ModuleFiles))
	for _, name := range drive.ModuleFiles {
		modulePath := name
		if !filepath.IsAbs(modulePath) {
			modulePath = filepath.Join(dir, name)
		}
		m, err := readFile(modulePath, ModuleFromReader)
		if err != nil {
			return nil, err
		}
		m.Name = strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
		drive.Modules = append(drive.Modules, *m)
	}
	if err := drive.Validate("drive"); err != nil {
		return nil, err
	}
	return drive, nil
}

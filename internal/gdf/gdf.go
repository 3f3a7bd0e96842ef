// Package gdf has functions for loading grammars using the GDF (Grammar
// Definition File) format, a TOML-based format that bundles grammar rules with
// sample inputs to derive against them.
//
// A GDF file starts with a header giving its format and type:
//
//	format = "LLG"
//	type = "DATA"
//
// A DATA file may contain a [grammar] table with the rules and any number of
// [[input]] tables. A MANIFEST file lists other files to include with a
// 'files' key. Any file without a GDF header is read as plain rule text.
package gdf

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/BurntSushi/toml"
)

const (
	MaxManifestRecursionDepth = 32

	// FormatName is the value the 'format' key of every GDF file must have.
	FormatName = "LLG"
)

var (
	// ErrManifestEmpty is the error returned when a manifest file is read
	// successfully but specifies no additional files to load.
	ErrManifestEmpty = errors.New("does not list any valid files to include")

	// ErrManifestStackOverflow is the error returned when the recusion level of
	// MaxManifestRecursionDepth is reached and an additional Manifest is then
	// specified, which would cause recursion to go deeper.
	ErrManifestStackOverflow = errors.New("too many manifests deep")

	// ErrManifestCircularRef is the error returned when a manifest specifies any
	// series of files that with their own manifests refer back to the original
	// manifest, and therefore cannot be followed.
	ErrManifestCircularRef = errors.New("manifest inclusion chain refers back to itself")

	// ErrNoRules is the error returned when every file of a bundle has been read
	// and none of them gave any grammar rules.
	ErrNoRules = errors.New("no grammar rules are defined")
)

// Manifest contains data loaded from a GDF Manifest file.
type Manifest struct {
	Files []string
}

// Input is a sample token sequence to derive with the bundle's grammar.
type Input struct {
	// Label names the input. It is unique within a bundle.
	Label string

	// Tokens is the input split into tokens. It never contains the end marker.
	Tokens []string

	// Accept is whether the input is expected to be accepted by the grammar.
	// If nil, there is no expectation.
	Accept *bool
}

// Bundle contains data loaded from one or more GDF files.
type Bundle struct {
	// Name is the name of the grammar. If no file gave one, it is the name of
	// the file the bundle was loaded from without its extension.
	Name string

	// Rules is the grammar rule text of every file, joined in the order the
	// files were included.
	Rules string

	// Inputs has every sample input of every file in the order the files were
	// included.
	Inputs []Input
}

// FileInfo contains the essential information all GDF format files must
// contain. It can be obtained from a file by reading it into memory and calling
// ScanFileInfo on the bytes.
type FileInfo struct {
	Format string `toml:"format"`
	Type   string `toml:"type"`
}

// IsGDF returns whether the info came from a file with a GDF header. Files
// without one are treated as plain grammar rule text.
func (fi FileInfo) IsGDF() bool {
	return fi.Format != ""
}

// LoadResourceBundle loads a grammar up from the given file. The file's type is
// auto-detected and decoding is handled appropriately; it can be a "DATA" type
// file, a "MANIFEST" type file, or plain rule text. If it's manifest type, the
// files listed in it relative to it will also be loaded. All files included
// will be combined into one single set of data before being checked, and if a
// manifest is encountered, all files in it are recursively included.
func LoadResourceBundle(path string) (Bundle, error) {
	unmarshaled, err := recursiveUnmarshalResource(path, nil)
	if err != nil {
		return Bundle{}, err
	}

	bundle, err := parseGrammarData(unmarshaled)
	if err != nil {
		return bundle, err
	}

	if bundle.Name == "" {
		bundle.Name = nameFromPath(path)
	}

	return bundle, nil
}

// LoadManifestFile loads manifest data from a GDF file.
func LoadManifestFile(path string) (manif Manifest, err error) {
	manifestData, loadErr := os.ReadFile(path)
	if loadErr != nil {
		return manif, loadErr
	}

	unmarshaled, err := unmarshalManifest(manifestData)
	if err != nil {
		return manif, err
	}
	return parseManifest(unmarshaled)
}

// LoadDataFile loads a grammar from a single GDF data file or plain rule text
// file. Manifests are not followed.
func LoadDataFile(path string) (bundle Bundle, err error) {
	fileData, loadErr := os.ReadFile(path)
	if loadErr != nil {
		return bundle, loadErr
	}

	unmarshaled, err := unmarshalAnyGrammarData(fileData)
	if err != nil {
		return Bundle{}, err
	}

	bundle, err = parseGrammarData(unmarshaled)
	if err != nil {
		return bundle, err
	}

	if bundle.Name == "" {
		bundle.Name = nameFromPath(path)
	}
	return bundle, nil
}

// ScanFileInfo takes the given data bytes of bytes and attempts to read the GDF
// format common header info from it. The bytes are read up to the first
// instance of a table definition header and those bytes are parsed for the
// info. If there is an error reading the info, returns a non-nil error.
func ScanFileInfo(data []byte) (FileInfo, error) {
	// only run the toml parser up to the end of the top-lev table
	var topLevelEnd int = -1
	var onNewLine bool
	for b := range data {
		if onNewLine {
			if data[b] == '[' {
				topLevelEnd = b
				break
			}
		}

		if data[b] == '\n' {
			onNewLine = true
		} else if !unicode.IsSpace(rune(data[b])) {
			onNewLine = false
		}
	}

	scanData := data
	if topLevelEnd != -1 {
		scanData = data[:topLevelEnd]
	}

	var info FileInfo
	err := toml.Unmarshal(scanData, &info)
	return info, err
}

func nameFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

package gdf

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// manifStack is for two reasons ->
// * detect circular deps (not an error, but we need to know to avoid them)
// * avoid infinite recursion (allow up to MaxManifestRecursionDepth levels)
//
// Returnes ErrManifestEmpty if and only if the first manifest in the stack is
// empty, otherwise it is not an error.
func recursiveUnmarshalResource(path string, manifStack []string) (data topLevelGrammarData, err error) {
	path = filepath.Clean(path)

	fileData, loadErr := os.ReadFile(path)
	if loadErr != nil {
		return topLevelGrammarData{}, fmt.Errorf("%q: reading from disk: %w", path, loadErr)
	}

	fileInfo, err := ScanFileInfo(fileData)
	if err != nil || !fileInfo.IsGDF() {
		return plainRuleData(fileData), nil
	}

	if strings.ToUpper(fileInfo.Format) != FormatName {
		return topLevelGrammarData{}, fmt.Errorf("%q: file does not have a 'format = \"%s\"' entry", path, FormatName)
	}

	fileType := strings.ToUpper(fileInfo.Type)
	switch fileType {
	case "DATA":
		unmarshaled, err := unmarshalGrammarData(fileData)
		if err != nil {
			return unmarshaled, fmt.Errorf("grammar data file %q: %w", path, err)
		}
		return unmarshaled, nil
	case "MANIFEST":
		// check the stack to be sure we havent recursed too far and to be sure
		// we aren't about to re-scan a circular-ref'd manifest file we've
		// already brought in.
		if len(manifStack) >= MaxManifestRecursionDepth {
			return topLevelGrammarData{}, fmt.Errorf("manifest file %q: %w", path, ErrManifestStackOverflow)
		}
		for i := range manifStack {
			if manifStack[i] == path {
				return topLevelGrammarData{}, fmt.Errorf("manifest file %q: %w", path, ErrManifestCircularRef)
			}
		}

		unmarshaledManif, err := unmarshalManifest(fileData)
		if err != nil {
			return topLevelGrammarData{}, fmt.Errorf("manifest file %q: %w", path, err)
		}
		manif, err := parseManifest(unmarshaledManif)
		if err != nil {
			return topLevelGrammarData{}, fmt.Errorf("manifest file %q: %w", path, err)
		}

		// an empty manifest is only a problem for the very first manifest.
		if len(manif.Files) < 1 && len(manifStack) == 0 {
			return topLevelGrammarData{}, fmt.Errorf("manifest file %q: %w", path, ErrManifestEmpty)
		}

		unmarshaled := topLevelGrammarData{}

		// copy the manif stack into a new value and add self to it for recursive calls
		manifSubStack := make([]string, len(manifStack)+1)
		copy(manifSubStack, manifStack)
		manifSubStack[len(manifSubStack)-1] = path

		manifDir := filepath.Dir(path)

		processedFiles := 0

		for _, manifRelPath := range manif.Files {
			includedFilePath := filepath.Join(manifDir, manifRelPath)

			unmarshaledFileData, err := recursiveUnmarshalResource(includedFilePath, manifSubStack)
			if err != nil {
				// a circular reference is skipped, not failed on.
				if errors.Is(err, ErrManifestCircularRef) {
					continue
				}

				return topLevelGrammarData{}, fmt.Errorf("in file referred to by manifest file:\n    %q\n%w", path, err)
			}

			// combine the loaded data
			if unmarshaledFileData.Grammar.Name != "" {
				if unmarshaled.Grammar.Name != "" {
					return unmarshaled, fmt.Errorf("grammar data file %q: duplicate name; name has already been defined as %q", includedFilePath, unmarshaled.Grammar.Name)
				}
				unmarshaled.Grammar.Name = unmarshaledFileData.Grammar.Name
			}
			if strings.TrimSpace(unmarshaledFileData.Grammar.Rules) != "" {
				if unmarshaled.Grammar.Rules != "" {
					unmarshaled.Grammar.Rules += "\n"
				}
				unmarshaled.Grammar.Rules += strings.TrimRight(unmarshaledFileData.Grammar.Rules, "\n")
			}
			if len(unmarshaledFileData.Inputs) > 0 {
				unmarshaled.Inputs = append(unmarshaled.Inputs, unmarshaledFileData.Inputs...)
			}
			processedFiles++
		}

		if len(manifStack) == 0 && processedFiles == 0 {
			// the first file is a manifest and gave no valid definitions.
			return unmarshaled, fmt.Errorf("manifest file %q: %w", path, ErrManifestEmpty)
		}
		return unmarshaled, nil

	default:
		return topLevelGrammarData{}, fmt.Errorf("%q: file does not have 'type = ' entry set to either \"DATA\" or \"MANIFEST\"", path)
	}
}

// unmarshalAnyGrammarData unmarshals grammar data from the given bytes, which
// may be a GDF data file or plain rule text.
func unmarshalAnyGrammarData(data []byte) (topLevelGrammarData, error) {
	info, err := ScanFileInfo(data)
	if err != nil || !info.IsGDF() {
		return plainRuleData(data), nil
	}
	return unmarshalGrammarData(data)
}

// unmarshalGrammarData unmarshals grammar data from the given bytes. It does
// not parse or check the data.
func unmarshalGrammarData(tomlData []byte) (topLevelGrammarData, error) {
	var gdf topLevelGrammarData
	if tomlErr := toml.Unmarshal(tomlData, &gdf); tomlErr != nil {
		return gdf, tomlErr
	}

	if strings.ToUpper(gdf.Format) != FormatName {
		return gdf, fmt.Errorf("in header: 'format' key must exist and be set to '%s'", FormatName)
	}
	if strings.ToUpper(gdf.Type) != "DATA" {
		return gdf, fmt.Errorf("in header: 'type' must exist and be set to 'DATA'")
	}

	return gdf, nil
}

// unmarshalManifest unmarshals a GDF manifest from the given bytes. It does
// not parse or check the data.
func unmarshalManifest(tomlData []byte) (topLevelManifest, error) {
	var gdf topLevelManifest
	if tomlErr := toml.Unmarshal(tomlData, &gdf); tomlErr != nil {
		return gdf, tomlErr
	}

	if strings.ToUpper(gdf.Format) != FormatName {
		return gdf, fmt.Errorf("in header: 'format' key must exist and be set to '%s'", FormatName)
	}
	if strings.ToUpper(gdf.Type) != "MANIFEST" {
		return gdf, fmt.Errorf("in header: 'type' must exist and be set to 'MANIFEST'")
	}

	return gdf, nil
}

func plainRuleData(data []byte) topLevelGrammarData {
	return topLevelGrammarData{
		Grammar: grammarDef{Rules: string(data)},
	}
}

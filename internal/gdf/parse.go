package gdf

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dekarrin/llpred/parse"
)

// labels are words of letters, digits, and '_.:-' separated by single spaces
var labelRegexp = regexp.MustCompile(`^[A-Za-z0-9_.:-]+( [A-Za-z0-9_.:-]+)*$`)

func parseManifest(gdf topLevelManifest) (Manifest, error) {
	manif := Manifest{
		Files: gdf.Files,
	}

	return manif, nil
}

func parseGrammarData(gdf topLevelGrammarData) (Bundle, error) {
	bundle := Bundle{
		Name:  strings.TrimSpace(gdf.Grammar.Name),
		Rules: gdf.Grammar.Rules,
	}

	if strings.TrimSpace(bundle.Rules) == "" {
		return bundle, ErrNoRules
	}

	seenLabels := map[string]bool{}
	for i, in := range gdf.Inputs {
		label := strings.TrimSpace(in.Label)
		if label == "" {
			label = fmt.Sprintf("input-%d", i+1)
		}
		if !labelRegexp.MatchString(label) {
			return bundle, fmt.Errorf("input %d: label %q must be words of letters, digits, '_', '.', ':', or '-' separated by single spaces", i+1, label)
		}
		if seenLabels[label] {
			return bundle, fmt.Errorf("input %d: duplicate label %q", i+1, label)
		}
		seenLabels[label] = true

		tokens, err := parse.Tokenize(in.Tokens)
		if err != nil {
			return bundle, fmt.Errorf("input %q: %w", label, err)
		}

		parsed := Input{
			Label:  label,
			Tokens: tokens,
		}
		if in.Accept != nil {
			accept := *in.Accept
			parsed.Accept = &accept
		}

		bundle.Inputs = append(bundle.Inputs, parsed)
	}

	return bundle, nil
}

package gdf

type topLevelManifest struct {
	Format string   `toml:"format"`
	Type   string   `toml:"type"`
	Files  []string `toml:"files"`
}

// topLevelGrammarData is the top-level structure containing all keys in a
// complete GDF 'DATA' type file.
type topLevelGrammarData struct {
	Format  string     `toml:"format"`
	Type    string     `toml:"type"`
	Grammar grammarDef `toml:"grammar"`
	Inputs  []inputDef `toml:"input"`
}

type grammarDef struct {
	Name  string `toml:"name"`
	Rules string `toml:"rules"`
}

type inputDef struct {
	Label  string `toml:"label"`
	Tokens string `toml:"tokens"`
	Accept *bool  `toml:"accept"`
}

package gdf

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func writeFiles(t *testing.T, files map[string]string) string {
	dir := t.TempDir()
	for name, content := range files {
		p := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			t.Fatalf("creating dir for %q: %v", name, err)
		}
		if err := os.WriteFile(p, []byte(content), 0644); err != nil {
			t.Fatalf("writing %q: %v", name, err)
		}
	}
	return dir
}

const exprDataFile = `format = "LLG"
type = "DATA"

[grammar]
name = "expr"
rules = """
E -> E + T | T
T -> T * F | F
F -> ( E ) | id
"""

[[input]]
label = "sum"
tokens = "id + id"
accept = true

[[input]]
label = "dangling"
tokens = "id +"
accept = false

[[input]]
tokens = "( id )"
`

func Test_LoadResourceBundle(t *testing.T) {
	testCases := []struct {
		name         string
		files        map[string]string
		load         string
		expectName   string
		expectRules  string
		expectLabels []string
		expectErr    error
		expectAnyErr bool
	}{
		{
			name:         "single data file",
			files:        map[string]string{"expr.llg": exprDataFile},
			load:         "expr.llg",
			expectName:   "expr",
			expectRules:  "E -> E + T | T\nT -> T * F | F\nF -> ( E ) | id\n",
			expectLabels: []string{"sum", "dangling", "input-3"},
		},
		{
			name:         "plain rule text",
			files:        map[string]string{"simple.txt": "S -> a S | b\n"},
			load:         "simple.txt",
			expectName:   "simple",
			expectRules:  "S -> a S | b\n",
			expectLabels: nil,
		},
		{
			name: "manifest combines files in order",
			files: map[string]string{
				"main.llg": "format = \"LLG\"\ntype = \"MANIFEST\"\nfiles = [\"rules/a.txt\", \"rules/b.llg\"]\n",
				"rules/a.txt": "S -> A b\n",
				"rules/b.llg": "format = \"LLG\"\ntype = \"DATA\"\n\n" +
					"[grammar]\nrules = \"A -> a | ε\"\n\n" +
					"[[input]]\nlabel = \"ab\"\ntokens = \"a b\"\n",
			},
			load:         "main.llg",
			expectName:   "main",
			expectRules:  "S -> A b\nA -> a | ε",
			expectLabels: []string{"ab"},
		},
		{
			name: "nested manifests",
			files: map[string]string{
				"top.llg":       "format = \"LLG\"\ntype = \"MANIFEST\"\nfiles = [\"sub/inner.llg\"]\n",
				"sub/inner.llg": "format = \"LLG\"\ntype = \"MANIFEST\"\nfiles = [\"g.txt\"]\n",
				"sub/g.txt":     "S -> x",
			},
			load:        "top.llg",
			expectName:  "top",
			expectRules: "S -> x",
		},
		{
			name: "circular reference is skipped",
			files: map[string]string{
				"a.llg": "format = \"LLG\"\ntype = \"MANIFEST\"\nfiles = [\"b.llg\", \"g.txt\"]\n",
				"b.llg": "format = \"LLG\"\ntype = \"MANIFEST\"\nfiles = [\"a.llg\"]\n",
				"g.txt": "S -> x",
			},
			load:        "a.llg",
			expectName:  "a",
			expectRules: "S -> x",
		},
		{
			name: "empty manifest",
			files: map[string]string{
				"m.llg": "format = \"LLG\"\ntype = \"MANIFEST\"\nfiles = []\n",
			},
			load:      "m.llg",
			expectErr: ErrManifestEmpty,
		},
		{
			name: "manifest referring only to itself",
			files: map[string]string{
				"m.llg": "format = \"LLG\"\ntype = \"MANIFEST\"\nfiles = [\"m.llg\"]\n",
			},
			load:      "m.llg",
			expectErr: ErrManifestEmpty,
		},
		{
			name: "no rules anywhere",
			files: map[string]string{
				"d.llg": "format = \"LLG\"\ntype = \"DATA\"\n\n[[input]]\ntokens = \"a\"\n",
			},
			load:      "d.llg",
			expectErr: ErrNoRules,
		},
		{
			name: "wrong format",
			files: map[string]string{
				"d.llg": "format = \"TUNA\"\ntype = \"DATA\"\n",
			},
			load:         "d.llg",
			expectAnyErr: true,
		},
		{
			name: "label with spaces",
			files: map[string]string{
				"d.llg": "format = \"LLG\"\ntype = \"DATA\"\n\n[grammar]\nrules = \"S -> a\"\n\n" +
					"[[input]]\nlabel = \"just one a\"\ntokens = \"a\"\n",
			},
			load:         "d.llg",
			expectName:   "d",
			expectRules:  "S -> a",
			expectLabels: []string{"just one a"},
		},
		{
			name: "label with tab",
			files: map[string]string{
				"d.llg": "format = \"LLG\"\ntype = \"DATA\"\n\n[grammar]\nrules = \"S -> a\"\n\n" +
					"[[input]]\nlabel = \"one\\ta\"\ntokens = \"a\"\n",
			},
			load:         "d.llg",
			expectAnyErr: true,
		},
		{
			name: "duplicate input label",
			files: map[string]string{
				"d.llg": "format = \"LLG\"\ntype = \"DATA\"\n\n[grammar]\nrules = \"S -> a\"\n\n" +
					"[[input]]\nlabel = \"x\"\ntokens = \"a\"\n\n[[input]]\nlabel = \"x\"\ntokens = \"a a\"\n",
			},
			load:         "d.llg",
			expectAnyErr: true,
		},
		{
			name: "end marker in input",
			files: map[string]string{
				"d.llg": "format = \"LLG\"\ntype = \"DATA\"\n\n[grammar]\nrules = \"S -> a\"\n\n" +
					"[[input]]\ntokens = \"a $\"\n",
			},
			load:         "d.llg",
			expectAnyErr: true,
		},
		{
			name: "duplicate grammar name",
			files: map[string]string{
				"m.llg": "format = \"LLG\"\ntype = \"MANIFEST\"\nfiles = [\"a.llg\", \"b.llg\"]\n",
				"a.llg": "format = \"LLG\"\ntype = \"DATA\"\n\n[grammar]\nname = \"a\"\nrules = \"S -> a\"\n",
				"b.llg": "format = \"LLG\"\ntype = \"DATA\"\n\n[grammar]\nname = \"b\"\nrules = \"T -> b\"\n",
			},
			load:         "m.llg",
			expectAnyErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			dir := writeFiles(t, tc.files)

			actual, err := LoadResourceBundle(filepath.Join(dir, tc.load))
			if tc.expectErr != nil {
				assert.True(errors.Is(err, tc.expectErr), "expected error to match %q but got: %v", tc.expectErr, err)
				return
			}
			if tc.expectAnyErr {
				assert.Error(err)
				return
			}
			if !assert.NoError(err) {
				return
			}

			assert.Equal(tc.expectName, actual.Name)
			assert.Equal(tc.expectRules, actual.Rules)

			var actualLabels []string
			for _, in := range actual.Inputs {
				actualLabels = append(actualLabels, in.Label)
			}
			assert.Equal(tc.expectLabels, actualLabels)
		})
	}
}

func Test_LoadResourceBundle_inputs(t *testing.T) {
	assert := assert.New(t)

	dir := writeFiles(t, map[string]string{"expr.llg": exprDataFile})

	actual, err := LoadResourceBundle(filepath.Join(dir, "expr.llg"))
	if !assert.NoError(err) {
		return
	}
	if !assert.Len(actual.Inputs, 3) {
		return
	}

	assert.Equal([]string{"id", "+", "id"}, actual.Inputs[0].Tokens)
	if assert.NotNil(actual.Inputs[0].Accept) {
		assert.True(*actual.Inputs[0].Accept)
	}
	if assert.NotNil(actual.Inputs[1].Accept) {
		assert.False(*actual.Inputs[1].Accept)
	}
	assert.Nil(actual.Inputs[2].Accept)
}

func Test_LoadResourceBundle_stackOverflow(t *testing.T) {
	assert := assert.New(t)

	files := map[string]string{"g.txt": "S -> x"}
	for i := 0; i <= MaxManifestRecursionDepth; i++ {
		next := "g.txt"
		if i < MaxManifestRecursionDepth {
			next = manifestName(i + 1)
		}
		files[manifestName(i)] = "format = \"LLG\"\ntype = \"MANIFEST\"\nfiles = [\"" + next + "\"]\n"
	}
	dir := writeFiles(t, files)

	_, err := LoadResourceBundle(filepath.Join(dir, manifestName(0)))

	assert.True(errors.Is(err, ErrManifestStackOverflow), "expected stack overflow but got: %v", err)
}

func manifestName(i int) string {
	return "m" + string(rune('a'+i/26)) + string(rune('a'+i%26)) + ".llg"
}

func Test_ScanFileInfo(t *testing.T) {
	testCases := []struct {
		name      string
		data      string
		expect    FileInfo
		expectGDF bool
		expectErr bool
	}{
		{
			name:      "data header",
			data:      exprDataFile,
			expect:    FileInfo{Format: "LLG", Type: "DATA"},
			expectGDF: true,
		},
		{
			name:      "plain rules are not toml",
			data:      "S -> a S | b",
			expectErr: true,
		},
		{
			name:   "empty",
			data:   "",
			expect: FileInfo{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual, err := ScanFileInfo([]byte(tc.data))
			if tc.expectErr {
				assert.Error(err)
				return
			}
			if !assert.NoError(err) {
				return
			}

			assert.Equal(tc.expect, actual)
			assert.Equal(tc.expectGDF, actual.IsGDF())
		})
	}
}

func Test_LoadManifestFile(t *testing.T) {
	assert := assert.New(t)

	dir := writeFiles(t, map[string]string{
		"m.llg": "format = \"LLG\"\ntype = \"MANIFEST\"\nfiles = [\"a.txt\", \"b.txt\"]\n",
	})

	actual, err := LoadManifestFile(filepath.Join(dir, "m.llg"))
	if !assert.NoError(err) {
		return
	}
	assert.Equal([]string{"a.txt", "b.txt"}, actual.Files)
}

func Test_LoadDataFile_doesNotFollowManifest(t *testing.T) {
	assert := assert.New(t)

	dir := writeFiles(t, map[string]string{
		"m.llg": "format = \"LLG\"\ntype = \"MANIFEST\"\nfiles = [\"a.txt\"]\n",
		"a.txt": "S -> a",
	})

	_, err := LoadDataFile(filepath.Join(dir, "m.llg"))
	assert.Error(err)
}

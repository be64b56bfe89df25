package builtin

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/pronetheia/agenthub/tool"
)

var requirePattern = regexp.MustCompile(`(?m)^\s*(?:require\s+)?([\w.-]+(?:/[\w.-]+)+)\s+v[\w.+-]+`)

// Analysis inspects a codebase on disk: file and line counts, structure,
// languages, module dependencies and rough complexity. It never modifies the
// tree it analyzes.
type Analysis struct {
	defaultRoot string
}

// NewAnalysis constructs the tool. defaultRoot is used when a request names
// no target path.
func NewAnalysis(defaultRoot string) *Analysis {
	if defaultRoot == "" {
		defaultRoot, _ = os.Getwd()
	}
	return &Analysis{defaultRoot: defaultRoot}
}

// ID implements tool.Tool.
func (t *Analysis) ID() string { return "analysis" }

// Name implements tool.Tool.
func (t *Analysis) Name() string { return "AnalysisMCP" }

// Category implements tool.Tool.
func (t *Analysis) Category() string { return "analysis" }

// Description implements tool.Tool.
func (t *Analysis) Description() string {
	return "Codebase analysis including pattern identification, capability assessment, dependency analysis, and metrics calculation"
}

// SecurityLevel implements tool.Tool.
func (t *Analysis) SecurityLevel() tool.SecurityLevel { return tool.SecuritySafe }

// ExecutionTimeout implements tool.Tool.
func (t *Analysis) ExecutionTimeout() time.Duration { return 30 * time.Second }

// InputSchema implements tool.Tool.
func (t *Analysis) InputSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"analysis_type": map[string]any{
				"type": "string",
				"enum": []string{"codebase", "patterns", "capabilities", "dependencies", "metrics"},
			},
			"target_path": map[string]any{"type": "string"},
		},
		"required": []string{"analysis_type"},
	}
}

// OutputSchema implements tool.Tool.
func (t *Analysis) OutputSchema() map[string]any {
	return map[string]any{"type": "object"}
}

// ValidateParameters implements tool.Tool.
func (t *Analysis) ValidateParameters(params map[string]any) error {
	return validate(params, t.InputSchema())
}

// Execute implements tool.Tool.
func (t *Analysis) Execute(_ context.Context, params map[string]any) (any, error) {
	analysisType, _ := params["analysis_type"].(string)
	target := stringParam(params, "target_path", t.defaultRoot)

	switch strings.ToLower(analysisType) {
	case "codebase":
		return t.analyzeCodebase(target)
	case "patterns":
		return t.identifyPatterns(target)
	case "capabilities":
		return t.assessCapabilities(target)
	case "dependencies":
		return t.analyzeDependencies(target)
	case "metrics":
		return t.calculateMetrics(target)
	default:
		return nil, fmt.Errorf("unknown analysis type: %s", analysisType)
	}
}

func (t *Analysis) analyzeCodebase(path string) (any, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("path not found: %s", path)
	}
	files := countFiles(path)
	return map[string]any{
		"path":        path,
		"files":       files,
		"structure":   analyzeStructure(path),
		"languages":   detectLanguages(path),
		"total_lines": countLines(path),
		"timestamp":   time.Now().UTC(),
	}, nil
}

func (t *Analysis) identifyPatterns(path string) (any, error) {
	patterns := []map[string]any{}
	checks := []struct {
		dir     string
		pattern string
	}{
		{"cmd", "Command Entrypoint Layout"},
		{"internal", "Internal Package Encapsulation"},
		{"agent", "Multi-Agent System"},
		{"store", "Storage Abstraction"},
	}
	for _, c := range checks {
		if dirExists(filepath.Join(path, c.dir)) {
			patterns = append(patterns, map[string]any{"pattern": c.pattern, "confidence": 0.8})
		}
	}
	return map[string]any{
		"path":           path,
		"patterns":       patterns,
		"total_patterns": len(patterns),
	}, nil
}

func (t *Analysis) assessCapabilities(path string) (any, error) {
	capabilities := []map[string]any{}
	if fileExists(filepath.Join(path, "go.mod")) {
		capabilities = append(capabilities, map[string]any{"capability": "Go Module", "present": true})
	}
	if dirExists(filepath.Join(path, "cmd")) {
		capabilities = append(capabilities, map[string]any{"capability": "CLI Application", "present": true})
	}
	if dirExists(filepath.Join(path, "agent")) {
		capabilities = append(capabilities, map[string]any{"capability": "Multi-Agent System", "present": true})
	}
	if hasTestFiles(path) {
		capabilities = append(capabilities, map[string]any{"capability": "Automated Tests", "present": true})
	}
	return map[string]any{
		"path":               path,
		"capabilities":       capabilities,
		"total_capabilities": len(capabilities),
	}, nil
}

func (t *Analysis) analyzeDependencies(path string) (any, error) {
	dependencies := []map[string]any{}
	err := filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || d.Name() != "go.mod" {
			return err
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return nil
		}
		for _, m := range requirePattern.FindAllSubmatch(data, -1) {
			name := string(m[1])
			dependencies = append(dependencies, map[string]any{
				"name":   name,
				"type":   "go module",
				"source": p,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"path":               path,
		"dependencies":       dependencies,
		"total_dependencies": len(dependencies),
	}, nil
}

func (t *Analysis) calculateMetrics(path string) (any, error) {
	files := countFiles(path)
	lines := countLines(path)
	return map[string]any{
		"path":        path,
		"loc":         lines,
		"files":       files,
		"directories": countDirectories(path),
		"complexity":  estimateComplexity(files["total"], lines),
		"timestamp":   time.Now().UTC(),
	}, nil
}

func countFiles(path string) map[string]int {
	counts := map[string]int{"total": 0, "go": 0, "json": 0, "md": 0, "yaml": 0}
	filepath.WalkDir(path, func(_ string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		counts["total"]++
		switch strings.TrimPrefix(filepath.Ext(d.Name()), ".") {
		case "go":
			counts["go"]++
		case "json":
			counts["json"]++
		case "md":
			counts["md"]++
		case "yaml", "yml":
			counts["yaml"]++
		}
		return nil
	})
	return counts
}

func countLines(path string) int {
	total := 0
	filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		switch filepath.Ext(d.Name()) {
		case ".go", ".ts", ".tsx", ".js", ".sql":
			if data, err := os.ReadFile(p); err == nil {
				total += bytes.Count(data, []byte("\n"))
			}
		}
		return nil
	})
	return total
}

func countDirectories(path string) int {
	count := 0
	filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err == nil && d.IsDir() && p != path {
			count++
		}
		return nil
	})
	return count
}

func analyzeStructure(path string) map[string]any {
	top := []string{}
	if entries, err := os.ReadDir(path); err == nil {
		for _, e := range entries {
			if e.IsDir() {
				top = append(top, e.Name())
			}
		}
	}
	sort.Strings(top)
	return map[string]any{
		"top_level_directories": top,
		"depth":                 maxDepth(path, 0),
	}
}

func maxDepth(path string, current int) int {
	if current > 10 {
		return current
	}
	deepest := current
	entries, err := os.ReadDir(path)
	if err != nil {
		return current
	}
	for _, e := range entries {
		if e.IsDir() {
			if d := maxDepth(filepath.Join(path, e.Name()), current+1); d > deepest {
				deepest = d
			}
		}
	}
	return deepest
}

func detectLanguages(path string) []string {
	seen := map[string]bool{}
	filepath.WalkDir(path, func(_ string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		switch filepath.Ext(d.Name()) {
		case ".go":
			seen["Go"] = true
		case ".ts", ".tsx":
			seen["TypeScript"] = true
		case ".js":
			seen["JavaScript"] = true
		case ".sql":
			seen["SQL"] = true
		}
		return nil
	})
	languages := make([]string, 0, len(seen))
	for lang := range seen {
		languages = append(languages, lang)
	}
	sort.Strings(languages)
	return languages
}

func estimateComplexity(fileCount, lineCount int) string {
	switch {
	case fileCount < 10 && lineCount < 1000:
		return "Simple"
	case fileCount < 50 && lineCount < 5000:
		return "Moderate"
	case fileCount < 200 && lineCount < 20000:
		return "Complex"
	default:
		return "Very Complex"
	}
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func hasTestFiles(path string) bool {
	found := false
	filepath.WalkDir(path, func(_ string, d fs.DirEntry, err error) error {
		if err == nil && !d.IsDir() && strings.HasSuffix(d.Name(), "_test.go") {
			found = true
			return fs.SkipAll
		}
		return nil
	})
	return found
}

package builtin

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pronetheia/agenthub/logging"
	"github.com/pronetheia/agenthub/tool"
)

// FileOperationsOptions configures a FileOperations tool.
type FileOperationsOptions struct {
	Logger logging.Logger
}

// FileOperations provides create, read, update, delete and list operations
// inside a sandboxed workspace directory. Paths resolving outside the
// workspace are rejected.
type FileOperations struct {
	basePath string
	logger   logging.Logger
}

// NewFileOperations constructs the tool rooted at workspace. The directory is
// created if missing.
func NewFileOperations(workspace string, optFns ...func(o *FileOperationsOptions)) (*FileOperations, error) {
	opts := FileOperationsOptions{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}

	abs, err := filepath.Abs(workspace)
	if err != nil {
		return nil, fmt.Errorf("resolve workspace: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create workspace: %w", err)
	}
	return &FileOperations{basePath: abs, logger: opts.Logger}, nil
}

// ID implements tool.Tool.
func (t *FileOperations) ID() string { return "file-operations" }

// Name implements tool.Tool.
func (t *FileOperations) Name() string { return "FileOperationsMCP" }

// Category implements tool.Tool.
func (t *FileOperations) Category() string { return "file_ops" }

// Description implements tool.Tool.
func (t *FileOperations) Description() string {
	return "File system operations including create, read, update, delete, and directory listing"
}

// SecurityLevel implements tool.Tool.
func (t *FileOperations) SecurityLevel() tool.SecurityLevel { return tool.SecurityElevated }

// ExecutionTimeout implements tool.Tool.
func (t *FileOperations) ExecutionTimeout() time.Duration { return 10 * time.Second }

// InputSchema implements tool.Tool.
func (t *FileOperations) InputSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"operation": map[string]any{
				"type": "string",
				"enum": []string{"create", "read", "update", "delete", "list"},
			},
			"path":    map[string]any{"type": "string"},
			"content": map[string]any{"type": "string"},
		},
		"required": []string{"operation", "path"},
	}
}

// OutputSchema implements tool.Tool.
func (t *FileOperations) OutputSchema() map[string]any {
	return map[string]any{"type": "object"}
}

// ValidateParameters implements tool.Tool.
func (t *FileOperations) ValidateParameters(params map[string]any) error {
	return validate(params, t.InputSchema())
}

// Execute implements tool.Tool.
func (t *FileOperations) Execute(_ context.Context, params map[string]any) (any, error) {
	operation, _ := params["operation"].(string)
	relPath, _ := params["path"].(string)
	content, _ := params["content"].(string)

	fullPath, err := t.safePath(relPath)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(operation) {
	case "create":
		return t.createFile(fullPath, content)
	case "read":
		return t.readFile(fullPath)
	case "update":
		return t.updateFile(fullPath, content)
	case "delete":
		return t.deletePath(fullPath)
	case "list":
		return t.listDirectory(fullPath)
	default:
		return nil, fmt.Errorf("unknown operation: %s", operation)
	}
}

// safePath resolves relativePath against the workspace and rejects escapes.
func (t *FileOperations) safePath(relativePath string) (string, error) {
	fullPath := filepath.Clean(filepath.Join(t.basePath, relativePath))
	rel, err := filepath.Rel(t.basePath, fullPath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("access to path outside workspace is forbidden")
	}
	return fullPath, nil
}

func (t *FileOperations) createFile(path, content string) (any, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return nil, err
	}
	t.logger.Info("created file", "path", path)
	return map[string]any{"created": true, "path": path, "size": len(content)}, nil
}

func (t *FileOperations) readFile(path string) (any, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("file not found: %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"path":     path,
		"content":  string(data),
		"size":     info.Size(),
		"modified": info.ModTime().UTC(),
	}, nil
}

func (t *FileOperations) updateFile(path, content string) (any, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("file not found: %s", path)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return nil, err
	}
	t.logger.Info("updated file", "path", path)
	return map[string]any{"updated": true, "path": path, "size": len(content)}, nil
}

func (t *FileOperations) deletePath(path string) (any, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("path not found: %s", path)
	}
	if info.IsDir() {
		if err := os.RemoveAll(path); err != nil {
			return nil, err
		}
		t.logger.Info("deleted directory", "path", path)
		return map[string]any{"deleted": true, "path": path, "type": "directory"}, nil
	}
	if err := os.Remove(path); err != nil {
		return nil, err
	}
	t.logger.Info("deleted file", "path", path)
	return map[string]any{"deleted": true, "path": path}, nil
}

func (t *FileOperations) listDirectory(path string) (any, error) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		path = filepath.Dir(path)
	}

	dirEntries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}

	entries := make([]map[string]any, 0, len(dirEntries))
	for _, e := range dirEntries {
		entry := map[string]any{
			"name": e.Name(),
			"path": filepath.Join(path, e.Name()),
		}
		if e.IsDir() {
			entry["type"] = "directory"
		} else {
			entry["type"] = "file"
			if fi, err := e.Info(); err == nil {
				entry["size"] = fi.Size()
				entry["modified"] = fi.ModTime().UTC()
			}
		}
		entries = append(entries, entry)
	}
	return map[string]any{"path": path, "entries": entries, "count": len(entries)}, nil
}
